package app

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/fsdevblog/linkshort/internal/config"
	"github.com/fsdevblog/linkshort/internal/tracking"
	"go.uber.org/zap"
)

// Worker учитывает переходы из очереди брокера.
type Worker struct {
	core     *Core
	consumer *tracking.Consumer
	Logger   *zap.Logger
}

// NewWorker подключается к хранилищу и очереди переходов.
func NewWorker(conf config.Config, logger *zap.Logger) (*Worker, error) {
	if conf.AMQPURL == "" {
		return nil, errors.New("AMQP_URL is required for the analytics worker")
	}
	if err := checkQueueStorage(&conf); err != nil {
		return nil, err
	}
	core, err := NewCore(&conf, logger, false)
	if err != nil {
		return nil, err
	}
	consumer, err := tracking.DialConsumer(conf.AMQPURL, conf.VisitsQueue, conf.AnalyticsPrefetch, core.Services.RedirectService, logger)
	if err != nil {
		core.Close(logger)
		return nil, fmt.Errorf("init visits consumer: %w", err)
	}
	return &Worker{core: core, consumer: consumer, Logger: logger}, nil
}

// Run обрабатывает очередь до сигнала завершения.
func (w *Worker) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	defer w.core.Close(w.Logger)
	defer func() {
		if err := w.consumer.Close(); err != nil {
			w.Logger.Error("failed to close consumer", zap.Error(err))
		}
	}()

	w.Logger.Info("analytics worker started")
	err := w.consumer.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("consume visits: %w", err)
	}
	w.Logger.Info("analytics worker stopped")
	return nil
}
