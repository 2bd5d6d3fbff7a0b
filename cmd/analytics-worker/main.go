package main

import (
	"fmt"

	"github.com/fsdevblog/linkshort/internal/app"
	"github.com/fsdevblog/linkshort/internal/bmeta"
	"github.com/fsdevblog/linkshort/internal/config"
	"go.uber.org/zap"
)

const serviceName = "analytics-worker"

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	meta := bmeta.New(buildVersion, buildDate, buildCommit)
	meta.Print()

	if err := run(meta); err != nil {
		panic(err)
	}
}

func run(meta bmeta.Meta) error {
	appConf, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := app.NewLogger(appConf.Log, serviceName)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	flush, err := app.InitSentry(appConf, meta.Release(serviceName))
	if err != nil {
		return fmt.Errorf("init sentry: %w", err)
	}
	defer flush()

	worker, err := app.NewWorker(*appConf, logger)
	if err != nil {
		logger.Error("failed to init worker", zap.Error(err))
		return err
	}
	if err = worker.Run(); err != nil {
		logger.Error("worker stopped with error", zap.Error(err))
		return err
	}
	return nil
}
