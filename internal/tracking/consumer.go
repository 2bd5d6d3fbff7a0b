package tracking

import (
	"context"
	"errors"
	"fmt"

	"github.com/fsdevblog/linkshort/internal/services"
	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const defaultPrefetch = 16

type action int

const (
	actionAck     action = iota // учтено
	actionRequeue               // временная ошибка хранилища, повторить
	actionReject                // сообщение не может быть учтено никогда
)

// Consumer читает события переходов из очереди и учитывает их.
type Consumer struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	queue    string
	prefetch int
	tracker  Tracker
	logger   *zap.Logger
}

func DialConsumer(url, queue string, prefetch int, tracker Tracker, logger *zap.Logger) (*Consumer, error) {
	conn, ch, err := openQueue(url, queue)
	if err != nil {
		return nil, err
	}
	if prefetch <= 0 {
		prefetch = defaultPrefetch
	}
	return &Consumer{
		conn:     conn,
		ch:       ch,
		queue:    queue,
		prefetch: prefetch,
		tracker:  tracker,
		logger:   logger.With(zap.String("module", "tracking/consumer")),
	}, nil
}

// Run обрабатывает сообщения до отмены ctx или закрытия канала брокером.
func (c *Consumer) Run(ctx context.Context) error {
	if err := c.ch.Qos(c.prefetch, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}
	deliveries, err := c.ch.ConsumeWithContext(ctx, c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", c.queue, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			c.settle(d, c.handle(ctx, d.Body))
		}
	}
}

func (c *Consumer) settle(d amqp.Delivery, act action) {
	var err error
	switch act {
	case actionAck:
		err = d.Ack(false)
	case actionRequeue:
		err = d.Nack(false, true)
	case actionReject:
		err = d.Reject(false)
	}
	if err != nil {
		c.logger.Error("failed to settle delivery", zap.Uint64("tag", d.DeliveryTag), zap.Error(err))
	}
}

func (c *Consumer) handle(ctx context.Context, body []byte) action {
	var event VisitEvent
	if err := json.Unmarshal(body, &event); err != nil || event.LinkID == "" {
		c.logger.Warn("malformed visit event", zap.ByteString("body", body), zap.Error(err))
		return actionReject
	}

	err := c.tracker.TrackVisit(ctx, event.link(), event.meta())
	switch {
	case err == nil:
		return actionAck
	case errors.Is(err, services.ErrNotFound):
		c.logger.Warn("visit of unknown link", zap.String("link", event.LinkID))
		return actionReject
	default:
		c.logger.Error("failed to track visit", zap.String("link", event.LinkID), zap.Error(err))
		return actionRequeue
	}
}

func (c *Consumer) Close() error {
	chErr := c.ch.Close()
	if connErr := c.conn.Close(); connErr != nil {
		return fmt.Errorf("close amqp connection: %w", connErr)
	}
	return chErr //nolint:wrapcheck
}
