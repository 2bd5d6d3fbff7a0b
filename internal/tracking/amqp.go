package tracking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fsdevblog/linkshort/internal/models"
	"github.com/fsdevblog/linkshort/internal/services"
	"github.com/getsentry/sentry-go"
	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	DefaultVisitsQueue    = "link_visits"
	defaultPublishTimeout = 2 * time.Second
	defaultPublishBuffer  = 1024
	defaultRedialDelay    = time.Second
)

// channel подмножество *amqp.Channel, которым пользуется издатель.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// session открытое соединение с брокером. closed закрывается или получает ошибку,
// когда соединение обрывается.
type session struct {
	ch     channel
	closed <-chan *amqp.Error
	close  func() error
}

func (s *session) broken() bool {
	select {
	case <-s.closed:
		return true
	default:
		return false
	}
}

// AMQPPublisher публикует события переходов в очередь RabbitMQ.
//
// Dispatch только кладет событие в буфер. Публикует одна фоновая горутина,
// она же переподключается к брокеру после обрыва соединения.
type AMQPPublisher struct {
	dial        func() (*session, error)
	queue       string
	redialDelay time.Duration
	logger      *zap.Logger

	events chan VisitEvent
	done   chan struct{}
	ctx    context.Context //nolint:containedctx
	abort  context.CancelFunc

	mu     sync.RWMutex
	closed bool
}

// DialAMQP подключается к брокеру, объявляет устойчивую очередь queue
// и запускает фоновую публикацию.
//
// Параметры:
//   - url: адрес брокера (amqp://...)
//   - queue: имя очереди
//   - logger: логгер
//
// Возвращает:
//   - *AMQPPublisher: издатель
//   - error: ошибка первого подключения или объявления очереди
func DialAMQP(url, queue string, logger *zap.Logger) (*AMQPPublisher, error) {
	dial := func() (*session, error) {
		conn, ch, err := openQueue(url, queue)
		if err != nil {
			return nil, err
		}
		return &session{
			ch:     ch,
			closed: conn.NotifyClose(make(chan *amqp.Error, 1)),
			close: func() error {
				_ = ch.Close()
				return conn.Close() //nolint:wrapcheck
			},
		}, nil
	}
	first, err := dial()
	if err != nil {
		return nil, err
	}
	return newAMQPPublisher(first, dial, queue, defaultPublishBuffer, defaultRedialDelay, logger), nil
}

func newAMQPPublisher(
	first *session,
	dial func() (*session, error),
	queue string,
	buffer int,
	redialDelay time.Duration,
	logger *zap.Logger,
) *AMQPPublisher {
	ctx, cancel := context.WithCancel(context.Background())
	p := &AMQPPublisher{
		dial:        dial,
		queue:       queue,
		redialDelay: redialDelay,
		logger:      logger.With(zap.String("module", "tracking/amqp")),
		events:      make(chan VisitEvent, buffer),
		done:        make(chan struct{}),
		ctx:         ctx,
		abort:       cancel,
	}
	go p.run(first)
	return p
}

func openQueue(url, queue string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open amqp channel: %w", err)
	}
	if _, err = ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}
	return conn, ch, nil
}

// Dispatch ставит событие перехода в очередь на публикацию и сразу возвращает управление.
// Если буфер заполнен или издатель закрыт, событие отбрасывается с записью в лог.
func (p *AMQPPublisher) Dispatch(link *models.Link, meta services.VisitMeta) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.logger.Warn("visit dropped: publisher closed", zap.String("link", link.ID))
		return
	}
	select {
	case p.events <- newVisitEvent(link, meta):
	default:
		p.logger.Warn("visit dropped: publish buffer is full", zap.String("link", link.ID))
	}
}

func (p *AMQPPublisher) run(s *session) {
	defer close(p.done)
	defer func() {
		if s != nil {
			_ = s.close()
		}
	}()

	for event := range p.events {
		for {
			if p.ctx.Err() != nil {
				return
			}
			if s != nil && s.broken() {
				_ = s.close()
				s = nil
			}
			if s == nil {
				if s = p.redial(); s == nil {
					return
				}
			}
			err := p.publish(s.ch, event)
			if err == nil {
				break
			}
			if errors.Is(err, amqp.ErrClosed) || s.broken() {
				p.logger.Warn("amqp connection lost, reconnecting", zap.Error(err))
				_ = s.close()
				s = nil
				continue
			}
			p.logger.Error("failed to publish visit", zap.String("link", event.LinkID), zap.Error(err))
			sentry.CaptureException(err)
			break
		}
	}
}

// redial подключается заново, пока не получится или пока издатель не будет прерван.
func (p *AMQPPublisher) redial() *session {
	for {
		s, err := p.dial()
		if err == nil {
			p.logger.Info("amqp connection restored")
			return s
		}
		p.logger.Error("failed to reconnect to amqp", zap.Error(err))
		select {
		case <-time.After(p.redialDelay):
		case <-p.ctx.Done():
			return nil
		}
	}
}

func (p *AMQPPublisher) publish(ch channel, event VisitEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal visit event: %w", err)
	}

	ctx, cancel := context.WithTimeout(p.ctx, defaultPublishTimeout)
	defer cancel()

	err = ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.OccurredAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish visit of link %s: %w", event.LinkID, err)
	}
	return nil
}

// Close перестает принимать события и дожидается публикации уже принятых, но не дольше ctx.
// По истечении ctx неопубликованные события отбрасываются.
func (p *AMQPPublisher) Close(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.events)
	}
	p.mu.Unlock()

	select {
	case <-p.done:
		p.abort()
		return nil
	case <-ctx.Done():
		p.abort()
		<-p.done
		return fmt.Errorf("draining visits: %w", ctx.Err())
	}
}
