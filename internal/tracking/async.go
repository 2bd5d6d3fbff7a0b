package tracking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsdevblog/linkshort/internal/models"
	"github.com/fsdevblog/linkshort/internal/services"
	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

// Async учитывает переходы в фоновых горутинах.
type Async struct {
	tracker Tracker
	timeout time.Duration
	logger  *zap.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewAsync создает диспетчер. timeout ограничивает учет одного перехода.
func NewAsync(tracker Tracker, logger *zap.Logger, timeout time.Duration) *Async {
	if timeout <= 0 {
		timeout = defaultTrackTimeout
	}
	return &Async{
		tracker: tracker,
		timeout: timeout,
		logger:  logger.With(zap.String("module", "tracking/async")),
	}
}

// Dispatch запускает учет перехода и сразу возвращает управление.
// После Close переходы отбрасываются.
func (a *Async) Dispatch(link *models.Link, meta services.VisitMeta) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		a.logger.Warn("visit dropped: dispatcher closed", zap.String("link", link.ID))
		return
	}
	if meta.OccurredAt.IsZero() {
		meta.OccurredAt = time.Now()
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()
		if err := a.tracker.TrackVisit(ctx, link, meta); err != nil {
			a.logger.Error("failed to track visit", zap.String("link", link.ID), zap.Error(err))
			sentry.CaptureException(fmt.Errorf("track visit of link %s: %w", link.ID, err))
		}
	}()
}

// Close перестает принимать переходы и ждет завершения начатых, но не дольше ctx.
func (a *Async) Close(ctx context.Context) error {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for visits: %w", ctx.Err())
	}
}
