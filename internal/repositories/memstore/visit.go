package memstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsdevblog/linkshort/internal/db"
	"github.com/fsdevblog/linkshort/internal/db/memory"
	"github.com/fsdevblog/linkshort/internal/models"
)

type VisitRepo struct {
	s  *db.MemoryStorage
	mu sync.Mutex
}

func NewVisitRepo(store *db.MemoryStorage) *VisitRepo {
	return &VisitRepo{s: store}
}

// RecordVisit сохраняет переход и увеличивает счетчик переходов ссылки.
//
// Переход пишется первым: если запись не удалась, счетчик не трогается.
// Если ссылка к моменту инкремента пропала или удалена, сохраненный переход
// убирается. Счетчик ссылки таким образом только растет.
func (v *VisitRepo) RecordVisit(ctx context.Context, visit *models.Visit) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if visit.CreatedAt.IsZero() {
		visit.CreatedAt = time.Now().UTC()
	}
	if err := memory.Set[models.Visit](ctx, visit.ID, visit, v.s.Visits); err != nil {
		return fmt.Errorf("failed to record visit of link %s: %w", visit.LinkID, convertErrorType(err))
	}
	if err := incrementClicks(ctx, v.s, visit.LinkID); err != nil {
		_ = v.s.Visits.Delete(context.WithoutCancel(ctx), visit.ID)
		return fmt.Errorf("failed to record visit of link %s: %w", visit.LinkID, err)
	}
	return nil
}
