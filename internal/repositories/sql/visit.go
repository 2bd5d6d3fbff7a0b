package sql

import (
	"context"

	"github.com/fsdevblog/linkshort/internal/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type VisitRepo struct {
	db *gorm.DB
}

func NewVisitRepo(db *gorm.DB) *VisitRepo {
	return &VisitRepo{db: db}
}

// RecordVisit в одной транзакции увеличивает счетчик переходов ссылки и сохраняет переход.
// Если ссылка не найдена или удалена, ничего не записывается.
func (v *VisitRepo) RecordVisit(ctx context.Context, visit *models.Visit) error {
	err := v.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if incErr := incrementClicks(tx, visit.LinkID); incErr != nil {
			return incErr
		}
		if createErr := tx.Create(visit).Error; createErr != nil {
			return convertErrorType(createErr)
		}
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "failed to record visit of link %s", visit.LinkID)
	}
	return nil
}
