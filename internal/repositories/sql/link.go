package sql

import (
	"context"
	"time"

	"github.com/fsdevblog/linkshort/internal/models"
	"github.com/fsdevblog/linkshort/internal/repositories"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// LinkRepo репозиторий ссылок поверх gorm. Мягко удаленные записи gorm исключает
// из выборок автоматически.
type LinkRepo struct {
	db *gorm.DB
}

func NewLinkRepo(db *gorm.DB) *LinkRepo {
	return &LinkRepo{db: db}
}

// GetByShortCode возвращает неудаленную ссылку по короткому коду.
func (l *LinkRepo) GetByShortCode(ctx context.Context, shortCode string) (*models.Link, error) {
	var link models.Link
	if err := l.db.WithContext(ctx).Where("short_code = ?", shortCode).First(&link).Error; err != nil {
		return nil, errors.Wrapf(convertErrorType(err), "failed to get link by short code %s", shortCode)
	}
	return &link, nil
}

// ExistsByShortCode сообщает, занят ли код неудаленной ссылкой.
func (l *LinkRepo) ExistsByShortCode(ctx context.Context, shortCode string) (bool, error) {
	var count int64
	if err := l.db.WithContext(ctx).
		Model(&models.Link{}).
		Where("short_code = ?", shortCode).
		Count(&count).Error; err != nil {
		return false, errors.Wrapf(convertErrorType(err), "failed to check short code %s", shortCode)
	}
	return count > 0, nil
}

// GetByIDOwner возвращает ссылку, принадлежащую владельцу ownerID.
func (l *LinkRepo) GetByIDOwner(ctx context.Context, id, ownerID string) (*models.Link, error) {
	var link models.Link
	if err := l.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&link).Error; err != nil {
		return nil, errors.Wrapf(convertErrorType(err), "failed to get link %s of owner %s", id, ownerID)
	}
	return &link, nil
}

// ListByOwner возвращает ссылки владельца, новые первыми.
func (l *LinkRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.Link, error) {
	var links []models.Link
	if err := l.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&links).Error; err != nil {
		return nil, errors.Wrapf(convertErrorType(err), "failed to list links of owner %s", ownerID)
	}
	return links, nil
}

// Create сохраняет новую ссылку. Нарушение уникальности короткого кода
// возвращается как repositories.ErrDuplicateKey.
func (l *LinkRepo) Create(ctx context.Context, link *models.Link) error {
	if err := l.db.WithContext(ctx).Create(link).Error; err != nil {
		return errors.Wrap(convertErrorType(err), "failed to create link")
	}
	return nil
}

// Update сохраняет изменяемые поля ссылки. Короткий код, владелец и счетчик
// переходов этим методом не меняются.
func (l *LinkRepo) Update(ctx context.Context, link *models.Link) error {
	link.UpdatedAt = time.Now().UTC()
	res := l.db.WithContext(ctx).
		Model(&models.Link{}).
		Where("id = ?", link.ID).
		Updates(map[string]any{
			"original_url":  link.OriginalURL,
			"expires_at":    link.ExpiresAt,
			"max_clicks":    link.MaxClicks,
			"password_hash": link.PasswordHash,
			"tags":          link.Tags,
			"updated_at":    link.UpdatedAt,
		})
	if res.Error != nil {
		return errors.Wrapf(convertErrorType(res.Error), "failed to update link %s", link.ID)
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(repositories.ErrNotFound, "failed to update link %s", link.ID)
	}
	return nil
}

// SoftDelete помечает ссылку владельца удаленной.
func (l *LinkRepo) SoftDelete(ctx context.Context, id, ownerID string) error {
	res := l.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&models.Link{})
	if res.Error != nil {
		return errors.Wrapf(convertErrorType(res.Error), "failed to delete link %s", id)
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(repositories.ErrNotFound, "failed to delete link %s", id)
	}
	return nil
}

func (l *LinkRepo) SetQRCodePath(ctx context.Context, id, path string) error {
	res := l.db.WithContext(ctx).
		Model(&models.Link{}).
		Where("id = ?", id).
		Update("qr_code_path", path)
	if res.Error != nil {
		return errors.Wrapf(convertErrorType(res.Error), "failed to set qr code path of link %s", id)
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(repositories.ErrNotFound, "failed to set qr code path of link %s", id)
	}
	return nil
}

func incrementClicks(tx *gorm.DB, id string) error {
	res := tx.Model(&models.Link{}).
		Where("id = ?", id).
		UpdateColumn("clicks", gorm.Expr("clicks + ?", 1))
	if res.Error != nil {
		return convertErrorType(res.Error)
	}
	if res.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
