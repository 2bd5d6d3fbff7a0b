package memstore

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/fsdevblog/linkshort/internal/db"
	"github.com/fsdevblog/linkshort/internal/db/memory"
	"github.com/fsdevblog/linkshort/internal/models"
	"github.com/fsdevblog/linkshort/internal/repositories"
	"gorm.io/gorm"
)

// LinkRepo представляет собой репозиторий ссылок в памяти.
type LinkRepo struct {
	s *db.MemoryStorage
	// mu сериализует операции, затрагивающие сразу Links и Codes.
	mu sync.Mutex
}

// NewLinkRepo создает новый экземпляр репозитория ссылок.
//
// Параметры:
//   - store: экземпляр хранилища в памяти
//
// Возвращает:
//   - *LinkRepo: инициализированный репозиторий
func NewLinkRepo(store *db.MemoryStorage) *LinkRepo {
	return &LinkRepo{s: store}
}

// GetByShortCode получает неудаленную ссылку по короткому коду.
//
// Параметры:
//   - ctx: контекст выполнения
//   - shortCode: короткий код
//
// Возвращает:
//   - *models.Link: найденная запись
//   - error: ошибка поиска (преобразованная через convertErrorType)
func (l *LinkRepo) GetByShortCode(ctx context.Context, shortCode string) (*models.Link, error) {
	id, err := memory.Get[string](ctx, shortCode, l.s.Codes)
	if err != nil {
		return nil, fmt.Errorf("failed to get link by short code %s: %w", shortCode, convertErrorType(err))
	}
	link, err := l.getAlive(ctx, *id)
	if err != nil {
		return nil, fmt.Errorf("failed to get link by short code %s: %w", shortCode, err)
	}
	return link, nil
}

func (l *LinkRepo) ExistsByShortCode(_ context.Context, shortCode string) (bool, error) {
	return l.s.Codes.IsExist(shortCode), nil
}

// GetByIDOwner получает ссылку по id, если она принадлежит ownerID и не удалена.
func (l *LinkRepo) GetByIDOwner(ctx context.Context, id, ownerID string) (*models.Link, error) {
	link, err := l.getAlive(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get link %s: %w", id, err)
	}
	if !isOwnedBy(link, ownerID) {
		return nil, fmt.Errorf("failed to get link %s: %w", id, repositories.ErrNotFound)
	}
	return link, nil
}

// ListByOwner возвращает неудаленные ссылки владельца, новые первыми.
func (l *LinkRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.Link, error) {
	links, err := memory.FilterAll[models.Link](ctx, l.s.Links, func(val models.Link) bool {
		return !val.IsDeleted() && isOwnedBy(&val, ownerID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list links of owner %s: %w", ownerID, convertErrorType(err))
	}
	slices.SortFunc(links, func(a, b models.Link) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return links, nil
}

// Create сохраняет новую ссылку. Сначала резервируется короткий код: если он уже
// занят, возвращается repositories.ErrDuplicateKey и ничего не сохраняется.
func (l *LinkRepo) Create(ctx context.Context, link *models.Link) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now().UTC()
	if link.CreatedAt.IsZero() {
		link.CreatedAt = now
	}
	if link.UpdatedAt.IsZero() {
		link.UpdatedAt = now
	}

	if err := memory.Set[string](ctx, link.ShortCode, &link.ID, l.s.Codes); err != nil {
		return fmt.Errorf("failed to create link: %w", convertErrorType(err))
	}
	if err := memory.Set[models.Link](ctx, link.ID, link, l.s.Links); err != nil {
		_ = l.s.Codes.Delete(context.WithoutCancel(ctx), link.ShortCode)
		return fmt.Errorf("failed to create link: %w", convertErrorType(err))
	}
	return nil
}

// Update сохраняет изменяемые поля ссылки. Короткий код, владелец и счетчик
// переходов не меняются.
func (l *LinkRepo) Update(ctx context.Context, link *models.Link) error {
	updated, err := memory.Update[models.Link](ctx, link.ID, l.s.Links, func(stored *models.Link) error {
		if stored.IsDeleted() {
			return repositories.ErrNotFound
		}
		stored.OriginalURL = link.OriginalURL
		stored.ExpiresAt = link.ExpiresAt
		stored.MaxClicks = link.MaxClicks
		stored.PasswordHash = link.PasswordHash
		stored.Tags = link.Tags
		stored.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to update link %s: %w", link.ID, convertErrorType(err))
	}
	link.UpdatedAt = updated.UpdatedAt
	return nil
}

// SoftDelete помечает ссылку удаленной и освобождает ее короткий код.
func (l *LinkRepo) SoftDelete(ctx context.Context, id, ownerID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	deleted, err := memory.Update[models.Link](ctx, id, l.s.Links, func(stored *models.Link) error {
		if stored.IsDeleted() || !isOwnedBy(stored, ownerID) {
			return repositories.ErrNotFound
		}
		stored.DeletedAt = gorm.DeletedAt{Time: time.Now().UTC(), Valid: true}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete link %s: %w", id, convertErrorType(err))
	}
	if delErr := l.s.Codes.Delete(ctx, deleted.ShortCode); delErr != nil {
		return fmt.Errorf("failed to release short code of link %s: %w", id, convertErrorType(delErr))
	}
	return nil
}

func (l *LinkRepo) SetQRCodePath(ctx context.Context, id, path string) error {
	_, err := memory.Update[models.Link](ctx, id, l.s.Links, func(stored *models.Link) error {
		if stored.IsDeleted() {
			return repositories.ErrNotFound
		}
		stored.QRCodePath = &path
		stored.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set qr code path of link %s: %w", id, convertErrorType(err))
	}
	return nil
}

func (l *LinkRepo) getAlive(ctx context.Context, id string) (*models.Link, error) {
	link, err := memory.Get[models.Link](ctx, id, l.s.Links)
	if err != nil {
		return nil, convertErrorType(err)
	}
	if link.IsDeleted() {
		return nil, repositories.ErrNotFound
	}
	return link, nil
}

func incrementClicks(ctx context.Context, s *db.MemoryStorage, id string) error {
	_, err := memory.Update[models.Link](ctx, id, s.Links, func(stored *models.Link) error {
		if stored.IsDeleted() {
			return repositories.ErrNotFound
		}
		stored.Clicks++
		return nil
	})
	return convertErrorType(err)
}

func isOwnedBy(link *models.Link, ownerID string) bool {
	return link.OwnerID != nil && *link.OwnerID == ownerID
}
