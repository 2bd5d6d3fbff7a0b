// Package cached содержит кэширующий декоратор репозитория ссылок на базе bigcache.
//
// Кэшируется только результат GetByShortCode и только для ссылок без лимита переходов:
// проверка лимита требует свежего значения счетчика. Срок действия ссылки проверяется
// вызывающей стороной на каждой выдаче, поэтому кэшированная копия его не обходит.
package cached

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/allegro/bigcache"
	"github.com/fsdevblog/linkshort/internal/models"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const (
	codeKeyPrefix = "code:"
	idKeyPrefix   = "id:"
)

// LinkRepository методы репозитория ссылок, которые оборачивает декоратор.
type LinkRepository interface {
	GetByShortCode(ctx context.Context, shortCode string) (*models.Link, error)
	ExistsByShortCode(ctx context.Context, shortCode string) (bool, error)
	GetByIDOwner(ctx context.Context, id, ownerID string) (*models.Link, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Link, error)
	Create(ctx context.Context, link *models.Link) error
	Update(ctx context.Context, link *models.Link) error
	SoftDelete(ctx context.Context, id, ownerID string) error
	SetQRCodePath(ctx context.Context, id, path string) error
}

type LinkRepo struct {
	LinkRepository
	cache  *bigcache.BigCache
	logger *zap.Logger

	// gen растет при каждой инвалидации. Результат чтения, начатого до
	// инвалидации, в кэш не попадает.
	mu  sync.Mutex
	gen uint64
}

// NewLinkRepo оборачивает next кэшем с временем жизни записи ttl.
func NewLinkRepo(next LinkRepository, ttl time.Duration, logger *zap.Logger) (*LinkRepo, error) {
	config := bigcache.DefaultConfig(ttl)
	config.CleanWindow = ttl
	config.Verbose = false
	bc, err := bigcache.NewBigCache(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create bigcache: %w", err)
	}
	return &LinkRepo{
		LinkRepository: next,
		cache:          bc,
		logger:         logger,
	}, nil
}

func (c *LinkRepo) GetByShortCode(ctx context.Context, shortCode string) (*models.Link, error) {
	if data, err := c.cache.Get(codeKeyPrefix + shortCode); err == nil {
		var link models.Link
		if jsonErr := json.Unmarshal(data, &link); jsonErr == nil {
			return &link, nil
		}
		_ = c.cache.Delete(codeKeyPrefix + shortCode)
	}

	gen := c.generation()
	link, err := c.LinkRepository.GetByShortCode(ctx, shortCode)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	if link.MaxClicks == nil {
		c.store(link, gen)
	}
	return link, nil
}

func (c *LinkRepo) Update(ctx context.Context, link *models.Link) error {
	err := c.LinkRepository.Update(ctx, link)
	c.invalidate(link.ID)
	return err //nolint:wrapcheck
}

func (c *LinkRepo) SoftDelete(ctx context.Context, id, ownerID string) error {
	err := c.LinkRepository.SoftDelete(ctx, id, ownerID)
	c.invalidate(id)
	return err //nolint:wrapcheck
}

func (c *LinkRepo) SetQRCodePath(ctx context.Context, id, path string) error {
	err := c.LinkRepository.SetQRCodePath(ctx, id, path)
	c.invalidate(id)
	return err //nolint:wrapcheck
}

func (c *LinkRepo) generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// store кладет ссылку в кэш, если с момента чтения gen не было инвалидаций.
func (c *LinkRepo) store(link *models.Link, gen uint64) {
	data, err := json.Marshal(link)
	if err != nil {
		c.logger.Warn("failed to marshal link for cache", zap.String("id", link.ID), zap.Error(err))
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return
	}
	if setErr := c.cache.Set(codeKeyPrefix+link.ShortCode, data); setErr != nil {
		c.logger.Warn("failed to cache link", zap.String("id", link.ID), zap.Error(setErr))
		return
	}
	_ = c.cache.Set(idKeyPrefix+link.ID, []byte(link.ShortCode))
}

// invalidate удаляет ссылку из кэша по ее id.
func (c *LinkRepo) invalidate(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++

	code, err := c.cache.Get(idKeyPrefix + id)
	if err != nil {
		return
	}
	_ = c.cache.Delete(codeKeyPrefix + string(code))
	_ = c.cache.Delete(idKeyPrefix + id)
}
