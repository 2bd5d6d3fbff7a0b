package db

import (
	"context"
	"fmt"

	"github.com/fsdevblog/linkshort/internal/logs"
	"github.com/fsdevblog/linkshort/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SQLConnection подключение к реляционной базе через gorm.
type SQLConnection struct {
	DB      *gorm.DB
	closeFn func() error
}

// Ping проверяет соединение с базой.
func (c *SQLConnection) Ping(ctx context.Context) error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	if pingErr := sqlDB.PingContext(ctx); pingErr != nil {
		return fmt.Errorf("ping database: %w", pingErr)
	}
	return nil
}

// Close закрывает соединение и связанные с ним ресурсы.
func (c *SQLConnection) Close() error {
	if c.closeFn == nil {
		return nil
	}
	return c.closeFn()
}

func gormConfig(logger *zap.Logger) *gorm.Config {
	conf := &gorm.Config{TranslateError: true}
	if logger != nil {
		conf.Logger = logs.NewGormLogger(logger)
	}
	return conf
}

// migrate накатывает схему. Уникальный индекс на short_code частичный:
// код освобождается после мягкого удаления ссылки.
func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Link{}, &models.Visit{}); err != nil {
		return fmt.Errorf("migrating sql: %w", err)
	}
	return nil
}
