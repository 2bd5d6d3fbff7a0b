package db

import (
	"context"

	"github.com/fsdevblog/linkshort/internal/db/memory"
)

// MemoryStorage набор in-memory коллекций приложения.
type MemoryStorage struct {
	Links  *memory.MStorage // id -> models.Link
	Codes  *memory.MStorage // short code -> id, только для неудаленных ссылок
	Visits *memory.MStorage // id -> models.Visit
}

func NewMemStorage() *MemoryStorage {
	return &MemoryStorage{
		Links:  memory.NewMemStorage(),
		Codes:  memory.NewMemStorage(),
		Visits: memory.NewMemStorage(),
	}
}

// Ping in-memory хранилище доступно всегда.
func (m *MemoryStorage) Ping(_ context.Context) error {
	return nil
}
