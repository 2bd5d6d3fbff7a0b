package services

import (
	"context"

	"github.com/fsdevblog/linkshort/internal/models"
	"github.com/fsdevblog/linkshort/internal/qrcode"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock.go -package=mocks

// LinkRepository описывает хранилище ссылок.
type LinkRepository interface {
	// GetByShortCode находит неудаленную ссылку по короткому коду.
	GetByShortCode(ctx context.Context, shortCode string) (*models.Link, error)
	// ExistsByShortCode проверяет, занят ли короткий код неудаленной ссылкой.
	ExistsByShortCode(ctx context.Context, shortCode string) (bool, error)
	// GetByIDOwner находит неудаленную ссылку владельца.
	GetByIDOwner(ctx context.Context, id, ownerID string) (*models.Link, error)
	// ListByOwner возвращает неудаленные ссылки владельца, новые первыми.
	ListByOwner(ctx context.Context, ownerID string) ([]models.Link, error)
	// Create сохраняет ссылку. Занятый код возвращается как repositories.ErrDuplicateKey.
	Create(ctx context.Context, link *models.Link) error
	Update(ctx context.Context, link *models.Link) error
	SoftDelete(ctx context.Context, id, ownerID string) error
	SetQRCodePath(ctx context.Context, id, path string) error
}

// VisitRepository описывает хранилище переходов.
type VisitRepository interface {
	// RecordVisit атомарно увеличивает счетчик ссылки и сохраняет переход.
	RecordVisit(ctx context.Context, visit *models.Visit) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// QRCodeGenerator генерирует изображение QR кода и возвращает публичный путь к нему.
type QRCodeGenerator interface {
	Generate(ctx context.Context, content string) (string, error)
	GenerateWith(ctx context.Context, content string, opts qrcode.GenerateOptions) (string, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}
