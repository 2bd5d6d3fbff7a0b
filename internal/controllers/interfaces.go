package controllers

import (
	"context"

	"github.com/fsdevblog/linkshort/internal/models"
	"github.com/fsdevblog/linkshort/internal/services"
)

//go:generate mockgen -source=interfaces.go -destination=mocksctrl/mock.go -package=mocksctrl

type ConnectionChecker interface {
	CheckConnection(ctx context.Context) error
}

// LinkManager операции над ссылками владельца.
type LinkManager interface {
	Create(ctx context.Context, params services.CreateLinkParams) (*services.LinkWithShortURL, error)
	Update(ctx context.Context, id, ownerID string, params services.UpdateLinkParams) (*services.LinkWithShortURL, error)
	Remove(ctx context.Context, id, ownerID string) error
	List(ctx context.Context, ownerID string) ([]services.LinkWithShortURL, error)
	VerifyPassword(ctx context.Context, shortCode, password string) (bool, error)
}

type Resolver interface {
	Resolve(ctx context.Context, shortCode string) (*models.Link, error)
}

// QRCodeMaker генерирует QR код для произвольного адреса и возвращает адрес изображения.
type QRCodeMaker interface {
	Generate(ctx context.Context, params services.QRCodeParams) (string, error)
}

// VisitDispatcher передает переход на учет, не блокируя ответ.
type VisitDispatcher interface {
	Dispatch(link *models.Link, meta services.VisitMeta)
}
