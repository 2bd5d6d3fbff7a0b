package controllers

import (
	"time"

	"github.com/fsdevblog/linkshort/internal/services"
)

type createLinkRequest struct {
	OriginalURL string     `json:"originalUrl" binding:"required"`
	CustomSlug  *string    `json:"customSlug"`
	ExpiresAt   *time.Time `json:"expiresAt"`
	MaxClicks   *int64     `json:"maxClicks"`
	Password    *string    `json:"password"`
	Tags        []string   `json:"tags"`
}

func (r createLinkRequest) params(ownerID *string) services.CreateLinkParams {
	return services.CreateLinkParams{
		OriginalURL: r.OriginalURL,
		OwnerID:     ownerID,
		CustomSlug:  r.CustomSlug,
		ExpiresAt:   r.ExpiresAt,
		MaxClicks:   r.MaxClicks,
		Password:    r.Password,
		Tags:        r.Tags,
	}
}

type updateLinkRequest struct {
	OriginalURL *string    `json:"originalUrl"`
	ExpiresAt   *time.Time `json:"expiresAt"`
	MaxClicks   *int64     `json:"maxClicks"`
	Password    *string    `json:"password"`
	Tags        *[]string  `json:"tags"`
}

func (r updateLinkRequest) params() services.UpdateLinkParams {
	return services.UpdateLinkParams{
		OriginalURL: r.OriginalURL,
		ExpiresAt:   r.ExpiresAt,
		MaxClicks:   r.MaxClicks,
		Password:    r.Password,
		Tags:        r.Tags,
	}
}

type verifyPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

type verifyPasswordResponse struct {
	Success bool `json:"success"`
}

// linkResponse представление ссылки для клиента. Хеш пароля наружу не отдается.
type linkResponse struct {
	ID          string     `json:"id"`
	OriginalURL string     `json:"originalUrl"`
	ShortCode   string     `json:"shortCode"`
	ShortURL    string     `json:"shortUrl"`
	Clicks      int64      `json:"clicks"`
	CustomSlug  bool       `json:"customSlug"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	MaxClicks   *int64     `json:"maxClicks,omitempty"`
	HasPassword bool       `json:"hasPassword"`
	Tags        []string   `json:"tags"`
	QRCodePath  *string    `json:"qrCodePath,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func newLinkResponse(l *services.LinkWithShortURL) linkResponse {
	return linkResponse{
		ID:          l.ID,
		OriginalURL: l.OriginalURL,
		ShortCode:   l.ShortCode,
		ShortURL:    l.ShortURL,
		Clicks:      l.Clicks,
		CustomSlug:  l.CustomSlug,
		ExpiresAt:   l.ExpiresAt,
		MaxClicks:   l.MaxClicks,
		HasPassword: l.HasPassword(),
		Tags:        append([]string{}, l.Tags...),
		QRCodePath:  l.QRCodePath,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}
