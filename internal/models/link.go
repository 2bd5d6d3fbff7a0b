package models

import (
	"time"

	"gorm.io/gorm"
)

// ShortCodeLength длина случайно сгенерированного короткого кода.
const ShortCodeLength = 6

// Link модель хранения сокращенной ссылки.
//
// ShortCode уникален среди неудаленных записей и не меняется после создания.
// Clicks никогда не уменьшается. Модель сериализуется целиком (in-memory хранилище, кэш),
// наружу по HTTP отдается только через DTO контроллеров.
type Link struct {
	ID           string         `json:"id" gorm:"type:varchar(36);primaryKey"`
	OriginalURL  string         `json:"originalUrl" gorm:"type:text;not null"`
	ShortCode    string         `json:"shortCode" gorm:"type:varchar(64);not null;uniqueIndex:idx_links_short_code_alive,where:deleted_at IS NULL"`
	Clicks       int64          `json:"clicks" gorm:"not null;default:0"`
	OwnerID      *string        `json:"ownerId,omitempty" gorm:"type:varchar(36);index"`
	CustomSlug   bool           `json:"customSlug" gorm:"not null;default:false"`
	ExpiresAt    *time.Time     `json:"expiresAt,omitempty"`
	MaxClicks    *int64         `json:"maxClicks,omitempty"`
	PasswordHash *string        `json:"passwordHash,omitempty"`
	Tags         Tags           `json:"tags" gorm:"type:text"`
	QRCodePath   *string        `json:"qrCodePath,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index"`
}

// HasPassword сообщает, защищена ли ссылка паролем.
func (l *Link) HasPassword() bool {
	return l.PasswordHash != nil && *l.PasswordHash != ""
}

// IsExpired истек ли срок действия ссылки на момент now.
func (l *Link) IsExpired(now time.Time) bool {
	return l.ExpiresAt != nil && l.ExpiresAt.Before(now)
}

// IsLimitReached исчерпан ли лимит переходов.
func (l *Link) IsLimitReached() bool {
	return l.MaxClicks != nil && l.Clicks >= *l.MaxClicks
}

// IsDeleted помечена ли запись как удаленная.
func (l *Link) IsDeleted() bool {
	return l.DeletedAt.Valid
}
