package models

import "time"

// Visit одна запись о переходе по короткой ссылке. После создания не изменяется.
type Visit struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	LinkID    string    `json:"linkId" gorm:"type:varchar(36);not null;index"`
	IPAddress string    `json:"ipAddress"`
	UserAgent string    `json:"userAgent"`
	Referrer  string    `json:"referrer"`
	Source    string    `json:"source"`
	Browser   string    `json:"browser"`
	OS        string    `json:"os"`
	Device    string    `json:"device"`
	CreatedAt time.Time `json:"createdAt"`
}
