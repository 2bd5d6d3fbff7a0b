// Package tracking доставляет переходы по коротким ссылкам до учета, не задерживая редирект.
//
// Async учитывает переход в фоновой горутине того же процесса. AMQPPublisher отправляет
// событие перехода в очередь RabbitMQ, его обрабатывает отдельный воркер (Consumer).
package tracking

import (
	"context"
	"time"

	"github.com/fsdevblog/linkshort/internal/models"
	"github.com/fsdevblog/linkshort/internal/services"
)

const defaultTrackTimeout = 5 * time.Second

// Tracker учитывает переход.
type Tracker interface {
	TrackVisit(ctx context.Context, link *models.Link, meta services.VisitMeta) error
}

// VisitEvent сообщение о переходе в очереди.
type VisitEvent struct {
	LinkID     string    `json:"linkId"`
	ShortCode  string    `json:"shortCode"`
	IPAddress  string    `json:"ipAddress"`
	UserAgent  string    `json:"userAgent"`
	Referrer   string    `json:"referrer"`
	OccurredAt time.Time `json:"occurredAt"`
}

func newVisitEvent(link *models.Link, meta services.VisitMeta) VisitEvent {
	occurredAt := meta.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}
	return VisitEvent{
		LinkID:     link.ID,
		ShortCode:  link.ShortCode,
		IPAddress:  meta.IPAddress,
		UserAgent:  meta.UserAgent,
		Referrer:   meta.Referrer,
		OccurredAt: occurredAt.UTC(),
	}
}

func (e VisitEvent) link() *models.Link {
	return &models.Link{ID: e.LinkID, ShortCode: e.ShortCode}
}

func (e VisitEvent) meta() services.VisitMeta {
	return services.VisitMeta{
		IPAddress:  e.IPAddress,
		UserAgent:  e.UserAgent,
		Referrer:   e.Referrer,
		OccurredAt: e.OccurredAt,
	}
}
