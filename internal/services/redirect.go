package services

import (
	"context"
	"fmt"
	"time"

	"github.com/fsdevblog/linkshort/internal/models"
	"github.com/fsdevblog/linkshort/internal/repositories"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// VisitMeta данные запроса, по которому произошел переход.
type VisitMeta struct {
	IPAddress  string
	UserAgent  string
	Referrer   string
	OccurredAt time.Time // Нулевое значение означает "сейчас".
}

// RedirectService разрешает короткие коды и учитывает переходы.
type RedirectService struct {
	links  LinkRepository
	visits VisitRepository
	now    func() time.Time
	logger *zap.Logger
}

func NewRedirectService(
	links LinkRepository,
	visits VisitRepository,
	logger *zap.Logger,
	opts ...func(*Options),
) *RedirectService {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	return &RedirectService{
		links:  links,
		visits: visits,
		now:    options.Now,
		logger: logger.With(zap.String("module", "services/redirect")),
	}
}

// Resolve возвращает активную ссылку по короткому коду. Счетчик переходов не меняется.
//
// Несуществующая, удаленная, просроченная ссылка и ссылка с исчерпанным лимитом
// неразличимы для вызывающего: всегда ErrNotFound. Причина (ErrLinkExpired,
// ErrLinkLimitReached) доступна через errors.Is только для логирования.
func (s *RedirectService) Resolve(ctx context.Context, shortCode string) (*models.Link, error) {
	link, err := s.links.GetByShortCode(ctx, shortCode)
	if err != nil {
		return nil, convertRepoError(err, "resolve %s", shortCode)
	}
	if link.IsExpired(s.now()) {
		return nil, fmt.Errorf("resolve %s: %w: %w", shortCode, ErrNotFound, ErrLinkExpired)
	}
	if link.IsLimitReached() {
		return nil, fmt.Errorf("resolve %s: %w: %w", shortCode, ErrNotFound, ErrLinkLimitReached)
	}
	return link, nil
}

// TrackVisit увеличивает счетчик переходов на единицу и сохраняет переход
// одной атомарной операцией хранилища.
func (s *RedirectService) TrackVisit(ctx context.Context, link *models.Link, meta VisitMeta) error {
	occurredAt := meta.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = s.now()
	}
	visit := &models.Visit{
		ID:        uuid.NewString(),
		LinkID:    link.ID,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		Referrer:  meta.Referrer,
		Source:    DetectSource(meta.Referrer),
		CreatedAt: occurredAt.UTC(),
	}
	if meta.UserAgent != "" {
		info := ParseUserAgent(meta.UserAgent)
		visit.Browser, visit.OS, visit.Device = info.Browser, info.OS, info.Device
	}

	if err := s.visits.RecordVisit(ctx, visit); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return errors.Wrapf(ErrNotFound, "track visit of link %s", link.ID)
		}
		return errors.Wrapf(ErrUnknown, "track visit of link %s: %s", link.ID, err.Error())
	}
	return nil
}
