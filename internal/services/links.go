package services

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"sync"
	"time"

	"github.com/fsdevblog/linkshort/internal/models"
	"github.com/fsdevblog/linkshort/internal/passwords"
	"github.com/fsdevblog/linkshort/internal/repositories"
	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	DefaultMaxCodeAttempts = 10
	defaultQRCodeTimeout   = 10 * time.Second
	maxCustomSlugLength    = 64
)

var customSlugRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// reservedSlugs первые сегменты путей, занятые маршрутами приложения.
var reservedSlugs = []string{"api", "ping", "qrcode", "qrcodes"}

// Options настройки сервиса ссылок.
type Options struct {
	BaseURL         string           // Базовый адрес коротких ссылок без завершающего слеша.
	MaxCodeAttempts int              // Максимум попыток подобрать свободный случайный код.
	QRCodeTimeout   time.Duration    // Таймаут фоновой генерации QR кода.
	GenerateCode    func() string    // Генератор кодов, по умолчанию GenerateShortCode.
	Now             func() time.Time // Источник текущего времени.
}

func defaultOptions() Options {
	return Options{
		BaseURL:         "http://localhost:8080",
		MaxCodeAttempts: DefaultMaxCodeAttempts,
		QRCodeTimeout:   defaultQRCodeTimeout,
		GenerateCode:    GenerateShortCode,
		Now:             time.Now,
	}
}

// CreateLinkParams параметры создания ссылки. Пустые Password и CustomSlug равносильны их отсутствию.
type CreateLinkParams struct {
	OriginalURL string
	OwnerID     *string
	CustomSlug  *string
	ExpiresAt   *time.Time
	MaxClicks   *int64
	Password    *string
	Tags        []string
}

// UpdateLinkParams изменяемые поля ссылки. nil означает "не менять".
// Пустой Password снимает защиту паролем.
type UpdateLinkParams struct {
	OriginalURL *string
	ExpiresAt   *time.Time
	MaxClicks   *int64
	Password    *string
	Tags        *[]string
}

// LinkWithShortURL ссылка вместе с вычисленным коротким адресом.
type LinkWithShortURL struct {
	models.Link
	ShortURL string
}

// LinkService создание, изменение и удаление ссылок.
type LinkService struct {
	links  LinkRepository
	hasher PasswordHasher
	qr     QRCodeGenerator
	opts   Options
	logger *zap.Logger

	bg sync.WaitGroup
}

// NewLinkService создает сервис ссылок. qr может быть nil, тогда QR коды не генерируются.
func NewLinkService(
	links LinkRepository,
	hasher PasswordHasher,
	qr QRCodeGenerator,
	logger *zap.Logger,
	opts ...func(*Options),
) *LinkService {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	if options.MaxCodeAttempts <= 0 {
		options.MaxCodeAttempts = DefaultMaxCodeAttempts
	}
	if options.GenerateCode == nil {
		options.GenerateCode = GenerateShortCode
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	if options.QRCodeTimeout <= 0 {
		options.QRCodeTimeout = defaultQRCodeTimeout
	}
	return &LinkService{
		links:  links,
		hasher: hasher,
		qr:     qr,
		opts:   options,
		logger: logger.With(zap.String("module", "services/links")),
	}
}

// Create создает ссылку.
//
// Параметры:
//   - ctx: контекст выполнения
//   - params: параметры ссылки
//
// Возвращает:
//   - *LinkWithShortURL: созданная ссылка
//   - error: ErrValidation, ErrConflict (занят пользовательский код),
//     ErrExhausted (не удалось подобрать свободный код), ErrUnknown
func (s *LinkService) Create(ctx context.Context, params CreateLinkParams) (*LinkWithShortURL, error) {
	if err := validateURL(params.OriginalURL); err != nil {
		return nil, err
	}
	if err := validateMaxClicks(params.MaxClicks); err != nil {
		return nil, err
	}

	link := &models.Link{
		ID:          uuid.NewString(),
		OriginalURL: params.OriginalURL,
		OwnerID:     params.OwnerID,
		ExpiresAt:   params.ExpiresAt,
		MaxClicks:   params.MaxClicks,
		Tags:        models.NormalizeTags(params.Tags),
	}
	if params.Password != nil && *params.Password != "" {
		hash, err := s.hashPassword(*params.Password)
		if err != nil {
			return nil, err
		}
		link.PasswordHash = &hash
	}

	var err error
	if params.CustomSlug != nil && *params.CustomSlug != "" {
		err = s.createWithCustomSlug(ctx, link, *params.CustomSlug)
	} else {
		err = s.createWithRandomCode(ctx, link)
	}
	if err != nil {
		return nil, err
	}

	s.generateQRCode(link)
	return s.withShortURL(link), nil
}

func (s *LinkService) createWithCustomSlug(ctx context.Context, link *models.Link, slug string) error {
	if len(slug) > maxCustomSlugLength || !customSlugRegex.MatchString(slug) {
		return errors.Wrap(ErrValidation, "custom slug may contain only letters, digits, '-' and '_'")
	}
	if slices.Contains(reservedSlugs, slug) {
		return errors.Wrapf(ErrValidation, "custom slug %s is reserved", slug)
	}

	exists, err := s.links.ExistsByShortCode(ctx, slug)
	if err != nil {
		return errors.Wrapf(ErrUnknown, "check custom slug %s: %s", slug, err.Error())
	}
	if exists {
		return errors.Wrapf(ErrConflict, "custom slug %s", slug)
	}

	link.ShortCode = slug
	link.CustomSlug = true
	if createErr := s.links.Create(ctx, link); createErr != nil {
		if errors.Is(createErr, repositories.ErrDuplicateKey) {
			return errors.Wrapf(ErrConflict, "custom slug %s", slug)
		}
		return errors.Wrapf(ErrUnknown, "create link: %s", createErr.Error())
	}
	return nil
}

// createWithRandomCode подбирает свободный код. Предварительная проверка только экономит
// вставки: окончательное решение принимает уникальный индекс хранилища.
func (s *LinkService) createWithRandomCode(ctx context.Context, link *models.Link) error {
	for attempt := 1; attempt <= s.opts.MaxCodeAttempts; attempt++ {
		code := s.opts.GenerateCode()

		exists, err := s.links.ExistsByShortCode(ctx, code)
		if err != nil {
			return errors.Wrapf(ErrUnknown, "check short code %s: %s", code, err.Error())
		}
		if exists {
			s.logger.Debug("short code collision", zap.String("code", code), zap.Int("attempt", attempt))
			continue
		}

		link.ShortCode = code
		createErr := s.links.Create(ctx, link)
		if createErr == nil {
			return nil
		}
		if !errors.Is(createErr, repositories.ErrDuplicateKey) {
			return errors.Wrapf(ErrUnknown, "create link: %s", createErr.Error())
		}
		s.logger.Debug("short code taken on insert", zap.String("code", code), zap.Int("attempt", attempt))
	}
	s.logger.Error("short code attempts exhausted", zap.Int("attempts", s.opts.MaxCodeAttempts))
	return errors.Wrapf(ErrExhausted, "after %d attempts", s.opts.MaxCodeAttempts)
}

// Update изменяет ссылку владельца. Короткий код не меняется.
// Если у ссылки еще нет QR кода, он генерируется в фоне.
func (s *LinkService) Update(
	ctx context.Context,
	id, ownerID string,
	params UpdateLinkParams,
) (*LinkWithShortURL, error) {
	link, err := s.links.GetByIDOwner(ctx, id, ownerID)
	if err != nil {
		return nil, convertRepoError(err, "get link %s", id)
	}

	if params.OriginalURL != nil {
		if urlErr := validateURL(*params.OriginalURL); urlErr != nil {
			return nil, urlErr
		}
		link.OriginalURL = *params.OriginalURL
	}
	if params.ExpiresAt != nil {
		link.ExpiresAt = params.ExpiresAt
	}
	if params.MaxClicks != nil {
		if mcErr := validateMaxClicks(params.MaxClicks); mcErr != nil {
			return nil, mcErr
		}
		link.MaxClicks = params.MaxClicks
	}
	if params.Password != nil {
		if *params.Password == "" {
			link.PasswordHash = nil
		} else {
			hash, hashErr := s.hashPassword(*params.Password)
			if hashErr != nil {
				return nil, hashErr
			}
			link.PasswordHash = &hash
		}
	}
	if params.Tags != nil {
		link.Tags = models.NormalizeTags(*params.Tags)
	}

	if updErr := s.links.Update(ctx, link); updErr != nil {
		return nil, convertRepoError(updErr, "update link %s", id)
	}

	if link.QRCodePath == nil {
		s.generateQRCode(link)
	}
	return s.withShortURL(link), nil
}

// Remove мягко удаляет ссылку владельца. Ее код становится свободным.
func (s *LinkService) Remove(ctx context.Context, id, ownerID string) error {
	if err := s.links.SoftDelete(ctx, id, ownerID); err != nil {
		return convertRepoError(err, "delete link %s", id)
	}
	return nil
}

// List возвращает неудаленные ссылки владельца, новые первыми.
func (s *LinkService) List(ctx context.Context, ownerID string) ([]LinkWithShortURL, error) {
	links, err := s.links.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, errors.Wrapf(ErrUnknown, "list links of %s: %s", ownerID, err.Error())
	}
	result := make([]LinkWithShortURL, len(links))
	for i := range links {
		result[i] = *s.withShortURL(&links[i])
	}
	return result, nil
}

// VerifyPassword проверяет пароль ссылки. Для несуществующей ссылки и ссылки
// без пароля возвращает false без ошибки.
func (s *LinkService) VerifyPassword(ctx context.Context, shortCode, password string) (bool, error) {
	link, err := s.links.GetByShortCode(ctx, shortCode)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, nil
		}
		return false, errors.Wrapf(ErrUnknown, "get link %s: %s", shortCode, err.Error())
	}
	if !link.HasPassword() {
		return false, nil
	}
	return s.hasher.Compare(*link.PasswordHash, password), nil
}

// ShortURL короткий адрес для кода.
func (s *LinkService) ShortURL(shortCode string) string {
	return s.opts.BaseURL + "/" + shortCode
}

// Wait дожидается завершения фоновых задач генерации QR кодов.
func (s *LinkService) Wait() {
	s.bg.Wait()
}

// generateQRCode генерирует QR код в фоне. Ошибка не влияет на результат операции
// над ссылкой: она логируется и отправляется в sentry.
func (s *LinkService) generateQRCode(link *models.Link) {
	if s.qr == nil {
		return
	}
	id, shortURL := link.ID, s.ShortURL(link.ShortCode)

	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.opts.QRCodeTimeout)
		defer cancel()

		path, err := s.qr.Generate(ctx, shortURL)
		if err != nil {
			s.reportError("failed to generate qr code", err, zap.String("id", id))
			return
		}
		if setErr := s.links.SetQRCodePath(ctx, id, path); setErr != nil {
			s.reportError("failed to save qr code path", setErr, zap.String("id", id))
			return
		}
		s.logger.Debug("qr code generated", zap.String("id", id), zap.String("path", path))
	}()
}

func (s *LinkService) hashPassword(password string) (string, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, passwords.ErrTooLong) {
			return "", errors.Wrap(ErrValidation, err.Error())
		}
		return "", errors.Wrapf(ErrUnknown, "hash password: %s", err.Error())
	}
	return hash, nil
}

func (s *LinkService) withShortURL(link *models.Link) *LinkWithShortURL {
	return &LinkWithShortURL{Link: *link, ShortURL: s.ShortURL(link.ShortCode)}
}

func (s *LinkService) reportError(msg string, err error, fields ...zap.Field) {
	s.logger.Error(msg, append(fields, zap.Error(err))...)
	sentry.CaptureException(fmt.Errorf("%s: %w", msg, err))
}

// validateURL ссылка должна быть абсолютным http(s) адресом с хостом.
func validateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return errors.Wrap(ErrValidation, "invalid URL format")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.Wrap(ErrValidation, "URL must have http or https scheme")
	}
	if u.Host == "" {
		return errors.Wrap(ErrValidation, "URL must have a host")
	}
	return nil
}

func validateMaxClicks(maxClicks *int64) error {
	if maxClicks != nil && *maxClicks < 1 {
		return errors.Wrap(ErrValidation, "maxClicks must be a positive integer")
	}
	return nil
}

// convertRepoError переводит ошибку репозитория в ошибку сервиса.
func convertRepoError(err error, format string, args ...any) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return errors.Wrapf(ErrNotFound, format, args...)
	}
	return errors.Wrapf(ErrUnknown, format+": %s", append(args, err.Error())...)
}
