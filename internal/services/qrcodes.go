package services

import (
	"context"
	"strings"

	"github.com/fsdevblog/linkshort/internal/qrcode"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// QRCodeParams запрос QR кода для произвольного адреса.
// Нулевой Size и nil Margin означают настройки генератора, пустой Level - уровень M.
type QRCodeParams struct {
	URL    string
	Size   int
	Margin *int
	Level  string
}

// QRCodeService генерирует QR коды по запросу клиента, независимо от ссылок.
type QRCodeService struct {
	gen     QRCodeGenerator
	baseURL string
	logger  *zap.Logger
}

func NewQRCodeService(gen QRCodeGenerator, logger *zap.Logger, opts ...func(*Options)) *QRCodeService {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return &QRCodeService{
		gen:     gen,
		baseURL: options.BaseURL,
		logger:  logger.With(zap.String("module", "services/qrcodes")),
	}
}

// Generate проверяет параметры, создает изображение и возвращает его абсолютный адрес.
//
// Параметры:
//   - ctx: контекст выполнения
//   - params: адрес и параметры изображения
//
// Возвращает:
//   - string: адрес вида <BaseURL>/qrcodes/<uuid>.png
//   - error: ErrValidation или ошибка генерации
func (s *QRCodeService) Generate(ctx context.Context, params QRCodeParams) (string, error) {
	if err := validateURL(params.URL); err != nil {
		return "", err
	}
	level, err := qrcode.ParseLevel(params.Level)
	if err != nil {
		return "", errors.Wrap(ErrValidation, "errorCorrectionLevel must be one of L, M, Q, H")
	}

	path, err := s.gen.GenerateWith(ctx, params.URL, qrcode.GenerateOptions{
		Size:   params.Size,
		Margin: params.Margin,
		Level:  level,
	})
	if err != nil {
		if errors.Is(err, qrcode.ErrInvalidOptions) {
			msg := strings.TrimSuffix(err.Error(), ": "+qrcode.ErrInvalidOptions.Error())
			return "", errors.Wrap(ErrValidation, msg)
		}
		return "", errors.Wrap(err, "failed to generate qr code")
	}
	s.logger.Debug("qr code generated", zap.String("path", path))
	return s.baseURL + path, nil
}
