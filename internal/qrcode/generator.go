// Package qrcode генерирует PNG изображения QR кодов для коротких ссылок и сохраняет их на диск.
package qrcode

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	qr "github.com/skip2/go-qrcode"
)

const (
	defaultDir    = "public/qrcodes"
	defaultSize   = 300
	defaultMargin = 4

	// PublicPrefix префикс, под которым файлы отдаются по HTTP.
	PublicPrefix = "/qrcodes/"

	MinSize   = 32
	MaxSize   = 2048
	MaxMargin = 40
)

// ErrInvalidOptions параметры изображения вне допустимых границ.
var ErrInvalidOptions = errors.New("invalid qr code options")

// Level уровень коррекции ошибок.
type Level string

const (
	LevelLow      Level = "L"
	LevelMedium   Level = "M"
	LevelQuartile Level = "Q"
	LevelHigh     Level = "H"
)

// ParseLevel принимает однобуквенное (L, M, Q, H) или полное (low, medium, quartile, high)
// обозначение уровня без учета регистра. Пустая строка дает LevelMedium.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "m", "medium":
		return LevelMedium, nil
	case "l", "low":
		return LevelLow, nil
	case "q", "quartile":
		return LevelQuartile, nil
	case "h", "high":
		return LevelHigh, nil
	default:
		return "", fmt.Errorf("unknown error correction level %q: %w", s, ErrInvalidOptions)
	}
}

func (l Level) recovery() qr.RecoveryLevel {
	switch l {
	case LevelLow:
		return qr.Low
	case LevelQuartile:
		return qr.High
	case LevelHigh:
		return qr.Highest
	default:
		return qr.Medium
	}
}

// GenerateOptions параметры одного изображения. Нулевой Size и nil Margin
// берутся из настроек генератора.
type GenerateOptions struct {
	Size   int
	Margin *int
	Level  Level
}

type Options struct {
	Dir    string // Каталог для сохранения файлов.
	Size   int    // Сторона итогового изображения в пикселях.
	Margin int    // Отступ вокруг кода в модулях.
}

type Generator struct {
	dir    string
	size   int
	margin int
}

// New создает генератор и каталог для файлов.
//
// Параметры:
//   - opts: функции настройки опций
//
// Возвращает:
//   - *Generator: генератор
//   - error: ошибка создания каталога
func New(opts ...func(*Options)) (*Generator, error) {
	options := Options{
		Dir:    defaultDir,
		Size:   defaultSize,
		Margin: defaultMargin,
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Size <= 0 {
		options.Size = defaultSize
	}
	if options.Margin < 0 {
		options.Margin = 0
	}
	if options.Size < MinSize || options.Size > MaxSize || options.Margin > MaxMargin {
		return nil, fmt.Errorf("size %d or margin %d out of range: %w", options.Size, options.Margin, ErrInvalidOptions)
	}
	if err := os.MkdirAll(options.Dir, 0o755); err != nil { //nolint:mnd
		return nil, fmt.Errorf("failed to create qr codes directory %s: %w", options.Dir, err)
	}
	return &Generator{
		dir:    options.Dir,
		size:   options.Size,
		margin: options.Margin,
	}, nil
}

// Dir каталог, в который сохраняются изображения.
func (g *Generator) Dir() string {
	return g.dir
}

// Generate кодирует content в QR код с настройками генератора.
// Возвращает публичный путь вида /qrcodes/<uuid>.png.
func (g *Generator) Generate(ctx context.Context, content string) (string, error) {
	return g.GenerateWith(ctx, content, GenerateOptions{})
}

// GenerateWith кодирует content в QR код и сохраняет PNG файл со случайным именем.
//
// Параметры:
//   - ctx: контекст выполнения
//   - content: кодируемая строка
//   - opts: размер, отступ и уровень коррекции этого изображения
//
// Возвращает:
//   - string: публичный путь вида /qrcodes/<uuid>.png
//   - error: ErrInvalidOptions, ошибка кодирования или записи файла
func (g *Generator) GenerateWith(ctx context.Context, content string, opts GenerateOptions) (string, error) {
	size, margin := g.size, g.margin
	if opts.Size != 0 {
		size = opts.Size
	}
	if opts.Margin != nil {
		margin = *opts.Margin
	}
	if size < MinSize || size > MaxSize {
		return "", fmt.Errorf("size must be between %d and %d: %w", MinSize, MaxSize, ErrInvalidOptions)
	}
	if margin < 0 || margin > MaxMargin {
		return "", fmt.Errorf("margin must be between 0 and %d: %w", MaxMargin, ErrInvalidOptions)
	}

	code, err := qr.New(content, opts.Level.recovery())
	if err != nil {
		return "", fmt.Errorf("failed to encode qr code: %w", err)
	}
	code.DisableBorder = true

	modules := len(code.Bitmap())
	inner := code.Image(size)
	pad := margin * size / max(modules, 1)
	bounds := inner.Bounds()

	canvas := imaging.New(bounds.Dx()+2*pad, bounds.Dy()+2*pad, color.White)
	canvas = imaging.Paste(canvas, inner, image.Pt(pad, pad))
	img := imaging.Resize(canvas, size, size, imaging.NearestNeighbor)

	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr //nolint:wrapcheck
	}

	filename := uuid.NewString() + ".png"
	if saveErr := imaging.Save(img, filepath.Join(g.dir, filename)); saveErr != nil {
		return "", fmt.Errorf("failed to save qr code %s: %w", filename, saveErr)
	}
	return PublicPrefix + filename, nil
}
