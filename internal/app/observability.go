package app

import (
	"fmt"
	"time"

	"github.com/fsdevblog/linkshort/internal/config"
	"github.com/fsdevblog/linkshort/internal/logs"
	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

const sentryFlushTimeout = 2 * time.Second

// NewLogger создает логгер по настройкам LOG_*.
func NewLogger(conf config.LogConfig, service string) (*zap.Logger, error) {
	logger, err := logs.New(func(o *logs.LoggerOptions) {
		if conf.Level != "" {
			o.Level = logs.LevelType(conf.Level)
		}
		if conf.Encoding != "" {
			o.Encoding = logs.EncodingType(conf.Encoding)
		}
		o.File = logs.FileOptions{
			Path:       conf.FilePath,
			MaxSizeMB:  conf.MaxSizeMB,
			MaxBackups: conf.MaxBackups,
			MaxAgeDays: conf.MaxAgeDays,
		}
		o.InitialFields = map[string]any{"service": service}
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return logger, nil
}

// InitSentry подключает отправку ошибок в Sentry, если задан SENTRY_DSN.
// Возвращаемую функцию нужно вызвать перед выходом, она дожидается отправки событий.
func InitSentry(conf *config.Config, release string) (func(), error) {
	if conf.SentryDSN == "" {
		return func() {}, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              conf.SentryDSN,
		Environment:      conf.SentryEnvironment,
		Release:          release,
		AttachStacktrace: true,
	})
	if err != nil {
		return nil, fmt.Errorf("init sentry: %w", err)
	}
	return func() { sentry.Flush(sentryFlushTimeout) }, nil
}
