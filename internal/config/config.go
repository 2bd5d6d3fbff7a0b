package config

import (
	"flag"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	defaultServerAddress = "localhost:8080"
	defaultEnvFile       = ".env"
)

// LogConfig настройки логгера.
type LogConfig struct {
	Level      string `env:"LEVEL"`
	Encoding   string `env:"ENCODING"`
	FilePath   string `env:"FILE"`
	MaxSizeMB  int    `env:"FILE_MAX_SIZE_MB" envDefault:"100"`
	MaxBackups int    `env:"FILE_MAX_BACKUPS" envDefault:"3"`
	MaxAgeDays int    `env:"FILE_MAX_AGE_DAYS" envDefault:"28"`
}

type Config struct {
	// Адрес, на котором запустится сервер
	ServerAddress string `env:"SERVER_ADDRESS"`
	// Базовый адрес результирующего сокращенного URL
	BaseURL string `env:"BASE_URL"`
	// Строка подключения к postgres. Имеет приоритет над SQLitePath
	DatabaseDSN string `env:"DATABASE_DSN"`
	// Путь к файлу sqlite. Если не задан ни он, ни DatabaseDSN, данные хранятся в памяти
	SQLitePath string `env:"SQLITE_PATH"`
	// Ключ подписи токена владельца
	VisitorJWTSecret string `env:"VISITOR_JWT_SECRET"`

	EnableHTTPS bool   `env:"ENABLE_HTTPS"`
	CertFile    string `env:"CERT_FILE" envDefault:"cert.pem"`
	KeyFile     string `env:"KEY_FILE" envDefault:"key.pem"`

	QRCodesDir   string `env:"QR_CODES_DIR" envDefault:"public/qrcodes"`
	QRCodeSize   int    `env:"QR_CODE_SIZE" envDefault:"300"`
	QRCodeMargin int    `env:"QR_CODE_MARGIN" envDefault:"4"`

	MaxCodeAttempts int           `env:"MAX_CODE_ATTEMPTS" envDefault:"10"`
	CacheTTL        time.Duration `env:"CACHE_TTL" envDefault:"0s"` // 0 отключает кэш

	RedisAddr          string `env:"REDIS_ADDR"`
	RedisPassword      string `env:"REDIS_PASSWORD"`
	RedisDB            int    `env:"REDIS_DB"`
	RateLimitPerMinute int    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"30"`

	AMQPURL     string `env:"AMQP_URL"`
	VisitsQueue string `env:"VISITS_QUEUE" envDefault:"link_visits"`
	// Сколько неподтвержденных сообщений обработчик очереди берет за раз
	AnalyticsPrefetch int `env:"ANALYTICS_PREFETCH" envDefault:"16"`

	SentryDSN         string `env:"SENTRY_DSN"`
	SentryEnvironment string `env:"SENTRY_ENVIRONMENT" envDefault:"development"`

	Log LogConfig `envPrefix:"LOG_"`
}

// LoadConfig загружает конфигурацию: .env файл (если есть), переменные окружения
// и флаги командной строки. Переменные окружения имеют приоритет над флагами.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(defaultEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrap(err, "load .env file")
	}
	return load(os.Args[0], os.Args[1:])
}

func load(name string, args []string) (*Config, error) {
	var envConfig Config
	if err := env.Parse(&envConfig); err != nil {
		return nil, errors.Wrapf(err, "parse ENV config error")
	}

	flagsConfig, err := loadFlags(name, args)
	if err != nil {
		return nil, err
	}

	conf := mergeConfig(&envConfig, flagsConfig)
	if err = conf.normalizeBaseURL(); err != nil {
		return nil, err
	}
	return conf, nil
}

// loadFlags парсит флаги командной строки.
func loadFlags(name string, args []string) (*Config, error) {
	var flagsConfig Config
	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	fs.StringVar(&flagsConfig.ServerAddress, "a", defaultServerAddress, "Адрес сервера")
	fs.StringVar(&flagsConfig.BaseURL, "b", "",
		"Базовый адрес результирующего сокращенного URL (по умолчанию Scheme://Host запущенного сервера)")
	fs.StringVar(&flagsConfig.DatabaseDSN, "d", "", "Строка подключения к postgres")
	fs.StringVar(&flagsConfig.SQLitePath, "s", "", "Путь к файлу sqlite")
	fs.StringVar(&flagsConfig.VisitorJWTSecret, "j", "", "Ключ подписи токена владельца")
	fs.BoolVar(&flagsConfig.EnableHTTPS, "tls", false, "Запустить сервер по HTTPS")

	if err := fs.Parse(args); err != nil {
		return nil, errors.Wrap(err, "parse flags")
	}
	return &flagsConfig, nil
}

// mergeConfig сливает структуры для env и флагов. Поля без флагов берутся из env.
func mergeConfig(envConfig, flagsConfig *Config) *Config {
	conf := *envConfig
	conf.ServerAddress = defaultIfBlank(envConfig.ServerAddress, flagsConfig.ServerAddress)
	conf.BaseURL = defaultIfBlank(envConfig.BaseURL, flagsConfig.BaseURL)
	conf.DatabaseDSN = defaultIfBlank(envConfig.DatabaseDSN, flagsConfig.DatabaseDSN)
	conf.SQLitePath = defaultIfBlank(envConfig.SQLitePath, flagsConfig.SQLitePath)
	conf.VisitorJWTSecret = defaultIfBlank(envConfig.VisitorJWTSecret, flagsConfig.VisitorJWTSecret)
	conf.EnableHTTPS = envConfig.EnableHTTPS || flagsConfig.EnableHTTPS
	return &conf
}

// normalizeBaseURL проверяет базовый адрес. Путь сохраняется (сервис может стоять
// за прокси под префиксом), завершающий слеш, query и fragment отбрасываются.
// Пустой адрес строится из адреса сервера.
func (c *Config) normalizeBaseURL() error {
	if c.BaseURL == "" {
		scheme := "http"
		if c.EnableHTTPS {
			scheme = "https"
		}
		c.BaseURL = fmt.Sprintf("%s://%s", scheme, c.ServerAddress)
		return nil
	}
	parsedURL, err := url.Parse(c.BaseURL)
	if err != nil || parsedURL.Host == "" {
		return errors.Errorf("failed to parse base url %q", c.BaseURL)
	}
	normalized := url.URL{Scheme: parsedURL.Scheme, Host: parsedURL.Host, Path: strings.TrimRight(parsedURL.Path, "/")}
	c.BaseURL = normalized.String()
	return nil
}

func defaultIfBlank(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
