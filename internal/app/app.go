package app

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsdevblog/linkshort/internal/config"
	"github.com/fsdevblog/linkshort/internal/controllers"
	"github.com/fsdevblog/linkshort/internal/services/svccert"
	"github.com/fsdevblog/linkshort/internal/tracking"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
	redisPingTimeout  = 2 * time.Second
	jwtSecretLength   = 32
)

// dispatcher учет переходов с корректным завершением.
type dispatcher interface {
	controllers.VisitDispatcher
	Close(ctx context.Context) error
}

type App struct {
	config     config.Config
	core       *Core
	dispatcher dispatcher
	redis      *redis.Client
	jwtSecret  []byte
	Logger     *zap.Logger
}

// New собирает HTTP приложение: хранилище, сервисы, учет переходов и Redis.
func New(conf config.Config, logger *zap.Logger) (*App, error) {
	if err := checkQueueStorage(&conf); err != nil {
		return nil, err
	}
	core, coreErr := NewCore(&conf, logger, true)
	if coreErr != nil {
		return nil, coreErr
	}

	a := &App{
		config: conf,
		core:   core,
		Logger: logger,
	}

	secret, secretErr := jwtSecret(&conf, logger)
	if secretErr != nil {
		core.Close(logger)
		return nil, secretErr
	}
	a.jwtSecret = secret

	if conf.AMQPURL != "" {
		publisher, err := tracking.DialAMQP(conf.AMQPURL, conf.VisitsQueue, logger)
		if err != nil {
			core.Close(logger)
			return nil, fmt.Errorf("init visits publisher: %w", err)
		}
		a.dispatcher = publisher
		logger.Info("visits are published to queue", zap.String("queue", conf.VisitsQueue))
	} else {
		a.dispatcher = tracking.NewAsync(core.Services.RedirectService, logger, 0)
	}

	if conf.RedisAddr != "" {
		a.redis = newRedis(&conf, logger)
	}
	return a, nil
}

// Run запускает web сервер и блокируется до сигнала завершения или ошибки сервера.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	params := controllers.RouterParams{
		Links:              a.core.Services.LinkService,
		Resolver:           a.core.Services.RedirectService,
		Dispatcher:         a.dispatcher,
		Ping:               a.core.Services.PingService,
		JWTSecret:          a.jwtSecret,
		QRCodesDir:         a.core.QRCodes.Dir(),
		Redis:              a.redisCmdable(),
		RateLimitPerMinute: a.config.RateLimitPerMinute,
		Logger:             a.Logger,
	}
	if a.core.Services.QRCodeService != nil {
		params.QRCodes = a.core.Services.QRCodeService
	}
	router := controllers.SetupRouter(params)

	var handler http.Handler = router
	if a.config.SentryDSN != "" {
		handler = sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle(router)
	}

	server := &http.Server{
		Addr:              a.config.ServerAddress,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- a.serve(server)
	}()

	var serverErr error
	select {
	case <-ctx.Done():
		a.Logger.Info("Shutdown command received")
	case serverErr = <-errChan:
		a.Logger.Error("server error", zap.Error(serverErr))
	}

	a.shutdown(server)
	return serverErr
}

func (a *App) serve(server *http.Server) error {
	if !a.config.EnableHTTPS {
		a.Logger.Info("Starting HTTP server", zap.String("address", server.Addr))
		return ignoreServerClosed(server.ListenAndServe())
	}

	cert := svccert.New(func(o *svccert.Options) {
		o.CertFilePath = a.config.CertFile
		o.KeyFilePath = a.config.KeyFile
		o.Hosts = svccert.HostsFromConfig(a.config.ServerAddress, a.config.BaseURL)
	})
	tlsConf, err := cert.TLSConfig()
	if err != nil {
		return fmt.Errorf("prepare tls certificate: %w", err)
	}
	server.TLSConfig = tlsConf

	a.Logger.Info("Starting HTTPS server", zap.String("address", server.Addr))
	return ignoreServerClosed(server.ListenAndServeTLS("", ""))
}

// shutdown останавливает прием запросов, дожидается учета переходов и фоновых задач
// и закрывает соединения.
func (a *App) shutdown(server *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		a.Logger.Error("failed to shutdown http server", zap.Error(err))
	}
	if err := a.dispatcher.Close(ctx); err != nil {
		a.Logger.Error("failed to close visits dispatcher", zap.Error(err))
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.Logger.Error("failed to close redis client", zap.Error(err))
		}
	}
	a.core.Close(a.Logger)
	a.Logger.Info("Server stopped")
}

func (a *App) redisCmdable() redis.Cmdable {
	if a.redis == nil {
		return nil
	}
	return a.redis
}

func newRedis(conf *config.Config, logger *zap.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.RedisAddr,
		Password: conf.RedisPassword,
		DB:       conf.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	// недоступный Redis не мешает старту: ограничение частоты пропускает запросы.
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis is unavailable, rate limiting is degraded", zap.Error(err))
	}
	return client
}

// jwtSecret возвращает ключ подписи токенов владельца. Без настроенного ключа
// генерируется случайный, выданные токены не переживут перезапуск.
func jwtSecret(conf *config.Config, logger *zap.Logger) ([]byte, error) {
	if conf.VisitorJWTSecret != "" {
		return []byte(conf.VisitorJWTSecret), nil
	}
	secret := make([]byte, jwtSecretLength)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate jwt secret: %w", err)
	}
	logger.Warn("VISITOR_JWT_SECRET is not set, using a random key")
	return secret, nil
}

func ignoreServerClosed(err error) error {
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
