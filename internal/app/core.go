package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fsdevblog/linkshort/internal/config"
	"github.com/fsdevblog/linkshort/internal/db"
	"github.com/fsdevblog/linkshort/internal/passwords"
	"github.com/fsdevblog/linkshort/internal/qrcode"
	"github.com/fsdevblog/linkshort/internal/services"
	"go.uber.org/zap"
)

const connectTimeout = 10 * time.Second

// ErrQueueNeedsSharedStorage переходы из очереди учитывает отдельный процесс,
// ему нужно то же хранилище, что и веб-серверу.
var ErrQueueNeedsSharedStorage = errors.New("AMQP_URL requires DATABASE_DSN or SQLITE_PATH, in-memory storage is not shared between processes")

// Core хранилище и сервисный слой, общие для HTTP сервера и обработчика очереди переходов.
type Core struct {
	Services *services.Services
	QRCodes  *qrcode.Generator // nil, если генерация QR кодов не нужна процессу

	storageType db.StorageType
	conn        any
}

// NewCore подключается к хранилищу и собирает сервисы.
//
// Параметры:
//   - conf: конфигурация приложения
//   - logger: логгер
//   - withQRCodes: создавать ли генератор QR кодов
//
// Возвращает:
//   - *Core: готовое ядро
//   - error: ошибка подключения или инициализации
func NewCore(conf *config.Config, logger *zap.Logger, withQRCodes bool) (*Core, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	storageType := whatIsDBStorageType(conf)
	conn, connErr := db.NewConnectionFactory(ctx, db.FactoryConfig{
		StorageType:  storageType,
		PostgresDSN:  &conf.DatabaseDSN,
		SqliteDBPath: &conf.SQLitePath,
		Logger:       logger,
	})
	if connErr != nil {
		return nil, fmt.Errorf("connect storage: %w", connErr)
	}

	core := &Core{storageType: storageType, conn: conn}

	var qr services.QRCodeGenerator
	if withQRCodes {
		gen, qrErr := qrcode.New(func(o *qrcode.Options) {
			o.Dir = conf.QRCodesDir
			o.Size = conf.QRCodeSize
			o.Margin = conf.QRCodeMargin
		})
		if qrErr != nil {
			core.Close(logger)
			return nil, fmt.Errorf("init qr codes: %w", qrErr)
		}
		core.QRCodes = gen
		qr = gen
	}

	svc, svcErr := services.Factory(services.FactoryParams{
		Conn:        conn,
		StorageType: storageType,
		Hasher:      passwords.NewBcrypt(passwords.DefaultCost),
		QRCodes:     qr,
		CacheTTL:    conf.CacheTTL,
		Logger:      logger,
		Options: []func(*services.Options){
			func(o *services.Options) {
				o.BaseURL = conf.BaseURL
				o.MaxCodeAttempts = conf.MaxCodeAttempts
			},
		},
	})
	if svcErr != nil {
		core.Close(logger)
		return nil, fmt.Errorf("init services: %w", svcErr)
	}
	core.Services = svc

	logger.Info("storage connected", zap.String("type", string(storageType)))
	return core, nil
}

// Close дожидается фоновых задач сервисов и закрывает соединение с хранилищем.
func (c *Core) Close(logger *zap.Logger) {
	if c.Services != nil {
		c.Services.LinkService.Wait()
	}
	if sqlConn, ok := c.conn.(*db.SQLConnection); ok {
		if err := sqlConn.Close(); err != nil {
			logger.Error("failed to close storage connection", zap.Error(err))
		}
	}
}

func checkQueueStorage(conf *config.Config) error {
	if conf.AMQPURL != "" && whatIsDBStorageType(conf) == db.StorageTypeInMemory {
		return ErrQueueNeedsSharedStorage
	}
	return nil
}

// whatIsDBStorageType выбирает хранилище: postgres, затем sqlite, иначе память.
func whatIsDBStorageType(conf *config.Config) db.StorageType {
	switch {
	case conf.DatabaseDSN != "":
		return db.StorageTypePostgres
	case conf.SQLitePath != "":
		return db.StorageTypeSQLite
	default:
		return db.StorageTypeInMemory
	}
}
