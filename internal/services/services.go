package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/fsdevblog/linkshort/internal/db"
	"github.com/fsdevblog/linkshort/internal/repositories/cached"
	"github.com/fsdevblog/linkshort/internal/repositories/memstore"
	"github.com/fsdevblog/linkshort/internal/repositories/sql"
	"go.uber.org/zap"
)

type Services struct {
	LinkService     *LinkService
	RedirectService *RedirectService
	PingService     *PingService
	QRCodeService   *QRCodeService // nil, если генератор QR кодов не задан
}

// FactoryParams зависимости сервисного слоя.
type FactoryParams struct {
	Conn        any            // *db.SQLConnection или *db.MemoryStorage
	StorageType db.StorageType // Тип хранилища, которому соответствует Conn.
	Hasher      PasswordHasher
	QRCodes     QRCodeGenerator // nil отключает генерацию QR кодов.
	CacheTTL    time.Duration   // 0 отключает кэширование ссылок.
	Logger      *zap.Logger
	Options     []func(*Options)
}

// Factory собирает репозитории под тип хранилища и создает сервисы.
func Factory(p FactoryParams) (*Services, error) {
	var (
		links  LinkRepository
		visits VisitRepository
		pinger Pinger
	)
	switch p.StorageType {
	case db.StorageTypePostgres, db.StorageTypeSQLite:
		conn, ok := p.Conn.(*db.SQLConnection)
		if !ok {
			return nil, errors.New("invalid connection type. expected *db.SQLConnection")
		}
		links, visits, pinger = sql.NewLinkRepo(conn.DB), sql.NewVisitRepo(conn.DB), conn
	case db.StorageTypeInMemory:
		store, ok := p.Conn.(*db.MemoryStorage)
		if !ok {
			return nil, errors.New("invalid connection type. expected *db.MemoryStorage")
		}
		links, visits, pinger = memstore.NewLinkRepo(store), memstore.NewVisitRepo(store), store
	default:
		return nil, fmt.Errorf("unknown storage type: %s", p.StorageType)
	}

	if p.CacheTTL > 0 {
		cachedLinks, err := cached.NewLinkRepo(links, p.CacheTTL, p.Logger)
		if err != nil {
			return nil, fmt.Errorf("init links cache: %w", err)
		}
		links = cachedLinks
	}

	svc := &Services{
		LinkService:     NewLinkService(links, p.Hasher, p.QRCodes, p.Logger, p.Options...),
		RedirectService: NewRedirectService(links, visits, p.Logger, p.Options...),
		PingService:     NewPingService(pinger),
	}
	if p.QRCodes != nil {
		svc.QRCodeService = NewQRCodeService(p.QRCodes, p.Logger, p.Options...)
	}
	return svc, nil
}
