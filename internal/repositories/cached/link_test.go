package cached

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fsdevblog/linkshort/internal/db"
	"github.com/fsdevblog/linkshort/internal/db/memory"
	"github.com/fsdevblog/linkshort/internal/models"
	"github.com/fsdevblog/linkshort/internal/repositories"
	"github.com/fsdevblog/linkshort/internal/repositories/memstore"
	"github.com/fsdevblog/linkshort/internal/repositories/repotest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

func TestCachedRepositories(t *testing.T) {
	s := &repotest.Suite{}
	var store *db.MemoryStorage
	s.NewRepos = func() (repotest.LinkRepository, repotest.VisitRepository) {
		store = db.NewMemStorage()
		repo, err := NewLinkRepo(memstore.NewLinkRepo(store), time.Minute, zap.NewNop())
		require.NoError(t, err)
		return repo, memstore.NewVisitRepo(store)
	}
	s.CountVisits = func(ctx context.Context, linkID string) (int, error) {
		visits, err := memory.FilterAll[models.Visit](ctx, store.Visits, func(v models.Visit) bool {
			return v.LinkID == linkID
		})
		return len(visits), err //nolint:wrapcheck
	}
	suite.Run(t, s)
}

// newCached возвращает кэширующий репозиторий и репозиторий переходов,
// который пишет в то же хранилище в обход кэша.
func newCached(t *testing.T) (*LinkRepo, *memstore.VisitRepo) {
	t.Helper()
	store := db.NewMemStorage()
	repo, err := NewLinkRepo(memstore.NewLinkRepo(store), time.Minute, zap.NewNop())
	require.NoError(t, err)
	return repo, memstore.NewVisitRepo(store)
}

func recordVisit(t *testing.T, visits *memstore.VisitRepo, linkID string) {
	t.Helper()
	require.NoError(t, visits.RecordVisit(context.Background(), &models.Visit{ID: uuid.NewString(), LinkID: linkID}))
}

func TestLinkRepo_CachesUnlimitedLinks(t *testing.T) {
	ctx := context.Background()
	repo, visits := newCached(t)
	owner := uuid.NewString()
	link := &models.Link{ID: uuid.NewString(), OriginalURL: "https://example.com", ShortCode: "cache1", OwnerID: &owner}
	require.NoError(t, repo.Create(ctx, link))

	_, err := repo.GetByShortCode(ctx, "cache1")
	require.NoError(t, err)

	// изменение в обход кэша не видно до инвалидации
	recordVisit(t, visits, link.ID)
	got, err := repo.GetByShortCode(ctx, "cache1")
	require.NoError(t, err)
	assert.EqualValues(t, 0, got.Clicks)

	require.NoError(t, repo.SoftDelete(ctx, link.ID, owner))
	_, err = repo.GetByShortCode(ctx, "cache1")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestLinkRepo_SkipsClickLimitedLinks(t *testing.T) {
	ctx := context.Background()
	repo, visits := newCached(t)
	limit := int64(3)
	link := &models.Link{ID: uuid.NewString(), OriginalURL: "https://example.com", ShortCode: "limit1", MaxClicks: &limit}
	require.NoError(t, repo.Create(ctx, link))

	_, err := repo.GetByShortCode(ctx, "limit1")
	require.NoError(t, err)
	recordVisit(t, visits, link.ID)

	got, err := repo.GetByShortCode(ctx, "limit1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.Clicks)
}

func TestLinkRepo_UpdateInvalidates(t *testing.T) {
	ctx := context.Background()
	repo, _ := newCached(t)
	link := &models.Link{ID: uuid.NewString(), OriginalURL: "https://example.com/a", ShortCode: "upd001"}
	require.NoError(t, repo.Create(ctx, link))
	_, err := repo.GetByShortCode(ctx, "upd001")
	require.NoError(t, err)

	link.OriginalURL = "https://example.com/b"
	require.NoError(t, repo.Update(ctx, link))

	got, err := repo.GetByShortCode(ctx, "upd001")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/b", got.OriginalURL)
}

// pausingRepo задерживает первый GetByShortCode после чтения из хранилища.
type pausingRepo struct {
	LinkRepository
	once    sync.Once
	read    chan struct{}
	release chan struct{}
}

func (p *pausingRepo) GetByShortCode(ctx context.Context, shortCode string) (*models.Link, error) {
	link, err := p.LinkRepository.GetByShortCode(ctx, shortCode)
	p.once.Do(func() {
		close(p.read)
		<-p.release
	})
	return link, err //nolint:wrapcheck
}

func TestLinkRepo_ReadBeforeDeleteIsNotCached(t *testing.T) {
	ctx := context.Background()
	inner := memstore.NewLinkRepo(db.NewMemStorage())
	paused := &pausingRepo{LinkRepository: inner, read: make(chan struct{}), release: make(chan struct{})}
	repo, err := NewLinkRepo(paused, time.Minute, zap.NewNop())
	require.NoError(t, err)

	owner := uuid.NewString()
	link := &models.Link{ID: uuid.NewString(), OriginalURL: "https://example.com", ShortCode: "race01", OwnerID: &owner}
	require.NoError(t, repo.Create(ctx, link))

	done := make(chan struct{})
	go func() {
		defer close(done)
		got, getErr := repo.GetByShortCode(ctx, "race01")
		assert.NoError(t, getErr)
		assert.NotNil(t, got)
	}()

	<-paused.read
	require.NoError(t, repo.SoftDelete(ctx, link.ID, owner))
	close(paused.release)
	<-done

	_, err = repo.GetByShortCode(ctx, "race01")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
