package memstore

import (
	"context"
	"testing"

	"github.com/fsdevblog/linkshort/internal/db"
	"github.com/fsdevblog/linkshort/internal/db/memory"
	"github.com/fsdevblog/linkshort/internal/models"
	"github.com/fsdevblog/linkshort/internal/repositories/repotest"
	"github.com/stretchr/testify/suite"
)

func TestMemoryRepositories(t *testing.T) {
	s := &repotest.Suite{}
	var store *db.MemoryStorage
	s.NewRepos = func() (repotest.LinkRepository, repotest.VisitRepository) {
		store = db.NewMemStorage()
		return NewLinkRepo(store), NewVisitRepo(store)
	}
	s.CountVisits = func(ctx context.Context, linkID string) (int, error) {
		return countVisits(ctx, store, linkID)
	}
	suite.Run(t, s)
}

func countVisits(ctx context.Context, store *db.MemoryStorage, linkID string) (int, error) {
	visits, err := memory.FilterAll[models.Visit](ctx, store.Visits, func(v models.Visit) bool {
		return v.LinkID == linkID
	})
	return len(visits), err //nolint:wrapcheck
}
