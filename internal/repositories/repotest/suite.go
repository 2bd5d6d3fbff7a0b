// Package repotest содержит общий набор тестов, которому должна удовлетворять
// любая реализация репозиториев ссылок и переходов.
package repotest

import (
	"context"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/fsdevblog/linkshort/internal/models"
	"github.com/fsdevblog/linkshort/internal/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type LinkRepository interface {
	GetByShortCode(ctx context.Context, shortCode string) (*models.Link, error)
	ExistsByShortCode(ctx context.Context, shortCode string) (bool, error)
	GetByIDOwner(ctx context.Context, id, ownerID string) (*models.Link, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Link, error)
	Create(ctx context.Context, link *models.Link) error
	Update(ctx context.Context, link *models.Link) error
	SoftDelete(ctx context.Context, id, ownerID string) error
	SetQRCodePath(ctx context.Context, id, path string) error
}

type VisitRepository interface {
	RecordVisit(ctx context.Context, visit *models.Visit) error
}

// Suite прогоняет контракт репозиториев. NewRepos вызывается перед каждым тестом
// и должен возвращать пустое хранилище. CountVisits читает число сохраненных
// переходов ссылки напрямую из хранилища, созданного последним вызовом NewRepos.
type Suite struct {
	suite.Suite
	NewRepos    func() (LinkRepository, VisitRepository)
	CountVisits func(ctx context.Context, linkID string) (int, error)

	links  LinkRepository
	visits VisitRepository
}

func (s *Suite) SetupTest() {
	s.links, s.visits = s.NewRepos()
}

func newLink(code string, ownerID *string) *models.Link {
	return &models.Link{
		ID:          uuid.NewString(),
		OriginalURL: gofakeit.URL(),
		ShortCode:   code,
		OwnerID:     ownerID,
		Tags:        models.Tags{"a", "b"},
	}
}

func ptr[T any](v T) *T {
	return &v
}

func (s *Suite) TestCreateAndGetByShortCode() {
	ctx := context.Background()
	link := newLink("abc123", nil)
	s.Require().NoError(s.links.Create(ctx, link))

	got, err := s.links.GetByShortCode(ctx, "abc123")
	s.Require().NoError(err)
	s.Equal(link.ID, got.ID)
	s.Equal(link.OriginalURL, got.OriginalURL)
	s.Equal(models.Tags{"a", "b"}, got.Tags)
	s.EqualValues(0, got.Clicks)
	s.False(got.CreatedAt.IsZero())

	_, err = s.links.GetByShortCode(ctx, "nope00")
	s.ErrorIs(err, repositories.ErrNotFound)
}

func (s *Suite) TestCreateDuplicateShortCode() {
	ctx := context.Background()
	s.Require().NoError(s.links.Create(ctx, newLink("dup001", nil)))

	err := s.links.Create(ctx, newLink("dup001", nil))
	s.ErrorIs(err, repositories.ErrDuplicateKey)
}

func (s *Suite) TestConcurrentCreateSameShortCode() {
	ctx := context.Background()
	const n = 10
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.links.Create(ctx, newLink("race01", nil)); err == nil {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	s.Equal(1, created)
}

func (s *Suite) TestExistsByShortCode() {
	ctx := context.Background()
	exists, err := s.links.ExistsByShortCode(ctx, "ex0001")
	s.Require().NoError(err)
	s.False(exists)

	s.Require().NoError(s.links.Create(ctx, newLink("ex0001", nil)))
	exists, err = s.links.ExistsByShortCode(ctx, "ex0001")
	s.Require().NoError(err)
	s.True(exists)
}

func (s *Suite) TestSoftDeleteReleasesShortCode() {
	ctx := context.Background()
	owner := uuid.NewString()
	link := newLink("del001", &owner)
	s.Require().NoError(s.links.Create(ctx, link))

	s.Require().ErrorIs(s.links.SoftDelete(ctx, link.ID, uuid.NewString()), repositories.ErrNotFound)
	s.Require().NoError(s.links.SoftDelete(ctx, link.ID, owner))

	_, err := s.links.GetByShortCode(ctx, "del001")
	s.ErrorIs(err, repositories.ErrNotFound)
	_, err = s.links.GetByIDOwner(ctx, link.ID, owner)
	s.ErrorIs(err, repositories.ErrNotFound)
	exists, err := s.links.ExistsByShortCode(ctx, "del001")
	s.Require().NoError(err)
	s.False(exists)

	s.ErrorIs(s.links.SoftDelete(ctx, link.ID, owner), repositories.ErrNotFound)
	s.NoError(s.links.Create(ctx, newLink("del001", nil)))
}

func (s *Suite) TestGetByIDOwner() {
	ctx := context.Background()
	owner := uuid.NewString()
	link := newLink("own001", &owner)
	s.Require().NoError(s.links.Create(ctx, link))

	got, err := s.links.GetByIDOwner(ctx, link.ID, owner)
	s.Require().NoError(err)
	s.Equal("own001", got.ShortCode)

	_, err = s.links.GetByIDOwner(ctx, link.ID, uuid.NewString())
	s.ErrorIs(err, repositories.ErrNotFound)
}

func (s *Suite) TestListByOwner() {
	ctx := context.Background()
	owner := uuid.NewString()
	base := time.Now().UTC().Add(-time.Hour).Truncate(time.Second)

	older := newLink("lst001", &owner)
	older.CreatedAt = base
	newer := newLink("lst002", &owner)
	newer.CreatedAt = base.Add(time.Minute)
	foreign := newLink("lst003", ptr(uuid.NewString()))
	deleted := newLink("lst004", &owner)

	for _, l := range []*models.Link{older, newer, foreign, deleted} {
		s.Require().NoError(s.links.Create(ctx, l))
	}
	s.Require().NoError(s.links.SoftDelete(ctx, deleted.ID, owner))

	list, err := s.links.ListByOwner(ctx, owner)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(newer.ID, list[0].ID)
	s.Equal(older.ID, list[1].ID)
}

func (s *Suite) TestUpdateKeepsCodeAndClicks() {
	ctx := context.Background()
	owner := uuid.NewString()
	link := newLink("upd001", &owner)
	s.Require().NoError(s.links.Create(ctx, link))
	s.Require().NoError(s.visits.RecordVisit(ctx, &models.Visit{ID: uuid.NewString(), LinkID: link.ID}))

	link.OriginalURL = "https://example.com/new"
	link.ShortCode = "hacked"
	link.Clicks = 0
	link.MaxClicks = ptr(int64(5))
	link.Tags = models.Tags{"x"}
	s.Require().NoError(s.links.Update(ctx, link))

	got, err := s.links.GetByIDOwner(ctx, link.ID, owner)
	s.Require().NoError(err)
	s.Equal("https://example.com/new", got.OriginalURL)
	s.Equal("upd001", got.ShortCode)
	s.EqualValues(1, got.Clicks)
	s.Require().NotNil(got.MaxClicks)
	s.EqualValues(5, *got.MaxClicks)
	s.Equal(models.Tags{"x"}, got.Tags)

	missing := newLink("upd002", &owner)
	s.ErrorIs(s.links.Update(ctx, missing), repositories.ErrNotFound)
}

func (s *Suite) TestSetQRCodePath() {
	ctx := context.Background()
	link := newLink("qr0001", nil)
	s.Require().NoError(s.links.Create(ctx, link))
	s.Require().NoError(s.links.SetQRCodePath(ctx, link.ID, "qrcodes/qr0001.png"))

	got, err := s.links.GetByShortCode(ctx, "qr0001")
	s.Require().NoError(err)
	s.Require().NotNil(got.QRCodePath)
	s.Equal("qrcodes/qr0001.png", *got.QRCodePath)

	s.ErrorIs(s.links.SetQRCodePath(ctx, uuid.NewString(), "x.png"), repositories.ErrNotFound)
}

func (s *Suite) TestRecordVisitConcurrent() {
	ctx := context.Background()
	link := newLink("vis001", nil)
	s.Require().NoError(s.links.Create(ctx, link))

	const n = 50
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.visits.RecordVisit(ctx, &models.Visit{
				ID:        uuid.NewString(),
				LinkID:    link.ID,
				IPAddress: gofakeit.IPv4Address(),
				UserAgent: gofakeit.UserAgent(),
				Source:    "Direct",
			})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		s.Require().NoError(err)
	}

	got, err := s.links.GetByShortCode(ctx, "vis001")
	s.Require().NoError(err)
	s.EqualValues(n, got.Clicks)

	count, err := s.CountVisits(ctx, link.ID)
	s.Require().NoError(err)
	s.Equal(n, count)
}

func (s *Suite) TestRecordVisitUnknownLink() {
	ctx := context.Background()
	linkID := uuid.NewString()
	err := s.visits.RecordVisit(ctx, &models.Visit{ID: uuid.NewString(), LinkID: linkID})
	s.ErrorIs(err, repositories.ErrNotFound)

	count, err := s.CountVisits(ctx, linkID)
	s.Require().NoError(err)
	s.Zero(count)
}

func (s *Suite) TestRecordVisitDeletedLink() {
	ctx := context.Background()
	owner := uuid.NewString()
	link := newLink("vis002", &owner)
	s.Require().NoError(s.links.Create(ctx, link))
	s.Require().NoError(s.links.SoftDelete(ctx, link.ID, owner))

	err := s.visits.RecordVisit(ctx, &models.Visit{ID: uuid.NewString(), LinkID: link.ID})
	s.ErrorIs(err, repositories.ErrNotFound)

	count, err := s.CountVisits(ctx, link.ID)
	s.Require().NoError(err)
	s.Zero(count)
}

// Повторная запись перехода с тем же id отклоняется, и счетчик ссылки
// при этом ни разу не уменьшается.
func (s *Suite) TestRecordVisitDuplicateKeepsClicksMonotonic() {
	ctx := context.Background()
	link := newLink("vis003", nil)
	s.Require().NoError(s.links.Create(ctx, link))
	visit := &models.Visit{ID: uuid.NewString(), LinkID: link.ID}
	s.Require().NoError(s.visits.RecordVisit(ctx, visit))

	stop := make(chan struct{})
	decreased := make(chan int64, 1)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		last := int64(0)
		for {
			select {
			case <-stop:
				return
			default:
			}
			got, err := s.links.GetByShortCode(ctx, "vis003")
			if err != nil {
				continue
			}
			if got.Clicks < last {
				decreased <- got.Clicks
				return
			}
			last = got.Clicks
		}
	}()

	for range 200 {
		dup := &models.Visit{ID: visit.ID, LinkID: link.ID}
		s.Error(s.visits.RecordVisit(ctx, dup))
	}
	close(stop)
	wg.Wait()

	select {
	case v := <-decreased:
		s.Failf("clicks decreased", "observed %d", v)
	default:
	}

	got, err := s.links.GetByShortCode(ctx, "vis003")
	s.Require().NoError(err)
	s.EqualValues(1, got.Clicks)
}
