package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/fsdevblog/linkshort/internal/db"
	"github.com/fsdevblog/linkshort/internal/models"
	"github.com/fsdevblog/linkshort/internal/repositories"
	"github.com/fsdevblog/linkshort/internal/repositories/memstore"
	"github.com/fsdevblog/linkshort/internal/services/mocks"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRedirectService_Resolve(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	past, future := now.Add(-time.Minute), now.Add(time.Minute)

	tests := []struct {
		name    string
		link    *models.Link
		repoErr error
		wantErr error
		cause   error
	}{
		{name: "active", link: &models.Link{ShortCode: "abc123", OriginalURL: "https://example.com"}},
		{name: "not expired yet", link: &models.Link{ShortCode: "abc123", ExpiresAt: &future}},
		{name: "under limit", link: &models.Link{ShortCode: "abc123", Clicks: 2, MaxClicks: ptr(int64(3))}},
		{name: "missing", repoErr: repositories.ErrNotFound, wantErr: ErrNotFound},
		{
			name:    "expired",
			link:    &models.Link{ShortCode: "abc123", ExpiresAt: &past},
			wantErr: ErrNotFound,
			cause:   ErrLinkExpired,
		},
		{
			name:    "limit reached",
			link:    &models.Link{ShortCode: "abc123", Clicks: 3, MaxClicks: ptr(int64(3))},
			wantErr: ErrNotFound,
			cause:   ErrLinkLimitReached,
		},
		{name: "store failure", repoErr: repositories.ErrUnknown, wantErr: ErrUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			links := mocks.NewMockLinkRepository(ctrl)
			svc := NewRedirectService(links, mocks.NewMockVisitRepository(ctrl), zap.NewNop(),
				func(o *Options) { o.Now = func() time.Time { return now } })

			links.EXPECT().GetByShortCode(gomock.Any(), "abc123").Return(tt.link, tt.repoErr)

			link, err := svc.Resolve(context.Background(), "abc123")
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, tt.link, link)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.cause != nil {
				assert.ErrorIs(t, err, tt.cause)
			}
			assert.Nil(t, link)
		})
	}
}

func TestRedirectService_TrackVisit(t *testing.T) {
	ctrl := gomock.NewController(t)
	visits := mocks.NewMockVisitRepository(ctrl)
	svc := NewRedirectService(mocks.NewMockLinkRepository(ctrl), visits, zap.NewNop())
	link := &models.Link{ID: "link-1"}

	visits.EXPECT().RecordVisit(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, v *models.Visit) {
			assert.NotEmpty(t, v.ID)
			assert.Equal(t, "link-1", v.LinkID)
			assert.Equal(t, "10.0.0.1", v.IPAddress)
			assert.Equal(t, "Google", v.Source)
			assert.Equal(t, "Firefox", v.Browser)
			assert.Equal(t, "Linux", v.OS)
			assert.Equal(t, DeviceDesktop, v.Device)
		}).
		Return(nil)
	visits.EXPECT().RecordVisit(gomock.Any(), gomock.Any()).Return(repositories.ErrNotFound)

	meta := VisitMeta{
		IPAddress: "10.0.0.1",
		UserAgent: "Mozilla/5.0 (X11; Linux x86_64) Firefox/121.0",
		Referrer:  "https://www.google.com/",
	}
	require.NoError(t, svc.TrackVisit(context.Background(), link, meta))
	assert.ErrorIs(t, svc.TrackVisit(context.Background(), link, meta), ErrNotFound)
}

func TestRedirectService_TrackVisitConcurrent(t *testing.T) {
	store := db.NewMemStorage()
	links := memstore.NewLinkRepo(store)
	svc := NewRedirectService(links, memstore.NewVisitRepo(store), zap.NewNop())

	link := &models.Link{ID: uuid.NewString(), OriginalURL: gofakeit.URL(), ShortCode: "conc01", Clicks: 5}
	require.NoError(t, links.Create(context.Background(), link))

	const n = 100
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, svc.TrackVisit(context.Background(), link, VisitMeta{IPAddress: gofakeit.IPv4Address()}))
		}()
	}
	wg.Wait()

	got, err := svc.Resolve(context.Background(), "conc01")
	require.NoError(t, err)
	assert.EqualValues(t, 5+n, got.Clicks)
}

func TestRedirectService_LimitReachedAfterVisits(t *testing.T) {
	store := db.NewMemStorage()
	links := memstore.NewLinkRepo(store)
	svc := NewRedirectService(links, memstore.NewVisitRepo(store), zap.NewNop())
	ctx := context.Background()

	link := &models.Link{ID: uuid.NewString(), OriginalURL: gofakeit.URL(), ShortCode: "lim001", MaxClicks: ptr(int64(2))}
	require.NoError(t, links.Create(ctx, link))

	for range 2 {
		resolved, err := svc.Resolve(ctx, "lim001")
		require.NoError(t, err)
		require.NoError(t, svc.TrackVisit(ctx, resolved, VisitMeta{}))
	}
	_, err := svc.Resolve(ctx, "lim001")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, ErrLinkLimitReached)
}
