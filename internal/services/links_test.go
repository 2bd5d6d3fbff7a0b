package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/fsdevblog/linkshort/internal/db"
	"github.com/fsdevblog/linkshort/internal/models"
	"github.com/fsdevblog/linkshort/internal/passwords"
	"github.com/fsdevblog/linkshort/internal/repositories"
	"github.com/fsdevblog/linkshort/internal/repositories/memstore"
	"github.com/fsdevblog/linkshort/internal/services/mocks"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testBaseURL = "http://short.test"

func ptr[T any](v T) *T {
	return &v
}

// codeSequence генератор, возвращающий коды по очереди.
func codeSequence(codes ...string) func() string {
	var i int
	return func() string {
		code := codes[i%len(codes)]
		i++
		return code
	}
}

type linkDeps struct {
	repo   *mocks.MockLinkRepository
	hasher *mocks.MockPasswordHasher
	qr     *mocks.MockQRCodeGenerator
}

func newLinkService(t *testing.T, opts ...func(*Options)) (*LinkService, linkDeps) {
	t.Helper()
	ctrl := gomock.NewController(t)
	deps := linkDeps{
		repo:   mocks.NewMockLinkRepository(ctrl),
		hasher: mocks.NewMockPasswordHasher(ctrl),
		qr:     mocks.NewMockQRCodeGenerator(ctrl),
	}
	opts = append([]func(*Options){func(o *Options) { o.BaseURL = testBaseURL }}, opts...)
	svc := NewLinkService(deps.repo, deps.hasher, deps.qr, zap.NewNop(), opts...)
	t.Cleanup(svc.Wait)
	return svc, deps
}

func expectQRCode(deps linkDeps, shortURL string) {
	deps.qr.EXPECT().Generate(gomock.Any(), shortURL).Return("/qrcodes/x.png", nil)
	deps.repo.EXPECT().SetQRCodePath(gomock.Any(), gomock.Any(), "/qrcodes/x.png").Return(nil)
}

func TestLinkService_Create_RandomCode(t *testing.T) {
	svc, deps := newLinkService(t, func(o *Options) { o.GenerateCode = codeSequence("aaaaaa") })
	rawURL := gofakeit.URL()
	owner := "owner-1"

	deps.repo.EXPECT().ExistsByShortCode(gomock.Any(), "aaaaaa").Return(false, nil)
	deps.repo.EXPECT().Create(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, link *models.Link) {
			assert.Equal(t, rawURL, link.OriginalURL)
			assert.Equal(t, "aaaaaa", link.ShortCode)
			assert.False(t, link.CustomSlug)
			assert.NotEmpty(t, link.ID)
			assert.Equal(t, &owner, link.OwnerID)
			assert.EqualValues(t, 0, link.Clicks)
		}).
		Return(nil)
	expectQRCode(deps, testBaseURL+"/aaaaaa")

	res, err := svc.Create(context.Background(), CreateLinkParams{
		OriginalURL: rawURL,
		OwnerID:     &owner,
		Tags:        []string{"go", " go "},
	})
	require.NoError(t, err)
	assert.Equal(t, testBaseURL+"/aaaaaa", res.ShortURL)
	assert.Equal(t, models.Tags{"go"}, res.Tags)
}

func TestLinkService_Create_RetriesOnCollision(t *testing.T) {
	svc, deps := newLinkService(t, func(o *Options) {
		o.GenerateCode = codeSequence("taken1", "racy01", "free01")
	})

	gomock.InOrder(
		deps.repo.EXPECT().ExistsByShortCode(gomock.Any(), "taken1").Return(true, nil),
		deps.repo.EXPECT().ExistsByShortCode(gomock.Any(), "racy01").Return(false, nil),
		deps.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(repositories.ErrDuplicateKey),
		deps.repo.EXPECT().ExistsByShortCode(gomock.Any(), "free01").Return(false, nil),
		deps.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil),
	)
	expectQRCode(deps, testBaseURL+"/free01")

	res, err := svc.Create(context.Background(), CreateLinkParams{OriginalURL: "https://example.com"})
	require.NoError(t, err)
	assert.Equal(t, "free01", res.ShortCode)
}

func TestLinkService_Create_Exhausted(t *testing.T) {
	svc, deps := newLinkService(t, func(o *Options) {
		o.GenerateCode = codeSequence("always")
		o.MaxCodeAttempts = 3
	})
	deps.repo.EXPECT().ExistsByShortCode(gomock.Any(), "always").Return(true, nil).Times(3)

	_, err := svc.Create(context.Background(), CreateLinkParams{OriginalURL: "https://example.com"})
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestLinkService_Create_CustomSlug(t *testing.T) {
	t.Run("free", func(t *testing.T) {
		svc, deps := newLinkService(t)
		deps.repo.EXPECT().ExistsByShortCode(gomock.Any(), "my-link").Return(false, nil)
		deps.repo.EXPECT().Create(gomock.Any(), gomock.Any()).
			Do(func(_ context.Context, link *models.Link) {
				assert.True(t, link.CustomSlug)
			}).
			Return(nil)
		expectQRCode(deps, testBaseURL+"/my-link")

		res, err := svc.Create(context.Background(), CreateLinkParams{
			OriginalURL: "https://example.com",
			CustomSlug:  ptr("my-link"),
		})
		require.NoError(t, err)
		assert.Equal(t, "my-link", res.ShortCode)
	})

	t.Run("taken", func(t *testing.T) {
		svc, deps := newLinkService(t)
		deps.repo.EXPECT().ExistsByShortCode(gomock.Any(), "my-link").Return(true, nil)

		_, err := svc.Create(context.Background(), CreateLinkParams{
			OriginalURL: "https://example.com",
			CustomSlug:  ptr("my-link"),
		})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("taken on insert", func(t *testing.T) {
		svc, deps := newLinkService(t)
		deps.repo.EXPECT().ExistsByShortCode(gomock.Any(), "my-link").Return(false, nil)
		deps.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(repositories.ErrDuplicateKey)

		_, err := svc.Create(context.Background(), CreateLinkParams{
			OriginalURL: "https://example.com",
			CustomSlug:  ptr("my-link"),
		})
		assert.ErrorIs(t, err, ErrConflict)
	})

	for _, slug := range []string{"has space", "slash/", "кириллица", "api", "ping", "qrcode", "qrcodes"} {
		t.Run("invalid "+slug, func(t *testing.T) {
			svc, _ := newLinkService(t)
			_, err := svc.Create(context.Background(), CreateLinkParams{
				OriginalURL: "https://example.com",
				CustomSlug:  ptr(slug),
			})
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestLinkService_Create_Validation(t *testing.T) {
	tests := []struct {
		name   string
		params CreateLinkParams
	}{
		{name: "not a url", params: CreateLinkParams{OriginalURL: "not a url"}},
		{name: "relative", params: CreateLinkParams{OriginalURL: "/path/only"}},
		{name: "ftp scheme", params: CreateLinkParams{OriginalURL: "ftp://example.com/file"}},
		{name: "no host", params: CreateLinkParams{OriginalURL: "https://"}},
		{name: "zero max clicks", params: CreateLinkParams{OriginalURL: "https://example.com", MaxClicks: ptr(int64(0))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newLinkService(t)
			_, err := svc.Create(context.Background(), tt.params)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestLinkService_Create_HashesPassword(t *testing.T) {
	svc, deps := newLinkService(t, func(o *Options) { o.GenerateCode = codeSequence("pass01") })

	deps.hasher.EXPECT().Hash("secret").Return("hashed-secret", nil)
	deps.repo.EXPECT().ExistsByShortCode(gomock.Any(), "pass01").Return(false, nil)
	deps.repo.EXPECT().Create(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, link *models.Link) {
			require.NotNil(t, link.PasswordHash)
			assert.Equal(t, "hashed-secret", *link.PasswordHash)
		}).
		Return(nil)
	expectQRCode(deps, testBaseURL+"/pass01")

	_, err := svc.Create(context.Background(), CreateLinkParams{
		OriginalURL: "https://example.com",
		Password:    ptr("secret"),
	})
	require.NoError(t, err)
}

func TestLinkService_Create_PasswordTooLong(t *testing.T) {
	svc, deps := newLinkService(t)
	deps.hasher.EXPECT().Hash(gomock.Any()).Return("", passwords.ErrTooLong)

	_, err := svc.Create(context.Background(), CreateLinkParams{
		OriginalURL: "https://example.com",
		Password:    ptr("long"),
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLinkService_Create_QRCodeFailureIsIgnored(t *testing.T) {
	svc, deps := newLinkService(t, func(o *Options) { o.GenerateCode = codeSequence("qrfail") })

	deps.repo.EXPECT().ExistsByShortCode(gomock.Any(), "qrfail").Return(false, nil)
	deps.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	deps.qr.EXPECT().Generate(gomock.Any(), gomock.Any()).Return("", errors.New("disk full"))

	res, err := svc.Create(context.Background(), CreateLinkParams{OriginalURL: "https://example.com"})
	require.NoError(t, err)
	assert.Nil(t, res.QRCodePath)
	svc.Wait()
}

func TestLinkService_Create_StoreError(t *testing.T) {
	svc, deps := newLinkService(t)
	deps.repo.EXPECT().ExistsByShortCode(gomock.Any(), gomock.Any()).Return(false, repositories.ErrUnknown)

	_, err := svc.Create(context.Background(), CreateLinkParams{OriginalURL: "https://example.com"})
	assert.ErrorIs(t, err, ErrUnknown)
}

func TestLinkService_Update(t *testing.T) {
	existing := func() *models.Link {
		return &models.Link{
			ID:           "id-1",
			OriginalURL:  "https://example.com/old",
			ShortCode:    "upd001",
			OwnerID:      ptr("owner-1"),
			Clicks:       7,
			PasswordHash: ptr("old-hash"),
			QRCodePath:   ptr("/qrcodes/old.png"),
		}
	}

	t.Run("changes provided fields only", func(t *testing.T) {
		svc, deps := newLinkService(t)
		deps.repo.EXPECT().GetByIDOwner(gomock.Any(), "id-1", "owner-1").Return(existing(), nil)
		deps.repo.EXPECT().Update(gomock.Any(), gomock.Any()).
			Do(func(_ context.Context, link *models.Link) {
				assert.Equal(t, "https://example.com/new", link.OriginalURL)
				assert.Equal(t, "upd001", link.ShortCode)
				assert.EqualValues(t, 7, link.Clicks)
				assert.Nil(t, link.PasswordHash)
				assert.Equal(t, models.Tags{"a"}, link.Tags)
			}).
			Return(nil)

		res, err := svc.Update(context.Background(), "id-1", "owner-1", UpdateLinkParams{
			OriginalURL: ptr("https://example.com/new"),
			Password:    ptr(""),
			Tags:        &[]string{"a"},
		})
		require.NoError(t, err)
		assert.Equal(t, testBaseURL+"/upd001", res.ShortURL)
	})

	t.Run("regenerates missing qr code", func(t *testing.T) {
		svc, deps := newLinkService(t)
		link := existing()
		link.QRCodePath = nil
		deps.repo.EXPECT().GetByIDOwner(gomock.Any(), "id-1", "owner-1").Return(link, nil)
		deps.hasher.EXPECT().Hash("new").Return("new-hash", nil)
		deps.repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
		expectQRCode(deps, testBaseURL+"/upd001")

		_, err := svc.Update(context.Background(), "id-1", "owner-1", UpdateLinkParams{Password: ptr("new")})
		require.NoError(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		svc, deps := newLinkService(t)
		deps.repo.EXPECT().GetByIDOwner(gomock.Any(), "id-1", "stranger").Return(nil, repositories.ErrNotFound)

		_, err := svc.Update(context.Background(), "id-1", "stranger", UpdateLinkParams{})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("invalid url", func(t *testing.T) {
		svc, deps := newLinkService(t)
		deps.repo.EXPECT().GetByIDOwner(gomock.Any(), "id-1", "owner-1").Return(existing(), nil)

		_, err := svc.Update(context.Background(), "id-1", "owner-1", UpdateLinkParams{OriginalURL: ptr("mailto:x@y")})
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestLinkService_Remove(t *testing.T) {
	svc, deps := newLinkService(t)
	deps.repo.EXPECT().SoftDelete(gomock.Any(), "id-1", "owner-1").Return(nil)
	deps.repo.EXPECT().SoftDelete(gomock.Any(), "id-2", "owner-1").Return(repositories.ErrNotFound)

	require.NoError(t, svc.Remove(context.Background(), "id-1", "owner-1"))
	assert.ErrorIs(t, svc.Remove(context.Background(), "id-2", "owner-1"), ErrNotFound)
}

func TestLinkService_VerifyPassword(t *testing.T) {
	svc, deps := newLinkService(t)
	ctx := context.Background()

	deps.repo.EXPECT().GetByShortCode(gomock.Any(), "nolink").Return(nil, repositories.ErrNotFound)
	deps.repo.EXPECT().GetByShortCode(gomock.Any(), "nopass").Return(&models.Link{ShortCode: "nopass"}, nil)
	deps.repo.EXPECT().GetByShortCode(gomock.Any(), "secret").
		Return(&models.Link{ShortCode: "secret", PasswordHash: ptr("hash")}, nil).Times(2)
	deps.hasher.EXPECT().Compare("hash", "right").Return(true)
	deps.hasher.EXPECT().Compare("hash", "wrong").Return(false)

	ok, err := svc.VerifyPassword(ctx, "nolink", "x")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.VerifyPassword(ctx, "nopass", "x")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.VerifyPassword(ctx, "secret", "right")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.VerifyPassword(ctx, "secret", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLinkService_List(t *testing.T) {
	svc, deps := newLinkService(t)
	deps.repo.EXPECT().ListByOwner(gomock.Any(), "owner-1").
		Return([]models.Link{{ShortCode: "b"}, {ShortCode: "a"}}, nil)

	list, err := svc.List(context.Background(), "owner-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, testBaseURL+"/b", list[0].ShortURL)
	assert.Equal(t, testBaseURL+"/a", list[1].ShortURL)
}

// Конкурентные создания на реальном in-memory хранилище всегда дают разные коды,
// даже когда генератор выдает одинаковые кандидаты.
func TestLinkService_ConcurrentCreateDistinctCodes(t *testing.T) {
	store := db.NewMemStorage()
	var mu sync.Mutex
	gen := codeSequence("same01", "same01", "other1", "other2", "other3", "other4")
	svc := NewLinkService(
		memstore.NewLinkRepo(store),
		passwords.NewBcrypt(bcrypt.MinCost),
		nil,
		zap.NewNop(),
		func(o *Options) {
			o.GenerateCode = func() string {
				mu.Lock()
				defer mu.Unlock()
				return gen()
			}
		},
	)

	const n = 4
	var wg sync.WaitGroup
	codes := make(chan string, n)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.Create(context.Background(), CreateLinkParams{OriginalURL: gofakeit.URL()})
			if assert.NoError(t, err) {
				codes <- res.ShortCode
			}
		}()
	}
	wg.Wait()
	close(codes)

	seen := make(map[string]struct{})
	for code := range codes {
		_, dup := seen[code]
		assert.False(t, dup, "duplicate code %s", code)
		seen[code] = struct{}{}
	}
	assert.Len(t, seen, n)
}

func TestLinkService_CreateWithRealPassword(t *testing.T) {
	store := db.NewMemStorage()
	repo := memstore.NewLinkRepo(store)
	svc := NewLinkService(repo, passwords.NewBcrypt(bcrypt.MinCost), nil, zap.NewNop())

	expires := time.Now().Add(time.Hour)
	res, err := svc.Create(context.Background(), CreateLinkParams{
		OriginalURL: "https://example.com",
		Password:    ptr("secret"),
		ExpiresAt:   &expires,
	})
	require.NoError(t, err)
	require.NotNil(t, res.PasswordHash)
	assert.NotEqual(t, "secret", *res.PasswordHash)

	ok, err := svc.VerifyPassword(context.Background(), res.ShortCode, "secret")
	require.NoError(t, err)
	assert.True(t, ok)
}
