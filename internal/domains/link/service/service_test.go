package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"scheduler/config"
	otelMocks "scheduler/infras/otel/mocks"
	linkMocks "scheduler/internal/domains/link/mocks"
	"scheduler/internal/domains/link/model"
	"scheduler/internal/domains/link/model/dto"
	"scheduler/internal/domains/link/service"
	cacheMocks "scheduler/shared/cache/mocks"
	"scheduler/shared/constant"
	gDto "scheduler/shared/dto"
	"scheduler/shared/failure"
)

type fixture struct {
	repo  *linkMocks.MockLinkRepository
	cache *cacheMocks.MockRedisCache
	svc   service.Link
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Cache.TTL = 60
	cfg.Scheduling.DefaultTimezone = "UTC"

	f := fixture{
		repo:  linkMocks.NewMockLinkRepository(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
	}
	f.svc = service.New(f.repo, cfg, f.cache, otelMocks.NewOtel())

	return f
}

func ownerCtx(owner string) context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, owner)
}

var errMiss = errors.New("miss")

func TestLinkService_Create(t *testing.T) {
	t.Run("created with config timezone", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, l model.Link) error {
			assert.Equal(t, "UTC", l.Timezone)
			assert.Equal(t, "advisor-1", l.OwnerID)

			return nil
		})
		f.cache.EXPECT().Clear(gomock.Any(), "link:gets*").Return(nil)

		res, err := f.svc.Create(ownerCtx("advisor-1"), dto.CreateLinkRequest{Title: "Intro", DurationMinutes: 30})
		require.NoError(t, err)
		assert.True(t, res.Available)
	})

	t.Run("approval without approvers is rejected before insert", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Create(ownerCtx("advisor-1"), dto.CreateLinkRequest{Title: "Intro", DurationMinutes: 30, RequiresApproval: true})
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestLinkService_Find(t *testing.T) {
	stored := model.Link{ID: "l-1", OwnerID: "advisor-1", Active: true, DurationMinutes: 30}

	t.Run("cache miss", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), "link:get:l-1", gomock.Any()).Return(errMiss)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored, nil)
		f.cache.EXPECT().Save(gomock.Any(), "link:get:l-1", stored, 60).Return(nil)

		link, err := f.svc.Find(context.Background(), "l-1")
		require.NoError(t, err)
		assert.Equal(t, stored, link)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errMiss)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Link{}, nil)

		_, err := f.svc.Find(context.Background(), "l-404")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("another owner cannot read it", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, _ string, value any) error {
			*(value.(*model.Link)) = stored

			return nil
		})

		_, err := f.svc.Get(ownerCtx("advisor-2"), "l-1")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestLinkService_GetPublic(t *testing.T) {
	expired := time.Now().Add(-time.Hour)

	tests := []struct {
		name     string
		link     model.Link
		wantCode int
	}{
		{name: "available", link: model.Link{ID: "l-1", Active: true, Title: "Intro"}},
		{name: "inactive", link: model.Link{ID: "l-1"}, wantCode: http.StatusNotFound},
		{name: "expired", link: model.Link{ID: "l-1", Active: true, ExpiresAt: &expired}, wantCode: http.StatusNotFound},
		{name: "used up", link: model.Link{ID: "l-1", Active: true, UsageLimit: 1, UsageCount: 1}, wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errMiss)
			f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tt.link, nil)
			f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

			res, err := f.svc.GetPublic(context.Background(), "l-1")
			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Intro", res.Title)
		})
	}
}

func TestLinkService_Update(t *testing.T) {
	current := model.Link{ID: "l-1", OwnerID: "advisor-1", Active: true}
	limit := 5

	t.Run("updated and caches dropped", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(current, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, changes map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, 5, changes[model.FieldUsageLimit])

			return nil
		})
		f.cache.EXPECT().Delete(gomock.Any(), "link:get:l-1").Return(nil)
		f.cache.EXPECT().Clear(gomock.Any(), "link:gets*").Return(nil)

		assert.NoError(t, f.svc.Update(ownerCtx("advisor-1"), dto.UpdateLinkRequest{UsageLimit: &limit}, "l-1"))
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Link{}, nil)

		err := f.svc.Update(ownerCtx("advisor-1"), dto.UpdateLinkRequest{UsageLimit: &limit}, "l-1")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestLinkService_Delete(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

	err := f.svc.Delete(ownerCtx("advisor-1"), "l-1")
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}
