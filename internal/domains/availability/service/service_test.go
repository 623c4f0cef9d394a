package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"scheduler/config"
	otelMocks "scheduler/infras/otel/mocks"
	availabilityMocks "scheduler/internal/domains/availability/mocks"
	"scheduler/internal/domains/availability/model"
	"scheduler/internal/domains/availability/model/dto"
	"scheduler/internal/domains/availability/service"
	"scheduler/internal/scheduling"
	cacheMocks "scheduler/shared/cache/mocks"
	"scheduler/shared/constant"
	gDto "scheduler/shared/dto"
	"scheduler/shared/failure"
)

type fixture struct {
	repo  *availabilityMocks.MockWindow
	cache *cacheMocks.MockRedisCache
	svc   service.Availability
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Cache.TTL = 60

	f := fixture{
		repo:  availabilityMocks.NewMockWindow(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
	}
	f.svc = service.New(f.repo, cfg, f.cache, otelMocks.NewOtel())

	return f
}

func ownerCtx() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "advisor-1")
}

func TestAvailabilityService_Create(t *testing.T) {
	tests := []struct {
		name     string
		req      dto.CreateWindowRequest
		setup    func(f fixture)
		wantCode int
	}{
		{
			name: "created",
			req:  dto.CreateWindowRequest{DayOfWeek: "mon", StartTime: "09:00", EndTime: "12:00"},
			setup: func(f fixture) {
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, w model.Window) error {
					assert.Equal(t, "advisor-1", w.OwnerID)
					assert.Equal(t, 1, w.DayOfWeek)
					assert.Equal(t, 540, w.StartMinute)
					assert.Equal(t, 720, w.EndMinute)
					assert.True(t, w.Active)

					return nil
				})
				f.cache.EXPECT().Delete(gomock.Any(), "availability:owner:advisor-1").Return(nil)
			},
		},
		{
			name:     "start after end",
			req:      dto.CreateWindowRequest{DayOfWeek: "mon", StartTime: "12:00", EndTime: "09:00"},
			setup:    func(fixture) {},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "repository failure",
			req:  dto.CreateWindowRequest{DayOfWeek: "tue", StartTime: "09:00", EndTime: "10:00"},
			setup: func(f fixture) {
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(f)

			res, err := f.svc.Create(ownerCtx(), tt.req)
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "mon", res.DayOfWeek)
			assert.Equal(t, "09:00", res.StartTime)
		})
	}
}

func TestAvailabilityService_Update(t *testing.T) {
	current := model.Window{ID: "w-1", OwnerID: "advisor-1", DayOfWeek: 1, StartMinute: 540, EndMinute: 720, Active: true}

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Window{}, nil)

		err := f.svc.Update(ownerCtx(), dto.UpdateWindowRequest{Name: "x"}, "w-1")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("end moved before start", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(current, nil)

		err := f.svc.Update(ownerCtx(), dto.UpdateWindowRequest{EndTime: "08:00"}, "w-1")
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("start moved to midnight", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(current, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, changes map[string]any, _ gDto.FilterGroup) error {
			assert.Equal(t, 0, changes[model.FieldStartMinute])
			assert.Equal(t, 720, changes[model.FieldEndMinute])

			return nil
		})
		f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

		err := f.svc.Update(ownerCtx(), dto.UpdateWindowRequest{StartTime: "00:00"}, "w-1")
		assert.NoError(t, err)
	})

	t.Run("empty request", func(t *testing.T) {
		f := newFixture(t)

		err := f.svc.Update(ownerCtx(), dto.UpdateWindowRequest{}, "w-1")
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestAvailabilityService_ListForOwner(t *testing.T) {
	rows := []model.Window{
		{ID: "w-1", OwnerID: "advisor-1", DayOfWeek: 1, StartMinute: 540, EndMinute: 720, Active: true},
		{ID: "w-2", OwnerID: "advisor-1", DayOfWeek: 3, StartMinute: 600, EndMinute: 660, Active: false},
	}

	t.Run("cache miss reads repository and fills cache", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), "availability:owner:advisor-1", gomock.Any()).Return(errors.New("miss"))
		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(rows, nil)
		f.cache.EXPECT().Save(gomock.Any(), "availability:owner:advisor-1", rows, 60).Return(nil)

		windows, err := f.svc.ListForOwner(context.Background(), "advisor-1")
		require.NoError(t, err)
		require.Len(t, windows, 2)
		assert.Equal(t, scheduling.Window{Day: scheduling.Monday, Start: 540, End: 720, Active: true}, windows[0])
		assert.False(t, windows[1].Active)
	})

	t.Run("cache hit", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, _ string, value any) error {
			*(value.(*[]model.Window)) = rows[:1]

			return nil
		})

		windows, err := f.svc.ListForOwner(context.Background(), "advisor-1")
		require.NoError(t, err)
		assert.Len(t, windows, 1)
	})

	t.Run("repository failure", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))

		_, err := f.svc.ListForOwner(context.Background(), "advisor-1")
		assert.Error(t, err)
	})
}
