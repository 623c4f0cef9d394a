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
	"scheduler/infras/calendar"
	providerMocks "scheduler/infras/calendar/mocks"
	otelMocks "scheduler/infras/otel/mocks"
	calendarMocks "scheduler/internal/domains/calendar/mocks"
	"scheduler/internal/domains/calendar/model"
	"scheduler/internal/domains/calendar/model/dto"
	"scheduler/internal/domains/calendar/service"
	"scheduler/internal/scheduling"
	"scheduler/shared/constant"
	"scheduler/shared/failure"
)

type fixture struct {
	repo     *calendarMocks.MockConnection
	provider *providerMocks.MockProvider
	svc      service.Calendar
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Scheduling.IntegrationTimeoutSeconds = 2

	f := fixture{
		repo:     calendarMocks.NewMockConnection(ctrl),
		provider: providerMocks.NewMockProvider(ctrl),
	}
	f.svc = service.New(f.repo, f.provider, cfg, otelMocks.NewOtel())

	return f
}

var googleConn = model.Connection{ID: "c-1", OwnerID: "advisor-1", Provider: calendar.ProviderGoogle, RefreshToken: "rt", Active: true}

func TestCalendarService_ListBusy(t *testing.T) {
	from := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	t.Run("no connection means no busy time", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Connection{}, nil)

		busy, err := f.svc.ListBusy(context.Background(), "advisor-1", from, to)
		require.NoError(t, err)
		assert.Empty(t, busy)
	})

	t.Run("periods converted and bounded by timeout", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(googleConn, nil)
		f.provider.EXPECT().ListBusy(gomock.Any(), googleConn.ToProvider(), from, to).
			DoAndReturn(func(ctx context.Context, _ calendar.Connection, _, _ time.Time) ([]calendar.Period, error) {
				deadline, ok := ctx.Deadline()
				assert.True(t, ok)
				assert.WithinDuration(t, time.Now().Add(2*time.Second), deadline, time.Second)

				return []calendar.Period{
					{Start: from.Add(9 * time.Hour), End: from.Add(10 * time.Hour)},
					{Start: from.Add(11 * time.Hour), End: from.Add(11 * time.Hour)},
				}, nil
			})

		busy, err := f.svc.ListBusy(context.Background(), "advisor-1", from, to)
		require.NoError(t, err)
		assert.Equal(t, []scheduling.BusyPeriod{{Interval: scheduling.Interval{Start: from.Add(9 * time.Hour), End: from.Add(10 * time.Hour)}}}, busy)
	})

	t.Run("provider failure", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(googleConn, nil)
		f.provider.EXPECT().ListBusy(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("quota"))

		_, err := f.svc.ListBusy(context.Background(), "advisor-1", from, to)
		assert.ErrorContains(t, err, "quota")
	})
}

func TestCalendarService_Events(t *testing.T) {
	event := calendar.Event{Summary: "Intro", Status: calendar.EventTentative}

	t.Run("create without connection is a no-op", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Connection{}, nil)

		id, err := f.svc.CreateEvent(context.Background(), "advisor-1", event)
		require.NoError(t, err)
		assert.Empty(t, id)
	})

	t.Run("create", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(googleConn, nil)
		f.provider.EXPECT().CreateEvent(gomock.Any(), googleConn.ToProvider(), event).Return("evt-1", nil)

		id, err := f.svc.CreateEvent(context.Background(), "advisor-1", event)
		require.NoError(t, err)
		assert.Equal(t, "evt-1", id)
	})

	t.Run("confirm without connection", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Connection{}, nil)

		err := f.svc.ConfirmEvent(context.Background(), "advisor-1", "evt-1")
		assert.ErrorIs(t, err, service.ErrNotConnected)
	})

	t.Run("delete", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(googleConn, nil)
		f.provider.EXPECT().DeleteEvent(gomock.Any(), gomock.Any(), "evt-1").Return(nil)

		assert.NoError(t, f.svc.DeleteEvent(context.Background(), "advisor-1", "evt-1"))
	})
}

func TestCalendarService_Connect(t *testing.T) {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "advisor-1")

	t.Run("first connection inserted", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Connection{}, nil)
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

		res, err := f.svc.Connect(ctx, dto.ConnectRequest{Provider: calendar.ProviderCalDAV, URL: "https://dav.example.test/cal/"})
		require.NoError(t, err)
		assert.Equal(t, calendar.ProviderCalDAV, res.Provider)
	})

	t.Run("existing connection replaced", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(googleConn, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		res, err := f.svc.Connect(ctx, dto.ConnectRequest{Provider: calendar.ProviderGoogle, RefreshToken: "rt-2", CalendarID: "work"})
		require.NoError(t, err)
		assert.Equal(t, "c-1", res.ID)
		assert.Equal(t, "work", res.CalendarID)
	})

	t.Run("google without refresh token", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Connection{}, nil)

		_, err := f.svc.Connect(ctx, dto.ConnectRequest{Provider: calendar.ProviderGoogle})
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}
