package shared_test

import (
	"context"
	"errors"
	"scheduler/shared"
	"scheduler/shared/cache/mocks"
	"scheduler/shared/constant"
	"scheduler/shared/dto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestPrincipalFromContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "advisor-1")
	ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, "advisor@example.com")

	assert.Equal(t, "advisor-1", shared.UserID(ctx))
	assert.Equal(t, "advisor@example.com", shared.UserEmail(ctx))
	assert.Empty(t, shared.UserID(context.Background()))
	assert.Empty(t, shared.UserEmail(context.Background()))
}

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		limit    int
		expected int
	}{
		{name: "zero total", total: 0, limit: 10, expected: 1},
		{name: "zero limit", total: 100, limit: 0, expected: 1},
		{name: "negative limit", total: 100, limit: -5, expected: 1},
		{name: "exact division", total: 100, limit: 10, expected: 10},
		{name: "remainder rounds up", total: 101, limit: 10, expected: 11},
		{name: "limit above total", total: 5, limit: 10, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, shared.CalculateTotalPage(tt.total, tt.limit))
		})
	}
}

func TestTransformFields(t *testing.T) {
	type window struct {
		Weekday   int     `db:"weekday"`
		StartTime string  `db:"start_time"`
		Timezone  *string `db:"timezone"`
		Notes     string
		Empty     string `db:"empty"`
	}

	tz := "Europe/Berlin"

	fields := shared.TransformFields(window{
		Weekday:   2,
		StartTime: "09:00",
		Timezone:  &tz,
		Notes:     "untagged",
	}, "advisor-1")

	assert.Equal(t, 2, fields["weekday"])
	assert.Equal(t, "09:00", fields["start_time"])
	assert.Equal(t, "Europe/Berlin", fields["timezone"])
	assert.NotContains(t, fields, "empty")
	assert.NotContains(t, fields, "Notes")
	assert.Equal(t, "advisor-1", fields[constant.FieldModifiedBy])
	assert.IsType(t, time.Time{}, fields[constant.FieldModifiedAt])
}

func TestFilterByID(t *testing.T) {
	group := shared.FilterByID("b-1", "id", "bookings")

	where, args := group.GetWhereClause()

	assert.Equal(t, "(bookings.id = :id)", where)
	assert.Equal(t, map[string]any{"id": "b-1"}, args)
}

func TestFilterByOwner(t *testing.T) {
	tests := []struct {
		name          string
		extra         []dto.Filter
		expectedWhere string
		expectedArgs  map[string]any
	}{
		{
			name:          "owner only",
			expectedWhere: "(links.owner_id = :owner_id)",
			expectedArgs:  map[string]any{"owner_id": "advisor-1"},
		},
		{
			name: "narrowed by id",
			extra: []dto.Filter{
				{Field: "id", Value: "l-1", Operator: dto.FilterOperatorEq, Table: "links"},
			},
			expectedWhere: "(links.owner_id = :owner_id AND links.id = :id)",
			expectedArgs:  map[string]any{"owner_id": "advisor-1", "id": "l-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			group := shared.FilterByOwner("advisor-1", "owner_id", "links", tt.extra...)

			where, args := group.GetWhereClause()

			assert.Equal(t, tt.expectedWhere, where)
			assert.Equal(t, tt.expectedArgs, args)
		})
	}
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	params := dto.QueryParams{Page: 1, Limit: 10, SortBy: "created_at", SortDir: dto.SortDirDesc}
	filter := shared.FilterByOwner("advisor-1", "owner_id", "links")

	first := shared.BuildCacheKeyWithQuery("links", params, filter)
	second := shared.BuildCacheKeyWithQuery("links", params, filter)

	require.Equal(t, first, second)
	assert.Contains(t, first, "links:1:10:created_at:DESC")
	assert.Contains(t, first, "owner_id=advisor-1")

	other := shared.BuildCacheKeyWithQuery("links", params, shared.FilterByOwner("advisor-2", "owner_id", "links"))
	assert.NotEqual(t, first, other)
}

func TestInvalidateCaches(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "cleared"},
		{name: "clear failure is swallowed", err: errors.New("redis down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			redisCache := mocks.NewMockRedisCache(ctrl)

			redisCache.EXPECT().Clear(gomock.Any(), "links"+constant.Asterix).Return(tt.err)

			shared.InvalidateCaches(context.Background(), redisCache, "links")
		})
	}
}
