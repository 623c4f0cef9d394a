package dto_test

import (
	"net/http/httptest"
	"net/url"
	"scheduler/shared/constant"
	"scheduler/shared/dto"
	"scheduler/shared/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetadata_FromModel(t *testing.T) {
	createdAt := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	modifiedAt := createdAt.Add(time.Hour)

	metadata := &dto.Metadata{}
	metadata.FromModel(model.Metadata{
		CreatedAt:  createdAt,
		ModifiedAt: modifiedAt,
		CreatedBy:  "advisor-1",
		ModifiedBy: "client@example.com",
	})

	parsedCreated, err := time.Parse(constant.DateFormat, metadata.CreatedAt)
	assert.NoError(t, err)
	assert.True(t, parsedCreated.Equal(createdAt))

	parsedModified, err := time.Parse(constant.DateFormat, metadata.ModifiedAt)
	assert.NoError(t, err)
	assert.True(t, parsedModified.Equal(modifiedAt))

	assert.Equal(t, "advisor-1", metadata.CreatedBy)
	assert.Equal(t, "client@example.com", metadata.ModifiedBy)
}

func TestQueryParams_FromRequest(t *testing.T) {
	sortable := []string{"start_at", "created_at"}

	tests := []struct {
		name           string
		query          string
		defaultRequest bool
		expected       dto.QueryParams
	}{
		{
			name:     "all parameters",
			query:    "page=2&limit=20&sort_by=start_at&sort_dir=asc",
			expected: dto.QueryParams{Page: 2, Limit: 20, SortBy: "start_at", SortDir: dto.SortDirAsc},
		},
		{
			name:           "defaults applied",
			defaultRequest: true,
			expected:       dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:     "no defaults",
			expected: dto.QueryParams{},
		},
		{
			name:           "invalid numbers fall back to defaults",
			query:          "page=abc&limit=-10",
			defaultRequest: true,
			expected:       dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:     "limit is capped",
			query:    "limit=5000",
			expected: dto.QueryParams{Limit: constant.MaxValueLimit},
		},
		{
			name:     "unknown sort direction ignored",
			query:    "sort_dir=sideways",
			expected: dto.QueryParams{},
		},
		{
			name:     "sort column gets the default direction",
			query:    "sort_by=created_at",
			expected: dto.QueryParams{SortBy: "created_at", SortDir: constant.DefaultValueSortDir},
		},
		{
			name:     "column outside the list is ignored",
			query:    "sort_by=client_email&sort_dir=desc",
			expected: dto.QueryParams{SortDir: dto.SortDirDesc},
		},
		{
			name:     "sql in sort column is ignored",
			query:    "sort_by=" + url.QueryEscape("start_at; DROP TABLE bookings"),
			expected: dto.QueryParams{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/v1/bookings?"+tt.query, nil)

			params := &dto.QueryParams{}
			params.FromRequest(req, tt.defaultRequest, sortable...)

			assert.Equal(t, tt.expected, *params)
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	rangeStart := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	rangeEnd := rangeStart.AddDate(0, 0, 1)

	tests := []struct {
		name          string
		group         dto.FilterGroup
		expectedWhere string
		expectedArgs  map[string]any
	}{
		{
			name:          "empty group",
			group:         dto.FilterGroup{Operator: dto.FilterGroupOperatorAnd},
			expectedWhere: "",
			expectedArgs:  map[string]any{},
		},
		{
			name: "same column with distinct arg names",
			group: dto.FilterGroup{
				Operator: dto.FilterGroupOperatorAnd,
				Filters: []any{
					dto.Filter{ArgName: "range_from", Field: "start_at", Value: rangeStart, Operator: dto.FilterOperatorGreaterEq, Table: "bookings"},
					dto.Filter{ArgName: "range_to", Field: "start_at", Value: rangeEnd, Operator: dto.FilterOperatorLess, Table: "bookings"},
				},
			},
			expectedWhere: "(bookings.start_at >= :range_from AND bookings.start_at < :range_to)",
			expectedArgs:  map[string]any{"range_from": rangeStart, "range_to": rangeEnd},
		},
		{
			name: "in list expands named args",
			group: dto.FilterGroup{
				Operator: dto.FilterGroupOperatorAnd,
				Filters: []any{
					dto.Filter{Field: "status", Value: []string{"pending", "confirmed"}, Operator: dto.FilterOperatorIn},
				},
			},
			expectedWhere: "(status IN (:status_0, :status_1) )",
			expectedArgs:  map[string]any{"status_0": "pending", "status_1": "confirmed"},
		},
		{
			name: "nested group",
			group: dto.FilterGroup{
				Operator: dto.FilterGroupOperatorAnd,
				Filters: []any{
					dto.Filter{Field: "owner_id", Value: "advisor-1", Operator: dto.FilterOperatorEq},
					dto.FilterGroup{
						Operator: dto.FilterGroupOperatorOr,
						Filters: []any{
							dto.Filter{Field: "status", Value: "cancelled", Operator: dto.FilterOperatorNotEq},
							dto.Filter{Field: "calendar_event_id", Operator: dto.FilterIsNull},
						},
					},
				},
			},
			expectedWhere: "(owner_id = :owner_id AND (status != :status OR calendar_event_id IS NULL))",
			expectedArgs:  map[string]any{"owner_id": "advisor-1", "status": "cancelled"},
		},
		{
			name: "array membership ignores case",
			group: dto.FilterGroup{
				Operator: dto.FilterGroupOperatorOr,
				Filters: []any{
					dto.Filter{ArgName: "approver_id", Field: "approvers", Value: "lead-1", Operator: dto.FilterOperatorAnyFold, Table: "bookings"},
				},
			},
			expectedWhere: "(EXISTS (SELECT 1 FROM unnest(bookings.approvers) AS item WHERE LOWER(item) = LOWER(:approver_id)))",
			expectedArgs:  map[string]any{"approver_id": "lead-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.group.GetWhereClause()

			assert.Equal(t, tt.expectedWhere, where)
			assert.Equal(t, tt.expectedArgs, args)
		})
	}
}
