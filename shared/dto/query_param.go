package dto

import (
	"net/http"
	"scheduler/shared/constant"
	"slices"
	"strconv"
	"strings"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"
)

type QueryParams struct {
	Page    int    `json:"page"     validate:"omitempty"`
	Limit   int    `json:"limit"    validate:"omitempty"`
	SortBy  string `json:"sort_by"  validate:"omitempty"`
	SortDir string `json:"sort_dir" validate:"omitempty,oneof=ASC DESC"`
}

func positive(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0
	}

	return n
}

// FromRequest reads paging and ordering from the query string. SortBy ends up in ORDER BY,
// so only names listed in sortable are taken; anything else is ignored. Limit is capped at
// constant.MaxValueLimit. With defaultRequest the page and limit fall back to their defaults.
//
//	q := &dto.QueryParams{}
//	q.FromRequest(req, true, "start_at", "created_at")
func (q *QueryParams) FromRequest(r *http.Request, defaultRequest bool, sortable ...string) {
	query := r.URL.Query()

	if page := positive(query.Get(constant.RequestParamPage)); page > 0 {
		q.Page = page
	}

	if limit := positive(query.Get(constant.RequestParamLimit)); limit > 0 {
		q.Limit = min(limit, constant.MaxValueLimit)
	}

	if sortBy := strings.ToLower(strings.TrimSpace(query.Get(constant.RequestParamSortBy))); slices.Contains(sortable, sortBy) {
		q.SortBy = sortBy
	}

	switch dir := strings.ToUpper(query.Get(constant.RequestParamSortDir)); dir {
	case SortDirAsc, SortDirDesc:
		q.SortDir = dir
	}

	if q.SortBy != "" && q.SortDir == "" {
		q.SortDir = constant.DefaultValueSortDir
	}

	if defaultRequest {
		if q.Page == 0 {
			q.Page = constant.DefaultValuePage
		}

		if q.Limit == 0 {
			q.Limit = constant.DefaultValueLimit
		}
	}
}
