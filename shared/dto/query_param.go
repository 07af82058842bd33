package dto

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"hostel/shared/constant"
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

func positiveInt(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0
	}

	return n
}

// FromRequest reads page, limit, sort_by and sort_dir from the query string.
// Invalid values are ignored and limit is capped at MaxValueLimit. With
// withDefaults, a missing page or limit falls back to the package defaults.
func (q *QueryParams) FromRequest(r *http.Request, withDefaults bool) {
	values := r.URL.Query()

	if page := positiveInt(values.Get(constant.RequestParamPage)); page > 0 {
		q.Page = page
	}

	if limit := positiveInt(values.Get(constant.RequestParamLimit)); limit > 0 {
		q.Limit = min(limit, constant.MaxValueLimit)
	}

	if sortBy := strings.TrimSpace(values.Get(constant.RequestParamSortBy)); sortBy != "" {
		q.SortBy = sortBy
	}

	if dir := strings.ToUpper(values.Get(constant.RequestParamSortDir)); dir == SortDirAsc || dir == SortDirDesc {
		q.SortDir = dir
	}

	if !withDefaults {
		return
	}

	if q.Page == 0 {
		q.Page = constant.DefaultValuePage
	}

	if q.Limit == 0 {
		q.Limit = constant.DefaultValueLimit
	}
}

// AllowSort keeps SortBy only when it names one of columns, qualified with table.
// Anything else is dropped so the caller's default ordering applies.
func (q *QueryParams) AllowSort(table string, columns ...string) {
	if q.SortBy == "" {
		return
	}

	column := strings.TrimPrefix(q.SortBy, table+".")
	if !slices.Contains(columns, column) {
		q.SortBy, q.SortDir = "", ""

		return
	}

	q.SortBy = table + "." + column

	if q.SortDir == "" {
		q.SortDir = constant.DefaultValueSortDir
	}
}
