package helpers

import (
	"net/http"
	"strconv"

	"stagepass/internal/domain"
)

// Pagination query parameter defaults and limits.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ParsePagination reads page and page_size from the query string. Missing,
// malformed, or out-of-range values fall back to defaults rather than erroring,
// so a bad pagination parameter never fails a list request.
func ParsePagination(r *http.Request) domain.PaginationParams {
	q := r.URL.Query()
	return domain.PaginationParams{
		Page:     queryInt(q.Get("page"), DefaultPage, DefaultPage, 0),
		PageSize: queryInt(q.Get("page_size"), DefaultPageSize, 1, MaxPageSize),
	}
}

// queryInt parses s as an integer in [min, max]; max 0 means unbounded.
// Anything unparseable or below min yields fallback; above max clamps to max.
func queryInt(s string, fallback, min, max int) int {
	v, err := strconv.Atoi(s)
	if err != nil || v < min {
		return fallback
	}
	if max > 0 && v > max {
		return max
	}
	return v
}

// PaginationMeta is the pagination metadata included in paginated list responses.
// swagger:model PaginationMeta
type PaginationMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPaginationMeta computes TotalPages as ceiling(total/pageSize);
// a zero pageSize yields zero total pages.
func NewPaginationMeta(page, pageSize, total int) PaginationMeta {
	meta := PaginationMeta{Page: page, PageSize: pageSize, Total: total}
	if pageSize > 0 {
		meta.TotalPages = (total + pageSize - 1) / pageSize
	}
	return meta
}
