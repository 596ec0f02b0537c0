package pagination

import (
	"net/http"
	"strconv"
)

// Page size bounds.
const (
	DefaultPerPage = 24
	MaxPerPage     = 100
)

// Params holds pagination parameters extracted from query strings.
type Params struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Offset  int `json:"-"`
}

// DefaultParams returns the first page at the default size.
func DefaultParams() Params {
	return Params{Page: 1, PerPage: DefaultPerPage}
}

// FromRequest extracts page and per_page from the query string. Values that
// are missing, malformed or out of range fall back to the defaults.
func FromRequest(r *http.Request) Params {
	p := DefaultParams()
	q := r.URL.Query()

	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
		p.Page = v
	}
	if v, err := strconv.Atoi(q.Get("per_page")); err == nil && v > 0 && v <= MaxPerPage {
		p.PerPage = v
	}

	p.Offset = (p.Page - 1) * p.PerPage
	return p
}

// Result is one page of items plus the numbers a pager needs.
type Result[T any] struct {
	Items      []T  `json:"items"`
	TotalCount int  `json:"total_count"`
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// NewResult wraps an already-fetched page.
func NewResult[T any](items []T, totalCount int, params Params) Result[T] {
	totalPages := (totalCount + params.PerPage - 1) / params.PerPage

	return Result[T]{
		Items:      items,
		TotalCount: totalCount,
		Page:       params.Page,
		PerPage:    params.PerPage,
		TotalPages: totalPages,
		HasNext:    params.Page < totalPages,
		HasPrev:    params.Page > 1,
	}
}

// Slice pages through an in-memory collection. A page past the end yields
// no items; Items is never nil.
func Slice[T any](all []T, params Params) Result[T] {
	start := min(params.Offset, len(all))
	end := min(start+params.PerPage, len(all))

	items := make([]T, end-start)
	copy(items, all[start:end])
	return NewResult(items, len(all), params)
}
