package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		page    int
		perPage int
		offset  int
	}{
		{"defaults", "", 1, DefaultPerPage, 0},
		{"custom", "?page=3&per_page=50", 3, 50, 100},
		{"negative page", "?page=-1", 1, DefaultPerPage, 0},
		{"zero page", "?page=0", 1, DefaultPerPage, 0},
		{"non-numeric page", "?page=abc", 1, DefaultPerPage, 0},
		{"per_page over cap", "?per_page=200", 1, DefaultPerPage, 0},
		{"per_page at cap", "?per_page=100", 1, 100, 0},
		{"zero per_page", "?per_page=0", 1, DefaultPerPage, 0},
		{"offset", "?page=5&per_page=20", 5, 20, 80},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := FromRequest(httptest.NewRequest(http.MethodGet, "/items"+tt.query, nil))
			assert.Equal(t, tt.page, p.Page)
			assert.Equal(t, tt.perPage, p.PerPage)
			assert.Equal(t, tt.offset, p.Offset)
		})
	}
}

func TestNewResult(t *testing.T) {
	tests := []struct {
		name       string
		total      int
		params     Params
		totalPages int
		hasNext    bool
		hasPrev    bool
	}{
		{"single page", 3, Params{Page: 1, PerPage: 10}, 1, false, false},
		{"middle page", 10, Params{Page: 2, PerPage: 2, Offset: 2}, 5, true, true},
		{"last partial page", 11, Params{Page: 3, PerPage: 5, Offset: 10}, 3, false, true},
		{"first of many", 20, Params{Page: 1, PerPage: 5}, 4, true, false},
		{"empty", 0, Params{Page: 1, PerPage: 20}, 0, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResult([]string{}, tt.total, tt.params)
			assert.Equal(t, tt.total, r.TotalCount)
			assert.Equal(t, tt.totalPages, r.TotalPages)
			assert.Equal(t, tt.hasNext, r.HasNext)
			assert.Equal(t, tt.hasPrev, r.HasPrev)
		})
	}
}

func TestSlice(t *testing.T) {
	all := []string{"a", "b", "c", "d", "e"}

	r := Slice(all, Params{Page: 2, PerPage: 2, Offset: 2})
	assert.Equal(t, []string{"c", "d"}, r.Items)
	assert.Equal(t, 5, r.TotalCount)
	assert.Equal(t, 3, r.TotalPages)
	assert.True(t, r.HasNext)

	r = Slice(all, Params{Page: 3, PerPage: 2, Offset: 4})
	assert.Equal(t, []string{"e"}, r.Items)
	assert.False(t, r.HasNext)

	r = Slice(all, Params{Page: 9, PerPage: 2, Offset: 16})
	assert.NotNil(t, r.Items)
	assert.Empty(t, r.Items)
}

func TestSlice_CopiesItems(t *testing.T) {
	all := []string{"a", "b"}
	r := Slice(all, DefaultParams())
	r.Items[0] = "changed"
	assert.Equal(t, "a", all[0])
}
