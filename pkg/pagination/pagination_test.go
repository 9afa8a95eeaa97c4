package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func paramsFor(query string) Params {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users"+query, nil)
	return FromRequest(req)
}

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PerPage)
	assert.Equal(t, 0, p.Offset)
}

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		page    int
		perPage int
		offset  int
	}{
		{"no query uses defaults", "", 1, 20, 0},
		{"explicit window", "?page=3&per_page=50", 3, 50, 100},
		{"negative page ignored", "?page=-1", 1, 20, 0},
		{"zero page ignored", "?page=0", 1, 20, 0},
		{"non-numeric page ignored", "?page=abc", 1, 20, 0},
		{"per_page above cap ignored", "?per_page=200", 1, 20, 0},
		{"per_page at cap accepted", "?per_page=100", 1, 100, 0},
		{"zero per_page ignored", "?per_page=0", 1, 20, 0},
		{"offset follows page", "?page=5&per_page=20", 5, 20, 80},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := paramsFor(tt.query)
			assert.Equal(t, tt.page, p.Page)
			assert.Equal(t, tt.perPage, p.PerPage)
			assert.Equal(t, tt.offset, p.Offset)
		})
	}
}

func TestNewResult_SinglePage(t *testing.T) {
	sellers := []string{"skybroker", "jetparts", "aerotrade"}
	result := NewResult(sellers, 3, Params{Page: 1, PerPage: 10})

	assert.Equal(t, sellers, result.Data)
	assert.Equal(t, 3, result.TotalCount)
	assert.Equal(t, 1, result.TotalPages)
	assert.False(t, result.HasNext)
	assert.False(t, result.HasPrev)
}

func TestNewResult_MiddlePage(t *testing.T) {
	result := NewResult([]string{"a", "b"}, 10, Params{Page: 2, PerPage: 2, Offset: 2})

	assert.Equal(t, 5, result.TotalPages)
	assert.True(t, result.HasNext)
	assert.True(t, result.HasPrev)
}

func TestNewResult_PartialLastPage(t *testing.T) {
	result := NewResult([]string{"a"}, 11, Params{Page: 3, PerPage: 5, Offset: 10})

	// ceil(11/5) pages
	assert.Equal(t, 3, result.TotalPages)
	assert.False(t, result.HasNext)
	assert.True(t, result.HasPrev)
}

func TestNewResult_FirstOfMany(t *testing.T) {
	result := NewResult([]string{"a"}, 20, Params{Page: 1, PerPage: 5})

	assert.True(t, result.HasNext)
	assert.False(t, result.HasPrev)
}

func TestNewResult_Empty(t *testing.T) {
	result := NewResult([]string{}, 0, Params{Page: 1, PerPage: 20})

	assert.Equal(t, 0, result.TotalCount)
	assert.Equal(t, 0, result.TotalPages)
	assert.False(t, result.HasNext)
	assert.False(t, result.HasPrev)
}
