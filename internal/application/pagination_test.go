package application

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func intp(v int) *int { return &v }

func TestGetPagination(t *testing.T) {
	cases := []struct {
		name string
		in   *PaginationParams
		want PaginationResult
	}{
		{"nil", nil, PaginationResult{Page: 1, Limit: 10, Skip: 0}},
		{"empty", &PaginationParams{}, PaginationResult{Page: 1, Limit: 10, Skip: 0}},
		{"page 3 limit 20", &PaginationParams{Page: intp(3), Limit: intp(20)}, PaginationResult{Page: 3, Limit: 20, Skip: 40}},
		{"non-positive clamps to one", &PaginationParams{Page: intp(0), Limit: intp(-5)}, PaginationResult{Page: 1, Limit: 1, Skip: 0}},
		{"zero limit", &PaginationParams{Page: intp(3), Limit: intp(0)}, PaginationResult{Page: 3, Limit: 1, Skip: 2}},
		{"limit capped", &PaginationParams{Limit: intp(1000)}, PaginationResult{Page: 1, Limit: MaxLimit, Skip: 0}},
		{"only page", &PaginationParams{Page: intp(2)}, PaginationResult{Page: 2, Limit: 10, Skip: 10}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, GetPagination(tc.in))
		})
	}
}

func TestGetPagination_HugePageDoesNotOverflow(t *testing.T) {
	for _, page := range []int{math.MaxInt / 5, math.MaxInt, math.MaxInt32} {
		got := GetPagination(&PaginationParams{Page: intp(page), Limit: intp(10)})
		assert.Positive(t, got.Skip)
		assert.LessOrEqual(t, got.Skip, math.MaxInt32)
		assert.Equal(t, (got.Page-1)*got.Limit, got.Skip)
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, int64(0), TotalPages(0, 10))
	assert.Equal(t, int64(1), TotalPages(10, 10))
	assert.Equal(t, int64(2), TotalPages(11, 10))
	assert.Equal(t, int64(0), TotalPages(5, 0))
}
