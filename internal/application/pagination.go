package application

import "math"

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// PaginationParams is the raw page/limit pair from a request; nil means not supplied.
type PaginationParams struct {
	Page  *int
	Limit *int
}

type PaginationResult struct {
	Page  int
	Limit int
	Skip  int
}

// GetPagination normalizes params. Missing values take the defaults; supplied
// values are clamped to at least 1, limit to at most MaxLimit, and page so that
// Skip cannot overflow.
func GetPagination(p *PaginationParams) PaginationResult {
	page, limit := DefaultPage, DefaultLimit
	if p != nil {
		if p.Page != nil {
			page = max(*p.Page, 1)
		}
		if p.Limit != nil {
			limit = min(max(*p.Limit, 1), MaxLimit)
		}
	}
	if maxPage := math.MaxInt32 / limit; page > maxPage {
		page = maxPage
	}
	return PaginationResult{Page: page, Limit: limit, Skip: (page - 1) * limit}
}

// TotalPages is ceil(total/limit).
func TotalPages(total int64, limit int) int64 {
	if limit <= 0 || total <= 0 {
		return 0
	}
	l := int64(limit)
	return (total + l - 1) / l
}
