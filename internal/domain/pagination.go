package domain

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Pagination selects one page of a listing. Page is 1-based.
type Pagination struct {
	Page  int
	Limit int
}

// Offset returns the number of rows to skip.
func (p Pagination) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// PaginationMeta describes a returned page.
type PaginationMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// NewPaginationMeta computes page metadata for totalItems results.
func NewPaginationMeta(p Pagination, totalItems int) PaginationMeta {
	totalPages := 0
	if p.Limit > 0 {
		totalPages = (totalItems + p.Limit - 1) / p.Limit
	}
	return PaginationMeta{
		Page:       p.Page,
		Limit:      p.Limit,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}
}
