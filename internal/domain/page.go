package domain

// PaginationParams carries page/limit values from the HTTP layer down to the
// itinerary repository. Page is 1-indexed.
type PaginationParams struct {
	Page  int
	Limit int
}

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// NewPaginationParams normalizes optional page/limit query values.
// Missing or out-of-range values fall back to page=1, limit=20; the limit
// is clamped at 100 so a single listing cannot pull the whole table.
func NewPaginationParams(page, limit *int) PaginationParams {
	p := PaginationParams{Page: 1, Limit: defaultPageLimit}
	if page != nil && *page >= 1 {
		p.Page = *page
	}
	if limit != nil && *limit >= 1 {
		p.Limit = *limit
		if p.Limit > maxPageLimit {
			p.Limit = maxPageLimit
		}
	}
	return p
}

// Offset returns the zero-based row offset for a SQL OFFSET clause.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}
