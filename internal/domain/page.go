package domain

// PaginationParams carries page/limit values from a caller (HTTP query, CLI
// flags) to whatever slices the result set. Page is 1-indexed. Limit is capped
// at 100 by NewPaginationParams.
type PaginationParams struct {
	// Page is the current page number, starting at 1.
	Page int
	// Limit is the maximum number of items to return.
	Limit int
}

// NewPaginationParams builds a PaginationParams from optional parameters.
// Nil pointers fall back to sane defaults (page=1, limit=20).
// The limit is capped at 100 to prevent runaway pages.
func NewPaginationParams(page, limit *int) PaginationParams {
	p := PaginationParams{Page: 1, Limit: 20}
	if page != nil && *page >= 1 {
		p.Page = *page
	}
	if limit != nil && *limit >= 1 {
		p.Limit = *limit
		if p.Limit > 100 {
			p.Limit = 100
		}
	}
	return p
}

// Offset returns the zero-based row offset of the first item on the page.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Bounds returns the [start, end) slice indexes of this page within a
// collection of total items. Pages past the end, including pages so large
// their offset would overflow, yield an empty range at total.
func (p PaginationParams) Bounds(total int) (start, end int) {
	if total <= 0 || p.Limit <= 0 || p.Page < 1 || p.Page-1 >= (total+p.Limit-1)/p.Limit {
		return total, total
	}
	start = p.Offset()
	end = start + p.Limit
	if end > total {
		end = total
	}
	return start, end
}
