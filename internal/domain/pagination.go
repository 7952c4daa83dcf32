package domain

// PaginationParams holds offset-based pagination parameters for list queries.
// The delivery layer clamps both fields before they reach a repository.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Offset returns the 0-based row offset of the first item on the current page.
func (p PaginationParams) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}
