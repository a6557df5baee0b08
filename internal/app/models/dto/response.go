package dto

// PaginationInfo represents pagination metadata attached to feed responses.
// CurrentPage is 1-based and already clamped to the valid range.
type PaginationInfo struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	PageSize    int   `json:"pageSize"`
	TotalItems  int64 `json:"totalItems"`
}

// HasNext reports whether a later page exists.
func (p PaginationInfo) HasNext() bool {
	return p.CurrentPage < p.TotalPages
}

// HasPrevious reports whether an earlier page exists.
func (p PaginationInfo) HasPrevious() bool {
	return p.CurrentPage > 1
}
