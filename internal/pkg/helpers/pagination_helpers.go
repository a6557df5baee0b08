package helpers

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/artemk/inkwell/internal/app/models/dto"
)

const (
	// FeedPageSize is the fixed page size for all feed views.
	FeedPageSize = 10
	// DefaultPage is 1-based.
	DefaultPage = 1
)

// ParsePage extracts the 1-based page number from the request's "page"
// query parameter. Missing, non-numeric or non-positive values fall back
// to the first page.
func ParsePage(c *gin.Context) int {
	pageStr := c.DefaultQuery("page", "1")
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		return DefaultPage
	}
	return page
}

// TotalPages computes the page count for totalItems at the given size.
// An empty result set still has one (empty) page.
func TotalPages(totalItems int64, size int) int {
	if totalItems <= 0 {
		return 1
	}
	return int(math.Ceil(float64(totalItems) / float64(size)))
}

// ClampPage clamps page into the valid range for totalItems and returns the
// clamped page together with the SQL offset. A past-the-end page yields the
// last page rather than an empty result, an underflow yields the first.
func ClampPage(page int, totalItems int64, size int) (clamped, offset int) {
	totalPages := TotalPages(totalItems, size)
	if page < 1 {
		page = DefaultPage
	}
	if page > totalPages {
		page = totalPages
	}
	return page, (page - 1) * size
}

// NewPaginationInfo creates the PaginationInfo for an already-clamped page.
func NewPaginationInfo(totalItems int64, page, size int) dto.PaginationInfo {
	return dto.PaginationInfo{
		CurrentPage: page,
		TotalPages:  TotalPages(totalItems, size),
		PageSize:    size,
		TotalItems:  totalItems,
	}
}
