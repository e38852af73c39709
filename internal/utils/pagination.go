package utils

import (
	"errors"
	"strconv"
	"strings"
)

// Page describes one page of a result set after clamping.
type Page struct {
	Number     int
	Size       int
	Total      int64
	TotalPages int
}

// PaginationResponse represents the pagination metadata in API responses
type PaginationResponse struct {
	Page        int   `json:"page"`
	PageSize    int   `json:"page_size"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

// ParsePageNumber reads a raw page query value. Anything that is not an
// integer becomes page 1. Out-of-range integers saturate so NewPage can
// clamp them to the first or last page.
func ParsePageNumber(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if errors.Is(err, strconv.ErrRange) {
		return n
	}
	if err != nil {
		return 1
	}
	return n
}

// NewPage clamps requested into [1, last page]. An empty result still has
// one (empty) page.
func NewPage(requested, size int, total int64) Page {
	if size < 1 {
		size = 1
	}

	totalPages := int((total + int64(size) - 1) / int64(size))
	if totalPages < 1 {
		totalPages = 1
	}

	number := requested
	if number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}

	return Page{
		Number:     number,
		Size:       size,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Offset is the number of rows skipped before this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

func (p Page) Response() PaginationResponse {
	return PaginationResponse{
		Page:        p.Number,
		PageSize:    p.Size,
		Total:       p.Total,
		TotalPages:  p.TotalPages,
		HasNext:     p.Number < p.TotalPages,
		HasPrevious: p.Number > 1,
	}
}
