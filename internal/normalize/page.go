package normalize

import "slices"

// DefaultPageSize is used when a non-positive page size is requested.
const DefaultPageSize = 12

// Page describes one page of an in-memory result.
type Page struct {
	Number     int  `json:"page"`
	Size       int  `json:"page_size"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasMore    bool `json:"has_more"`
}

// Paginate returns items [(page-1)*size, page*size) as a new slice.
// Pages are 1-based; page < 1 is treated as 1 and pages past the end are
// empty.
func Paginate[T any](items []T, page, size int) ([]T, Page) {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}

	total := len(items)
	meta := Page{
		Number:     page,
		Size:       size,
		Total:      total,
		TotalPages: (total + size - 1) / size,
	}

	start := (page - 1) * size
	if start >= total {
		return []T{}, meta
	}
	end := min(start+size, total)
	meta.HasMore = end < total
	return slices.Clone(items[start:end]), meta
}

// ResetPage returns 1 when the query changed, since page numbers don't carry
// over between result sets. Otherwise it returns page clamped to >= 1.
func ResetPage(prevQuery, query string, page int) int {
	if prevQuery != query || page < 1 {
		return 1
	}
	return page
}
