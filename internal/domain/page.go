package domain

// DefaultPageSize is the number of trips shown per page.
const DefaultPageSize = 12

// Pagination carries page metadata alongside a list response.
// Page is the zero-based index of the returned slice.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// Paginate returns the visible slice for the zero-based pageIndex and the
// total page count. Presentation order is the input reversed, so the most
// recently appended item comes first. An out-of-range pageIndex yields an
// empty slice, never an error.
func Paginate[T any](items []T, pageIndex, pageSize int) ([]T, int) {
	totalPages := TotalPages(len(items), pageSize)

	ordered := make([]T, len(items))
	for i, it := range items {
		ordered[len(items)-1-i] = it
	}

	if pageIndex < 0 || pageSize <= 0 {
		return []T{}, totalPages
	}
	start := pageIndex * pageSize
	if start >= len(ordered) {
		return []T{}, totalPages
	}
	end := start + pageSize
	if end > len(ordered) {
		end = len(ordered)
	}
	return ordered[start:end], totalPages
}

// TotalPages computes ceil(totalItems/pageSize) with a floor of 1, so an
// empty collection still renders one (empty) page.
func TotalPages(totalItems, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	pages := (totalItems + pageSize - 1) / pageSize
	if pages < 1 {
		pages = 1
	}
	return pages
}

// ClampPage re-clamps a page index into [0, totalPages-1].
func ClampPage(pageIndex, totalPages int) int {
	if pageIndex < 0 {
		return 0
	}
	if pageIndex > totalPages-1 {
		return totalPages - 1
	}
	return pageIndex
}
