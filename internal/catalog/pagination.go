package catalog

import "chinguetti/pkg/models"

// DefaultPageSize matches the listing pages' card grid.
const DefaultPageSize = 20

// TotalPages computes how many pages a count spans: 45 items at 20 per page
// is 3 pages, the last holding 5.
func TotalPages(count, perPage int) int {
	if count <= 0 || perPage <= 0 {
		return 0
	}
	return (count + perPage - 1) / perPage
}

// ItemsOnPage returns how many items the given 1-based page holds.
func ItemsOnPage(count, perPage, page int) int {
	total := TotalPages(count, perPage)
	if page < 1 || page > total {
		return 0
	}
	if page < total {
		return perPage
	}
	if rem := count % perPage; rem != 0 {
		return rem
	}
	return perPage
}

// pageSlice cuts one 1-based page out of a full result set.
func pageSlice(entries []models.Entry, page, perPage int) []models.Entry {
	start := (page - 1) * perPage
	if start >= len(entries) {
		return nil
	}
	end := start + perPage
	if end > len(entries) {
		end = len(entries)
	}
	return entries[start:end]
}
