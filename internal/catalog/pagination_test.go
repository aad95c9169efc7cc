package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"chinguetti/pkg/models"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		count, limit, want int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{45, 20, 3},
		{45, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TotalPages(tt.count, tt.limit), "count=%d limit=%d", tt.count, tt.limit)
	}
}

func TestItemsOnPage(t *testing.T) {
	tests := []struct {
		count, limit, page, want int
	}{
		{45, 20, 1, 20},
		{45, 20, 2, 20},
		{45, 20, 3, 5},
		{45, 20, 4, 0},
		{40, 20, 2, 20},
		{0, 20, 1, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ItemsOnPage(tt.count, tt.limit, tt.page), "count=%d limit=%d page=%d", tt.count, tt.limit, tt.page)
	}
}

func TestPageSlice(t *testing.T) {
	entries := make([]models.Entry, 45)
	for i := range entries {
		entries[i] = models.Entry{ID: i + 1}
	}

	first := pageSlice(entries, 1, 20)
	assert.Len(t, first, 20)
	assert.Equal(t, 1, first[0].ID)

	last := pageSlice(entries, 3, 20)
	assert.Len(t, last, 5)
	assert.Equal(t, 41, last[0].ID)

	assert.Empty(t, pageSlice(entries, 4, 20))
	assert.Empty(t, pageSlice(nil, 1, 20))
}
