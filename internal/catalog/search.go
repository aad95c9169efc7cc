package catalog

import (
	"context"
	"strings"
	"sync/atomic"

	"chinguetti/internal/classify"
	"chinguetti/pkg/models"
)

// searchLocal is the fallback search: a case-insensitive substring match
// over title, author, description and the resolved category label.
func searchLocal(entries []models.Entry, term string) []models.Entry {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return entries
	}

	var out []models.Entry
	for _, e := range entries {
		haystack := strings.ToLower(strings.Join([]string{
			e.Title,
			e.Author,
			e.Description,
			classify.DisplayCategory(e),
		}, " "))
		if strings.Contains(haystack, needle) {
			out = append(out, e)
		}
	}
	return out
}

// SearchSession serializes rapid re-searches from one consumer. Each query
// takes a sequence number; a response that is no longer the latest issued
// is discarded instead of clobbering newer results.
type SearchSession struct {
	svc *Service
	seq atomic.Uint64
}

func (s *Service) NewSearchSession() *SearchSession {
	return &SearchSession{svc: s}
}

// Search runs one query. IsStale on the returned error identifies results
// that lost the race to a newer query.
func (ss *SearchSession) Search(ctx context.Context, term string) ([]models.Entry, error) {
	mine := ss.seq.Add(1)

	entries, err := ss.svc.Search(ctx, term)
	if ss.seq.Load() != mine {
		return nil, errStale
	}
	return entries, err
}
