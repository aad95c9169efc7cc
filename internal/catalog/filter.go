package catalog

import (
	"strconv"

	"chinguetti/internal/classify"
	"chinguetti/internal/upstream"
	"chinguetti/pkg/models"
)

// Filter narrows a listing. Category and Subcategory accept a numeric id or
// a slug/name string; matching is deliberately loose because the upstream
// serves both bare ids and embedded objects and the static samples carry
// only the object form.
type Filter struct {
	Category    string
	Subcategory string
	Kind        int
	EntryType   string
}

func (f Filter) query() upstream.EntryQuery {
	q := upstream.EntryQuery{
		Kind:      f.Kind,
		EntryType: f.EntryType,
	}
	q.Category = refID(f.Category, classify.CategoryBySlug)
	q.Subcategory = refID(f.Subcategory, nil)
	return q
}

// refID turns a filter value into the numeric id the upstream expects:
// numeric strings parse directly, anything else goes through the resolver.
func refID(s string, resolve func(string) int) int {
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if resolve != nil {
		return resolve(s)
	}
	return 0
}

func filterEntries(entries []models.Entry, f Filter) []models.Entry {
	if f.Category == "" && f.Subcategory == "" && f.Kind == 0 && f.EntryType == "" {
		return entries
	}

	out := make([]models.Entry, 0, len(entries))
	for _, e := range entries {
		if f.Category != "" && !matchRef(e.Category, f.Category) {
			continue
		}
		if f.Subcategory != "" && !matchRef(e.Subcategory, f.Subcategory) {
			continue
		}
		if f.Kind != 0 && e.Kind != f.Kind {
			continue
		}
		if f.EntryType != "" && entryType(e) != f.EntryType {
			continue
		}
		out = append(out, e)
	}
	return out
}

// matchRef compares a reference against a filter value that may be an id,
// a slug or a display name.
func matchRef(r models.Ref, want string) bool {
	if n, err := strconv.Atoi(want); err == nil && r.ID == n {
		return true
	}
	return want == r.Slug || want == r.Name
}

// entryType resolves the synthesized tag, deriving it from the kind when
// the live API left it unset.
func entryType(e models.Entry) string {
	if e.EntryType != "" {
		return e.EntryType
	}
	switch e.Kind {
	case classify.KindManuscript:
		return models.EntryTypeManuscript
	case classify.KindBook:
		return models.EntryTypeBook
	case classify.KindInvestigation:
		return models.EntryTypeInvestigation
	default:
		return ""
	}
}
