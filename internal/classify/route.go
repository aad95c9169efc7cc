package classify

import (
	"strconv"

	"chinguetti/pkg/models"
)

// categoryRoute pairs one category slug with the listing it routes to.
type categoryRoute struct {
	Slug   string
	Prefix string
}

// categoryRoutes are checked in order, before any kind rule, and route
// unconditionally: an entry in the benefits category goes to /benefits even
// when its kind says manuscript. The order is load-bearing.
var categoryRoutes = []categoryRoute{
	{Slug: "فوaئد", Prefix: "/benefits"},
	{Slug: "أعلaم-شنقيط", Prefix: "/scholars"},
	{Slug: "التعريف-بالمنطقة", Prefix: "/about-region"},
	{Slug: "الفقه-المالكي", Prefix: "/maliki-fiqh"},
}

var kindRoutes = map[string]string{
	"lktb":          "/books",
	"lakhbar":       "/news",
	"lmwlfat":       "/works",
	"lmkhtott":      "/manuscripts",
	"lthkykat":      "/investigations",
	"ltryf-blmntkh": "/about-region",
}

// DefaultRoutePrefix is where an entry lands when neither taxonomy matches.
const DefaultRoutePrefix = "/books"

// DetailRoute decides the detail page path for an entry: first-match wins
// over the category slug special cases, then the kind table, then the books
// default.
func DetailRoute(e models.Entry) string {
	prefix := RoutePrefix(e)
	return prefix + "/" + strconv.Itoa(e.ID)
}

// RoutePrefix is DetailRoute without the id segment, for listing pages that
// build their own links.
func RoutePrefix(e models.Entry) string {
	if slug := entryCategorySlug(e); slug != "" {
		for _, cr := range categoryRoutes {
			if cr.Slug == slug {
				return cr.Prefix
			}
		}
	}
	if prefix, ok := kindRoutes[KindSlug(e.Kind)]; ok {
		return prefix
	}
	return DefaultRoutePrefix
}

// entryCategorySlug prefers the slug embedded in the entry and falls back
// to the id table when the API sent a bare numeric category.
func entryCategorySlug(e models.Entry) string {
	if e.Category.Slug != "" {
		return e.Category.Slug
	}
	if e.Category.ID > 0 {
		return CategorySlug(e.Category.ID)
	}
	return ""
}

// DisplayCategory resolves an entry's category label regardless of which
// representation the API used.
func DisplayCategory(e models.Entry) string {
	if e.Category.Name != "" {
		return e.Category.Name
	}
	if e.Category.ID > 0 {
		return CategoryName(e.Category.ID)
	}
	return UnspecifiedLabel
}
