package models

import "strings"

// Entry types synthesized by the fallback layer. The live API does not
// reliably tag entries with one of these.
const (
	EntryTypeManuscript    = "manuscript"
	EntryTypeBook          = "book"
	EntryTypeInvestigation = "investigation"
)

// Entry is one catalogued work: a manuscript, book, investigation ("tahqiq"),
// news post or miscellany about the Chinguetti scholarly heritage.
//
// Pages and PageCount overlap and are not guaranteed consistent upstream;
// use PageTotal. Kind is always a bare numeric id, mapped through a local
// lookup table; it has no embedded-object form.
type Entry struct {
	ID              int      `json:"id"`
	Slug            string   `json:"slug,omitempty"`
	Title           string   `json:"title"`
	Author          string   `json:"author,omitempty"`
	Description     string   `json:"description,omitempty"`
	Content         string   `json:"content,omitempty"`
	FullDescription string   `json:"full_description,omitempty"`
	Language        string   `json:"language,omitempty"`
	Tags            string   `json:"tags,omitempty"`
	Category        Ref      `json:"category,omitempty"`
	Subcategory     Ref      `json:"subcategory,omitempty"`
	Kind            int      `json:"kind,omitempty"`
	Pages           int      `json:"pages,omitempty"`
	PageCount       int      `json:"page_count,omitempty"`
	Size            string   `json:"size,omitempty"`
	CoverImageLink  string   `json:"cover_image_link,omitempty"`
	PDFFileLink     string   `json:"pdf_file_link,omitempty"`
	CreatedAt       string   `json:"created_at,omitempty"`
	UpdatedAt       string   `json:"updated_at,omitempty"`
	Date            string   `json:"date,omitempty"`
	Published       bool     `json:"published"`
	EntryType       string   `json:"entry_type,omitempty"`
}

// PageTotal resolves the two overlapping page fields: pages wins when set.
func (e Entry) PageTotal() int {
	if e.Pages > 0 {
		return e.Pages
	}
	return e.PageCount
}

// Category is a top-level subject taxonomy record. Categories and kinds are
// two independent taxonomies applied to the same entry.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

type Subcategory struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug,omitempty"`
	Category int    `json:"category,omitempty"`
}

type Kind struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// ResolveMediaURL rewrites a relative media path against the fixed media
// host. Absolute links pass through untouched.
func ResolveMediaURL(mediaHost, link string) string {
	if link == "" {
		return ""
	}
	if strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") {
		return link
	}
	return strings.TrimRight(mediaHost, "/") + "/" + strings.TrimLeft(link, "/")
}
