package models

import (
	"encoding/json"
	"fmt"
)

// Ref is the canonical {id, name, slug} reference to a category or
// subcategory. The upstream API serves these in two shapes that are never
// unified server-side: an embedded object or a bare numeric id. Both decode
// into Ref here, once, so nothing downstream branches on representation.
type Ref struct {
	ID   int    `json:"id"`
	Name string `json:"name,omitempty"`
	Slug string `json:"slug,omitempty"`
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*r = Ref{}
		return nil
	}

	// bare numeric id
	var id int
	if err := json.Unmarshal(data, &id); err == nil {
		*r = Ref{ID: id}
		return nil
	}

	// embedded object; ids occasionally arrive as JSON strings
	var obj struct {
		ID   json.Number `json:"id"`
		Name string      `json:"name"`
		Slug string      `json:"slug"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("decode ref: %w", err)
	}

	n, _ := obj.ID.Int64()
	*r = Ref{ID: int(n), Name: obj.Name, Slug: obj.Slug}
	return nil
}

func (r Ref) IsZero() bool {
	return r.ID == 0 && r.Name == "" && r.Slug == ""
}
