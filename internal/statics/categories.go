// Package statics holds the bundled reference data the catalog degrades to
// when the live API is unreachable. The category tree and sample entries are
// hand-authored; slugs are reproduced byte-for-byte from the live data,
// including the ones with Latin characters mixed into the Arabic (they are
// corrupted upstream, and routing keys off the corrupted form).
package statics

import (
	"math/rand"
	"strconv"

	"chinguetti/pkg/models"
)

// TreeNode mirrors the hand-authored category tree: top-level subjects with
// their subcategories. IDs are strings because a few legacy nodes never got
// numeric ids.
type TreeNode struct {
	ID       string
	Name     string
	Slug     string
	Children []TreeNode
}

var CategoryTree = []TreeNode{
	{ID: "1", Name: "الكتب", Slug: "الكتب", Children: []TreeNode{
		{ID: "2", Name: "كتب التراجم", Slug: "كتب-التراجم"},
		{ID: "3", Name: "كتب التاريخ", Slug: "كتب-التاريخ"},
	}},
	{ID: "32", Name: "المخطوطات", Slug: "المخطوطات", Children: []TreeNode{
		{ID: "35", Name: "مخطوطات الفقه", Slug: "مخطوطات-الفقه"},
		{ID: "36", Name: "مخطوطات اللغة", Slug: "مخطوطات-اللغة"},
		{ID: "37", Name: "مخطوطات السيرة", Slug: "مخطوطات-السيرة"},
	}},
	{ID: "33", Name: "التحقيقات", Slug: "التحقيقات"},
	{ID: "34", Name: "الأخبار", Slug: "الأخبار"},
	{ID: "99", Name: "الفوائد", Slug: "فوaئد"},
	{ID: "100", Name: "أعلام شنقيط", Slug: "أعلaم-شنقيط", Children: []TreeNode{
		{ID: "scholars-fiqh", Name: "فقهاء", Slug: "فقهاء"},
		{ID: "scholars-lugha", Name: "لغويون", Slug: "لغويون"},
	}},
	{ID: "109", Name: "التعريف بالمنطقة", Slug: "التعريف-بالمنطقة"},
	{ID: "118", Name: "المؤلفات", Slug: "المؤلفات"},
	{ID: "122", Name: "الفقه المالكي", Slug: "الفقه-المالكي", Children: []TreeNode{
		{ID: "maliki-mukhtasar", Name: "شروح المختصر", Slug: "شروح-المختصر"},
	}},
	{ID: "127", Name: "متفرقات", Slug: "متفرقات"},
}

// Kinds is the closed, hand-enumerated kind taxonomy. Any id outside this
// set is "unspecified".
var Kinds = []models.Kind{
	{ID: 1, Name: "الكتب", Slug: "lktb"},
	{ID: 14, Name: "الأخبار", Slug: "lakhbar"},
	{ID: 15, Name: "المؤلفات", Slug: "lmwlfat"},
	{ID: 16, Name: "المخطوطات", Slug: "lmkhtott"},
	{ID: 17, Name: "التحقيقات", Slug: "lthkykat"},
	{ID: 18, Name: "التعريف بالمنطقة", Slug: "ltryf-blmntkh"},
}

// Categories derives the flat category list from the tree.
func Categories() []models.Category {
	out := make([]models.Category, 0, len(CategoryTree))
	for _, n := range CategoryTree {
		out = append(out, models.Category{ID: nodeID(n.ID), Name: n.Name, Slug: n.Slug})
	}
	return out
}

// Subcategories flattens the tree's children, carrying the parent id.
func Subcategories() []models.Subcategory {
	var out []models.Subcategory
	for _, n := range CategoryTree {
		parent := nodeID(n.ID)
		for _, child := range n.Children {
			out = append(out, models.Subcategory{
				ID:       nodeID(child.ID),
				Name:     child.Name,
				Slug:     child.Slug,
				Category: parent,
			})
		}
	}
	return out
}

// nodeID parses a numeric tree id, synthesizing a pseudo-random one for the
// legacy string ids. Good enough for display; not stable across processes.
func nodeID(id string) int {
	if n, err := strconv.Atoi(id); err == nil {
		return n
	}
	return 100000 + rand.Intn(900000)
}
