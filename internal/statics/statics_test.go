package statics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategories_DerivedFromTree(t *testing.T) {
	cats := Categories()
	require.Len(t, cats, len(CategoryTree))

	byID := make(map[int]string, len(cats))
	for _, c := range cats {
		byID[c.ID] = c.Slug
	}
	assert.Equal(t, "الكتب", byID[1])
	assert.Equal(t, "المخطوطات", byID[32])
	// corrupted slugs reproduced byte-for-byte
	assert.Equal(t, "فوaئد", byID[99])
	assert.Equal(t, "أعلaم-شنقيط", byID[100])
}

func TestSubcategories_CarryParentID(t *testing.T) {
	subs := Subcategories()
	require.NotEmpty(t, subs)

	var fiqhParent int
	for _, s := range subs {
		if s.Slug == "مخطوطات-الفقه" {
			fiqhParent = s.Category
		}
	}
	assert.Equal(t, 32, fiqhParent)
}

func TestNodeID_SynthesizesForLegacyStrings(t *testing.T) {
	assert.Equal(t, 122, nodeID("122"))

	n := nodeID("scholars-fiqh")
	assert.GreaterOrEqual(t, n, 100000)
	assert.Less(t, n, 1000000)
}

func TestSampleEntries(t *testing.T) {
	all := AllEntries()
	assert.Len(t, all, len(SampleManuscripts)+len(SampleBooks)+len(SampleInvestigations))

	seen := make(map[int]bool, len(all))
	for _, e := range all {
		assert.False(t, seen[e.ID], "duplicate sample id %d", e.ID)
		seen[e.ID] = true
		assert.NotEmpty(t, e.Title)
		assert.NotZero(t, e.Category.ID)
		assert.NotEmpty(t, e.EntryType)
	}

	e := EntryByID(9002)
	require.NotNil(t, e)
	assert.Equal(t, "شرح مختصر خليل", e.Title)
	assert.Nil(t, EntryByID(1))
}
