package snapshot

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chinguetti/internal/statics"
	"chinguetti/pkg/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := NewStore(db)
	require.NoError(t, err)
	return store
}

func TestStore_EntriesRoundtrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.SaveEntries(ctx, statics.AllEntries()))

	entries, err := store.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, len(statics.AllEntries()))

	// the JSON payload preserves the full entry including nested refs
	e, err := store.Entry(ctx, 9002)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "شرح مختصر خليل", e.Title)
	assert.Equal(t, 122, e.Category.ID)
	assert.Equal(t, "الفقه-المالكي", e.Category.Slug)

	missing, err := store.Entry(ctx, 424242)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStore_SaveEntriesUpserts(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	first := models.Entry{ID: 1, Title: "قبل", Published: true}
	require.NoError(t, store.SaveEntries(ctx, []models.Entry{first}))

	first.Title = "بعد"
	require.NoError(t, store.SaveEntries(ctx, []models.Entry{first}))

	entries, err := store.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "بعد", entries[0].Title)
}

func TestStore_ReferenceRoundtrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.SaveReference(ctx,
		statics.Categories(), statics.Subcategories(), statics.Kinds))

	cats, err := store.Categories(ctx)
	require.NoError(t, err)
	slugs := make(map[int]string, len(cats))
	for _, c := range cats {
		slugs[c.ID] = c.Slug
	}
	assert.Equal(t, "فوaئد", slugs[99], "corrupted slugs survive the roundtrip")

	subs, err := store.Subcategories(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, subs)
	for _, s := range subs {
		if s.Slug == "مخطوطات-الفقه" {
			assert.Equal(t, 32, s.Category)
		}
	}

	kinds, err := store.Kinds(ctx)
	require.NoError(t, err)
	assert.Len(t, kinds, len(statics.Kinds))
}
