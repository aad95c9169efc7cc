package main

import (
	"context"
	"log"
	"time"

	"chinguetti/internal/session"
	"chinguetti/internal/snapshot"
	"chinguetti/internal/upstream"
	"chinguetti/pkg/database"
	"chinguetti/pkg/utils"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	cfg := utils.LoadUpstreamConfig()
	client := upstream.NewClient(cfg.BaseURL, session.NewFileTokenStore(""), cfg.Timeout)

	dbPath := database.DefaultPath()
	db := database.MustOpen(dbPath)
	defer db.Close()

	store, err := snapshot.NewStore(db)
	if err != nil {
		log.Fatalf("snapshot schema failed: %v", err)
	}

	entries, err := client.AllEntries(ctx, upstream.EntryQuery{})
	if err != nil {
		log.Fatalf("fetch entries failed: %v", err)
	}
	log.Printf("fetched entries: %d", len(entries))

	cats, err := client.Categories(ctx)
	if err != nil {
		log.Fatalf("fetch categories failed: %v", err)
	}
	subs, err := client.Subcategories(ctx)
	if err != nil {
		log.Fatalf("fetch subcategories failed: %v", err)
	}
	kinds, err := client.Kinds(ctx)
	if err != nil {
		log.Fatalf("fetch kinds failed: %v", err)
	}

	if err := store.SaveEntries(ctx, entries); err != nil {
		log.Fatalf("save entries failed: %v", err)
	}
	if err := store.SaveReference(ctx, cats, subs, kinds); err != nil {
		log.Fatalf("save reference data failed: %v", err)
	}

	log.Printf("✅ snapshot refreshed at %s", dbPath)
}
