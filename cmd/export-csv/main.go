package main

import (
	"context"
	"encoding/csv"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"chinguetti/internal/classify"
	"chinguetti/internal/snapshot"
	"chinguetti/pkg/database"
)

// Exports the snapshot catalog to CSV for the editorial team.
func main() {
	var (
		outPath = flag.String("out", "data/entries.csv", "output CSV path")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen("")
	defer db.Close()

	store, err := snapshot.NewStore(db)
	if err != nil {
		log.Fatalf("snapshot schema failed: %v", err)
	}

	entries, err := store.Entries(ctx)
	if err != nil {
		log.Fatalf("read snapshot failed: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		log.Fatalf("mkdir failed: %v", err)
	}

	f, err := os.Create(*outPath)
	if err != nil {
		log.Fatalf("create file failed: %v", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "title", "author", "category", "kind", "pages", "published", "route"}); err != nil {
		log.Fatalf("write header failed: %v", err)
	}

	for _, e := range entries {
		published := "false"
		if e.Published {
			published = "true"
		}
		if err := w.Write([]string{
			strconv.Itoa(e.ID),
			e.Title,
			e.Author,
			classify.DisplayCategory(e),
			classify.KindName(e.Kind),
			strconv.Itoa(e.PageTotal()),
			published,
			classify.DetailRoute(e),
		}); err != nil {
			log.Fatalf("write row failed: %v", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatalf("flush failed: %v", err)
	}

	log.Printf("✅ exported %d entries to %s", len(entries), *outPath)
}
