package main

import (
	"context"
	"encoding/csv"
	"flag"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"chinguetti/internal/snapshot"
	"chinguetti/pkg/database"
	"chinguetti/pkg/models"
)

// Seeds the snapshot db from a CSV, for offline demos when the upstream
// cannot be reached to refresh. Columns: id, title, author, description,
// category_id, kind, pages, published.
func main() {
	var (
		inPath = flag.String("in", "data/entries.csv", "input CSV path")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dbPath := database.DefaultPath()
	db := database.MustOpen(dbPath)
	defer db.Close()

	store, err := snapshot.NewStore(db)
	if err != nil {
		log.Fatalf("snapshot schema failed: %v", err)
	}

	f, err := os.Open(*inPath)
	if err != nil {
		log.Fatalf("open csv failed: %v", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		log.Fatalf("read header failed: %v", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}

	var entries []models.Entry
	line := 1
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			log.Fatalf("read line %d failed: %v", line, err)
		}

		e := models.Entry{
			ID:          atoi(field(rec, col, "id")),
			Title:       field(rec, col, "title"),
			Author:      field(rec, col, "author"),
			Description: field(rec, col, "description"),
			Kind:        atoi(field(rec, col, "kind")),
			Pages:       atoi(field(rec, col, "pages")),
			Published:   field(rec, col, "published") == "true",
		}
		if catID := atoi(field(rec, col, "category_id")); catID > 0 {
			e.Category = models.Ref{ID: catID}
		}
		if e.ID == 0 || e.Title == "" {
			log.Printf("skipping line %d: missing id or title", line)
			continue
		}
		entries = append(entries, e)
	}

	if err := store.SaveEntries(ctx, entries); err != nil {
		log.Fatalf("save entries failed: %v", err)
	}

	log.Printf("✅ imported %d entries into %s", len(entries), dbPath)
}

func field(rec []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return rec[i]
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
