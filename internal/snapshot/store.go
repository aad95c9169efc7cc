// Package snapshot keeps a local sqlite copy of the catalog, refreshed by
// cmd/snapshot. When present it gives the fallback layer real data from the
// last successful sync instead of the small compiled-in sample set.
package snapshot

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"

	"chinguetti/pkg/models"
)

//go:embed schema.sql
var schema string

type Store struct {
	DB *sql.DB
}

func NewStore(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("init snapshot schema: %w", err)
	}
	return &Store{DB: db}, nil
}

// SaveEntries upserts the fetched entries. The full JSON payload is stored
// alongside the searchable columns so nothing the loose upstream schema
// sends is lost.
func (s *Store) SaveEntries(ctx context.Context, entries []models.Entry) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entries (id, title, author, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		  title = excluded.title,
		  author = excluded.author,
		  payload = excluded.payload,
		  fetched_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		payload, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal entry %d: %w", e.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, e.ID, e.Title, e.Author, string(payload)); err != nil {
			return fmt.Errorf("exec upsert for %d: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *Store) SaveReference(ctx context.Context, cats []models.Category, subs []models.Subcategory, kinds []models.Kind) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, c := range cats {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO categories (id, name, slug) VALUES (?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET name = excluded.name, slug = excluded.slug
		`, c.ID, c.Name, c.Slug); err != nil {
			return fmt.Errorf("upsert category %d: %w", c.ID, err)
		}
	}
	for _, sub := range subs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO subcategories (id, name, slug, category) VALUES (?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET name = excluded.name, slug = excluded.slug, category = excluded.category
		`, sub.ID, sub.Name, sub.Slug, sub.Category); err != nil {
			return fmt.Errorf("upsert subcategory %d: %w", sub.ID, err)
		}
	}
	for _, k := range kinds {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO kinds (id, name, slug) VALUES (?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET name = excluded.name, slug = excluded.slug
		`, k.ID, k.Name, k.Slug); err != nil {
			return fmt.Errorf("upsert kind %d: %w", k.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *Store) Entries(ctx context.Context) ([]models.Entry, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT payload FROM entries ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var out []models.Entry
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		var e models.Entry
		if err := json.Unmarshal([]byte(payload), &e); err != nil {
			return nil, fmt.Errorf("decode entry payload: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (s *Store) Entry(ctx context.Context, id int) (*models.Entry, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT payload FROM entries WHERE id = ?`, id)

	var payload string
	if err := row.Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan entry: %w", err)
	}

	var e models.Entry
	if err := json.Unmarshal([]byte(payload), &e); err != nil {
		return nil, fmt.Errorf("decode entry payload: %w", err)
	}
	return &e, nil
}

func (s *Store) Categories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id, name, slug FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var out []models.Category
	for rows.Next() {
		var (
			c    models.Category
			slug sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.Name, &slug); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.Slug = slug.String
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (s *Store) Subcategories(ctx context.Context) ([]models.Subcategory, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id, name, slug, category FROM subcategories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query subcategories: %w", err)
	}
	defer rows.Close()

	var out []models.Subcategory
	for rows.Next() {
		var (
			sub      models.Subcategory
			slug     sql.NullString
			category sql.NullInt64
		)
		if err := rows.Scan(&sub.ID, &sub.Name, &slug, &category); err != nil {
			return nil, fmt.Errorf("scan subcategory: %w", err)
		}
		sub.Slug = slug.String
		sub.Category = int(category.Int64)
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (s *Store) Kinds(ctx context.Context) ([]models.Kind, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id, name, slug FROM kinds ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query kinds: %w", err)
	}
	defer rows.Close()

	var out []models.Kind
	for rows.Next() {
		var (
			k    models.Kind
			slug sql.NullString
		)
		if err := rows.Scan(&k.ID, &k.Name, &slug); err != nil {
			return nil, fmt.Errorf("scan kind: %w", err)
		}
		k.Slug = slug.String
		out = append(out, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}
