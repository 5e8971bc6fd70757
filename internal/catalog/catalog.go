// Package catalog persists the list of known documents in a small SQLite
// database, so tool callers can enumerate what has been opened before.
package catalog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/agentic-research/opal/api"
)

// Catalog is a persistent registry of opened documents keyed by path.
type Catalog struct {
	db *sql.DB
}

// Open opens or creates the catalog database at the given path.
func Open(path string) (*Catalog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set journal mode: %w", err)
	}
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS documents (
			path        TEXT PRIMARY KEY,
			name        TEXT NOT NULL DEFAULT '',
			pages       INTEGER NOT NULL DEFAULT 1,
			last_opened INTEGER NOT NULL
		)`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Catalog{db: db}, nil
}

// Touch records that a document was opened, inserting or refreshing its
// catalog row.
func (c *Catalog) Touch(entry api.CatalogEntry) error {
	when := entry.LastOpened
	if when.IsZero() {
		when = time.Now()
	}
	_, err := c.db.Exec(`
		INSERT INTO documents (path, name, pages, last_opened)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			name = excluded.name,
			pages = excluded.pages,
			last_opened = excluded.last_opened`,
		entry.Path, entry.Name, entry.Pages, when.Unix())
	if err != nil {
		return fmt.Errorf("touch %s: %w", entry.Path, err)
	}
	return nil
}

// List returns every catalog entry, most recently opened first.
func (c *Catalog) List() ([]api.CatalogEntry, error) {
	rows, err := c.db.Query(`
		SELECT path, name, pages, last_opened
		FROM documents
		ORDER BY last_opened DESC, path`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var out []api.CatalogEntry
	for rows.Next() {
		var e api.CatalogEntry
		var opened int64
		if err := rows.Scan(&e.Path, &e.Name, &e.Pages, &opened); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		e.LastOpened = time.Unix(opened, 0)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Remove drops a document from the catalog. Removing an unknown path is
// not an error.
func (c *Catalog) Remove(path string) error {
	if _, err := c.db.Exec("DELETE FROM documents WHERE path = ?", path); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

// Close releases the underlying database.
func (c *Catalog) Close() error {
	return c.db.Close()
}
