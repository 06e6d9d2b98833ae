// Package catalog keeps a history of generated pieces in SQLite or
// PostgreSQL, so a piece can be found and rebuilt from its parameters.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Kinds of catalog entries.
const (
	KindBuilding = "building"
	KindComplex  = "complex"
	KindProperty = "property"
	KindBoard    = "board"
)

// ErrNotFound is returned by Get for an unknown id.
var ErrNotFound = errors.New("catalog: entry not found")

// ErrDuplicate is returned by Record when the id is already stored.
var ErrDuplicate = errors.New("catalog: duplicate entry")

// Entry is one generated piece.
type Entry struct {
	ID           string          `json:"id"`
	Kind         string          `json:"kind"`
	Style        string          `json:"style"`
	Printer      string          `json:"printer_type"`
	Seed         int64           `json:"seed"`
	Triangles    int             `json:"triangle_count"`
	Watertight   bool            `json:"is_watertight"`
	Errors       int             `json:"errors"`
	Warnings     int             `json:"warnings"`
	GenerationMS int64           `json:"generation_time_ms"`
	OutputDir    string          `json:"output_dir,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	Params       json.RawMessage `json:"params"`
}

// Catalog is an open history store.
type Catalog struct {
	db      *sql.DB
	dialect Dialect
}

// Open connects to the store and creates its schema. For sqlite the DSN is
// a file path and its directory is created.
func Open(driver, dsn string) (*Catalog, error) {
	d, err := NewDialect(driver)
	if err != nil {
		return nil, err
	}
	if _, ok := d.(sqliteDialect); ok {
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create catalog directory: %w", err)
			}
		}
	}

	db, err := sql.Open(d.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	for _, stmt := range d.InitStatements() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize catalog: %w", err)
		}
	}
	c := &Catalog{db: db, dialect: d}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return c, nil
}

// Close closes the connection.
func (c *Catalog) Close() error {
	return c.db.Close()
}

func (c *Catalog) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS builds (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			style TEXT NOT NULL,
			printer TEXT NOT NULL,
			seed BIGINT NOT NULL,
			triangles INTEGER NOT NULL,
			watertight INTEGER NOT NULL,
			errors INTEGER NOT NULL DEFAULT 0,
			warnings INTEGER NOT NULL DEFAULT 0,
			generation_ms BIGINT NOT NULL,
			output_dir TEXT NOT NULL DEFAULT '',
			created_ms BIGINT NOT NULL,
			params TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_builds_created ON builds(created_ms)`,
		`CREATE INDEX IF NOT EXISTS idx_builds_style ON builds(style)`,
	}
	for _, m := range migrations {
		if _, err := c.db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

const columns = `id, kind, style, printer, seed, triangles, watertight, errors, warnings,
	generation_ms, output_dir, created_ms, params`

// Record stores e. A zero CreatedAt is set to now.
func (c *Catalog) Record(ctx context.Context, e Entry) error {
	if e.ID == "" {
		return fmt.Errorf("catalog: entry has no id")
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	params := string(e.Params)
	if params == "" {
		params = "{}"
	}
	watertight := 0
	if e.Watertight {
		watertight = 1
	}
	q := rebind(c.dialect, `INSERT INTO builds (`+columns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := c.db.ExecContext(ctx, q,
		e.ID, e.Kind, e.Style, e.Printer, e.Seed, e.Triangles, watertight, e.Errors, e.Warnings,
		e.GenerationMS, e.OutputDir, e.CreatedAt.UnixMilli(), params)
	if c.dialect.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %s", ErrDuplicate, e.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to record %s: %w", e.ID, err)
	}
	return nil
}

// Get returns the entry with the given id.
func (c *Catalog) Get(ctx context.Context, id string) (Entry, error) {
	row := c.db.QueryRowContext(ctx, rebind(c.dialect, `SELECT `+columns+` FROM builds WHERE id = ?`), id)
	e, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e, err
}

// Recent returns up to limit entries, newest first. A non-empty style
// restricts the result to that style.
func (c *Catalog) Recent(ctx context.Context, style string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	q := `SELECT ` + columns + ` FROM builds`
	args := []any{}
	if style != "" {
		q += ` WHERE style = ?`
		args = append(args, style)
	}
	q += ` ORDER BY created_ms DESC, id LIMIT ?`
	args = append(args, limit)

	rows, err := c.db.QueryContext(ctx, rebind(c.dialect, q), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list builds: %w", err)
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		e, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (Entry, error) {
	var (
		e          Entry
		watertight int
		created    int64
		params     string
	)
	err := s.Scan(&e.ID, &e.Kind, &e.Style, &e.Printer, &e.Seed, &e.Triangles, &watertight,
		&e.Errors, &e.Warnings, &e.GenerationMS, &e.OutputDir, &created, &params)
	if err != nil {
		return Entry{}, err
	}
	e.Watertight = watertight != 0
	e.CreatedAt = time.UnixMilli(created).UTC()
	e.Params = json.RawMessage(params)
	return e, nil
}
