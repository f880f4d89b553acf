// SPDX-License-Identifier: MIT
//
// Package presets persists named trim windows in a SQLite database so a
// selection can be reused across files and sessions.
package presets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"audiotrim/internal/trim"

	_ "modernc.org/sqlite"
)

var (
	ErrNotFound      = errors.New("presets: not found")
	ErrInvalidPreset = errors.New("presets: invalid preset")
)

// Preset is a named trim window.
type Preset struct {
	Name      string      `json:"name"`
	Window    trim.Window `json:"window"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Store manages preset persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const schema = `CREATE TABLE IF NOT EXISTS presets (
    name       TEXT PRIMARY KEY,
    start_sec  REAL NOT NULL,
    end_sec    REAL NOT NULL,
    updated_at TEXT NOT NULL
)`

// Open creates or opens the preset database at path, creating parent
// directories as needed. Use ":memory:" for a throwaway store.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create preset directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if path == ":memory:" {
		// Every pooled connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create presets table: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Validate reports whether p can be stored.
func Validate(p Preset) error {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidPreset)
	}
	if strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("%w: name %q must not contain slashes", ErrInvalidPreset, name)
	}
	w := p.Window
	if math.IsNaN(w.Start) || math.IsNaN(w.End) || math.IsInf(w.End, 0) {
		return fmt.Errorf("%w: window %v is not finite", ErrInvalidPreset, w)
	}
	if w.Start < 0 || w.Start >= w.End {
		return fmt.Errorf("%w: window %v must satisfy 0 <= start < end", ErrInvalidPreset, w)
	}
	return nil
}

// Save inserts or replaces a preset and returns it with its timestamp set.
func (s *Store) Save(ctx context.Context, p Preset) (Preset, error) {
	if err := Validate(p); err != nil {
		return Preset{}, err
	}
	p.Name = strings.TrimSpace(p.Name)
	p.UpdatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO presets (name, start_sec, end_sec, updated_at)
         VALUES (?, ?, ?, ?)
         ON CONFLICT(name) DO UPDATE SET
             start_sec = excluded.start_sec,
             end_sec = excluded.end_sec,
             updated_at = excluded.updated_at`,
		p.Name, p.Window.Start, p.Window.End, p.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Preset{}, fmt.Errorf("save preset %q: %w", p.Name, err)
	}
	return p, nil
}

// Get loads a preset by name.
func (s *Store) Get(ctx context.Context, name string) (Preset, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT name, start_sec, end_sec, updated_at FROM presets WHERE name = ?`,
		strings.TrimSpace(name))

	p, err := scanPreset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Preset{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return Preset{}, fmt.Errorf("get preset %q: %w", name, err)
	}
	return p, nil
}

// List returns all presets ordered by name.
func (s *Store) List(ctx context.Context) ([]Preset, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, start_sec, end_sec, updated_at FROM presets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}
	defer rows.Close()

	var out []Preset
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan preset: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Delete removes a preset. Deleting a missing preset returns ErrNotFound.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM presets WHERE name = ?`, strings.TrimSpace(name))
	if err != nil {
		return fmt.Errorf("delete preset %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPreset(sc scanner) (Preset, error) {
	var (
		p       Preset
		updated string
	)
	if err := sc.Scan(&p.Name, &p.Window.Start, &p.Window.End, &updated); err != nil {
		return Preset{}, err
	}
	ts, err := time.Parse(time.RFC3339Nano, updated)
	if err != nil {
		return Preset{}, fmt.Errorf("parse updated_at %q: %w", updated, err)
	}
	p.UpdatedAt = ts
	return p, nil
}
