// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger keeps an append-only SQLite record of every article
// written to the posts directory.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/postsmith/pkg/types"
)

const dbFile = "ledger.db"

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrDuplicate is returned when an entry's id or path is already recorded.
var ErrDuplicate = errors.New("ledger entry already exists")

// Entry is one written article.
type Entry struct {
	ID        string           `json:"id" yaml:"id"`
	Slug      string           `json:"slug" yaml:"slug"`
	Path      string           `json:"path" yaml:"path"`
	Title     string           `json:"title" yaml:"title"`
	Category  string           `json:"category" yaml:"category"`
	Date      string           `json:"date" yaml:"date"`
	Source    types.SourceKind `json:"source" yaml:"source"`
	Provider  string           `json:"provider,omitempty" yaml:"provider,omitempty"`
	CreatedAt time.Time        `json:"created_at" yaml:"created_at"`
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Category string
	Title    string
	Since    time.Time
	Limit    int
}

// CategoryCount is the number of recorded articles in a category.
type CategoryCount struct {
	Category string `json:"category" yaml:"category"`
	Count    int    `json:"count" yaml:"count"`
}

// Store is the ledger database.
type Store struct {
	db  *sql.DB
	dir string
}

// NewID returns a fresh article identifier.
func NewID() string {
	return uuid.NewString()
}

// Open opens or creates dir/ledger.db and its schema.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dir, dbFile)+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	s := &Store{db: db, dir: dir}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger schema: %w", err)
	}
	return s, nil
}

// Dir returns the directory holding the database.
func (s *Store) Dir() string { return s.dir }

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS articles (
			id TEXT PRIMARY KEY,
			slug TEXT NOT NULL,
			path TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			category TEXT NOT NULL,
			date TEXT NOT NULL,
			source TEXT NOT NULL,
			provider TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_slug ON articles(slug)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_category ON articles(category)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_created_at ON articles(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record inserts e. A missing ID is generated and a zero CreatedAt is set
// to the current time. Recording an existing id or path returns
// ErrDuplicate.
func (s *Store) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = NewID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	e.CreatedAt = e.CreatedAt.UTC()

	var exists int
	if err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM articles WHERE id = ? OR path = ?`, e.ID, e.Path,
	).Scan(&exists); err != nil {
		return Entry{}, fmt.Errorf("checking ledger: %w", err)
	}
	if exists > 0 {
		return Entry{}, fmt.Errorf("recording %s: %w", e.Path, ErrDuplicate)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO articles (id, slug, path, title, category, date, source, provider, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Slug, e.Path, e.Title, e.Category, e.Date, string(e.Source), e.Provider,
		e.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("recording %s: %w", e.Slug, err)
	}
	return e, nil
}

// List returns entries matching f, newest first.
func (s *Store) List(ctx context.Context, f Filter) ([]Entry, error) {
	var (
		where []string
		args  []any
	)
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}
	if f.Title != "" {
		where = append(where, "title LIKE ?")
		args = append(args, "%"+f.Title+"%")
	}
	if !f.Since.IsZero() {
		where = append(where, "created_at >= ?")
		args = append(args, f.Since.UTC().Format(timeLayout))
	}

	query := `SELECT id, slug, path, title, category, date, source, provider, created_at FROM articles`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, rowid DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying ledger: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e        Entry
			source   string
			provider sql.NullString
			created  string
		)
		if err := rows.Scan(&e.ID, &e.Slug, &e.Path, &e.Title, &e.Category, &e.Date, &source, &provider, &created); err != nil {
			return nil, fmt.Errorf("scanning ledger row: %w", err)
		}
		e.Source = types.SourceKind(source)
		e.Provider = provider.String
		if t, err := time.Parse(timeLayout, created); err == nil {
			e.CreatedAt = t
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Count returns the number of recorded articles.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM articles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting ledger: %w", err)
	}
	return n, nil
}

// CategoryCounts returns per-category totals ordered by count, then name.
func (s *Store) CategoryCounts(ctx context.Context) ([]CategoryCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, count(*) AS n FROM articles GROUP BY category ORDER BY n DESC, category`)
	if err != nil {
		return nil, fmt.Errorf("counting categories: %w", err)
	}
	defer rows.Close()

	var out []CategoryCount
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, fmt.Errorf("scanning category count: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
