// Package history persists recently visited deep links in SQLite.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultLimit is how many links are kept when no limit is configured.
const DefaultLimit = 50

// Entry is one remembered link.
type Entry struct {
	Link      string
	Label     string
	VisitedAt time.Time
	Visits    int
}

// Store is the recent-links database. All methods are safe for concurrent use.
type Store struct {
	db    *sql.DB
	mu    sync.RWMutex
	limit int
}

// Open opens (or creates) the database at path and keeps at most limit
// links. ":memory:" opens a private in-memory database.
func Open(path string, limit int) (*Store, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	connStr := path
	if path == ":memory:" {
		connStr = "file::memory:?cache=shared"
	} else if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db, limit: limit}
	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS recent_links (
		link TEXT PRIMARY KEY,
		label TEXT NOT NULL DEFAULT '',
		visited_at INTEGER NOT NULL,
		visits INTEGER NOT NULL DEFAULT 1
	);

	CREATE INDEX IF NOT EXISTS idx_recent_links_visited ON recent_links(visited_at DESC);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Record marks link as visited at the given time. Revisiting a link moves
// it to the front and bumps its visit count. The empty link (the default
// view) is not recorded.
func (s *Store) Record(ctx context.Context, link, label string, at time.Time) error {
	link = strings.TrimSpace(link)
	if link == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO recent_links (link, label, visited_at, visits) VALUES (?, ?, ?, 1)
		ON CONFLICT(link) DO UPDATE SET
			label = excluded.label,
			visited_at = excluded.visited_at,
			visits = recent_links.visits + 1
	`, link, label, at.UnixNano()); err != nil {
		return fmt.Errorf("record link: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM recent_links WHERE link NOT IN (
			SELECT link FROM recent_links ORDER BY visited_at DESC LIMIT ?
		)
	`, s.limit); err != nil {
		return fmt.Errorf("prune links: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Recent returns up to limit links, most recent first. A non-positive limit
// returns everything kept.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = s.limit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT link, label, visited_at, visits FROM recent_links
		ORDER BY visited_at DESC, link ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent links: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var visited int64
		if err := rows.Scan(&e.Link, &e.Label, &visited, &e.Visits); err != nil {
			return nil, fmt.Errorf("scan recent link: %w", err)
		}
		e.VisitedAt = time.Unix(0, visited)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recent links: %w", err)
	}
	return entries, nil
}

// Clear forgets every link.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.ExecContext(ctx, `DELETE FROM recent_links`); err != nil {
		return fmt.Errorf("clear recent links: %w", err)
	}
	return nil
}
