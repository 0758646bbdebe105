// Package store persists editing sessions between mfl invocations.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/open-cli-collective/media-filter-cli/pkg/media"
)

// ErrNotFound is returned when a session does not exist.
var ErrNotFound = errors.New("session not found")

// Timestamps are stored as fixed-width UTC text so they sort as strings.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const schema = `CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	label      TEXT NOT NULL DEFAULT '',
	state      TEXT NOT NULL,
	tag_count  INTEGER NOT NULL DEFAULT 0,
	file_count INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

// Record describes a stored session without its state.
type Record struct {
	ID        string    `json:"id"`
	Label     string    `json:"label,omitempty"`
	Tags      int       `json:"tags"`
	Files     int       `json:"files"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is a SQLite-backed session store.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the session database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create session directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}
	// A single connection keeps :memory: databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create sessions table: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// NewID returns a new, time-ordered session ID.
func NewID() string {
	return ulid.Make().String()
}

// Save writes the session state under id, creating or replacing it.
func (s *Store) Save(ctx context.Context, id, label string, sess *media.Session) error {
	state, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	now := formatTime(s.now())

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, label, state, tag_count, file_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			label = CASE WHEN excluded.label = '' THEN sessions.label ELSE excluded.label END,
			state = excluded.state,
			tag_count = excluded.tag_count,
			file_count = excluded.file_count,
			updated_at = excluded.updated_at`,
		id, label, string(state), sess.Tags.Len(), len(sess.Data), now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to save session %s: %w", id, err)
	}
	return nil
}

// Load restores the session stored under id.
func (s *Store) Load(ctx context.Context, id string, opts media.Options) (*media.Session, error) {
	var state string
	err := s.db.QueryRowContext(ctx, `SELECT state FROM sessions WHERE id = ?`, id).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}
	return media.LoadSession([]byte(state), opts)
}

// Get returns the record of the session stored under id.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, label, tag_count, file_count, created_at, updated_at
		FROM sessions WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec, err
}

// Latest returns the most recently saved session.
func (s *Store) Latest(ctx context.Context) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, label, tag_count, file_count, created_at, updated_at
		FROM sessions ORDER BY updated_at DESC, id DESC LIMIT 1`)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rec, err
}

// List returns all sessions, most recently saved first.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, label, tag_count, file_count, created_at, updated_at
		FROM sessions ORDER BY updated_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// Delete removes the session stored under id.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var rec Record
	var created, updated string
	if err := row.Scan(&rec.ID, &rec.Label, &rec.Tags, &rec.Files, &created, &updated); err != nil {
		return nil, err
	}
	var err error
	if rec.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if rec.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &rec, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range []string{timeLayout, time.RFC3339Nano, time.RFC3339} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}
