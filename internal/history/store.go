// Package history persists compile outcomes to SQLite and serves them
// back for the history CLI and API surfaces.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mattjoyce/glossa/internal/diag"
)

// ErrNotFound is returned when no record matches the requested id.
var ErrNotFound = errors.New("history: record not found")

// ErrAmbiguousID is returned when an id prefix matches more than one
// record.
var ErrAmbiguousID = errors.New("history: ambiguous id prefix")

const defaultRecentLimit = 50

// Entry is one recorded compilation.
type Entry struct {
	ID          string            `json:"id"`
	CreatedAt   time.Time         `json:"created_at"`
	Language    string            `json:"language"`
	Format      string            `json:"format"`
	Input       string            `json:"input"`
	Action      string            `json:"action,omitempty"`
	OK          bool              `json:"ok"`
	Confidence  float64           `json:"confidence"`
	CacheHit    bool              `json:"cache_hit"`
	DurationMS  int64             `json:"duration_ms"`
	Code        string            `json:"code,omitempty"`
	Diagnostics []diag.Diagnostic `json:"diagnostics,omitempty"`
	Fingerprint string            `json:"fingerprint,omitempty"`
}

// Store reads and writes compile_history rows.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const entryColumns = `id, created_at, language, format, input, action, ok, confidence, cache_hit, duration_ms, code, diagnostics, fingerprint`

// Insert stores entry, assigning an id and timestamp when absent, and
// returns the stored form.
func (s *Store) Insert(ctx context.Context, entry Entry) (Entry, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	var diagnostics any
	if len(entry.Diagnostics) > 0 {
		data, err := json.Marshal(entry.Diagnostics)
		if err != nil {
			return Entry{}, fmt.Errorf("marshal diagnostics: %w", err)
		}
		diagnostics = string(data)
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO compile_history (`+entryColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`,
		entry.ID,
		entry.CreatedAt.Format(time.RFC3339Nano),
		entry.Language,
		entry.Format,
		entry.Input,
		entry.Action,
		entry.OK,
		entry.Confidence,
		entry.CacheHit,
		entry.DurationMS,
		entry.Code,
		diagnostics,
		entry.Fingerprint,
	)
	if err != nil {
		return Entry{}, fmt.Errorf("insert history record: %w", err)
	}
	return entry, nil
}

// Recent returns up to limit records, newest first. Non-positive
// limits fall back to a sensible default.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT `+entryColumns+` FROM compile_history
ORDER BY created_at DESC, id DESC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan history: %w", err)
	}
	return entries, nil
}

// Get returns the record with the given id. A unique id prefix is
// accepted so users can paste the short form shown in listings.
func (s *Store) Get(ctx context.Context, id string) (Entry, error) {
	if id == "" {
		return Entry{}, fmt.Errorf("history id is empty")
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT `+entryColumns+` FROM compile_history
WHERE id = ? OR id LIKE ? || '%'
ORDER BY (id = ?) DESC
LIMIT 2;
`, id, id, id)
	if err != nil {
		return Entry{}, fmt.Errorf("query history record: %w", err)
	}
	defer rows.Close()

	var matches []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return Entry{}, err
		}
		matches = append(matches, entry)
	}
	if err := rows.Err(); err != nil {
		return Entry{}, fmt.Errorf("scan history record: %w", err)
	}

	switch {
	case len(matches) == 0:
		return Entry{}, ErrNotFound
	case matches[0].ID == id || len(matches) == 1:
		return matches[0], nil
	default:
		return Entry{}, fmt.Errorf("%w: %q", ErrAmbiguousID, id)
	}
}

// Purge deletes everything but the newest keep records and reports how
// many rows were removed.
func (s *Store) Purge(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		return 0, fmt.Errorf("keep must not be negative, got %d", keep)
	}

	res, err := s.db.ExecContext(ctx, `
DELETE FROM compile_history
WHERE id NOT IN (
  SELECT id FROM compile_history
  ORDER BY created_at DESC, id DESC
  LIMIT ?
);
`, keep)
	if err != nil {
		return 0, fmt.Errorf("purge history: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge history: %w", err)
	}
	return removed, nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM compile_history;").Scan(&n); err != nil {
		return 0, fmt.Errorf("count history: %w", err)
	}
	return n, nil
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var (
		entry       Entry
		createdAt   string
		diagnostics sql.NullString
	)
	err := rows.Scan(
		&entry.ID,
		&createdAt,
		&entry.Language,
		&entry.Format,
		&entry.Input,
		&entry.Action,
		&entry.OK,
		&entry.Confidence,
		&entry.CacheHit,
		&entry.DurationMS,
		&entry.Code,
		&diagnostics,
		&entry.Fingerprint,
	)
	if err != nil {
		return Entry{}, fmt.Errorf("scan history row: %w", err)
	}

	entry.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Entry{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}

	if diagnostics.Valid && diagnostics.String != "" {
		if err := json.Unmarshal([]byte(diagnostics.String), &entry.Diagnostics); err != nil {
			return Entry{}, fmt.Errorf("decode stored diagnostics: %w", err)
		}
	}
	return entry, nil
}
