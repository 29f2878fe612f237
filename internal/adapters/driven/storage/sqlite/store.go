// Package sqlite provides a SQLite-backed implementation of the event
// store using modernc.org/sqlite, a pure Go driver that needs no CGO.
//
// The corpus is small relative to the index, so a single events table is
// enough; the database lives at ~/.culturo/data/corpus.db by default and
// uses WAL mode for concurrent readers.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/culturo-labs/culturo-cli/internal/core/domain"
	"github.com/culturo-labs/culturo-cli/internal/core/ports/driven"
)

// Ensure EventStore implements the interfaces.
var (
	_ driven.EventStore = (*EventStore)(nil)
	_ driven.ChunkStore = (*EventStore)(nil)
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	date        TEXT NOT NULL,
	location    TEXT NOT NULL DEFAULT '',
	category    TEXT NOT NULL DEFAULT '',
	url         TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS chunks (
	id        TEXT PRIMARY KEY,
	event_id  TEXT NOT NULL,
	fragment  INTEGER NOT NULL,
	text      TEXT NOT NULL,
	title     TEXT NOT NULL DEFAULT '',
	date      TEXT NOT NULL,
	location  TEXT NOT NULL DEFAULT '',
	category  TEXT NOT NULL DEFAULT '',
	url       TEXT NOT NULL DEFAULT '',
	embedding BLOB
);
`

// EventStore persists the raw-event corpus in SQLite.
type EventStore struct {
	db   *sql.DB
	path string
}

// NewEventStore opens (or creates) the event database in dataDir.
// If dataDir is empty, defaults to ~/.culturo/data.
func NewEventStore(dataDir string) (*EventStore, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".culturo", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "corpus.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &EventStore{db: db, path: dbPath}, nil
}

// Path returns the database file path.
func (s *EventStore) Path() string {
	return s.path
}

// SaveEvents stores or replaces events by ID.
func (s *EventStore) SaveEvents(ctx context.Context, events []domain.RawEvent) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	for _, ev := range events {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO events (id, title, description, date, location, category, url)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				title = excluded.title,
				description = excluded.description,
				date = excluded.date,
				location = excluded.location,
				category = excluded.category,
				url = excluded.url
		`, ev.ID, ev.Title, ev.Description, ev.Date.Format(time.RFC3339), ev.Location, ev.Category, ev.URL)
		if err != nil {
			return fmt.Errorf("saving event %s: %w", ev.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing events: %w", err)
	}
	return nil
}

// ListEvents returns the full corpus ordered by event ID.
func (s *EventStore) ListEvents(ctx context.Context) ([]domain.RawEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, date, location, category, url
		FROM events ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var events []domain.RawEvent
	for rows.Next() {
		var ev domain.RawEvent
		var dateStr string
		if err := rows.Scan(&ev.ID, &ev.Title, &ev.Description, &dateStr,
			&ev.Location, &ev.Category, &ev.URL); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		ev.Date, err = time.Parse(time.RFC3339, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parsing date of event %s: %w", ev.ID, err)
		}
		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}
	return events, nil
}

// SaveChunks replaces the stored chunk set with the given one. Chunks
// are written whole, embedding included, so a later process can rebuild
// the in-memory index without calling the embedding provider.
func (s *EventStore) SaveChunks(ctx context.Context, chunks []domain.Chunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.ExecContext(ctx, `DELETE FROM chunks`); err != nil {
		return fmt.Errorf("clearing chunks: %w", err)
	}

	for _, c := range chunks {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO chunks (id, event_id, fragment, text, title, date, location, category, url, embedding)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, c.ID, c.EventID, c.Fragment, c.Text,
			c.Metadata.Title, c.Metadata.Date.Format(time.RFC3339),
			c.Metadata.Location, c.Metadata.Category, c.Metadata.URL,
			encodeEmbedding(c.Embedding))
		if err != nil {
			return fmt.Errorf("saving chunk %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing chunks: %w", err)
	}
	return nil
}

// ListChunks returns all stored chunks ordered by chunk ID.
func (s *EventStore) ListChunks(ctx context.Context) ([]domain.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, event_id, fragment, text, title, date, location, category, url, embedding
		FROM chunks ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk
	for rows.Next() {
		var c domain.Chunk
		var dateStr string
		var blob []byte
		if err := rows.Scan(&c.ID, &c.EventID, &c.Fragment, &c.Text,
			&c.Metadata.Title, &dateStr, &c.Metadata.Location,
			&c.Metadata.Category, &c.Metadata.URL, &blob); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		c.Metadata.Date, err = time.Parse(time.RFC3339, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parsing date of chunk %s: %w", c.ID, err)
		}
		c.Embedding = decodeEmbedding(blob)
		chunks = append(chunks, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return chunks, nil
}

// encodeEmbedding packs a vector as little-endian float32 bits.
func encodeEmbedding(v []float32) []byte {
	if len(v) == 0 {
		return nil
	}
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(f))
	}
	return buf
}

// decodeEmbedding is the inverse of encodeEmbedding.
func decodeEmbedding(buf []byte) []float32 {
	if len(buf) < 4 {
		return nil
	}
	v := make([]float32, len(buf)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[4*i:]))
	}
	return v
}

// Count returns the number of stored events.
func (s *EventStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting events: %w", err)
	}
	return n, nil
}

// Close closes the database connection.
func (s *EventStore) Close() error {
	return s.db.Close()
}
