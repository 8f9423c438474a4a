/*
Package sqlite provides a local calendar database backed by SQLite.

It implements store.Store for teams that keep the arrival calendar on disk
instead of in Google Calendar. Events are stored with their start and end as
epoch milliseconds so range searches stay a single indexed comparison.

ORDERING:

	Search returns events in insertion order (the table's rowid), which is the
	"store order" the reconciler relies on when several events share a key.

WAL MODE:

	The database is opened with WAL so a reader (e.g. a report tool) does not
	block a running reconciliation.
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ginjaninja78/travel-desk/internal/types"
)

// Store implements store.Store using SQLite.
type Store struct {
	db *sql.DB
}

// New opens (and if needed creates) the database at dbPath.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection keeps ":memory:" databases alive between calls
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		start_ms INTEGER NOT NULL,
		end_ms INTEGER NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		color TEXT NOT NULL DEFAULT '',
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_range
		ON events(start_ms, end_ms);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Search returns all events overlapping [start, end) in insertion order.
func (s *Store) Search(ctx context.Context, start, end time.Time) ([]types.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, start_ms, end_ms, description, location, color
		FROM events
		WHERE start_ms < ? AND end_ms > ?
		ORDER BY seq`,
		end.UnixMilli(), start.UnixMilli(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []types.Event
	for rows.Next() {
		var (
			ev             types.Event
			startMs, endMs int64
			color          string
		)
		if err := rows.Scan(&ev.ID, &ev.Title, &startMs, &endMs, &ev.Description, &ev.Location, &color); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		ev.Start = time.UnixMilli(startMs)
		ev.End = time.UnixMilli(endMs)
		ev.Color = types.Color(color)
		events = append(events, ev)
	}

	return events, rows.Err()
}

// Create inserts ev under a new ID.
func (s *Store) Create(ctx context.Context, ev types.Event) (types.Event, error) {
	ev.ID = uuid.NewString()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (id, title, start_ms, end_ms, description, location, color, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.Title, ev.Start.UnixMilli(), ev.End.UnixMilli(),
		ev.Description, ev.Location, string(ev.Color), now(),
	)
	if err != nil {
		return types.Event{}, fmt.Errorf("failed to insert event: %w", err)
	}

	return ev, nil
}

// Update overwrites the mutable fields of the event with ev.ID.
func (s *Store) Update(ctx context.Context, ev types.Event) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE events
		SET title = ?, start_ms = ?, end_ms = ?, description = ?, location = ?, color = ?, updated_at = ?
		WHERE id = ?`,
		ev.Title, ev.Start.UnixMilli(), ev.End.UnixMilli(),
		ev.Description, ev.Location, string(ev.Color), now(), ev.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	return expectOneRow(res, ev.ID)
}

// Delete removes the event with the given ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return expectOneRow(res, id)
}

// expectOneRow fails when a statement addressed a missing event.
func expectOneRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("event %s not found", id)
	}
	return nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
