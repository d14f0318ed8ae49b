// Package audit keeps an append-only trail of account and booking
// lifecycle events in a local sqlite file, separate from the record
// store so a corrupted trail never blocks bookings.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
)

// Known actions.
const (
	ActionSignup         = "signup"
	ActionLogin          = "login"
	ActionBookingCreated = "booking_created"
	ActionStatusChange   = "status_change"
)

// Event is one recorded trail entry.
type Event struct {
	ID        int64     `json:"id"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	BookingID string    `json:"bookingId,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Trail is the sqlite-backed event log.
type Trail struct {
	db *sql.DB
}

// Open opens (creating if needed) the trail database at path.
func Open(path string) (*Trail, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create audit directory: %w", err)
	}

	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect audit db: %w", err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS audit_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		actor TEXT NOT NULL,
		action TEXT NOT NULL,
		booking_id TEXT NOT NULL DEFAULT '',
		detail TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create audit table: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_audit_action ON audit_events(action)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create audit index: %w", err)
	}

	return &Trail{db: db}, nil
}

// Record appends one event.
func (t *Trail) Record(ctx context.Context, actor, action, bookingID, detail string) error {
	_, err := t.db.ExecContext(ctx,
		`INSERT INTO audit_events (actor, action, booking_id, detail, created_at) VALUES (?, ?, ?, ?, ?)`,
		actor, action, bookingID, detail, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// Recent returns the newest events, most recent first.
func (t *Trail) Recent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := t.db.QueryContext(ctx,
		`SELECT id, actor, action, booking_id, detail, created_at
		 FROM audit_events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Actor, &e.Action, &e.BookingID, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Close closes the underlying database.
func (t *Trail) Close() error {
	return t.db.Close()
}
