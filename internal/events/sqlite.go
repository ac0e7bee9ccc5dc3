package events

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id     TEXT PRIMARY KEY,
	kind   TEXT NOT NULL,
	at     TEXT NOT NULL,
	fields TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS events_kind ON events(kind);
`

// Log is a durable append-only sink backed by SQLite.
type Log struct {
	db *sql.DB
}

// OpenLog opens (creating if needed) the event log at path.
func OpenLog(path string) (*Log, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening event log: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing event log: %w", err)
	}
	return &Log{db: db}, nil
}

// Close releases the underlying database.
func (l *Log) Close() error { return l.db.Close() }

// Emit appends one event.
func (l *Log) Emit(kind string, fields map[string]string) error {
	blob, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	_, err = l.db.Exec(
		`INSERT INTO events (id, kind, at, fields) VALUES (?, ?, ?, ?)`,
		uuid.NewString(), kind, time.Now().UTC().Format(time.RFC3339Nano), string(blob),
	)
	if err != nil {
		return fmt.Errorf("appending event: %w", err)
	}
	return nil
}

// Recent returns up to limit events, newest first. kind filters when
// non-empty.
func (l *Log) Recent(kind string, limit int) ([]Event, error) {
	q := `SELECT id, kind, at, fields FROM events`
	args := []any{}
	if kind != "" {
		q += ` WHERE kind = ?`
		args = append(args, kind)
	}
	q += ` ORDER BY at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := l.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		var at, blob string
		if err := rows.Scan(&e.ID, &e.Kind, &at, &blob); err != nil {
			return nil, err
		}
		if e.At, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, fmt.Errorf("parsing event time: %w", err)
		}
		if err := json.Unmarshal([]byte(blob), &e.Fields); err != nil {
			return nil, fmt.Errorf("parsing event fields: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
