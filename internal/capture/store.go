// Package capture loads, persists and replays raw live-timing event logs.
// Only the raw capture is ever stored; derived analytics are recomputed in
// memory from the event log.
package capture

import (
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RawEvent is one captured feed line: the topic as it appeared on the
// stream, the (already decompressed) JSON payload, and the capture
// timestamp.
type RawEvent struct {
	Topic     string
	Payload   json.RawMessage
	Timestamp time.Time
}

// SessionMeta describes one stored capture session.
type SessionMeta struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	Events    int       `json:"events"`
}

// Store persists raw capture sessions in sqlite.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) the capture database at path and
// applies any pending schema migrations.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture db: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrateUp() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to load embedded migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(s.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create sqlite migrate driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	// Note: the migrate instance is not closed because that would close
	// the shared DB connection.
	m.Log = &migrateLogger{}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// migrateLogger implements migrate.Logger.
type migrateLogger struct{}

func (l *migrateLogger) Printf(format string, v ...any) {
	log.Printf("[migrate] "+format, v...)
}

func (l *migrateLogger) Verbose() bool { return false }

// SaveSession stores a full capture under a new session id and returns its
// metadata. The event order is preserved via the stored sequence number.
func (s *Store) SaveSession(kind, name string, events []RawEvent) (SessionMeta, error) {
	meta := SessionMeta{
		ID:        uuid.New().String(),
		Kind:      kind,
		Name:      name,
		CreatedAt: time.Now(),
		Events:    len(events),
	}

	tx, err := s.db.Begin()
	if err != nil {
		return SessionMeta{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO capture_sessions (session_id, kind, name, created_at_ns) VALUES (?, ?, ?, ?)`,
		meta.ID, meta.Kind, meta.Name, meta.CreatedAt.UnixNano(),
	)
	if err != nil {
		return SessionMeta{}, fmt.Errorf("failed to insert session: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO capture_events (session_id, seq, topic, payload, captured_at_ns) VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return SessionMeta{}, fmt.Errorf("failed to prepare event insert: %w", err)
	}
	defer stmt.Close()

	for seq, ev := range events {
		if _, err := stmt.Exec(meta.ID, seq, ev.Topic, string(ev.Payload), ev.Timestamp.UnixNano()); err != nil {
			return SessionMeta{}, fmt.Errorf("failed to insert event %d: %w", seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return SessionMeta{}, fmt.Errorf("failed to commit session: %w", err)
	}
	return meta, nil
}

// Sessions lists stored capture sessions, newest first.
func (s *Store) Sessions() ([]SessionMeta, error) {
	rows, err := s.db.Query(`
		SELECT s.session_id, s.kind, COALESCE(s.name, ''), s.created_at_ns, COUNT(e.seq)
		FROM capture_sessions s
		LEFT JOIN capture_events e ON e.session_id = s.session_id
		GROUP BY s.session_id
		ORDER BY s.created_at_ns DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []SessionMeta
	for rows.Next() {
		var meta SessionMeta
		var createdNs int64
		if err := rows.Scan(&meta.ID, &meta.Kind, &meta.Name, &createdNs, &meta.Events); err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		meta.CreatedAt = time.Unix(0, createdNs)
		sessions = append(sessions, meta)
	}
	return sessions, rows.Err()
}

// Events loads one session's events in capture order.
func (s *Store) Events(sessionID string) ([]RawEvent, error) {
	rows, err := s.db.Query(
		`SELECT topic, payload, captured_at_ns FROM capture_events WHERE session_id = ? ORDER BY seq`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []RawEvent
	for rows.Next() {
		var topic, payload string
		var capturedNs int64
		if err := rows.Scan(&topic, &payload, &capturedNs); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, RawEvent{
			Topic:     topic,
			Payload:   json.RawMessage(payload),
			Timestamp: time.Unix(0, capturedNs),
		})
	}
	return events, rows.Err()
}
