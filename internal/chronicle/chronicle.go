// Package chronicle keeps a SQLite log of what happened in each game.
package chronicle

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Event kinds.
const (
	KindBattle    = "battle"
	KindEconomy   = "economy"
	KindDiplomacy = "diplomacy"
	KindTrade     = "trade"
	KindMessage   = "message"
	KindSystem    = "system"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Event is one line of the chronicle.
type Event struct {
	ID         int64  `db:"id"`
	Session    string `db:"session"`
	Turn       int    `db:"turn"`
	Kind       string `db:"kind"`
	Actor      string `db:"actor"`
	Target     string `db:"target"`
	Text       string `db:"text"`
	RecordedAt int64  `db:"recorded_at"`
}

func (e Event) When() time.Time {
	return time.Unix(e.RecordedAt, 0)
}

// Store wraps the SQLite connection.
type Store struct {
	conn *sqlx.DB
	now  func() time.Time
}

// Open opens or creates the chronicle at path.
func Open(path string) (*Store, error) {
	dsn := path
	if path != MemoryPath {
		dsn += "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	conn, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open chronicle: %w", err)
	}
	// One connection keeps an in-memory database alive and serializes writes.
	conn.SetMaxOpenConns(1)

	s := &Store{conn: conn, now: time.Now}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate chronicle: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session TEXT NOT NULL,
		turn INTEGER NOT NULL,
		kind TEXT NOT NULL,
		actor TEXT NOT NULL,
		target TEXT NOT NULL,
		text TEXT NOT NULL,
		recorded_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_session ON events(session, id);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// Record appends e to the log.
func (s *Store) Record(ctx context.Context, e Event) error {
	if e.RecordedAt == 0 {
		e.RecordedAt = s.now().Unix()
	}
	_, err := s.conn.NamedExecContext(ctx,
		`INSERT INTO events (session, turn, kind, actor, target, text, recorded_at)
		 VALUES (:session, :turn, :kind, :actor, :target, :text, :recorded_at)`,
		e,
	)
	if err != nil {
		return fmt.Errorf("record %s event: %w", e.Kind, err)
	}
	return nil
}

// Recent returns up to limit events of a session, newest first.
func (s *Store) Recent(ctx context.Context, session string, limit int) ([]Event, error) {
	var events []Event
	err := s.conn.SelectContext(ctx, &events,
		"SELECT * FROM events WHERE session = ? ORDER BY id DESC LIMIT ?",
		session, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent events: %w", err)
	}
	return events, nil
}

// Involving returns every event of a session in which name acted or was targeted, oldest first.
func (s *Store) Involving(ctx context.Context, session, name string) ([]Event, error) {
	var events []Event
	err := s.conn.SelectContext(ctx, &events,
		"SELECT * FROM events WHERE session = ? AND (actor = ? OR target = ?) ORDER BY id",
		session, name, name,
	)
	if err != nil {
		return nil, fmt.Errorf("events for %s: %w", name, err)
	}
	return events, nil
}

// Counts tallies a session's events by kind.
func (s *Store) Counts(ctx context.Context, session string) (map[string]int, error) {
	var rows []struct {
		Kind  string `db:"kind"`
		Count int    `db:"n"`
	}
	err := s.conn.SelectContext(ctx, &rows,
		"SELECT kind, COUNT(*) AS n FROM events WHERE session = ? GROUP BY kind",
		session,
	)
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}
	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.Kind] = r.Count
	}
	return counts, nil
}
