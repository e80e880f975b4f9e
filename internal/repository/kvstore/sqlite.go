package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"legalaid-intake-be/pkg/wizard"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps drafts in a single-file database, for single-node
// deployments without Redis or Postgres.
type SQLiteStore struct {
	conn *sql.DB
	ttl  time.Duration
	now  func() time.Time
}

var _ wizard.KeyValueStore = (*SQLiteStore)(nil)

// OpenSQLiteStore opens (or creates) the database at path. ":memory:" gives
// a private in-memory database.
func OpenSQLiteStore(path string, ttl time.Duration) (*SQLiteStore, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer at a time; also keeps a ":memory:" database on one connection.
	conn.SetMaxOpenConns(1)

	s := &SQLiteStore{conn: conn, ttl: ttl, now: time.Now}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.conn.Exec(`CREATE TABLE IF NOT EXISTS draft_entries (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		expires_at INTEGER,
		updated_at INTEGER NOT NULL
	)`)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.conn.QueryRowContext(ctx,
		`SELECT value FROM draft_entries WHERE key = ? AND (expires_at IS NULL OR expires_at > ?)`,
		key, s.now().UnixNano(),
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	now := s.now()
	var expires interface{}
	if s.ttl > 0 {
		expires = now.Add(s.ttl).UnixNano()
	}
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO draft_entries (key, value, expires_at, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at, updated_at = excluded.updated_at`,
		key, value, expires, now.UnixNano(),
	)
	return err
}

func (s *SQLiteStore) Remove(ctx context.Context, key string) error {
	_, err := s.conn.ExecContext(ctx, `DELETE FROM draft_entries WHERE key = ?`, key)
	return err
}
