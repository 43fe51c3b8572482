package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteKV stores slots as rows of the kv_slots table.
type SQLiteKV struct {
	conn *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and migrates it.
// ":memory:" gives a private in-memory database pinned to one connection.
func OpenSQLite(path string) (*SQLiteKV, error) {
	conn, err := openDB(path)
	if err != nil {
		return nil, err
	}
	return &SQLiteKV{conn: conn}, nil
}

// NewSQLiteKV wraps an already-migrated connection.
func NewSQLiteKV(conn *sql.DB) *SQLiteKV {
	return &SQLiteKV{conn: conn}
}

func openDB(path string) (*sql.DB, error) {
	memory := path == ":memory:"
	if !memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if memory {
		// Each pooled connection to :memory: would see its own database.
		conn.SetMaxOpenConns(1)
	} else if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	if err := migrate(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return conn, nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS kv_slots (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`ALTER TABLE kv_slots ADD COLUMN revision INTEGER NOT NULL DEFAULT 0`,
}

// migrate re-runs every statement; ALTERs that already applied are skipped.
func migrate(conn *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := conn.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

const upsertSlot = `INSERT INTO kv_slots (key, value, updated_at, revision)
	VALUES (?, ?, ?, 1)
	ON CONFLICT(key) DO UPDATE SET
		value = excluded.value,
		updated_at = excluded.updated_at,
		revision = kv_slots.revision + 1`

func (s *SQLiteKV) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.conn.QueryRowContext(ctx, `SELECT value FROM kv_slots WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading slot %q: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteKV) Put(ctx context.Context, key string, value []byte) error {
	if _, err := s.conn.ExecContext(ctx, upsertSlot, key, value, now()); err != nil {
		return fmt.Errorf("writing slot %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteKV) PutMany(ctx context.Context, entries map[string][]byte) error {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	stamp := now()
	return withinTx(ctx, s.conn, func(ctx context.Context, tx execer) error {
		for _, k := range keys {
			if _, err := tx.ExecContext(ctx, upsertSlot, k, entries[k], stamp); err != nil {
				return fmt.Errorf("writing slot %q: %w", k, err)
			}
		}
		return nil
	})
}

func (s *SQLiteKV) Delete(ctx context.Context, key string) error {
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM kv_slots WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting slot %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteKV) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT key FROM kv_slots ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("listing slots: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scanning slot key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Revision returns how many times key has been written, or 0 if absent.
func (s *SQLiteKV) Revision(ctx context.Context, key string) (int, error) {
	var rev int
	err := s.conn.QueryRowContext(ctx, `SELECT revision FROM kv_slots WHERE key = ?`, key).Scan(&rev)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading revision of %q: %w", key, err)
	}
	return rev, nil
}

func (s *SQLiteKV) Close() error {
	return s.conn.Close()
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
