// Package sqlite persists budget records in a single-file SQLite database.
// Every record is one row in the records table, keyed the same way as the
// memory store, with the body stored as JSON text.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"homebudget/internal/core"
	"homebudget/internal/store"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO records (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, string(value))
	if err != nil {
		return fmt.Errorf("upsert record %s: %w", key, err)
	}
	return nil
}

func (s *Store) get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM records WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select record %s: %w", key, err)
	}
	return []byte(value), nil
}

func (s *Store) SaveSnapshot(ctx context.Context, year, month int, snap *core.Snapshot) error {
	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	key := store.SnapshotKey(year, month)
	if err := s.put(ctx, key, body); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Snapshot saved", "key", key)
	return nil
}

func (s *Store) LoadSnapshot(ctx context.Context, year, month int) (*core.Snapshot, error) {
	key := store.SnapshotKey(year, month)
	body, err := s.get(ctx, key)
	if err != nil {
		return nil, err
	}
	var snap core.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot %s: %w", key, err)
	}
	return &snap, nil
}

func (s *Store) DeleteSnapshot(ctx context.Context, year, month int) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE key = ?`, store.SnapshotKey(year, month))
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}

func (s *Store) ListSaved(ctx context.Context) ([]store.SavedMonth, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM records WHERE key LIKE 'budget\_%' ESCAPE '\'`)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var months []store.SavedMonth
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan record key: %w", err)
		}
		if m, ok := store.ParseSnapshotKey(key); ok {
			months = append(months, m)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate record keys: %w", err)
	}
	store.SortSaved(months)
	return months, nil
}

func (s *Store) SaveSchema(ctx context.Context, schema core.Schema) error {
	body, err := json.Marshal(schema)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	return s.put(ctx, store.SchemaKey, body)
}

func (s *Store) LoadSchema(ctx context.Context) (core.Schema, error) {
	body, err := s.get(ctx, store.SchemaKey)
	if err != nil {
		return nil, err
	}
	var schema core.Schema
	if err := json.Unmarshal(body, &schema); err != nil {
		// Corrupt custom schema: keep the built-in default instead.
		slog.WarnContext(ctx, "Stored schema is unreadable, ignoring it", "error", err)
		return nil, store.ErrNotFound
	}
	return schema, nil
}

func (s *Store) SaveTheme(ctx context.Context, theme string) error {
	return s.put(ctx, store.ThemeKey, []byte(theme))
}

func (s *Store) LoadTheme(ctx context.Context) (string, error) {
	body, err := s.get(ctx, store.ThemeKey)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
