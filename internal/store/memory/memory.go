// Package memory implements the store contracts on an in-process map of JSON
// records. Used for tests and zero-config runs; record shapes match the
// sqlite implementation byte for byte.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"homebudget/internal/core"
	"homebudget/internal/store"
)

type Store struct {
	mu      sync.Mutex
	records map[string][]byte
}

func New() *Store {
	return &Store{records: make(map[string][]byte)}
}

func (s *Store) Close() error { return nil }

func (s *Store) SaveSnapshot(_ context.Context, year, month int, snap *core.Snapshot) error {
	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[store.SnapshotKey(year, month)] = body
	return nil
}

func (s *Store) LoadSnapshot(_ context.Context, year, month int) (*core.Snapshot, error) {
	s.mu.Lock()
	body, ok := s.records[store.SnapshotKey(year, month)]
	s.mu.Unlock()
	if !ok {
		return nil, store.ErrNotFound
	}
	var snap core.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot %s: %w", store.SnapshotKey(year, month), err)
	}
	return &snap, nil
}

func (s *Store) DeleteSnapshot(_ context.Context, year, month int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, store.SnapshotKey(year, month))
	return nil
}

func (s *Store) ListSaved(_ context.Context) ([]store.SavedMonth, error) {
	s.mu.Lock()
	keys := make([]string, 0, len(s.records))
	for k := range s.records {
		keys = append(keys, k)
	}
	s.mu.Unlock()

	var months []store.SavedMonth
	for _, k := range keys {
		if m, ok := store.ParseSnapshotKey(k); ok {
			months = append(months, m)
		}
	}
	store.SortSaved(months)
	return months, nil
}

func (s *Store) SaveSchema(_ context.Context, schema core.Schema) error {
	body, err := json.Marshal(schema)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[store.SchemaKey] = body
	return nil
}

func (s *Store) LoadSchema(ctx context.Context) (core.Schema, error) {
	s.mu.Lock()
	body, ok := s.records[store.SchemaKey]
	s.mu.Unlock()
	if !ok {
		return nil, store.ErrNotFound
	}
	var schema core.Schema
	if err := json.Unmarshal(body, &schema); err != nil {
		// Corrupt custom schema: keep the built-in default instead.
		slog.WarnContext(ctx, "Stored schema is unreadable, ignoring it", "error", err)
		return nil, store.ErrNotFound
	}
	return schema, nil
}

func (s *Store) SaveTheme(_ context.Context, theme string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[store.ThemeKey] = []byte(theme)
	return nil
}

func (s *Store) LoadTheme(_ context.Context) (string, error) {
	s.mu.Lock()
	body, ok := s.records[store.ThemeKey]
	s.mu.Unlock()
	if !ok {
		return "", store.ErrNotFound
	}
	return string(body), nil
}

// PutRaw stores an arbitrary record body, bypassing marshalling. Test hook
// for exercising corrupt-record handling.
func (s *Store) PutRaw(key string, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = body
}
