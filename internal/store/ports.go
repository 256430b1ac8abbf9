// Package store defines the persistence contracts for budget snapshots, the
// custom category schema, and the theme preference. Implementations live in
// the sqlite and memory subpackages.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"homebudget/internal/core"
)

// ErrNotFound is returned when no record exists for the requested key. It is
// an expected outcome, not a failure: a month with no save has no record.
var ErrNotFound = errors.New("record not found")

// Fixed record keys, independent of any month.
const (
	SchemaKey = "budget_custom_categories"
	ThemeKey  = "budget_theme"
)

// SnapshotKey derives the storage key for a month: "budget_<year>_<MM>" with
// the month zero-padded to two digits.
func SnapshotKey(year, month int) string {
	return fmt.Sprintf("budget_%d_%02d", year, month)
}

// SavedMonth identifies one persisted snapshot.
type SavedMonth struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// ParseSnapshotKey accepts only strict "budget_<year>_<MM>" keys with numeric
// parts, so the schema and theme slots never show up as saved months.
func ParseSnapshotKey(key string) (SavedMonth, bool) {
	rest, ok := strings.CutPrefix(key, "budget_")
	if !ok {
		return SavedMonth{}, false
	}
	parts := strings.Split(rest, "_")
	if len(parts) != 2 {
		return SavedMonth{}, false
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return SavedMonth{}, false
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return SavedMonth{}, false
	}
	return SavedMonth{Year: year, Month: month}, true
}

// SortSaved orders months most recent first: descending by year, then month.
func SortSaved(months []SavedMonth) {
	sort.Slice(months, func(i, j int) bool {
		if months[i].Year != months[j].Year {
			return months[i].Year > months[j].Year
		}
		return months[i].Month > months[j].Month
	})
}

type (
	SnapshotStore interface {
		// SaveSnapshot overwrites unconditionally.
		SaveSnapshot(ctx context.Context, year, month int, s *core.Snapshot) error
		// LoadSnapshot returns ErrNotFound when the month was never saved.
		LoadSnapshot(ctx context.Context, year, month int) (*core.Snapshot, error)
		DeleteSnapshot(ctx context.Context, year, month int) error
		// ListSaved returns saved months sorted descending by year then month.
		ListSaved(ctx context.Context) ([]SavedMonth, error)
	}

	SchemaStore interface {
		SaveSchema(ctx context.Context, s core.Schema) error
		// LoadSchema returns ErrNotFound when no custom schema was saved or
		// the stored record is unreadable; callers fall back to the default.
		LoadSchema(ctx context.Context) (core.Schema, error)
	}

	PreferenceStore interface {
		SaveTheme(ctx context.Context, theme string) error
		LoadTheme(ctx context.Context) (string, error)
	}

	// Store is the full persistence surface of the application.
	Store interface {
		SnapshotStore
		SchemaStore
		PreferenceStore
		Close() error
	}
)
