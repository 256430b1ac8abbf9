package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"homebudget/internal/core"
	"homebudget/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "budget.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	snap := core.NewSnapshot(core.DefaultSchema())
	snap.SetIncome(70000, 30000)
	if err := snap.SetAmount(core.EMIs, "homeLoanEmi", 15000); err != nil {
		t.Fatalf("set amount: %v", err)
	}

	if err := s.SaveSnapshot(ctx, 2024, 7, snap); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.LoadSnapshot(ctx, 2024, 7)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Income != 100000 {
		t.Fatalf("income = %v, want 100000", got.Income)
	}
	if got.EMIs["homeLoanEmi"] != 15000 {
		t.Fatalf("homeLoanEmi = %v, want 15000", got.EMIs["homeLoanEmi"])
	}
}

func TestSaveOverwritesExistingMonth(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := core.NewSnapshot(core.DefaultSchema())
	first.SetIncome(50000, 0)
	if err := s.SaveSnapshot(ctx, 2024, 7, first); err != nil {
		t.Fatalf("first save: %v", err)
	}

	second := core.NewSnapshot(core.DefaultSchema())
	second.SetIncome(80000, 0)
	if err := s.SaveSnapshot(ctx, 2024, 7, second); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := s.LoadSnapshot(ctx, 2024, 7)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Income != 80000 {
		t.Fatalf("income = %v, want the overwritten 80000", got.Income)
	}
}

func TestLoadMissingSnapshot(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.LoadSnapshot(context.Background(), 1999, 12); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListSavedSkipsNonMonthRecords(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	snap := core.NewSnapshot(core.DefaultSchema())

	if err := s.SaveSnapshot(ctx, 2024, 2, snap); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.SaveSnapshot(ctx, 2025, 1, snap); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.SaveSchema(ctx, core.DefaultSchema()); err != nil {
		t.Fatalf("save schema: %v", err)
	}
	if err := s.SaveTheme(ctx, "light"); err != nil {
		t.Fatalf("save theme: %v", err)
	}

	got, err := s.ListSaved(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []store.SavedMonth{{Year: 2025, Month: 1}, {Year: 2024, Month: 2}}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSchemaAndThemeSurviveReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "budget.db")
	ctx := context.Background()

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	if err := s.SaveSchema(ctx, core.DefaultSchema()); err != nil {
		t.Fatalf("save schema: %v", err)
	}
	if err := s.SaveTheme(ctx, "dark"); err != nil {
		t.Fatalf("save theme: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s2, err := New(dbPath)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer s2.Close()

	schema, err := s2.LoadSchema(ctx)
	if err != nil {
		t.Fatalf("load schema: %v", err)
	}
	if _, ok := schema[core.Essentials]; !ok {
		t.Fatalf("schema missing essentials after reopen")
	}
	theme, err := s2.LoadTheme(ctx)
	if err != nil {
		t.Fatalf("load theme: %v", err)
	}
	if theme != "dark" {
		t.Fatalf("theme = %q, want dark", theme)
	}
}
