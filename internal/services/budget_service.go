package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"homebudget/internal/core"
	"homebudget/internal/store"
)

// CloudNotifier announces that a month was saved locally. Implementations
// must be fast and best-effort: a failed notification never fails the save.
type CloudNotifier interface {
	SnapshotSaved(ctx context.Context, year, month int) error
}

// ErrNoEditSession is returned by edit operations when BeginEdit was not
// called first, or the session was already committed or discarded.
var ErrNoEditSession = errors.New("no schema edit in progress")

// ErrInvalidTheme is returned for theme values other than light or dark.
var ErrInvalidTheme = errors.New("invalid theme")

// BudgetService orchestrates the working snapshot, schema edits, and
// persistence. Saves go to local storage first; the cloud notifier is
// fire-and-forget.
type BudgetService struct {
	store    store.Store
	notifier CloudNotifier

	mu      sync.Mutex
	schema  core.Schema
	current *core.Snapshot
	edit    *core.EditSession
}

func NewBudgetService(ctx context.Context, st store.Store, notifier CloudNotifier) (*BudgetService, error) {
	schema, err := st.LoadSchema(ctx)
	if errors.Is(err, store.ErrNotFound) {
		schema = core.DefaultSchema()
	} else if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	} else {
		slog.InfoContext(ctx, "Loaded custom category schema")
	}

	return &BudgetService{
		store:    st,
		notifier: notifier,
		schema:   schema,
		current:  core.NewSnapshot(schema),
	}, nil
}

// Schema returns a copy of the live category schema.
func (s *BudgetService) Schema() core.Schema {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schema.Clone()
}

// Current returns a copy of the working snapshot.
func (s *BudgetService) Current() *core.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// SetIncome updates both income fields on the working snapshot.
func (s *BudgetService) SetIncome(my, partner float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.SetIncome(my, partner)
}

// SetAmount updates one item on the working snapshot.
func (s *BudgetService) SetAmount(cat core.CategoryKey, itemKey string, amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.SetAmount(cat, itemKey, amount)
}

// ReplaceCurrent swaps in a whole new working snapshot, normalized against
// the live schema.
func (s *BudgetService) ReplaceCurrent(snap *core.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap.Normalize(s.schema)
	s.current = snap
}

// Evaluate derives metrics, chart, and health for the working snapshot.
func (s *BudgetService) Evaluate() (core.Metrics, core.Chart, []core.HealthItem) {
	s.mu.Lock()
	snap := s.current.Clone()
	s.mu.Unlock()

	m := core.Derive(snap)
	chart := core.BuildChart(m.EssentialsTotal, m.EMIsTotal, m.NonEssentialsTotal, m.InvestmentsTotal)
	return m, chart, core.HealthReport(m)
}

// Save persists the working snapshot under the given month, then notifies
// the cloud pipeline. Notification failure is logged, never surfaced.
func (s *BudgetService) Save(ctx context.Context, year, month int) error {
	s.mu.Lock()
	snap := s.current.Clone()
	s.mu.Unlock()

	// Save locally first (fast, reliable).
	if err := s.store.SaveSnapshot(ctx, year, month, snap); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	if s.notifier == nil {
		slog.WarnContext(ctx, "Cloud notifier not available, skipping sync message")
		return nil
	}
	if err := s.notifier.SnapshotSaved(ctx, year, month); err != nil {
		// Don't fail the request, the snapshot is saved locally.
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"year", year, "month", month, "error", err)
	}
	return nil
}

// Load replaces the working snapshot with a saved month. Returns
// store.ErrNotFound when the month was never saved.
func (s *BudgetService) Load(ctx context.Context, year, month int) error {
	snap, err := s.store.LoadSnapshot(ctx, year, month)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	snap.Normalize(s.schema)
	s.current = snap
	return nil
}

// Delete removes a saved month. Deleting a month that was never saved is
// not an error. The working snapshot is untouched.
func (s *BudgetService) Delete(ctx context.Context, year, month int) error {
	return s.store.DeleteSnapshot(ctx, year, month)
}

// ListSaved returns saved months, most recent first.
func (s *BudgetService) ListSaved(ctx context.Context) ([]store.SavedMonth, error) {
	return s.store.ListSaved(ctx)
}

// LoadSaved reads a saved month without touching the working snapshot.
func (s *BudgetService) LoadSaved(ctx context.Context, year, month int) (*core.Snapshot, error) {
	return s.store.LoadSnapshot(ctx, year, month)
}

// BeginEdit opens a schema edit session. An already-open session is
// replaced, dropping its pending changes.
func (s *BudgetService) BeginEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edit = core.BeginEdit(s.schema)
}

func (s *BudgetService) RenameItem(cat core.CategoryKey, itemKey, label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.edit == nil {
		return ErrNoEditSession
	}
	return s.edit.RenameItem(cat, itemKey, label)
}

func (s *BudgetService) DeleteItem(cat core.CategoryKey, itemKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.edit == nil {
		return ErrNoEditSession
	}
	return s.edit.DeleteItem(cat, itemKey)
}

func (s *BudgetService) AddItem(cat core.CategoryKey) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.edit == nil {
		return "", ErrNoEditSession
	}
	return s.edit.AddItem(cat)
}

// EditSchema returns the pending schema of the open session.
func (s *BudgetService) EditSchema() (core.Schema, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.edit == nil {
		return nil, ErrNoEditSession
	}
	return s.edit.Categories(), nil
}

// CommitEdit persists the pending schema, then makes it live and
// re-normalizes the working snapshot against it. If persisting fails the
// live schema is unchanged and the session stays open.
func (s *BudgetService) CommitEdit(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.edit == nil {
		return ErrNoEditSession
	}

	schema := s.edit.Categories()
	if err := s.store.SaveSchema(ctx, schema); err != nil {
		return fmt.Errorf("save schema: %w", err)
	}

	s.schema = schema
	s.current.Normalize(schema)
	s.edit = nil
	slog.InfoContext(ctx, "Category schema updated")
	return nil
}

// DiscardEdit drops the pending changes.
func (s *BudgetService) DiscardEdit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.edit == nil {
		return ErrNoEditSession
	}
	s.edit = nil
	return nil
}

// Theme returns the persisted theme, defaulting to dark.
func (s *BudgetService) Theme(ctx context.Context) string {
	theme, err := s.store.LoadTheme(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return "dark"
	}
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load theme", "error", err)
		return "dark"
	}
	if theme != "light" && theme != "dark" {
		return "dark"
	}
	return theme
}

// SetTheme persists the theme. Only light and dark are accepted.
func (s *BudgetService) SetTheme(ctx context.Context, theme string) error {
	if theme != "light" && theme != "dark" {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, theme)
	}
	return s.store.SaveTheme(ctx, theme)
}

// Close closes the underlying store.
func (s *BudgetService) Close() error {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			return fmt.Errorf("close store: %w", err)
		}
	}
	return nil
}
