package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homebudget/internal/core"
	"homebudget/internal/store"
	"homebudget/internal/store/memory"
)

type recordingNotifier struct {
	calls []store.SavedMonth
	err   error
}

func (n *recordingNotifier) SnapshotSaved(_ context.Context, year, month int) error {
	n.calls = append(n.calls, store.SavedMonth{Year: year, Month: month})
	return n.err
}

func newTestService(t *testing.T, notifier CloudNotifier) *BudgetService {
	t.Helper()
	svc, err := NewBudgetService(context.Background(), memory.New(), notifier)
	require.NoError(t, err)
	return svc
}

func TestSavePublishesSyncMessage(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := newTestService(t, notifier)

	svc.SetIncome(70000, 30000)
	require.NoError(t, svc.Save(context.Background(), 2024, 3))

	require.Len(t, notifier.calls, 1)
	assert.Equal(t, store.SavedMonth{Year: 2024, Month: 3}, notifier.calls[0])
}

func TestSaveSucceedsWhenNotifierFails(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("broker down")}
	svc := newTestService(t, notifier)

	require.NoError(t, svc.Save(context.Background(), 2024, 3))

	months, err := svc.ListSaved(context.Background())
	require.NoError(t, err)
	assert.Len(t, months, 1, "snapshot must be saved locally even when the notifier fails")
}

func TestSaveWithoutNotifier(t *testing.T) {
	svc := newTestService(t, nil)
	require.NoError(t, svc.Save(context.Background(), 2024, 3))
}

func TestLoadReplacesWorkingSnapshot(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	svc.SetIncome(70000, 30000)
	require.NoError(t, svc.SetAmount(core.Essentials, "rent", 25000))
	require.NoError(t, svc.Save(ctx, 2024, 3))

	svc.SetIncome(0, 0)
	require.NoError(t, svc.Load(ctx, 2024, 3))

	cur := svc.Current()
	assert.Equal(t, 100000.0, cur.Income)
	assert.Equal(t, 25000.0, cur.Essentials["rent"])
}

func TestLoadMissingMonth(t *testing.T) {
	svc := newTestService(t, nil)
	err := svc.Load(context.Background(), 1999, 1)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteLeavesWorkingSnapshot(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	svc.SetIncome(50000, 0)
	require.NoError(t, svc.Save(ctx, 2024, 5))
	require.NoError(t, svc.Delete(ctx, 2024, 5))

	months, err := svc.ListSaved(ctx)
	require.NoError(t, err)
	assert.Empty(t, months)
	assert.Equal(t, 50000.0, svc.Current().Income, "delete must not clear the working snapshot")
}

func TestEvaluate(t *testing.T) {
	svc := newTestService(t, nil)
	svc.SetIncome(100000, 0)
	require.NoError(t, svc.SetAmount(core.Essentials, "rent", 40000))
	require.NoError(t, svc.SetAmount(core.EMIs, "homeLoanEmi", 15000))
	require.NoError(t, svc.SetAmount(core.NonEssentials, "diningOut", 10000))

	m, chart, health := svc.Evaluate()
	assert.Equal(t, 65000.0, m.TotalExpenses)
	assert.Equal(t, 35.0, m.SavingsRate)
	assert.NotEmpty(t, chart.Segments)
	require.Len(t, health, 4)
	assert.Equal(t, core.HealthKeyEssentials, health[0].Key)
	assert.Equal(t, core.HealthGood, health[0].Status)
}

func TestEditLifecycle(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	// No session yet.
	assert.ErrorIs(t, svc.RenameItem(core.Essentials, "rent", "Mortgage"), ErrNoEditSession)
	assert.ErrorIs(t, svc.CommitEdit(ctx), ErrNoEditSession)
	assert.ErrorIs(t, svc.DiscardEdit(), ErrNoEditSession)

	svc.BeginEdit()
	require.NoError(t, svc.RenameItem(core.Essentials, "rent", "Mortgage"))
	key, err := svc.AddItem(core.Investments)
	require.NoError(t, err)
	require.NoError(t, svc.CommitEdit(ctx))

	schema := svc.Schema()
	assert.Equal(t, "Mortgage", schema[core.Essentials].Items["rent"].Label)
	_, ok := schema[core.Investments].Items[key]
	assert.True(t, ok, "added item must be live after commit")

	// The working snapshot picks up the new item at its default.
	_, ok = svc.Current().Investments[key]
	assert.True(t, ok)

	// Session is consumed by commit.
	assert.ErrorIs(t, svc.CommitEdit(ctx), ErrNoEditSession)
}

func TestDiscardEditDropsChanges(t *testing.T) {
	svc := newTestService(t, nil)

	svc.BeginEdit()
	require.NoError(t, svc.RenameItem(core.Essentials, "rent", "Mortgage"))
	require.NoError(t, svc.DiscardEdit())

	assert.Equal(t, "Rent", svc.Schema()[core.Essentials].Items["rent"].Label)
}

func TestCommitPersistsSchema(t *testing.T) {
	st := memory.New()
	ctx := context.Background()

	svc, err := NewBudgetService(ctx, st, nil)
	require.NoError(t, err)

	svc.BeginEdit()
	require.NoError(t, svc.DeleteItem(core.NonEssentials, "diningOut"))
	require.NoError(t, svc.CommitEdit(ctx))

	// A fresh service over the same store starts from the custom schema.
	svc2, err := NewBudgetService(ctx, st, nil)
	require.NoError(t, err)
	_, ok := svc2.Schema()[core.NonEssentials].Items["diningOut"]
	assert.False(t, ok)
}

func TestTheme(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	assert.Equal(t, "dark", svc.Theme(ctx), "default theme")
	assert.ErrorIs(t, svc.SetTheme(ctx, "sepia"), ErrInvalidTheme)
	require.NoError(t, svc.SetTheme(ctx, "light"))
	assert.Equal(t, "light", svc.Theme(ctx))
}
