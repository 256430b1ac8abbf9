package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"homebudget/internal/amqp"
	"homebudget/internal/core"
	"homebudget/internal/sheets"
	"homebudget/internal/store"
)

// SyncWorker mirrors saved budget months from local storage to Google
// Sheets. It reacts to AMQP messages; the message carries only the month
// coordinates, so the worker always pushes the freshest stored data.
type SyncWorker struct {
	store  store.Store
	pusher sheets.SnapshotPusher
}

func NewSyncWorker(st store.Store, pusher sheets.SnapshotPusher) *SyncWorker {
	return &SyncWorker{
		store:  st,
		pusher: pusher,
	}
}

// HandleSnapshotSaved processes a single sync message. A snapshot that was
// deleted between save and sync is skipped without error, so the message
// is not requeued forever.
func (w *SyncWorker) HandleSnapshotSaved(ctx context.Context, msg *amqp.SnapshotSavedMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"year", msg.Year,
		"month", msg.Month)

	snap, err := w.store.LoadSnapshot(ctx, msg.Year, msg.Month)
	if errors.Is(err, store.ErrNotFound) {
		slog.WarnContext(ctx, "Snapshot gone before sync, skipping",
			"year", msg.Year,
			"month", msg.Month)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load snapshot from storage: %w", err)
	}

	schema, err := w.store.LoadSchema(ctx)
	if errors.Is(err, store.ErrNotFound) {
		schema = core.DefaultSchema()
	} else if err != nil {
		return fmt.Errorf("load schema from storage: %w", err)
	}
	snap.Normalize(schema)

	if err := w.pusher.PushSnapshot(ctx, msg.Year, msg.Month, schema, snap); err != nil {
		return fmt.Errorf("push snapshot to sheets: %w", err)
	}

	slog.InfoContext(ctx, "Snapshot synced",
		"year", msg.Year,
		"month", msg.Month)
	return nil
}

// ResyncAll pushes every saved month. Used at startup to recover from
// missed messages or worker downtime.
func (w *SyncWorker) ResyncAll(ctx context.Context) error {
	months, err := w.store.ListSaved(ctx)
	if err != nil {
		return fmt.Errorf("list saved months: %w", err)
	}
	if len(months) == 0 {
		slog.InfoContext(ctx, "No saved months to resync")
		return nil
	}

	slog.InfoContext(ctx, "Resyncing saved months", "count", len(months))

	errorCount := 0
	for _, m := range months {
		msg := &amqp.SnapshotSavedMessage{Year: m.Year, Month: m.Month}
		if err := w.HandleSnapshotSaved(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "Failed to resync month",
				"year", m.Year, "month", m.Month, "error", err)
			errorCount++
		}
	}

	slog.InfoContext(ctx, "Resync completed",
		"total", len(months),
		"errors", errorCount)
	return nil
}
