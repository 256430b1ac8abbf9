// Package sheets defines the cloud sync contract consumed by the worker.
// Interfaces live on the consumer side; the google subpackage implements
// them against the Sheets API.
package sheets

import (
	"context"

	"homebudget/internal/core"
)

// SnapshotPusher uploads one month's budget snapshot to the cloud copy.
// Pushing the same month twice must leave the latest data winning.
type SnapshotPusher interface {
	PushSnapshot(ctx context.Context, year, month int, schema core.Schema, snap *core.Snapshot) error
}
