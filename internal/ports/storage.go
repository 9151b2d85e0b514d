package ports

import (
	"context"

	"github.com/alejandrodnm/tradersim/internal/domain"
)

// SnapshotWriter persists the snapshots of a run, one trader at a time.
type SnapshotWriter interface {
	// Reset clears whatever an earlier run left for the trader and returns
	// how many records were removed.
	Reset(ctx context.Context, trader domain.Trader) (int, error)

	// Write persists one snapshot. Any error aborts the run.
	Write(ctx context.Context, trader domain.Trader, snap domain.Snapshot) error
}

// RunRecorder is implemented by writers that also keep a run log.
type RunRecorder interface {
	RecordRun(ctx context.Context, run domain.RunSummary) error
}
