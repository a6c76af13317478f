package reconcile

import (
	"time"

	"github.com/agentstation/boardsync/pkg/view"
)

// Result is the outcome of one reconciliation run.
type Result struct {
	// RunID uniquely identifies the run in logs.
	RunID string

	// View is the composed board, row order mirroring input order.
	View *view.View

	// Metadata describes the run.
	Metadata Metadata
}

// Metadata contains timing and statistics for a run.
type Metadata struct {
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
	Stats     Stats
}

// Stats counts what the run did.
type Stats struct {
	// InputRows is the raw data row count before normalization.
	InputRows int

	// Records is the count of normalized records that survived filtering.
	Records int

	// Inserted is the number of new history entries queued and written.
	Inserted int

	// Merged is the number of records matched to existing entries.
	Merged int

	// OwnerOverwrites counts owners actually changed by the overwrite
	// policy, not buffer positions rewritten.
	OwnerOverwrites int
}
