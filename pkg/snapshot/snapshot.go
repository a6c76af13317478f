// Package snapshot freezes point-in-time flag/tier metrics into history.
// It is a narrower reconciliation variant: it writes exactly two configured
// fields plus UPDATED_AT for records already present in history, and never
// creates entries. A record absent from the snapshot input keeps whatever
// flag it has; nothing is ever flipped back to "NO".
package snapshot

import (
	"context"
	"strconv"
	"time"

	"github.com/agentstation/utc"
	"github.com/google/uuid"

	"github.com/agentstation/boardsync/pkg/history"
	"github.com/agentstation/boardsync/pkg/logging"
	"github.com/agentstation/boardsync/pkg/mapping"
	"github.com/agentstation/boardsync/pkg/record"
	"github.com/agentstation/boardsync/pkg/settings"
	"github.com/agentstation/boardsync/pkg/table"
)

// Freezer stamps the configured flag/tier pair onto matched history entries.
type Freezer struct {
	store    history.Store
	settings settings.Settings
	now      func() utc.Time
}

// Option configures a Freezer.
type Option func(*Freezer)

// WithClock overrides the stamp timestamp source.
func WithClock(now func() utc.Time) Option {
	return func(f *Freezer) {
		f.now = now
	}
}

// New creates a snapshot freezer over a history store.
func New(store history.Store, s settings.Settings, opts ...Option) *Freezer {
	f := &Freezer{
		store:    store,
		settings: s,
		now:      utc.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Result summarizes one freeze run.
type Result struct {
	RunID   string
	Matched int
	Skipped int
}

// Run freezes the flag/tier pair for every input record whose id already
// exists in history. The two target columns are added to the schema first
// when missing.
func (f *Freezer) Run(ctx context.Context, t *table.Table) (*Result, error) {
	log := logging.FromContext(ctx)
	runID := uuid.NewString()

	cols := mapping.Resolve(t, f.settings)
	records := record.NewNormalizer(cols, f.settings).Normalize(t)

	idx, err := f.store.LoadIndex(ctx)
	if err != nil {
		return nil, err
	}

	flagField := f.settings.PrevPeriodFlagField
	tierField := f.settings.PrevPeriodTierField
	if err := f.store.EnsureSchema(ctx, []string{flagField, tierField}); err != nil {
		return nil, err
	}

	stamp := f.now().Format(time.RFC3339)
	res := &Result{RunID: runID}

	for _, rec := range records {
		if _, ok := idx[rec.ID]; !ok {
			res.Skipped++
			continue
		}
		tier := strconv.Itoa(record.ClampPriority(rec.Priority))
		if err := f.store.UpdateField(ctx, rec.ID, flagField, history.FlagYes); err != nil {
			return res, err
		}
		if err := f.store.UpdateField(ctx, rec.ID, tierField, tier); err != nil {
			return res, err
		}
		if err := f.store.UpdateField(ctx, rec.ID, history.FieldUpdatedAt, stamp); err != nil {
			return res, err
		}
		res.Matched++
	}

	log.Info().
		Str("run_id", runID).
		Int("matched", res.Matched).
		Int("skipped", res.Skipped).
		Str("flag_field", flagField).
		Str("tier_field", tierField).
		Msg("Snapshot freeze complete")

	return res, nil
}
