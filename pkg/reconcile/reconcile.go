// Package reconcile implements the record reconciliation and merge engine.
// Each run reads the history store once, decides insert-vs-merge per
// normalized input record, composes the output board view, and batches all
// writes at the end: one bulk insert of new entries and, when owner
// overwrite is enabled, one bulk rewrite of the whole owner column.
package reconcile

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
	"github.com/agentstation/boardsync/pkg/view"
)

// Engine reconciles normalized records against the history store.
type Engine struct {
	store    history.Store
	settings settings.Settings
	now      func() utc.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the run timestamp source. Tests use this to pin
// UPDATED_AT stamps.
func WithClock(now func() utc.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// New creates a reconciliation engine over a history store.
func New(store history.Store, s settings.Settings, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		settings: s,
		now:      utc.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run reconciles one input table and returns the composed board view.
// The store is read once up front; a load failure aborts before any
// mutation. Writes happen only after every record has been processed.
func (e *Engine) Run(ctx context.Context, t *table.Table) (*Result, error) {
	log := logging.FromContext(ctx)
	runID := uuid.NewString()
	start := time.Now()

	cols := mapping.Resolve(t, e.settings)
	records := record.NewNormalizer(cols, e.settings).Normalize(t)

	snap, err := e.store.LoadFull(ctx)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("run_id", runID).
		Int("input_rows", t.NumRows()).
		Int("records", len(records)).
		Int("history_entries", len(snap.Order)).
		Msg("Starting reconciliation")

	// Row position per id, for the positional owner buffer.
	pos := make(map[string]int, len(snap.Order))
	for i, id := range snap.Order {
		pos[id] = i
	}
	owners := append([]string(nil), snap.Owners...)

	stamp := e.now().Format(time.RFC3339)

	essentials := make([]string, 0, len(cols.Essentials))
	for _, ess := range cols.Essentials {
		essentials = append(essentials, ess.Name)
	}
	headers := view.Headers(e.settings, essentials)
	board := view.New(headers)

	var queued []history.Entry
	stats := Stats{InputRows: t.NumRows(), Records: len(records)}

	for _, rec := range records {
		entry, ok := snap.Lookup(rec.ID)
		if !ok {
			// First sighting: the defaults object doubles as the
			// in-memory history object for the rest of this run.
			entry = history.NewEntry(rec.ID)
			entry[history.FieldOwner] = rec.Owner
			entry[history.FieldUpdatedAt] = stamp
			queued = append(queued, entry)
			snap.Entries[rec.ID] = entry
			stats.Inserted++
		} else {
			if e.settings.OverwriteOwner {
				owner := entry[history.FieldOwner]
				if rec.Owner != "" {
					owner = rec.Owner
				}
				if i, found := pos[rec.ID]; found {
					owners[i] = owner
					if owner != entry[history.FieldOwner] {
						stats.OwnerOverwrites++
					}
				}
				entry[history.FieldOwner] = owner
			}
			stats.Merged++
		}
		board.Append(composeRow(headers, rec, entry))
	}

	// All writes are staged until here.
	if len(queued) > 0 {
		if err := e.store.Insert(ctx, queued...); err != nil {
			return nil, err
		}
	}
	if e.settings.OverwriteOwner && len(owners) > 0 {
		// The buffer covers every history row, including ids absent from
		// this run's input; their value is the unchanged persisted owner.
		if err := e.store.WriteColumn(ctx, history.FieldOwner, owners); err != nil {
			return nil, err
		}
	}

	end := time.Now()
	result := &Result{
		RunID: runID,
		View:  board,
		Metadata: Metadata{
			StartTime: start,
			EndTime:   end,
			Duration:  end.Sub(start),
			Stats:     stats,
		},
	}

	log.Info().
		Str("run_id", runID).
		Int("inserted", stats.Inserted).
		Int("merged", stats.Merged).
		Int("owner_overwrites", stats.OwnerOverwrites).
		Dur("duration", result.Metadata.Duration).
		Msg("Reconciliation complete")

	return result, nil
}

// composeRow fills one output row in header order: the in-memory history
// object wins when it carries the column, then the record's canonical
// fields, then the extras bag, then empty.
func composeRow(headers []string, rec record.Record, entry history.Entry) []string {
	row := make([]string, 0, len(headers))
	for _, h := range headers {
		if v, ok := entry.Get(h); ok {
			row = append(row, v)
			continue
		}
		if v, ok := canonicalField(rec, h); ok {
			row = append(row, v)
			continue
		}
		if v, ok := rec.Extra(h); ok {
			row = append(row, v)
			continue
		}
		row = append(row, "")
	}
	return row
}

func canonicalField(rec record.Record, header string) (string, bool) {
	switch header {
	case view.ColPriority:
		return strconv.Itoa(rec.Priority), true
	case view.ColOwner:
		return rec.Owner, true
	case view.ColID:
		return rec.ID, true
	case view.ColSubject:
		return rec.Subject, true
	case view.ColCreatedAt:
		return rec.CreatedAt, true
	default:
		return "", false
	}
}
