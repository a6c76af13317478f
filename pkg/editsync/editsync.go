// Package editsync pushes single-field team edits from the board back into
// the history store. It is the only write path that can interleave with a
// reconciliation run, and it is deliberately forgiving: events referencing
// unknown ids, non-editable fields or malformed ranges are dropped without
// error because the path runs unattended.
package editsync

import (
	"context"
	"time"

	"github.com/agentstation/utc"

	"github.com/agentstation/boardsync/pkg/history"
	"github.com/agentstation/boardsync/pkg/logging"
	"github.com/agentstation/boardsync/pkg/settings"
	"github.com/agentstation/boardsync/pkg/view"
)

// BoardSheet is the sheet identity edits must come from.
const BoardSheet = "Board"

// Event is one changed cell range on the board.
type Event struct {
	// Sheet identifies where the edit happened; events from other sheets
	// are ignored. Empty means the caller already scoped it to the board.
	Sheet string

	// Row is the 0-based data row index in the view (header excluded).
	Row int

	// Col is the 1-based column of the first changed cell.
	Col int

	// Values are the new cell values across the changed span.
	Values []string
}

// Syncer applies board edits to the history store.
type Syncer struct {
	store    history.Store
	settings settings.Settings
	now      func() utc.Time
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithClock overrides the UPDATED_AT timestamp source.
func WithClock(now func() utc.Time) Option {
	return func(s *Syncer) {
		s.now = now
	}
}

// New creates an edit syncer over a history store.
func New(store history.Store, s settings.Settings, opts ...Option) *Syncer {
	sy := &Syncer{
		store:    store,
		settings: s,
		now:      utc.Now,
	}
	for _, opt := range opts {
		opt(sy)
	}
	return sy
}

// Apply pushes one edit event against the current board view. Cells whose
// column is not in the editable set are skipped; a valid edit updates the
// field and stamps UPDATED_AT. Validation failures are silent no-ops.
func (s *Syncer) Apply(ctx context.Context, v *view.View, ev Event) error {
	log := logging.FromContext(ctx)

	if ev.Sheet != "" && ev.Sheet != BoardSheet {
		return nil
	}
	if v == nil || ev.Row < 0 || ev.Row >= v.NumRows() || ev.Col < 1 {
		return nil
	}

	id := rowID(v, ev.Row)
	if id == "" {
		return nil
	}

	stamp := s.now().Format(time.RFC3339)
	touched := false

	for i, value := range ev.Values {
		col := ev.Col + i
		if col > len(v.Headers) {
			break
		}
		field := v.Headers[col-1]
		if !s.settings.IsEditable(field) {
			log.Debug().Str("id", id).Str("field", field).Msg("Edit on non-editable field ignored")
			continue
		}
		if err := s.store.UpdateField(ctx, id, field, value); err != nil {
			return err
		}
		touched = true
	}

	if touched {
		if err := s.store.UpdateField(ctx, id, history.FieldUpdatedAt, stamp); err != nil {
			return err
		}
		log.Debug().Str("id", id).Msg("Edit synced to history")
	}
	return nil
}

// rowID resolves the record id of a view row.
func rowID(v *view.View, row int) string {
	for i, h := range v.Headers {
		if h == view.ColID {
			if i < len(v.Rows[row]) {
				return v.Rows[row][i]
			}
			return ""
		}
	}
	return ""
}
