// Package view models the working-board output: a full header row plus data
// rows in a fixed column order. The core guarantees content and ordering
// only; styling, validation dropdowns and protection belong to the
// presentation collaborator.
package view

import (
	"io"

	"github.com/agentstation/boardsync/pkg/history"
	"github.com/agentstation/boardsync/pkg/settings"
	"github.com/agentstation/boardsync/pkg/table"
)

// Fixed leading output columns.
const (
	ColPriority  = "PRIORITY"
	ColOwner     = history.FieldOwner
	ColID        = history.FieldID
	ColSubject   = "SUBJECT"
	ColCreatedAt = "CREATED_AT"
	ColUpdatedAt = history.FieldUpdatedAt
)

// View is one composed board: ordered headers and rows. Each run replaces
// the whole view; there is no incremental update.
type View struct {
	Headers []string
	Rows    [][]string
}

// Headers builds the output header row: priority, owner, id, subject,
// created-at, the team-editable fields, the snapshot flag/tier pair,
// updated-at, then the essential passthrough columns in resolved order.
func Headers(s settings.Settings, essentials []string) []string {
	headers := []string{ColPriority, ColOwner, ColID, ColSubject, ColCreatedAt}
	headers = append(headers, s.EditableFields...)
	headers = append(headers, s.PrevPeriodFlagField, s.PrevPeriodTierField, ColUpdatedAt)
	headers = append(headers, essentials...)
	return headers
}

// New creates a view with the given header order.
func New(headers []string) *View {
	return &View{Headers: headers}
}

// Append adds one composed row.
func (v *View) Append(row []string) {
	v.Rows = append(v.Rows, row)
}

// NumRows returns the number of data rows.
func (v *View) NumRows() int {
	return len(v.Rows)
}

// WriteCSV renders the view as CSV, header row first.
func (v *View) WriteCSV(w io.Writer) error {
	t := table.New(v.Headers, v.Rows)
	return t.WriteCSV(w)
}
