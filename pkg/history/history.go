// Package history defines the persistent keyed history store: one entry per
// unique record id, spanning runs, with an open additive schema. The store
// is where team edits live; reconciliation must preserve every field it does
// not explicitly own.
package history

import (
	"context"
)

// Canonical minimum header set. A store may carry any number of additional
// headers; the schema only ever grows.
const (
	FieldID          = "RECORD_ID"
	FieldOwner       = "OWNER"
	FieldStatus      = "STATUS"
	FieldNextAction  = "NEXT_ACTION"
	FieldAttempts    = "ATTEMPTS"
	FieldContactedAt = "CONTACTED_AT"
	FieldNote        = "NOTE"
	FieldValue       = "VALUE"
	FieldPrevFlag    = "PREV_PERIOD_FLAG"
	FieldPrevTier    = "PREV_PERIOD_TIER"
	FieldUpdatedAt   = "UPDATED_AT"
)

// Flag values for the snapshot freeze field.
const (
	FlagYes = "YES"
	FlagNo  = "NO"
)

// BaseHeaders returns the canonical minimum header set in persisted order.
func BaseHeaders() []string {
	return []string{
		FieldID,
		FieldOwner,
		FieldStatus,
		FieldNextAction,
		FieldAttempts,
		FieldContactedAt,
		FieldNote,
		FieldValue,
		FieldPrevFlag,
		FieldPrevTier,
		FieldUpdatedAt,
	}
}

// TeamFields returns the team-editable headers, default empty on creation.
func TeamFields() []string {
	return []string{
		FieldStatus,
		FieldNextAction,
		FieldAttempts,
		FieldContactedAt,
		FieldNote,
		FieldValue,
	}
}

// Entry is one persisted history row as a field-name → value mapping.
// Field order is owned by the store's header list, not the entry.
type Entry map[string]string

// NewEntry builds the default entry for a first-seen id: team fields empty,
// snapshot flag "NO", tier 0. Owner and UPDATED_AT are the caller's to set.
func NewEntry(id string) Entry {
	e := Entry{
		FieldID:       id,
		FieldOwner:    "",
		FieldPrevFlag: FlagNo,
		FieldPrevTier: "0",
	}
	for _, f := range TeamFields() {
		e[f] = ""
	}
	return e
}

// ID returns the entry's primary key.
func (e Entry) ID() string {
	return e[FieldID]
}

// Get returns a field value and whether the field is present on the entry.
func (e Entry) Get(field string) (string, bool) {
	v, ok := e[field]
	return v, ok
}

// Clone returns a shallow copy of the entry.
func (e Entry) Clone() Entry {
	out := make(Entry, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Snapshot is one full read of the store, taken at the start of a run.
// All of a run's reads come from here; writes are batched afterwards.
type Snapshot struct {
	// Headers is the persisted header order.
	Headers []string

	// Order lists ids in row order, first occurrence per id.
	Order []string

	// Entries maps id → persisted fields, first occurrence per id wins.
	Entries map[string]Entry

	// Owners is the positional owner-column buffer, parallel to Order.
	// The engine mutates it in place and writes it back wholesale when
	// owner overwrite is enabled.
	Owners []string
}

// Lookup returns the entry for id, if present.
func (s *Snapshot) Lookup(id string) (Entry, bool) {
	e, ok := s.Entries[id]
	return e, ok
}

// HasHeader reports whether the snapshot schema contains the header.
func (s *Snapshot) HasHeader(name string) bool {
	for _, h := range s.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// Store is the persistence collaborator the reconciliation core consumes.
//
// Contract:
//   - LoadIndex and LoadFull read the whole store once; first occurrence of
//     a duplicated id wins.
//   - Insert appends; callers guarantee the ids are absent.
//   - UpdateField is a no-op when the field is not part of the schema.
//   - WriteColumn rewrites one column positionally over every row.
//   - EnsureSchema is additive only: it appends missing headers and never
//     reorders or removes existing ones.
type Store interface {
	// LoadIndex performs the lightweight pass: id → row position.
	LoadIndex(ctx context.Context) (map[string]int, error)

	// LoadFull materializes every persisted field per id plus the owner
	// column buffer.
	LoadFull(ctx context.Context) (*Snapshot, error)

	// Insert appends new entries in order.
	Insert(ctx context.Context, entries ...Entry) error

	// UpdateField sets one field on the entry with the given id.
	UpdateField(ctx context.Context, id, field, value string) error

	// WriteColumn rewrites an entire column; values are positional and
	// must cover every row.
	WriteColumn(ctx context.Context, field string, values []string) error

	// EnsureSchema appends any missing headers.
	EnsureSchema(ctx context.Context, required []string) error
}
