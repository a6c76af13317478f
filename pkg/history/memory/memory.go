// Package memory provides an in-memory history store. It backs library use
// and tests; nothing survives the process.
package memory

import (
	"context"
	"sync"

	"github.com/agentstation/boardsync/pkg/errors"
	"github.com/agentstation/boardsync/pkg/history"
)

// Store is an in-memory implementation of history.Store.
type Store struct {
	mu      sync.RWMutex
	headers []string
	rows    []history.Entry
}

// New creates an empty in-memory store with the canonical header set.
func New() *Store {
	return &Store{headers: history.BaseHeaders()}
}

// NewWithHeaders creates an in-memory store with a custom header set.
func NewWithHeaders(headers []string) *Store {
	return &Store{headers: append([]string(nil), headers...)}
}

// Seed appends entries without the Insert contract checks. Test helper.
func (s *Store) Seed(entries ...history.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		s.rows = append(s.rows, e.Clone())
	}
}

// Headers returns a copy of the current header order.
func (s *Store) Headers() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.headers...)
}

// Rows returns a copy of all rows in order. Test helper.
func (s *Store) Rows() []history.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]history.Entry, 0, len(s.rows))
	for _, e := range s.rows {
		out = append(out, e.Clone())
	}
	return out
}

// LoadIndex implements history.Store.
func (s *Store) LoadIndex(_ context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := make(map[string]int, len(s.rows))
	for i, e := range s.rows {
		id := e.ID()
		if id == "" {
			continue
		}
		if _, seen := idx[id]; !seen {
			idx[id] = i
		}
	}
	return idx, nil
}

// LoadFull implements history.Store.
func (s *Store) LoadFull(_ context.Context) (*history.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &history.Snapshot{
		Headers: append([]string(nil), s.headers...),
		Entries: make(map[string]history.Entry, len(s.rows)),
	}
	for _, e := range s.rows {
		id := e.ID()
		if id == "" {
			continue
		}
		if _, seen := snap.Entries[id]; seen {
			continue
		}
		snap.Entries[id] = e.Clone()
		snap.Order = append(snap.Order, id)
		snap.Owners = append(snap.Owners, e[history.FieldOwner])
	}
	return snap, nil
}

// Insert implements history.Store.
func (s *Store) Insert(_ context.Context, entries ...history.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entries {
		s.rows = append(s.rows, e.Clone())
	}
	return nil
}

// UpdateField implements history.Store. Unknown ids and fields outside the
// schema are silent no-ops.
func (s *Store) UpdateField(_ context.Context, id, field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasHeader(field) {
		return nil
	}
	for _, e := range s.rows {
		if e.ID() == id {
			e[field] = value
			return nil
		}
	}
	return nil
}

// WriteColumn implements history.Store.
func (s *Store) WriteColumn(_ context.Context, field string, values []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasHeader(field) {
		return errors.NewStoreError("memory", "write column", errors.NewNotFoundError("header", field))
	}

	// Positional over first occurrences per id, matching LoadFull order.
	seen := make(map[string]bool, len(s.rows))
	pos := 0
	for _, e := range s.rows {
		id := e.ID()
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		if pos >= len(values) {
			break
		}
		e[field] = values[pos]
		pos++
	}
	return nil
}

// EnsureSchema implements history.Store.
func (s *Store) EnsureSchema(_ context.Context, required []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, h := range required {
		if !s.hasHeader(h) {
			s.headers = append(s.headers, h)
		}
	}
	return nil
}

func (s *Store) hasHeader(name string) bool {
	for _, h := range s.headers {
		if h == name {
			return true
		}
	}
	return false
}
