// Package yamlfile provides a YAML-file-backed history store. The whole
// store lives in one file: a header list plus one mapping per row. Suited to
// small boards and to keeping history under version control.
package yamlfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/boardsync/pkg/errors"
	"github.com/agentstation/boardsync/pkg/history"
)

// document is the on-disk shape of the store.
type document struct {
	Headers []string            `yaml:"headers"`
	Rows    []map[string]string `yaml:"rows"`
}

// Store is a YAML-file-backed implementation of history.Store.
type Store struct {
	mu   sync.Mutex
	path string
	doc  document
}

// Open loads an existing store file. A missing or unreadable file aborts
// with ErrStoreUnavailable so runs fail before any mutation.
func Open(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewStoreError("yaml", "open", err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewStoreError("yaml", "parse", err)
	}
	if len(doc.Headers) == 0 {
		doc.Headers = history.BaseHeaders()
	}
	return &Store{path: path, doc: doc}, nil
}

// OpenOrCreate loads the store file, initializing a new one with the
// canonical header set when the file does not exist.
func OpenOrCreate(path string) (*Store, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		s := &Store{path: path, doc: document{Headers: history.BaseHeaders()}}
		if err := s.save(); err != nil {
			return nil, err
		}
		return s, nil
	}
	return Open(path)
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// LoadIndex implements history.Store.
func (s *Store) LoadIndex(_ context.Context) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := make(map[string]int, len(s.doc.Rows))
	for i, row := range s.doc.Rows {
		id := row[history.FieldID]
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
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := &history.Snapshot{
		Headers: append([]string(nil), s.doc.Headers...),
		Entries: make(map[string]history.Entry, len(s.doc.Rows)),
	}
	for _, row := range s.doc.Rows {
		id := row[history.FieldID]
		if id == "" {
			continue
		}
		if _, seen := snap.Entries[id]; seen {
			continue
		}
		entry := make(history.Entry, len(row))
		for k, v := range row {
			entry[k] = v
		}
		snap.Entries[id] = entry
		snap.Order = append(snap.Order, id)
		snap.Owners = append(snap.Owners, row[history.FieldOwner])
	}
	return snap, nil
}

// Insert implements history.Store.
func (s *Store) Insert(_ context.Context, entries ...history.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entries {
		row := make(map[string]string, len(e))
		for k, v := range e {
			row[k] = v
		}
		s.doc.Rows = append(s.doc.Rows, row)
	}
	return s.save()
}

// UpdateField implements history.Store. Unknown ids and fields outside the
// schema are silent no-ops.
func (s *Store) UpdateField(_ context.Context, id, field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasHeader(field) {
		return nil
	}
	for _, row := range s.doc.Rows {
		if row[history.FieldID] == id {
			row[field] = value
			return s.save()
		}
	}
	return nil
}

// WriteColumn implements history.Store.
func (s *Store) WriteColumn(_ context.Context, field string, values []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasHeader(field) {
		return errors.NewStoreError("yaml", "write column", errors.NewNotFoundError("header", field))
	}

	seen := make(map[string]bool, len(s.doc.Rows))
	pos := 0
	for _, row := range s.doc.Rows {
		id := row[history.FieldID]
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		if pos >= len(values) {
			break
		}
		row[field] = values[pos]
		pos++
	}
	return s.save()
}

// EnsureSchema implements history.Store.
func (s *Store) EnsureSchema(_ context.Context, required []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for _, h := range required {
		if !s.hasHeader(h) {
			s.doc.Headers = append(s.doc.Headers, h)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.save()
}

func (s *Store) hasHeader(name string) bool {
	for _, h := range s.doc.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// save writes the document atomically: marshal to a temp file in the same
// directory, then rename over the target.
func (s *Store) save() error {
	data, err := yaml.Marshal(s.doc)
	if err != nil {
		return errors.NewStoreError("yaml", "marshal", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".history-*.yaml")
	if err != nil {
		return errors.NewStoreError("yaml", "save", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.NewStoreError("yaml", "save", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.NewStoreError("yaml", "save", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return errors.NewStoreError("yaml", "save", fmt.Errorf("renaming %s: %w", tmpName, err))
	}
	return nil
}
