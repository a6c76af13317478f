// Package sqlite provides a SQLite-backed history store using the pure-Go
// modernc.org/sqlite driver. One table holds the whole store; the additive
// schema maps onto ALTER TABLE ADD COLUMN, and row order follows rowid.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // database/sql driver

	"github.com/agentstation/boardsync/pkg/errors"
	"github.com/agentstation/boardsync/pkg/history"
)

const tableName = "history"

// Store is a SQLite-backed implementation of history.Store.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the store database at path and ensures the
// canonical header set exists.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.NewStoreError("sqlite", "open", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.NewStoreError("sqlite", "open", err)
	}

	s := &Store{db: db}
	if err := s.createTable(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTable(ctx context.Context) error {
	defs := make([]string, 0, len(history.BaseHeaders()))
	for _, h := range history.BaseHeaders() {
		defs = append(defs, fmt.Sprintf("%q TEXT NOT NULL DEFAULT ''", h))
	}
	q := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %q (%s)", tableName, strings.Join(defs, ","))
	if _, err := s.db.ExecContext(ctx, q); err != nil {
		return errors.NewStoreError("sqlite", "schema", err)
	}
	return nil
}

// headers returns the table's column order via PRAGMA table_info.
func (s *Store) headers(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%q)", tableName))
	if err != nil {
		return nil, errors.NewStoreError("sqlite", "schema", err)
	}
	defer rows.Close()

	var headers []string
	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			return nil, errors.NewStoreError("sqlite", "schema", err)
		}
		headers = append(headers, name)
	}
	return headers, rows.Err()
}

// LoadIndex implements history.Store.
func (s *Store) LoadIndex(ctx context.Context) (map[string]int, error) {
	q := fmt.Sprintf("SELECT %q FROM %q ORDER BY rowid", history.FieldID, tableName)
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, errors.NewStoreError("sqlite", "load index", err)
	}
	defer rows.Close()

	idx := make(map[string]int)
	pos := 0
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.NewStoreError("sqlite", "load index", err)
		}
		if id != "" {
			if _, seen := idx[id]; !seen {
				idx[id] = pos
			}
		}
		pos++
	}
	return idx, rows.Err()
}

// LoadFull implements history.Store.
func (s *Store) LoadFull(ctx context.Context) (*history.Snapshot, error) {
	headers, err := s.headers(ctx)
	if err != nil {
		return nil, err
	}

	cols := make([]string, 0, len(headers))
	for _, h := range headers {
		cols = append(cols, fmt.Sprintf("%q", h))
	}
	q := fmt.Sprintf("SELECT %s FROM %q ORDER BY rowid", strings.Join(cols, ","), tableName)
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, errors.NewStoreError("sqlite", "load", err)
	}
	defer rows.Close()

	snap := &history.Snapshot{
		Headers: headers,
		Entries: make(map[string]history.Entry),
	}

	vals := make([]sql.NullString, len(headers))
	ptrs := make([]any, len(headers))
	for i := range vals {
		ptrs[i] = &vals[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.NewStoreError("sqlite", "load", err)
		}
		entry := make(history.Entry, len(headers))
		for i, h := range headers {
			entry[h] = vals[i].String
		}
		id := entry.ID()
		if id == "" {
			continue
		}
		if _, seen := snap.Entries[id]; seen {
			continue
		}
		snap.Entries[id] = entry
		snap.Order = append(snap.Order, id)
		snap.Owners = append(snap.Owners, entry[history.FieldOwner])
	}
	return snap, rows.Err()
}

// Insert implements history.Store. All entries go in one transaction.
func (s *Store) Insert(ctx context.Context, entries ...history.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	headers, err := s.headers(ctx)
	if err != nil {
		return err
	}

	cols := make([]string, 0, len(headers))
	marks := make([]string, 0, len(headers))
	for _, h := range headers {
		cols = append(cols, fmt.Sprintf("%q", h))
		marks = append(marks, "?")
	}
	q := fmt.Sprintf("INSERT INTO %q (%s) VALUES (%s)",
		tableName, strings.Join(cols, ","), strings.Join(marks, ","))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewStoreError("sqlite", "insert", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		return errors.NewStoreError("sqlite", "insert", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		args := make([]any, 0, len(headers))
		for _, h := range headers {
			args = append(args, e[h])
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return errors.NewStoreError("sqlite", "insert", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.NewStoreError("sqlite", "insert", err)
	}
	return nil
}

// UpdateField implements history.Store. Unknown ids and fields outside the
// schema are silent no-ops. With duplicated ids the first row wins.
func (s *Store) UpdateField(ctx context.Context, id, field, value string) error {
	headers, err := s.headers(ctx)
	if err != nil {
		return err
	}
	if !contains(headers, field) {
		return nil
	}

	q := fmt.Sprintf(
		"UPDATE %q SET %q = ? WHERE rowid = (SELECT MIN(rowid) FROM %q WHERE %q = ?)",
		tableName, field, tableName, history.FieldID)
	if _, err := s.db.ExecContext(ctx, q, value, id); err != nil {
		return errors.NewStoreError("sqlite", "update", err)
	}
	return nil
}

// WriteColumn implements history.Store.
func (s *Store) WriteColumn(ctx context.Context, field string, values []string) error {
	headers, err := s.headers(ctx)
	if err != nil {
		return err
	}
	if !contains(headers, field) {
		return errors.NewStoreError("sqlite", "write column", errors.NewNotFoundError("header", field))
	}

	// Collect the first-occurrence rowid per id in row order, matching the
	// positional buffer from LoadFull.
	q := fmt.Sprintf("SELECT rowid, %q FROM %q ORDER BY rowid", history.FieldID, tableName)
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return errors.NewStoreError("sqlite", "write column", err)
	}

	var rowids []int64
	seen := make(map[string]bool)
	for rows.Next() {
		var (
			rowid int64
			id    string
		)
		if err := rows.Scan(&rowid, &id); err != nil {
			rows.Close()
			return errors.NewStoreError("sqlite", "write column", err)
		}
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		rowids = append(rowids, rowid)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return errors.NewStoreError("sqlite", "write column", err)
	}
	rows.Close()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewStoreError("sqlite", "write column", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("UPDATE %q SET %q = ? WHERE rowid = ?", tableName, field))
	if err != nil {
		return errors.NewStoreError("sqlite", "write column", err)
	}
	defer stmt.Close()

	for i, rowid := range rowids {
		if i >= len(values) {
			break
		}
		if _, err := stmt.ExecContext(ctx, values[i], rowid); err != nil {
			return errors.NewStoreError("sqlite", "write column", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.NewStoreError("sqlite", "write column", err)
	}
	return nil
}

// EnsureSchema implements history.Store via ALTER TABLE ADD COLUMN.
func (s *Store) EnsureSchema(ctx context.Context, required []string) error {
	headers, err := s.headers(ctx)
	if err != nil {
		return err
	}

	for _, h := range required {
		if contains(headers, h) {
			continue
		}
		q := fmt.Sprintf("ALTER TABLE %q ADD COLUMN %q TEXT NOT NULL DEFAULT ''", tableName, h)
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return errors.NewStoreError("sqlite", "schema", err)
		}
		headers = append(headers, h)
	}
	return nil
}

func contains(headers []string, name string) bool {
	for _, h := range headers {
		if h == name {
			return true
		}
	}
	return false
}
