// Package boardsync synchronizes a raw tabular dataset with a persistent
// keyed history store and composes a stable working-board view for a team.
// It maps arbitrary input columns onto a canonical record schema, merges
// each record against history (insert-if-absent, preserve team edits), and
// can freeze point-in-time flag/tier metrics into history.
package boardsync

import (
	"context"

	"github.com/agentstation/boardsync/pkg/editsync"
	"github.com/agentstation/boardsync/pkg/errors"
	"github.com/agentstation/boardsync/pkg/history"
	"github.com/agentstation/boardsync/pkg/reconcile"
	"github.com/agentstation/boardsync/pkg/settings"
	"github.com/agentstation/boardsync/pkg/snapshot"
	"github.com/agentstation/boardsync/pkg/table"
	"github.com/agentstation/boardsync/pkg/view"
)

// Boardsync ties the reconciliation engine, snapshot freezer and edit-sync
// path together over one history store.
type Boardsync interface {
	// Sync reconciles an input table against history and returns the
	// composed board view.
	Sync(ctx context.Context, t *table.Table) (*reconcile.Result, error)

	// Freeze stamps the configured flag/tier pair onto matched entries.
	Freeze(ctx context.Context, t *table.Table) (*snapshot.Result, error)

	// ApplyEdit pushes one board edit back into history.
	ApplyEdit(ctx context.Context, v *view.View, ev editsync.Event) error

	// Settings returns the run configuration in use.
	Settings() settings.Settings

	// Store returns the underlying history store.
	Store() history.Store
}

// boardsync is the internal implementation of the Boardsync interface.
type boardsync struct {
	config *config

	engine  *reconcile.Engine
	freezer *snapshot.Freezer
	syncer  *editsync.Syncer
}

// New creates a Boardsync instance with the given options. A history store
// is required.
func New(opts ...Option) (Boardsync, error) {
	c := defaultConfig()
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.store == nil {
		return nil, errors.NewValidationError("store", nil, "a history store is required")
	}

	engineOpts := []reconcile.Option{}
	freezerOpts := []snapshot.Option{}
	syncerOpts := []editsync.Option{}
	if c.clock != nil {
		engineOpts = append(engineOpts, reconcile.WithClock(c.clock))
		freezerOpts = append(freezerOpts, snapshot.WithClock(c.clock))
		syncerOpts = append(syncerOpts, editsync.WithClock(c.clock))
	}

	return &boardsync{
		config:  c,
		engine:  reconcile.New(c.store, c.settings, engineOpts...),
		freezer: snapshot.New(c.store, c.settings, freezerOpts...),
		syncer:  editsync.New(c.store, c.settings, syncerOpts...),
	}, nil
}

// Sync reconciles an input table against history.
func (b *boardsync) Sync(ctx context.Context, t *table.Table) (*reconcile.Result, error) {
	return b.engine.Run(ctx, t)
}

// Freeze stamps the snapshot flag/tier pair into history.
func (b *boardsync) Freeze(ctx context.Context, t *table.Table) (*snapshot.Result, error) {
	return b.freezer.Run(ctx, t)
}

// ApplyEdit pushes one board edit back into history.
func (b *boardsync) ApplyEdit(ctx context.Context, v *view.View, ev editsync.Event) error {
	return b.syncer.Apply(ctx, v, ev)
}

// Settings returns the run configuration in use.
func (b *boardsync) Settings() settings.Settings {
	return b.config.settings
}

// Store returns the underlying history store.
func (b *boardsync) Store() history.Store {
	return b.config.store
}
