package boardsync

import (
	"github.com/agentstation/utc"

	"github.com/agentstation/boardsync/pkg/history"
	"github.com/agentstation/boardsync/pkg/settings"
)

// Option is a function that configures a Boardsync instance.
type Option func(*config) error

// config holds the assembled configuration.
type config struct {
	store    history.Store
	settings settings.Settings
	clock    func() utc.Time
}

func defaultConfig() *config {
	return &config{settings: settings.Default()}
}

// WithStore configures the history store to reconcile against. Required.
func WithStore(store history.Store) Option {
	return func(c *config) error {
		c.store = store
		return nil
	}
}

// WithSettings configures the run settings.
func WithSettings(s settings.Settings) Option {
	return func(c *config) error {
		c.settings = s
		return nil
	}
}

// WithSettingsMap parses a flat key→string configuration, as read from a
// settings sheet or config file.
func WithSettingsMap(kv map[string]string) Option {
	return func(c *config) error {
		c.settings = settings.FromMap(kv)
		return nil
	}
}

// WithClock overrides the timestamp source used for UPDATED_AT stamps.
func WithClock(now func() utc.Time) Option {
	return func(c *config) error {
		c.clock = now
		return nil
	}
}
