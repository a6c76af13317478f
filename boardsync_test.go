package boardsync

import (
	"context"
	"testing"
	"time"

	"github.com/agentstation/utc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/boardsync/pkg/editsync"
	"github.com/agentstation/boardsync/pkg/history"
	"github.com/agentstation/boardsync/pkg/history/memory"
	"github.com/agentstation/boardsync/pkg/settings"
	"github.com/agentstation/boardsync/pkg/table"
)

var testClock = func() utc.Time {
	return utc.Time{Time: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func TestNewRequiresStore(t *testing.T) {
	_, err := New()
	require.Error(t, err)
}

func TestFullWorkflow(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	bs, err := New(
		WithStore(store),
		WithSettingsMap(map[string]string{
			settings.KeyEssentialColumns: "Region",
		}),
		WithClock(testClock),
	)
	require.NoError(t, err)

	input := table.New(
		[]string{"RECORD_ID", "OWNER", "SUBJECT", "PRIORITY", "Region"},
		[][]string{
			{"a1", "Alice", "Acme", "7", "EMEA"},
			{"b2", "Bob", "Globex", "2", "APAC"},
		},
	)

	// First sync inserts both records.
	res, err := bs.Sync(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Metadata.Stats.Inserted)
	assert.Equal(t, 2, res.View.NumRows())

	// Team edits STATUS on the board.
	statusCol := 0
	for i, h := range res.View.Headers {
		if h == history.FieldStatus {
			statusCol = i + 1
		}
	}
	require.NotZero(t, statusCol)
	err = bs.ApplyEdit(ctx, res.View, editsync.Event{Row: 0, Col: statusCol, Values: []string{"Done"}})
	require.NoError(t, err)

	// Second sync preserves the edit and inserts nothing.
	res2, err := bs.Sync(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, 0, res2.Metadata.Stats.Inserted)

	row := res2.View.Rows[0]
	assert.Equal(t, "Done", row[statusCol-1])

	// Freeze stamps flag and clamped tier.
	fres, err := bs.Freeze(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, 2, fres.Matched)

	snap, err := store.LoadFull(ctx)
	require.NoError(t, err)
	assert.Equal(t, history.FlagYes, snap.Entries["a1"][history.FieldPrevFlag])
	assert.Equal(t, "4", snap.Entries["a1"][history.FieldPrevTier], "tier clamped from 7")
	assert.Equal(t, "2", snap.Entries["b2"][history.FieldPrevTier])
}
