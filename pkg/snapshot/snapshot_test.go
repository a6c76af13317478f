package snapshot

import (
	"context"
	"testing"
	"time"

	"github.com/agentstation/utc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/boardsync/pkg/history"
	"github.com/agentstation/boardsync/pkg/history/memory"
	"github.com/agentstation/boardsync/pkg/settings"
	"github.com/agentstation/boardsync/pkg/table"
)

var testClock = func() utc.Time {
	return utc.Time{Time: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)}
}

func inputTable(rows ...[]string) *table.Table {
	return table.New([]string{"RECORD_ID", "PRIORITY"}, rows)
}

func seeded(ids ...string) *memory.Store {
	s := memory.New()
	for _, id := range ids {
		s.Seed(history.NewEntry(id))
	}
	return s
}

func TestFreezeStampsMatchedEntries(t *testing.T) {
	store := seeded("a1")
	tbl := inputTable([]string{"a1", "3"})

	res, err := New(store, settings.Default(), WithClock(testClock)).Run(context.Background(), tbl)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Matched)
	assert.Equal(t, 0, res.Skipped)

	e := store.Rows()[0]
	assert.Equal(t, history.FlagYes, e[history.FieldPrevFlag])
	assert.Equal(t, "3", e[history.FieldPrevTier])
	assert.Equal(t, "2024-07-01T00:00:00Z", e[history.FieldUpdatedAt])
}

func TestFreezeClampsTier(t *testing.T) {
	store := seeded("a1")
	tbl := inputTable([]string{"a1", "11"})

	_, err := New(store, settings.Default(), WithClock(testClock)).Run(context.Background(), tbl)
	require.NoError(t, err)

	assert.Equal(t, "4", store.Rows()[0][history.FieldPrevTier])
}

func TestFreezeSkipsUnknownIDs(t *testing.T) {
	store := seeded("a1")
	tbl := inputTable(
		[]string{"a1", "2"},
		[]string{"nope", "3"},
	)

	res, err := New(store, settings.Default(), WithClock(testClock)).Run(context.Background(), tbl)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Matched)
	assert.Equal(t, 1, res.Skipped)
	assert.Len(t, store.Rows(), 1, "freezer never creates entries")
}

func TestFreezeNeverFlipsFlagBack(t *testing.T) {
	store := memory.New()
	frozen := history.NewEntry("old")
	frozen[history.FieldPrevFlag] = history.FlagYes
	frozen[history.FieldPrevTier] = "2"
	store.Seed(frozen)

	// "old" is absent from this snapshot's input.
	tbl := inputTable()

	_, err := New(store, settings.Default(), WithClock(testClock)).Run(context.Background(), tbl)
	require.NoError(t, err)

	e := store.Rows()[0]
	assert.Equal(t, history.FlagYes, e[history.FieldPrevFlag])
	assert.Equal(t, "2", e[history.FieldPrevTier])
}

func TestFreezeCustomFieldNamesExtendSchema(t *testing.T) {
	store := seeded("a1")
	tbl := inputTable([]string{"a1", "1"})

	s := settings.Default()
	s.PrevPeriodFlagField = "Q1_FLAG"
	s.PrevPeriodTierField = "Q1_TIER"

	_, err := New(store, s, WithClock(testClock)).Run(context.Background(), tbl)
	require.NoError(t, err)

	assert.Contains(t, store.Headers(), "Q1_FLAG")
	assert.Contains(t, store.Headers(), "Q1_TIER")

	e := store.Rows()[0]
	assert.Equal(t, history.FlagYes, e["Q1_FLAG"])
	assert.Equal(t, "1", e["Q1_TIER"])
	assert.Equal(t, history.FlagNo, e[history.FieldPrevFlag], "canonical flag column untouched")
}

func TestFreezeOtherFieldsUntouched(t *testing.T) {
	store := memory.New()
	e := history.NewEntry("a1")
	e[history.FieldStatus] = "Done"
	e[history.FieldOwner] = "Bob"
	store.Seed(e)

	tbl := inputTable([]string{"a1", "2"})

	_, err := New(store, settings.Default(), WithClock(testClock)).Run(context.Background(), tbl)
	require.NoError(t, err)

	got := store.Rows()[0]
	assert.Equal(t, "Done", got[history.FieldStatus])
	assert.Equal(t, "Bob", got[history.FieldOwner])
}
