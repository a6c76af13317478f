package editsync

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
	"github.com/agentstation/boardsync/pkg/view"
)

var testClock = func() utc.Time {
	return utc.Time{Time: time.Date(2024, 8, 1, 9, 30, 0, 0, time.UTC)}
}

// boardView builds a minimal view: PRIORITY, OWNER, RECORD_ID, STATUS, NOTE.
func boardView(rows ...[]string) *view.View {
	v := view.New([]string{"PRIORITY", "OWNER", "RECORD_ID", "STATUS", "NOTE"})
	for _, r := range rows {
		v.Append(r)
	}
	return v
}

func seededStore(ids ...string) *memory.Store {
	s := memory.New()
	for _, id := range ids {
		s.Seed(history.NewEntry(id))
	}
	return s
}

func TestApplyEditableField(t *testing.T) {
	store := seededStore("a1")
	v := boardView([]string{"2", "Alice", "a1", "", ""})

	sy := New(store, settings.Default(), WithClock(testClock))
	err := sy.Apply(context.Background(), v, Event{Row: 0, Col: 4, Values: []string{"Done"}})
	require.NoError(t, err)

	e := store.Rows()[0]
	assert.Equal(t, "Done", e[history.FieldStatus])
	assert.Equal(t, "2024-08-01T09:30:00Z", e[history.FieldUpdatedAt])
}

func TestApplySpanSkipsNonEditable(t *testing.T) {
	store := seededStore("a1")
	v := boardView([]string{"2", "Alice", "a1", "", ""})

	sy := New(store, settings.Default(), WithClock(testClock))
	// span covers OWNER (non-editable), RECORD_ID (non-editable), STATUS, NOTE
	err := sy.Apply(context.Background(), v, Event{
		Row: 0, Col: 2,
		Values: []string{"Mallory", "hacked", "Waiting", "left voicemail"},
	})
	require.NoError(t, err)

	e := store.Rows()[0]
	assert.Equal(t, "", e[history.FieldOwner], "owner not editable through the board")
	assert.Equal(t, "a1", e.ID())
	assert.Equal(t, "Waiting", e[history.FieldStatus])
	assert.Equal(t, "left voicemail", e[history.FieldNote])
}

func TestApplyUnknownIDIsNoop(t *testing.T) {
	store := seededStore("a1")
	v := boardView([]string{"2", "Alice", "ghost", "", ""})

	sy := New(store, settings.Default(), WithClock(testClock))
	err := sy.Apply(context.Background(), v, Event{Row: 0, Col: 4, Values: []string{"Done"}})
	require.NoError(t, err)

	assert.Equal(t, "", store.Rows()[0][history.FieldStatus])
}

func TestApplyMalformedRangeIsNoop(t *testing.T) {
	store := seededStore("a1")
	v := boardView([]string{"2", "Alice", "a1", "", ""})
	sy := New(store, settings.Default(), WithClock(testClock))
	ctx := context.Background()

	assert.NoError(t, sy.Apply(ctx, v, Event{Row: 5, Col: 4, Values: []string{"x"}}))
	assert.NoError(t, sy.Apply(ctx, v, Event{Row: -1, Col: 4, Values: []string{"x"}}))
	assert.NoError(t, sy.Apply(ctx, v, Event{Row: 0, Col: 0, Values: []string{"x"}}))
	assert.NoError(t, sy.Apply(ctx, nil, Event{Row: 0, Col: 4, Values: []string{"x"}}))

	assert.Equal(t, "", store.Rows()[0][history.FieldStatus])
	assert.Equal(t, "", store.Rows()[0][history.FieldUpdatedAt])
}

func TestApplyOtherSheetIgnored(t *testing.T) {
	store := seededStore("a1")
	v := boardView([]string{"2", "Alice", "a1", "", ""})

	sy := New(store, settings.Default(), WithClock(testClock))
	err := sy.Apply(context.Background(), v, Event{Sheet: "Dashboard", Row: 0, Col: 4, Values: []string{"Done"}})
	require.NoError(t, err)

	assert.Equal(t, "", store.Rows()[0][history.FieldStatus])
}

func TestApplySpanPastLastColumnTruncates(t *testing.T) {
	store := seededStore("a1")
	v := boardView([]string{"2", "Alice", "a1", "", ""})

	sy := New(store, settings.Default(), WithClock(testClock))
	err := sy.Apply(context.Background(), v, Event{Row: 0, Col: 5, Values: []string{"note", "overflow"}})
	require.NoError(t, err)

	assert.Equal(t, "note", store.Rows()[0][history.FieldNote])
}
