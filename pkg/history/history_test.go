package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntryDefaults(t *testing.T) {
	e := NewEntry("a1")

	assert.Equal(t, "a1", e.ID())
	assert.Equal(t, FlagNo, e[FieldPrevFlag])
	assert.Equal(t, "0", e[FieldPrevTier])
	for _, f := range TeamFields() {
		v, ok := e.Get(f)
		require.True(t, ok, f)
		assert.Empty(t, v, f)
	}

	// owner and updated-at are the caller's to set
	assert.Equal(t, "", e[FieldOwner])
	_, ok := e.Get(FieldUpdatedAt)
	assert.False(t, ok)
}

func TestEntryClone(t *testing.T) {
	e := NewEntry("a1")
	c := e.Clone()
	c[FieldStatus] = "Done"

	assert.Equal(t, "", e[FieldStatus])
	assert.Equal(t, "Done", c[FieldStatus])
}

func TestBaseHeadersOrder(t *testing.T) {
	h := BaseHeaders()
	require.NotEmpty(t, h)
	assert.Equal(t, FieldID, h[0])
	assert.Equal(t, FieldUpdatedAt, h[len(h)-1])
}

func TestSnapshotHelpers(t *testing.T) {
	snap := &Snapshot{
		Headers: BaseHeaders(),
		Order:   []string{"a1"},
		Entries: map[string]Entry{"a1": NewEntry("a1")},
		Owners:  []string{""},
	}

	_, ok := snap.Lookup("a1")
	assert.True(t, ok)
	_, ok = snap.Lookup("zz")
	assert.False(t, ok)

	assert.True(t, snap.HasHeader(FieldOwner))
	assert.False(t, snap.HasHeader("NOPE"))
}
