package view

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/boardsync/pkg/settings"
)

func TestHeadersFixedOrder(t *testing.T) {
	s := settings.Default()

	got := Headers(s, []string{"Region", "Segment"})

	want := []string{
		"PRIORITY", "OWNER", "RECORD_ID", "SUBJECT", "CREATED_AT",
		"STATUS", "NEXT_ACTION", "ATTEMPTS", "CONTACTED_AT", "NOTE", "VALUE",
		"PREV_PERIOD_FLAG", "PREV_PERIOD_TIER", "UPDATED_AT",
		"Region", "Segment",
	}
	assert.Equal(t, want, got)
}

func TestHeadersRespectConfiguredFields(t *testing.T) {
	s := settings.Default()
	s.EditableFields = []string{"STATUS", "NOTE"}
	s.PrevPeriodFlagField = "Q1_FLAG"
	s.PrevPeriodTierField = "Q1_TIER"

	got := Headers(s, nil)

	want := []string{
		"PRIORITY", "OWNER", "RECORD_ID", "SUBJECT", "CREATED_AT",
		"STATUS", "NOTE",
		"Q1_FLAG", "Q1_TIER", "UPDATED_AT",
	}
	assert.Equal(t, want, got)
}

func TestWriteCSVGolden(t *testing.T) {
	v := New(Headers(settings.Default(), []string{"Region"}))
	v.Append([]string{
		"3", "Alice", "a1", "Acme", "2024-05-01",
		"Done", "", "2", "", "called, left note", "1200",
		"NO", "0", "2024-06-01T12:00:00Z",
		"EMEA",
	})
	v.Append([]string{
		"0", "Bob", "b2", "Globex", "",
		"", "", "", "", "", "",
		"NO", "0", "2024-06-01T12:00:00Z",
		"APAC",
	})

	var buf bytes.Buffer
	require.NoError(t, v.WriteCSV(&buf))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "board_view", buf.Bytes())
}
