package table

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellAccess(t *testing.T) {
	tbl := New(
		[]string{"RECORD_ID", "OWNER"},
		[][]string{
			{" a1 ", "Alice"},
			{"b2"}, // ragged
		},
	)

	assert.Equal(t, "a1", tbl.Cell(0, 1))
	assert.Equal(t, " a1 ", tbl.RawCell(0, 1))
	assert.Equal(t, "Alice", tbl.Cell(0, 2))

	// ragged row: missing trailing cell is empty
	assert.Equal(t, "", tbl.Cell(1, 2))

	// out of range positions are empty, never panic
	assert.Equal(t, "", tbl.Cell(0, 0))
	assert.Equal(t, "", tbl.Cell(0, 99))
	assert.Equal(t, "", tbl.Cell(-1, 1))
	assert.Equal(t, "", tbl.Cell(5, 1))
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{in: "#FFFF00", want: Color{255, 255, 0}},
		{in: "ffff00", want: Color{255, 255, 0}},
		{in: " #00FF7F ", want: Color{0, 255, 127}},
		{in: "#FF0", want: Color{255, 255, 0}},
		{in: "", wantErr: true},
		{in: "#12345", wantErr: true},
		{in: "#GGGGGG", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestColorWithin(t *testing.T) {
	yellow := Color{255, 255, 0}

	assert.True(t, yellow.Within(yellow, 0))
	assert.True(t, Color{200, 200, 50}.Within(yellow, 110))
	assert.False(t, Color{0, 0, 255}.Within(yellow, 110))
	// single channel out of tolerance fails the match
	assert.False(t, Color{255, 255, 120}.Within(yellow, 110))
}

func TestReadCSV(t *testing.T) {
	in := "RECORD_ID,OWNER,SCORE\na1,Alice,3\nb2,Bob\n"

	tbl, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []string{"RECORD_ID", "OWNER", "SCORE"}, tbl.Headers)
	require.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, "3", tbl.Cell(0, 3))
	assert.Equal(t, "", tbl.Cell(1, 3))
}

func TestReadCSVEmpty(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, tbl.Headers)
	assert.Zero(t, tbl.NumRows())
}

func TestWriteCSVRoundTrip(t *testing.T) {
	tbl := New([]string{"A", "B"}, [][]string{{"1", "2"}, {"3", "4"}})

	var buf bytes.Buffer
	require.NoError(t, tbl.WriteCSV(&buf))

	got, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, tbl.Headers, got.Headers)
	assert.Equal(t, tbl.Rows, got.Rows)
}
