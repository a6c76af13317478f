package record

import (
	"math"
	"strconv"
	"strings"

	"github.com/agentstation/boardsync/pkg/logging"
	"github.com/agentstation/boardsync/pkg/mapping"
	"github.com/agentstation/boardsync/pkg/settings"
	"github.com/agentstation/boardsync/pkg/table"
)

// Normalizer turns mapped table rows into canonical Records.
type Normalizer struct {
	cols     mapping.Columns
	settings settings.Settings
}

// NewNormalizer creates a normalizer for one resolved table layout.
func NewNormalizer(cols mapping.Columns, s settings.Settings) *Normalizer {
	return &Normalizer{cols: cols, settings: s}
}

// Normalize converts every data row of t into a Record, preserving input
// order. Rows are dropped when the resolved id is empty, when the
// ignore-text filter matches, or when the id already appeared earlier in
// the batch (first occurrence wins).
func (n *Normalizer) Normalize(t *table.Table) []Record {
	log := logging.Default()

	records := make([]Record, 0, t.NumRows())
	seen := make(map[string]bool, t.NumRows())

	for r := 0; r < t.NumRows(); r++ {
		rec := n.Row(t, r)
		if rec.ID == "" {
			continue
		}
		if n.ignored(t, r, rec) {
			log.Debug().Str("id", rec.ID).Msg("Row dropped by ignore-text filter")
			continue
		}
		if seen[rec.ID] {
			log.Warn().Str("id", rec.ID).Int("row", r).Msg("Duplicate id in input batch, keeping first occurrence")
			continue
		}
		seen[rec.ID] = true
		records = append(records, rec)
	}
	return records
}

// Row normalizes a single data row without batch-level filtering.
func (n *Normalizer) Row(t *table.Table, r int) Record {
	rec := Record{
		ID:        t.Cell(r, n.cols.ID),
		Owner:     t.Cell(r, n.cols.Owner),
		Subject:   t.Cell(r, n.cols.Subject),
		CreatedAt: t.Cell(r, n.cols.CreatedAt),
		Priority:  ParsePriority(t.Cell(r, n.cols.Priority)),
	}

	if len(n.cols.Essentials) > 0 {
		rec.Extras = make([]Extra, 0, len(n.cols.Essentials))
		for _, e := range n.cols.Essentials {
			rec.Extras = append(rec.Extras, Extra{Name: e.Name, Value: t.RawCell(r, e.Col)})
		}
	}
	return rec
}

// ignored applies the process-wide ignore-text substring filter over the
// concatenated canonical fields, case-insensitively. The raw priority cell
// participates, not the clamped value.
func (n *Normalizer) ignored(t *table.Table, r int, rec Record) bool {
	needle := strings.TrimSpace(n.settings.IgnoreText)
	if needle == "" {
		return false
	}
	haystack := strings.Join([]string{
		rec.ID,
		rec.Owner,
		rec.Subject,
		rec.CreatedAt,
		t.Cell(r, n.cols.Priority),
	}, " ")
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// ParsePriority parses a raw priority cell into the clamped [0,4] range.
// Non-numeric input defaults to 0; fractional values truncate toward zero.
func ParsePriority(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return MinPriority
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return ClampPriority(n)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return ClampPriority(int(f)) // truncates toward zero
	}
	return MinPriority
}
