// Package mapping resolves the canonical record fields to positional columns
// of an arbitrary input table. Each field tries its configured header name
// first, then a built-in synonym list; a field that resolves nowhere is
// simply absent and normalization fills its default.
package mapping

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/agentstation/boardsync/pkg/settings"
	"github.com/agentstation/boardsync/pkg/table"
)

// Built-in synonym lists, tried in order after the configured header name.
var (
	idSynonyms        = []string{"RECORD_ID", "ID", "LEAD_ID", "KEY"}
	ownerSynonyms     = []string{"OWNER", "REP", "ASSIGNED_TO", "ASSIGNEE"}
	subjectSynonyms   = []string{"SUBJECT", "NAME", "TITLE", "COMPANY"}
	createdAtSynonyms = []string{"CREATED_AT", "CREATED", "DATE", "CREATED_ON"}
	prioritySynonyms  = []string{"PRIORITY", "PRIORITY_SCORE", "SCORE", "TIER"}
)

// Absent marks a canonical field with no matching input column.
const Absent = 0

// Columns holds the resolved 1-based column positions for one input table.
// A zero position means the field is absent.
type Columns struct {
	ID        int
	Owner     int
	Subject   int
	CreatedAt int
	Priority  int

	// Essentials are the passthrough columns, in resolved order. An
	// essential may reference a header missing from the table; its
	// position is then Absent and its value normalizes to empty.
	Essentials []Essential
}

// Essential is one passthrough column carried into the output view.
type Essential struct {
	Name string
	Col  int
}

// Resolve maps the canonical fields and essential columns of one table.
func Resolve(t *table.Table, s settings.Settings) Columns {
	idx := headerIndex(t.Headers)

	cols := Columns{
		ID:        resolveField(idx, s.MapID, idSynonyms),
		Owner:     resolveField(idx, s.MapOwner, ownerSynonyms),
		Subject:   resolveField(idx, s.MapSubject, subjectSynonyms),
		CreatedAt: resolveField(idx, s.MapCreatedAt, createdAtSynonyms),
		Priority:  resolveField(idx, s.MapPriority, prioritySynonyms),
	}
	cols.Essentials = resolveEssentials(t, s, idx, cols)
	return cols
}

// headerIndex builds a header-name → 1-based position index. Matching is by
// exact trimmed equality; the first occurrence of a duplicated header wins.
func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		name := strings.TrimSpace(h)
		if _, seen := idx[name]; !seen {
			idx[name] = i + 1
		}
	}
	return idx
}

func resolveField(idx map[string]int, configured string, synonyms []string) int {
	if configured != "" {
		if pos, ok := idx[configured]; ok {
			return pos
		}
	}
	for _, syn := range synonyms {
		if pos, ok := idx[syn]; ok {
			return pos
		}
	}
	return Absent
}

// resolveEssentials merges the explicit essential-column list with headers
// matched by background color, deduplicates case-insensitively, and drops
// names that already resolve to a canonical column.
func resolveEssentials(t *table.Table, s settings.Settings, idx map[string]int, cols Columns) []Essential {
	names := make([]string, 0, len(s.EssentialColumns))
	names = append(names, s.EssentialColumns...)

	if s.EssentialByColor && t.HeaderColors != nil {
		names = append(names, headersByColor(t, s)...)
	}

	canonical := map[int]bool{
		cols.ID:        true,
		cols.Owner:     true,
		cols.Subject:   true,
		cols.CreatedAt: true,
		cols.Priority:  true,
	}

	folder := cases.Fold()
	seen := make(map[string]bool, len(names))
	out := make([]Essential, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := folder.String(name)
		if seen[key] {
			continue
		}
		seen[key] = true

		pos := idx[name] // zero when missing from the table
		if pos != Absent && canonical[pos] {
			continue
		}
		out = append(out, Essential{Name: name, Col: pos})
	}
	return out
}

// headersByColor returns the headers whose background color lies within the
// configured tolerance of the target color. The color metadata itself comes
// from the presentation collaborator; here it is just an input.
func headersByColor(t *table.Table, s settings.Settings) []string {
	target, err := table.ParseColor(s.EssentialColorHex)
	if err != nil {
		target, _ = table.ParseColor(settings.Default().EssentialColorHex)
	}

	var matched []string
	for i, h := range t.Headers {
		c, ok := t.ColorOf(i + 1)
		if !ok {
			continue
		}
		if c.Within(target, s.ColorTolerance) {
			matched = append(matched, strings.TrimSpace(h))
		}
	}
	return matched
}
