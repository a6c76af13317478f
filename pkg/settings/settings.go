// Package settings defines the run configuration for boardsync.
// Configuration arrives as a flat key→string mapping (a settings sheet, a
// YAML file loaded through viper, or environment variables) and is parsed
// once per run into an explicit Settings struct that is passed into every
// component. No component reads configuration globally.
package settings

import (
	"strconv"
	"strings"
)

// Recognized configuration keys.
const (
	KeyMapID        = "MAP_ID"
	KeyMapOwner     = "MAP_OWNER"
	KeyMapSubject   = "MAP_SUBJECT"
	KeyMapCreatedAt = "MAP_CREATED_AT"
	KeyMapPriority  = "MAP_PRIORITY"

	KeyEditableFields = "EDITABLE_FIELDS"
	KeyStatusOptions  = "STATUS_OPTIONS"

	KeyProtectNonEditable = "PROTECT_NON_EDITABLE"
	KeyOverwriteOwner     = "DAILY_OVERWRITE_OWNER"
	KeyEssentialByColor   = "ESSENTIAL_BY_HEADER_COLOR"

	KeyEssentialColumns  = "ESSENTIAL_COLUMNS"
	KeyEssentialColorHex = "ESSENTIAL_COLOR_HEX"
	KeyColorTolerance    = "COLOR_TOLERANCE"

	KeyIgnoreText = "IGNORE_TEXT"

	KeyPrevPeriodFlagField = "PREV_PERIOD_FLAG_FIELD"
	KeyPrevPeriodTierField = "PREV_PERIOD_TIER_FIELD"
)

// Settings holds one run's configuration.
type Settings struct {
	// Header-name overrides for the canonical fields. Empty means "use the
	// built-in synonym list only".
	MapID        string
	MapOwner     string
	MapSubject   string
	MapCreatedAt string
	MapPriority  string

	// EditableFields are the history columns the team owns through the
	// board; edit-sync only accepts updates to these.
	EditableFields []string

	// StatusOptions feed the external board's status dropdown. The core
	// carries them through untouched.
	StatusOptions []string

	ProtectNonEditable bool
	OverwriteOwner     bool
	EssentialByColor   bool

	// EssentialColumns lists extra input headers carried through to the
	// board verbatim. When EssentialByColor is set the list is augmented
	// with headers matched by background color.
	EssentialColumns  []string
	EssentialColorHex string
	ColorTolerance    int

	// IgnoreText drops any input row whose canonical fields contain this
	// substring (case-insensitive). Empty disables the filter.
	IgnoreText string

	PrevPeriodFlagField string
	PrevPeriodTierField string
}

// Default returns the settings used when a key is missing or malformed.
func Default() Settings {
	return Settings{
		EditableFields:      []string{"STATUS", "NEXT_ACTION", "ATTEMPTS", "CONTACTED_AT", "NOTE", "VALUE"},
		StatusOptions:       []string{"New", "In Progress", "Waiting", "Done"},
		ProtectNonEditable:  true,
		OverwriteOwner:      false,
		EssentialByColor:    false,
		EssentialColorHex:   "#FFFF00",
		ColorTolerance:      110,
		PrevPeriodFlagField: "PREV_PERIOD_FLAG",
		PrevPeriodTierField: "PREV_PERIOD_TIER",
	}
}

// FromMap parses a flat key→string configuration into Settings, falling
// back to Default values for missing or malformed entries. Unrecognized
// keys are ignored.
func FromMap(kv map[string]string) Settings {
	s := Default()
	if kv == nil {
		return s
	}

	get := func(key string) (string, bool) {
		v, ok := kv[key]
		return strings.TrimSpace(v), ok
	}

	if v, ok := get(KeyMapID); ok {
		s.MapID = v
	}
	if v, ok := get(KeyMapOwner); ok {
		s.MapOwner = v
	}
	if v, ok := get(KeyMapSubject); ok {
		s.MapSubject = v
	}
	if v, ok := get(KeyMapCreatedAt); ok {
		s.MapCreatedAt = v
	}
	if v, ok := get(KeyMapPriority); ok {
		s.MapPriority = v
	}

	if v, ok := get(KeyEditableFields); ok && v != "" {
		s.EditableFields = SplitList(v)
	}
	if v, ok := get(KeyStatusOptions); ok && v != "" {
		s.StatusOptions = SplitList(v)
	}

	if v, ok := get(KeyProtectNonEditable); ok {
		s.ProtectNonEditable = parseFlag(v, s.ProtectNonEditable)
	}
	if v, ok := get(KeyOverwriteOwner); ok {
		s.OverwriteOwner = parseFlag(v, s.OverwriteOwner)
	}
	if v, ok := get(KeyEssentialByColor); ok {
		s.EssentialByColor = parseFlag(v, s.EssentialByColor)
	}

	if v, ok := get(KeyEssentialColumns); ok && v != "" {
		s.EssentialColumns = SplitList(v)
	}
	if v, ok := get(KeyEssentialColorHex); ok && v != "" {
		s.EssentialColorHex = v
	}
	if v, ok := get(KeyColorTolerance); ok {
		if n, err := strconv.Atoi(v); err == nil {
			s.ColorTolerance = clampTolerance(n)
		}
	}

	if v, ok := get(KeyIgnoreText); ok {
		s.IgnoreText = v
	}

	if v, ok := get(KeyPrevPeriodFlagField); ok && v != "" {
		s.PrevPeriodFlagField = v
	}
	if v, ok := get(KeyPrevPeriodTierField); ok && v != "" {
		s.PrevPeriodTierField = v
	}

	return s
}

// IsEditable reports whether a history field may be changed through
// edit-sync. Matching is case-insensitive.
func (s Settings) IsEditable(field string) bool {
	for _, f := range s.EditableFields {
		if strings.EqualFold(f, field) {
			return true
		}
	}
	return false
}

// SplitList splits a semicolon-delimited configuration value, trimming
// whitespace and dropping empty entries.
func SplitList(v string) []string {
	parts := strings.Split(v, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseFlag interprets YES/NO (any case); anything else keeps the default.
func parseFlag(v string, def bool) bool {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "YES":
		return true
	case "NO":
		return false
	default:
		return def
	}
}

func clampTolerance(n int) int {
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return n
}
