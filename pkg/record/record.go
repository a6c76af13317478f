// Package record defines the canonical in-memory record and the normalizer
// that derives it from mapped input rows. Records are ephemeral: they are
// recomputed on every run and never persisted directly.
package record

// Priority bounds. Anything outside clamps into this range at
// normalization time.
const (
	MinPriority = 0
	MaxPriority = 4
)

// Record is the canonical shape of one input row after column mapping.
type Record struct {
	ID        string
	Owner     string
	Subject   string
	CreatedAt string // opaque, passed through without parsing
	Priority  int    // always within [MinPriority, MaxPriority]

	// Extras is the open passthrough bag, in resolved essential-column
	// order. Values are carried raw, untrimmed.
	Extras []Extra
}

// Extra is one passthrough field.
type Extra struct {
	Name  string
	Value string
}

// Extra returns the passthrough value for name and whether it is present.
func (r *Record) Extra(name string) (string, bool) {
	for _, e := range r.Extras {
		if e.Name == name {
			return e.Value, true
		}
	}
	return "", false
}

// ClampPriority clamps n into the priority range.
func ClampPriority(n int) int {
	if n < MinPriority {
		return MinPriority
	}
	if n > MaxPriority {
		return MaxPriority
	}
	return n
}
