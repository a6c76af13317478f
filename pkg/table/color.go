package table

import (
	"fmt"
	"strings"
)

// Color is an RGB header background color.
type Color struct {
	R, G, B uint8
}

// ParseColor parses a "#RRGGBB" or "RRGGBB" hex color. The shorthand
// "#RGB" form is expanded per CSS rules.
func ParseColor(hex string) (Color, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	switch len(s) {
	case 3:
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	case 6:
		// already long form
	default:
		return Color{}, fmt.Errorf("invalid hex color %q", hex)
	}

	var c Color
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return c, nil
}

// Hex returns the "#RRGGBB" form.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Within reports whether every channel of c is within tolerance of target.
func (c Color) Within(target Color, tolerance int) bool {
	return chanDelta(c.R, target.R) <= tolerance &&
		chanDelta(c.G, target.G) <= tolerance &&
		chanDelta(c.B, target.B) <= tolerance
}

func chanDelta(a, b uint8) int {
	d := int(a) - int(b)
	if d < 0 {
		d = -d
	}
	return d
}
