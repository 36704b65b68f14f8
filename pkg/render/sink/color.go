package sink

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// ParseColor parses a CSS-like color: "#rgb", "#rrggbb", a CSS color name,
// or "none"/"transparent".
func ParseColor(s string) (color.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "":
		return nil, fmt.Errorf("empty color")
	case s == "none" || s == "transparent":
		return color.Transparent, nil
	case strings.HasPrefix(s, "#"):
		c, err := colorful.Hex(s)
		if err != nil {
			return nil, fmt.Errorf("invalid color %q: %w", s, err)
		}
		return c, nil
	}
	if c, ok := colornames.Map[s]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("unknown color %q", s)
}

// HexColor normalizes a color to #rrggbb. Transparent colors and colors that
// cannot be parsed return ok=false.
func HexColor(s string) (string, bool) {
	c, err := ParseColor(s)
	if err != nil {
		return "", false
	}
	if _, _, _, a := c.RGBA(); a == 0 {
		return "", false
	}
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return "", false
	}
	return cf.Hex(), true
}

func colorOr(s string, fallback color.Color) color.Color {
	c, err := ParseColor(s)
	if err != nil {
		return fallback
	}
	return c
}
