package deckcanvas

import (
	"fmt"
	"math"
	"strings"

	"github.com/gogpu/gg"

	"github.com/gogpu/deckcanvas/internal/cache"
)

// colorCacheSize bounds the parsed color cache. Widgets re-parse the same
// handful of palette strings every frame.
const colorCacheSize = 256

var colorCache = cache.New[string, gg.RGBA](colorCacheSize)

// ColorCacheStats describes the color cache.
type ColorCacheStats struct {
	Size   int
	Hits   int
	Misses int
}

// ParseColor parses "#RRGGBB" or "#RRGGBBAA" (case insensitive).
// Invalid input returns a *ColorError.
func ParseColor(s string) (gg.RGBA, error) {
	if c, ok := colorCache.Get(s); ok {
		return c, nil
	}
	if !validHexColor(s) {
		return gg.RGBA{}, &ColorError{Value: s}
	}
	c := gg.Hex(s)
	colorCache.Set(s, c)
	return c, nil
}

// MustParseColor is like ParseColor but panics on error.
// Use only for constant colors.
func MustParseColor(s string) gg.RGBA {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// validHexColor reports whether s is '#' followed by 6 or 8 hex digits.
// gg.Hex accepts shorter forms and maps garbage to black, so the stricter
// check runs first.
func validHexColor(s string) bool {
	if len(s) != 7 && len(s) != 9 {
		return false
	}
	if s[0] != '#' {
		return false
	}
	for i := 1; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch >= '0' && ch <= '9':
		case ch >= 'a' && ch <= 'f':
		case ch >= 'A' && ch <= 'F':
		default:
			return false
		}
	}
	return true
}

// ColorCacheInfo returns the size and hit counters of the color cache.
func ColorCacheInfo() ColorCacheStats {
	s := colorCache.Stats()
	return ColorCacheStats{Size: s.Len, Hits: int(s.Hits), Misses: int(s.Misses)}
}

// ClearColorCache empties the color cache and resets its counters.
func ClearColorCache() {
	colorCache.Clear()
}

// HexColor formats 8-bit channels as uppercase "#RRGGBB".
func HexColor(r, g, b int) (string, error) {
	for _, v := range [...]int{r, g, b} {
		if v < 0 || v > 255 {
			return "", fmt.Errorf("%w: channel %d outside 0..255", ErrInvalidParameter, v)
		}
	}
	return fmt.Sprintf("#%02X%02X%02X", r, g, b), nil
}

// InterpolateColor blends two hex colors; t is clamped to [0, 1].
// Channels are truncated toward zero, so t=0.5 between #000000 and #FFFFFF
// yields #7F7F7F.
func InterpolateColor(from, to string, t float64) (string, error) {
	a, err := ParseColor(from)
	if err != nil {
		return "", err
	}
	b, err := ParseColor(to)
	if err != nil {
		return "", err
	}
	t = Clamp(t, 0, 1)

	lerp8 := func(x, y float64) int {
		x8, y8 := math.Round(x*255), math.Round(y*255)
		return int(x8 + (y8-x8)*t)
	}
	return HexColor(lerp8(a.R, b.R), lerp8(a.G, b.G), lerp8(a.B, b.B))
}

// Gradient returns steps colors evenly spaced from start to end.
func Gradient(steps int, start, end string) ([]string, error) {
	if steps < 1 {
		return nil, fmt.Errorf("%w: gradient steps %d < 1", ErrInvalidParameter, steps)
	}
	if steps == 1 {
		if _, err := ParseColor(start); err != nil {
			return nil, err
		}
		return []string{strings.ToUpper(start)}, nil
	}
	out := make([]string, steps)
	for i := range out {
		c, err := InterpolateColor(start, end, float64(i)/float64(steps-1))
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

// Dim scales the RGB channels of c by factor, keeping alpha.
func Dim(c gg.RGBA, factor float64) gg.RGBA {
	factor = Clamp(factor, 0, 1)
	return gg.RGBA{R: c.R * factor, G: c.G * factor, B: c.B * factor, A: c.A}
}
