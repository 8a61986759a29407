package deckcanvas

import (
	"errors"
	"math"
	"testing"

	"github.com/gogpu/gg"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want gg.RGBA
	}{
		{"#000000", gg.RGBA{R: 0, G: 0, B: 0, A: 1}},
		{"#FFFFFF", gg.RGBA{R: 1, G: 1, B: 1, A: 1}},
		{"#ff0000", gg.RGBA{R: 1, G: 0, B: 0, A: 1}},
		{"#00000088", gg.RGBA{R: 0, G: 0, B: 0, A: float64(0x88) / 255}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if !rgbaClose(got, tt.want) {
				t.Errorf("ParseColor(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseColor_Invalid(t *testing.T) {
	for _, in := range []string{"", "red", "#FFF", "#FFFF", "FF0000", "#GG0000", "#FF00000", "#FF0000000"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseColor(in)
			var ce *ColorError
			if !errors.As(err, &ce) {
				t.Errorf("ParseColor(%q) error = %v, want *ColorError", in, err)
			}
		})
	}
}

func TestColorCache(t *testing.T) {
	ClearColorCache()
	defer ClearColorCache()

	for i := 0; i < 3; i++ {
		if _, err := ParseColor("#123456"); err != nil {
			t.Fatal(err)
		}
	}
	info := ColorCacheInfo()
	if info.Size != 1 || info.Misses != 1 || info.Hits != 2 {
		t.Errorf("ColorCacheInfo() = %+v, want size 1, 1 miss, 2 hits", info)
	}

	// Invalid colors are never cached.
	_, _ = ParseColor("nope")
	if got := ColorCacheInfo().Size; got != 1 {
		t.Errorf("cache size after invalid parse = %d, want 1", got)
	}

	ClearColorCache()
	if got := ColorCacheInfo(); got != (ColorCacheStats{}) {
		t.Errorf("after ClearColorCache = %+v", got)
	}
}

func TestMustParseColor_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParseColor did not panic")
		}
	}()
	MustParseColor("#XYZ")
}

func TestHexColor(t *testing.T) {
	got, err := HexColor(255, 107, 53)
	if err != nil {
		t.Fatal(err)
	}
	if got != "#FF6B35" {
		t.Errorf("HexColor = %q, want #FF6B35", got)
	}
	for _, ch := range [][3]int{{-1, 0, 0}, {0, 256, 0}, {0, 0, 1000}} {
		if _, err := HexColor(ch[0], ch[1], ch[2]); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("HexColor%v error = %v, want ErrInvalidParameter", ch, err)
		}
	}
}

func TestInterpolateColor(t *testing.T) {
	tests := []struct {
		from, to string
		t        float64
		want     string
	}{
		{"#000000", "#FFFFFF", 0, "#000000"},
		{"#000000", "#FFFFFF", 1, "#FFFFFF"},
		{"#000000", "#FFFFFF", 0.5, "#7F7F7F"},
		{"#000000", "#FFFFFF", -3, "#000000"},
		{"#000000", "#FFFFFF", 7, "#FFFFFF"},
		{"#ff0000", "#0000ff", 0.5, "#7F007F"},
	}
	for _, tt := range tests {
		got, err := InterpolateColor(tt.from, tt.to, tt.t)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("InterpolateColor(%s, %s, %v) = %s, want %s", tt.from, tt.to, tt.t, got, tt.want)
		}
	}
	if _, err := InterpolateColor("#000000", "bad", 0.5); err == nil {
		t.Error("InterpolateColor with invalid color succeeded")
	}
}

func TestGradient(t *testing.T) {
	got, err := Gradient(3, "#000000", "#FFFFFF")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"#000000", "#7F7F7F", "#FFFFFF"}
	if len(got) != len(want) {
		t.Fatalf("Gradient len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Gradient[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	one, err := Gradient(1, "#ff6b35", "#FFFFFF")
	if err != nil {
		t.Fatal(err)
	}
	if len(one) != 1 || one[0] != "#FF6B35" {
		t.Errorf("Gradient(1) = %v", one)
	}

	if _, err := Gradient(0, "#000000", "#FFFFFF"); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("Gradient(0) error = %v", err)
	}
}

func TestDim(t *testing.T) {
	c := gg.RGBA{R: 1, G: 0.5, B: 0.2, A: 0.8}
	got := Dim(c, 0.5)
	want := gg.RGBA{R: 0.5, G: 0.25, B: 0.1, A: 0.8}
	if !rgbaClose(got, want) {
		t.Errorf("Dim = %+v, want %+v", got, want)
	}
	if got := Dim(c, 2); !rgbaClose(got, c) {
		t.Errorf("Dim factor is not clamped: %+v", got)
	}
}

func TestPaletteColorsParse(t *testing.T) {
	for _, c := range []string{
		ColorPrimary, ColorSecondary, ColorAccent, ColorBackground, ColorSurface,
		ColorTextPrimary, ColorTextSecondary, ColorSuccess, ColorWarning, ColorDanger,
		ColorInfo, ColorAudioLow, ColorAudioMid, ColorAudioHigh, ColorAudioPeak,
		ColorBlack, ColorWhite,
	} {
		if _, err := ParseColor(c); err != nil {
			t.Errorf("palette color %q: %v", c, err)
		}
	}
}

func rgbaClose(a, b gg.RGBA) bool {
	const eps = 1e-6
	return math.Abs(a.R-b.R) < eps && math.Abs(a.G-b.G) < eps &&
		math.Abs(a.B-b.B) < eps && math.Abs(a.A-b.A) < eps
}
