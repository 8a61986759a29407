package widget

import (
	"math"
	"math/rand/v2"

	"github.com/gogpu/deckcanvas"
)

// Matrix rain layout in pixels.
const (
	rainColumnWidth = 8
	rainTailStep    = 10
	rainTail        = 3
)

// MatrixRain is the falling-glyph effect.
type MatrixRain struct {
	Base

	rng   *rand.Rand
	drops []int
}

// NewMatrixRain creates the effect over a w x h block. The same seed
// yields the same animation.
func NewMatrixRain(col, row, w, h int, seed uint64) (*MatrixRain, error) {
	base, err := NewBase(col, row, w, h)
	if err != nil {
		return nil, err
	}
	return &MatrixRain{Base: base, rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}, nil
}

func (m *MatrixRain) glyph() string {
	return string(rune(33 + m.rng.IntN(94)))
}

func (m *MatrixRain) Render(c *deckcanvas.Canvas) error {
	if !m.Visible() {
		return nil
	}
	r, err := m.region(c)
	if err != nil {
		return err
	}
	if columns := r.W / rainColumnWidth; len(m.drops) != columns {
		m.drops = make([]int, columns)
		for i := range m.drops {
			m.drops[i] = -m.rng.IntN(r.H + 1)
		}
	}
	if err := c.FillRectPx(float64(r.X), float64(r.Y), float64(r.W), float64(r.H), deckcanvas.ColorBlack); err != nil {
		return err
	}

	for i, drop := range m.drops {
		x := float64(r.X + i*rainColumnWidth)
		if drop >= 0 && drop < r.H {
			err := c.TextIn(r, x, float64(r.Y+drop), m.glyph(), "#FFFFFF", deckcanvas.SizeTiny, deckcanvas.AnchorTopLeft)
			if err != nil {
				return err
			}
		}
		for j := 1; j <= rainTail; j++ {
			y := drop - j*rainTailStep
			if y < 0 || y >= r.H {
				continue
			}
			green, err := deckcanvas.HexColor(0, int(255*(1-float64(j)/4)), 0)
			if err != nil {
				return err
			}
			if err := c.TextIn(r, x, float64(r.Y+y), m.glyph(), green, deckcanvas.SizeTiny, deckcanvas.AnchorTopLeft); err != nil {
				return err
			}
		}

		m.drops[i] += 2 + m.rng.IntN(4)
		if m.drops[i] > r.H {
			m.drops[i] = -m.rng.IntN(21)
		}
	}
	return nil
}

// BreathingRect is a rounded key whose brightness pulses.
type BreathingRect struct {
	Base

	Color string
	// Speed is the phase step per frame in radians.
	Speed float64

	t float64
}

// NewBreathingRect creates a red pulse.
func NewBreathingRect(col, row int) (*BreathingRect, error) {
	base, err := NewBase(col, row, 1, 1)
	if err != nil {
		return nil, err
	}
	return &BreathingRect{Base: base, Color: "#FF0000", Speed: 0.1}, nil
}

// Brightness returns the current brightness factor in [50/255, 1].
func (b *BreathingRect) Brightness() float64 {
	return float64(int(152.5+102.5*math.Sin(b.t))) / 255
}

func (b *BreathingRect) Render(c *deckcanvas.Canvas) error {
	if !b.Visible() {
		return nil
	}
	if err := b.Validate(c); err != nil {
		return err
	}
	b.t += b.Speed
	base, err := deckcanvas.ParseColor(b.Color)
	if err != nil {
		return err
	}
	f := b.Brightness()
	color, err := deckcanvas.HexColor(
		int(math.Round(base.R*255)*f),
		int(math.Round(base.G*255)*f),
		int(math.Round(base.B*255)*f),
	)
	if err != nil {
		return err
	}
	return c.DrawRect(b.col, b.row, deckcanvas.RectStyle{Fill: color, Radius: 15})
}
