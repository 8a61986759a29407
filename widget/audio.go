package widget

import (
	"math"
	"slices"

	"github.com/gogpu/deckcanvas"
	"github.com/gogpu/gg"
)

// Waveform is an animated track overview with played and unplayed parts,
// cue markers and a position marker.
type Waveform struct {
	Base

	Background    string
	PlayedColor   string
	UnplayedColor string
	CueColor      string
	PositionColor string

	progress float64
	cues     []float64
	frame    int
}

// NewWaveform creates a waveform width buttons wide.
func NewWaveform(col, row, width int) (*Waveform, error) {
	base, err := NewBase(col, row, width, 1)
	if err != nil {
		return nil, err
	}
	return &Waveform{
		Base:          base,
		Background:    deckcanvas.ColorBackground,
		PlayedColor:   deckcanvas.ColorPrimary,
		UnplayedColor: deckcanvas.ColorSurface,
		CueColor:      deckcanvas.ColorAccent,
		PositionColor: deckcanvas.ColorSecondary,
	}, nil
}

// SetProgress sets the play position, clamped to [0, 1].
func (w *Waveform) SetProgress(v float64) {
	w.progress = deckcanvas.Clamp(v, 0, 1)
}

func (w *Waveform) Progress() float64 { return w.progress }

// AddCue adds a cue point, clamped to [0, 1]. Duplicates are ignored and
// cues stay sorted.
func (w *Waveform) AddCue(pos float64) {
	pos = deckcanvas.Clamp(pos, 0, 1)
	i, found := slices.BinarySearch(w.cues, pos)
	if found {
		return
	}
	w.cues = slices.Insert(w.cues, i, pos)
}

// Cues returns a copy of the cue points in ascending order.
func (w *Waveform) Cues() []float64 { return slices.Clone(w.cues) }

func (w *Waveform) ClearCues() { w.cues = w.cues[:0] }

// Frame returns the number of frames rendered so far.
func (w *Waveform) Frame() int { return w.frame }

func (w *Waveform) Render(c *deckcanvas.Canvas) error {
	if !w.Visible() {
		return nil
	}
	r, err := w.region(c)
	if err != nil {
		return err
	}
	if err := c.FillRectPx(float64(r.X), float64(r.Y), float64(r.W), float64(r.H), w.Background); err != nil {
		return err
	}

	cy := float64(r.Y + r.H/2)
	progressX := r.X + int(float64(r.W)*w.progress)
	for i := 0; i < r.W; i += 3 {
		px := float64(r.X + i)
		height := float64(int(18 * math.Abs(math.Sin(float64(i)*0.08+float64(w.frame)*0.15))))
		if height == 0 {
			continue
		}
		color, width := w.UnplayedColor, 1.0
		if r.X+i < progressX {
			color, width = w.PlayedColor, 2.0
		}
		if err := c.DrawLine(px, cy-height, px, cy+height, color, width); err != nil {
			return err
		}
	}

	for _, cue := range w.cues {
		x := float64(r.X + int(float64(r.W)*cue))
		if err := c.DrawPolygon(diamond(x, cy, 4, 8), deckcanvas.ShapeStyle{Fill: w.CueColor}); err != nil {
			return err
		}
	}
	err = c.DrawPolygon(diamond(float64(progressX), cy, 6, 12), deckcanvas.ShapeStyle{
		Fill:        w.PositionColor,
		Border:      deckcanvas.ColorTextPrimary,
		BorderWidth: 1,
	})
	if err != nil {
		return err
	}
	w.frame++
	return nil
}

func diamond(x, y, halfW, halfH float64) []gg.Point {
	return []gg.Point{
		{X: x, Y: y - halfH},
		{X: x + halfW, Y: y},
		{X: x, Y: y + halfH},
		{X: x - halfW, Y: y},
	}
}

// Peak hold tuning for VUMeter.
const (
	peakHoldFrames = 30
	peakDecay      = 0.01
)

// VUMeter is a vertical level meter with peak hold.
type VUMeter struct {
	Base

	Background string
	LowColor   string
	MidColor   string
	HighColor  string
	PeakColor  string

	level    float64
	peak     float64
	peakHold int
}

// NewVUMeter creates a meter height buttons tall.
func NewVUMeter(col, row, height int) (*VUMeter, error) {
	base, err := NewBase(col, row, 1, height)
	if err != nil {
		return nil, err
	}
	return &VUMeter{
		Base:       base,
		Background: deckcanvas.ColorBackground,
		LowColor:   deckcanvas.ColorAudioLow,
		MidColor:   deckcanvas.ColorAudioMid,
		HighColor:  deckcanvas.ColorAudioHigh,
		PeakColor:  "#FF0000",
	}, nil
}

// SetLevel sets the level, clamped to [0, 1]. A new maximum is held for
// 30 updates, after which the peak decays by 0.01 per update.
func (m *VUMeter) SetLevel(v float64) {
	m.level = deckcanvas.Clamp(v, 0, 1)
	switch {
	case m.level > m.peak:
		m.peak = m.level
		m.peakHold = peakHoldFrames
	case m.peakHold > 0:
		m.peakHold--
	default:
		m.peak = math.Max(0, m.peak-peakDecay)
	}
}

func (m *VUMeter) Level() float64 { return m.level }

// Peak returns the held peak level.
func (m *VUMeter) Peak() float64 { return m.peak }

// segmentColor picks the color of segment i out of n.
func (m *VUMeter) segmentColor(i, n int) string {
	f := float64(i)
	switch {
	case f < float64(n)*0.6:
		return m.LowColor
	case f < float64(n)*0.85:
		return m.MidColor
	case f < float64(n)*0.95:
		return m.HighColor
	}
	return m.PeakColor
}

func (m *VUMeter) Render(c *deckcanvas.Canvas) error {
	if !m.Visible() {
		return nil
	}
	r, err := m.region(c)
	if err != nil {
		return err
	}
	err = c.DrawRoundedRect(m.col, m.row, deckcanvas.RectStyle{
		H: m.h, Fill: m.Background, Border: deckcanvas.ColorSurface, BorderWidth: 1, Radius: 8,
	})
	if err != nil {
		return err
	}

	segments := 20 * m.h
	segH := float64(r.H-12) / float64(segments)
	bottom := float64(r.Y + r.H - 6)
	active := int(float64(segments) * m.level)
	for i := 0; i < active; i++ {
		y := math.Floor(bottom - float64(i+1)*segH)
		if err := c.FillRectPx(float64(r.X+10), y, float64(r.W-20), segH-1, m.segmentColor(i, segments)); err != nil {
			return err
		}
	}

	if m.peak > 0 {
		y := math.Floor(bottom - float64(segments)*m.peak*segH)
		return c.DrawLine(float64(r.X+8), y, float64(r.X+r.W-8), y, deckcanvas.ColorTextPrimary, 2)
	}
	return nil
}

// Spectrum is a bar-graph spectrum analyzer.
type Spectrum struct {
	Base

	BarColor  string
	PeakColor string

	values []float64
}

// DefaultSpectrumBars is the bar count used when NewSpectrum gets bars < 1.
const DefaultSpectrumBars = 10

// NewSpectrum creates a spectrum of bars bars over a w x h block.
func NewSpectrum(col, row, w, h, bars int) (*Spectrum, error) {
	base, err := NewBase(col, row, w, h)
	if err != nil {
		return nil, err
	}
	if bars < 1 {
		bars = DefaultSpectrumBars
	}
	return &Spectrum{
		Base:      base,
		BarColor:  "#00CCFF",
		PeakColor: "#FFFFFF",
		values:    make([]float64, bars),
	}, nil
}

// Bars returns the number of bars.
func (s *Spectrum) Bars() int { return len(s.values) }

// SetValues copies band levels in [0, 1]. Extra values are dropped and
// missing ones read as zero.
func (s *Spectrum) SetValues(values []float64) {
	n := copy(s.values, values)
	clear(s.values[n:])
}

// Values returns a copy of the current band levels.
func (s *Spectrum) Values() []float64 { return slices.Clone(s.values) }

func (s *Spectrum) Render(c *deckcanvas.Canvas) error {
	if !s.Visible() {
		return nil
	}
	r, err := s.region(c)
	if err != nil {
		return err
	}
	if err := c.FillRectPx(float64(r.X), float64(r.Y), float64(r.W), float64(r.H), deckcanvas.ColorBlack); err != nil {
		return err
	}

	const gap = 1
	barW := float64(r.W) / float64(len(s.values))
	for i, v := range s.values {
		h := int(deckcanvas.Clamp(v, 0, 1) * float64(r.H))
		if h <= 0 {
			continue
		}
		x := float64(r.X+int(float64(i)*barW)) + gap
		w := float64(int(barW)) - 2*gap
		top := float64(r.Y + r.H - h)
		if err := c.FillRectPx(x, top, w, float64(h), s.BarColor); err != nil {
			return err
		}
		if h > 2 {
			if err := c.FillRectPx(x, top, w, 2, s.PeakColor); err != nil {
				return err
			}
		}
	}
	return nil
}

// RotaryVolume is a knob showing a level on a 270 degree sweep.
type RotaryVolume struct {
	Base

	ActiveColor    string
	IndicatorColor string

	level float64
}

// Knob sweep in degrees, clockwise from bottom-left.
const (
	knobStart = 135.0
	knobSweep = 270.0
)

// NewRotaryVolume creates a knob at half level.
func NewRotaryVolume(col, row int) (*RotaryVolume, error) {
	base, err := NewBase(col, row, 1, 1)
	if err != nil {
		return nil, err
	}
	return &RotaryVolume{
		Base:           base,
		ActiveColor:    deckcanvas.ColorAccent,
		IndicatorColor: "#FFFFFF",
		level:          0.5,
	}, nil
}

// SetLevel sets the level, clamped to [0, 1].
func (v *RotaryVolume) SetLevel(l float64) {
	v.level = deckcanvas.Clamp(l, 0, 1)
}

func (v *RotaryVolume) Level() float64 { return v.level }

// Angle returns the indicator angle in degrees.
func (v *RotaryVolume) Angle() float64 {
	return knobStart + v.level*knobSweep
}

func (v *RotaryVolume) Render(c *deckcanvas.Canvas) error {
	if !v.Visible() {
		return nil
	}
	r, err := v.region(c)
	if err != nil {
		return err
	}
	radius := float64(c.ButtonSize()/2 - 10)
	err = c.DrawCircle(v.col, v.row, radius, deckcanvas.ShapeStyle{Fill: "#222222", Border: "#555555"})
	if err != nil {
		return err
	}

	cx, cy := r.Center()
	angle := v.Angle()
	rad := angle * math.Pi / 180
	ix := float64(cx + int((radius-8)*math.Cos(rad)))
	iy := float64(cy + int((radius-8)*math.Sin(rad)))
	if err := c.FillCirclePx(ix, iy, 4, v.IndicatorColor); err != nil {
		return err
	}
	return c.DrawArc(v.col, v.row, radius+5, knobStart, angle, v.ActiveColor, 3)
}
