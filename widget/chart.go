package widget

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/gogpu/deckcanvas"
	"github.com/gogpu/gg"
)

// Gauge sweep in degrees, clockwise from bottom-left.
const (
	gaugeStart = 135.0
	gaugeEnd   = 405.0
)

// RadialGauge shows a value on a 270 degree arc with the number in the
// middle.
type RadialGauge struct {
	Base

	Min, Max   float64
	Color      string
	Background string
	Label      string

	value float64
}

// NewRadialGauge creates a 0..100 gauge.
func NewRadialGauge(col, row int, label string) (*RadialGauge, error) {
	base, err := NewBase(col, row, 1, 1)
	if err != nil {
		return nil, err
	}
	return &RadialGauge{
		Base:       base,
		Max:        100,
		Color:      deckcanvas.ColorPrimary,
		Background: deckcanvas.ColorSurface,
		Label:      label,
	}, nil
}

// SetValue sets the value, clamped to [Min, Max].
func (g *RadialGauge) SetValue(v float64) {
	g.value = deckcanvas.Clamp(v, g.Min, g.Max)
}

func (g *RadialGauge) Value() float64 { return g.value }

// fraction returns the value as a fraction of the range.
func (g *RadialGauge) fraction() float64 {
	if g.Max <= g.Min {
		return 0
	}
	return deckcanvas.Clamp((g.value-g.Min)/(g.Max-g.Min), 0, 1)
}

func (g *RadialGauge) Render(c *deckcanvas.Canvas) error {
	if !g.Visible() {
		return nil
	}
	if err := g.Validate(c); err != nil {
		return err
	}
	radius := float64(c.ButtonSize()/2 - 8)
	current := gaugeStart + float64(int(g.fraction()*(gaugeEnd-gaugeStart)))

	if err := c.DrawArc(g.col, g.row, radius, gaugeStart, gaugeEnd, g.Background, 6); err != nil {
		return err
	}
	if err := c.DrawArc(g.col, g.row, radius, gaugeStart, current, g.Color, 6); err != nil {
		return err
	}
	err := c.DrawText(g.col, g.row, strconv.Itoa(int(g.value)), deckcanvas.TextStyle{
		Color: "#FFFFFF", Size: deckcanvas.SizeTitle, OffsetY: -2,
	})
	if err != nil || g.Label == "" {
		return err
	}
	return c.DrawText(g.col, g.row, g.Label, deckcanvas.TextStyle{
		Color: "#AAAAAA", Size: deckcanvas.SizeTiny, Align: deckcanvas.AlignBottom, OffsetY: -5,
	})
}

// DefaultMaxPoints is the history length of a new LineGraph.
const DefaultMaxPoints = 50

// LineGraph is a sparkline of the most recent values.
type LineGraph struct {
	Base

	LineColor  string
	Background string
	// AutoScale fits the data range; otherwise MinY..MaxY is used.
	AutoScale  bool
	MinY, MaxY float64
	MaxPoints  int

	data []float64
}

// NewLineGraph creates an auto-scaling graph over a w x h block.
func NewLineGraph(col, row, w, h int) (*LineGraph, error) {
	base, err := NewBase(col, row, w, h)
	if err != nil {
		return nil, err
	}
	return &LineGraph{
		Base:       base,
		LineColor:  "#00FF00",
		Background: deckcanvas.ColorBlack,
		AutoScale:  true,
		MaxY:       100,
		MaxPoints:  DefaultMaxPoints,
	}, nil
}

// AddValue appends v, dropping the oldest value past MaxPoints.
func (g *LineGraph) AddValue(v float64) {
	g.data = append(g.data, v)
	limit := g.MaxPoints
	if limit < 1 {
		limit = DefaultMaxPoints
	}
	if over := len(g.data) - limit; over > 0 {
		g.data = slices.Delete(g.data, 0, over)
	}
}

// Data returns a copy of the stored values, oldest first.
func (g *LineGraph) Data() []float64 { return slices.Clone(g.data) }

func (g *LineGraph) Render(c *deckcanvas.Canvas) error {
	if !g.Visible() {
		return nil
	}
	r, err := g.region(c)
	if err != nil {
		return err
	}
	if err := c.FillRectPx(float64(r.X), float64(r.Y), float64(r.W), float64(r.H), g.Background); err != nil {
		return err
	}
	if len(g.data) < 2 {
		return nil
	}

	lo, hi := g.MinY, g.MaxY
	if g.AutoScale {
		lo, hi = slices.Min(g.data), slices.Max(g.data)
	}
	if hi == lo {
		hi++
	}

	step := float64(r.W) / float64(len(g.data)-1)
	points := make([]gg.Point, len(g.data))
	for i, v := range g.data {
		norm := (v - lo) / (hi - lo)
		points[i] = gg.Point{
			X: float64(r.X + int(float64(i)*step)),
			Y: float64(r.Y + r.H - int(norm*float64(r.H-10)) - 5),
		}
	}
	return c.DrawPolyline(points, g.LineColor, 2)
}

// defaultPieColors is used when a PieChart has no colors.
var defaultPieColors = []string{
	deckcanvas.ColorPrimary,
	deckcanvas.ColorInfo,
	deckcanvas.ColorSuccess,
	deckcanvas.ColorAccent,
	deckcanvas.ColorDanger,
}

// PieChart draws values as slices starting at 12 o'clock.
type PieChart struct {
	Base

	// Colors are used per slice, cycling when there are more values.
	Colors []string

	values []float64
}

// NewPieChart creates a pie chart.
func NewPieChart(col, row int, values []float64, colors []string) (*PieChart, error) {
	base, err := NewBase(col, row, 1, 1)
	if err != nil {
		return nil, err
	}
	p := &PieChart{Base: base, Colors: colors}
	if err := p.SetValues(values); err != nil {
		return nil, err
	}
	return p, nil
}

// SetValues replaces the data. Negative values are rejected.
func (p *PieChart) SetValues(values []float64) error {
	for _, v := range values {
		if v < 0 {
			return fmt.Errorf("%w: pie value %v < 0", deckcanvas.ErrInvalidParameter, v)
		}
	}
	p.values = slices.Clone(values)
	return nil
}

func (p *PieChart) Values() []float64 { return slices.Clone(p.values) }

func (p *PieChart) Render(c *deckcanvas.Canvas) error {
	if !p.Visible() {
		return nil
	}
	if err := p.Validate(c); err != nil {
		return err
	}
	var total float64
	for _, v := range p.values {
		total += v
	}
	if total == 0 {
		return nil
	}
	colors := p.Colors
	if len(colors) == 0 {
		colors = defaultPieColors
	}

	radius := float64(c.ButtonSize()/2 - 5)
	angle := -90.0
	for i, v := range p.values {
		sweep := v / total * 360
		if sweep == 0 {
			continue
		}
		style := deckcanvas.ShapeStyle{Fill: colors[i%len(colors)]}
		if err := c.DrawPieSlice(p.col, p.row, radius, angle, angle+sweep, style); err != nil {
			return err
		}
		angle += sweep
	}
	return nil
}
