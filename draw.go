package deckcanvas

import (
	"fmt"
	"math"

	"github.com/gogpu/gg"
)

// shapePadding insets region shapes so neighbouring keys keep a visible gap.
const shapePadding = 3

// RectStyle describes a rectangle spanning one or more buttons.
// Zero values select the defaults noted on each field.
type RectStyle struct {
	W, H        int     // size in buttons; 0 means 1
	Fill        string  // fill color; "" means white
	Border      string  // outline color; "" means no outline
	BorderWidth float64 // outline width; 0 means 2
	Radius      float64 // corner radius in pixels; 0 means square corners
}

func (s RectStyle) normalized() (RectStyle, error) {
	if s.W == 0 {
		s.W = 1
	}
	if s.H == 0 {
		s.H = 1
	}
	if s.Fill == "" {
		s.Fill = ColorWhite
	}
	if s.BorderWidth == 0 {
		s.BorderWidth = 2
	}
	if s.BorderWidth < 0 {
		return s, fmt.Errorf("%w: border width %v", ErrInvalidParameter, s.BorderWidth)
	}
	if s.Radius < 0 {
		return s, fmt.Errorf("%w: radius %v must be >= 0", ErrInvalidParameter, s.Radius)
	}
	return s, nil
}

// ShapeStyle is the fill and outline of a circle, slice or polygon.
type ShapeStyle struct {
	Fill        string  // "" means white
	Border      string  // "" means no outline
	BorderWidth float64 // 0 means 2
}

func (s ShapeStyle) normalized() (ShapeStyle, error) {
	if s.Fill == "" {
		s.Fill = ColorWhite
	}
	if s.BorderWidth == 0 {
		s.BorderWidth = 2
	}
	if s.BorderWidth < 0 {
		return s, fmt.Errorf("%w: border width %v", ErrInvalidParameter, s.BorderWidth)
	}
	return s, nil
}

// Direction selects the axis of a gradient.
type Direction int

const (
	Vertical Direction = iota
	Horizontal
)

// GradientStyle describes a linear gradient spanning one or more buttons.
type GradientStyle struct {
	W, H      int // size in buttons; 0 means 1
	From, To  string
	Direction Direction
}

// DrawRect draws a filled rectangle over a block of buttons, inset by 3px.
// A positive Radius rounds the corners.
func (c *Canvas) DrawRect(col, row int, style RectStyle) error {
	if err := c.ready(); err != nil {
		return err
	}
	s, err := style.normalized()
	if err != nil {
		return err
	}
	r, err := c.RegionRect(col, row, s.W, s.H)
	if err != nil {
		return err
	}
	fill, border, err := parsePair(s.Fill, s.Border)
	if err != nil {
		return err
	}

	x := float64(r.X + shapePadding)
	y := float64(r.Y + shapePadding)
	w := float64(r.W - 2*shapePadding)
	h := float64(r.H - 2*shapePadding)

	c.rectPath(x, y, w, h, s.Radius)
	if err := c.fillWith(fill); err != nil {
		return err
	}
	if border == nil {
		return nil
	}
	// The outline sits inside the filled area like a drawn frame.
	in := s.BorderWidth / 2
	c.rectPath(x+in, y+in, w-s.BorderWidth, h-s.BorderWidth, math.Max(0, s.Radius-in))
	return c.strokeWith(*border, s.BorderWidth)
}

// DrawRoundedRect is DrawRect with rounded corners. A zero Radius means 10;
// the radius is never below 1.
func (c *Canvas) DrawRoundedRect(col, row int, style RectStyle) error {
	if style.Radius == 0 {
		style.Radius = 10
	}
	style.Radius = math.Max(1, style.Radius)
	return c.DrawRect(col, row, style)
}

// DrawGradientRect fills a block of buttons, inset by 3px, with a linear
// gradient from From to To.
func (c *Canvas) DrawGradientRect(col, row int, style GradientStyle) error {
	if err := c.ready(); err != nil {
		return err
	}
	if style.W == 0 {
		style.W = 1
	}
	if style.H == 0 {
		style.H = 1
	}
	r, err := c.RegionRect(col, row, style.W, style.H)
	if err != nil {
		return err
	}
	from, err := ParseColor(style.From)
	if err != nil {
		return err
	}
	to, err := ParseColor(style.To)
	if err != nil {
		return err
	}

	x := float64(r.X + shapePadding)
	y := float64(r.Y + shapePadding)
	w := float64(r.W - 2*shapePadding)
	h := float64(r.H - 2*shapePadding)

	var brush *gg.LinearGradientBrush
	switch style.Direction {
	case Horizontal:
		brush = gg.NewLinearGradientBrush(x, y, x+w, y)
	case Vertical:
		brush = gg.NewLinearGradientBrush(x, y, x, y+h)
	default:
		return fmt.Errorf("%w: gradient direction %d", ErrInvalidParameter, style.Direction)
	}
	brush.AddColorStop(0, from).AddColorStop(1, to)

	c.ctx.ClearPath()
	c.ctx.DrawRectangle(x, y, w, h)
	c.ctx.SetFillBrush(brush)
	return c.ctx.Fill()
}

// DrawCircle draws a circle centered in a button. The radius is clamped so
// the circle keeps a 5px margin inside the button.
func (c *Canvas) DrawCircle(col, row int, radius float64, style ShapeStyle) error {
	if err := c.ready(); err != nil {
		return err
	}
	if radius <= 0 {
		return fmt.Errorf("%w: radius %v must be > 0", ErrInvalidParameter, radius)
	}
	s, err := style.normalized()
	if err != nil {
		return err
	}
	r, err := c.ButtonRect(col, row)
	if err != nil {
		return err
	}
	fill, border, err := parsePair(s.Fill, s.Border)
	if err != nil {
		return err
	}

	cx, cy := r.Center()
	maxRadius := float64(min(r.W, r.H)/2 - 5)
	radius = Clamp(radius, 1, maxRadius)

	c.ctx.ClearPath()
	c.ctx.DrawCircle(float64(cx), float64(cy), radius)
	if err := c.fillWith(fill); err != nil {
		return err
	}
	if border == nil {
		return nil
	}
	c.ctx.DrawCircle(float64(cx), float64(cy), radius-s.BorderWidth/2)
	return c.strokeWith(*border, s.BorderWidth)
}

// DrawArc strokes a circular arc centered in a button. Angles are degrees,
// 0 points right and angles grow clockwise. An end before start wraps
// around through 360.
func (c *Canvas) DrawArc(col, row int, radius, start, end float64, color string, width float64) error {
	if err := c.ready(); err != nil {
		return err
	}
	if radius <= 0 || width <= 0 {
		return fmt.Errorf("%w: arc radius %v width %v", ErrInvalidParameter, radius, width)
	}
	r, err := c.ButtonRect(col, row)
	if err != nil {
		return err
	}
	col8, err := ParseColor(color)
	if err != nil {
		return err
	}
	cx, cy := r.Center()
	return c.arcAt(float64(cx), float64(cy), radius, start, end, col8, width)
}

// ArcAt strokes an arc around a pixel center, with the same angle
// convention as DrawArc. The stroke lies inside radius.
func (c *Canvas) ArcAt(cx, cy, radius, start, end float64, color string, width float64) error {
	if err := c.ready(); err != nil {
		return err
	}
	col, err := ParseColor(color)
	if err != nil {
		return err
	}
	return c.arcAt(cx, cy, radius, start, end, col, width)
}

func (c *Canvas) arcAt(cx, cy, radius, start, end float64, col gg.RGBA, width float64) error {
	if end == start {
		return nil
	}
	c.ctx.ClearPath()
	c.ctx.DrawArc(cx, cy, math.Max(0.5, radius-width/2), degToRad(start), degToRad(end))
	return c.strokeWith(col, width)
}

// DrawPieSlice fills the sector between start and end degrees of a circle
// centered in a button.
func (c *Canvas) DrawPieSlice(col, row int, radius, start, end float64, style ShapeStyle) error {
	if err := c.ready(); err != nil {
		return err
	}
	if radius <= 0 {
		return fmt.Errorf("%w: radius %v must be > 0", ErrInvalidParameter, radius)
	}
	s, err := style.normalized()
	if err != nil {
		return err
	}
	r, err := c.ButtonRect(col, row)
	if err != nil {
		return err
	}
	fill, border, err := parsePair(s.Fill, s.Border)
	if err != nil {
		return err
	}
	if end == start {
		return nil
	}
	cx, cy := r.Center()

	c.slicePath(float64(cx), float64(cy), radius, start, end)
	if err := c.fillWith(fill); err != nil {
		return err
	}
	if border == nil {
		return nil
	}
	c.slicePath(float64(cx), float64(cy), radius, start, end)
	return c.strokeWith(*border, s.BorderWidth)
}

func (c *Canvas) slicePath(cx, cy, radius, start, end float64) {
	a := degToRad(start)
	c.ctx.ClearPath()
	c.ctx.MoveTo(cx, cy)
	c.ctx.LineTo(cx+radius*math.Cos(a), cy+radius*math.Sin(a))
	c.ctx.DrawArc(cx, cy, radius, a, degToRad(end))
	c.ctx.ClosePath()
}

// DrawLine strokes a straight line between two pixel positions.
func (c *Canvas) DrawLine(x1, y1, x2, y2 float64, color string, width float64) error {
	if err := c.ready(); err != nil {
		return err
	}
	if width <= 0 {
		return fmt.Errorf("%w: line width %v must be > 0", ErrInvalidParameter, width)
	}
	col, err := ParseColor(color)
	if err != nil {
		return err
	}
	c.ctx.ClearPath()
	c.ctx.DrawLine(x1, y1, x2, y2)
	return c.strokeWith(col, width)
}

// DrawPolygon fills a closed polygon given in pixel coordinates.
func (c *Canvas) DrawPolygon(points []gg.Point, style ShapeStyle) error {
	if err := c.ready(); err != nil {
		return err
	}
	if len(points) < 3 {
		return fmt.Errorf("%w: polygon needs 3 points, got %d", ErrInvalidParameter, len(points))
	}
	s, err := style.normalized()
	if err != nil {
		return err
	}
	fill, border, err := parsePair(s.Fill, s.Border)
	if err != nil {
		return err
	}

	polygon := func() {
		c.ctx.ClearPath()
		c.ctx.MoveTo(points[0].X, points[0].Y)
		for _, p := range points[1:] {
			c.ctx.LineTo(p.X, p.Y)
		}
		c.ctx.ClosePath()
	}
	polygon()
	if err := c.fillWith(fill); err != nil {
		return err
	}
	if border == nil {
		return nil
	}
	polygon()
	return c.strokeWith(*border, s.BorderWidth)
}

// DrawPolyline strokes an open path through points given in pixels.
func (c *Canvas) DrawPolyline(points []gg.Point, color string, width float64) error {
	if err := c.ready(); err != nil {
		return err
	}
	if len(points) < 2 {
		return fmt.Errorf("%w: polyline needs 2 points, got %d", ErrInvalidParameter, len(points))
	}
	if width <= 0 {
		return fmt.Errorf("%w: line width %v must be > 0", ErrInvalidParameter, width)
	}
	col, err := ParseColor(color)
	if err != nil {
		return err
	}
	c.ctx.ClearPath()
	c.ctx.MoveTo(points[0].X, points[0].Y)
	for _, p := range points[1:] {
		c.ctx.LineTo(p.X, p.Y)
	}
	return c.strokeWith(col, width)
}

// FillRectPx fills a pixel rectangle without padding.
func (c *Canvas) FillRectPx(x, y, w, h float64, color string) error {
	if err := c.ready(); err != nil {
		return err
	}
	col, err := ParseColor(color)
	if err != nil {
		return err
	}
	c.ctx.ClearPath()
	c.ctx.DrawRectangle(x, y, w, h)
	return c.fillWith(col)
}

// FillCirclePx fills a circle at a pixel position.
func (c *Canvas) FillCirclePx(x, y, r float64, color string) error {
	if err := c.ready(); err != nil {
		return err
	}
	col, err := ParseColor(color)
	if err != nil {
		return err
	}
	c.ctx.ClearPath()
	c.ctx.DrawCircle(x, y, r)
	return c.fillWith(col)
}

func (c *Canvas) rectPath(x, y, w, h, radius float64) {
	c.ctx.ClearPath()
	if radius > 0 {
		c.ctx.DrawRoundedRectangle(x, y, w, h, math.Min(radius, math.Min(w, h)/2))
		return
	}
	c.ctx.DrawRectangle(x, y, w, h)
}

func (c *Canvas) fillWith(col gg.RGBA) error {
	c.ctx.SetFillBrush(gg.Solid(col))
	return c.ctx.Fill()
}

func (c *Canvas) strokeWith(col gg.RGBA, width float64) error {
	c.ctx.SetStrokeBrush(gg.Solid(col))
	c.ctx.SetLineWidth(width)
	return c.ctx.Stroke()
}

// parsePair parses a required fill and an optional outline color.
func parsePair(fill, border string) (gg.RGBA, *gg.RGBA, error) {
	f, err := ParseColor(fill)
	if err != nil {
		return gg.RGBA{}, nil, err
	}
	if border == "" {
		return f, nil, nil
	}
	b, err := ParseColor(border)
	if err != nil {
		return gg.RGBA{}, nil, err
	}
	return f, &b, nil
}
