package deckcanvas

import (
	"errors"
	"image/color"
	"testing"

	"github.com/gogpu/gg"
)

func near(a, b color.RGBA) bool {
	d := func(x, y uint8) int {
		if x > y {
			return int(x - y)
		}
		return int(y - x)
	}
	return d(a.R, b.R) <= 2 && d(a.G, b.G) <= 2 && d(a.B, b.B) <= 2 && d(a.A, b.A) <= 2
}

var (
	black = color.RGBA{0, 0, 0, 255}
	white = color.RGBA{255, 255, 255, 255}
	red   = color.RGBA{255, 0, 0, 255}
	blue  = color.RGBA{0, 0, 255, 255}
)

func TestDrawRect_FillsRegionWithPadding(t *testing.T) {
	c := newTestCanvas(t, 5, 3, 72)
	if err := c.DrawRect(1, 1, RectStyle{W: 2, H: 1, Fill: "#FF0000"}); err != nil {
		t.Fatal(err)
	}
	// Inside the 2x1 region starting at (72, 72).
	if got := pixel(c, 144, 108); !near(got, red) {
		t.Errorf("center pixel = %v, want red", got)
	}
	if got := pixel(c, 76, 76); !near(got, red) {
		t.Errorf("inner corner pixel = %v, want red", got)
	}
	// The 3px padding stays untouched.
	if got := pixel(c, 73, 73); !near(got, black) {
		t.Errorf("padding pixel = %v, want black", got)
	}
	// Neighbouring buttons are untouched.
	if got := pixel(c, 36, 108); !near(got, black) {
		t.Errorf("button (0,1) pixel = %v, want black", got)
	}
	if got := pixel(c, 252, 108); !near(got, black) {
		t.Errorf("button (3,1) pixel = %v, want black", got)
	}
}

func TestDrawRect_Border(t *testing.T) {
	c := newTestCanvas(t, 3, 2, 80)
	err := c.DrawRect(0, 0, RectStyle{Fill: "#FF0000", Border: "#0000FF", BorderWidth: 4})
	if err != nil {
		t.Fatal(err)
	}
	if got := pixel(c, 40, 40); !near(got, red) {
		t.Errorf("fill pixel = %v, want red", got)
	}
	// Border occupies x in [3, 7).
	if got := pixel(c, 5, 40); !near(got, blue) {
		t.Errorf("border pixel = %v, want blue", got)
	}
}

func TestDrawRect_Defaults(t *testing.T) {
	c := newTestCanvas(t, 3, 2, 80)
	if err := c.DrawRect(2, 1, RectStyle{}); err != nil {
		t.Fatal(err)
	}
	if got := pixel(c, 200, 120); !near(got, white) {
		t.Errorf("default fill = %v, want white", got)
	}
}

func TestDrawRect_Errors(t *testing.T) {
	c := newTestCanvas(t, 5, 3, 72)
	var ce *CoordinateError
	if err := c.DrawRect(4, 0, RectStyle{W: 2}); !errors.As(err, &ce) {
		t.Errorf("overflowing region error = %v, want *CoordinateError", err)
	}
	var colErr *ColorError
	if err := c.DrawRect(0, 0, RectStyle{Fill: "orange"}); !errors.As(err, &colErr) {
		t.Errorf("bad fill error = %v, want *ColorError", err)
	}
	if err := c.DrawRect(0, 0, RectStyle{BorderWidth: -1}); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("negative border error = %v", err)
	}
	if err := c.DrawRect(0, 0, RectStyle{Radius: -1}); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("negative radius error = %v", err)
	}
}

func TestDrawRoundedRect_CornersStayClear(t *testing.T) {
	c := newTestCanvas(t, 3, 2, 80)
	if err := c.DrawRoundedRect(0, 0, RectStyle{Fill: "#FFFFFF", Radius: 20}); err != nil {
		t.Fatal(err)
	}
	if got := pixel(c, 40, 40); !near(got, white) {
		t.Errorf("center = %v, want white", got)
	}
	if got := pixel(c, 4, 4); !near(got, black) {
		t.Errorf("corner = %v, want black", got)
	}
}

func TestDrawGradientRect(t *testing.T) {
	c := newTestCanvas(t, 3, 2, 80)
	err := c.DrawGradientRect(0, 0, GradientStyle{W: 3, From: "#000000", To: "#FFFFFF", Direction: Horizontal})
	if err != nil {
		t.Fatal(err)
	}
	left := pixel(c, 10, 40)
	right := pixel(c, 230, 40)
	if left.R >= right.R {
		t.Errorf("gradient not increasing: left %v right %v", left, right)
	}
	if err := c.DrawGradientRect(0, 0, GradientStyle{From: "#000000", To: "#FFFFFF", Direction: Direction(9)}); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("bad direction error = %v", err)
	}
}

func TestDrawCircle(t *testing.T) {
	c := newTestCanvas(t, 5, 3, 72)
	if err := c.DrawCircle(2, 1, 100, ShapeStyle{Fill: "#FF0000"}); err != nil {
		t.Fatal(err)
	}
	if got := pixel(c, 180, 108); !near(got, red) {
		t.Errorf("center = %v, want red", got)
	}
	// The radius is clamped to 31, so the button corner stays clear.
	if got := pixel(c, 146, 74); !near(got, black) {
		t.Errorf("corner = %v, want black", got)
	}
	if err := c.DrawCircle(2, 1, 0, ShapeStyle{}); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("zero radius error = %v", err)
	}
}

func TestDrawPieSlice(t *testing.T) {
	c := newTestCanvas(t, 3, 2, 80)
	// Quarter from 0 (right) to 90 (down) in the top-left button.
	if err := c.DrawPieSlice(0, 0, 30, 0, 90, ShapeStyle{Fill: "#FFFFFF"}); err != nil {
		t.Fatal(err)
	}
	if got := pixel(c, 50, 50); !near(got, white) {
		t.Errorf("inside slice = %v, want white", got)
	}
	if got := pixel(c, 30, 30); !near(got, black) {
		t.Errorf("outside slice = %v, want black", got)
	}
}

func TestDrawArc(t *testing.T) {
	c := newTestCanvas(t, 3, 2, 80)
	if err := c.DrawArc(0, 0, 30, 0, 360, "#FFFFFF", 4); err != nil {
		t.Fatal(err)
	}
	// The stroke lies inside the radius, centered at r=28.
	if got := pixel(c, 40+28, 40); !near(got, white) {
		t.Errorf("arc pixel = %v, want white", got)
	}
	if got := pixel(c, 40, 40); !near(got, black) {
		t.Errorf("arc center = %v, want black", got)
	}
	if err := c.DrawArc(0, 0, 30, 0, 90, "#FFFFFF", 0); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("zero width error = %v", err)
	}
	if err := c.DrawArc(0, 0, 30, 45, 45, "#FFFFFF", 2); err != nil {
		t.Errorf("empty arc error = %v", err)
	}
}

func TestDrawLine(t *testing.T) {
	c := newTestCanvas(t, 3, 2, 80)
	if err := c.DrawLine(0, 40, 240, 40, "#FFFFFF", 4); err != nil {
		t.Fatal(err)
	}
	if got := pixel(c, 120, 40); !near(got, white) {
		t.Errorf("line pixel = %v, want white", got)
	}
	if err := c.DrawLine(0, 0, 1, 1, "#FFFFFF", 0); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("zero width error = %v", err)
	}
}

func TestDrawPolygon(t *testing.T) {
	c := newTestCanvas(t, 3, 2, 80)
	tri := []gg.Point{{X: 10, Y: 10}, {X: 70, Y: 10}, {X: 10, Y: 70}}
	if err := c.DrawPolygon(tri, ShapeStyle{Fill: "#FF0000"}); err != nil {
		t.Fatal(err)
	}
	if got := pixel(c, 20, 20); !near(got, red) {
		t.Errorf("inside = %v, want red", got)
	}
	if got := pixel(c, 65, 65); !near(got, black) {
		t.Errorf("outside = %v, want black", got)
	}
	if err := c.DrawPolygon(tri[:2], ShapeStyle{}); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("two-point polygon error = %v", err)
	}
}

func TestFillPx(t *testing.T) {
	c := newTestCanvas(t, 3, 2, 80)
	if err := c.FillRectPx(0, 0, 10, 10, "#0000FF"); err != nil {
		t.Fatal(err)
	}
	if got := pixel(c, 5, 5); !near(got, blue) {
		t.Errorf("rect pixel = %v, want blue", got)
	}
	if err := c.FillCirclePx(120, 80, 10, "#FF0000"); err != nil {
		t.Fatal(err)
	}
	if got := pixel(c, 120, 80); !near(got, red) {
		t.Errorf("circle pixel = %v, want red", got)
	}
}

func TestDrawPolyline(t *testing.T) {
	c := newTestCanvas(t, 3, 2, 80)
	pts := []gg.Point{{X: 0, Y: 40}, {X: 120, Y: 40}, {X: 120, Y: 150}}
	if err := c.DrawPolyline(pts, "#FFFFFF", 4); err != nil {
		t.Fatal(err)
	}
	if got := pixel(c, 60, 40); !near(got, white) {
		t.Errorf("first segment = %v, want white", got)
	}
	if got := pixel(c, 120, 100); !near(got, white) {
		t.Errorf("second segment = %v, want white", got)
	}
	// An open path does not close back to the start.
	if got := pixel(c, 60, 95); !near(got, black) {
		t.Errorf("closing segment drawn: %v", got)
	}
	if err := c.DrawPolyline(pts[:1], "#FFFFFF", 1); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("one-point polyline error = %v", err)
	}
}
