package widget

import (
	"strconv"

	"github.com/gogpu/deckcanvas"
)

// Grid outlines every button and optionally numbers them in key order.
// It is a layout aid.
type Grid struct {
	Base

	Color       string
	ShowNumbers bool
}

// NewGrid creates a grid covering cols x rows buttons from (0, 0).
func NewGrid(cols, rows int) (*Grid, error) {
	base, err := NewBase(0, 0, cols, rows)
	if err != nil {
		return nil, err
	}
	return &Grid{Base: base, Color: deckcanvas.ColorSurface, ShowNumbers: true}, nil
}

func (g *Grid) Render(c *deckcanvas.Canvas) error {
	if !g.Visible() {
		return nil
	}
	r, err := g.region(c)
	if err != nil {
		return err
	}
	bs := c.ButtonSize()
	for col := 0; col <= g.w; col++ {
		x := float64(r.X + col*bs)
		if err := c.DrawLine(x, float64(r.Y), x, float64(r.Y+r.H), g.Color, 1); err != nil {
			return err
		}
	}
	for row := 0; row <= g.h; row++ {
		y := float64(r.Y + row*bs)
		if err := c.DrawLine(float64(r.X), y, float64(r.X+r.W), y, g.Color, 1); err != nil {
			return err
		}
	}
	if !g.ShowNumbers {
		return nil
	}
	style := deckcanvas.TextStyle{
		Color:   g.Color,
		Size:    deckcanvas.SizeSmall,
		Align:   deckcanvas.AlignTop,
		OffsetY: 5,
	}
	for row := g.row; row < g.row+g.h; row++ {
		for col := g.col; col < g.col+g.w; col++ {
			key, err := c.KeyIndex(col, row)
			if err != nil {
				return err
			}
			if err := c.DrawText(col, row, strconv.Itoa(key), style); err != nil {
				return err
			}
		}
	}
	return nil
}
