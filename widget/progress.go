package widget

import (
	"fmt"

	"github.com/gogpu/deckcanvas"
)

// ProgressBar is a horizontal bar spanning several buttons of one row.
type ProgressBar struct {
	Base

	Background     string
	Fill           string
	BorderColor    string
	ShowPercentage bool

	progress float64
}

// NewProgressBar creates a bar width buttons wide.
func NewProgressBar(col, row, width int) (*ProgressBar, error) {
	base, err := NewBase(col, row, width, 1)
	if err != nil {
		return nil, err
	}
	return &ProgressBar{
		Base:           base,
		Background:     deckcanvas.ColorBackground,
		Fill:           deckcanvas.ColorPrimary,
		BorderColor:    deckcanvas.ColorSurface,
		ShowPercentage: true,
	}, nil
}

// SetProgress sets the progress, clamped to [0, 1].
func (p *ProgressBar) SetProgress(v float64) {
	p.progress = deckcanvas.Clamp(v, 0, 1)
}

func (p *ProgressBar) Progress() float64 { return p.progress }

func (p *ProgressBar) Render(c *deckcanvas.Canvas) error {
	if !p.Visible() {
		return nil
	}
	r, err := p.region(c)
	if err != nil {
		return err
	}
	err = c.DrawRect(p.col, p.row, deckcanvas.RectStyle{
		W: p.w, H: 1,
		Fill: p.Background, Border: p.BorderColor, BorderWidth: 2, Radius: 8,
	})
	if err != nil {
		return err
	}

	const padding = 10
	innerW := r.W - 2*padding
	innerH := r.H - 2*padding
	if barW := int(float64(innerW) * p.progress); barW > 0 {
		barH := innerH - 10
		centerY := r.Y + r.H/2
		top := centerY - barH/2
		err := c.FillRectPx(float64(r.X+padding), float64(top), float64(barW), float64(2*(barH/2)), p.Fill)
		if err != nil {
			return err
		}
	}

	if !p.ShowPercentage {
		return nil
	}
	cx, cy := r.Center()
	label := fmt.Sprintf("%d%%", int(p.progress*100))
	return c.TextAt(float64(cx), float64(cy), label, deckcanvas.ColorTextPrimary, deckcanvas.SizeNormal, deckcanvas.AnchorMiddle)
}
