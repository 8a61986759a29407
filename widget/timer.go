package widget

import (
	"fmt"
	"math"
	"time"

	"github.com/gogpu/deckcanvas"
)

// DefaultTimerTotal is the total a new Timer starts with.
const DefaultTimerTotal = 300 * time.Second

// Timer shows the current time over the total time, both as MM:SS.
type Timer struct {
	Base

	Color      string
	Background string // "" draws no background

	current time.Duration
	total   time.Duration
}

// NewTimer creates a timer at zero with DefaultTimerTotal.
func NewTimer(col, row int) (*Timer, error) {
	base, err := NewBase(col, row, 1, 1)
	if err != nil {
		return nil, err
	}
	return &Timer{
		Base:  base,
		Color: deckcanvas.ColorTextPrimary,
		total: DefaultTimerTotal,
	}, nil
}

// SetTime sets the current position. Negative values are rejected.
func (t *Timer) SetTime(current time.Duration) error {
	if current < 0 {
		return fmt.Errorf("%w: timer current %v < 0", deckcanvas.ErrInvalidParameter, current)
	}
	t.current = current
	return nil
}

// SetTotal sets the total duration, which must be positive.
func (t *Timer) SetTotal(total time.Duration) error {
	if total <= 0 {
		return fmt.Errorf("%w: timer total %v <= 0", deckcanvas.ErrInvalidParameter, total)
	}
	t.total = total
	return nil
}

func (t *Timer) Current() time.Duration { return t.current }
func (t *Timer) Total() time.Duration   { return t.total }

// Remaining returns total minus current, never negative.
func (t *Timer) Remaining() time.Duration {
	return max(0, t.total-t.current)
}

// Text returns the two-line label the timer draws.
func (t *Timer) Text() string {
	return deckcanvas.FormatTime(t.current, false) + "\n" + deckcanvas.FormatTime(t.total, false)
}

func (t *Timer) Render(c *deckcanvas.Canvas) error {
	if !t.Visible() {
		return nil
	}
	if err := t.Validate(c); err != nil {
		return err
	}
	if t.Background != "" {
		if err := c.DrawRect(t.col, t.row, deckcanvas.RectStyle{Fill: t.Background, Radius: 10}); err != nil {
			return err
		}
	}
	return c.DrawText(t.col, t.row, t.Text(), deckcanvas.TextStyle{Color: t.Color, Size: deckcanvas.SizeNormal})
}

// ScrollingText is a one-row ticker. Text wider than the region scrolls
// left and wraps around.
type ScrollingText struct {
	Base

	Color      string
	Background string

	text   string
	speed  int
	offset int
	frames int
}

// NewScrollingText creates a ticker width buttons wide scrolling 2px per step.
func NewScrollingText(col, row, width int, text string) (*ScrollingText, error) {
	base, err := NewBase(col, row, width, 1)
	if err != nil {
		return nil, err
	}
	return &ScrollingText{
		Base:       base,
		Color:      deckcanvas.ColorTextPrimary,
		Background: deckcanvas.ColorBackground,
		text:       text,
		speed:      2,
	}, nil
}

// SetText replaces the text and restarts scrolling.
func (s *ScrollingText) SetText(text string) {
	s.text = text
	s.offset = 0
}

func (s *ScrollingText) Text() string { return s.text }

// SetSpeed sets the scroll step in pixels; it must be positive.
func (s *ScrollingText) SetSpeed(px int) error {
	if px <= 0 {
		return fmt.Errorf("%w: scroll speed %d <= 0", deckcanvas.ErrInvalidParameter, px)
	}
	s.speed = px
	return nil
}

// Offset returns the current scroll offset in pixels.
func (s *ScrollingText) Offset() int { return s.offset }

func (s *ScrollingText) Render(c *deckcanvas.Canvas) error {
	if !s.Visible() {
		return nil
	}
	r, err := s.region(c)
	if err != nil {
		return err
	}
	if err := c.FillRectPx(float64(r.X), float64(r.Y), float64(r.W), float64(r.H), s.Background); err != nil {
		return err
	}

	tw, _, err := c.MeasureText(s.text, deckcanvas.SizeNormal)
	if err != nil {
		return err
	}
	if int(tw) > r.W-20 {
		// Advance every third frame.
		s.frames++
		if s.frames%3 == 0 {
			s.offset += s.speed
			if s.offset > int(tw) {
				s.offset = -r.W
			}
		}
	} else {
		s.offset = 0
	}

	x := float64(r.X + 10 - s.offset)
	y := float64(r.Y + r.H/2)
	return c.TextIn(r, x, y, s.text, s.Color, deckcanvas.SizeNormal, deckcanvas.AnchorLeftMiddle)
}

// Spinner layout.
const (
	spinnerDots   = 8
	spinnerRadius = 20
	spinnerStep   = 15
)

// LoadingSpinner is a ring of dots that rotates 15 degrees per frame.
type LoadingSpinner struct {
	Base

	Color      string
	Background string // "" draws no background

	angle int
}

// NewLoadingSpinner creates a spinner at (col, row).
func NewLoadingSpinner(col, row int) (*LoadingSpinner, error) {
	base, err := NewBase(col, row, 1, 1)
	if err != nil {
		return nil, err
	}
	return &LoadingSpinner{Base: base, Color: deckcanvas.ColorSecondary}, nil
}

// Angle returns the rotation in degrees, 0..345.
func (l *LoadingSpinner) Angle() int { return l.angle }

func (l *LoadingSpinner) Render(c *deckcanvas.Canvas) error {
	if !l.Visible() {
		return nil
	}
	r, err := l.region(c)
	if err != nil {
		return err
	}
	if l.Background != "" {
		if err := c.DrawRect(l.col, l.row, deckcanvas.RectStyle{Fill: l.Background, Radius: 10}); err != nil {
			return err
		}
	}
	cx, cy := r.Center()
	for i := 0; i < spinnerDots; i++ {
		a := float64(l.angle+i*360/spinnerDots) * math.Pi / 180
		px := cx + int(spinnerRadius*math.Cos(a))
		py := cy + int(spinnerRadius*math.Sin(a))
		size := 2 + int(3*(1-float64(i)/spinnerDots))
		if err := c.FillCirclePx(float64(px), float64(py), float64(size), l.Color); err != nil {
			return err
		}
	}
	l.angle = (l.angle + spinnerStep) % 360
	return nil
}
