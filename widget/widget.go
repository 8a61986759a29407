// Package widget provides reusable components drawn onto a deckcanvas.Canvas.
//
// Every widget occupies a rectangle of buttons. Widgets keep their own
// animation state, so rendering a widget twice advances spinners, tickers
// and waveforms by two frames.
//
// Widgets are not safe for concurrent use. A Manager serializes rendering,
// press routing and Manager.Update callbacks.
package widget

import (
	"errors"
	"fmt"

	"github.com/gogpu/deckcanvas"
)

var (
	// ErrOutOfBounds is returned when a widget does not fit the canvas.
	ErrOutOfBounds = errors.New("widget: out of canvas bounds")

	// ErrInvalidSize is returned for widgets smaller than one button or
	// larger than the biggest supported grid.
	ErrInvalidSize = errors.New("widget: invalid size")
)

// Widget is a component that draws itself onto a canvas.
type Widget interface {
	// Render draws the widget. Hidden widgets draw nothing.
	Render(c *deckcanvas.Canvas) error

	// Bounds returns the top-left button and the size in buttons.
	Bounds() (col, row, w, h int)

	Visible() bool
}

// Presser is implemented by widgets that react to key presses.
type Presser interface {
	Press(col, row int)
}

// RenderError records a widget that failed to render.
type RenderError struct {
	Widget string
	Err    error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("widget: render %s: %v", e.Widget, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Base holds the position, visibility and free-form state shared by all
// widgets. Embed it and call NewBase from the constructor.
type Base struct {
	col, row int
	w, h     int
	hidden   bool
	state    map[string]any
}

// NewBase validates the size and returns a visible Base.
func NewBase(col, row, w, h int) (Base, error) {
	if w < 1 || h < 1 || w > deckcanvas.MaxGridSize || h > deckcanvas.MaxGridSize {
		return Base{}, fmt.Errorf("%w: %dx%d (want 1..%d)", ErrInvalidSize, w, h, deckcanvas.MaxGridSize)
	}
	return Base{col: col, row: row, w: w, h: h}, nil
}

// Bounds returns the top-left button and the size in buttons.
func (b *Base) Bounds() (col, row, w, h int) {
	return b.col, b.row, b.w, b.h
}

// Move places the widget at a new top-left button.
func (b *Base) Move(col, row int) {
	b.col, b.row = col, row
}

func (b *Base) Visible() bool { return !b.hidden }
func (b *Base) Show()         { b.hidden = false }
func (b *Base) Hide()         { b.hidden = true }

// SetVisible shows or hides the widget.
func (b *Base) SetVisible(v bool) { b.hidden = !v }

// SetState stores a value under key.
func (b *Base) SetState(key string, value any) {
	if b.state == nil {
		b.state = make(map[string]any)
	}
	b.state[key] = value
}

// State returns the value stored under key.
func (b *Base) State(key string) (any, bool) {
	v, ok := b.state[key]
	return v, ok
}

// Contains reports whether the button (col, row) lies inside a visible widget.
func (b *Base) Contains(col, row int) bool {
	return !b.hidden &&
		col >= b.col && col < b.col+b.w &&
		row >= b.row && row < b.row+b.h
}

// Validate checks that the widget fits inside c.
func (b *Base) Validate(c *deckcanvas.Canvas) error {
	if b.col < 0 || b.row < 0 || b.col+b.w > c.Cols() || b.row+b.h > c.Rows() {
		return fmt.Errorf("%w: (%d,%d) %dx%d on %dx%d grid",
			ErrOutOfBounds, b.col, b.row, b.w, b.h, c.Cols(), c.Rows())
	}
	return nil
}

// region returns the pixel rectangle covered by the widget.
func (b *Base) region(c *deckcanvas.Canvas) (deckcanvas.Rect, error) {
	if err := b.Validate(c); err != nil {
		return deckcanvas.Rect{}, err
	}
	return c.RegionRect(b.col, b.row, b.w, b.h)
}

func (b *Base) String() string {
	return fmt.Sprintf("widget(col=%d, row=%d, size=%dx%d)", b.col, b.row, b.w, b.h)
}
