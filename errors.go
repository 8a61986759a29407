package deckcanvas

import (
	"errors"
	"fmt"
)

// Common errors returned by Canvas operations.
var (
	// ErrInvalidCanvasSize is returned when the grid or button size is out of range.
	ErrInvalidCanvasSize = errors.New("deckcanvas: invalid canvas size")

	// ErrInvalidParameter is returned for out-of-range drawing parameters.
	ErrInvalidParameter = errors.New("deckcanvas: invalid parameter")

	// ErrCanvasClosed is returned when drawing on a closed canvas.
	ErrCanvasClosed = errors.New("deckcanvas: canvas is closed")

	// ErrUnknownModel is returned by LookupModel for unknown device names.
	ErrUnknownModel = errors.New("deckcanvas: unknown device model")
)

// CoordinateError reports a button or region that falls outside the grid.
type CoordinateError struct {
	Col, Row   int
	Cols, Rows int
	// W and H are the region size in buttons; both are 1 for single buttons.
	W, H int
}

func (e *CoordinateError) Error() string {
	if e.W > 1 || e.H > 1 {
		return fmt.Sprintf("deckcanvas: region (%d,%d) %dx%d outside %dx%d grid",
			e.Col, e.Row, e.W, e.H, e.Cols, e.Rows)
	}
	return fmt.Sprintf("deckcanvas: button (%d,%d) outside %dx%d grid", e.Col, e.Row, e.Cols, e.Rows)
}

// ColorError reports a color string that is not #RRGGBB or #RRGGBBAA.
type ColorError struct {
	Value string
}

func (e *ColorError) Error() string {
	return fmt.Sprintf("deckcanvas: invalid color %q (want #RRGGBB or #RRGGBBAA)", e.Value)
}
