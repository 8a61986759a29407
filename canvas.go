package deckcanvas

import (
	"fmt"
	"image"

	"github.com/gogpu/gg"
)

// MaxGridSize is the largest supported number of columns or rows.
const MaxGridSize = 16

// Rect is a pixel rectangle on the canvas.
type Rect struct {
	X, Y, W, H int
}

// Center returns the integer center point, rounding down like the key grid.
func (r Rect) Center() (x, y int) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Image returns r as an image.Rectangle.
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

// Option configures a Canvas.
type Option func(*options)

type options struct {
	background string
	fontData   []byte
	fontPath   string
}

// WithBackground sets the color the canvas is cleared to on creation.
func WithBackground(color string) Option {
	return func(o *options) { o.background = color }
}

// WithFont uses the given TTF/OTF data instead of the built-in Go fonts.
func WithFont(data []byte) Option {
	return func(o *options) { o.fontData = data }
}

// WithFontFile loads the font from path the first time text is drawn.
func WithFontFile(path string) Option {
	return func(o *options) { o.fontPath = path }
}

// Canvas is a single drawing surface spanning every key of a Stream Deck.
// Coordinates are (col, row) in buttons unless a method says pixels.
//
// Canvas is NOT safe for concurrent use. Renderers own their canvas and
// call user draw functions from their frame loop.
type Canvas struct {
	ctx        *gg.Context
	cols, rows int
	buttonSize int
	fonts      *fontSet
	closed     bool
}

// New creates a canvas of cols x rows buttons of buttonSize pixels.
// cols and rows must be within 1..16 and buttonSize one of 72, 80 or 96.
func New(cols, rows, buttonSize int, opts ...Option) (*Canvas, error) {
	if cols < 1 || rows < 1 || cols > MaxGridSize || rows > MaxGridSize {
		return nil, fmt.Errorf("%w: grid %dx%d (want 1..%d)", ErrInvalidCanvasSize, cols, rows, MaxGridSize)
	}
	if !validButtonSize(buttonSize) {
		return nil, fmt.Errorf("%w: button size %d (want 72, 80 or 96)", ErrInvalidCanvasSize, buttonSize)
	}

	o := options{background: ColorBlack}
	for _, opt := range opts {
		opt(&o)
	}
	bg, err := ParseColor(o.background)
	if err != nil {
		return nil, err
	}

	c := &Canvas{
		ctx:        gg.NewContext(cols*buttonSize, rows*buttonSize),
		cols:       cols,
		rows:       rows,
		buttonSize: buttonSize,
		fonts:      newFontSet(o.fontData, o.fontPath),
	}
	c.ctx.ClearWithColor(bg)
	return c, nil
}

// NewForModel creates a canvas sized for a device family.
func NewForModel(m Model, opts ...Option) (*Canvas, error) {
	return New(m.Cols, m.Rows, m.ButtonSize, opts...)
}

// MustNew is like New but panics on error.
// Use only when the dimensions are constants.
func MustNew(cols, rows, buttonSize int, opts ...Option) *Canvas {
	c, err := New(cols, rows, buttonSize, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Cols returns the number of button columns.
func (c *Canvas) Cols() int { return c.cols }

// Rows returns the number of button rows.
func (c *Canvas) Rows() int { return c.rows }

// ButtonSize returns the edge length of one button in pixels.
func (c *Canvas) ButtonSize() int { return c.buttonSize }

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return c.cols * c.buttonSize }

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int { return c.rows * c.buttonSize }

// Size returns width and height in pixels.
func (c *Canvas) Size() (width, height int) {
	return c.Width(), c.Height()
}

// Keys returns the number of buttons on the canvas.
func (c *Canvas) Keys() int { return c.cols * c.rows }

// Context returns the underlying gg context for drawing that the canvas
// helpers do not cover. Returns nil once the canvas is closed.
func (c *Canvas) Context() *gg.Context {
	if c.closed {
		return nil
	}
	return c.ctx
}

// Draw calls fn with the gg context for drawing the canvas helpers do
// not cover.
func (c *Canvas) Draw(fn func(*gg.Context)) error {
	if c.closed {
		return ErrCanvasClosed
	}
	fn(c.ctx)
	return nil
}

// Image returns a copy of the current canvas pixels.
func (c *Canvas) Image() *image.RGBA {
	if c.closed {
		return image.NewRGBA(image.Rect(0, 0, c.Width(), c.Height()))
	}
	return c.ctx.Image().(*image.RGBA)
}

// Clear fills the whole canvas with color. An empty color means black.
func (c *Canvas) Clear(color string) error {
	if c.closed {
		return ErrCanvasClosed
	}
	if color == "" {
		color = ColorBlack
	}
	rgba, err := ParseColor(color)
	if err != nil {
		return err
	}
	c.ctx.ResetClip()
	c.ctx.ClearPath()
	c.ctx.ClearWithColor(rgba)
	return nil
}

// ButtonRect returns the pixel rectangle of one button.
func (c *Canvas) ButtonRect(col, row int) (Rect, error) {
	return c.RegionRect(col, row, 1, 1)
}

// RegionRect returns the pixel rectangle of a w x h block of buttons whose
// top-left button is (col, row). The block must lie within the grid.
func (c *Canvas) RegionRect(col, row, w, h int) (Rect, error) {
	if w < 1 || h < 1 {
		return Rect{}, fmt.Errorf("%w: region size %dx%d", ErrInvalidParameter, w, h)
	}
	if col < 0 || row < 0 || col+w > c.cols || row+h > c.rows {
		return Rect{}, &CoordinateError{Col: col, Row: row, Cols: c.cols, Rows: c.rows, W: w, H: h}
	}
	bs := c.buttonSize
	return Rect{X: col * bs, Y: row * bs, W: w * bs, H: h * bs}, nil
}

// ButtonCenter returns the pixel center of a button.
func (c *Canvas) ButtonCenter(col, row int) (x, y int, err error) {
	r, err := c.ButtonRect(col, row)
	if err != nil {
		return 0, 0, err
	}
	x, y = r.Center()
	return x, y, nil
}

// Equal reports whether both canvases have the same geometry.
func (c *Canvas) Equal(other *Canvas) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.cols == other.cols && c.rows == other.rows && c.buttonSize == other.buttonSize
}

func (c *Canvas) String() string {
	return fmt.Sprintf("Canvas(%dx%d, %dpx)", c.cols, c.rows, c.buttonSize)
}

// Close releases the drawing context. Close is idempotent.
func (c *Canvas) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	err := c.ctx.Close()
	return err
}

// ready returns ErrCanvasClosed once Close has been called.
func (c *Canvas) ready() error {
	if c.closed {
		return ErrCanvasClosed
	}
	return nil
}
