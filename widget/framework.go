package widget

import (
	"errors"
	"time"

	"github.com/gogpu/deckcanvas"
)

// Drawer draws a Simple widget.
type Drawer interface {
	OnDraw(c *deckcanvas.Canvas) error
}

// Setupper is optionally implemented by a Drawer to initialize state
// before the first frame.
type Setupper interface {
	OnSetup()
}

// Updater is optionally implemented by a Drawer to advance state before
// each frame.
type Updater interface {
	OnUpdate(dt time.Duration)
}

// Simple turns a Drawer into a Widget. It runs OnSetup once before the
// first render, then OnUpdate with the time since the previous render and
// finally OnDraw. Embed *Simple in the Drawer to reuse Base helpers:
//
//	type Clock struct{ *widget.Simple }
//
//	func (k *Clock) OnDraw(c *deckcanvas.Canvas) error { ... }
//
//	k := &Clock{}
//	k.Simple, err = widget.NewSimple(0, 0, 2, 1, k)
type Simple struct {
	Base

	impl    Drawer
	setup   bool
	last    time.Time
	elapsed time.Duration
	now     func() time.Time
}

// NewSimple wraps impl in a w x h widget at (col, row).
func NewSimple(col, row, w, h int, impl Drawer) (*Simple, error) {
	if impl == nil {
		return nil, errors.New("widget: nil Drawer")
	}
	base, err := NewBase(col, row, w, h)
	if err != nil {
		return nil, err
	}
	return &Simple{Base: base, impl: impl, now: time.Now}, nil
}

// Elapsed returns the time accumulated across renders.
func (s *Simple) Elapsed() time.Duration { return s.elapsed }

func (s *Simple) Render(c *deckcanvas.Canvas) error {
	if !s.Visible() {
		return nil
	}
	now := s.now()
	if !s.setup {
		s.setup = true
		s.last = now
		if su, ok := s.impl.(Setupper); ok {
			su.OnSetup()
		}
	}
	dt := now.Sub(s.last)
	s.last = now
	s.elapsed += dt
	if u, ok := s.impl.(Updater); ok {
		u.OnUpdate(dt)
	}
	if err := s.Validate(c); err != nil {
		return err
	}
	return s.impl.OnDraw(c)
}

// RenderFunc draws a widget occupying w x h buttons from (col, row).
type RenderFunc func(c *deckcanvas.Canvas, col, row, w, h int) error

// Func adapts a RenderFunc to the Widget interface.
type Func struct {
	Base
	fn RenderFunc
}

// NewFunc creates a widget drawn by fn.
func NewFunc(col, row, w, h int, fn RenderFunc) (*Func, error) {
	if fn == nil {
		return nil, errors.New("widget: nil RenderFunc")
	}
	base, err := NewBase(col, row, w, h)
	if err != nil {
		return nil, err
	}
	return &Func{Base: base, fn: fn}, nil
}

func (f *Func) Render(c *deckcanvas.Canvas) error {
	if !f.Visible() {
		return nil
	}
	if err := f.Validate(c); err != nil {
		return err
	}
	return f.fn(c, f.col, f.row, f.w, f.h)
}
