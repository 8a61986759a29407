package widget

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/gogpu/deckcanvas"
)

// Manager holds the widgets of a page in drawing order. Later widgets are
// drawn on top and win hit tests.
//
// Manager is safe for concurrent use. Render, Press and Update callbacks
// never run at the same time. They may add, remove and look up widgets,
// but must not call RenderAll, Press or Update.
type Manager struct {
	// run serializes widget callbacks; mu guards the slice only.
	run     sync.Mutex
	mu      sync.Mutex
	widgets []Widget
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{}
}

// Add appends w and returns it for chaining. A nil widget is ignored.
func (m *Manager) Add(w Widget) Widget {
	if w == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.widgets = append(m.widgets, w)
	return w
}

// Remove deletes w and reports whether it was present.
func (m *Manager) Remove(w Widget) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.Index(m.widgets, w)
	if i < 0 {
		return false
	}
	m.widgets = slices.Delete(m.widgets, i, i+1)
	return true
}

// Clear removes every widget.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.widgets = nil
}

// Replace swaps the whole page for ws in one step, so a renderer never
// draws a half-loaded page. Nil widgets are dropped.
func (m *Manager) Replace(ws ...Widget) {
	ws = slices.DeleteFunc(slices.Clone(ws), func(w Widget) bool { return w == nil })
	m.mu.Lock()
	defer m.mu.Unlock()
	m.widgets = ws
}

// Len returns the number of widgets.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.widgets)
}

// All returns the widgets in drawing order.
func (m *Manager) All() []Widget {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.widgets)
}

// RenderAll renders every visible widget in order. A failing widget is
// logged and skipped; the failures are returned joined as *RenderError.
func (m *Manager) RenderAll(c *deckcanvas.Canvas) error {
	m.run.Lock()
	defer m.run.Unlock()

	var errs []error
	for _, w := range m.All() {
		if !w.Visible() {
			continue
		}
		if err := w.Render(c); err != nil {
			name := fmt.Sprintf("%T", w)
			deckcanvas.Logger().Warn("widget render failed", "widget", name, "error", err)
			errs = append(errs, &RenderError{Widget: name, Err: err})
		}
	}
	return errors.Join(errs...)
}

// FindAt returns the topmost visible widget covering (col, row), or nil.
func (m *Manager) FindAt(col, row int) Widget {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.findAt(col, row)
}

func (m *Manager) findAt(col, row int) Widget {
	for _, w := range slices.Backward(m.widgets) {
		if !w.Visible() {
			continue
		}
		wc, wr, ww, wh := w.Bounds()
		if col >= wc && col < wc+ww && row >= wr && row < wr+wh {
			return w
		}
	}
	return nil
}

// Press routes a key press to the topmost widget at (col, row) if it
// implements Presser, and reports whether one handled it.
func (m *Manager) Press(col, row int) bool {
	m.run.Lock()
	defer m.run.Unlock()
	p, ok := m.FindAt(col, row).(Presser)
	if !ok {
		return false
	}
	p.Press(col, row)
	return true
}

// Update runs fn between frames, so fn may mutate widgets while a
// renderer is drawing from another goroutine.
func (m *Manager) Update(fn func()) {
	m.run.Lock()
	defer m.run.Unlock()
	fn()
}

func (m *Manager) String() string {
	return fmt.Sprintf("Manager(%d widgets)", m.Len())
}

// ByType returns the widgets of m whose dynamic type is T.
func ByType[T Widget](m *Manager) []T {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []T
	for _, w := range m.widgets {
		if t, ok := w.(T); ok {
			out = append(out, t)
		}
	}
	return out
}
