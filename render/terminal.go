// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"
	"image"
	"math"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/gogpu/deckcanvas"
)

// upperHalf draws the top pixel as foreground and the bottom one as
// background, giving two canvas rows per terminal row.
const upperHalf = '▀'

// TerminalRenderer previews the canvas in a terminal. Mouse clicks on a
// button fire OnButtonPress; q, Esc and Ctrl-C stop the loop.
type TerminalRenderer struct {
	loop
	screen tcell.Screen
	done   chan struct{}

	mu      sync.Mutex // guards scale and pressed
	scale   float64    // canvas pixels per terminal column
	pressed bool
}

var _ Renderer = (*TerminalRenderer)(nil)

// NewTerminalRenderer takes over the terminal until Close.
func NewTerminalRenderer(opts Options) (*TerminalRenderer, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("render: terminal: %w", err)
	}
	return newTerminalRenderer(s, opts)
}

func newTerminalRenderer(s tcell.Screen, opts Options) (*TerminalRenderer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	c, err := deckcanvas.New(opts.Cols, opts.Rows, opts.ButtonSize, deckcanvas.WithBackground(background(opts)))
	if err != nil {
		return nil, err
	}
	if err := s.Init(); err != nil {
		c.Close()
		return nil, fmt.Errorf("render: terminal: %w", err)
	}
	s.EnableMouse()
	s.HideCursor()
	s.Clear()

	t := &TerminalRenderer{screen: s, done: make(chan struct{}), scale: 1}
	t.init(c, opts, t.draw, nil)
	go t.pollEvents()
	return t, nil
}

// pollEvents runs until the screen is finalized.
func (t *TerminalRenderer) pollEvents() {
	defer close(t.done)
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventResize:
			t.screen.Sync()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
				(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
				t.Stop()
			}
		case *tcell.EventMouse:
			t.handleMouse(ev)
		}
	}
}

func (t *TerminalRenderer) handleMouse(ev *tcell.EventMouse) {
	down := ev.Buttons()&tcell.Button1 != 0
	t.mu.Lock()
	press := down && !t.pressed
	t.pressed = down
	scale := t.scale
	t.mu.Unlock()
	if !press {
		return
	}

	x, y := ev.Position()
	col, row, key, ok := t.buttonAt(x, y, scale)
	if !ok {
		return
	}
	if cb := t.callbacks(); cb.OnButtonPress != nil {
		cb.OnButtonPress(col, row, key)
	}
}

// buttonAt maps a terminal cell to the button under it.
func (t *TerminalRenderer) buttonAt(x, y int, scale float64) (col, row, key int, ok bool) {
	px := int(float64(x) * scale)
	py := int(float64(2*y) * scale)
	bs := t.canvas.ButtonSize()
	col, row = px/bs, py/bs
	key, err := t.canvas.KeyIndex(col, row)
	if err != nil || px < 0 || py < 0 {
		return 0, 0, 0, false
	}
	return col, row, key, true
}

// fitScale returns the canvas pixels per terminal column that fit a w x h
// pixel image into cols x rows cells, keeping one row for the status line.
func fitScale(w, h, cols, rows int) float64 {
	rows--
	if cols < 1 || rows < 1 {
		return math.Inf(1)
	}
	return math.Max(1, math.Max(float64(w)/float64(cols), float64(h)/float64(2*rows)))
}

func (t *TerminalRenderer) draw() error {
	img := t.canvas.Image()
	sw, sh := t.screen.Size()
	scale := fitScale(img.Rect.Dx(), img.Rect.Dy(), sw, sh)

	t.mu.Lock()
	t.scale = scale
	t.mu.Unlock()

	t.screen.Clear()
	if !math.IsInf(scale, 1) {
		cw := int(float64(img.Rect.Dx()) / scale)
		ch := int(float64(img.Rect.Dy()) / (2 * scale))
		for cy := 0; cy < ch; cy++ {
			for cx := 0; cx < cw; cx++ {
				top := sample(img, cx, 2*cy, scale)
				bottom := sample(img, cx, 2*cy+1, scale)
				style := tcell.StyleDefault.Foreground(top).Background(bottom)
				t.screen.SetContent(cx, cy, upperHalf, nil, style)
			}
		}
	}

	status := fmt.Sprintf(" %s  %.1f fps  frame %d  q quits", t.canvas, t.FPS(), t.FrameCount())
	t.putString(0, sh-1, runewidth.Truncate(status, sw, "…"), tcell.StyleDefault.Reverse(true))
	t.screen.Show()
	return nil
}

func sample(img *image.RGBA, cx, py int, scale float64) tcell.Color {
	x := int(float64(cx) * scale)
	y := int(float64(py) * scale)
	if y >= img.Rect.Dy() {
		y = img.Rect.Dy() - 1
	}
	i := img.PixOffset(x, y)
	return tcell.NewRGBColor(int32(img.Pix[i]), int32(img.Pix[i+1]), int32(img.Pix[i+2]))
}

func (t *TerminalRenderer) putString(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		t.screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}

// Stats returns the loop counters.
func (t *TerminalRenderer) Stats() Stats {
	s := t.stats()
	s.DeviceConnected = true
	return s
}

// Close restores the terminal and releases the canvas. Call it after Run
// has returned.
func (t *TerminalRenderer) Close() error {
	t.Stop()
	t.screen.Fini()
	<-t.done
	return t.canvas.Close()
}
