// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/deckcanvas"
)

func newTestTerminal(t *testing.T) (*TerminalRenderer, tcell.SimulationScreen) {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	opts := DefaultOptions()
	opts.FPS = 60
	r, err := newTerminalRenderer(s, opts)
	require.NoError(t, err)
	s.SetSize(80, 25)
	t.Cleanup(func() { r.Close() })
	return r, s
}

func TestFitScale(t *testing.T) {
	assert.Equal(t, 4.5, fitScale(360, 216, 80, 25))
	assert.Equal(t, 1.0, fitScale(100, 100, 400, 200), "never upscales")
	assert.True(t, math.IsInf(fitScale(360, 216, 80, 1), 1))
}

func TestTerminalRenderer_Draw(t *testing.T) {
	r, s := newTestTerminal(t)

	err := r.RenderFrame(func(c *deckcanvas.Canvas, _ int, _ time.Duration) error {
		return c.DrawRect(0, 0, deckcanvas.RectStyle{Fill: "#FF0000"})
	})
	require.NoError(t, err)

	cells, w, h := s.GetContents()
	require.Equal(t, 80, w)
	require.Equal(t, 25, h)

	first := cells[2*w+2]
	assert.Equal(t, []rune{upperHalf}, first.Runes)
	fg, bg, _ := first.Style.Decompose()
	assert.Equal(t, tcell.NewRGBColor(255, 0, 0), fg)
	assert.Equal(t, tcell.NewRGBColor(255, 0, 0), bg)

	var status strings.Builder
	for x := 0; x < w; x++ {
		status.WriteString(string(cells[(h-1)*w+x].Runes))
	}
	assert.Contains(t, status.String(), "frame 0")
	assert.Contains(t, status.String(), "Canvas(5x3, 72px)")
}

func TestTerminalRenderer_Click(t *testing.T) {
	r, s := newTestTerminal(t)
	require.NoError(t, r.Update())

	presses := make(chan [3]int, 4)
	r.SetCallbacks(Callbacks{OnButtonPress: func(col, row, key int) {
		presses <- [3]int{col, row, key}
	}})

	s.InjectMouse(20, 10, tcell.Button1, tcell.ModNone)
	s.InjectMouse(20, 10, tcell.ButtonNone, tcell.ModNone)
	s.InjectMouse(5, 2, tcell.Button1, tcell.ModNone)

	select {
	case p := <-presses:
		assert.Equal(t, [3]int{1, 1, 6}, p)
	case <-time.After(time.Second):
		t.Fatal("no press delivered")
	}
	select {
	case p := <-presses:
		assert.Equal(t, [3]int{0, 0, 0}, p)
	case <-time.After(time.Second):
		t.Fatal("no second press delivered")
	}
}

func TestTerminalRenderer_QuitKey(t *testing.T) {
	r, s := newTestTerminal(t)
	started := make(chan struct{})
	r.SetCallbacks(Callbacks{OnStart: func() { close(started) }})

	done := make(chan error, 1)
	go func() { done <- r.Run(context.Background(), nil) }()
	<-started
	s.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		r.Stop()
		t.Fatal("q did not stop the loop")
	}
}
