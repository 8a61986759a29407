// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package render pushes a deckcanvas.Canvas to an output at a fixed frame
// rate.
//
// # Renderers
//
//   - DeckRenderer: a Stream Deck, through the Deck interface
//   - DebugRenderer: numbered PNG files, for development without hardware
//   - TerminalRenderer: a live preview in the terminal using half blocks
//
// All renderers share the same frame loop. Each frame clears the canvas,
// calls the DrawFunc, pushes the result and then updates the counters:
//
//	r, err := render.NewDebugRenderer(render.DefaultOptions())
//	if err != nil {
//		return err
//	}
//	err = r.Run(ctx, func(c *deckcanvas.Canvas, frame int, dt time.Duration) error {
//		return c.DrawText(2, 1, strconv.Itoa(frame), deckcanvas.TextStyle{})
//	})
//
// # Backends
//
// Renderers are also reachable by name through a registry. Built-in
// backends are "terminal" and "debug"; the device package registers
// "streamdeck" when imported. New picks the highest priority backend that
// is available and falls back to the next one on error.
package render
