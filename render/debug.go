// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"
	"path/filepath"

	"github.com/gogpu/deckcanvas"
)

// debugLogEvery is how often DebugRenderer logs a saved frame.
const debugLogEvery = 30

// DebugRenderer writes every frame to a numbered PNG file instead of a
// device.
type DebugRenderer struct {
	loop
	dir string
}

var _ Renderer = (*DebugRenderer)(nil)

// NewDebugRenderer creates a renderer saving opts.Cols x opts.Rows frames
// into opts.DebugDir. The directory is created on the first frame.
func NewDebugRenderer(opts Options) (*DebugRenderer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.DebugDir == "" {
		opts.DebugDir = DefaultOptions().DebugDir
	}
	c, err := deckcanvas.New(opts.Cols, opts.Rows, opts.ButtonSize, deckcanvas.WithBackground(background(opts)))
	if err != nil {
		return nil, err
	}
	d := &DebugRenderer{dir: opts.DebugDir}
	d.init(c, opts, d.save, nil)
	return d, nil
}

// Dir returns the output directory.
func (d *DebugRenderer) Dir() string { return d.dir }

// FramePath returns the file a frame number is written to.
func (d *DebugRenderer) FramePath(frame int) string {
	return filepath.Join(d.dir, fmt.Sprintf("debug_frame_%04d.png", frame))
}

func (d *DebugRenderer) save() error {
	n := d.FrameCount()
	path := d.FramePath(n)
	if err := d.canvas.SaveDebug(path); err != nil {
		return err
	}
	if n%debugLogEvery == 0 {
		deckcanvas.Logger().Info("debug frame saved", "path", path)
	}
	return nil
}

// Stats returns the loop counters and the output directory.
func (d *DebugRenderer) Stats() Stats {
	s := d.stats()
	s.DeviceConnected = true
	s.DebugDir = d.dir
	return s
}

// Close releases the canvas. Call it after Run has returned.
func (d *DebugRenderer) Close() error {
	d.Stop()
	return d.canvas.Close()
}

func (d *DebugRenderer) String() string {
	return fmt.Sprintf("DebugRenderer(%dx%d, %dfps)", d.canvas.Cols(), d.canvas.Rows(), d.opts.FPS)
}

func background(opts Options) string {
	if opts.Background == "" {
		return deckcanvas.ColorBlack
	}
	return opts.Background
}
