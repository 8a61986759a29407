// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/deckcanvas"
)

// Errors.
var (
	// ErrAlreadyRunning is returned by Run while another Run is active.
	ErrAlreadyRunning = errors.New("render: renderer already running")

	// ErrInvalidFrameRate is returned for a frame rate outside 1..60.
	ErrInvalidFrameRate = errors.New("render: invalid frame rate")

	// ErrDeviceDisconnected is returned once a device has failed too often.
	ErrDeviceDisconnected = errors.New("render: device disconnected")

	// ErrInvalidOrientation is returned for an unknown orientation name.
	ErrInvalidOrientation = errors.New("render: invalid orientation")

	// ErrInvalidBrightness is returned for a brightness outside 0..100.
	ErrInvalidBrightness = errors.New("render: invalid brightness")
)

// Frame rate bounds.
const (
	MinFPS = 1
	MaxFPS = 60
)

// DrawFunc draws one frame. frame counts from 0 and dt is the time since
// the previous frame started.
type DrawFunc func(c *deckcanvas.Canvas, frame int, dt time.Duration) error

// Renderer drives a canvas to an output.
type Renderer interface {
	// Canvas returns the canvas drawn each frame.
	Canvas() *deckcanvas.Canvas

	// Update pushes the current canvas content to the output.
	Update() error

	// RenderFrame clears the canvas, calls draw and pushes the result.
	RenderFrame(draw DrawFunc) error

	// Run renders frames until ctx is done, Stop is called or a frame
	// fails. It returns nil when stopped.
	Run(ctx context.Context, draw DrawFunc) error

	// Stop ends a running loop. Stop is safe to call at any time.
	Stop()

	Running() bool
	FrameCount() int
	FPS() float64
	SetCallbacks(cb Callbacks)
	Stats() Stats

	// Close releases the canvas and the output. Call it after Run has
	// returned.
	Close() error
}

// Callbacks are lifecycle hooks. Nil fields are skipped.
// OnFrame and OnButtonPress may run on a goroutine other than the caller
// of Run.
type Callbacks struct {
	OnStart            func()
	OnStop             func()
	OnFrame            func(frame int, fps float64)
	OnError            func(err error)
	OnDeviceDisconnect func()
	OnButtonPress      func(col, row, key int)
}

// Stats is a snapshot of renderer counters.
type Stats struct {
	FrameCount      int
	FPS             float64
	TargetFPS       int
	DeviceConnected bool
	ErrorCount      int
	RenderTime      time.Duration
	DebugDir        string
}

// Options configures a renderer. Cols, Rows and ButtonSize are ignored by
// DeckRenderer, which takes its geometry from the device.
type Options struct {
	Cols, Rows  int
	ButtonSize  int
	FPS         int
	Brightness  int
	Orientation Orientation
	DebugDir    string
	Serial      string
	Background  string
}

// DefaultOptions returns a classic 5x3 layout at 15 fps.
func DefaultOptions() Options {
	return Options{
		Cols:        deckcanvas.Classic.Cols,
		Rows:        deckcanvas.Classic.Rows,
		ButtonSize:  deckcanvas.Classic.ButtonSize,
		FPS:         15,
		Brightness:  80,
		Orientation: Normal,
		DebugDir:    "./debug_frames",
		Background:  deckcanvas.ColorBlack,
	}
}

// Validate checks the frame rate, brightness and orientation.
func (o Options) Validate() error {
	if err := ValidateFPS(o.FPS); err != nil {
		return err
	}
	if err := ValidateBrightness(o.Brightness); err != nil {
		return err
	}
	if !o.Orientation.valid() {
		return fmt.Errorf("%w: %d", ErrInvalidOrientation, int(o.Orientation))
	}
	return nil
}

// ValidateFPS reports whether fps is within MinFPS..MaxFPS.
func ValidateFPS(fps int) error {
	if fps < MinFPS || fps > MaxFPS {
		return fmt.Errorf("%w: %d (want %d..%d)", ErrInvalidFrameRate, fps, MinFPS, MaxFPS)
	}
	return nil
}

// ValidateBrightness reports whether pct is within 0..100.
func ValidateBrightness(pct int) error {
	if pct < 0 || pct > 100 {
		return fmt.Errorf("%w: %d (want 0..100)", ErrInvalidBrightness, pct)
	}
	return nil
}
