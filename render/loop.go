// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/gogpu/deckcanvas"
)

// loop is the frame loop shared by every renderer. The embedding renderer
// supplies push, which writes the canvas to its output, and optionally
// finish, which runs once after Run returns.
type loop struct {
	canvas *deckcanvas.Canvas
	opts   Options
	push   func() error
	finish func() error
	fps    *deckcanvas.FPSCounter

	running    atomic.Bool
	frames     atomic.Int64
	renderTime atomic.Duration

	mu     sync.Mutex // guards cb and cancel
	cb     Callbacks
	cancel context.CancelFunc

	// frameMu serializes canvas access between RenderFrame, Update and Run.
	frameMu sync.Mutex
	last    time.Time
}

func (l *loop) init(c *deckcanvas.Canvas, opts Options, push, finish func() error) {
	l.canvas = c
	l.opts = opts
	l.push = push
	l.finish = finish
	l.fps = deckcanvas.NewFPSCounter(deckcanvas.DefaultFPSWindow)
}

// Canvas returns the canvas drawn each frame.
func (l *loop) Canvas() *deckcanvas.Canvas { return l.canvas }

// Running reports whether Run is active.
func (l *loop) Running() bool { return l.running.Load() }

// FrameCount returns the number of frames pushed so far.
func (l *loop) FrameCount() int { return int(l.frames.Load()) }

// FPS returns the measured frame rate.
func (l *loop) FPS() float64 { return l.fps.FPS() }

// SetCallbacks replaces the lifecycle hooks.
func (l *loop) SetCallbacks(cb Callbacks) {
	l.mu.Lock()
	l.cb = cb
	l.mu.Unlock()
}

func (l *loop) callbacks() Callbacks {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cb
}

// Update pushes the current canvas content without drawing a frame.
func (l *loop) Update() error {
	l.frameMu.Lock()
	defer l.frameMu.Unlock()
	if err := l.push(); err != nil {
		l.reportError(err)
		return err
	}
	return nil
}

// RenderFrame clears the canvas, calls draw and pushes the result.
func (l *loop) RenderFrame(draw DrawFunc) error {
	if err := l.renderFrame(draw, time.Now()); err != nil {
		l.reportError(err)
		return err
	}
	return nil
}

// Stop ends a running loop. The loop finishes the current frame first.
func (l *loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
	}
}

// Run renders frames at the configured rate until ctx is done, Stop is
// called or a frame fails. The failing frame's error is returned.
func (l *loop) Run(ctx context.Context, draw DrawFunc) error {
	l.mu.Lock()
	if l.running.Load() {
		l.mu.Unlock()
		return ErrAlreadyRunning
	}
	ctx, cancel := context.WithCancel(ctx)
	l.running.Store(true)
	l.cancel = cancel
	l.mu.Unlock()

	log := deckcanvas.Logger()
	defer func() {
		cancel()
		l.mu.Lock()
		l.cancel = nil
		l.mu.Unlock()

		if l.finish != nil {
			l.frameMu.Lock()
			if err := l.finish(); err != nil {
				log.Warn("renderer cleanup failed", "error", err)
			}
			l.frameMu.Unlock()
		}
		l.running.Store(false)
		if cb := l.callbacks(); cb.OnStop != nil {
			cb.OnStop()
		}
		log.Info("renderer stopped", "frames", l.FrameCount())
	}()

	if cb := l.callbacks(); cb.OnStart != nil {
		cb.OnStart()
	}
	log.Info("renderer started", "canvas", l.canvas.String(), "fps", l.opts.FPS)

	interval := time.Second / time.Duration(l.opts.FPS)
	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		start := time.Now()
		if err := l.renderFrame(draw, start); err != nil {
			l.reportError(err)
			return err
		}

		wait := interval - time.Since(start)
		if wait <= 0 {
			continue
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(wait)
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}
	}
}

func (l *loop) renderFrame(draw DrawFunc, start time.Time) error {
	l.frameMu.Lock()
	defer l.frameMu.Unlock()

	var dt time.Duration
	if !l.last.IsZero() {
		dt = start.Sub(l.last)
	}
	l.last = start

	if err := l.canvas.Clear(l.opts.Background); err != nil {
		return err
	}
	frame := l.FrameCount()
	if draw != nil {
		if err := draw(l.canvas, frame, dt); err != nil {
			return fmt.Errorf("render: frame %d: %w", frame, err)
		}
	}
	if err := l.push(); err != nil {
		return err
	}

	n := l.frames.Inc()
	fps := l.fps.Update()
	l.renderTime.Store(time.Since(start))
	deckcanvas.Logger().Debug("frame rendered", "frame", frame, "fps", fps)

	if cb := l.callbacks(); cb.OnFrame != nil {
		cb.OnFrame(int(n), fps)
	}
	return nil
}

func (l *loop) reportError(err error) {
	deckcanvas.Logger().Warn("render error", "error", err)
	if cb := l.callbacks(); cb.OnError != nil {
		cb.OnError(err)
	}
}

func (l *loop) stats() Stats {
	return Stats{
		FrameCount: l.FrameCount(),
		FPS:        l.FPS(),
		TargetFPS:  l.opts.FPS,
		RenderTime: l.renderTime.Load(),
	}
}
