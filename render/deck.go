// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"
	"image"

	"go.uber.org/atomic"

	"github.com/gogpu/deckcanvas"
)

// MaxDeviceErrors is the number of failed key writes after which a
// DeckRenderer considers the device gone.
const MaxDeviceErrors = 10

// Deck is an open Stream Deck. SetKeyImage receives an image of
// KeyImageSize pixels square in canvas orientation and encodes it in the
// device's native format.
type Deck interface {
	KeyCount() int
	KeyImageSize() int
	SetKeyImage(key int, img image.Image) error
	SetBrightness(pct int) error
	Reset() error
	Serial() (string, error)
	Firmware() (string, error)
	ModelName() string

	// SetKeyCallback registers fn for key state changes. fn runs on the
	// device reader goroutine.
	SetKeyCallback(fn func(key int, pressed bool))

	Close() error
}

// DeviceInfo describes the device behind a DeckRenderer.
type DeviceInfo struct {
	Model       string
	Serial      string
	Firmware    string
	Cols, Rows  int
	ButtonSize  int
	Keys        int
	Brightness  int
	Orientation Orientation
	Connected   bool
}

// DeckRenderer pushes frames to a Stream Deck.
type DeckRenderer struct {
	loop
	deck        Deck
	orientation Orientation

	connected  atomic.Bool
	errCount   atomic.Int64
	brightness atomic.Int64
}

var _ Renderer = (*DeckRenderer)(nil)

// NewDeckRenderer sizes a canvas for deck, applies the brightness and
// starts listening for key presses. opts.Cols, opts.Rows and
// opts.ButtonSize are ignored.
func NewDeckRenderer(deck Deck, opts Options) (*DeckRenderer, error) {
	if deck == nil {
		return nil, fmt.Errorf("%w: nil deck", deckcanvas.ErrInvalidParameter)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	cols, rows, size := deckGeometry(deck)
	c, err := deckcanvas.New(cols, rows, size, deckcanvas.WithBackground(background(opts)))
	if err != nil {
		return nil, fmt.Errorf("render: %s with %d keys: %w", deck.ModelName(), deck.KeyCount(), err)
	}
	opts.Cols, opts.Rows, opts.ButtonSize = cols, rows, size

	r := &DeckRenderer{deck: deck, orientation: opts.Orientation}
	r.init(c, opts, r.push, r.blank)
	r.connected.Store(true)

	if err := deck.SetBrightness(opts.Brightness); err != nil {
		c.Close()
		return nil, fmt.Errorf("render: set brightness: %w", err)
	}
	r.brightness.Store(int64(opts.Brightness))
	deck.SetKeyCallback(r.handleKey)

	deckcanvas.Logger().Info("stream deck ready",
		"model", deck.ModelName(), "grid", fmt.Sprintf("%dx%d", cols, rows),
		"button_size", size, "brightness", opts.Brightness, "orientation", opts.Orientation)
	return r, nil
}

// deckGeometry maps a key count to a grid using the known families and
// falls back to three rows of the device's key size.
func deckGeometry(d Deck) (cols, rows, size int) {
	if m, ok := deckcanvas.ModelForKeys(d.KeyCount()); ok {
		return m.Cols, m.Rows, m.ButtonSize
	}
	return d.KeyCount() / 3, 3, d.KeyImageSize()
}

func (r *DeckRenderer) push() error {
	if !r.connected.Load() {
		return ErrDeviceDisconnected
	}
	for _, t := range r.canvas.Tiles() {
		key, err := r.canvas.KeyIndex(t.Col, t.Row)
		if err != nil {
			return err
		}
		werr := r.deck.SetKeyImage(key, r.orientation.Apply(t.Image))
		if werr == nil {
			continue
		}
		n := r.errCount.Inc()
		deckcanvas.Logger().Warn("key write failed", "key", key, "errors", n, "error", werr)
		if n >= MaxDeviceErrors {
			r.connected.Store(false)
			if cb := r.callbacks(); cb.OnDeviceDisconnect != nil {
				cb.OnDeviceDisconnect()
			}
			return fmt.Errorf("%w after %d write errors: %w", ErrDeviceDisconnected, n, werr)
		}
	}
	return nil
}

// blank leaves the keys dark when the loop ends.
func (r *DeckRenderer) blank() error {
	if !r.connected.Load() {
		return nil
	}
	if err := r.canvas.Clear(deckcanvas.ColorBlack); err != nil {
		return err
	}
	return r.push()
}

func (r *DeckRenderer) handleKey(key int, pressed bool) {
	if !pressed {
		return
	}
	cb := r.callbacks()
	if cb.OnButtonPress == nil {
		return
	}
	col, row, err := r.canvas.ButtonForKey(key)
	if err != nil {
		r.reportError(err)
		return
	}
	cb.OnButtonPress(col, row, key)
}

// Reconnect resets the device and clears the error count.
func (r *DeckRenderer) Reconnect() error {
	if err := r.deck.Reset(); err != nil {
		deckcanvas.Logger().Warn("reconnect failed", "error", err)
		return fmt.Errorf("render: reconnect: %w", err)
	}
	r.errCount.Store(0)
	r.connected.Store(true)
	deckcanvas.Logger().Info("device reconnected", "model", r.deck.ModelName())
	return nil
}

// Deck returns the device the renderer writes to.
func (r *DeckRenderer) Deck() Deck { return r.deck }

// Connected reports whether the device is still accepting frames.
func (r *DeckRenderer) Connected() bool { return r.connected.Load() }

// SetBrightness changes the backlight, 0..100.
func (r *DeckRenderer) SetBrightness(pct int) error {
	if err := ValidateBrightness(pct); err != nil {
		return err
	}
	if err := r.deck.SetBrightness(pct); err != nil {
		return fmt.Errorf("render: set brightness: %w", err)
	}
	r.brightness.Store(int64(pct))
	return nil
}

// Brightness returns the last brightness applied.
func (r *DeckRenderer) Brightness() int { return int(r.brightness.Load()) }

// DeviceInfo describes the device. Serial and firmware read failures are
// reported as "unknown".
func (r *DeckRenderer) DeviceInfo() DeviceInfo {
	return DeviceInfo{
		Model:       r.deck.ModelName(),
		Serial:      orUnknown(r.deck.Serial()),
		Firmware:    orUnknown(r.deck.Firmware()),
		Cols:        r.canvas.Cols(),
		Rows:        r.canvas.Rows(),
		ButtonSize:  r.canvas.ButtonSize(),
		Keys:        r.deck.KeyCount(),
		Brightness:  r.Brightness(),
		Orientation: r.orientation,
		Connected:   r.Connected(),
	}
}

func orUnknown(s string, err error) string {
	if err != nil || s == "" {
		return "unknown"
	}
	return s
}

// Stats returns the loop counters and the device state.
func (r *DeckRenderer) Stats() Stats {
	s := r.stats()
	s.DeviceConnected = r.Connected()
	s.ErrorCount = int(r.errCount.Load())
	return s
}

// Close detaches the key callback and closes the device and the canvas.
// Call it after Run has returned.
func (r *DeckRenderer) Close() error {
	r.Stop()
	r.deck.SetKeyCallback(nil)
	err := r.deck.Close()
	if cerr := r.canvas.Close(); err == nil {
		err = cerr
	}
	return err
}

func (r *DeckRenderer) String() string {
	return fmt.Sprintf("DeckRenderer(%s, %dx%d, %dfps)", r.deck.ModelName(), r.canvas.Cols(), r.canvas.Rows(), r.opts.FPS)
}
