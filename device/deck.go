package device

import (
	"bytes"
	"errors"
	"fmt"
	"hash/maphash"
	"image"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/gogpu/deckcanvas"
	"github.com/gogpu/deckcanvas/internal/cache"
)

// Errors.
var (
	ErrDeviceNotFound   = errors.New("device: no stream deck found")
	ErrUnsupportedModel = errors.New("device: unsupported model")
	ErrShortWrite       = errors.New("device: short write")
	ErrClosed           = errors.New("device: closed")
)

// debounce is the minimum time between two presses of the same key.
const debounce = 100 * time.Millisecond

// readSize is the input report buffer size.
const readSize = 512

// encodedTiles is the number of encoded key images kept per deck. Static
// pages redraw the same tiles every frame.
const encodedTiles = 64

// handle is the part of a HID device the deck uses. hid.Device
// implements it.
type handle interface {
	Write(b []byte) (int, error)
	Read(b []byte) (int, error)
	SendFeatureReport(b []byte) (int, error)
	GetFeatureReport(b []byte) (int, error)
	Close() error
}

// Deck is an open Stream Deck.
type Deck struct {
	info  Info
	model *Model
	h     handle

	writeMu sync.Mutex

	seed    maphash.Seed
	encoded *cache.Cache[tileKey, []byte]

	cbMu sync.Mutex
	cb   func(key int, pressed bool)

	closed atomic.Bool
	done   chan struct{}
	now    func() time.Time
}

// newDeck wraps an open handle and starts the key reader. now is the
// clock used for debouncing.
func newDeck(info Info, h handle, now func() time.Time) *Deck {
	d := &Deck{
		info:  info,
		model: info.Model,
		h:     h,
		done:  make(chan struct{}),
		now:   now,

		seed:    maphash.MakeSeed(),
		encoded: cache.New[tileKey, []byte](encodedTiles),
	}
	go d.readKeys()
	return d
}

// Info returns the enumeration record the deck was opened from.
func (d *Deck) Info() Info { return d.info }

// Model returns the protocol description of the deck.
func (d *Deck) Model() *Model { return d.model }

func (d *Deck) KeyCount() int     { return d.model.Keys }
func (d *Deck) KeyImageSize() int { return d.model.ImageSize }
func (d *Deck) ModelName() string { return d.model.Name }

// Serial returns the USB serial number.
func (d *Deck) Serial() (string, error) {
	if d.info.Serial == "" {
		return "", errors.New("device: serial not reported")
	}
	return d.info.Serial, nil
}

// Firmware returns the version string from the firmware feature report.
// Devices that do not answer fall back to the USB release number.
func (d *Deck) Firmware() (string, error) {
	fw, err := d.readFirmware()
	if err == nil && fw != "" {
		return fw, nil
	}
	if err != nil {
		deckcanvas.Logger().Debug("firmware report failed", "model", d.model.Name, "error", err)
	}
	if fw = d.info.Firmware(); fw == "" {
		return "", errors.New("device: firmware not reported")
	}
	return fw, nil
}

func (d *Deck) readFirmware() (string, error) {
	if d.closed.Load() {
		return "", ErrClosed
	}
	buf := make([]byte, d.model.featureSize)
	buf[0] = d.model.firmwareReport
	d.writeMu.Lock()
	n, err := d.h.GetFeatureReport(buf)
	d.writeMu.Unlock()
	if err != nil {
		return "", err
	}
	if n <= d.model.firmwareOffset {
		return "", fmt.Errorf("device: firmware report of %d bytes", n)
	}
	fw := buf[d.model.firmwareOffset:n]
	if i := bytes.IndexByte(fw, 0); i >= 0 {
		fw = fw[:i]
	}
	return string(bytes.TrimSpace(fw)), nil
}

// SetKeyImage encodes img for the panel and writes it to key.
func (d *Deck) SetKeyImage(key int, img image.Image) error {
	if key < 0 || key >= d.model.Keys {
		return fmt.Errorf("device: key %d outside 0..%d", key, d.model.Keys-1)
	}
	data, err := d.encode(img)
	if err != nil {
		return err
	}
	d.writeMu.Lock()
	defer d.writeMu.Unlock()
	for _, report := range d.model.pages(key, data) {
		if err := d.write(report); err != nil {
			return fmt.Errorf("device: key %d: %w", key, err)
		}
	}
	return nil
}

type tileKey struct {
	sum  uint64
	w, h int
}

// encode returns the native bytes for img, reusing the result for
// identical RGBA images.
func (d *Deck) encode(img image.Image) ([]byte, error) {
	rgba, ok := img.(*image.RGBA)
	if !ok {
		return Encode(d.model, img)
	}
	return d.encoded.GetOrCreate(d.tileKey(rgba), func() ([]byte, error) {
		return Encode(d.model, img)
	})
}

func (d *Deck) tileKey(img *image.RGBA) tileKey {
	var h maphash.Hash
	h.SetSeed(d.seed)
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := img.PixOffset(b.Min.X, y)
		h.Write(img.Pix[i : i+4*b.Dx()])
	}
	return tileKey{sum: h.Sum64(), w: b.Dx(), h: b.Dy()}
}

func (d *Deck) write(report []byte) error {
	if d.closed.Load() {
		return ErrClosed
	}
	n, err := d.h.Write(report)
	if err != nil {
		return err
	}
	if n < len(report) {
		return fmt.Errorf("%w: %d of %d bytes", ErrShortWrite, n, len(report))
	}
	return nil
}

func (d *Deck) sendFeature(report []byte) error {
	if d.closed.Load() {
		return ErrClosed
	}
	d.writeMu.Lock()
	defer d.writeMu.Unlock()
	_, err := d.h.SendFeatureReport(report)
	return err
}

// SetBrightness sets the backlight, 0..100.
func (d *Deck) SetBrightness(pct int) error {
	if pct < 0 || pct > 100 {
		return fmt.Errorf("device: brightness %d outside 0..100", pct)
	}
	if err := d.sendFeature(d.model.BrightnessReport(pct)); err != nil {
		return fmt.Errorf("device: set brightness: %w", err)
	}
	return nil
}

// Reset shows the Elgato logo and resets the protocol state.
func (d *Deck) Reset() error {
	if err := d.sendFeature(d.model.ResetReport()); err != nil {
		return fmt.Errorf("device: reset: %w", err)
	}
	return nil
}

// SetKeyCallback registers fn for key presses and releases. A nil fn
// removes the callback.
func (d *Deck) SetKeyCallback(fn func(key int, pressed bool)) {
	d.cbMu.Lock()
	d.cb = fn
	d.cbMu.Unlock()
}

func (d *Deck) emit(key int, pressed bool) {
	d.cbMu.Lock()
	cb := d.cb
	d.cbMu.Unlock()
	if cb != nil {
		cb(key, pressed)
	}
}

// readKeys turns input reports into press and release events until the
// handle fails or is closed. Presses of a key within debounce of the
// previous one are dropped, and a release is only sent after a press.
func (d *Deck) readKeys() {
	defer close(d.done)

	log := deckcanvas.Logger()
	m := d.model
	down := make([]bool, m.Keys)
	lastPress := make([]time.Time, m.Keys)
	buf := make([]byte, readSize)

	for {
		n, err := d.h.Read(buf)
		if err != nil {
			if !d.closed.Load() {
				log.Warn("stream deck read failed", "serial", d.info.Serial, "error", err)
			}
			return
		}
		if n < m.KeyOffset+m.Keys || buf[0] != 0x01 {
			continue
		}
		now := d.now()
		for key := 0; key < m.Keys; key++ {
			pressed := buf[m.KeyOffset+m.deviceKey(key)] != 0
			switch {
			case pressed && !down[key]:
				if now.Sub(lastPress[key]) < debounce {
					continue
				}
				down[key] = true
				lastPress[key] = now
				d.emit(key, true)
			case !pressed && down[key]:
				down[key] = false
				d.emit(key, false)
			}
		}
	}
}

// Close stops the key reader and closes the USB handle. Close is
// idempotent.
func (d *Deck) Close() error {
	if d.closed.Swap(true) {
		return nil
	}
	d.writeMu.Lock()
	err := d.h.Close()
	d.writeMu.Unlock()
	<-d.done
	return err
}

func (d *Deck) String() string {
	return fmt.Sprintf("%s (%s)", d.model.Name, d.info.Serial)
}
