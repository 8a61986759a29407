package device

import (
	"errors"
	"fmt"
	"time"

	"github.com/karalabe/hid"

	"github.com/gogpu/deckcanvas"
)

// ReleaseBrightness is the backlight left on a deck given back with
// Release.
const ReleaseBrightness = 50

// Info is one enumerated Stream Deck.
type Info struct {
	Model     *Model
	Serial    string
	Path      string
	ProductID uint16
	Release   uint16
	Product   string
}

// Firmware returns the USB device release number as major.minor, or ""
// when the device did not report one.
func (i Info) Firmware() string {
	if i.Release == 0 {
		return ""
	}
	return fmt.Sprintf("%x.%02x", i.Release>>8, i.Release&0xff)
}

func (i Info) String() string {
	return fmt.Sprintf("%s serial=%s pid=%#04x", i.Model.Name, i.Serial, i.ProductID)
}

var _ handle = hid.Device(nil)

// Enumerate lists the attached decks of a supported model. It returns nil
// when USB HID is unavailable on this platform or the bus cannot be read.
func Enumerate() []Info {
	if !hid.Supported() {
		return nil
	}
	devs, err := hid.Enumerate(VendorID, 0)
	if err != nil {
		deckcanvas.Logger().Warn("usb enumeration failed", "error", err)
		return nil
	}
	var out []Info
	for _, dev := range devs {
		m, ok := ModelForProduct(dev.ProductID)
		if !ok {
			deckcanvas.Logger().Debug("skipping unknown elgato device", "pid", fmt.Sprintf("%#04x", dev.ProductID), "product", dev.Product)
			continue
		}
		out = append(out, Info{
			Model:     m,
			Serial:    dev.Serial,
			Path:      dev.Path,
			ProductID: dev.ProductID,
			Release:   dev.Release,
			Product:   dev.Product,
		})
	}
	return out
}

// Open opens the deck described by info.
func Open(info Info) (*Deck, error) {
	if info.Model == nil {
		return nil, fmt.Errorf("%w: product %#04x", ErrUnsupportedModel, info.ProductID)
	}
	devs, err := hid.Enumerate(VendorID, info.ProductID)
	if err != nil {
		return nil, fmt.Errorf("device: enumerate: %w", err)
	}
	for _, dev := range devs {
		if dev.Path != info.Path {
			continue
		}
		h, err := dev.Open()
		if err != nil {
			return nil, fmt.Errorf("device: open %s: %w", info.Path, err)
		}
		deckcanvas.Logger().Info("stream deck opened", "model", info.Model.Name, "serial", info.Serial)
		return newDeck(info, h, time.Now), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrDeviceNotFound, info.Path)
}

// Manager finds and opens decks.
type Manager struct {
	enumerate func() []Info
	open      func(Info) (*Deck, error)
}

// NewManager returns a manager using the system USB bus.
func NewManager() *Manager {
	return &Manager{enumerate: Enumerate, open: Open}
}

// Detect lists the attached decks.
func (m *Manager) Detect() []Info {
	return m.enumerate()
}

// ConnectFirst opens the first attached deck.
func (m *Manager) ConnectFirst() (*Deck, error) {
	return m.ConnectIndex(0)
}

// ConnectIndex opens the i-th deck in Detect order.
func (m *Manager) ConnectIndex(i int) (*Deck, error) {
	infos := m.enumerate()
	if i < 0 || i >= len(infos) {
		return nil, fmt.Errorf("%w: index %d of %d", ErrDeviceNotFound, i, len(infos))
	}
	return m.open(infos[i])
}

// ConnectSerial opens the deck with the given serial number.
func (m *Manager) ConnectSerial(serial string) (*Deck, error) {
	for _, info := range m.enumerate() {
		if info.Serial == serial {
			return m.open(info)
		}
	}
	return nil, fmt.Errorf("%w: serial %q", ErrDeviceNotFound, serial)
}

// Connect opens the deck with the given serial, or the first one when
// serial is empty.
func (m *Manager) Connect(serial string) (*Deck, error) {
	if serial == "" {
		return m.ConnectFirst()
	}
	return m.ConnectSerial(serial)
}

// Release resets d, leaves the backlight at ReleaseBrightness and closes
// it. Every step runs even if an earlier one fails.
func (m *Manager) Release(d *Deck) error {
	if d == nil {
		return nil
	}
	return errors.Join(d.Reset(), d.SetBrightness(ReleaseBrightness), d.Close())
}
