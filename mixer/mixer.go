// Package mixer controls the system output volume.
//
// Pulse talks to a PulseAudio (or PipeWire-pulse) server. Static keeps the
// state in memory and stands in where no audio server is reachable.
package mixer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/lawl/pulseaudio"

	"github.com/gogpu/deckcanvas"
)

// MaxVolume is the highest level accepted by SetVolume. Levels above 1
// boost the signal.
const MaxVolume = 1.5

// ErrClosed is returned by a mixer after Close.
var ErrClosed = errors.New("mixer: closed")

// Mixer is the default output sink.
type Mixer interface {
	// Volume returns the level, 1 being unamplified.
	Volume() (float64, error)
	SetVolume(v float64) error
	// ToggleMute flips the mute state and returns the new one.
	ToggleMute() (bool, error)
	Muted() (bool, error)
	// Updates signals changes made by any client. Signals are coalesced.
	Updates() (<-chan struct{}, error)
	Close() error
}

func checkVolume(v float64) error {
	if v < 0 || v > MaxVolume {
		return fmt.Errorf("%w: volume %.2f outside 0..%.1f", deckcanvas.ErrInvalidParameter, v, MaxVolume)
	}
	return nil
}

// Step changes the volume by delta, clamped to 0..1, and returns the new
// level.
func Step(m Mixer, delta float64) (float64, error) {
	v, err := m.Volume()
	if err != nil {
		return 0, err
	}
	v = deckcanvas.Clamp(v+delta, 0, 1)
	if err := m.SetVolume(v); err != nil {
		return 0, err
	}
	return v, nil
}

// Pulse controls the default sink of a PulseAudio server.
type Pulse struct {
	client *pulseaudio.Client

	mu     sync.Mutex
	closed bool
}

var _ Mixer = (*Pulse)(nil)

// NewPulse connects to the server at addr, or to the default socket when
// addr is empty.
func NewPulse(addr ...string) (*Pulse, error) {
	c, err := pulseaudio.NewClient(addr...)
	if err != nil {
		return nil, fmt.Errorf("mixer: connect pulseaudio: %w", err)
	}
	info, err := c.ServerInfo()
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("mixer: server info: %w", err)
	}
	deckcanvas.Logger().Info("audio server connected",
		"package", info.PackageName, "version", info.PackageVersion, "sink", info.DefaultSink)
	return &Pulse{client: c}, nil
}

func (p *Pulse) live() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	return nil
}

func (p *Pulse) Volume() (float64, error) {
	if err := p.live(); err != nil {
		return 0, err
	}
	v, err := p.client.Volume()
	if err != nil {
		return 0, fmt.Errorf("mixer: volume: %w", err)
	}
	return float64(v), nil
}

func (p *Pulse) SetVolume(v float64) error {
	if err := checkVolume(v); err != nil {
		return err
	}
	if err := p.live(); err != nil {
		return err
	}
	if err := p.client.SetVolume(float32(v)); err != nil {
		return fmt.Errorf("mixer: set volume: %w", err)
	}
	return nil
}

func (p *Pulse) ToggleMute() (bool, error) {
	if err := p.live(); err != nil {
		return false, err
	}
	muted, err := p.client.ToggleMute()
	if err != nil {
		return false, fmt.Errorf("mixer: toggle mute: %w", err)
	}
	return muted, nil
}

func (p *Pulse) Muted() (bool, error) {
	if err := p.live(); err != nil {
		return false, err
	}
	muted, err := p.client.Mute()
	if err != nil {
		return false, fmt.Errorf("mixer: mute state: %w", err)
	}
	return muted, nil
}

// Updates subscribes to server events. The channel is never closed; stop
// reading from it after Close.
func (p *Pulse) Updates() (<-chan struct{}, error) {
	if err := p.live(); err != nil {
		return nil, err
	}
	ch, err := p.client.Updates()
	if err != nil {
		return nil, fmt.Errorf("mixer: subscribe: %w", err)
	}
	return ch, nil
}

// Close disconnects from the server. Close is idempotent.
func (p *Pulse) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	p.client.Close()
	return nil
}

// Static is an in-memory Mixer.
type Static struct {
	mu      sync.Mutex
	volume  float64
	muted   bool
	closed  bool
	updates chan struct{}
}

var _ Mixer = (*Static)(nil)

// NewStatic returns a mixer at volume v, unmuted.
func NewStatic(v float64) *Static {
	return &Static{volume: deckcanvas.Clamp(v, 0, MaxVolume), updates: make(chan struct{}, 1)}
}

func (s *Static) notify() {
	select {
	case s.updates <- struct{}{}:
	default:
	}
}

func (s *Static) Volume() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	return s.volume, nil
}

func (s *Static) SetVolume(v float64) error {
	if err := checkVolume(v); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.volume != v {
		s.volume = v
		s.notify()
	}
	return nil
}

func (s *Static) ToggleMute() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrClosed
	}
	s.muted = !s.muted
	s.notify()
	return s.muted, nil
}

func (s *Static) Muted() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrClosed
	}
	return s.muted, nil
}

// Updates returns a channel that is closed by Close.
func (s *Static) Updates() (<-chan struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	return s.updates, nil
}

func (s *Static) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.updates)
	}
	return nil
}
