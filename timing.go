package deckcanvas

import (
	"sync"
	"time"
)

// DefaultFPSWindow is the number of frame intervals FPSCounter averages.
const DefaultFPSWindow = 30

// FPSCounter computes a frame rate averaged over a sliding window of frame
// intervals. It is safe for concurrent use.
type FPSCounter struct {
	mu     sync.Mutex
	window int
	times  []time.Duration
	last   time.Time
	fps    float64
	now    func() time.Time
}

// NewFPSCounter creates a counter averaging over window intervals.
// A window below 1 uses DefaultFPSWindow.
func NewFPSCounter(window int) *FPSCounter {
	if window < 1 {
		window = DefaultFPSWindow
	}
	return &FPSCounter{window: window, now: time.Now}
}

// Update records a frame at the current time and returns the new rate.
// The first call only sets the reference point and returns 0.
func (f *FPSCounter) Update() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now()
	if !f.last.IsZero() {
		f.times = append(f.times, now.Sub(f.last))
		if len(f.times) > f.window {
			f.times = f.times[len(f.times)-f.window:]
		}
		var sum time.Duration
		for _, d := range f.times {
			sum += d
		}
		if avg := sum / time.Duration(len(f.times)); avg > 0 {
			f.fps = float64(time.Second) / float64(avg)
		} else {
			f.fps = 0
		}
	}
	f.last = now
	return f.fps
}

// FPS returns the last computed rate without recording a frame.
func (f *FPSCounter) FPS() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fps
}

// Reset forgets all recorded frames.
func (f *FPSCounter) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.times = f.times[:0]
	f.last = time.Time{}
	f.fps = 0
}

// Stopwatch measures a single elapsed interval.
// The zero value is ready to use.
type Stopwatch struct {
	start, end time.Time
}

// Start (re)starts the stopwatch.
func (s *Stopwatch) Start() {
	s.start = time.Now()
	s.end = time.Time{}
}

// Stop freezes the elapsed time. Stop before Start is a no-op.
func (s *Stopwatch) Stop() {
	if !s.start.IsZero() {
		s.end = time.Now()
	}
}

// Elapsed returns the time since Start, or the frozen interval after Stop.
func (s *Stopwatch) Elapsed() time.Duration {
	if s.start.IsZero() {
		return 0
	}
	if s.end.IsZero() {
		return time.Since(s.start)
	}
	return s.end.Sub(s.start)
}

// Reset clears the stopwatch.
func (s *Stopwatch) Reset() {
	*s = Stopwatch{}
}
