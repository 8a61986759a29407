// Package demo holds the built-in pages of the deckcanvas command. Pages
// adapt to the canvas grid; the smallest supported grid is the Mini's 3x2.
package demo

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/gogpu/deckcanvas"
	"github.com/gogpu/deckcanvas/app"
	"github.com/gogpu/deckcanvas/mixer"
	"github.com/gogpu/deckcanvas/widget"
)

// ErrUnknownPage is returned by Lookup.
var ErrUnknownPage = errors.New("demo: unknown page")

// ErrGridTooSmall is returned when the canvas is smaller than 3x2.
var ErrGridTooSmall = errors.New("demo: grid too small")

const minCols, minRows = 3, 2

// stepFunc advances a page. t is the time since the first frame.
type stepFunc func(t, dt time.Duration)

// env is what a page builder gets to work with.
type env struct {
	cols, rows int
	widgets    *widget.Manager
	mixer      mixer.Mixer
}

func (e *env) add(w widget.Widget, err error) error {
	if err != nil {
		return err
	}
	e.widgets.Add(w)
	return nil
}

// Page is a built-in demo.
type Page struct {
	Name    string
	Summary string

	build func(e *env) (stepFunc, error)
}

var pages = []Page{
	{Name: "showcase", Summary: "buttons, animations and a ticker", build: buildShowcase},
	{Name: "dashboard", Summary: "gauges, a line graph and a timer", build: buildDashboard},
	{Name: "audio", Summary: "spectrum, VU meter and waveform", build: buildAudio},
	{Name: "volume", Summary: "system volume knob and mute", build: buildVolume},
}

// Pages returns the built-in pages.
func Pages() []Page {
	out := make([]Page, len(pages))
	copy(out, pages)
	return out
}

// Lookup returns the page called name.
func Lookup(name string) (Page, error) {
	for _, p := range pages {
		if p.Name == name {
			return p, nil
		}
	}
	return Page{}, fmt.Errorf("%w %q", ErrUnknownPage, name)
}

// Hooks returns app hooks that build the page on the renderer's canvas
// and animate it. m is only used by pages that control the volume; nil
// gives them an in-memory mixer.
func (p Page) Hooks(m mixer.Mixer) app.Hooks {
	var step stepFunc
	var elapsed time.Duration
	return app.Hooks{
		Setup: func(a *app.App) error {
			c := a.Canvas()
			if c.Cols() < minCols || c.Rows() < minRows {
				return fmt.Errorf("%w: %s needs %dx%d, have %dx%d",
					ErrGridTooSmall, p.Name, minCols, minRows, c.Cols(), c.Rows())
			}
			e := &env{cols: c.Cols(), rows: c.Rows(), widgets: a.Widgets(), mixer: m}
			if e.mixer == nil {
				e.mixer = mixer.NewStatic(0.5)
			}
			var err error
			if step, err = p.build(e); err != nil {
				return fmt.Errorf("demo %s: %w", p.Name, err)
			}
			deckcanvas.Logger().Info("demo page ready", "page", p.Name, "widgets", a.Widgets().Len())
			return nil
		},
		Loop: func(a *app.App, dt time.Duration) error {
			elapsed += dt
			if step != nil {
				a.Widgets().Update(func() { step(elapsed, dt) })
			}
			return nil
		},
	}
}

// wave maps t onto 0..1 with the given period and phase.
func wave(t time.Duration, period time.Duration, phase float64) float64 {
	x := 2*math.Pi*t.Seconds()/period.Seconds() + phase
	return 0.5 + 0.5*math.Sin(x)
}

var showcaseIcons = []struct{ icon, label string }{
	{"▶", "Play"},
	{"■", "Stop"},
	{"★", "Fav"},
	{"♪", "Music"},
	{"⚙", "Setup"},
	{"✉", "Mail"},
}

func buildShowcase(e *env) (stepFunc, error) {
	// Top row: buttons, then a breathing pulse and a spinner on the right.
	for col := 0; col < e.cols-2; col++ {
		ic := showcaseIcons[col%len(showcaseIcons)]
		b, err := widget.NewButton(col, 0, ic.icon, ic.label)
		if err != nil {
			return nil, err
		}
		b.OnPress = func(b *widget.Button) {
			deckcanvas.Logger().Info("showcase button", "label", b.Label, "pressed", b.Pressed())
		}
		e.widgets.Add(b)
	}
	if err := e.add(widget.NewBreathingRect(e.cols-2, 0)); err != nil {
		return nil, err
	}
	if err := e.add(widget.NewLoadingSpinner(e.cols-1, 0)); err != nil {
		return nil, err
	}

	var gauge *widget.RadialGauge
	if e.rows > 2 {
		var err error
		if gauge, err = widget.NewRadialGauge(0, 1, "LOAD"); err != nil {
			return nil, err
		}
		e.widgets.Add(gauge)
		if err := e.add(widget.NewMatrixRain(1, 1, e.cols-1, e.rows-2, 1)); err != nil {
			return nil, err
		}
	}

	ticker, err := widget.NewScrollingText(0, e.rows-1, e.cols, "deckcanvas  ·  widgets for the Stream Deck  ·  press a key")
	if err != nil {
		return nil, err
	}
	e.widgets.Add(ticker)

	return func(t, _ time.Duration) {
		if gauge != nil {
			gauge.SetValue(100 * wave(t, 4*time.Second, 0))
		}
	}, nil
}

func buildDashboard(e *env) (stepFunc, error) {
	labels := []string{"CPU", "MEM", "NET"}
	n := min(len(labels), e.cols)
	if e.cols > 3 {
		n = min(len(labels), e.cols-1)
	}
	gauges := make([]*widget.RadialGauge, n)
	for i := range gauges {
		g, err := widget.NewRadialGauge(i, 0, labels[i])
		if err != nil {
			return nil, err
		}
		g.Color = []string{deckcanvas.ColorPrimary, deckcanvas.ColorInfo, deckcanvas.ColorSuccess}[i]
		gauges[i] = g
		e.widgets.Add(g)
	}

	var timer *widget.Timer
	if e.cols > 3 {
		var err error
		if timer, err = widget.NewTimer(e.cols-1, 0); err != nil {
			return nil, err
		}
		e.widgets.Add(timer)
	}

	graph, err := widget.NewLineGraph(0, 1, e.cols-1, e.rows-1)
	if err != nil {
		return nil, err
	}
	e.widgets.Add(graph)

	pie, err := widget.NewPieChart(e.cols-1, 1, []float64{1, 1, 1},
		[]string{deckcanvas.ColorPrimary, deckcanvas.ColorInfo, deckcanvas.ColorSuccess})
	if err != nil {
		return nil, err
	}
	e.widgets.Add(pie)

	return func(t, _ time.Duration) {
		values := make([]float64, len(gauges))
		for i, g := range gauges {
			values[i] = 100 * wave(t, time.Duration(3+i)*time.Second, float64(i))
			g.SetValue(values[i])
		}
		if len(values) > 0 {
			graph.AddValue(values[0])
		}
		_ = pie.SetValues(values)
		if timer != nil {
			_ = timer.SetTime(t % timer.Total())
		}
	}, nil
}

// trackLength is the length of the simulated track on the audio page.
const trackLength = 30 * time.Second

func buildAudio(e *env) (stepFunc, error) {
	spectrum, err := widget.NewSpectrum(0, 0, e.cols-1, e.rows-1, 0)
	if err != nil {
		return nil, err
	}
	e.widgets.Add(spectrum)

	vu, err := widget.NewVUMeter(e.cols-1, 0, e.rows-1)
	if err != nil {
		return nil, err
	}
	e.widgets.Add(vu)

	wf, err := widget.NewWaveform(0, e.rows-1, e.cols)
	if err != nil {
		return nil, err
	}
	for _, cue := range []float64{0.25, 0.5, 0.75} {
		wf.AddCue(cue)
	}
	e.widgets.Add(wf)

	bands := make([]float64, spectrum.Bars())
	return func(t, _ time.Duration) {
		var sum float64
		for i := range bands {
			bands[i] = wave(t, time.Duration(400+90*i)*time.Millisecond, float64(i)) * (1 - float64(i)/float64(2*len(bands)))
			sum += bands[i]
		}
		spectrum.SetValues(bands)
		vu.SetLevel(sum / float64(len(bands)))
		wf.SetProgress(float64(t%trackLength) / float64(trackLength))
	}, nil
}

// volumeStep is the change per press of a volume button.
const volumeStep = 0.05

func buildVolume(e *env) (stepFunc, error) {
	log := deckcanvas.Logger()
	m := e.mixer

	momentary := func(col int, icon, label string, fn func()) error {
		b, err := widget.NewButton(col, 0, icon, label)
		if err != nil {
			return err
		}
		b.OnPress = func(b *widget.Button) {
			b.SetPressed(false)
			fn()
		}
		e.widgets.Add(b)
		return nil
	}

	knob, err := widget.NewRotaryVolume(1, 0)
	if err != nil {
		return nil, err
	}
	bar, err := widget.NewProgressBar(1, 1, e.cols-1)
	if err != nil {
		return nil, err
	}
	mute, err := widget.NewButton(0, 1, "M", "Mute")
	if err != nil {
		return nil, err
	}

	refresh := func() {
		v, err := m.Volume()
		if err != nil {
			log.Warn("read volume failed", "error", err)
			return
		}
		muted, err := m.Muted()
		if err != nil {
			log.Warn("read mute failed", "error", err)
			return
		}
		knob.SetLevel(v)
		bar.SetProgress(v)
		mute.SetPressed(muted)
	}
	stepBy := func(d float64) func() {
		return func() {
			if _, err := mixer.Step(m, d); err != nil {
				log.Warn("change volume failed", "error", err)
			}
			refresh()
		}
	}

	if err := momentary(0, "-", "Down", stepBy(-volumeStep)); err != nil {
		return nil, err
	}
	e.widgets.Add(knob)
	if err := momentary(2, "+", "Up", stepBy(volumeStep)); err != nil {
		return nil, err
	}
	mute.OnPress = func(*widget.Button) {
		if _, err := m.ToggleMute(); err != nil {
			log.Warn("toggle mute failed", "error", err)
		}
		refresh()
	}
	e.widgets.Add(mute)
	e.widgets.Add(bar)
	refresh()

	updates, err := m.Updates()
	if err != nil {
		log.Warn("volume updates unavailable", "error", err)
	}
	return func(_, _ time.Duration) {
		select {
		case <-updates:
			refresh()
		default:
		}
	}, nil
}
