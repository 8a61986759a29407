// Package app runs a widget page on the best available renderer.
//
//	a := app.New(app.DefaultOptions(), app.Hooks{
//		Setup: func(a *app.App) error {
//			b, err := widget.NewButton(0, 0, "▶", "Play")
//			if err != nil {
//				return err
//			}
//			a.Widgets().Add(b)
//			return nil
//		},
//	})
//	err := a.Run(ctx)
//
// Run stops on SIGINT, SIGTERM, context cancellation or when the renderer
// stops (for example q in the terminal renderer).
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/deckcanvas"
	"github.com/gogpu/deckcanvas/config"
	"github.com/gogpu/deckcanvas/device"
	"github.com/gogpu/deckcanvas/render"
	"github.com/gogpu/deckcanvas/widget"
)

// BackendAuto selects the highest priority available backend.
const BackendAuto = "auto"

// Options configures an App.
type Options struct {
	// FPS overrides Render.FPS when positive.
	FPS int
	// Backend is BackendAuto or a registered backend name.
	Backend string
	Render  render.Options
	// ConfigPath is watched when WatchConfig is set. Brightness changes
	// apply live; other settings need a restart.
	ConfigPath  string
	WatchConfig bool

	// Registry defaults to the global backend registry.
	Registry *render.Registry
}

// DefaultOptions returns automatic backend selection with the default
// render options.
func DefaultOptions() Options {
	return Options{Backend: BackendAuto, Render: render.DefaultOptions()}
}

// FromConfig builds options from user settings.
func FromConfig(c *config.Config, path string) Options {
	return Options{
		Backend:    c.Backend,
		Render:     c.RenderOptions(),
		ConfigPath: path,
	}
}

// Hooks are the application callbacks. All are optional.
type Hooks struct {
	// Setup runs once the renderer exists, before the first frame.
	Setup func(a *App) error
	// Loop runs before the widgets are drawn each frame. dt is zero on
	// the first frame.
	Loop func(a *App, dt time.Duration) error
	// Cleanup runs when Run returns, even if Setup failed.
	Cleanup func(a *App)
	// Press runs after a button press was routed to the widgets. handled
	// reports whether a widget took it.
	Press func(a *App, col, row int, handled bool)
}

// App ties a renderer to a widget manager.
type App struct {
	opts    Options
	hooks   Hooks
	widgets *widget.Manager

	mu       sync.Mutex
	renderer render.Renderer
}

// New creates an app. Nothing is opened until Run.
func New(opts Options, hooks Hooks) *App {
	if opts.Backend == "" {
		opts.Backend = BackendAuto
	}
	if opts.FPS > 0 {
		opts.Render.FPS = opts.FPS
	}
	return &App{opts: opts, hooks: hooks, widgets: widget.NewManager()}
}

// Renderer returns the active renderer, or nil outside Run.
func (a *App) Renderer() render.Renderer {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.renderer
}

// Widgets returns the page's widgets.
func (a *App) Widgets() *widget.Manager { return a.widgets }

// Canvas returns the renderer's canvas, or nil outside Run.
func (a *App) Canvas() *deckcanvas.Canvas {
	if r := a.Renderer(); r != nil {
		return r.Canvas()
	}
	return nil
}

// Run opens a renderer and draws the widgets until ctx is done, a signal
// arrives or the renderer stops.
func (a *App) Run(ctx context.Context) (err error) {
	if err := a.opts.Render.Validate(); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r, err := a.openRenderer()
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.renderer = r
	a.mu.Unlock()

	log := deckcanvas.Logger()
	log.Info("app started", "renderer", fmt.Sprint(r), "widgets", a.widgets.Len())

	defer func() {
		if a.hooks.Cleanup != nil {
			a.hooks.Cleanup(a)
		}
		err = errors.Join(err, a.release(r))
		a.mu.Lock()
		a.renderer = nil
		a.mu.Unlock()
		log.Info("app stopped", "frames", r.FrameCount())
	}()

	r.SetCallbacks(render.Callbacks{
		OnButtonPress: a.press,
		OnDeviceDisconnect: func() {
			log.Error("stream deck disconnected")
		},
	})

	if a.hooks.Setup != nil {
		if err := a.hooks.Setup(a); err != nil {
			return fmt.Errorf("app: setup: %w", err)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return r.Run(gctx, a.draw)
	})
	if a.opts.WatchConfig && a.opts.ConfigPath != "" {
		g.Go(func() error {
			return config.Watch(gctx, a.opts.ConfigPath, a.applyConfig)
		})
	}
	return g.Wait()
}

func (a *App) openRenderer() (render.Renderer, error) {
	reg := a.opts.Registry
	newByName, newAuto := render.NewByName, render.New
	if reg != nil {
		newByName, newAuto = reg.NewByName, reg.New
	}
	if a.opts.Backend != BackendAuto {
		return newByName(a.opts.Backend, a.opts.Render)
	}
	r, err := newAuto(a.opts.Render)
	if err == nil {
		return r, nil
	}
	deckcanvas.Logger().Warn("no backend started, using debug", "error", err)
	r, derr := newByName("debug", a.opts.Render)
	if derr != nil {
		return nil, errors.Join(err, derr)
	}
	return r, nil
}

func (a *App) draw(c *deckcanvas.Canvas, _ int, dt time.Duration) error {
	if a.hooks.Loop != nil {
		if err := a.hooks.Loop(a, dt); err != nil {
			return err
		}
	}
	// Failed widgets are logged by RenderAll; the rest of the page still
	// draws.
	_ = a.widgets.RenderAll(c)
	return nil
}

func (a *App) press(col, row, key int) {
	handled := a.widgets.Press(col, row)
	deckcanvas.Logger().Debug("button pressed", "col", col, "row", row, "key", key, "handled", handled)
	if a.hooks.Press != nil {
		a.hooks.Press(a, col, row, handled)
	}
}

func (a *App) applyConfig(c *config.Config, err error) {
	if err != nil {
		return
	}
	dr, ok := a.Renderer().(*render.DeckRenderer)
	if !ok {
		return
	}
	if c.Brightness != dr.Brightness() {
		if err := dr.SetBrightness(c.Brightness); err != nil {
			deckcanvas.Logger().Warn("apply brightness failed", "error", err)
		}
	}
}

// release hands a stream deck back in a neutral state and closes the
// renderer.
func (a *App) release(r render.Renderer) error {
	var errs []error
	if dr, ok := r.(*render.DeckRenderer); ok {
		if d, ok := dr.Deck().(*device.Deck); ok {
			errs = append(errs, device.NewManager().Release(d))
		}
	}
	errs = append(errs, r.Close())
	return errors.Join(errs...)
}
