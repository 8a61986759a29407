package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/gogpu/deckcanvas/render"
	"github.com/gogpu/deckcanvas/widget"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testOptions(t *testing.T) Options {
	t.Helper()
	dir := t.TempDir()
	reg := render.NewRegistry()
	reg.Register("debug", render.PriorityDebug, func(o render.Options) (render.Renderer, error) {
		o.DebugDir = dir
		return render.NewDebugRenderer(o)
	}, nil)

	opts := DefaultOptions()
	opts.FPS = 60
	opts.Registry = reg
	opts.Render.DebugDir = dir
	return opts
}

func TestRun_DrawsWidgetsUntilCancel(t *testing.T) {
	opts := testOptions(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var frames int
	var cleaned bool
	var canvasSeen bool
	a := New(opts, Hooks{
		Setup: func(a *App) error {
			canvasSeen = a.Canvas() != nil
			b, err := widget.NewButton(0, 0, "▶", "Play")
			if err != nil {
				return err
			}
			a.Widgets().Add(b)
			return nil
		},
		Loop: func(a *App, dt time.Duration) error {
			if frames == 0 {
				assert.Zero(t, dt)
			}
			frames++
			if frames == 3 {
				cancel()
			}
			return nil
		},
		Cleanup: func(a *App) { cleaned = true },
	})

	require.NoError(t, a.Run(ctx))
	assert.Equal(t, 3, frames)
	assert.True(t, cleaned)
	assert.True(t, canvasSeen)
	assert.Nil(t, a.Renderer())
	assert.Nil(t, a.Canvas())
	assert.FileExists(t, filepath.Join(opts.Render.DebugDir, "debug_frame_0002.png"))
}

func TestRun_SetupErrorRunsCleanup(t *testing.T) {
	boom := errors.New("boom")
	var cleaned bool
	a := New(testOptions(t), Hooks{
		Setup:   func(*App) error { return boom },
		Cleanup: func(*App) { cleaned = true },
	})
	err := a.Run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.True(t, cleaned)
}

func TestRun_LoopErrorStops(t *testing.T) {
	boom := errors.New("boom")
	a := New(testOptions(t), Hooks{
		Loop: func(*App, time.Duration) error { return boom },
	})
	err := a.Run(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestRun_UnknownBackend(t *testing.T) {
	opts := testOptions(t)
	opts.Backend = "hologram"
	err := New(opts, Hooks{}).Run(context.Background())
	var notFound *render.BackendNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestRun_InvalidOptions(t *testing.T) {
	opts := testOptions(t)
	opts.Render.Brightness = 101
	err := New(opts, Hooks{}).Run(context.Background())
	assert.ErrorIs(t, err, render.ErrInvalidBrightness)
}

func TestRun_AutoSkipsFailingBackend(t *testing.T) {
	opts := testOptions(t)
	failed := errors.New("no device")
	opts.Registry.Register("streamdeck", render.PriorityDevice, func(render.Options) (render.Renderer, error) {
		return nil, failed
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var isDebug bool
	a := New(opts, Hooks{
		Setup: func(a *App) error {
			_, isDebug = a.Renderer().(*render.DebugRenderer)
			cancel()
			return nil
		},
	})
	require.NoError(t, a.Run(ctx))
	assert.True(t, isDebug)
}

func TestRun_WatchConfigStopsWithApp(t *testing.T) {
	opts := testOptions(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("brightness = 40\n"), 0o644))
	opts.ConfigPath = path
	opts.WatchConfig = true

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	require.NoError(t, New(opts, Hooks{}).Run(ctx))
}

func TestPress_RoutesToWidgets(t *testing.T) {
	var pressed int
	var gotHandled []bool
	a := New(DefaultOptions(), Hooks{
		Press: func(_ *App, col, row int, handled bool) {
			gotHandled = append(gotHandled, handled)
		},
	})
	b, err := widget.NewButton(1, 0, "", "A")
	require.NoError(t, err)
	b.OnPress = func(*widget.Button) { pressed++ }
	a.Widgets().Add(b)

	a.press(1, 0, 1)
	a.press(4, 2, 4)
	assert.Equal(t, 1, pressed)
	assert.Equal(t, []bool{true, false}, gotHandled)
	assert.True(t, b.Pressed())
}

func TestNew_Defaults(t *testing.T) {
	a := New(Options{FPS: 30}, Hooks{})
	assert.Equal(t, BackendAuto, a.opts.Backend)
	assert.Equal(t, 30, a.opts.Render.FPS)
	assert.NotNil(t, a.Widgets())
}
