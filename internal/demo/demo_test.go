package demo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/gogpu/deckcanvas"
	"github.com/gogpu/deckcanvas/app"
	"github.com/gogpu/deckcanvas/mixer"
	"github.com/gogpu/deckcanvas/render"
	"github.com/gogpu/deckcanvas/widget"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func runPage(t *testing.T, p Page, model deckcanvas.Model, m mixer.Mixer, frames int, check func(a *app.App)) error {
	t.Helper()
	return runHooks(t, p.Hooks(m), model, frames, check)
}

func runHooks(t *testing.T, hooks app.Hooks, model deckcanvas.Model, frames int, check func(a *app.App)) error {
	t.Helper()
	dir := t.TempDir()
	reg := render.NewRegistry()
	reg.Register("debug", render.PriorityDebug, func(o render.Options) (render.Renderer, error) {
		return render.NewDebugRenderer(o)
	}, nil)

	opts := app.DefaultOptions()
	opts.Registry = reg
	opts.FPS = 60
	opts.Render.Cols, opts.Render.Rows, opts.Render.ButtonSize = model.Cols, model.Rows, model.ButtonSize
	opts.Render.DebugDir = dir

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loop := hooks.Loop
	n := 0
	hooks.Loop = func(a *app.App, dt time.Duration) error {
		if err := loop(a, dt); err != nil {
			return err
		}
		if n++; n == frames {
			if check != nil {
				check(a)
			}
			cancel()
		}
		return nil
	}
	return app.New(opts, hooks).Run(ctx)
}

func TestPages_RenderOnEveryModel(t *testing.T) {
	for _, p := range Pages() {
		for _, m := range deckcanvas.Models() {
			t.Run(p.Name+"/"+m.Name, func(t *testing.T) {
				err := runPage(t, p, m, nil, 3, func(a *app.App) {
					assert.Positive(t, a.Widgets().Len())
					assert.NoError(t, a.Widgets().RenderAll(a.Canvas()))
				})
				require.NoError(t, err)
			})
		}
	}
}

func TestLookup(t *testing.T) {
	p, err := Lookup("audio")
	require.NoError(t, err)
	assert.Equal(t, "audio", p.Name)

	_, err = Lookup("karaoke")
	assert.ErrorIs(t, err, ErrUnknownPage)
}

func TestPage_GridTooSmall(t *testing.T) {
	p, err := Lookup("showcase")
	require.NoError(t, err)
	err = runPage(t, p, deckcanvas.Model{Name: "tiny", Cols: 2, Rows: 2, ButtonSize: 72}, nil, 1, nil)
	assert.ErrorIs(t, err, ErrGridTooSmall)
}

func TestVolume_ButtonsDriveMixer(t *testing.T) {
	p, err := Lookup("volume")
	require.NoError(t, err)
	m := mixer.NewStatic(0.5)
	defer m.Close()

	err = runPage(t, p, deckcanvas.Classic, m, 2, func(a *app.App) {
		w := a.Widgets()
		assert.True(t, w.Press(2, 0)) // up
		v, _ := m.Volume()
		assert.InDelta(t, 0.55, v, 1e-9)

		assert.True(t, w.Press(0, 0)) // down
		assert.True(t, w.Press(0, 0))
		v, _ = m.Volume()
		assert.InDelta(t, 0.45, v, 1e-9)

		knob := widget.ByType[*widget.RotaryVolume](w)
		require.Len(t, knob, 1)
		assert.InDelta(t, 0.45, knob[0].Level(), 1e-9)

		assert.True(t, w.Press(0, 1)) // mute
		muted, _ := m.Muted()
		assert.True(t, muted)
	})
	require.NoError(t, err)
}

func TestVolume_FollowsExternalChanges(t *testing.T) {
	p, err := Lookup("volume")
	require.NoError(t, err)
	m := mixer.NewStatic(0.5)
	defer m.Close()

	hooks := p.Hooks(m)
	setup := hooks.Setup
	hooks.Setup = func(a *app.App) error {
		if err := setup(a); err != nil {
			return err
		}
		return m.SetVolume(0.8)
	}
	err = runHooks(t, hooks, deckcanvas.Mini, 2, func(a *app.App) {
		bars := widget.ByType[*widget.ProgressBar](a.Widgets())
		require.Len(t, bars, 1)
		assert.InDelta(t, 0.8, bars[0].Progress(), 1e-9)
	})
	require.NoError(t, err)
}

func TestWave(t *testing.T) {
	assert.InDelta(t, 0.5, wave(0, time.Second, 0), 1e-9)
	assert.InDelta(t, 1.0, wave(250*time.Millisecond, time.Second, 0), 1e-9)
	assert.InDelta(t, 0.0, wave(750*time.Millisecond, time.Second, 0), 1e-9)
}
