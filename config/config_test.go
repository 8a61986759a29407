package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/gogpu/deckcanvas/render"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "none.toml"))
	require.NoError(t, err)
	if diff := cmp.Diff(Default(), c); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	writeFile(t, path, `
fps = 30
brightness = 55
orientation = "rotated"
backend = "debug"
debug_cols = 8
debug_rows = 4
button_size = 96
serial = "AL07K2C01234"
log_level = "debug"
`)
	c, err := Load(path)
	require.NoError(t, err)

	want := Default()
	want.FPS = 30
	want.Brightness = 55
	want.Orientation = "rotated"
	want.Backend = "debug"
	want.DebugCols = 8
	want.DebugRows = 4
	want.ButtonSize = 96
	want.Serial = "AL07K2C01234"
	want.LogLevel = "debug"
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}

	lvl, err := c.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name, body string
	}{
		{"fps", "fps = 120"},
		{"brightness", "brightness = -3"},
		{"orientation", `orientation = "sideways"`},
		{"grid", "debug_cols = 17"},
		{"button size", "button_size = 64"},
		{"log level", `log_level = "loud"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".toml")
			writeFile(t, path, tt.body)
			_, err := Load(path)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}

	path := filepath.Join(dir, "broken.toml")
	writeFile(t, path, "fps = = 3")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate_JoinsErrors(t *testing.T) {
	c := Default()
	c.FPS = 0
	c.Brightness = 200
	err := c.Validate()
	assert.ErrorIs(t, err, ErrInvalid)
	assert.ErrorIs(t, err, render.ErrInvalidFrameRate)
	assert.ErrorIs(t, err, render.ErrInvalidBrightness)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	c := Default()
	c.Brightness = 42
	c.Orientation = "v_mirror"
	require.NoError(t, c.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	if diff := cmp.Diff(c, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderOptions(t *testing.T) {
	c := Default()
	c.FPS = 24
	c.Orientation = "h_mirror"
	c.DebugDir = "/tmp/frames"
	c.Serial = "X1"

	want := render.DefaultOptions()
	want.FPS = 24
	want.Orientation = render.HMirror
	want.DebugDir = "/tmp/frames"
	want.Serial = "X1"
	if diff := cmp.Diff(want, c.RenderOptions()); diff != "" {
		t.Errorf("RenderOptions() mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	assert.Equal(t, filepath.Join(dir, "deckcanvas", FileName), DefaultPath())

	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "missing"))
	assert.Equal(t, filepath.Join("deckcanvas", FileName), filepath.Join(filepath.Base(filepath.Dir(DefaultPath())), filepath.Base(DefaultPath())))
	assert.NotContains(t, DefaultPath(), "missing")
}

func TestWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	writeFile(t, path, "brightness = 10\n")

	ctx, cancel := context.WithCancel(context.Background())
	got := make(chan *Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(c *Config, err error) {
			if err == nil {
				got <- c
			}
		})
	}()

	time.Sleep(100 * time.Millisecond)
	writeFile(t, path, "brightness = 90\n")

	select {
	case c := <-got:
		assert.Equal(t, 90, c.Brightness)
	case <-time.After(2 * time.Second):
		t.Fatal("reload not delivered")
	}
	cancel()
	require.NoError(t, <-done)
}
