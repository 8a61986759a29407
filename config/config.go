// Package config loads deckcanvas settings from a TOML file.
package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/gogpu/deckcanvas"
	"github.com/gogpu/deckcanvas/internal/watch"
	"github.com/gogpu/deckcanvas/render"
)

// FileName is the config file name inside the config directory.
const FileName = "config.toml"

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("config: invalid")

// Config holds user settings. Zero fields in a file keep their defaults.
type Config struct {
	FPS         int    `toml:"fps"`
	Brightness  int    `toml:"brightness"`
	Orientation string `toml:"orientation"`
	// Backend is a render backend name, or "auto" for the best available.
	Backend    string `toml:"backend"`
	DebugDir   string `toml:"debug_dir"`
	DebugCols  int    `toml:"debug_cols"`
	DebugRows  int    `toml:"debug_rows"`
	ButtonSize int    `toml:"button_size"`
	// Serial selects a deck when several are attached.
	Serial   string `toml:"serial"`
	LogLevel string `toml:"log_level"`
}

// Default returns the settings used when no file exists.
func Default() *Config {
	o := render.DefaultOptions()
	return &Config{
		FPS:         o.FPS,
		Brightness:  o.Brightness,
		Orientation: o.Orientation.String(),
		Backend:     "auto",
		DebugDir:    o.DebugDir,
		DebugCols:   o.Cols,
		DebugRows:   o.Rows,
		ButtonSize:  o.ButtonSize,
		LogLevel:    "info",
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/deckcanvas/config.toml, falling back
// to ~/.config when XDG_CONFIG_HOME is unset or missing.
func DefaultPath() string {
	return filepath.Join(configDir(), FileName)
}

func configDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(xdgOrFallback("XDG_CONFIG_HOME", filepath.Join(home, ".config")), "deckcanvas")
}

func xdgOrFallback(xdg, fallback string) string {
	if dir := os.Getenv(xdg); dir != "" {
		if st, err := os.Stat(dir); err == nil && st.IsDir() {
			return dir
		}
	}
	return fallback
}

// Load reads path over the defaults. A missing file is not an error.
// The result is validated.
func Load(path string) (*Config, error) {
	c := Default()
	md, err := toml.DecodeFile(path, c)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		deckcanvas.Logger().Debug("no config file, using defaults", "path", path)
		return c, nil
	case err != nil:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		deckcanvas.Logger().Warn("unknown config key", "path", path, "key", key.String())
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Save writes c to path, creating the directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("config: create dir: %w", err)
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Validate checks every field against the renderer bounds.
func (c *Config) Validate() error {
	var errs []error
	if err := render.ValidateFPS(c.FPS); err != nil {
		errs = append(errs, err)
	}
	if err := render.ValidateBrightness(c.Brightness); err != nil {
		errs = append(errs, err)
	}
	if _, err := render.ParseOrientation(c.Orientation); err != nil {
		errs = append(errs, err)
	}
	if c.Backend == "" {
		errs = append(errs, errors.New("backend is empty"))
	}
	if c.DebugCols < 1 || c.DebugCols > deckcanvas.MaxGridSize || c.DebugRows < 1 || c.DebugRows > deckcanvas.MaxGridSize {
		errs = append(errs, fmt.Errorf("debug grid %dx%d outside 1..%d", c.DebugCols, c.DebugRows, deckcanvas.MaxGridSize))
	}
	if !slices.ContainsFunc(deckcanvas.Models(), func(m deckcanvas.Model) bool { return m.ButtonSize == c.ButtonSize }) {
		errs = append(errs, fmt.Errorf("button size %d (want 72, 80 or 96)", c.ButtonSize))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// SlogLevel parses LogLevel ("debug", "info", "warn", "error").
func (c *Config) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q", c.LogLevel)
	}
	return l, nil
}

// RenderOptions converts the settings to renderer options. Call Validate
// first; an unknown orientation maps to normal.
func (c *Config) RenderOptions() render.Options {
	o := render.DefaultOptions()
	o.Cols = c.DebugCols
	o.Rows = c.DebugRows
	o.ButtonSize = c.ButtonSize
	o.FPS = c.FPS
	o.Brightness = c.Brightness
	o.Orientation, _ = render.ParseOrientation(c.Orientation)
	o.DebugDir = c.DebugDir
	o.Serial = c.Serial
	return o
}

// Watch reloads path after every change and passes the result to fn.
// fn receives a nil config and the error when the new file is invalid.
// Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, fn func(*Config, error)) error {
	return watch.File(ctx, path, watch.DefaultDebounce, func() {
		c, err := Load(path)
		if err != nil {
			deckcanvas.Logger().Warn("config reload failed", "path", path, "error", err)
		} else {
			deckcanvas.Logger().Info("config reloaded", "path", path)
		}
		fn(c, err)
	})
}
