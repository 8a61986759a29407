// Package layout builds widget pages from YAML documents.
//
// A page names a device family (or an explicit grid) and lists widgets:
//
//	model: classic
//	background: "#101018"
//	widgets:
//	  - type: button
//	    col: 0
//	    row: 0
//	    icon: "▶"
//	    label: Play
//	  - type: progress
//	    col: 0
//	    row: 2
//	    width: 5
//	    value: 0.4
package layout

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/deckcanvas"
	"github.com/gogpu/deckcanvas/internal/watch"
	"github.com/gogpu/deckcanvas/widget"
)

// ErrUnknownWidget is returned for a widget type with no builder.
var ErrUnknownWidget = errors.New("layout: unknown widget type")

// Page is a decoded layout document.
type Page struct {
	// Model is a family name understood by deckcanvas.LookupModel. When
	// empty, Cols, Rows and ButtonSize are used.
	Model      string       `yaml:"model"`
	Cols       int          `yaml:"cols"`
	Rows       int          `yaml:"rows"`
	ButtonSize int          `yaml:"button_size"`
	Background string       `yaml:"background"`
	Widgets    []WidgetSpec `yaml:"widgets"`
}

// WidgetSpec is one entry of the widgets list. Properties other than the
// placement are decoded by the widget's builder.
type WidgetSpec struct {
	Type   string `yaml:"type"`
	Col    int    `yaml:"col"`
	Row    int    `yaml:"row"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Hidden bool   `yaml:"hidden"`

	node yaml.Node
}

// UnmarshalYAML keeps the raw node for the builder.
func (s *WidgetSpec) UnmarshalYAML(n *yaml.Node) error {
	type plain WidgetSpec
	if err := n.Decode((*plain)(s)); err != nil {
		return err
	}
	s.node = *n
	return nil
}

// Props decodes the widget's properties into v.
func (s *WidgetSpec) Props(v any) error {
	if s.node.Kind == 0 {
		return nil
	}
	return s.node.Decode(v)
}

func (s *WidgetSpec) size() (w, h int) {
	w, h = s.Width, s.Height
	if w == 0 {
		w = 1
	}
	if h == 0 {
		h = 1
	}
	return w, h
}

// Parse decodes a layout document and checks its geometry.
func Parse(data []byte) (*Page, error) {
	var p Page
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	if _, err := p.Geometry(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Load reads and parses a layout file.
func Load(path string) (*Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Geometry returns the grid of the page. With neither a model nor a grid
// the classic layout is used.
func (p *Page) Geometry() (deckcanvas.Model, error) {
	if p.Model != "" {
		return deckcanvas.LookupModel(p.Model)
	}
	if p.Cols == 0 && p.Rows == 0 && p.ButtonSize == 0 {
		return deckcanvas.Classic, nil
	}
	m := deckcanvas.Model{Name: "custom", Cols: p.Cols, Rows: p.Rows, ButtonSize: p.ButtonSize}
	if m.ButtonSize == 0 {
		m.ButtonSize = deckcanvas.Classic.ButtonSize
	}
	if m.Cols < 1 || m.Rows < 1 || m.Cols > deckcanvas.MaxGridSize || m.Rows > deckcanvas.MaxGridSize {
		return deckcanvas.Model{}, fmt.Errorf("%w: grid %dx%d", deckcanvas.ErrInvalidCanvasSize, m.Cols, m.Rows)
	}
	return m, nil
}

// NewCanvas creates a canvas matching the page.
func (p *Page) NewCanvas() (*deckcanvas.Canvas, error) {
	m, err := p.Geometry()
	if err != nil {
		return nil, err
	}
	var opts []deckcanvas.Option
	if p.Background != "" {
		opts = append(opts, deckcanvas.WithBackground(p.Background))
	}
	return deckcanvas.NewForModel(m, opts...)
}

// Build creates every widget of the page, in document order.
func (p *Page) Build() (*widget.Manager, error) {
	m, err := p.Geometry()
	if err != nil {
		return nil, err
	}
	mgr := widget.NewManager()
	for i := range p.Widgets {
		spec := &p.Widgets[i]
		w, err := build(spec, m)
		if err != nil {
			return nil, fmt.Errorf("layout: widget %d (%s): %w", i, spec.Type, err)
		}
		col, row, ww, wh := w.Bounds()
		if col < 0 || row < 0 || ww < 1 || wh < 1 || col+ww > m.Cols || row+wh > m.Rows {
			return nil, fmt.Errorf("layout: widget %d (%s): %w: %dx%d at (%d,%d) on %dx%d",
				i, spec.Type, widget.ErrOutOfBounds, ww, wh, col, row, m.Cols, m.Rows)
		}
		if spec.Hidden {
			if v, ok := w.(interface{ Hide() }); ok {
				v.Hide()
			}
		}
		mgr.Add(w)
	}
	return mgr, nil
}

// Types returns the widget type names a page may use.
func Types() []string {
	return slices.Sorted(maps.Keys(builders))
}

func build(spec *WidgetSpec, m deckcanvas.Model) (widget.Widget, error) {
	b, ok := builders[strings.ToLower(strings.TrimSpace(spec.Type))]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownWidget, spec.Type)
	}
	return b(spec, m)
}

// Watch reloads path after every change and passes the result to fn.
// Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, fn func(*Page, error)) error {
	return watch.File(ctx, path, watch.DefaultDebounce, func() {
		p, err := Load(path)
		if err != nil {
			deckcanvas.Logger().Warn("layout reload failed", "path", path, "error", err)
		} else {
			deckcanvas.Logger().Info("layout reloaded", "path", path, "widgets", len(p.Widgets))
		}
		fn(p, err)
	})
}
