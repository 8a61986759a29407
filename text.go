package deckcanvas

import (
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	textnorm "golang.org/x/text/unicode/norm"
)

// FontSize is a text size in pixels.
type FontSize float64

// Predefined text sizes.
const (
	SizeTiny   FontSize = 9
	SizeSmall  FontSize = 11
	SizeNormal FontSize = 14
	SizeTitle  FontSize = 18
	SizeLarge  FontSize = 24
	SizeHuge   FontSize = 32
)

var fontSizeNames = map[string]FontSize{
	"tiny":   SizeTiny,
	"small":  SizeSmall,
	"normal": SizeNormal,
	"title":  SizeTitle,
	"large":  SizeLarge,
	"huge":   SizeHuge,
}

// ParseFontSize resolves a size name such as "title" or "small".
func ParseFontSize(name string) (FontSize, error) {
	if s, ok := fontSizeNames[strings.ToLower(name)]; ok {
		return s, nil
	}
	return 0, fmt.Errorf("%w: font size %q", ErrInvalidParameter, name)
}

// Align positions text inside a button.
type Align int

const (
	AlignCenter Align = iota // middle of the button
	AlignTop                 // top edge 10px below the button top
	AlignBottom              // bottom edge 10px above the button bottom
	AlignLeft                // starts at the button's left edge, vertically centered
)

// ParseAlign resolves "center", "top", "bottom" or "left".
func ParseAlign(name string) (Align, error) {
	switch strings.ToLower(name) {
	case "", "center":
		return AlignCenter, nil
	case "top":
		return AlignTop, nil
	case "bottom":
		return AlignBottom, nil
	case "left":
		return AlignLeft, nil
	}
	return 0, fmt.Errorf("%w: align %q", ErrInvalidParameter, name)
}

// Anchor is a two-letter text anchor: horizontal l/m/r followed by vertical
// t/m/b, e.g. "mm" centers text on the point and "lm" left-aligns it.
// The corner forms "tl", "tr", "bl" and "br" are also accepted.
type Anchor string

// Common anchors.
const (
	AnchorMiddle       Anchor = "mm"
	AnchorMiddleTop    Anchor = "mt"
	AnchorMiddleBottom Anchor = "mb"
	AnchorLeftMiddle   Anchor = "lm"
	AnchorRightMiddle  Anchor = "rm"
	AnchorTopLeft      Anchor = "tl"
	AnchorTopRight     Anchor = "tr"
	AnchorBottomLeft   Anchor = "bl"
	AnchorBottomRight  Anchor = "br"
)

// split returns the horizontal (l/m/r) and vertical (t/m/b) components.
func (a Anchor) split() (h, v byte, ok bool) {
	switch a {
	case AnchorTopLeft:
		return 'l', 't', true
	case AnchorTopRight:
		return 'r', 't', true
	case AnchorBottomLeft:
		return 'l', 'b', true
	case AnchorBottomRight:
		return 'r', 'b', true
	}
	if len(a) != 2 {
		return 0, 0, false
	}
	h, v = a[0], a[1]
	if strings.IndexByte("lmr", h) < 0 || strings.IndexByte("tmb", v) < 0 {
		return 0, 0, false
	}
	return h, v, true
}

// TextStyle controls DrawText. Zero values mean white, SizeNormal, centered.
type TextStyle struct {
	Color   string
	Size    FontSize
	Align   Align
	OffsetX float64
	OffsetY float64
	Bold    bool
}

// fontSet lazily loads the regular and bold font sources and caches faces
// per size.
type fontSet struct {
	mu      sync.Mutex
	data    []byte
	path    string
	regular *text.FontSource
	bold    *text.FontSource
	faces   map[faceKey]text.Face
	loadErr error
}

type faceKey struct {
	size FontSize
	bold bool
}

var shaperOnce sync.Once

func newFontSet(data []byte, path string) *fontSet {
	return &fontSet{data: data, path: path}
}

func (f *fontSet) load() error {
	if f.regular != nil || f.loadErr != nil {
		return f.loadErr
	}
	shaperOnce.Do(func() {
		text.SetShaper(text.NewGoTextShaper())
	})

	var err error
	switch {
	case f.path != "":
		f.regular, err = text.NewFontSourceFromFile(f.path)
		f.bold = f.regular
	case f.data != nil:
		f.regular, err = text.NewFontSource(f.data)
		f.bold = f.regular
	default:
		f.regular, err = text.NewFontSource(goregular.TTF)
		if err == nil {
			f.bold, err = text.NewFontSource(gobold.TTF)
		}
	}
	if err != nil {
		f.regular, f.bold = nil, nil
		f.loadErr = fmt.Errorf("deckcanvas: load font: %w", err)
		return f.loadErr
	}
	f.faces = make(map[faceKey]text.Face)
	return nil
}

func (f *fontSet) face(size FontSize, bold bool) (text.Face, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if size <= 0 {
		size = SizeNormal
	}
	if err := f.load(); err != nil {
		return nil, err
	}
	key := faceKey{size: size, bold: bold}
	if face, ok := f.faces[key]; ok {
		return face, nil
	}
	src := f.regular
	if bold {
		src = f.bold
	}
	face := src.Face(float64(size))
	f.faces[key] = face
	return face, nil
}

func (f *fontSet) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.regular, f.bold, f.faces, f.loadErr = nil, nil, nil, nil
}

// ReloadFonts drops every cached face so the font is loaded again on the
// next text call.
func (c *Canvas) ReloadFonts() error {
	c.fonts.reset()
	_, err := c.fonts.face(SizeNormal, false)
	return err
}

// FontsLoaded reports whether the font has been loaded.
func (c *Canvas) FontsLoaded() bool {
	c.fonts.mu.Lock()
	defer c.fonts.mu.Unlock()
	return c.fonts.regular != nil
}

// Face returns the font face used for size.
func (c *Canvas) Face(size FontSize, bold bool) (text.Face, error) {
	return c.fonts.face(size, bold)
}

// DrawText draws text inside a button. Multi-line text is split on '\n'
// and the block is positioned as a whole.
func (c *Canvas) DrawText(col, row int, s string, style TextStyle) error {
	if err := c.ready(); err != nil {
		return err
	}
	r, err := c.ButtonRect(col, row)
	if err != nil {
		return err
	}

	var (
		x, y   float64
		anchor Anchor
	)
	switch style.Align {
	case AlignCenter:
		x, y, anchor = float64(r.X+r.W/2), float64(r.Y+r.H/2), AnchorMiddle
	case AlignTop:
		x, y, anchor = float64(r.X+r.W/2), float64(r.Y+10), AnchorMiddleTop
	case AlignBottom:
		x, y, anchor = float64(r.X+r.W/2), float64(r.Y+r.H-10), AnchorMiddleBottom
	case AlignLeft:
		x, y, anchor = float64(r.X), float64(r.Y+r.H/2), AnchorLeftMiddle
	default:
		return fmt.Errorf("%w: align %d", ErrInvalidParameter, style.Align)
	}
	return c.drawText(x+style.OffsetX, y+style.OffsetY, s, style.Color, style.Size, style.Bold, anchor)
}

// TextAt draws text at a pixel position using anchor.
func (c *Canvas) TextAt(x, y float64, s, color string, size FontSize, anchor Anchor) error {
	if err := c.ready(); err != nil {
		return err
	}
	return c.drawText(x, y, s, color, size, false, anchor)
}

// DrawIconText draws an icon glyph above a label, the usual key layout.
// The icon is drawn in iconStyle 10px above center, the label in
// labelStyle 20px below it. Zero sizes mean SizeLarge and SizeSmall.
func (c *Canvas) DrawIconText(col, row int, icon, label string, iconStyle, labelStyle TextStyle) error {
	if iconStyle.Size == 0 {
		iconStyle.Size = SizeLarge
	}
	if labelStyle.Size == 0 {
		labelStyle.Size = SizeSmall
	}
	iconStyle.Align, labelStyle.Align = AlignCenter, AlignCenter
	iconStyle.OffsetY += -10
	labelStyle.OffsetY += 20
	if icon != "" {
		if err := c.DrawText(col, row, icon, iconStyle); err != nil {
			return err
		}
	}
	if label == "" {
		return nil
	}
	return c.DrawText(col, row, label, labelStyle)
}

// MeasureText returns the advance width and the block height of s.
func (c *Canvas) MeasureText(s string, size FontSize) (w, h float64, err error) {
	face, err := c.fonts.face(size, false)
	if err != nil {
		return 0, 0, err
	}
	lines := strings.Split(normalize(s), "\n")
	lineHeight := face.Metrics().LineHeight()
	for _, line := range lines {
		w = max(w, face.Advance(line))
	}
	return w, lineHeight * float64(len(lines)), nil
}

// TruncateText shortens s with a "..." suffix until it fits maxWidth
// pixels. Text that already fits is returned unchanged.
func (c *Canvas) TruncateText(s string, size FontSize, maxWidth float64) (string, error) {
	const suffix = "..."
	face, err := c.fonts.face(size, false)
	if err != nil {
		return "", err
	}
	s = normalize(s)
	if face.Advance(s) <= maxWidth {
		return s, nil
	}
	runes := []rune(s)
	lo, hi := 0, len(runes)
	best := ""
	for lo < hi {
		mid := (lo + hi + 1) / 2
		candidate := string(runes[:mid]) + suffix
		if face.Advance(candidate) <= maxWidth {
			best = candidate
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	if best == "" {
		return suffix, nil
	}
	return best, nil
}

func (c *Canvas) drawText(x, y float64, s, color string, size FontSize, bold bool, anchor Anchor) error {
	return c.layoutText(x, y, s, color, size, bold, anchor, func(line string, face text.Face, col gg.RGBA, lx, ly float64) {
		c.ctx.SetFont(face)
		c.ctx.SetFillBrush(gg.Solid(col))
		c.ctx.DrawString(line, lx, ly)
	})
}

// TextIn draws text like TextAt but clips it to r. Glyphs outside r leave
// the canvas untouched, which scrolling tickers rely on.
func (c *Canvas) TextIn(r Rect, x, y float64, s, color string, size FontSize, anchor Anchor) error {
	if err := c.ready(); err != nil {
		return err
	}
	if r.W < 1 || r.H < 1 {
		return fmt.Errorf("%w: clip rect %dx%d", ErrInvalidParameter, r.W, r.H)
	}
	layer := image.NewRGBA(image.Rect(0, 0, r.W, r.H))
	drawn := false
	err := c.layoutText(x, y, s, color, size, false, anchor, func(line string, face text.Face, col gg.RGBA, lx, ly float64) {
		text.Draw(layer, line, face, lx-float64(r.X), ly-float64(r.Y), col)
		drawn = true
	})
	if err != nil || !drawn {
		return err
	}
	c.ctx.DrawImage(gg.ImageBufFromImage(layer), float64(r.X), float64(r.Y))
	return nil
}

// layoutText resolves color, face and anchor, then calls draw once per line
// with the baseline origin of that line.
func (c *Canvas) layoutText(x, y float64, s, color string, size FontSize, bold bool, anchor Anchor,
	draw func(line string, face text.Face, col gg.RGBA, lx, ly float64)) error {
	if color == "" {
		color = ColorWhite
	}
	col, err := ParseColor(color)
	if err != nil {
		return err
	}
	h, v, ok := anchor.split()
	if !ok {
		return fmt.Errorf("%w: anchor %q", ErrInvalidParameter, anchor)
	}
	face, err := c.fonts.face(size, bold)
	if err != nil {
		return err
	}
	s = normalize(s)
	if s == "" {
		return nil
	}

	m := face.Metrics()
	lineHeight := m.LineHeight()
	lines := strings.Split(s, "\n")
	blockH := m.Ascent + m.Descent + lineHeight*float64(len(lines)-1)

	// Baseline of the first line.
	var baseline float64
	switch v {
	case 't':
		baseline = y + m.Ascent
	case 'm':
		baseline = y - blockH/2 + m.Ascent
	case 'b':
		baseline = y - blockH + m.Ascent
	}

	for i, line := range lines {
		w := face.Advance(line)
		lx := x
		switch h {
		case 'm':
			lx -= w / 2
		case 'r':
			lx -= w
		}
		draw(line, face, col, lx, baseline+float64(i)*lineHeight)
	}
	return nil
}

// normalize returns s in Unicode NFC so composed and decomposed input
// shape to the same glyphs.
func normalize(s string) string {
	return textnorm.NFC.String(s)
}
