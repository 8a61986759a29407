package deckcanvas

import (
	"fmt"
	"strings"
)

// Model describes the key grid of a Stream Deck family.
type Model struct {
	Name       string
	Cols, Rows int
	ButtonSize int
}

// Supported device families.
var (
	Mini    = Model{Name: "mini", Cols: 3, Rows: 2, ButtonSize: 80}
	Classic = Model{Name: "classic", Cols: 5, Rows: 3, ButtonSize: 72}
	XL      = Model{Name: "xl", Cols: 8, Rows: 4, ButtonSize: 96}
)

// Keys returns the number of keys.
func (m Model) Keys() int { return m.Cols * m.Rows }

// Width returns the canvas width in pixels.
func (m Model) Width() int { return m.Cols * m.ButtonSize }

// Height returns the canvas height in pixels.
func (m Model) Height() int { return m.Rows * m.ButtonSize }

func (m Model) String() string {
	return fmt.Sprintf("%s (%dx%d, %dpx)", m.Name, m.Cols, m.Rows, m.ButtonSize)
}

// Models returns the supported families ordered by key count.
func Models() []Model {
	return []Model{Mini, Classic, XL}
}

// LookupModel resolves a family by name, ignoring case.
// "original" and "mk2" are accepted as aliases for classic.
func LookupModel(name string) (Model, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mini":
		return Mini, nil
	case "classic", "original", "mk2", "mk.2":
		return Classic, nil
	case "xl":
		return XL, nil
	}
	return Model{}, fmt.Errorf("%w: %q", ErrUnknownModel, name)
}

// ModelForKeys returns the family with the given key count.
func ModelForKeys(keys int) (Model, bool) {
	for _, m := range Models() {
		if m.Keys() == keys {
			return m, true
		}
	}
	return Model{}, false
}

// validButtonSize reports whether px is a button size used by real hardware.
func validButtonSize(px int) bool {
	return px == 72 || px == 80 || px == 96
}
