package widget

import (
	"fmt"

	"github.com/gogpu/deckcanvas"
)

// pressedOverlay darkens a pressed button.
const pressedOverlay = "#00000088"

// Button is a single key with an icon glyph above a label.
type Button struct {
	Base

	Icon, Label string
	Background  string
	IconColor   string
	LabelColor  string
	Border      bool
	BorderColor string

	// OnPress, if set, is called after the pressed state toggles.
	OnPress func(b *Button)

	pressed bool
}

// NewButton creates a button at (col, row) in the default palette.
func NewButton(col, row int, icon, label string) (*Button, error) {
	base, err := NewBase(col, row, 1, 1)
	if err != nil {
		return nil, err
	}
	return &Button{
		Base:        base,
		Icon:        icon,
		Label:       label,
		Background:  deckcanvas.ColorSurface,
		IconColor:   deckcanvas.ColorTextPrimary,
		LabelColor:  deckcanvas.ColorTextPrimary,
		BorderColor: deckcanvas.ColorTextPrimary,
	}, nil
}

// Pressed reports whether the button is drawn pressed.
func (b *Button) Pressed() bool { return b.pressed }

// SetPressed sets the pressed state.
func (b *Button) SetPressed(p bool) { b.pressed = p }

// Toggle flips the pressed state and returns the new value.
func (b *Button) Toggle() bool {
	b.pressed = !b.pressed
	return b.pressed
}

// Press toggles the button and runs OnPress.
func (b *Button) Press(col, row int) {
	b.Toggle()
	if b.OnPress != nil {
		b.OnPress(b)
	}
}

func (b *Button) Render(c *deckcanvas.Canvas) error {
	if !b.Visible() {
		return nil
	}
	if err := b.Validate(c); err != nil {
		return err
	}
	style := deckcanvas.RectStyle{Fill: b.Background, BorderWidth: 2, Radius: 10}
	if b.Border {
		style.Border = b.BorderColor
	}
	if err := c.DrawRect(b.col, b.row, style); err != nil {
		return err
	}
	err := c.DrawIconText(b.col, b.row, b.Icon, b.Label,
		deckcanvas.TextStyle{Color: b.IconColor},
		deckcanvas.TextStyle{Color: b.LabelColor})
	if err != nil {
		return err
	}
	if b.pressed {
		return c.DrawRect(b.col, b.row, deckcanvas.RectStyle{Fill: pressedOverlay, Radius: 10})
	}
	return nil
}

func (b *Button) String() string {
	return fmt.Sprintf("Button(%q at %d,%d)", b.Label, b.col, b.row)
}
