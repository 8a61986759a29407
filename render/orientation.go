// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/gift"
)

// Orientation is how the deck is mounted. Tiles are transformed before
// they reach the device so the picture reads upright.
type Orientation int

const (
	Normal Orientation = iota
	Rotated
	HMirror
	VMirror
	HMirrorRotated
	VMirrorRotated
)

var orientationNames = [...]string{
	Normal:         "normal",
	Rotated:        "rotated",
	HMirror:        "h_mirror",
	VMirror:        "v_mirror",
	HMirrorRotated: "h_mirror_rotated",
	VMirrorRotated: "v_mirror_rotated",
}

// ParseOrientation resolves a name such as "rotated" or "h_mirror".
// The empty string is Normal.
func ParseOrientation(s string) (Orientation, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Normal, nil
	}
	for o, name := range orientationNames {
		if name == s {
			return Orientation(o), nil
		}
	}
	return Normal, fmt.Errorf("%w: %q", ErrInvalidOrientation, s)
}

func (o Orientation) String() string {
	if !o.valid() {
		return fmt.Sprintf("Orientation(%d)", int(o))
	}
	return orientationNames[o]
}

// MarshalText implements encoding.TextMarshaler.
func (o Orientation) MarshalText() ([]byte, error) {
	if !o.valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOrientation, int(o))
	}
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Orientation) UnmarshalText(b []byte) error {
	v, err := ParseOrientation(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

func (o Orientation) valid() bool {
	return o >= Normal && o <= VMirrorRotated
}

func (o Orientation) filters() []gift.Filter {
	switch o {
	case Rotated:
		return []gift.Filter{gift.Rotate180()}
	case HMirror:
		return []gift.Filter{gift.FlipHorizontal()}
	case VMirror:
		return []gift.Filter{gift.FlipVertical()}
	case HMirrorRotated:
		return []gift.Filter{gift.FlipHorizontal(), gift.Rotate180()}
	case VMirrorRotated:
		return []gift.Filter{gift.FlipVertical(), gift.Rotate180()}
	}
	return nil
}

// Apply returns img transformed for the orientation. Normal returns img
// unchanged.
func (o Orientation) Apply(img *image.RGBA) *image.RGBA {
	f := o.filters()
	if len(f) == 0 {
		return img
	}
	g := gift.New(f...)
	dst := image.NewRGBA(g.Bounds(img.Bounds()))
	g.Draw(dst, img)
	return dst
}
