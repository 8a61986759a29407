// Package deckcanvas treats the keys of an Elgato Stream Deck as one
// continuous drawing surface.
//
// # Overview
//
// A Canvas spans every key of a device. Shapes, text and images are drawn
// in button coordinates (col, row) or in pixels, and the renderer later
// cuts the surface into one tile per key. Drawing is done with gg, a pure
// Go 2D graphics library, so a Canvas works without any device attached.
//
// # Quick Start
//
//	c, err := deckcanvas.NewForModel(deckcanvas.Classic)
//	if err != nil {
//		return err
//	}
//	defer c.Close()
//
//	c.DrawRect(0, 0, deckcanvas.RectStyle{W: 2, Fill: deckcanvas.ColorPrimary})
//	c.DrawText(4, 2, "GO", deckcanvas.TextStyle{Size: deckcanvas.SizeTitle})
//	c.SaveDebug("out/canvas.png")
//
// # Coordinate System
//
//   - Button (0, 0) is the top-left key
//   - Pixel origin (0, 0) is the top-left corner of that key
//   - Angles are degrees, 0 is right, angles grow clockwise
//
// # Subpackages
//
//   - widget: reusable components drawn onto a Canvas
//   - render: frame loops pushing a Canvas to hardware, PNG files or a terminal
//   - device: Stream Deck USB HID transport
//   - app: setup/loop/cleanup application harness
//   - layout, config, mixer: declarative pages, settings and audio control
//
// # Logging
//
// The package is silent by default. Call SetLogger with a *slog.Logger to
// see renderer and device diagnostics.
package deckcanvas

// Version is the library version.
const Version = "0.4.0"
