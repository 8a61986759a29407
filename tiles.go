package deckcanvas

import (
	"fmt"
	"image"
)

// Tile is one button-sized piece of the canvas.
type Tile struct {
	Col, Row int
	Image    *image.RGBA
}

// Tiles cuts the canvas into one image per button. Tiles are ordered
// bottom row first and left to right within a row, so on a 5x3 canvas the
// top-left button is tiles[10].
func (c *Canvas) Tiles() []Tile {
	full := c.Image()
	bs := c.buttonSize
	tiles := make([]Tile, 0, c.Keys())
	for row := c.rows - 1; row >= 0; row-- {
		for col := 0; col < c.cols; col++ {
			tiles = append(tiles, Tile{
				Col:   col,
				Row:   row,
				Image: crop(full, image.Rect(col*bs, row*bs, (col+1)*bs, (row+1)*bs)),
			})
		}
	}
	return tiles
}

// Tile returns the image of a single button.
func (c *Canvas) Tile(col, row int) (*image.RGBA, error) {
	r, err := c.ButtonRect(col, row)
	if err != nil {
		return nil, err
	}
	return crop(c.Image(), r.Image()), nil
}

// KeyIndex returns the device key number of a button. Key 0 is the
// top-left button and numbers grow left to right, then down.
func (c *Canvas) KeyIndex(col, row int) (int, error) {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return 0, &CoordinateError{Col: col, Row: row, Cols: c.cols, Rows: c.rows, W: 1, H: 1}
	}
	return row*c.cols + col, nil
}

// ButtonForKey is the inverse of KeyIndex.
func (c *Canvas) ButtonForKey(key int) (col, row int, err error) {
	if key < 0 || key >= c.Keys() {
		return 0, 0, fmt.Errorf("%w: key %d outside 0..%d", ErrInvalidParameter, key, c.Keys()-1)
	}
	return key % c.cols, key / c.cols, nil
}

// crop copies r out of src into a new image with origin (0, 0).
func crop(src *image.RGBA, r image.Rectangle) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := 0; y < r.Dy(); y++ {
		si := src.PixOffset(r.Min.X, r.Min.Y+y)
		di := dst.PixOffset(0, y)
		copy(dst.Pix[di:di+4*r.Dx()], src.Pix[si:si+4*r.Dx()])
	}
	return dst
}
