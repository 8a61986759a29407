package deckcanvas

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	// Decoders for LoadIcon.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/disintegration/gift"
	"github.com/gogpu/gg"
)

// ImageStyle places an image on a block of buttons.
type ImageStyle struct {
	W, H int // size in buttons; 0 means 1
	// Fit scales the image to the region preserving aspect ratio and
	// centers it. Otherwise the image is stretched to the full region.
	Fit bool
}

// PasteImage draws img over a block of buttons, resampled to the block.
func (c *Canvas) PasteImage(col, row int, img image.Image, style ImageStyle) error {
	if err := c.ready(); err != nil {
		return err
	}
	if img == nil {
		return fmt.Errorf("%w: nil image", ErrInvalidParameter)
	}
	if style.W == 0 {
		style.W = 1
	}
	if style.H == 0 {
		style.H = 1
	}
	r, err := c.RegionRect(col, row, style.W, style.H)
	if err != nil {
		return err
	}

	var filter gift.Filter
	if style.Fit {
		filter = gift.ResizeToFit(r.W, r.H, gift.LanczosResampling)
	} else {
		filter = gift.Resize(r.W, r.H, gift.LanczosResampling)
	}
	scaled := resample(img, filter)

	b := scaled.Bounds()
	x := r.X + (r.W-b.Dx())/2
	y := r.Y + (r.H-b.Dy())/2
	c.ctx.DrawImage(gg.ImageBufFromImage(scaled), float64(x), float64(y))
	return nil
}

// LoadIcon decodes an image file and scales it to size x size pixels.
// PNG, JPEG, GIF, BMP and WebP files are supported.
func LoadIcon(path string, size int) (image.Image, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: icon size %d", ErrInvalidParameter, size)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("deckcanvas: open icon: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("deckcanvas: decode icon %s: %w", path, err)
	}
	return resample(img, gift.Resize(size, size, gift.LanczosResampling)), nil
}

// SaveDebug writes the canvas to path as PNG, creating parent directories.
func (c *Canvas) SaveDebug(path string) error {
	if err := c.ready(); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("deckcanvas: create %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("deckcanvas: create %s: %w", path, err)
	}
	if err := png.Encode(f, c.Image()); err != nil {
		f.Close()
		return fmt.Errorf("deckcanvas: encode %s: %w", path, err)
	}
	return f.Close()
}

func resample(src image.Image, filters ...gift.Filter) *image.RGBA {
	g := gift.New(filters...)
	dst := image.NewRGBA(g.Bounds(src.Bounds()))
	g.Draw(dst, src)
	return dst
}
