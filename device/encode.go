package device

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/disintegration/gift"
	"golang.org/x/image/bmp"
)

// JPEGQuality is the quality key images are encoded with.
const JPEGQuality = 85

// Encode converts a key image in canvas orientation into the bytes m
// expects: scaled to the key size, rotated and flipped for the panel, then
// BMP or JPEG encoded.
func Encode(m *Model, img image.Image) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("device: encode: nil image")
	}
	g := gift.New(m.filters(img.Bounds())...)
	dst := image.NewRGBA(g.Bounds(img.Bounds()))
	g.Draw(dst, img)
	opaque(dst)

	var buf bytes.Buffer
	var err error
	switch m.Format {
	case JPEG:
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: JPEGQuality})
	default:
		err = bmp.Encode(&buf, dst)
	}
	if err != nil {
		return nil, fmt.Errorf("device: encode %s: %w", m.Format, err)
	}
	return buf.Bytes(), nil
}

// opaque drops alpha so BMP encodes 24 bit pixels. Key panels have no
// transparency.
func opaque(img *image.RGBA) {
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
}
