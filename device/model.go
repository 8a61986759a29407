package device

import (
	"image"

	"github.com/disintegration/gift"
)

// VendorID is Elgato's USB vendor id.
const VendorID = 0x0fd9

// ImageFormat is the encoding a model expects for key images.
type ImageFormat int

const (
	BMP ImageFormat = iota
	JPEG
)

func (f ImageFormat) String() string {
	if f == JPEG {
		return "JPEG"
	}
	return "BMP"
}

// Model describes the USB protocol of one Stream Deck family.
type Model struct {
	Name       string
	ProductIDs []uint16
	Keys       int
	Cols, Rows int
	ImageSize  int
	Format     ImageFormat

	// Rotate90 and the flips are applied to a key image, in that order,
	// before encoding.
	Rotate90     bool
	FlipH, FlipV bool

	// ReportSize is the length of one image output report.
	ReportSize int
	// SplitHalves sends every image as exactly two reports.
	SplitHalves bool
	// MirrorKeys numbers device keys right to left within a row.
	MirrorKeys bool
	// KeyOffset is the position of the first key state in an input report.
	KeyOffset int

	resetReport      []byte
	brightnessReport []byte
	featureSize      int
	firmwareReport   byte
	firmwareOffset   int
	header           func(key, page, length int, last bool) []byte
}

// Models of the supported devices.
var (
	Mini = &Model{
		Name:             "Stream Deck Mini",
		ProductIDs:       []uint16{0x0063, 0x0090},
		Keys:             6,
		Cols:             3,
		Rows:             2,
		ImageSize:        80,
		Format:           BMP,
		Rotate90:         true,
		FlipV:            true,
		ReportSize:       1024,
		KeyOffset:        1,
		resetReport:      []byte{0x0b, 0x63},
		brightnessReport: []byte{0x05, 0x55, 0xaa, 0xd1, 0x01},
		featureSize:      17,
		firmwareReport:   0x04,
		firmwareOffset:   5,
		header:           gen1Header(0),
	}
	Original = &Model{
		Name:             "Stream Deck (original)",
		ProductIDs:       []uint16{0x0060},
		Keys:             15,
		Cols:             5,
		Rows:             3,
		ImageSize:        72,
		Format:           BMP,
		FlipH:            true,
		FlipV:            true,
		ReportSize:       8191,
		SplitHalves:      true,
		MirrorKeys:       true,
		KeyOffset:        1,
		resetReport:      []byte{0x0b, 0x63},
		brightnessReport: []byte{0x05, 0x55, 0xaa, 0xd1, 0x01},
		featureSize:      17,
		firmwareReport:   0x04,
		firmwareOffset:   5,
		header:           gen1Header(1),
	}
	MK2 = &Model{
		Name:             "Stream Deck MK.2",
		ProductIDs:       []uint16{0x006d, 0x0080},
		Keys:             15,
		Cols:             5,
		Rows:             3,
		ImageSize:        72,
		Format:           JPEG,
		FlipH:            true,
		FlipV:            true,
		ReportSize:       1024,
		KeyOffset:        4,
		resetReport:      []byte{0x03, 0x02},
		brightnessReport: []byte{0x03, 0x08},
		featureSize:      32,
		firmwareReport:   0x05,
		firmwareOffset:   6,
		header:           gen2Header,
	}
	XL = &Model{
		Name:             "Stream Deck XL",
		ProductIDs:       []uint16{0x006c, 0x008f},
		Keys:             32,
		Cols:             8,
		Rows:             4,
		ImageSize:        96,
		Format:           JPEG,
		FlipH:            true,
		FlipV:            true,
		ReportSize:       1024,
		KeyOffset:        4,
		resetReport:      []byte{0x03, 0x02},
		brightnessReport: []byte{0x03, 0x08},
		featureSize:      32,
		firmwareReport:   0x05,
		firmwareOffset:   6,
		header:           gen2Header,
	}
)

// Models returns every supported model.
func Models() []*Model {
	return []*Model{Mini, Original, MK2, XL}
}

// ModelForProduct returns the model with the given USB product id.
func ModelForProduct(pid uint16) (*Model, bool) {
	for _, m := range Models() {
		for _, id := range m.ProductIDs {
			if id == pid {
				return m, true
			}
		}
	}
	return nil, false
}

// gen1Header builds the 16 byte header of the Mini and the original deck.
// Their page numbers start at firstPage and keys are 1-based.
func gen1Header(firstPage int) func(key, page, length int, last bool) []byte {
	return func(key, page, _ int, last bool) []byte {
		h := make([]byte, 16)
		h[0] = 0x02
		h[1] = 0x01
		h[2] = byte(page + firstPage)
		h[4] = boolByte(last)
		h[5] = byte(key + 1)
		return h
	}
}

// gen2Header builds the 8 byte header of the MK.2 and XL.
func gen2Header(key, page, length int, last bool) []byte {
	return []byte{
		0x02, 0x07, byte(key), boolByte(last),
		byte(length), byte(length >> 8),
		byte(page), byte(page >> 8),
	}
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// feature pads a feature report prefix to the model's report size.
func (m *Model) feature(prefix []byte, extra ...byte) []byte {
	r := make([]byte, m.featureSize)
	n := copy(r, prefix)
	copy(r[n:], extra)
	return r
}

// ResetReport returns the feature report that resets the device.
func (m *Model) ResetReport() []byte { return m.feature(m.resetReport) }

// BrightnessReport returns the feature report setting pct brightness.
func (m *Model) BrightnessReport(pct int) []byte {
	return m.feature(m.brightnessReport, byte(pct))
}

// deviceKey maps a canvas key index to the device's numbering.
func (m *Model) deviceKey(key int) int {
	if !m.MirrorKeys {
		return key
	}
	row, col := key/m.Cols, key%m.Cols
	return row*m.Cols + (m.Cols - 1 - col)
}

// filters returns the native transform of a key image.
func (m *Model) filters(src image.Rectangle) []gift.Filter {
	var f []gift.Filter
	if src.Dx() != m.ImageSize || src.Dy() != m.ImageSize {
		f = append(f, gift.Resize(m.ImageSize, m.ImageSize, gift.LanczosResampling))
	}
	if m.Rotate90 {
		f = append(f, gift.Rotate90())
	}
	if m.FlipH {
		f = append(f, gift.FlipHorizontal())
	}
	if m.FlipV {
		f = append(f, gift.FlipVertical())
	}
	return f
}

// pages splits an encoded image into output reports.
func (m *Model) pages(key int, data []byte) [][]byte {
	var out [][]byte
	hdrLen := len(m.header(0, 0, 0, false))
	chunk := m.ReportSize - hdrLen
	if m.SplitHalves {
		chunk = (len(data) + 1) / 2
	}
	dk := m.deviceKey(key)
	for page, sent := 0, 0; sent < len(data); page++ {
		n := min(chunk, len(data)-sent)
		last := sent+n == len(data)
		report := make([]byte, max(m.ReportSize, hdrLen+n))
		copy(report, m.header(dk, page, n, last))
		copy(report[hdrLen:], data[sent:sent+n])
		out = append(out, report)
		sent += n
	}
	return out
}
