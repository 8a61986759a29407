package device

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"go.uber.org/goleak"
	"golang.org/x/image/bmp"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeHandle is an in-memory HID device. Reports queued with feed are
// returned by Read; Read fails once the handle is closed.
type fakeHandle struct {
	mu         sync.Mutex
	writes     [][]byte
	features   [][]byte
	firmware   []byte
	shortWrite bool
	closes     int

	reads     chan []byte
	closed    chan struct{}
	closeOnce sync.Once
}

func newFakeHandle() *fakeHandle {
	return &fakeHandle{reads: make(chan []byte), closed: make(chan struct{})}
}

func (f *fakeHandle) Write(b []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, bytes.Clone(b))
	if f.shortWrite {
		return len(b) / 2, nil
	}
	return len(b), nil
}

func (f *fakeHandle) SendFeatureReport(b []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.features = append(f.features, bytes.Clone(b))
	return len(b), nil
}

// GetFeatureReport answers with firmware, or fails when it is unset.
func (f *fakeHandle) GetFeatureReport(b []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.firmware == nil {
		return 0, errors.New("hid: feature report not supported")
	}
	return copy(b, f.firmware), nil
}

func (f *fakeHandle) Read(b []byte) (int, error) {
	select {
	case r := <-f.reads:
		return copy(b, r), nil
	case <-f.closed:
		return 0, errors.New("hid: device closed")
	}
}

func (f *fakeHandle) Close() error {
	f.mu.Lock()
	f.closes++
	f.mu.Unlock()
	f.closeOnce.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeHandle) feed(r []byte) { f.reads <- r }

// keyReport builds an input report with the given device keys down.
func keyReport(m *Model, down ...int) []byte {
	r := make([]byte, m.KeyOffset+m.Keys)
	r[0] = 0x01
	for _, k := range down {
		r[m.KeyOffset+k] = 1
	}
	return r
}

type event struct {
	key     int
	pressed bool
}

func openFake(t *testing.T, m *Model, now func() time.Time) (*Deck, *fakeHandle, chan event) {
	t.Helper()
	h := newFakeHandle()
	d := newDeck(Info{Model: m, Serial: "CL01", ProductID: m.ProductIDs[0], Release: 0x0103}, h, now)
	t.Cleanup(func() { d.Close() })
	events := make(chan event, 16)
	d.SetKeyCallback(func(key int, pressed bool) { events <- event{key, pressed} })
	return d, h, events
}

func next(t *testing.T, events chan event) event {
	t.Helper()
	select {
	case e := <-events:
		return e
	case <-time.After(time.Second):
		t.Fatal("no key event")
		return event{}
	}
}

func TestModelForProduct(t *testing.T) {
	tests := []struct {
		pid  uint16
		want *Model
	}{
		{0x0063, Mini},
		{0x0090, Mini},
		{0x0060, Original},
		{0x006d, MK2},
		{0x0080, MK2},
		{0x006c, XL},
		{0x008f, XL},
	}
	for _, tt := range tests {
		m, ok := ModelForProduct(tt.pid)
		require.True(t, ok, "%#04x", tt.pid)
		assert.Same(t, tt.want, m)
	}
	_, ok := ModelForProduct(0x0084)
	assert.False(t, ok)

	for _, m := range Models() {
		assert.Equal(t, m.Keys, m.Cols*m.Rows, m.Name)
	}
}

func TestHeaders(t *testing.T) {
	assert.Equal(t,
		[]byte{0x02, 0x07, 3, 1, 0xf8, 0x03, 1, 0},
		gen2Header(3, 1, 1016, true))

	h := gen1Header(0)(2, 0, 100, false)
	assert.Len(t, h, 16)
	assert.Equal(t, []byte{0x02, 0x01, 0, 0, 0, 3}, h[:6])

	h = gen1Header(1)(0, 1, 100, true)
	assert.Equal(t, []byte{0x02, 0x01, 2, 0, 1, 1}, h[:6])
}

func TestFeatureReports(t *testing.T) {
	r := Mini.BrightnessReport(40)
	assert.Len(t, r, 17)
	assert.Equal(t, []byte{0x05, 0x55, 0xaa, 0xd1, 0x01, 40, 0}, r[:7])

	r = MK2.BrightnessReport(100)
	assert.Len(t, r, 32)
	assert.Equal(t, []byte{0x03, 0x08, 100, 0}, r[:4])

	assert.Equal(t, []byte{0x03, 0x02, 0}, XL.ResetReport()[:3])
	assert.Equal(t, []byte{0x0b, 0x63, 0}, Original.ResetReport()[:3])
}

func TestPages(t *testing.T) {
	data := bytes.Repeat([]byte{0xab}, 2500)
	pages := MK2.pages(3, data)
	require.Len(t, pages, 3)
	for i, p := range pages {
		assert.Len(t, p, 1024)
		assert.Equal(t, byte(i), p[6], "page number")
	}
	assert.Equal(t, []byte{0x02, 0x07, 3, 0, 0xf8, 0x03, 0, 0}, pages[0][:8])
	assert.Equal(t, []byte{0x02, 0x07, 3, 1, 0xd4, 0x01, 2, 0}, pages[2][:8])
	assert.Equal(t, byte(0xab), pages[2][8+467])
	assert.Equal(t, byte(0), pages[2][8+468], "padding")

	pages = Original.pages(0, make([]byte, 15606))
	require.Len(t, pages, 2)
	for _, p := range pages {
		assert.Len(t, p, 8191)
	}
	assert.Equal(t, byte(1), pages[0][2])
	assert.Equal(t, byte(2), pages[1][2])
	assert.Equal(t, byte(1), pages[1][4], "last")
	assert.Equal(t, byte(5), pages[0][5], "key 0 is the rightmost device key")
}

func TestDeviceKeyMirror(t *testing.T) {
	assert.Equal(t, 4, Original.deviceKey(0))
	assert.Equal(t, 9, Original.deviceKey(5))
	assert.Equal(t, 10, Original.deviceKey(14))
	assert.Equal(t, 7, MK2.deviceKey(7))
}

// cornerImage is a black square with a red block in the top-right corner.
func cornerImage(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := color.RGBA{A: 255}
			if x >= size-size/4 && y < size/4 {
				c.R = 255
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func redAt(img image.Image, x, y int) bool {
	r, g, b, _ := img.At(x, y).RGBA()
	return r>>8 > 200 && g>>8 < 60 && b>>8 < 60
}

func TestEncodeJPEG(t *testing.T) {
	data, err := Encode(MK2, cornerImage(72))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xd8}, data[:2])

	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 72, 72), img.Bounds())
	assert.True(t, redAt(img, 5, 66), "top-right moves to bottom-left")
	assert.False(t, redAt(img, 66, 5))
}

func TestEncodeBMPRotated(t *testing.T) {
	data, err := Encode(Mini, cornerImage(80))
	require.NoError(t, err)
	assert.Equal(t, []byte("BM"), data[:2])

	img, err := bmp.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 80, 80), img.Bounds())
	assert.True(t, redAt(img, 5, 74), "rotated 90 then flipped vertically")
	assert.False(t, redAt(img, 74, 5))
}

func TestEncodeResizes(t *testing.T) {
	data, err := Encode(XL, cornerImage(72))
	require.NoError(t, err)
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 96, cfg.Width)

	_, err = Encode(XL, nil)
	assert.Error(t, err)
}

func TestDeck_SetKeyImage(t *testing.T) {
	d, h, _ := openFake(t, MK2, time.Now)

	require.NoError(t, d.SetKeyImage(7, cornerImage(72)))
	h.mu.Lock()
	writes := len(h.writes)
	first := h.writes[0]
	h.mu.Unlock()
	require.Positive(t, writes)
	assert.Equal(t, byte(7), first[2])

	assert.Error(t, d.SetKeyImage(15, cornerImage(72)))

	h.mu.Lock()
	h.shortWrite = true
	h.mu.Unlock()
	assert.ErrorIs(t, d.SetKeyImage(0, cornerImage(72)), ErrShortWrite)
}

func TestDeck_ReusesEncodedTiles(t *testing.T) {
	d, h, _ := openFake(t, MK2, time.Now)

	require.NoError(t, d.SetKeyImage(0, cornerImage(72)))
	require.NoError(t, d.SetKeyImage(1, cornerImage(72)))
	other := cornerImage(72)
	other.SetRGBA(0, 0, color.RGBA{G: 255, A: 255})
	require.NoError(t, d.SetKeyImage(2, other))

	s := d.encoded.Stats()
	assert.Equal(t, uint64(1), s.Hits)
	assert.Equal(t, uint64(2), s.Misses)
	assert.Equal(t, 2, s.Len)

	h.mu.Lock()
	defer h.mu.Unlock()
	assert.NotEmpty(t, h.writes)
}

func TestDeck_Features(t *testing.T) {
	d, h, _ := openFake(t, XL, time.Now)

	require.NoError(t, d.SetBrightness(30))
	require.NoError(t, d.Reset())
	assert.Error(t, d.SetBrightness(120))

	h.mu.Lock()
	defer h.mu.Unlock()
	require.Len(t, h.features, 2)
	assert.Equal(t, XL.BrightnessReport(30), h.features[0])
	assert.Equal(t, XL.ResetReport(), h.features[1])
}

func TestDeck_FeatureReportBytes(t *testing.T) {
	gen1Bright := make([]byte, 17)
	copy(gen1Bright, []byte{0x05, 0x55, 0xaa, 0xd1, 0x01, 30})
	gen1Reset := make([]byte, 17)
	copy(gen1Reset, []byte{0x0b, 0x63})
	gen2Bright := make([]byte, 32)
	copy(gen2Bright, []byte{0x03, 0x08, 30})
	gen2Reset := make([]byte, 32)
	copy(gen2Reset, []byte{0x03, 0x02})

	tests := []struct {
		model         *Model
		bright, reset []byte
	}{
		{Mini, gen1Bright, gen1Reset},
		{Original, gen1Bright, gen1Reset},
		{MK2, gen2Bright, gen2Reset},
		{XL, gen2Bright, gen2Reset},
	}
	for _, tt := range tests {
		t.Run(tt.model.Name, func(t *testing.T) {
			d, h, _ := openFake(t, tt.model, time.Now)
			require.NoError(t, d.SetBrightness(30))
			require.NoError(t, d.Reset())

			h.mu.Lock()
			defer h.mu.Unlock()
			assert.Equal(t, [][]byte{tt.bright, tt.reset}, h.features)
			assert.Empty(t, h.writes, "feature reports never go through Write")
		})
	}
}

func TestDeck_FirmwareReport(t *testing.T) {
	tests := []struct {
		model  *Model
		report []byte
	}{
		{Mini, append([]byte{0x04, 0, 0, 0, 0}, "2.00.008\x00\x00"...)},
		{XL, append([]byte{0x05, 0, 0, 0, 0, 0}, "1.01.000\x00"...)},
	}
	for _, tt := range tests {
		t.Run(tt.model.Name, func(t *testing.T) {
			d, h, _ := openFake(t, tt.model, time.Now)
			h.mu.Lock()
			h.firmware = tt.report
			h.mu.Unlock()

			fw, err := d.Firmware()
			require.NoError(t, err)
			assert.Equal(t, string(tt.report[tt.model.firmwareOffset:tt.model.firmwareOffset+8]), fw)
		})
	}

	// A closed deck falls back to the USB release.
	d, _, _ := openFake(t, XL, time.Now)
	require.NoError(t, d.Close())
	fw, err := d.Firmware()
	require.NoError(t, err)
	assert.Equal(t, "1.03", fw)
}

func TestDeck_Info(t *testing.T) {
	d, _, _ := openFake(t, XL, time.Now)
	assert.Equal(t, 32, d.KeyCount())
	assert.Equal(t, 96, d.KeyImageSize())
	assert.Equal(t, "Stream Deck XL", d.ModelName())

	serial, err := d.Serial()
	require.NoError(t, err)
	assert.Equal(t, "CL01", serial)
	fw, err := d.Firmware()
	require.NoError(t, err)
	assert.Equal(t, "1.03", fw)
}

func TestDeck_KeyEvents(t *testing.T) {
	clock := atomic.NewTime(time.Unix(1000, 0))
	d, h, events := openFake(t, Mini, clock.Load)
	_ = d

	h.feed(keyReport(Mini, 1))
	assert.Equal(t, event{1, true}, next(t, events))

	h.feed(keyReport(Mini, 1))
	h.feed(keyReport(Mini))
	assert.Equal(t, event{1, false}, next(t, events), "held key does not repeat")

	// A bounce within 100ms is dropped.
	clock.Store(clock.Load().Add(50 * time.Millisecond))
	h.feed(keyReport(Mini, 1))
	h.feed(keyReport(Mini))
	h.feed(keyReport(Mini, 2))
	assert.Equal(t, event{2, true}, next(t, events))

	clock.Store(clock.Load().Add(time.Second))
	h.feed(keyReport(Mini, 1, 2))
	assert.Equal(t, event{1, true}, next(t, events))

	h.feed([]byte{0x02, 1, 1, 1})
	h.feed(keyReport(Mini))
	assert.Equal(t, event{1, false}, next(t, events), "non-key reports are ignored")
	assert.Equal(t, event{2, false}, next(t, events))
}

func TestDeck_MirroredKeyEvents(t *testing.T) {
	_, h, events := openFake(t, Original, time.Now)
	h.feed(keyReport(Original, 0))
	assert.Equal(t, event{4, true}, next(t, events))
}

func TestDeck_Close(t *testing.T) {
	d, h, _ := openFake(t, MK2, time.Now)
	require.NoError(t, d.Close())
	require.NoError(t, d.Close())
	assert.Equal(t, 1, h.closes)
	assert.ErrorIs(t, d.SetKeyImage(0, cornerImage(72)), ErrClosed)
	assert.ErrorIs(t, d.Reset(), ErrClosed)
}

func TestManager(t *testing.T) {
	infos := []Info{
		{Model: Mini, Serial: "A", Path: "p0"},
		{Model: XL, Serial: "B", Path: "p1"},
	}
	var handles []*fakeHandle
	m := &Manager{
		enumerate: func() []Info { return infos },
		open: func(info Info) (*Deck, error) {
			h := newFakeHandle()
			handles = append(handles, h)
			return newDeck(info, h, time.Now), nil
		},
	}

	assert.Equal(t, infos, m.Detect())

	d, err := m.ConnectFirst()
	require.NoError(t, err)
	assert.Same(t, Mini, d.Model())
	require.NoError(t, m.Release(d))
	h := handles[0]
	assert.Equal(t, [][]byte{Mini.ResetReport(), Mini.BrightnessReport(ReleaseBrightness)}, h.features)
	assert.Equal(t, 1, h.closes)

	d, err = m.ConnectSerial("B")
	require.NoError(t, err)
	assert.Same(t, XL, d.Model())
	require.NoError(t, d.Close())

	d, err = m.Connect("")
	require.NoError(t, err)
	require.NoError(t, d.Close())

	_, err = m.ConnectSerial("Z")
	assert.ErrorIs(t, err, ErrDeviceNotFound)
	_, err = m.ConnectIndex(2)
	assert.ErrorIs(t, err, ErrDeviceNotFound)
	assert.NoError(t, m.Release(nil))
}
