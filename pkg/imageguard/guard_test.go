package imageguard_test

import (
	"bytes"
	"image"
	"image/color"
	stdgif "image/gif"
	stdpng "image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/safemedia/imageguard/pkg/imageguard"
	"github.com/safemedia/imageguard/pkg/limits"
	"github.com/safemedia/imageguard/pkg/metrics"
)

func encodeGIF(t *testing.T, w, h int) []byte {
	t.Helper()
	p := image.NewPaletted(image.Rect(0, 0, w, h), color.Palette{color.Black, color.White})
	var buf bytes.Buffer
	require.NoError(t, stdgif.EncodeAll(&buf, &stdgif.GIF{Image: []*image.Paletted{p}, Delay: []int{0}}))
	return buf.Bytes()
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, stdpng.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

// oversizedGIFHeader declares a 9000x9000 canvas; nothing past the logical
// screen descriptor is needed to reject it.
var oversizedGIFHeader = []byte{
	'G', 'I', 'F', '8', '9', 'a',
	0x28, 0x23, 0x28, 0x23,
	0x00, 0x00, 0x00,
}

func newGuard(t *testing.T) *imageguard.Guard {
	t.Helper()
	g, err := imageguard.New(limits.Default())
	require.NoError(t, err)
	return g
}

func TestDecodeDispatchGIF(t *testing.T) {
	g := newGuard(t)
	res, err := g.Decode(encodeGIF(t, 100, 100))
	require.NoError(t, err)
	require.Equal(t, imageguard.FormatGIF, res.Format)
	require.Equal(t, 100, res.Width)
	require.Equal(t, 100, res.Height)
	require.Equal(t, 1, res.FrameCount)
	require.NotNil(t, res.Image)
	require.Equal(t, 100, res.Image.Bounds().Dx())
}

func TestDecodeDispatchPNG(t *testing.T) {
	g := newGuard(t)
	res, err := g.Decode(encodePNG(t, 64, 32))
	require.NoError(t, err)
	require.Equal(t, imageguard.FormatPNG, res.Format)
	require.Equal(t, 64, res.Width)
	require.Equal(t, 32, res.Height)
	require.NotNil(t, res.Image)
}

func TestDecodeUnknownFormat(t *testing.T) {
	g := newGuard(t)
	_, err := g.Decode([]byte("definitely not an image"))
	var gerr *imageguard.Error
	require.ErrorAs(t, err, &gerr)
	require.Equal(t, imageguard.KindOpenFailed, gerr.Kind)
	require.Equal(t, imageguard.FormatUnknown, gerr.Format)
}

func TestDecodeGIFOversizedCanvas(t *testing.T) {
	g := newGuard(t)
	_, err := g.Decode(oversizedGIFHeader)
	var gerr *imageguard.Error
	require.ErrorAs(t, err, &gerr)
	require.Equal(t, imageguard.KindInvalidCanvas, gerr.Kind)
	require.Equal(t, 9000, gerr.Width)
	require.Equal(t, 9000, gerr.Height)
}

func TestDecodeGIFTruncated(t *testing.T) {
	g := newGuard(t)
	data := encodeGIF(t, 10, 10)
	_, err := g.Decode(data[:len(data)/2])
	var gerr *imageguard.Error
	require.ErrorAs(t, err, &gerr)
	require.Equal(t, imageguard.KindParseFailed, gerr.Kind)
}

func TestDecodePNGOversizedCanvas(t *testing.T) {
	g := newGuard(t)
	lim := limits.Default()
	lim.MaxWidth, lim.MaxHeight = 32, 32
	small, err := imageguard.New(lim)
	require.NoError(t, err)

	data := encodePNG(t, 64, 64)
	if _, derr := g.Decode(data); derr != nil {
		t.Fatalf("64x64 must pass the default ceilings: %v", derr)
	}
	_, err = small.Decode(data)
	var gerr *imageguard.Error
	require.ErrorAs(t, err, &gerr)
	require.Equal(t, imageguard.KindInvalidCanvas, gerr.Kind)
	require.Equal(t, 64, gerr.Width)
}

func TestDecodeByteBudget(t *testing.T) {
	lim := limits.Default()
	lim.MaxChunkBytes = 16
	lim.MaxCachedChunks = 1
	g, err := imageguard.New(lim)
	require.NoError(t, err)

	_, err = g.DecodeGIF(encodeGIF(t, 10, 10))
	var gerr *imageguard.Error
	require.ErrorAs(t, err, &gerr)
	require.Equal(t, imageguard.KindOpenFailed, gerr.Kind)
}

func TestInvalidLimits(t *testing.T) {
	var lim limits.Limits
	_, err := imageguard.New(lim)
	require.Error(t, err)
}

func TestMetricsRecording(t *testing.T) {
	reg := metrics.New()
	g, err := imageguard.NewInstrumented(limits.Default(), reg)
	require.NoError(t, err)

	_, err = g.Decode(encodeGIF(t, 20, 20))
	require.NoError(t, err)
	_, err = g.Decode(oversizedGIFHeader)
	require.Error(t, err)
	_, err = g.Decode([]byte("garbage"))
	require.Error(t, err)

	s := reg.Snapshot()
	require.Equal(t, uint64(1), s.Processed["gif/accepted"])
	require.Equal(t, uint64(1), s.Processed["gif/invalid_canvas"])
	require.Equal(t, uint64(1), s.Processed["unknown/open_failed"])
}

func TestErrorStrings(t *testing.T) {
	e := &imageguard.Error{
		Format: imageguard.FormatGIF,
		Kind:   imageguard.KindRejected,
		Reason: imageguard.OutOfBounds,
		Frame:  2,
	}
	require.Contains(t, e.Error(), "OutOfBounds")
	require.Contains(t, e.Error(), "frame 2")

	e = &imageguard.Error{Format: imageguard.FormatGIF, Kind: imageguard.KindInvalidCanvas, Width: 9000, Height: 9000}
	require.Contains(t, e.Error(), "9000x9000")

	require.Equal(t, "Rejected", imageguard.KindRejected.String())
	require.Equal(t, "InvalidCanvas", imageguard.KindInvalidCanvas.String())
	require.Equal(t, "gif", imageguard.FormatGIF.String())
}

func TestHeaderOnlyFormats(t *testing.T) {
	g := newGuard(t)

	// Minimal BMP header declaring 640x480; header validation reads no
	// pixel data.
	bmp := make([]byte, 54)
	bmp[0], bmp[1] = 'B', 'M'
	bmp[10] = 54
	bmp[14] = 40
	bmp[18], bmp[19] = 0x80, 0x02 // 640
	bmp[22], bmp[23] = 0xE0, 0x01 // 480
	bmp[26] = 1
	bmp[28] = 24

	res, err := g.Decode(bmp)
	require.NoError(t, err)
	require.Equal(t, imageguard.FormatBMP, res.Format)
	require.Equal(t, 640, res.Width)
	require.Equal(t, 480, res.Height)
	require.Nil(t, res.Image)
}
