// Package probe recognises container formats by their magic bytes and
// performs header-level validation for formats whose pixel decoding stays
// external. Header validation is reject-or-accept only: a stream either
// satisfies the ceilings or it is refused, never trimmed to fit.
package probe

import (
	"bytes"
	"encoding/binary"
	"fmt"
	stdjpeg "image/jpeg"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	"github.com/safemedia/imageguard/pkg/limits"
)

// Format identifies a recognised container type.
type Format int

const (
	FormatUnknown Format = iota
	FormatGIF
	FormatPNG
	FormatJPEG
	FormatWebP
	FormatTIFF
	FormatBMP
)

func (f Format) String() string {
	switch f {
	case FormatGIF:
		return "gif"
	case FormatPNG:
		return "png"
	case FormatJPEG:
		return "jpeg"
	case FormatWebP:
		return "webp"
	case FormatTIFF:
		return "tiff"
	case FormatBMP:
		return "bmp"
	default:
		return "unknown"
	}
}

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}

// Detect identifies the container format from leading magic bytes. It never
// inspects more than the first twelve bytes and never trusts a file
// extension.
func Detect(data []byte) Format {
	switch {
	case len(data) >= 6 && string(data[:3]) == "GIF" &&
		(string(data[3:6]) == "87a" || string(data[3:6]) == "89a"):
		return FormatGIF
	case len(data) >= 8 && bytes.Equal(data[:8], pngSignature):
		return FormatPNG
	case len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF:
		return FormatJPEG
	case len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return FormatWebP
	case len(data) >= 4 && (string(data[:4]) == "II*\x00" || string(data[:4]) == "MM\x00*"):
		return FormatTIFF
	case len(data) >= 2 && data[0] == 'B' && data[1] == 'M':
		return FormatBMP
	default:
		return FormatUnknown
	}
}

// HeaderError reports a header-level policy violation for a probed format.
type HeaderError struct {
	Format Format
	Reason string
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("probe: %s: %s", e.Format, e.Reason)
}

// ValidateHeader checks the declared geometry of a recognised stream against
// the ceilings without decoding pixel data. It returns the declared canvas.
func ValidateHeader(data []byte, lim limits.Limits) (Format, int, int, error) {
	if err := lim.Validate(); err != nil {
		return FormatUnknown, 0, 0, err
	}
	f := Detect(data)
	if f == FormatUnknown {
		return f, 0, 0, &HeaderError{Format: f, Reason: "unrecognised signature"}
	}
	if len(data) > lim.MaxInputBytes() {
		return f, 0, 0, &HeaderError{Format: f, Reason: "input exceeds byte budget"}
	}

	var w, h int
	var err error
	switch f {
	case FormatWebP:
		w, h, err = webpConfig(data)
	case FormatTIFF:
		cfg, cerr := tiff.DecodeConfig(bytes.NewReader(data))
		w, h, err = cfg.Width, cfg.Height, cerr
	case FormatBMP:
		cfg, cerr := bmp.DecodeConfig(bytes.NewReader(data))
		w, h, err = cfg.Width, cfg.Height, cerr
	case FormatJPEG:
		cfg, cerr := stdjpeg.DecodeConfig(bytes.NewReader(data))
		w, h, err = cfg.Width, cfg.Height, cerr
	case FormatGIF, FormatPNG:
		// The worked decode lifecycles own these formats; header probing
		// of them goes through those sessions instead.
		return f, 0, 0, &HeaderError{Format: f, Reason: "use the decode session for this format"}
	}
	if err != nil {
		return f, 0, 0, &HeaderError{Format: f, Reason: err.Error()}
	}
	if w <= 0 || h <= 0 || w > lim.MaxWidth || h > lim.MaxHeight {
		return f, w, h, &HeaderError{Format: f, Reason: fmt.Sprintf("canvas %dx%d outside ceilings", w, h)}
	}
	return f, w, h, nil
}

// webpConfig validates the RIFF envelope before handing the stream to the
// configuration parser: the declared chunk size must match the actual byte
// count exactly, a mismatch being a failed precondition rather than slack to
// tolerate.
func webpConfig(data []byte) (int, int, error) {
	declared := int64(binary.LittleEndian.Uint32(data[4:8]))
	if declared+8 != int64(len(data)) {
		return 0, 0, fmt.Errorf("riff size mismatch: declared %d bytes, got %d", declared+8, len(data))
	}
	cfg, err := webp.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}
