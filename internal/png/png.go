// Package png applies the decode lifecycle policy to PNG input. The PNG
// decoder family reports faults by unwinding rather than by status returns,
// so the session installs a recovery boundary around each decoder call and
// routes anything raised inside it into the same typed error set used for
// status-returning decoders.
package png

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	stdpng "image/png"
	"io"

	"github.com/safemedia/imageguard/pkg/limits"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}

// CanvasError reports a canvas that violates the dimension ceilings.
type CanvasError struct {
	Width  int
	Height int
}

func (e *CanvasError) Error() string {
	return fmt.Sprintf("png: invalid canvas %dx%d", e.Width, e.Height)
}

// OpenError wraps a failure reading or recognising the stream header.
type OpenError struct {
	Err error
}

func (e *OpenError) Error() string { return fmt.Sprintf("png: open failed: %v", e.Err) }
func (e *OpenError) Unwrap() error { return e.Err }

// ParseError wraps a failure (including a recovered fault) from the full
// decode step.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("png: parse failed: %v", e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// ErrInputTooLarge rejects streams exceeding the aggregate byte budget. PNG
// exposes no chunk-level hooks through the standard decoder, so the chunk
// ceilings collapse into one total input cap.
var ErrInputTooLarge = errors.New("png: input exceeds byte budget")

// Decode runs the policy-enforcing lifecycle over one PNG stream: size cap,
// signature check, header-level canvas validation, then the full decode
// inside a recovery boundary. No partial image is ever returned.
func Decode(r io.Reader, lim limits.Limits) (image.Image, error) {
	if err := lim.Validate(); err != nil {
		return nil, err
	}

	budget := int64(lim.MaxInputBytes())
	data, err := io.ReadAll(io.LimitReader(r, budget+1))
	if err != nil {
		return nil, &OpenError{Err: err}
	}
	if int64(len(data)) > budget {
		return nil, &OpenError{Err: ErrInputTooLarge}
	}
	if len(data) < len(pngSignature) || !bytes.Equal(data[:len(pngSignature)], pngSignature) {
		return nil, &OpenError{Err: errors.New("png: invalid signature")}
	}

	cfg, err := stdpng.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, &OpenError{Err: err}
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > lim.MaxWidth || cfg.Height > lim.MaxHeight {
		return nil, &CanvasError{Width: cfg.Width, Height: cfg.Height}
	}

	return decodeGuarded(data)
}

// decodeGuarded is the recovery boundary: it exists for the duration of one
// decoder call, converts any fault raised inside it into a ParseError, and
// leaves nothing allocated on the failure path.
func decodeGuarded(data []byte) (img image.Image, err error) {
	defer func() {
		if p := recover(); p != nil {
			img = nil
			err = &ParseError{Err: fmt.Errorf("decoder fault: %v", p)}
		}
	}()
	img, derr := stdpng.Decode(bytes.NewReader(data))
	if derr != nil {
		return nil, &ParseError{Err: derr}
	}
	return img, nil
}
