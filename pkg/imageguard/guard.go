// Package imageguard is the public surface of the validation layer that
// sits between an application and its untrusted-input image decoders. Every
// decode either yields a fully validated result or a typed Error; nothing
// partial, repaired, or best-effort ever crosses the boundary, and the
// underlying decoder's resources are released on every path.
package imageguard

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/safemedia/imageguard/internal/gif"
	"github.com/safemedia/imageguard/internal/png"
	"github.com/safemedia/imageguard/internal/probe"
	"github.com/safemedia/imageguard/pkg/limits"
	"github.com/safemedia/imageguard/pkg/metrics"
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

func (f Format) String() string { return probe.Format(f).String() }

// Result is an accepted input. Image holds decoded pixels for the formats
// whose decode lifecycle is fully worked (first frame composed onto the
// canvas for GIF, the whole raster for PNG); header-validated formats carry
// geometry only.
type Result struct {
	Format     Format
	Width      int
	Height     int
	FrameCount int
	Image      image.Image
}

// Guard runs decode sessions under one ceiling table. A Guard is immutable
// after construction and safe for concurrent use; sessions share nothing
// but the read-only limits.
type Guard struct {
	lim limits.Limits
	reg *metrics.Registry
}

// New builds a Guard over the given limits. The limits are validated once
// here and treated as authoritative by every checkpoint afterwards.
func New(lim limits.Limits) (*Guard, error) {
	if err := lim.Validate(); err != nil {
		return nil, err
	}
	return &Guard{lim: lim}, nil
}

// NewInstrumented is New plus a metrics registry recording outcomes.
func NewInstrumented(lim limits.Limits, reg *metrics.Registry) (*Guard, error) {
	g, err := New(lim)
	if err != nil {
		return nil, err
	}
	g.reg = reg
	return g, nil
}

// Limits returns the guard's ceiling table.
func (g *Guard) Limits() limits.Limits { return g.lim }

// Decode sniffs the container format from magic bytes and dispatches to the
// matching lifecycle. Unknown input fails as OpenFailed without any decoder
// being invoked.
func (g *Guard) Decode(data []byte) (*Result, error) {
	switch probe.Detect(data) {
	case probe.FormatGIF:
		return g.DecodeGIF(data)
	case probe.FormatPNG:
		return g.DecodePNG(data)
	case probe.FormatWebP, probe.FormatTIFF, probe.FormatBMP, probe.FormatJPEG:
		return g.ValidateHeader(data)
	default:
		err := &Error{
			Format: FormatUnknown,
			Kind:   KindOpenFailed,
			Frame:  NoFrame,
			Err:    errors.New("unrecognised container signature"),
		}
		g.record(FormatUnknown, err)
		return nil, err
	}
}

// DecodeGIF runs the full GIF decode lifecycle: open, canvas checkpoint,
// parse, per-frame structural validation, first-frame composition. The
// decoder handle is closed exactly once on every path.
func (g *Guard) DecodeGIF(data []byte) (*Result, error) {
	if err := g.checkBudget(FormatGIF, len(data)); err != nil {
		return nil, err
	}
	img, err := gif.Decode(bytes.NewReader(data), gif.StdCodec{}, g.lim)
	if err != nil {
		gerr := translateGIF(err)
		g.record(FormatGIF, gerr)
		return nil, gerr
	}
	composed, err := gif.ComposeFirstFrame(img)
	if err != nil {
		gerr := &Error{Format: FormatGIF, Kind: KindParseFailed, Frame: NoFrame, Err: err}
		g.record(FormatGIF, gerr)
		return nil, gerr
	}
	res := &Result{
		Format:     FormatGIF,
		Width:      img.Canvas.Width,
		Height:     img.Canvas.Height,
		FrameCount: len(img.Frames),
		Image:      composed,
	}
	g.record(FormatGIF, nil)
	return res, nil
}

// DecodePNG runs the PNG lifecycle with its recovery boundary.
func (g *Guard) DecodePNG(data []byte) (*Result, error) {
	raster, err := png.Decode(bytes.NewReader(data), g.lim)
	if err != nil {
		gerr := translatePNG(err)
		g.record(FormatPNG, gerr)
		return nil, gerr
	}
	b := raster.Bounds()
	res := &Result{
		Format:     FormatPNG,
		Width:      b.Dx(),
		Height:     b.Dy(),
		FrameCount: 1,
		Image:      raster,
	}
	g.record(FormatPNG, nil)
	return res, nil
}

// ValidateHeader checks declared geometry for the header-validated formats
// (JPEG, WebP, TIFF, BMP) without decoding pixels.
func (g *Guard) ValidateHeader(data []byte) (*Result, error) {
	f, w, h, err := probe.ValidateHeader(data, g.lim)
	format := Format(f)
	if err != nil {
		var gerr *Error
		if w != 0 || h != 0 {
			gerr = &Error{Format: format, Kind: KindInvalidCanvas, Width: w, Height: h, Frame: NoFrame, Err: err}
		} else {
			gerr = &Error{Format: format, Kind: KindOpenFailed, Frame: NoFrame, Err: err}
		}
		g.record(format, gerr)
		return nil, gerr
	}
	res := &Result{Format: format, Width: w, Height: h}
	g.record(format, nil)
	return res, nil
}

func (g *Guard) checkBudget(f Format, n int) error {
	if n <= g.lim.MaxInputBytes() {
		return nil
	}
	err := &Error{
		Format: f,
		Kind:   KindOpenFailed,
		Frame:  NoFrame,
		Err:    fmt.Errorf("input of %d bytes exceeds byte budget %d", n, g.lim.MaxInputBytes()),
	}
	g.record(f, err)
	return err
}

// translateGIF maps the internal session errors onto the public taxonomy.
func translateGIF(err error) *Error {
	out := &Error{Format: FormatGIF, Frame: NoFrame, Err: err}
	var (
		oe  *gif.OpenError
		ce  *gif.CanvasError
		pe  *gif.ParseError
		rej *gif.RejectionError
	)
	switch {
	case errors.As(err, &ce):
		out.Kind = KindInvalidCanvas
		out.Width, out.Height = ce.Width, ce.Height
	case errors.As(err, &rej):
		out.Kind = KindRejected
		out.Reason = Reason(rej.Reason)
		out.Frame = rej.Frame
	case errors.As(err, &pe):
		out.Kind = KindParseFailed
		out.Err = pe.Err
	case errors.As(err, &oe):
		out.Kind = KindOpenFailed
		out.Err = oe.Err
	default:
		out.Kind = KindOpenFailed
	}
	return out
}

func translatePNG(err error) *Error {
	out := &Error{Format: FormatPNG, Frame: NoFrame, Err: err}
	var (
		oe *png.OpenError
		ce *png.CanvasError
		pe *png.ParseError
	)
	switch {
	case errors.As(err, &ce):
		out.Kind = KindInvalidCanvas
		out.Width, out.Height = ce.Width, ce.Height
	case errors.As(err, &pe):
		out.Kind = KindParseFailed
		out.Err = pe.Err
	case errors.As(err, &oe):
		out.Kind = KindOpenFailed
		out.Err = oe.Err
	default:
		out.Kind = KindOpenFailed
	}
	return out
}

func (g *Guard) record(f Format, gerr *Error) {
	if g.reg == nil {
		return
	}
	if gerr == nil {
		g.reg.RecordProcessed(f.String(), metrics.OutcomeAccepted)
		return
	}
	switch gerr.Kind {
	case KindOpenFailed:
		g.reg.RecordProcessed(f.String(), metrics.OutcomeOpenFailed)
	case KindInvalidCanvas:
		g.reg.RecordProcessed(f.String(), metrics.OutcomeInvalid)
	case KindParseFailed:
		g.reg.RecordProcessed(f.String(), metrics.OutcomeParseError)
	case KindRejected:
		g.reg.RecordProcessed(f.String(), metrics.OutcomeRejected)
		g.reg.RecordRejection(f.String(), gerr.Reason.String())
	}
}
