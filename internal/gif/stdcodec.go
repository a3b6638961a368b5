package gif

import (
	"bytes"
	"errors"
	"fmt"
	stdgif "image/gif"
	"io"
)

// StdCodec adapts the standard library GIF decoder to the Codec capability.
// Open performs only the signature check and header read; ParseAll pays for
// the full decode plus a structural block walk that recovers the per-frame
// extension counts the standard decoder does not surface.
type StdCodec struct{}

// Open reads the stream and parses its header. The signature is checked
// before the decoder sees a single byte: exactly "GIF" followed by version
// "87a" or "89a".
func (StdCodec) Open(r io.Reader) (Handle, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if err := checkSignature(data); err != nil {
		return nil, err
	}
	cfg, err := stdgif.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &stdHandle{
		data:   data,
		canvas: Canvas{Width: cfg.Width, Height: cfg.Height},
	}, nil
}

func checkSignature(data []byte) error {
	if len(data) < 6 {
		return errors.New("gif: file too small")
	}
	if string(data[:3]) != "GIF" {
		return errors.New("gif: invalid signature")
	}
	if v := string(data[3:6]); v != "87a" && v != "89a" {
		return fmt.Errorf("gif: unknown version %q", v)
	}
	return nil
}

type stdHandle struct {
	data   []byte
	canvas Canvas
	frames []Frame
	closed bool
}

func (h *stdHandle) Canvas() Canvas { return h.canvas }

func (h *stdHandle) ParseAll() error {
	if h.closed {
		return errors.New("gif: handle closed")
	}
	g, err := stdgif.DecodeAll(bytes.NewReader(h.data))
	if err != nil {
		return err
	}
	ext, err := walkExtensionCounts(h.data)
	if err != nil {
		return err
	}
	h.frames = make([]Frame, len(g.Image))
	for i, p := range g.Image {
		b := p.Bounds()
		f := Frame{
			Left:    b.Min.X,
			Top:     b.Min.Y,
			Width:   b.Dx(),
			Height:  b.Dy(),
			Pixels:  p.Pix,
			Stride:  p.Stride,
			Palette: p.Palette,
		}
		if i < len(ext) {
			f.Extensions = ext[i]
		}
		h.frames[i] = f
	}
	return nil
}

func (h *stdHandle) Frames() []Frame { return h.frames }

func (h *stdHandle) Close() error {
	if h.closed {
		return errors.New("gif: handle already closed")
	}
	h.closed = true
	h.data = nil
	h.frames = nil
	return nil
}
