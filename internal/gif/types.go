// Package gif implements the policy-enforcing decode lifecycle for GIF
// input: a session that drives an external decoder capability through
// open, parse and close with validation checkpoints interposed, so that
// structurally valid but resource-abusive or bounds-violating files are
// rejected before any consuming code touches them.
package gif

import (
	"image/color"
	"io"
)

// Canvas describes the logical screen declared by the container header.
// It is produced at open time and never mutated afterwards.
type Canvas struct {
	Width  int
	Height int
}

// Frame describes one decoded sub-image positioned on the canvas. The pixel
// buffer is owned by the codec until the session accepts the image; the
// validator only borrows it to check presence.
type Frame struct {
	Left   int
	Top    int
	Width  int
	Height int

	// Pixels holds one palette index per pixel, row-major with Stride
	// bytes per row. Nil means the decoder failed to allocate the raster.
	Pixels []byte
	Stride int

	// Palette resolves pixel indices to colors. Local table if the frame
	// carries one, otherwise the global table.
	Palette color.Palette

	// Extensions counts the auxiliary metadata blocks attached to the frame.
	Extensions int
}

// Image is the fully parsed container: canvas plus frames in file order.
// It is returned to the caller only after every checkpoint has passed.
type Image struct {
	Canvas Canvas
	Frames []Frame
}

// Codec is the raw decoding capability the session drives. Open performs
// only the header read; the expensive parse is a separate step on the
// returned handle so the session can reject a canvas before paying for it.
type Codec interface {
	Open(r io.Reader) (Handle, error)
}

// Handle is one opened decode stream. Canvas is valid immediately after
// Open; Frames only after a successful ParseAll. A failed ParseAll leaves
// the handle inspectable and still requiring Close. Close releases all
// decoder-held resources and must be called exactly once per handle.
type Handle interface {
	Canvas() Canvas
	ParseAll() error
	Frames() []Frame
	Close() error
}
