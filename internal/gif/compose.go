package gif

import (
	"fmt"
	"image"
	"image/draw"
)

// ComposeFirstFrame renders the first frame of an accepted image onto an
// opaque RGBA canvas at its declared offset. Every palette index is checked
// against the color table before use; an out-of-range index means the
// decoder produced a raster the table cannot resolve, which is treated as a
// hard failure rather than clamped.
//
// The image must already have passed validation, so the frame rectangle is
// known to lie within the canvas.
func ComposeFirstFrame(img *Image) (*image.RGBA, error) {
	if img == nil || len(img.Frames) == 0 {
		return nil, fmt.Errorf("gif: no frames to compose")
	}
	f := img.Frames[0]
	if len(f.Palette) == 0 {
		return nil, fmt.Errorf("gif: frame 0 has no color table")
	}

	if f.Stride < f.Width || len(f.Pixels) < (f.Height-1)*f.Stride+f.Width {
		return nil, fmt.Errorf("gif: frame 0 raster shorter than its geometry")
	}

	out := image.NewRGBA(image.Rect(0, 0, img.Canvas.Width, img.Canvas.Height))
	draw.Draw(out, out.Bounds(), image.White, image.Point{}, draw.Src)

	for y := 0; y < f.Height; y++ {
		row := f.Pixels[y*f.Stride : y*f.Stride+f.Width]
		for x, idx := range row {
			if int(idx) >= len(f.Palette) {
				return nil, fmt.Errorf("gif: color index %d out of range (table size %d)", idx, len(f.Palette))
			}
			out.Set(f.Left+x, f.Top+y, f.Palette[idx])
		}
	}
	return out, nil
}
