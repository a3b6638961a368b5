package gif

import (
	"image/color"
	"testing"
)

func TestComposeFirstFrame(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	img := &Image{
		Canvas: Canvas{Width: 4, Height: 4},
		Frames: []Frame{{
			Left: 1, Top: 2, Width: 2, Height: 1,
			Pixels:  []byte{1, 1},
			Stride:  2,
			Palette: color.Palette{color.Black, red},
		}},
	}

	out, err := ComposeFirstFrame(img)
	if err != nil {
		t.Fatalf("ComposeFirstFrame: %v", err)
	}
	if got := out.Bounds(); got.Dx() != 4 || got.Dy() != 4 {
		t.Fatalf("unexpected canvas bounds: %v", got)
	}
	if got := out.RGBAAt(1, 2); got != red {
		t.Fatalf("pixel (1,2): got %+v, want %+v", got, red)
	}
	if got := out.RGBAAt(2, 2); got != red {
		t.Fatalf("pixel (2,2): got %+v, want %+v", got, red)
	}
	// Untouched canvas stays opaque white.
	if got := out.RGBAAt(0, 0); got.R != 255 || got.G != 255 || got.B != 255 || got.A != 255 {
		t.Fatalf("background pixel: got %+v", got)
	}
}

func TestComposeRejectsBadColorIndex(t *testing.T) {
	img := &Image{
		Canvas: Canvas{Width: 2, Height: 2},
		Frames: []Frame{{
			Left: 0, Top: 0, Width: 1, Height: 1,
			Pixels:  []byte{7},
			Stride:  1,
			Palette: color.Palette{color.Black, color.White},
		}},
	}
	if _, err := ComposeFirstFrame(img); err == nil {
		t.Fatal("expected error for out-of-range color index")
	}
}

func TestComposeRejectsShortRaster(t *testing.T) {
	img := &Image{
		Canvas: Canvas{Width: 4, Height: 4},
		Frames: []Frame{{
			Left: 0, Top: 0, Width: 4, Height: 4,
			Pixels:  []byte{0, 0},
			Stride:  4,
			Palette: color.Palette{color.Black},
		}},
	}
	if _, err := ComposeFirstFrame(img); err == nil {
		t.Fatal("expected error for undersized raster")
	}
}

func TestComposeRequiresFrames(t *testing.T) {
	if _, err := ComposeFirstFrame(&Image{Canvas: Canvas{Width: 1, Height: 1}}); err == nil {
		t.Fatal("expected error for frameless image")
	}
	if _, err := ComposeFirstFrame(nil); err == nil {
		t.Fatal("expected error for nil image")
	}
}

func TestComposeRequiresColorTable(t *testing.T) {
	img := &Image{
		Canvas: Canvas{Width: 1, Height: 1},
		Frames: []Frame{{Left: 0, Top: 0, Width: 1, Height: 1, Pixels: []byte{0}, Stride: 1}},
	}
	if _, err := ComposeFirstFrame(img); err == nil {
		t.Fatal("expected error for missing color table")
	}
}
