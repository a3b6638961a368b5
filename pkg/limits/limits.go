// Package limits holds the resource ceilings applied to every untrusted
// image before and after it passes through an external decoder. The values
// are fixed at configuration time and are never derived from file contents;
// each checkpoint in the decode lifecycle treats them as authoritative.
package limits

import "fmt"

// Limits is the ceiling table consulted by every validation checkpoint.
// All fields must be positive; use Default for the stock policy.
type Limits struct {
	// MaxWidth and MaxHeight bound both the canvas and every frame.
	MaxWidth  int
	MaxHeight int
	// MaxFrames bounds the number of sub-images in one container.
	MaxFrames int
	// MaxExtensionsPerFrame bounds auxiliary metadata records per frame.
	MaxExtensionsPerFrame int
	// MaxChunkBytes bounds a single ancillary chunk.
	MaxChunkBytes int
	// MaxCachedChunks bounds how many ancillary chunks a decoder may retain.
	MaxCachedChunks int
}

// Default returns the stock policy: 8192x8192 canvas, 1000 frames, 1024
// extension blocks per frame, 256 KiB chunks, 128 cached chunks.
func Default() Limits {
	return Limits{
		MaxWidth:              8192,
		MaxHeight:             8192,
		MaxFrames:             1000,
		MaxExtensionsPerFrame: 1024,
		MaxChunkBytes:         256 * 1024,
		MaxCachedChunks:       128,
	}
}

// Validate reports whether every ceiling is positive. A zero-value Limits is
// rejected rather than silently defaulted.
func (l Limits) Validate() error {
	switch {
	case l.MaxWidth <= 0:
		return fmt.Errorf("limits: MaxWidth must be positive, got %d", l.MaxWidth)
	case l.MaxHeight <= 0:
		return fmt.Errorf("limits: MaxHeight must be positive, got %d", l.MaxHeight)
	case l.MaxFrames <= 0:
		return fmt.Errorf("limits: MaxFrames must be positive, got %d", l.MaxFrames)
	case l.MaxExtensionsPerFrame <= 0:
		return fmt.Errorf("limits: MaxExtensionsPerFrame must be positive, got %d", l.MaxExtensionsPerFrame)
	case l.MaxChunkBytes <= 0:
		return fmt.Errorf("limits: MaxChunkBytes must be positive, got %d", l.MaxChunkBytes)
	case l.MaxCachedChunks <= 0:
		return fmt.Errorf("limits: MaxCachedChunks must be positive, got %d", l.MaxCachedChunks)
	}
	return nil
}

// MaxInputBytes is the aggregate byte budget for decoders that expose no
// chunk-level hooks: the chunk ceiling times the cache ceiling.
func (l Limits) MaxInputBytes() int {
	return l.MaxChunkBytes * l.MaxCachedChunks
}
