package gif

import "github.com/safemedia/imageguard/pkg/limits"

// validateCanvas checks the coarse header against the dimension ceilings.
// It runs before the parse step so an oversized canvas never costs a full
// decode.
func validateCanvas(c Canvas, lim limits.Limits) error {
	if c.Width <= 0 || c.Height <= 0 || c.Width > lim.MaxWidth || c.Height > lim.MaxHeight {
		return &CanvasError{Width: c.Width, Height: c.Height}
	}
	return nil
}

// validateFrames runs the full structural checks over a parsed image in a
// fixed order: the global frame-count ceiling first, then per-frame checks
// in index order, stopping at the first violation. Within a frame the
// ordering follows what can be safely computed: dimension sanity before the
// containment arithmetic that depends on it, then buffer presence, then the
// extension ceiling.
func validateFrames(c Canvas, frames []Frame, lim limits.Limits) *RejectionError {
	if len(frames) > lim.MaxFrames {
		return &RejectionError{Reason: TooManyFrames, Frame: NoFrame}
	}
	for i, f := range frames {
		if f.Width <= 0 || f.Height <= 0 || f.Width > lim.MaxWidth || f.Height > lim.MaxHeight {
			return &RejectionError{Reason: BadDimensions, Frame: i}
		}
		// Containment without wraparound: the subtractions cannot
		// underflow because the frame dimensions are already known to
		// be positive and no larger than the (validated) canvas axes
		// would allow; huge offsets fail the comparison directly.
		if f.Left < 0 || f.Top < 0 || f.Left > c.Width-f.Width || f.Top > c.Height-f.Height {
			return &RejectionError{Reason: OutOfBounds, Frame: i}
		}
		if f.Pixels == nil {
			return &RejectionError{Reason: MissingPixelData, Frame: i}
		}
		if f.Extensions > lim.MaxExtensionsPerFrame {
			return &RejectionError{Reason: TooManyExtensions, Frame: i}
		}
	}
	return nil
}
