package gif

import "fmt"

// Reason identifies which structural invariant a rejected input violated.
type Reason int

const (
	TooManyFrames Reason = iota
	BadDimensions
	OutOfBounds
	MissingPixelData
	TooManyExtensions
)

func (r Reason) String() string {
	switch r {
	case TooManyFrames:
		return "TooManyFrames"
	case BadDimensions:
		return "BadDimensions"
	case OutOfBounds:
		return "OutOfBounds"
	case MissingPixelData:
		return "MissingPixelData"
	case TooManyExtensions:
		return "TooManyExtensions"
	default:
		return fmt.Sprintf("Reason(%d)", int(r))
	}
}

// NoFrame marks a rejection that is not attributable to a single frame.
const NoFrame = -1

// RejectionError reports a policy violation found by the validator, with
// the index of the offending frame when one is attributable.
type RejectionError struct {
	Reason Reason
	Frame  int
}

func (e *RejectionError) Error() string {
	if e.Frame == NoFrame {
		return fmt.Sprintf("gif: rejected: %s", e.Reason)
	}
	return fmt.Sprintf("gif: rejected: %s at frame %d", e.Reason, e.Frame)
}

// OpenError wraps a failure reported by the decoder's open step.
type OpenError struct {
	Err error
}

func (e *OpenError) Error() string { return fmt.Sprintf("gif: open failed: %v", e.Err) }
func (e *OpenError) Unwrap() error { return e.Err }

// CanvasError reports a canvas that violates the dimension ceilings,
// carrying the declared size for triage.
type CanvasError struct {
	Width  int
	Height int
}

func (e *CanvasError) Error() string {
	return fmt.Sprintf("gif: invalid canvas %dx%d", e.Width, e.Height)
}

// ParseError wraps a failure reported by the decoder's parse step.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("gif: parse failed: %v", e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }
