package imageguard

import "fmt"

// Kind classifies a decode failure at the top level: decoder-reported
// failures on open or parse, a canvas outside the ceilings, or a structural
// policy rejection of the parsed image.
type Kind int

const (
	KindOpenFailed Kind = iota
	KindInvalidCanvas
	KindParseFailed
	KindRejected
)

func (k Kind) String() string {
	switch k {
	case KindOpenFailed:
		return "OpenFailed"
	case KindInvalidCanvas:
		return "InvalidCanvas"
	case KindParseFailed:
		return "ParseFailed"
	case KindRejected:
		return "Rejected"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Reason identifies which structural invariant a rejected input violated.
// Values mirror the internal validator's reasons one to one.
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

// NoFrame marks a failure that is not attributable to a single frame.
const NoFrame = -1

// Error is the typed outcome of a refused decode. Width and Height are set
// for InvalidCanvas, Reason and Frame for Rejected, and Err carries the
// decoder's native error for OpenFailed and ParseFailed.
type Error struct {
	Format Format
	Kind   Kind

	Width  int
	Height int

	Reason Reason
	Frame  int

	Err error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindInvalidCanvas:
		return fmt.Sprintf("imageguard: %s: invalid canvas %dx%d", e.Format, e.Width, e.Height)
	case KindRejected:
		if e.Frame == NoFrame {
			return fmt.Sprintf("imageguard: %s: rejected: %s", e.Format, e.Reason)
		}
		return fmt.Sprintf("imageguard: %s: rejected: %s at frame %d", e.Format, e.Reason, e.Frame)
	default:
		return fmt.Sprintf("imageguard: %s: %s: %v", e.Format, e.Kind, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }
