package gif

import (
	"errors"
	"io"

	"github.com/safemedia/imageguard/pkg/limits"
)

// sessionState tracks progress through the decode lifecycle. Every
// non-terminal state except accepted has exactly one exit to closed.
type sessionState int

const (
	stateUnopened sessionState = iota
	stateOpened
	stateCanvasValidated
	stateParsed
	stateFramesValidated
	stateAccepted
	stateClosed
)

// Session owns one decode attempt against one codec handle. It sequences
// the codec's calls with validation checkpoints interposed and guarantees
// the handle is released on every exit path. Sessions are single-use and
// not safe for concurrent use; run one session per input.
type Session struct {
	codec  Codec
	lim    limits.Limits
	state  sessionState
	handle Handle
}

// NewSession prepares a session over the given codec and ceiling table.
// The limits are validated once here; every later checkpoint trusts them.
func NewSession(codec Codec, lim limits.Limits) (*Session, error) {
	if codec == nil {
		return nil, errors.New("gif: nil codec")
	}
	if err := lim.Validate(); err != nil {
		return nil, err
	}
	return &Session{codec: codec, lim: lim, state: stateUnopened}, nil
}

// Open invokes the codec's stream-open capability and immediately validates
// the declared canvas. On a codec failure there is nothing to release; on a
// canvas rejection the just-opened handle is closed before returning.
func (s *Session) Open(r io.Reader) error {
	if s.state != stateUnopened {
		return errors.New("gif: session already opened")
	}
	h, err := s.codec.Open(r)
	if err != nil {
		s.state = stateClosed
		return &OpenError{Err: err}
	}
	s.handle = h
	s.state = stateOpened

	if err := validateCanvas(h.Canvas(), s.lim); err != nil {
		s.Close()
		return err
	}
	s.state = stateCanvasValidated
	return nil
}

// Parse invokes the codec's full-parse capability, then runs the structural
// validator over every frame in order. The handle is not closed here on
// failure; the caller (or Decode) owns the single cleanup call-site.
func (s *Session) Parse() (*Image, error) {
	if s.state != stateCanvasValidated {
		return nil, errors.New("gif: session not ready to parse")
	}
	if err := s.handle.ParseAll(); err != nil {
		return nil, &ParseError{Err: err}
	}
	s.state = stateParsed

	canvas := s.handle.Canvas()
	frames := s.handle.Frames()
	if rej := validateFrames(canvas, frames, s.lim); rej != nil {
		return nil, rej
	}
	s.state = stateFramesValidated

	img := &Image{Canvas: canvas, Frames: frames}
	s.state = stateAccepted
	return img, nil
}

// Close releases the codec handle. It is safe to call in any state and at
// most once actually reaches the codec; codec-internal close errors are
// swallowed in favor of unconditional resource release.
func (s *Session) Close() {
	if s.handle != nil {
		_ = s.handle.Close()
		s.handle = nil
	}
	if s.state != stateAccepted {
		s.state = stateClosed
	}
}

// Decode is the sole entry point callers need: open, validate the canvas,
// parse, validate every frame, and release the handle before returning on
// every path, success included. Frame pixel buffers transfer to the
// returned Image; the codec keeps no reference to them after Close.
func Decode(r io.Reader, codec Codec, lim limits.Limits) (*Image, error) {
	s, err := NewSession(codec, lim)
	if err != nil {
		return nil, err
	}
	if err := s.Open(r); err != nil {
		// Open already closed the handle on the rejection branch and
		// never held one on the open-failure branch.
		return nil, err
	}
	img, err := s.Parse()
	s.Close()
	if err != nil {
		return nil, err
	}
	return img, nil
}
