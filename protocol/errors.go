package protocol

import (
	"errors"
	"fmt"
)

var (
	ErrExhausted    = errors.New("Input ended before a complete frame could be parsed")
	ErrNotMatched   = errors.New("Input does not match the expected token")
	ErrUnknownReply = errors.New("Unknown reply could not be parsed")
	ErrBadInteger   = errors.New("Integer literal is malformed or out of range")
	ErrBadFloat     = errors.New("Float literal is malformed")
	ErrNotUTF8      = errors.New("Text is not valid UTF-8")
)

// ParseError is the failure result of every decoding entry point. Rest is
// the unconsumed remainder of the input, positioned at the frame that
// failed. The wrapped reason is one of the sentinel errors above, so
// callers classify with errors.Is.
type ParseError struct {
	reason error

	Rest []byte
}

func newParseError(k kind, rest []byte) *ParseError {
	return &ParseError{reason: k.sentinel(), Rest: rest}
}

func (e *ParseError) Error() string {
	rest := e.Rest
	if len(rest) > 32 {
		rest = rest[:32]
	}

	return fmt.Sprintf("Failed to parse %q: %s", rest, e.reason)
}

func (e *ParseError) Unwrap() error {
	return e.reason
}

// Exhausted reports whether the failure only means the input ran out.
// Such a failure is recoverable: append more bytes to the same remainder
// and retry. Every other reason is fatal for the stream.
func (e *ParseError) Exhausted() bool {
	return errors.Is(e.reason, ErrExhausted)
}
