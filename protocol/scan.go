package protocol

import (
	"math"
	"unicode/utf8"
)

// The matchers below are the vocabulary the decoders are written in. Every
// matcher takes a byte slice and, on success, returns the rest of the
// slice after the matched token. On failure the original slice is handed
// back untouched along with a kind saying why, so a caller can retry a
// different branch from the same position.

type kind uint8

const (
	matched kind = iota

	// exhausted means the input ran out while it was still a valid prefix
	// of the token. More bytes may yet complete it.
	exhausted

	// notMatched means a byte was present but wrong. No amount of further
	// input can complete the token.
	notMatched

	badInteger
	badFloat
	badUTF8
)

func (k kind) sentinel() error {
	switch k {
	case exhausted:
		return ErrExhausted
	case notMatched:
		return ErrNotMatched
	case badInteger:
		return ErrBadInteger
	case badFloat:
		return ErrBadFloat
	case badUTF8:
		return ErrNotUTF8
	}

	return nil
}

func matchByte(in []byte, c byte) ([]byte, kind) {
	if len(in) == 0 {
		return in, exhausted
	}

	if in[0] != c {
		return in, notMatched
	}

	return in[1:], matched
}

func matchSpace(in []byte) ([]byte, kind) {
	return matchByte(in, ' ')
}

func matchLF(in []byte) ([]byte, kind) {
	return matchByte(in, '\n')
}

func matchCRLF(in []byte) ([]byte, kind) {
	rest, k := matchByte(in, '\r')
	if k != matched {
		return in, k
	}

	rest, k = matchByte(rest, '\n')
	if k != matched {
		return in, k
	}

	return rest, matched
}

// matchLiteral distinguishes a wrong byte from a truncated buffer: an
// input that is a proper prefix of lit is exhausted, not a mismatch. The
// incremental parser relies on that to tell "partial keyword, keep
// reading" apart from "garbage on the wire".
func matchLiteral(in []byte, lit string) ([]byte, kind) {
	for i := 0; i < len(lit); i++ {
		if i >= len(in) {
			return in, exhausted
		}

		if in[i] != lit[i] {
			return in, notMatched
		}
	}

	return in[len(lit):], matched
}

// takeN captures exactly n bytes regardless of their content. A short
// buffer is exhaustion, never a mismatch: any bytes at all could still
// arrive to fill a payload.
func takeN(in []byte, n int) ([]byte, []byte, kind) {
	if len(in) < n {
		return in, nil, exhausted
	}

	return in[n:], in[:n], matched
}

// takeUntil captures the run of bytes before the first one stop accepts.
// The capture must be non-empty.
func takeUntil(in []byte, stop func(byte) bool) ([]byte, []byte, kind) {
	if len(in) == 0 {
		return in, nil, exhausted
	}

	i := 0
	for i < len(in) && !stop(in[i]) {
		i++
	}

	if i == 0 {
		return in, nil, notMatched
	}

	return in[i:], in[:i], matched
}

// scanUint captures an ASCII digit run as an unsigned 64 bit integer.
// Once a digit has been seen the matcher is committed: a run that does
// not fit uint64 is a malformed literal, not a mismatch, and must never
// cause a caller to try another branch.
func scanUint(in []byte) ([]byte, uint64, kind) {
	if len(in) == 0 {
		return in, 0, exhausted
	}

	if !isDigit(in[0]) {
		return in, 0, notMatched
	}

	var v uint64

	i := 0
	for ; i < len(in) && isDigit(in[i]); i++ {
		d := uint64(in[i] - '0')

		if v > (math.MaxUint64-d)/10 {
			return in, 0, badInteger
		}

		v = v*10 + d
	}

	return in[i:], v, matched
}

// scanName captures a name token, everything up to the next space or line
// ending. Names are the one place on a reply line where text is
// materialised, so UTF-8 validity is checked here and nowhere else.
func scanName(in []byte) ([]byte, string, kind) {
	rest, span, k := takeUntil(in, isNameEnd)
	if k != matched {
		return in, "", k
	}

	if !utf8.Valid(span) {
		return in, "", badUTF8
	}

	return rest, string(span), matched
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isNameEnd(c byte) bool {
	return c == ' ' || c == '\r' || c == '\n'
}
