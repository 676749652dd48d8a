package protocol

import (
	"strconv"
	"unicode/utf8"
)

// ScalarKind says which field of a Scalar is meaningful.
type ScalarKind uint8

const (
	ScalarText ScalarKind = iota
	ScalarInt
	ScalarFloat
	ScalarBool
)

// Scalar is one leaf value from a stats document.
type Scalar struct {
	Kind  ScalarKind
	Text  string
	Uint  uint64
	Float float64
	Bool  bool
}

func TextScalar(s string) Scalar {
	return Scalar{Kind: ScalarText, Text: s}
}

func UintScalar(v uint64) Scalar {
	return Scalar{Kind: ScalarInt, Uint: v}
}

func FloatScalar(f float64) Scalar {
	return Scalar{Kind: ScalarFloat, Float: f}
}

func BoolScalar(b bool) Scalar {
	return Scalar{Kind: ScalarBool, Bool: b}
}

// String renders the scalar the way it would appear in a document.
func (s Scalar) String() string {
	switch s.Kind {
	case ScalarInt:
		return strconv.FormatUint(s.Uint, 10)
	case ScalarFloat:
		return strconv.FormatFloat(s.Float, 'g', -1, 64)
	case ScalarBool:
		return strconv.FormatBool(s.Bool)
	}

	return s.Text
}

// Map is a decoded `key: value` stats document.
type Map map[string]Scalar

// List is a decoded ` - value` stats document. Order follows the
// document; for list-tubes-watched and friends it is meaningful.
type List []Scalar

const docHeader = "---\n"

// DecodeMap decodes a complete map-form document:
//
//   ```
//     ---\n
//     <key>: <value>\n
//     ...
//   ```
//
// Values are tried as a boolean literal, then a number, then fall back
// to bare text running to the end of the line. A repeated key keeps the
// last value. The whole input must be consumed.
func DecodeMap(data []byte) (Map, error) {
	rest, k := matchLiteral(data, docHeader)
	if k != matched {
		return nil, newParseError(k, data)
	}

	doc := make(Map)

	for len(rest) > 0 {
		key, val, next, k := decodeMapEntry(rest)
		if k != matched {
			return nil, newParseError(k, rest)
		}

		doc[key] = val
		rest = next
	}

	return doc, nil
}

// DecodeList decodes a complete list-form document:
//
//   ```
//     ---\n
//      - <value>\n
//     ...
//   ```
//
// Entries are text tokens. The whole input must be consumed.
func DecodeList(data []byte) (List, error) {
	rest, k := matchLiteral(data, docHeader)
	if k != matched {
		return nil, newParseError(k, data)
	}

	var doc List

	for len(rest) > 0 {
		next, k := matchLiteral(rest, " - ")
		if k != matched {
			return nil, newParseError(k, rest)
		}

		var val Scalar
		next, val, k = decodeText(next)
		if k != matched {
			return nil, newParseError(k, rest)
		}

		next, k = matchLF(next)
		if k != matched {
			return nil, newParseError(k, rest)
		}

		doc = append(doc, val)
		rest = next
	}

	return doc, nil
}

func decodeMapEntry(in []byte) (string, Scalar, []byte, kind) {
	// Keys cannot contain spaces, which also keeps a list-form line from
	// ever parsing as a map entry.
	rest, span, k := takeUntil(in, func(c byte) bool {
		return c == ':' || c == ' ' || c == '\n'
	})
	if k != matched {
		return "", Scalar{}, in, k
	}

	if !utf8.Valid(span) {
		return "", Scalar{}, in, badUTF8
	}

	rest, k = matchLiteral(rest, ": ")
	if k != matched {
		return "", Scalar{}, in, k
	}

	var val Scalar
	rest, val, k = decodeScalar(rest)
	if k != matched {
		return "", Scalar{}, in, k
	}

	rest, k = matchLF(rest)
	if k != matched {
		return "", Scalar{}, in, k
	}

	return string(span), val, rest, matched
}

// decodeScalar tries the value branches in order: boolean, number, text.
// A malformed number aborts the entry rather than falling through, per
// the commit rule in scanUint.
func decodeScalar(in []byte) ([]byte, Scalar, kind) {
	if rest, k := matchLiteral(in, "true"); k == matched {
		return rest, BoolScalar(true), matched
	}

	if rest, k := matchLiteral(in, "false"); k == matched {
		return rest, BoolScalar(false), matched
	}

	rest, val, k := decodeNumber(in)
	if k == matched || k == badInteger || k == badFloat {
		return rest, val, k
	}

	return decodeText(in)
}

// decodeNumber captures an integer, or a float when the digit run is
// followed by a dot and at least one more digit. A lone trailing dot is
// left unconsumed and the integer stands.
func decodeNumber(in []byte) ([]byte, Scalar, kind) {
	rest, head, k := scanUint(in)
	if k != matched {
		return in, Scalar{}, k
	}

	if len(rest) >= 2 && rest[0] == '.' && isDigit(rest[1]) {
		tail, _, k := scanUint(rest[1:])
		if k != matched {
			return in, Scalar{}, k
		}

		span := in[:len(in)-len(tail)]

		f, err := strconv.ParseFloat(string(span), 64)
		if err != nil {
			return in, Scalar{}, badFloat
		}

		return tail, FloatScalar(f), matched
	}

	return rest, UintScalar(head), matched
}

// decodeText captures the rest of the line verbatim. Values like an os
// description can contain spaces, so only the line feed ends the token.
func decodeText(in []byte) ([]byte, Scalar, kind) {
	rest, span, k := takeUntil(in, func(c byte) bool {
		return c == '\n'
	})
	if k != matched {
		return in, Scalar{}, k
	}

	if !utf8.Valid(span) {
		return in, Scalar{}, badUTF8
	}

	return rest, TextScalar(string(span)), matched
}
