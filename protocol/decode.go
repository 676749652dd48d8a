package protocol

import "errors"

// decodeFunc recognises exactly one reply shape at the start of the
// input. On success it returns the message and the rest of the input; on
// failure the input comes back untouched so the next recogniser can try.
type decodeFunc func(in []byte) (Message, []byte, kind)

// decoders is tried in order, first structural match wins. The keywords
// are mutually exclusive (no keyword is a prefix of another), so the
// order never changes which message a valid frame decodes to.
var decoders = []decodeFunc{
	decodeInserted,
	decodeUsing,
	decodeReserved,
	decodeBare(KeywordOutOfMemory, OutOfMemory{}),
	decodeBare(KeywordInternalError, InternalError{}),
	decodeBare(KeywordBadFormat, BadFormat{}),
	decodeBare(KeywordUnknownCommand, UnknownCommand{}),
	decodeBare(KeywordExpectedCRLF, ExpectedCRLF{}),
	decodeBare(KeywordJobTooBig, JobTooBig{}),
	decodeBare(KeywordDraining, Draining{}),
	decodeBare(KeywordDeadlineSoon, DeadlineSoon{}),
	decodeBare(KeywordTimedOut, TimedOut{}),
	decodeBare(KeywordNotFound, NotFound{}),
	decodeBare(KeywordDeleted, Deleted{}),
	decodeBare(KeywordReleased, Released{}),
	decodeBuried,
	decodeBare(KeywordTouched, Touched{}),
	decodeWatching,
	decodeBare(KeywordNotIgnored, NotIgnored{}),
	decodeFound,
	decodeKicked,
	decodeOK,
	decodeBare(KeywordPaused, Paused{}),
}

// DecodeMessage parses exactly one reply off the front of data and
// returns it along with the unconsumed rest.
//
// On failure the returned error is a *ParseError wrapping one of the
// sentinel errors:
//
//   - ErrExhausted: data holds a valid frame prefix but not a whole
//     frame. Read more bytes, retry with the same data.
//   - ErrUnknownReply: no reply keyword matches here. The stream is
//     desynchronised and the connection should be dropped.
//   - ErrBadInteger, ErrBadFloat, ErrNotUTF8: a keyword matched but a
//     committed literal after it was ill-formed. Also fatal.
func DecodeMessage(data []byte) (Message, []byte, error) {
	sawExhausted := false

	for _, decode := range decoders {
		msg, rest, k := decode(data)

		switch k {
		case matched:
			return msg, rest, nil

		case exhausted:
			sawExhausted = true

		case notMatched:
			// try the next keyword

		default:
			// A literal after a matched keyword was malformed. No other
			// recogniser can match once a keyword has been consumed, so
			// there is nothing left to try.
			return nil, data, newParseError(k, data)
		}
	}

	if sawExhausted {
		return nil, data, newParseError(exhausted, data)
	}

	return nil, data, &ParseError{reason: ErrUnknownReply, Rest: data}
}

// Drain pulls every complete reply off the front of data, in frame
// order.
//
// The returned rest is the unconsumed tail. A non-empty rest with a nil
// error is a partial frame: keep it, append the next read to it and call
// Drain again. A non-nil error is a desynchronised stream; rest then
// points at the offending frame and err is the *ParseError describing
// it. Drain never decodes past a failure.
func Drain(data []byte) (msgs []Message, rest []byte, err error) {
	rest = data

	for len(rest) > 0 {
		msg, next, err := DecodeMessage(rest)
		if err != nil {
			if errors.Is(err, ErrExhausted) {
				return msgs, rest, nil
			}

			return msgs, rest, err
		}

		msgs = append(msgs, msg)
		rest = next
	}

	return msgs, rest, nil
}

// decodeBare builds the recogniser for a reply that is its keyword and
// nothing else.
func decodeBare(kw Keyword, msg Message) decodeFunc {
	lit := string(kw) + "\r\n"

	return func(in []byte) (Message, []byte, kind) {
		rest, k := matchLiteral(in, lit)
		if k != matched {
			return nil, in, k
		}

		return msg, rest, matched
	}
}

func decodeInserted(in []byte) (Message, []byte, kind) {
	rest, k := matchLiteral(in, "INSERTED ")
	if k != matched {
		return nil, in, k
	}

	var id uint64
	rest, id, k = scanUint(rest)
	if k != matched {
		return nil, in, k
	}

	rest, k = matchCRLF(rest)
	if k != matched {
		return nil, in, k
	}

	return Inserted{ID: id}, rest, matched
}

func decodeUsing(in []byte) (Message, []byte, kind) {
	rest, k := matchLiteral(in, "USING ")
	if k != matched {
		return nil, in, k
	}

	var tube string
	rest, tube, k = scanName(rest)
	if k != matched {
		return nil, in, k
	}

	rest, k = matchCRLF(rest)
	if k != matched {
		return nil, in, k
	}

	return Using{Tube: tube}, rest, matched
}

func decodeReserved(in []byte) (Message, []byte, kind) {
	id, body, rest, k := decodeJobFrame(in, "RESERVED ")
	if k != matched {
		return nil, in, k
	}

	return Reserved{ID: id, Body: body}, rest, matched
}

func decodeFound(in []byte) (Message, []byte, kind) {
	id, body, rest, k := decodeJobFrame(in, "FOUND ")
	if k != matched {
		return nil, in, k
	}

	return Found{ID: id, Body: body}, rest, matched
}

// decodeJobFrame parses `<keyword> <id> <count>\r\n<count bytes>\r\n`,
// the shape shared by RESERVED and FOUND.
func decodeJobFrame(in []byte, prefix string) (uint64, []byte, []byte, kind) {
	rest, k := matchLiteral(in, prefix)
	if k != matched {
		return 0, nil, in, k
	}

	var id uint64
	rest, id, k = scanUint(rest)
	if k != matched {
		return 0, nil, in, k
	}

	rest, k = matchSpace(rest)
	if k != matched {
		return 0, nil, in, k
	}

	var body []byte
	body, rest, k = decodePayload(rest)
	if k != matched {
		return 0, nil, in, k
	}

	return id, body, rest, matched
}

func decodeWatching(in []byte) (Message, []byte, kind) {
	rest, k := matchLiteral(in, "WATCHING ")
	if k != matched {
		return nil, in, k
	}

	var count uint64
	rest, count, k = scanUint(rest)
	if k != matched {
		return nil, in, k
	}

	rest, k = matchCRLF(rest)
	if k != matched {
		return nil, in, k
	}

	return Watching{Count: count}, rest, matched
}

func decodeBuried(in []byte) (Message, []byte, kind) {
	rest, k := matchLiteral(in, "BURIED")
	if k != matched {
		return nil, in, k
	}

	// The id suffix is optional. Try ` <id>` first, fall back to the bare
	// form only when the next byte rules the suffix out. A buffer ending
	// right after the keyword stays exhausted: either form could still
	// arrive.
	if next, k := matchSpace(rest); k != notMatched {
		if k != matched {
			return nil, in, k
		}

		var id uint64
		next, id, k = scanUint(next)
		if k != matched {
			return nil, in, k
		}

		next, k = matchCRLF(next)
		if k != matched {
			return nil, in, k
		}

		return Buried{ID: id, HasID: true}, next, matched
	}

	rest, k = matchCRLF(rest)
	if k != matched {
		return nil, in, k
	}

	return Buried{}, rest, matched
}

func decodeKicked(in []byte) (Message, []byte, kind) {
	rest, k := matchLiteral(in, "KICKED")
	if k != matched {
		return nil, in, k
	}

	// Optional count suffix, same scheme as decodeBuried.
	if next, k := matchSpace(rest); k != notMatched {
		if k != matched {
			return nil, in, k
		}

		var count uint64
		next, count, k = scanUint(next)
		if k != matched {
			return nil, in, k
		}

		next, k = matchCRLF(next)
		if k != matched {
			return nil, in, k
		}

		return Kicked{Count: count, HasCount: true}, next, matched
	}

	rest, k = matchCRLF(rest)
	if k != matched {
		return nil, in, k
	}

	return Kicked{}, rest, matched
}

func decodeOK(in []byte) (Message, []byte, kind) {
	rest, k := matchLiteral(in, "OK ")
	if k != matched {
		return nil, in, k
	}

	var body []byte
	body, rest, k = decodePayload(rest)
	if k != matched {
		return nil, in, k
	}

	return OK{Body: body}, rest, matched
}

// decodePayload parses `<count>\r\n<count bytes>\r\n` and returns an
// owned copy of the bytes. Exactly count bytes are taken, whatever they
// contain; embedded CRLF never ends a payload early.
func decodePayload(in []byte) ([]byte, []byte, kind) {
	rest, size, k := scanUint(in)
	if k != matched {
		return nil, in, k
	}

	// The count has to fit in an int to slice the payload out.
	if size > uint64(maxInt) {
		return nil, in, badInteger
	}

	rest, k = matchCRLF(rest)
	if k != matched {
		return nil, in, k
	}

	var span []byte
	rest, span, k = takeN(rest, int(size))
	if k != matched {
		return nil, in, k
	}

	rest, k = matchCRLF(rest)
	if k != matched {
		return nil, in, k
	}

	return append([]byte(nil), span...), rest, matched
}

const maxInt = int(^uint(0) >> 1)
