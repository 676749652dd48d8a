package protocol

// This package implements parsing and serialising for the beanstalkd wire
// protocol, from the client side of the connection. It turns structured
// commands into the exact bytes the server expects and turns the server's
// byte stream back into structured messages.
//
// The protocol aims to be
//
// - human readable
// - efficient to parse
// - trivial to implement for the common case
//
// which it mostly achieves by being a line protocol with one awkward
// exception: length-prefixed binary payloads.
//
// - `Command` - An instruction from the client to the server, e.g. `put`.
// - `Message` - A reply from the server to the client, e.g. `INSERTED`.
// - `Scalar`  - One leaf value from the YAML-ish documents some payloads
//               carry (text, unsigned integer, float, or boolean).
//
// === General syntax
//
// - lines are `\r\n` delimited
// - commands are lowercase (`put`, `reserve`, ...), replies are uppercase
//   keywords (`INSERTED`, `TIMED_OUT`, ...)
// - arguments are ASCII and space separated
// - the exchange is strictly request/response: one command goes out, one
//   reply comes back, in order
//
// For example
//   ```
//     > delete 42\r\n
//     < DELETED\r\n
//   ```
//
// === Payloads
//
// Job bodies and stats documents are raw bytes. They travel between two
// CRLFs with their exact byte count announced up front
//
//   ```
//     > put 1 2 3 6\r\n
//     > 123456\r\n
//     < INSERTED 42\r\n
//   ```
//
// and, in the other direction
//
//   ```
//     > reserve\r\n
//     < RESERVED 42 6\r\n
//     < 123456\r\n
//   ```
//
// The payload is opaque. It can contain anything, including `\r\n`, so a
// decoder must read exactly the announced count rather than scanning for
// a delimiter. This is why the decoders here work on byte slices instead
// of a line reader.
//
// === Stats documents
//
// The `stats`, `stats-job`, `stats-tube` and `list-tubes*` replies carry
// a restricted YAML document in their payload. A document is a `---`
// header line followed by either map entries or list entries, never both
//
//   ```
//     ---\n
//     current-jobs-ready: 5\n
//     version: 1.12\n
//   ```
//
//   ```
//     ---\n
//      - default\n
//      - mail\n
//   ```
//
// `DecodeMap` and `DecodeList` handle these. There is no support for the
// rest of YAML (nesting, anchors, comments, multi-line scalars).
//
// === Incremental parsing
//
// A TCP read can end anywhere, including in the middle of a frame, so the
// decoding entry points never consume partial frames. `DecodeMessage`
// parses exactly one message off the front of a buffer and returns the
// rest. `Drain` applies it repeatedly to pull every complete message out
// of an accumulating read buffer, handing back the unconsumed tail so the
// caller can append the next read to it and retry.
//
// Failures distinguish "the input ran out" (`ErrExhausted`, wait for more
// bytes) from "these bytes can never be a reply" (fatal, the connection
// is desynchronised and should be dropped). Server replies that carry bad
// news, like `OUT_OF_MEMORY`, are not failures here. They decode into
// ordinary messages and interpreting them is the caller's business.
