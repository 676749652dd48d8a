// Package client is a synchronous queue server client. A connection
// carries one command at a time: each call writes the command, then
// blocks until the server's reply has been decoded. The protocol allows
// a single outstanding request per connection, so there is nothing to
// multiplex.
package client

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/maxleiko/bsc/protocol"
)

const readChunkSize = 4096

type Options struct {
	// Addr of the server, as host:port.
	Addr string

	// DialTimeout bounds Connect. Zero means only the context limits it.
	DialTimeout time.Duration

	Log *zap.Logger
}

// Job is a job the server handed to this client.
type Job struct {
	ID   uint64
	Body []byte
}

// Conn is one connection to a queue server. It is safe for concurrent
// use; a mutex serialises commands so the wire never carries more than
// one outstanding request.
type Conn struct {
	opts Options

	mu    sync.Mutex
	conn  net.Conn
	buf   []byte
	chunk []byte

	// fail poisons the connection. Once the reply stream cannot be
	// trusted any more, every later call returns this error.
	fail error

	log *zap.Logger
}

func New(options Options) *Conn {
	log := options.Log
	if log == nil {
		log = zap.NewNop()
	}

	return &Conn{
		opts:  options,
		chunk: make([]byte, readChunkSize),
		log:   log.Named("client"),
	}
}

// Connect dials the server. Commands issued before Connect fail with
// ErrClosed.
func (c *Conn) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	dialer := net.Dialer{Timeout: c.opts.DialTimeout}

	conn, err := dialer.DialContext(ctx, "tcp", c.opts.Addr)
	if err != nil {
		return err
	}

	c.conn = conn
	c.log.Info("Connected", zap.String("addr", c.opts.Addr))

	return nil
}

// Close sends quit as a courtesy and closes the socket. Errors from
// both steps are aggregated. Closing an unconnected Conn is a no-op.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}

	var err error
	if c.fail == nil {
		err = protocol.WriteCommand(c.conn, protocol.Quit{})
	}

	err = multierr.Append(err, c.conn.Close())

	c.conn = nil
	c.fail = ErrClosed

	c.log.Debug("Connection closed")

	return err
}

// roundTrip writes cmd and decodes the one reply that answers it.
//
// A context deadline is mapped onto the socket, so a blocked reserve
// can time out. Plain cancellation cannot interrupt a read already in
// flight. Any IO failure mid exchange leaves the stream alignment
// unknown, so the connection is poisoned.
func (c *Conn) roundTrip(ctx context.Context, cmd protocol.Command) (protocol.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.fail != nil {
		return nil, c.fail
	}

	if c.conn == nil {
		return nil, ErrClosed
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if deadline, ok := ctx.Deadline(); ok {
		if err := c.conn.SetDeadline(deadline); err != nil {
			return nil, err
		}

		defer c.conn.SetDeadline(time.Time{})
	}

	if err := protocol.WriteCommand(c.conn, cmd); err != nil {
		c.fail = err
		return nil, err
	}

	msg, err := c.readMessage()
	if err != nil {
		c.fail = err
		return nil, err
	}

	return msg, nil
}

// readMessage decodes one reply off the buffered stream, reading more
// bytes whenever the parser reports exhaustion.
func (c *Conn) readMessage() (protocol.Message, error) {
	for {
		if len(c.buf) > 0 {
			msg, rest, err := protocol.DecodeMessage(c.buf)
			if err == nil {
				c.buf = append(c.buf[:0], rest...)
				return msg, nil
			}

			if !errors.Is(err, protocol.ErrExhausted) {
				c.log.Error("Reply stream desynchronised", zap.Error(err))
				return nil, err
			}
		}

		n, err := c.conn.Read(c.chunk)
		if err != nil {
			return nil, err
		}

		c.buf = append(c.buf, c.chunk[:n]...)
	}
}
