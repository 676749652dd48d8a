package client

import (
	"errors"
	"fmt"

	"github.com/maxleiko/bsc/protocol"
)

// Sentinel errors for the replies a caller is expected to handle as
// ordinary outcomes. Everything else the server can answer surfaces as
// a *ServerError.
var (
	ErrClosed          = errors.New("Connection is closed")
	ErrNotFound        = errors.New("Job or tube does not exist")
	ErrTimedOut        = errors.New("Reserve timed out with no job")
	ErrDeadlineSoon    = errors.New("A reserved job is about to time out")
	ErrBuried          = errors.New("Job went to the buried state")
	ErrNotIgnored      = errors.New("Cannot ignore the only watched tube")
	ErrUnexpectedReply = errors.New("Reply does not answer the command")
)

// ServerError is a reply that refuses the command outright, such as
// BAD_FORMAT or JOB_TOO_BIG.
type ServerError struct {
	Reply protocol.Keyword
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("Server refused the command: %s", e.Reply)
}

// refusal maps the refusing replies any command can receive. A reply
// that is a success shape for some verb maps to nil.
func refusal(msg protocol.Message) error {
	switch msg.(type) {
	case protocol.NotFound:
		return ErrNotFound

	case protocol.TimedOut:
		return ErrTimedOut

	case protocol.DeadlineSoon:
		return ErrDeadlineSoon

	case protocol.NotIgnored:
		return ErrNotIgnored

	case protocol.OutOfMemory, protocol.InternalError, protocol.BadFormat,
		protocol.UnknownCommand, protocol.ExpectedCRLF, protocol.JobTooBig,
		protocol.Draining:
		return &ServerError{Reply: msg.Keyword()}
	}

	return nil
}

// replyError classifies a reply that is not the success shape of verb.
func replyError(msg protocol.Message, verb protocol.Verb) error {
	if err := refusal(msg); err != nil {
		return err
	}

	return fmt.Errorf("%w: %s answers %s", ErrUnexpectedReply, msg.Keyword(), verb)
}
