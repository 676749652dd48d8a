package protocol

// Keyword identifies a server reply.
type Keyword string

const (
	KeywordInserted       Keyword = "INSERTED"
	KeywordBuried         Keyword = "BURIED"
	KeywordUsing          Keyword = "USING"
	KeywordReserved       Keyword = "RESERVED"
	KeywordWatching       Keyword = "WATCHING"
	KeywordFound          Keyword = "FOUND"
	KeywordKicked         Keyword = "KICKED"
	KeywordOK             Keyword = "OK"
	KeywordPaused         Keyword = "PAUSED"
	KeywordDeleted        Keyword = "DELETED"
	KeywordExpectedCRLF   Keyword = "EXPECTED_CRLF"
	KeywordJobTooBig      Keyword = "JOB_TOO_BIG"
	KeywordDraining       Keyword = "DRAINING"
	KeywordOutOfMemory    Keyword = "OUT_OF_MEMORY"
	KeywordInternalError  Keyword = "INTERNAL_ERROR"
	KeywordBadFormat      Keyword = "BAD_FORMAT"
	KeywordUnknownCommand Keyword = "UNKNOWN_COMMAND"
	KeywordDeadlineSoon   Keyword = "DEADLINE_SOON"
	KeywordTimedOut       Keyword = "TIMED_OUT"
	KeywordNotFound       Keyword = "NOT_FOUND"
	KeywordReleased       Keyword = "RELEASED"
	KeywordTouched        Keyword = "TOUCHED"
	KeywordNotIgnored     Keyword = "NOT_IGNORED"
)

// Message is one server reply. The set of replies is closed; every
// variant lives in this file.
//
// Replies that announce bad news, like OutOfMemory or TimedOut, are still
// ordinary messages. The decoder frames them, it does not judge them.
//
// Payload-bearing variants own their Body bytes. They are copied out of
// the read buffer during decoding so a message stays valid after the
// caller compacts or reuses that buffer.
type Message interface {
	Keyword() Keyword

	message()
}

// Inserted acknowledges a put with the new job's id.
type Inserted struct {
	ID uint64
}

func (Inserted) Keyword() Keyword { return KeywordInserted }

// Buried reports a job going to the buried state. The server includes the
// id when burying happens as a side effect of put running out of memory;
// the plain form acknowledges bury and release failures.
type Buried struct {
	ID    uint64
	HasID bool
}

func (Buried) Keyword() Keyword { return KeywordBuried }

// Using acknowledges use with the now selected tube name.
type Using struct {
	Tube string
}

func (Using) Keyword() Keyword { return KeywordUsing }

// Reserved hands the client a job to work on.
type Reserved struct {
	ID   uint64
	Body []byte
}

func (Reserved) Keyword() Keyword { return KeywordReserved }

// Watching acknowledges watch or ignore with the watch list size.
type Watching struct {
	Count uint64
}

func (Watching) Keyword() Keyword { return KeywordWatching }

// Found answers a peek with the inspected job.
type Found struct {
	ID   uint64
	Body []byte
}

func (Found) Keyword() Keyword { return KeywordFound }

// Kicked acknowledges kick with the number of jobs moved, or kick-job
// with no count at all.
type Kicked struct {
	Count    uint64
	HasCount bool
}

func (Kicked) Keyword() Keyword { return KeywordKicked }

// OK carries a statistics document payload.
type OK struct {
	Body []byte
}

func (OK) Keyword() Keyword { return KeywordOK }

// Paused acknowledges pause-tube.
type Paused struct{}

func (Paused) Keyword() Keyword { return KeywordPaused }

// Deleted acknowledges delete.
type Deleted struct{}

func (Deleted) Keyword() Keyword { return KeywordDeleted }

// ExpectedCRLF means a put body was not followed by CRLF.
type ExpectedCRLF struct{}

func (ExpectedCRLF) Keyword() Keyword { return KeywordExpectedCRLF }

// JobTooBig means a put body exceeded the server's max-job-size.
type JobTooBig struct{}

func (JobTooBig) Keyword() Keyword { return KeywordJobTooBig }

// Draining means the server is shutting down and refuses new jobs.
type Draining struct{}

func (Draining) Keyword() Keyword { return KeywordDraining }

// OutOfMemory means the server could not allocate for the request.
type OutOfMemory struct{}

func (OutOfMemory) Keyword() Keyword { return KeywordOutOfMemory }

// InternalError means the server hit a bug and said so.
type InternalError struct{}

func (InternalError) Keyword() Keyword { return KeywordInternalError }

// BadFormat means the server could not parse the command line.
type BadFormat struct{}

func (BadFormat) Keyword() Keyword { return KeywordBadFormat }

// UnknownCommand means the server did not recognise the verb.
type UnknownCommand struct{}

func (UnknownCommand) Keyword() Keyword { return KeywordUnknownCommand }

// DeadlineSoon warns a reserving client that a job it holds is about to
// expire.
type DeadlineSoon struct{}

func (DeadlineSoon) Keyword() Keyword { return KeywordDeadlineSoon }

// TimedOut means a reserve-with-timeout expired with nothing to hand out.
type TimedOut struct{}

func (TimedOut) Keyword() Keyword { return KeywordTimedOut }

// NotFound means the named job does not exist or is not in the required
// state.
type NotFound struct{}

func (NotFound) Keyword() Keyword { return KeywordNotFound }

// Released acknowledges release.
type Released struct{}

func (Released) Keyword() Keyword { return KeywordReleased }

// Touched acknowledges touch.
type Touched struct{}

func (Touched) Keyword() Keyword { return KeywordTouched }

// NotIgnored means the client tried to ignore the only watched tube.
type NotIgnored struct{}

func (NotIgnored) Keyword() Keyword { return KeywordNotIgnored }

func (Inserted) message()       {}
func (Buried) message()         {}
func (Using) message()          {}
func (Reserved) message()       {}
func (Watching) message()       {}
func (Found) message()          {}
func (Kicked) message()         {}
func (OK) message()             {}
func (Paused) message()         {}
func (Deleted) message()        {}
func (ExpectedCRLF) message()   {}
func (JobTooBig) message()      {}
func (Draining) message()       {}
func (OutOfMemory) message()    {}
func (InternalError) message()  {}
func (BadFormat) message()      {}
func (UnknownCommand) message() {}
func (DeadlineSoon) message()   {}
func (TimedOut) message()       {}
func (NotFound) message()       {}
func (Released) message()       {}
func (Touched) message()        {}
func (NotIgnored) message()     {}

var _ Message = Inserted{}
var _ Message = Buried{}
var _ Message = Using{}
var _ Message = Reserved{}
var _ Message = Watching{}
var _ Message = Found{}
var _ Message = Kicked{}
var _ Message = OK{}
var _ Message = Paused{}
var _ Message = Deleted{}
var _ Message = ExpectedCRLF{}
var _ Message = JobTooBig{}
var _ Message = Draining{}
var _ Message = OutOfMemory{}
var _ Message = InternalError{}
var _ Message = BadFormat{}
var _ Message = UnknownCommand{}
var _ Message = DeadlineSoon{}
var _ Message = TimedOut{}
var _ Message = NotFound{}
var _ Message = Released{}
var _ Message = Touched{}
var _ Message = NotIgnored{}
