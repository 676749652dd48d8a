package protocol

import (
	"io"
	"strconv"
)

// Terminal delimits every line of the protocol.
var Terminal = []byte("\r\n")

// Verb identifies a client command.
type Verb string

const (
	VerbPut                Verb = "put"
	VerbUse                Verb = "use"
	VerbReserve            Verb = "reserve"
	VerbReserveWithTimeout Verb = "reserve-with-timeout"
	VerbReserveJob         Verb = "reserve-job"
	VerbDelete             Verb = "delete"
	VerbRelease            Verb = "release"
	VerbBury               Verb = "bury"
	VerbTouch              Verb = "touch"
	VerbWatch              Verb = "watch"
	VerbIgnore             Verb = "ignore"
	VerbPeek               Verb = "peek"
	VerbPeekReady          Verb = "peek-ready"
	VerbPeekDelayed        Verb = "peek-delayed"
	VerbPeekBuried         Verb = "peek-buried"
	VerbKick               Verb = "kick"
	VerbKickJob            Verb = "kick-job"
	VerbStatsJob           Verb = "stats-job"
	VerbStatsTube          Verb = "stats-tube"
	VerbStats              Verb = "stats"
	VerbListTubes          Verb = "list-tubes"
	VerbListTubeUsed       Verb = "list-tube-used"
	VerbListTubesWatched   Verb = "list-tubes-watched"
	VerbPauseTube          Verb = "pause-tube"
	VerbQuit               Verb = "quit"
)

// Command is one client instruction to the server. The set of commands is
// closed; every variant lives in this file.
//
// Encoding borrows the caller's name and body slices, it never copies or
// validates them. Callers that want to reject bad tube names do so first
// with ValidName.
type Command interface {
	Verb() Verb

	appendWire(dst []byte) []byte
}

// Encode renders a command into the exact bytes that go on the wire.
func Encode(cmd Command) []byte {
	return cmd.appendWire(nil)
}

// WriteCommand encodes cmd and writes it to w in a single Write call, so
// a command line and its payload never straddle two writes.
func WriteCommand(w io.Writer, cmd Command) error {
	_, err := w.Write(Encode(cmd))
	return err
}

// Put inserts a job into the currently used tube.
//
// The length field on the wire is exactly len(Body), excluding the CRLF
// that follows the body.
type Put struct {
	Priority uint32
	Delay    uint32
	TTR      uint32
	Body     []byte
}

func (p Put) Verb() Verb { return VerbPut }

func (p Put) appendWire(dst []byte) []byte {
	dst = append(dst, "put "...)
	dst = strconv.AppendUint(dst, uint64(p.Priority), 10)
	dst = append(dst, ' ')
	dst = strconv.AppendUint(dst, uint64(p.Delay), 10)
	dst = append(dst, ' ')
	dst = strconv.AppendUint(dst, uint64(p.TTR), 10)
	dst = append(dst, ' ')
	dst = strconv.AppendUint(dst, uint64(len(p.Body)), 10)
	dst = append(dst, Terminal...)
	dst = append(dst, p.Body...)
	return append(dst, Terminal...)
}

// Use selects the tube that subsequent Put commands insert into.
type Use struct {
	Tube string
}

func (u Use) Verb() Verb { return VerbUse }

func (u Use) appendWire(dst []byte) []byte {
	return appendNameLine(dst, VerbUse, u.Tube)
}

// Reserve asks for the next ready job, blocking until one exists.
type Reserve struct{}

func (Reserve) Verb() Verb { return VerbReserve }

func (Reserve) appendWire(dst []byte) []byte {
	return appendBareLine(dst, VerbReserve)
}

// ReserveWithTimeout is Reserve with an upper bound, in seconds, on how
// long the server may block before replying TIMED_OUT.
type ReserveWithTimeout struct {
	Seconds uint64
}

func (r ReserveWithTimeout) Verb() Verb { return VerbReserveWithTimeout }

func (r ReserveWithTimeout) appendWire(dst []byte) []byte {
	return appendUintLine(dst, VerbReserveWithTimeout, r.Seconds)
}

// ReserveJob reserves a specific job by id, regardless of its tube.
type ReserveJob struct {
	ID uint64
}

func (r ReserveJob) Verb() Verb { return VerbReserveJob }

func (r ReserveJob) appendWire(dst []byte) []byte {
	return appendUintLine(dst, VerbReserveJob, r.ID)
}

// Delete removes a job from the server entirely.
type Delete struct {
	ID uint64
}

func (d Delete) Verb() Verb { return VerbDelete }

func (d Delete) appendWire(dst []byte) []byte {
	return appendUintLine(dst, VerbDelete, d.ID)
}

// Release puts a reserved job back into the ready queue, optionally after
// a delay.
type Release struct {
	ID       uint64
	Priority uint32
	Delay    uint32
}

func (r Release) Verb() Verb { return VerbRelease }

func (r Release) appendWire(dst []byte) []byte {
	dst = append(dst, "release "...)
	dst = strconv.AppendUint(dst, r.ID, 10)
	dst = append(dst, ' ')
	dst = strconv.AppendUint(dst, uint64(r.Priority), 10)
	dst = append(dst, ' ')
	dst = strconv.AppendUint(dst, uint64(r.Delay), 10)
	return append(dst, Terminal...)
}

// Bury parks a reserved job in the buried state until it is kicked.
type Bury struct {
	ID       uint64
	Priority uint32
}

func (b Bury) Verb() Verb { return VerbBury }

func (b Bury) appendWire(dst []byte) []byte {
	dst = append(dst, "bury "...)
	dst = strconv.AppendUint(dst, b.ID, 10)
	dst = append(dst, ' ')
	dst = strconv.AppendUint(dst, uint64(b.Priority), 10)
	return append(dst, Terminal...)
}

// Touch restarts the time-to-run clock of a reserved job.
type Touch struct {
	ID uint64
}

func (t Touch) Verb() Verb { return VerbTouch }

func (t Touch) appendWire(dst []byte) []byte {
	return appendUintLine(dst, VerbTouch, t.ID)
}

// Watch adds a tube to the connection's watch list.
type Watch struct {
	Tube string
}

func (w Watch) Verb() Verb { return VerbWatch }

func (w Watch) appendWire(dst []byte) []byte {
	return appendNameLine(dst, VerbWatch, w.Tube)
}

// Ignore removes a tube from the connection's watch list.
type Ignore struct {
	Tube string
}

func (i Ignore) Verb() Verb { return VerbIgnore }

func (i Ignore) appendWire(dst []byte) []byte {
	return appendNameLine(dst, VerbIgnore, i.Tube)
}

// Peek inspects a job by id without reserving it.
type Peek struct {
	ID uint64
}

func (p Peek) Verb() Verb { return VerbPeek }

func (p Peek) appendWire(dst []byte) []byte {
	return appendUintLine(dst, VerbPeek, p.ID)
}

// PeekReady inspects the next ready job in the used tube.
type PeekReady struct{}

func (PeekReady) Verb() Verb { return VerbPeekReady }

func (PeekReady) appendWire(dst []byte) []byte {
	return appendBareLine(dst, VerbPeekReady)
}

// PeekDelayed inspects the delayed job with the shortest remaining delay.
type PeekDelayed struct{}

func (PeekDelayed) Verb() Verb { return VerbPeekDelayed }

func (PeekDelayed) appendWire(dst []byte) []byte {
	return appendBareLine(dst, VerbPeekDelayed)
}

// PeekBuried inspects the next buried job in the used tube.
type PeekBuried struct{}

func (PeekBuried) Verb() Verb { return VerbPeekBuried }

func (PeekBuried) appendWire(dst []byte) []byte {
	return appendBareLine(dst, VerbPeekBuried)
}

// Kick moves at most Bound buried (or, failing that, delayed) jobs back
// to the ready queue.
type Kick struct {
	Bound uint64
}

func (k Kick) Verb() Verb { return VerbKick }

func (k Kick) appendWire(dst []byte) []byte {
	return appendUintLine(dst, VerbKick, k.Bound)
}

// KickJob kicks a single job by id.
type KickJob struct {
	ID uint64
}

func (k KickJob) Verb() Verb { return VerbKickJob }

func (k KickJob) appendWire(dst []byte) []byte {
	return appendUintLine(dst, VerbKickJob, k.ID)
}

// StatsJob requests the statistics document for one job.
type StatsJob struct {
	ID uint64
}

func (s StatsJob) Verb() Verb { return VerbStatsJob }

func (s StatsJob) appendWire(dst []byte) []byte {
	return appendUintLine(dst, VerbStatsJob, s.ID)
}

// StatsTube requests the statistics document for one tube.
type StatsTube struct {
	Tube string
}

func (s StatsTube) Verb() Verb { return VerbStatsTube }

func (s StatsTube) appendWire(dst []byte) []byte {
	return appendNameLine(dst, VerbStatsTube, s.Tube)
}

// Stats requests the server-wide statistics document.
type Stats struct{}

func (Stats) Verb() Verb { return VerbStats }

func (Stats) appendWire(dst []byte) []byte {
	return appendBareLine(dst, VerbStats)
}

// ListTubes requests the names of all tubes that currently exist.
type ListTubes struct{}

func (ListTubes) Verb() Verb { return VerbListTubes }

func (ListTubes) appendWire(dst []byte) []byte {
	return appendBareLine(dst, VerbListTubes)
}

// ListTubeUsed requests the name of the tube Put currently inserts into.
type ListTubeUsed struct{}

func (ListTubeUsed) Verb() Verb { return VerbListTubeUsed }

func (ListTubeUsed) appendWire(dst []byte) []byte {
	return appendBareLine(dst, VerbListTubeUsed)
}

// ListTubesWatched requests the connection's watch list.
type ListTubesWatched struct{}

func (ListTubesWatched) Verb() Verb { return VerbListTubesWatched }

func (ListTubesWatched) appendWire(dst []byte) []byte {
	return appendBareLine(dst, VerbListTubesWatched)
}

// PauseTube stops reservations from a tube for Delay seconds.
type PauseTube struct {
	Tube  string
	Delay uint32
}

func (p PauseTube) Verb() Verb { return VerbPauseTube }

func (p PauseTube) appendWire(dst []byte) []byte {
	dst = append(dst, "pause-tube "...)
	dst = append(dst, p.Tube...)
	dst = append(dst, ' ')
	dst = strconv.AppendUint(dst, uint64(p.Delay), 10)
	return append(dst, Terminal...)
}

// Quit tells the server the client is done and the connection can close.
type Quit struct{}

func (Quit) Verb() Verb { return VerbQuit }

func (Quit) appendWire(dst []byte) []byte {
	return appendBareLine(dst, VerbQuit)
}

func appendBareLine(dst []byte, v Verb) []byte {
	dst = append(dst, string(v)...)
	return append(dst, Terminal...)
}

func appendUintLine(dst []byte, v Verb, arg uint64) []byte {
	dst = append(dst, string(v)...)
	dst = append(dst, ' ')
	dst = strconv.AppendUint(dst, arg, 10)
	return append(dst, Terminal...)
}

func appendNameLine(dst []byte, v Verb, name string) []byte {
	dst = append(dst, string(v)...)
	dst = append(dst, ' ')
	dst = append(dst, name...)
	return append(dst, Terminal...)
}

var _ Command = Put{}
var _ Command = Use{}
var _ Command = Reserve{}
var _ Command = ReserveWithTimeout{}
var _ Command = ReserveJob{}
var _ Command = Delete{}
var _ Command = Release{}
var _ Command = Bury{}
var _ Command = Touch{}
var _ Command = Watch{}
var _ Command = Ignore{}
var _ Command = Peek{}
var _ Command = PeekReady{}
var _ Command = PeekDelayed{}
var _ Command = PeekBuried{}
var _ Command = Kick{}
var _ Command = KickJob{}
var _ Command = StatsJob{}
var _ Command = StatsTube{}
var _ Command = Stats{}
var _ Command = ListTubes{}
var _ Command = ListTubeUsed{}
var _ Command = ListTubesWatched{}
var _ Command = PauseTube{}
var _ Command = Quit{}
