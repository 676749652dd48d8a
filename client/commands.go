package client

import (
	"context"
	"time"

	"github.com/maxleiko/bsc/protocol"
)

// Put inserts a job into the currently used tube and returns its id.
//
// When the server runs out of memory it buries the job instead; the id
// is still returned, along with ErrBuried.
func (c *Conn) Put(ctx context.Context, body []byte, pri uint32, delay, ttr time.Duration) (uint64, error) {
	cmd := protocol.Put{
		Priority: pri,
		Delay:    seconds32(delay),
		TTR:      seconds32(ttr),
		Body:     body,
	}

	msg, err := c.roundTrip(ctx, cmd)
	if err != nil {
		return 0, err
	}

	switch m := msg.(type) {
	case protocol.Inserted:
		return m.ID, nil

	case protocol.Buried:
		return m.ID, ErrBuried
	}

	return 0, replyError(msg, protocol.VerbPut)
}

// Use selects the tube subsequent Put calls insert into.
func (c *Conn) Use(ctx context.Context, tube string) error {
	msg, err := c.roundTrip(ctx, protocol.Use{Tube: tube})
	if err != nil {
		return err
	}

	if _, ok := msg.(protocol.Using); ok {
		return nil
	}

	return replyError(msg, protocol.VerbUse)
}

// Reserve blocks until a job from a watched tube can be handed over.
// Bound the wait with a context deadline or ReserveWithTimeout.
func (c *Conn) Reserve(ctx context.Context) (Job, error) {
	return c.reservedJob(ctx, protocol.Reserve{})
}

// ReserveWithTimeout is Reserve with a server side bound, rounded down
// to whole seconds. When it elapses the call fails with ErrTimedOut.
func (c *Conn) ReserveWithTimeout(ctx context.Context, timeout time.Duration) (Job, error) {
	return c.reservedJob(ctx, protocol.ReserveWithTimeout{Seconds: seconds64(timeout)})
}

// ReserveJob reserves a specific job by id, regardless of its tube.
func (c *Conn) ReserveJob(ctx context.Context, id uint64) (Job, error) {
	return c.reservedJob(ctx, protocol.ReserveJob{ID: id})
}

// Delete removes a job from the server entirely.
func (c *Conn) Delete(ctx context.Context, id uint64) error {
	msg, err := c.roundTrip(ctx, protocol.Delete{ID: id})
	if err != nil {
		return err
	}

	if _, ok := msg.(protocol.Deleted); ok {
		return nil
	}

	return replyError(msg, protocol.VerbDelete)
}

// Release puts a reserved job back into the ready queue. A server that
// cannot grow the ready queue buries the job instead and Release
// returns ErrBuried.
func (c *Conn) Release(ctx context.Context, id uint64, pri uint32, delay time.Duration) error {
	cmd := protocol.Release{ID: id, Priority: pri, Delay: seconds32(delay)}

	msg, err := c.roundTrip(ctx, cmd)
	if err != nil {
		return err
	}

	switch msg.(type) {
	case protocol.Released:
		return nil

	case protocol.Buried:
		return ErrBuried
	}

	return replyError(msg, protocol.VerbRelease)
}

// Bury parks a reserved job in the buried state until it is kicked.
func (c *Conn) Bury(ctx context.Context, id uint64, pri uint32) error {
	msg, err := c.roundTrip(ctx, protocol.Bury{ID: id, Priority: pri})
	if err != nil {
		return err
	}

	if _, ok := msg.(protocol.Buried); ok {
		return nil
	}

	return replyError(msg, protocol.VerbBury)
}

// Touch restarts the time-to-run clock of a reserved job.
func (c *Conn) Touch(ctx context.Context, id uint64) error {
	msg, err := c.roundTrip(ctx, protocol.Touch{ID: id})
	if err != nil {
		return err
	}

	if _, ok := msg.(protocol.Touched); ok {
		return nil
	}

	return replyError(msg, protocol.VerbTouch)
}

// Watch adds a tube to the watch list and returns the new list size.
func (c *Conn) Watch(ctx context.Context, tube string) (uint64, error) {
	return c.watchCount(ctx, protocol.Watch{Tube: tube})
}

// Ignore removes a tube from the watch list and returns the new list
// size. The last watched tube cannot be removed; that fails with
// ErrNotIgnored.
func (c *Conn) Ignore(ctx context.Context, tube string) (uint64, error) {
	return c.watchCount(ctx, protocol.Ignore{Tube: tube})
}

// Peek inspects a job by id without reserving it.
func (c *Conn) Peek(ctx context.Context, id uint64) (Job, error) {
	return c.foundJob(ctx, protocol.Peek{ID: id})
}

// PeekReady inspects the next ready job in the used tube.
func (c *Conn) PeekReady(ctx context.Context) (Job, error) {
	return c.foundJob(ctx, protocol.PeekReady{})
}

// PeekDelayed inspects the delayed job with the shortest remaining
// delay in the used tube.
func (c *Conn) PeekDelayed(ctx context.Context) (Job, error) {
	return c.foundJob(ctx, protocol.PeekDelayed{})
}

// PeekBuried inspects the next buried job in the used tube.
func (c *Conn) PeekBuried(ctx context.Context) (Job, error) {
	return c.foundJob(ctx, protocol.PeekBuried{})
}

// Kick moves at most bound buried (or, failing that, delayed) jobs in
// the used tube back to the ready queue and returns how many moved.
func (c *Conn) Kick(ctx context.Context, bound uint64) (uint64, error) {
	msg, err := c.roundTrip(ctx, protocol.Kick{Bound: bound})
	if err != nil {
		return 0, err
	}

	if m, ok := msg.(protocol.Kicked); ok {
		return m.Count, nil
	}

	return 0, replyError(msg, protocol.VerbKick)
}

// KickJob kicks a single job by id.
func (c *Conn) KickJob(ctx context.Context, id uint64) error {
	msg, err := c.roundTrip(ctx, protocol.KickJob{ID: id})
	if err != nil {
		return err
	}

	if _, ok := msg.(protocol.Kicked); ok {
		return nil
	}

	return replyError(msg, protocol.VerbKickJob)
}

// Stats fetches the server wide statistics document.
func (c *Conn) Stats(ctx context.Context) (protocol.Map, error) {
	return c.okMap(ctx, protocol.Stats{})
}

// StatsJob fetches the statistics document for one job.
func (c *Conn) StatsJob(ctx context.Context, id uint64) (protocol.Map, error) {
	return c.okMap(ctx, protocol.StatsJob{ID: id})
}

// StatsTube fetches the statistics document for one tube.
func (c *Conn) StatsTube(ctx context.Context, tube string) (protocol.Map, error) {
	return c.okMap(ctx, protocol.StatsTube{Tube: tube})
}

// ListTubes fetches the names of all tubes that currently exist.
func (c *Conn) ListTubes(ctx context.Context) (protocol.List, error) {
	return c.okList(ctx, protocol.ListTubes{})
}

// ListTubeUsed returns the name of the tube Put currently inserts into.
func (c *Conn) ListTubeUsed(ctx context.Context) (string, error) {
	msg, err := c.roundTrip(ctx, protocol.ListTubeUsed{})
	if err != nil {
		return "", err
	}

	if m, ok := msg.(protocol.Using); ok {
		return m.Tube, nil
	}

	return "", replyError(msg, protocol.VerbListTubeUsed)
}

// ListTubesWatched fetches this connection's watch list.
func (c *Conn) ListTubesWatched(ctx context.Context) (protocol.List, error) {
	return c.okList(ctx, protocol.ListTubesWatched{})
}

// PauseTube stops reservations from a tube for the given delay, rounded
// down to whole seconds.
func (c *Conn) PauseTube(ctx context.Context, tube string, delay time.Duration) error {
	msg, err := c.roundTrip(ctx, protocol.PauseTube{Tube: tube, Delay: seconds32(delay)})
	if err != nil {
		return err
	}

	if _, ok := msg.(protocol.Paused); ok {
		return nil
	}

	return replyError(msg, protocol.VerbPauseTube)
}

func (c *Conn) reservedJob(ctx context.Context, cmd protocol.Command) (Job, error) {
	msg, err := c.roundTrip(ctx, cmd)
	if err != nil {
		return Job{}, err
	}

	if m, ok := msg.(protocol.Reserved); ok {
		return Job{ID: m.ID, Body: m.Body}, nil
	}

	return Job{}, replyError(msg, cmd.Verb())
}

func (c *Conn) foundJob(ctx context.Context, cmd protocol.Command) (Job, error) {
	msg, err := c.roundTrip(ctx, cmd)
	if err != nil {
		return Job{}, err
	}

	if m, ok := msg.(protocol.Found); ok {
		return Job{ID: m.ID, Body: m.Body}, nil
	}

	return Job{}, replyError(msg, cmd.Verb())
}

func (c *Conn) watchCount(ctx context.Context, cmd protocol.Command) (uint64, error) {
	msg, err := c.roundTrip(ctx, cmd)
	if err != nil {
		return 0, err
	}

	if m, ok := msg.(protocol.Watching); ok {
		return m.Count, nil
	}

	return 0, replyError(msg, cmd.Verb())
}

func (c *Conn) okMap(ctx context.Context, cmd protocol.Command) (protocol.Map, error) {
	msg, err := c.roundTrip(ctx, cmd)
	if err != nil {
		return nil, err
	}

	if m, ok := msg.(protocol.OK); ok {
		return protocol.DecodeMap(m.Body)
	}

	return nil, replyError(msg, cmd.Verb())
}

func (c *Conn) okList(ctx context.Context, cmd protocol.Command) (protocol.List, error) {
	msg, err := c.roundTrip(ctx, cmd)
	if err != nil {
		return nil, err
	}

	if m, ok := msg.(protocol.OK); ok {
		return protocol.DecodeList(m.Body)
	}

	return nil, replyError(msg, cmd.Verb())
}

// seconds32 truncates a duration to the whole seconds the wire can
// carry. Negative durations clamp to zero.
func seconds32(d time.Duration) uint32 {
	if d <= 0 {
		return 0
	}

	return uint32(d / time.Second)
}

func seconds64(d time.Duration) uint64 {
	if d <= 0 {
		return 0
	}

	return uint64(d / time.Second)
}
