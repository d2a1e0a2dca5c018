// Package netconn implements the per-connection state machine: the Go
// embodiment of spec.md's Connection — one socket fd, one ring buffer, one
// parser, paired with a weak back-reference into the timer wheel.
package netconn

import (
	"golang.org/x/sys/unix"

	"github.com/wattforge/reactord/internal/httpwire"
	"github.com/wattforge/reactord/internal/ringbuf"
	"github.com/wattforge/reactord/internal/timerwheel"
)

// State is the connection lifecycle discriminant (spec §4.4). A connection
// is in exactly one of these at any time.
type State uint8

const (
	StateAccepted State = iota
	StateParsing
	StateArmed
	StateResponding
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateAccepted:
		return "accepted"
	case StateParsing:
		return "parsing"
	case StateArmed:
		return "armed"
	case StateResponding:
		return "responding"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Connection owns exactly one socket fd, one ring buffer, one parser, and
// one timer handle (spec §3 Connection). It is mutated only by the single
// goroutine running the reactor that accepted it — no internal locking.
//
// The timer handle is a weak back-reference: the wheel holds this
// Connection through the closure passed to Add, but does not own its
// lifetime. generation guards against that closure firing against a
// Connection struct that has since been recycled for a different fd by a
// pool (Reset bumps it); a stale callback observes a mismatched generation
// and is a no-op instead of acting on the wrong connection.
type Connection struct {
	FD     int
	Buf    *ringbuf.Buffer
	Parser *httpwire.Parser

	state      State
	generation uint64
	timer      *timerwheel.Handle
}

// New creates a Connection for a freshly accepted fd, with a ring buffer of
// the given capacity (must be a power of two per ringbuf.New).
func New(fd int, bufCap int) *Connection {
	c := &Connection{FD: fd}
	c.Buf = ringbuf.New(bufCap)
	c.Parser = httpwire.NewParser(0)
	c.state = StateAccepted
	return c
}

// Reset rebinds c to a newly accepted fd for reuse from a connection pool,
// discarding all buffered bytes and parser state and invalidating any timer
// callback still outstanding from the connection's previous life. Normal
// use only recycles a Connection after Close, which already clears the
// timer; wheel is accepted (and may be nil) so a pool that skips that
// sequence doesn't leak a stale wheel entry.
func (c *Connection) Reset(wheel *timerwheel.Wheel, fd int) {
	if c.timer != nil && wheel != nil {
		wheel.Remove(c.timer)
	}
	c.FD = fd
	c.Buf.Reset()
	c.Parser = httpwire.NewParser(0)
	c.state = StateAccepted
	c.generation++
	c.timer = nil
}

// State reports the connection's current lifecycle state.
func (c *Connection) State() State { return c.state }

// Generation reports the current reuse generation, for callers that need to
// validate a captured reference is still current.
func (c *Connection) Generation() uint64 { return c.generation }

// Arm transitions the connection into ARMED: registered for readiness and
// present on the timer wheel with a fresh deadline (spec §4.4 "on every
// transition into ARMED the timer is reset to now + TIMEOUT_DEFAULT"). Any
// previously held timer entry is removed first so a connection is never on
// the wheel twice.
func (c *Connection) Arm(wheel *timerwheel.Wheel, now int64, timeoutMillis int64, onExpire func(*Connection)) {
	if c.timer != nil {
		wheel.Remove(c.timer)
	}
	gen := c.generation
	c.timer = wheel.Add(c, now+timeoutMillis, func(conn any) {
		cc := conn.(*Connection)
		if cc.generation != gen {
			return // stale: cc was recycled for a different fd before firing
		}
		onExpire(cc)
	})
	c.state = StateArmed
}

// Disarm transitions the connection out of ARMED without closing it —
// readiness fired and the reactor is about to resume PARSING (spec §4.4 "on
// every transition out of ARMED the timer is removed").
func (c *Connection) Disarm(wheel *timerwheel.Wheel) {
	if c.timer != nil {
		wheel.Remove(c.timer)
		c.timer = nil
	}
	c.state = StateParsing
}

// EnterResponding transitions the connection to RESPONDING once the parser
// reports Done (spec §4.4 DONE edge). Any outstanding timer is removed: a
// connection actively being responded to is not idle.
func (c *Connection) EnterResponding(wheel *timerwheel.Wheel) {
	if c.timer != nil {
		wheel.Remove(c.timer)
		c.timer = nil
	}
	c.state = StateResponding
}

// Close removes the connection from the timer wheel (if present) and closes
// its fd. Idempotent: calling Close on an already-closed connection is a
// no-op.
func (c *Connection) Close(wheel *timerwheel.Wheel) error {
	if c.state == StateClosed {
		return nil
	}
	if c.timer != nil {
		wheel.Remove(c.timer)
		c.timer = nil
	}
	c.state = StateClosed
	if c.FD < 0 {
		return nil
	}
	return unix.Close(c.FD)
}
