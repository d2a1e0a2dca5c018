package netconn

import (
	"os"
	"testing"

	"github.com/wattforge/reactord/internal/timerwheel"
)

// pipeFD returns a real, closeable fd pair's read end so Close() exercises
// an actual unix.Close rather than a sentinel.
func pipeFD(t *testing.T) int {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	t.Cleanup(func() { w.Close() })
	return int(r.Fd())
}

func TestNewStartsAccepted(t *testing.T) {
	c := New(pipeFD(t), 256)
	if c.State() != StateAccepted {
		t.Fatalf("State() = %v, want Accepted", c.State())
	}
}

func TestArmPlacesOnWheelAndSetsArmed(t *testing.T) {
	w := timerwheel.New()
	c := New(pipeFD(t), 256)

	c.Arm(w, 0, 1000, func(*Connection) {})
	if c.State() != StateArmed {
		t.Fatalf("State() = %v, want Armed", c.State())
	}
	if w.Len() != 1 {
		t.Fatalf("wheel Len() = %d, want 1 (spec P5 arming exclusivity)", w.Len())
	}
}

func TestDisarmRemovesFromWheel(t *testing.T) {
	w := timerwheel.New()
	c := New(pipeFD(t), 256)
	c.Arm(w, 0, 1000, func(*Connection) {})

	c.Disarm(w)
	if c.State() != StateParsing {
		t.Fatalf("State() = %v, want Parsing", c.State())
	}
	if w.Len() != 0 {
		t.Fatalf("wheel Len() = %d, want 0 after Disarm", w.Len())
	}
}

func TestExpiryInvokesCallbackWithConnection(t *testing.T) {
	w := timerwheel.New()
	c := New(pipeFD(t), 256)

	var expired *Connection
	c.Arm(w, 0, 100, func(cc *Connection) { expired = cc })

	w.Sweep(100)
	if expired != c {
		t.Fatal("expiry callback was not invoked with the armed connection")
	}
}

func TestReArmResetsDeadlineWithoutDuplicateEntry(t *testing.T) {
	w := timerwheel.New()
	c := New(pipeFD(t), 256)

	c.Arm(w, 0, 1000, func(*Connection) {})
	c.Disarm(w)
	c.Arm(w, 500, 1000, func(*Connection) {})

	if w.Len() != 1 {
		t.Fatalf("wheel Len() = %d, want 1 after re-arm", w.Len())
	}
	if d := w.NextDelayMillis(500); d != 1000 {
		t.Fatalf("NextDelayMillis = %d, want 1000 (reset from the second Arm)", d)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	w := timerwheel.New()
	c := New(pipeFD(t), 256)
	c.Arm(w, 0, 1000, func(*Connection) {})

	if err := c.Close(w); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if c.State() != StateClosed {
		t.Fatalf("State() = %v, want Closed", c.State())
	}
	if w.Len() != 0 {
		t.Fatalf("wheel Len() = %d, want 0 after Close", w.Len())
	}
	if err := c.Close(w); err != nil {
		t.Fatalf("second Close must be a no-op, got: %v", err)
	}
}

func TestEnterRespondingRemovesTimer(t *testing.T) {
	w := timerwheel.New()
	c := New(pipeFD(t), 256)
	c.Arm(w, 0, 1000, func(*Connection) {})

	c.EnterResponding(w)
	if c.State() != StateResponding {
		t.Fatalf("State() = %v, want Responding", c.State())
	}
	if w.Len() != 0 {
		t.Fatalf("wheel Len() = %d, want 0 once RESPONDING (not idle)", w.Len())
	}
}

// A stale timer callback captured before Reset must not fire against the
// connection's new identity once it has been recycled for a different fd.
func TestResetInvalidatesOutstandingTimerCallback(t *testing.T) {
	w := timerwheel.New()
	c := New(pipeFD(t), 256)

	fired := false
	c.Arm(w, 0, 100, func(*Connection) { fired = true })

	// Simulate the pool recycling c for a new fd before the old timer
	// entry is swept — Reset removes the stale wheel entry directly, and
	// the generation guard inside Arm's closure is a second line of
	// defense if it couldn't.
	c.Reset(w, pipeFD(t))
	c.Arm(w, 0, 100, func(*Connection) {}) // fresh arm under the new generation

	w.Sweep(100)
	if fired {
		t.Fatal("stale pre-Reset timer callback fired after recycling")
	}
}
