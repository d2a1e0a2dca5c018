// Package reactor implements the single-threaded-per-worker event loop
// tying the ring buffer, resumable parser, and timer wheel together: the
// third core subsystem, "edge-triggered one-shot readiness multiplexing
// joined with an expiry data structure, so every connection is either
// armed for I/O or on the expiry list, never both unguarded."
//
// One Reactor owns one OS-level readiness multiplexer (epoll on Linux,
// kqueue on Darwin — see reactor_linux.go/reactor_darwin.go) and one
// timerwheel.Wheel. Multiple Reactors may share a single listening socket;
// the kernel's accept queue distributes incoming connections across them
// (spec.md §5, "process-level fan-out" reimplemented as goroutine-per-core
// in cmd/reactord).
package reactor

import (
	"io"
	"time"

	"golang.org/x/sys/unix"

	"github.com/wattforge/reactord/internal/accesslog"
	"github.com/wattforge/reactord/internal/fileserver"
	"github.com/wattforge/reactord/internal/httpwire"
	"github.com/wattforge/reactord/internal/netconn"
	"github.com/wattforge/reactord/internal/ringbuf"
	"github.com/wattforge/reactord/internal/sockopt"
	"github.com/wattforge/reactord/internal/timerwheel"
)

// TimeoutDefault is the idle-connection timeout applied on every transition
// into ARMED (spec.md §4.4/§5, "implementation choice ~60s").
const TimeoutDefault = 60 * time.Second

// multiplexer is the OS-specific readiness backend a Reactor drives.
// Implemented by epoller (Linux) and kqueuer (Darwin).
type multiplexer interface {
	// addListener registers fd for edge-triggered readable events without
	// one-shot (the accept loop itself drains the queue, per spec.md §4.6).
	addListener(fd int) error

	// addConn registers fd for edge-triggered, one-shot readable events.
	addConn(fd int) error

	// rearmConn re-arms fd for another one-shot readable event.
	rearmConn(fd int) error

	// remove unregisters fd. Safe to call after fd is already closed.
	remove(fd int)

	// wait blocks up to timeoutMillis (-1 for indefinite) and returns the
	// fds that became ready, tagging whether each is the listener.
	wait(timeoutMillis int32) ([]readyFD, error)

	// close releases the multiplexer's own resources (e.g. the epoll fd).
	close() error
}

// readyFD is one readiness notification from the multiplexer.
type readyFD struct {
	fd       int
	isListen bool
	err      bool // error/hangup/not-readable condition reported by the OS
}

// bufCapacity is the ring buffer capacity given to every accepted
// connection; large enough for the header block sizes this server accepts
// while staying a small, fixed, power-of-two allocation per connection.
const bufCapacity = 8192

// stopCheckMillis is the longest a single readiness wait may block, so Run
// notices a closed stop channel even when no timer is armed.
const stopCheckMillis = 1000

// Reactor runs one worker's event loop against a shared listening fd.
type Reactor struct {
	listenFD int
	root     string
	mux      multiplexer
	wheel    *timerwheel.Wheel
	conns    map[int]*netconn.Connection
	log      *accesslog.Logger
	tuning   sockopt.Config

	// clock returns the current monotonic-ish time in milliseconds, used
	// for both timer deadlines and sweeps. Overridable in tests.
	clock func() int64
}

// New creates a Reactor that will accept connections arriving on listenFD
// (already bound, listening, and non-blocking) and serve files from root.
func New(listenFD int, root string, log *accesslog.Logger) (*Reactor, error) {
	mux, err := newMultiplexer()
	if err != nil {
		return nil, err
	}
	r := &Reactor{
		listenFD: listenFD,
		root:     root,
		mux:      mux,
		wheel:    timerwheel.New(),
		conns:    make(map[int]*netconn.Connection),
		log:      log,
		tuning:   sockopt.Default(),
		clock:    nowMillis,
	}
	if err := mux.addListener(listenFD); err != nil {
		mux.close()
		return nil, err
	}
	return r, nil
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

// Run drives the event loop until stop is closed or the multiplexer
// returns a fatal error (spec.md §4.6 loop: next_delay → wait → sweep →
// dispatch, repeated forever).
func (r *Reactor) Run(stop <-chan struct{}) error {
	defer r.mux.close()

	for {
		select {
		case <-stop:
			r.shutdown()
			return nil
		default:
		}

		delay := r.wheel.NextDelayMillis(r.clock())
		if delay < 0 || delay > stopCheckMillis {
			delay = stopCheckMillis // bounded so a closed stop is seen on an idle worker
		}
		events, err := r.mux.wait(delay)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return err
		}

		r.wheel.Sweep(r.clock())

		for _, e := range events {
			if e.isListen {
				r.acceptLoop()
				continue
			}
			conn, ok := r.conns[e.fd]
			if !ok {
				continue // already closed this tick (e.g. a prior event's error path)
			}
			if e.err {
				r.closeConn(conn, nil)
				continue
			}
			r.handleReadable(conn)
		}
	}
}

// acceptLoop drains the listening socket's backlog (it is edge-triggered
// but not one-shot, so the reactor must accept until EAGAIN) per spec.md
// §4.6.
func (r *Reactor) acceptLoop() {
	for {
		fd, _, err := unix.Accept(r.listenFD)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
				return
			}
			if err == unix.EINTR {
				continue
			}
			return
		}

		if err := unix.SetNonblock(fd, true); err != nil {
			unix.Close(fd)
			continue
		}
		_ = sockopt.ApplyConn(fd, r.tuning)

		conn := netconn.New(fd, bufCapacity)
		if err := r.mux.addConn(fd); err != nil {
			unix.Close(fd)
			continue
		}
		r.conns[fd] = conn
		conn.Arm(r.wheel, r.clock(), TimeoutDefault.Milliseconds(), r.onExpire)
		r.log.Log(accesslog.EventAccept, fd, nil)
	}
}

// handleReadable is do_request from spec.md §4.6: reads into the buffer,
// advances the parser, and either re-arms, hands off to the responder, or
// closes.
func (r *Reactor) handleReadable(conn *netconn.Connection) {
	conn.Disarm(r.wheel)

	n, readErr := conn.Buf.Fill(fdReader{conn.FD})
	if readErr == ringbuf.ErrOverflow {
		r.closeConn(conn, readErr)
		return
	}
	if n == 0 && readErr != nil && readErr != io.EOF {
		if readErr == unix.EAGAIN || readErr == unix.EWOULDBLOCK {
			r.rearm(conn)
			return
		}
		r.closeConn(conn, readErr)
		return
	}

	res, req, err := conn.Parser.Parse(conn.Buf)
	if err != nil {
		r.log.Log(accesslog.EventParseError, conn.FD, err)
		r.closeConn(conn, err)
		return
	}

	switch res {
	case httpwire.NeedMore:
		if n == 0 && readErr == io.EOF {
			r.closeConn(conn, nil) // peer closed before completing a request
			return
		}
		r.rearm(conn)
	case httpwire.Done:
		r.respond(conn, req)
	}
}

func (r *Reactor) rearm(conn *netconn.Connection) {
	if err := r.mux.rearmConn(conn.FD); err != nil {
		r.closeConn(conn, err)
		return
	}
	conn.Arm(r.wheel, r.clock(), TimeoutDefault.Milliseconds(), r.onExpire)
}

func (r *Reactor) respond(conn *netconn.Connection, req *httpwire.Request) {
	conn.EnterResponding(r.wheel)

	uri, err := conn.Buf.Slice(req.URIStart, req.URIEnd)
	if err != nil {
		r.closeConn(conn, err)
		return
	}
	err = fileserver.Serve(conn.FD, req.Method, uri, r.root)
	r.closeConn(conn, err)
}

func (r *Reactor) onExpire(conn *netconn.Connection) {
	r.log.Log(accesslog.EventTimeout, conn.FD, nil)
	r.closeFD(conn)
}

func (r *Reactor) closeConn(conn *netconn.Connection, err error) {
	r.log.Log(accesslog.EventClose, conn.FD, err)
	r.closeFD(conn)
}

// closeFD performs the actual teardown shared by every close path: remove
// from the multiplexer, remove from the timer wheel, close the fd, drop
// the map entry.
func (r *Reactor) closeFD(conn *netconn.Connection) {
	r.mux.remove(conn.FD)
	delete(r.conns, conn.FD)
	conn.Close(r.wheel)
}

// shutdown closes every live connection on SIGINT/SIGTERM (spec.md §6).
func (r *Reactor) shutdown() {
	for _, conn := range r.conns {
		r.closeFD(conn)
	}
}

// fdReader adapts a raw fd to ringbuf.Reader for Buf.Fill.
type fdReader struct{ fd int }

func (f fdReader) Read(p []byte) (int, error) {
	n, err := unix.Read(f.fd, p)
	if err != nil {
		return 0, err // unix.Read reports -1 on error; never hand that to Fill
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}
