// Package sockopt applies socket tuning to the raw fds the reactor owns.
// It never sees a net.Conn: the reactor registers and reads/writes fds
// directly (see internal/reactor), so every option here is set with
// golang.org/x/sys/unix.SetsockoptInt instead of the net package's
// SyscallConn indirection.
package sockopt

import "golang.org/x/sys/unix"

// Config holds the tunable options this server sets on accepted
// connections and the listening socket (spec.md's DOMAIN STACK "Socket
// tuning": TCP_NODELAY, buffer sizes, platform accept tuning).
type Config struct {
	// NoDelay disables Nagle's algorithm. HTTP responses are written whole
	// in one or two writes, so batching small writes buys nothing and only
	// adds latency.
	NoDelay bool

	// RecvBuffer and SendBuffer set SO_RCVBUF/SO_SNDBUF in bytes. Zero
	// leaves the kernel default in place.
	RecvBuffer int
	SendBuffer int

	// KeepAlive enables SO_KEEPALIVE so a peer that vanishes without a
	// FIN/RST is eventually detected independent of the idle timer.
	KeepAlive bool

	// QuickAck requests immediate ACKs instead of the delayed-ACK timer
	// (Linux only; a no-op elsewhere).
	QuickAck bool

	// DeferAccept delays waking the acceptor until data has actually
	// arrived on the new connection (Linux only; a no-op elsewhere).
	DeferAccept bool
}

// Default returns the tuning applied to every accepted connection unless
// the caller overrides it.
func Default() Config {
	return Config{
		NoDelay:     true,
		RecvBuffer:  256 * 1024,
		SendBuffer:  256 * 1024,
		KeepAlive:   true,
		QuickAck:    true,
		DeferAccept: true,
	}
}

// ApplyConn applies cross-platform options to an accepted connection's fd,
// then defers to applyPlatformOptions for the Linux/Darwin-specific ones.
// Only a TCP_NODELAY failure is returned; failures setting the buffer
// sizes, SO_KEEPALIVE, or the platform-specific options are ignored (older
// kernels may lack a given TCP_* option).
func ApplyConn(fd int, cfg Config) error {
	if cfg.NoDelay {
		if err := unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_NODELAY, 1); err != nil {
			return err
		}
	}
	if cfg.RecvBuffer > 0 {
		_ = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_RCVBUF, cfg.RecvBuffer)
	}
	if cfg.SendBuffer > 0 {
		_ = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_SNDBUF, cfg.SendBuffer)
	}
	if cfg.KeepAlive {
		_ = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_KEEPALIVE, 1)
	}
	applyPlatformOptions(fd, cfg)
	return nil
}

// ApplyListener applies options that must be set on the listening socket
// before accept (Linux's TCP_DEFER_ACCEPT).
func ApplyListener(fd int, cfg Config) error {
	return applyListenerOptions(fd, cfg)
}
