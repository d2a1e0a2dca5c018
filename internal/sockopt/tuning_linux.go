//go:build linux

package sockopt

import "golang.org/x/sys/unix"

// applyPlatformOptions sets Linux-only per-connection options. QuickAck is
// not persistent — the kernel clears it after the next ACK — so this is a
// best-effort initial nudge, not a standing guarantee.
func applyPlatformOptions(fd int, cfg Config) {
	if cfg.QuickAck {
		_ = unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_QUICKACK, 1)
	}
}

// applyListenerOptions sets TCP_DEFER_ACCEPT on the listening socket so the
// acceptor only wakes once a new connection actually has data queued.
func applyListenerOptions(fd int, cfg Config) error {
	if !cfg.DeferAccept {
		return nil
	}
	return unix.SetsockoptInt(fd, unix.IPPROTO_TCP, unix.TCP_DEFER_ACCEPT, 5)
}
