//go:build darwin

package sockopt

import "golang.org/x/sys/unix"

// applyPlatformOptions sets Darwin-only per-connection options. macOS has
// no TCP_QUICKACK equivalent, so QuickAck is silently not applied here.
func applyPlatformOptions(fd int, cfg Config) {
	_ = unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_NOSIGPIPE, 1)
}

// applyListenerOptions is a no-op on Darwin: there is no TCP_DEFER_ACCEPT
// equivalent to set on the listening socket.
func applyListenerOptions(fd int, cfg Config) error {
	return nil
}
