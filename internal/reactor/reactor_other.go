//go:build !linux && !darwin

package reactor

import "errors"

// newMultiplexer has no implementation outside Linux (epoll) and Darwin
// (kqueue) — spec.md's reactor is defined in terms of edge-triggered
// one-shot readiness, which has no portable equivalent in the standard
// library (see SPEC_FULL.md's justification for golang.org/x/sys/unix).
func newMultiplexer() (multiplexer, error) {
	return nil, errors.New("reactor: unsupported platform")
}
