//go:build darwin

package reactor

import "golang.org/x/sys/unix"

// kqueuer implements multiplexer using Darwin kqueue. EVFILT_READ with
// EV_CLEAR gives the same edge-triggered semantics epoll's EPOLLET gives on
// Linux; EV_ONESHOT on a connection's event mirrors EPOLLONESHOT (the
// kernel automatically deletes the event after it fires once, and
// rearmConn re-registers it — kqueue has no separate "modify" verb,
// registering again is the re-arm).
type kqueuer struct {
	kq        int
	listenFD  int
	eventsBuf []unix.Kevent_t
}

const maxEvents = 1024

func newMultiplexer() (multiplexer, error) {
	kq, err := unix.Kqueue()
	if err != nil {
		return nil, err
	}
	return &kqueuer{kq: kq, eventsBuf: make([]unix.Kevent_t, maxEvents)}, nil
}

func (k *kqueuer) register(fd int, oneshot bool) error {
	flags := unix.EV_ADD | unix.EV_CLEAR
	if oneshot {
		flags |= unix.EV_ONESHOT
	}
	ev := unix.Kevent_t{
		Ident:  uint64(fd),
		Filter: unix.EVFILT_READ,
		Flags:  uint16(flags),
	}
	_, err := unix.Kevent(k.kq, []unix.Kevent_t{ev}, nil, nil)
	return err
}

func (k *kqueuer) addListener(fd int) error {
	k.listenFD = fd
	return k.register(fd, false)
}

func (k *kqueuer) addConn(fd int) error {
	return k.register(fd, true)
}

func (k *kqueuer) rearmConn(fd int) error {
	return k.register(fd, true)
}

func (k *kqueuer) remove(fd int) {
	ev := unix.Kevent_t{
		Ident:  uint64(fd),
		Filter: unix.EVFILT_READ,
		Flags:  unix.EV_DELETE,
	}
	_, _ = unix.Kevent(k.kq, []unix.Kevent_t{ev}, nil, nil)
}

func (k *kqueuer) wait(timeoutMillis int32) ([]readyFD, error) {
	var ts *unix.Timespec
	if timeoutMillis >= 0 {
		t := unix.NsecToTimespec(int64(timeoutMillis) * int64(1e6))
		ts = &t
	}
	n, err := unix.Kevent(k.kq, nil, k.eventsBuf, ts)
	if err != nil {
		return nil, err
	}
	out := make([]readyFD, 0, n)
	for i := 0; i < n; i++ {
		ev := k.eventsBuf[i]
		fd := int(ev.Ident)
		r := readyFD{fd: fd, isListen: fd == k.listenFD}
		if ev.Flags&unix.EV_ERROR != 0 || ev.Flags&unix.EV_EOF != 0 {
			r.err = true
		}
		out = append(out, r)
	}
	return out, nil
}

func (k *kqueuer) close() error {
	return unix.Close(k.kq)
}
