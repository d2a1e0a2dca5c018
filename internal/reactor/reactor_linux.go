//go:build linux

package reactor

import "golang.org/x/sys/unix"

// epoller implements multiplexer using Linux epoll, ported close to
// original_source/src/mainloop.c's server_loop: EPOLLIN|EPOLLET on the
// listener (not one-shot, since the accept loop itself drains it),
// EPOLLIN|EPOLLET|EPOLLONESHOT on every accepted connection.
type epoller struct {
	epfd      int
	listenFD  int
	eventsBuf []unix.EpollEvent
}

const maxEvents = 1024

func newMultiplexer() (multiplexer, error) {
	epfd, err := unix.EpollCreate1(0)
	if err != nil {
		return nil, err
	}
	return &epoller{epfd: epfd, eventsBuf: make([]unix.EpollEvent, maxEvents)}, nil
}

func (e *epoller) addListener(fd int) error {
	e.listenFD = fd
	ev := unix.EpollEvent{
		Events: unix.EPOLLIN | unix.EPOLLET,
		Fd:     int32(fd),
	}
	return unix.EpollCtl(e.epfd, unix.EPOLL_CTL_ADD, fd, &ev)
}

func (e *epoller) addConn(fd int) error {
	ev := unix.EpollEvent{
		Events: unix.EPOLLIN | unix.EPOLLET | unix.EPOLLONESHOT,
		Fd:     int32(fd),
	}
	return unix.EpollCtl(e.epfd, unix.EPOLL_CTL_ADD, fd, &ev)
}

func (e *epoller) rearmConn(fd int) error {
	ev := unix.EpollEvent{
		Events: unix.EPOLLIN | unix.EPOLLET | unix.EPOLLONESHOT,
		Fd:     int32(fd),
	}
	return unix.EpollCtl(e.epfd, unix.EPOLL_CTL_MOD, fd, &ev)
}

func (e *epoller) remove(fd int) {
	_ = unix.EpollCtl(e.epfd, unix.EPOLL_CTL_DEL, fd, nil)
}

func (e *epoller) wait(timeoutMillis int32) ([]readyFD, error) {
	n, err := unix.EpollWait(e.epfd, e.eventsBuf, int(timeoutMillis))
	if err != nil {
		return nil, err
	}
	out := make([]readyFD, 0, n)
	for i := 0; i < n; i++ {
		ev := e.eventsBuf[i]
		fd := int(ev.Fd)
		r := readyFD{fd: fd, isListen: fd == e.listenFD}
		if ev.Events&(unix.EPOLLERR|unix.EPOLLHUP) != 0 || ev.Events&unix.EPOLLIN == 0 {
			r.err = true
		}
		out = append(out, r)
	}
	return out, nil
}

func (e *epoller) close() error {
	return unix.Close(e.epfd)
}
