// Command reactord is a small, high-concurrency HTTP/1.x static file
// server. It opens one listening socket, then fans it out across N
// goroutine reactors (spec.md §9's "thread-per-core ... shared listener"
// choice, reimplementing the original's process-fork worker model without
// forking — see SPEC_FULL.md §6).
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"

	"github.com/wattforge/reactord/internal/accesslog"
	"github.com/wattforge/reactord/internal/reactor"
	"github.com/wattforge/reactord/internal/sockopt"
)

func main() {
	port := flag.Int("p", 8081, "listening port")
	flag.IntVar(port, "port", 8081, "listening port")
	root := flag.String("r", "./www", "document root")
	flag.StringVar(root, "root", "./www", "document root")
	workers := flag.Int("w", runtime.NumCPU(), "number of reactor workers")
	flag.IntVar(workers, "workers", runtime.NumCPU(), "number of reactor workers")
	flag.Usage = usage
	flag.Parse()

	if *workers < 1 {
		fmt.Fprintln(os.Stderr, "reactord: --workers must be at least 1")
		os.Exit(1)
	}

	if err := run(*port, *root, *workers); err != nil {
		fmt.Fprintf(os.Stderr, "reactord: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: reactord [-p|--port <n>] [-r|--root <path>] [-w|--workers <n>] [-h|--help]")
	flag.PrintDefaults()
}

// run opens the listening socket, applies listener-level tuning, starts
// workers reactor.Reactors sharing it, and blocks until SIGINT/SIGTERM
// (spec.md §6). SIGPIPE is a non-issue in Go: writes to a closed socket
// return EPIPE as an ordinary error rather than raising a signal, so there
// is no ignore-SIGPIPE step to perform here.
func run(port int, root string, workers int) error {
	listenFD, err := openListener(port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	defer unix.Close(listenFD)

	tuning := sockopt.Default()
	if err := sockopt.ApplyListener(listenFD, tuning); err != nil {
		return fmt.Errorf("listener tuning: %w", err)
	}

	// Each worker gets its own Logger: accesslog.Logger wraps a single
	// json.Encoder and is not safe for concurrent use (internal/accesslog),
	// so a shared instance across reactor goroutines would race on stdout.
	reactors := make([]*reactor.Reactor, workers)
	for i := range reactors {
		r, err := reactor.New(listenFD, root, accesslog.Default())
		if err != nil {
			return fmt.Errorf("worker %d: %w", i, err)
		}
		reactors[i] = r
	}

	stop := make(chan struct{})
	group := new(errgroup.Group)
	for _, r := range reactors {
		r := r
		group.Go(func() error {
			return r.Run(stop)
		})
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	close(stop)

	return group.Wait()
}

// openListener builds the raw, non-blocking IPv4 listening socket the
// reactor pool shares. Built directly on golang.org/x/sys/unix rather than
// net.Listen: the reactor registers and reads/writes this fd itself (see
// internal/reactor), and net.Listener does not expose a way to hand its fd
// over without also keeping its own blocking runtime poller attached.
func openListener(port int) (int, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, 0)
	if err != nil {
		return -1, err
	}

	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		unix.Close(fd)
		return -1, err
	}

	addr := &unix.SockaddrInet4{Port: port}
	if err := unix.Bind(fd, addr); err != nil {
		unix.Close(fd)
		return -1, err
	}
	if err := unix.Listen(fd, unix.SOMAXCONN); err != nil {
		unix.Close(fd)
		return -1, err
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)
		return -1, err
	}
	return fd, nil
}
