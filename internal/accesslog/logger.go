// Package accesslog is the reactor's structured event log: one JSON line
// per accept, close, timeout, and parse error. Adapted from the teacher's
// request-logging middleware (stdlib log + encoding/json, not a third-party
// structured logger — that is the teacher's own idiom for this concern) to
// the reactor's event vocabulary, since there is no per-request
// handler/middleware chain here to hang a log line off of.
package accesslog

import (
	"encoding/json"
	"io"
	"log"
	"os"
	"time"
)

// Event identifies the kind of reactor-level occurrence being logged.
type Event string

const (
	EventAccept     Event = "accept"
	EventClose      Event = "close"
	EventTimeout    Event = "timeout"
	EventParseError Event = "parse_error"
	EventOverflow   Event = "overflow"
)

// Entry is a single structured log line.
type Entry struct {
	Time  string `json:"time"`
	Event Event  `json:"event"`
	FD    int    `json:"fd"`
	Error string `json:"error,omitempty"`
}

// Logger writes one JSON Entry per event to an underlying io.Writer.
// Not safe for concurrent use across goroutines without external
// synchronization — the reactor that owns it is single-threaded per spec.md
// §5, and each worker gets its own Logger.
type Logger struct {
	enc *json.Encoder
}

// New returns a Logger writing to w.
func New(w io.Writer) *Logger {
	return &Logger{enc: json.NewEncoder(w)}
}

// Default returns a Logger writing to stdout, the teacher's default sink.
func Default() *Logger {
	return New(os.Stdout)
}

// Log emits a single structured event. A write failure is reported to the
// standard library logger rather than propagated — a broken log sink must
// never take down the reactor loop.
func (l *Logger) Log(event Event, fd int, err error) {
	entry := Entry{
		Time:  time.Now().UTC().Format(time.RFC3339Nano),
		Event: event,
		FD:    fd,
	}
	if err != nil {
		entry.Error = err.Error()
	}
	if encErr := l.enc.Encode(entry); encErr != nil {
		log.Printf("accesslog: failed to write entry: %v", encErr)
	}
}
