package httpwire

import "errors"

// Parser error taxonomy (spec §7). NEED_MORE is not an error — it is
// signalled by the Result return value, not by one of these.
var (
	// ErrInvalidMethod indicates the request-line prefix is not an
	// uppercase/underscore token (spec §4.2, START/METHOD states).
	ErrInvalidMethod = errors.New("httpwire: invalid method")

	// ErrInvalidRequest indicates a malformed URI, version, or line
	// terminator in the request line (spec §4.2).
	ErrInvalidRequest = errors.New("httpwire: invalid request line")

	// ErrInvalidHeader indicates a malformed header line or a header
	// missing its colon separator (spec §4.3).
	ErrInvalidHeader = errors.New("httpwire: invalid header")
)
