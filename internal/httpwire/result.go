package httpwire

// Result is the outcome of a single Parse call on one of the resumable
// state machines.
type Result uint8

const (
	// NeedMore indicates the input was exhausted before the grammar was
	// satisfied. The parser has retained its state and absolute offsets;
	// the caller should read more bytes into the ring buffer and call
	// Parse again.
	NeedMore Result = iota

	// Done indicates the grammar was satisfied: the request line (or the
	// full header block) has been fully parsed.
	Done
)
