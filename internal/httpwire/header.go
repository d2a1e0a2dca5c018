package httpwire

import "github.com/wattforge/reactord/internal/ringbuf"

// headerState is the header-block state machine's discriminant (spec §4.3).
type headerState uint8

const (
	headerStart headerState = iota
	headerKey
	headerSpacesBeforeColon
	headerSpacesAfterColon
	headerValue
	headerCR
	headerCRLF
	headerCRLFCR
)

// Field is a single committed header as a pair of absolute byte ranges into
// the connection's ring buffer — never copied, per spec §3's "ordered list
// of (key_range, value_range) pairs".
type Field struct {
	KeyStart, KeyEnd     uint64
	ValueStart, ValueEnd uint64
}

// HeaderParser is a resumable, byte-at-a-time state machine for the header
// block: zero or more "key : value CR LF" lines terminated by a blank line
// (spec §4.3). Like RequestLineParser, it can be interrupted by NeedMore
// and resumed without losing position.
type HeaderParser struct {
	state headerState
	cur   uint64

	keyStart, keyEnd     uint64
	valueStart, valueEnd uint64

	Headers []Field
}

// NewHeaderParser creates a parser that begins reading at absolute position
// start — normally RequestLineParser.Pos() after the request line commits.
func NewHeaderParser(start uint64) *HeaderParser {
	return &HeaderParser{state: headerStart, cur: start}
}

// Pos reports the parser's current absolute read position.
func (p *HeaderParser) Pos() uint64 { return p.cur }

// Parse advances the state machine over whatever unexamined bytes are
// available in buf, appending each committed header to p.Headers in wire
// order (spec §8 P6). It returns Done once the blank line terminating the
// header block has been consumed, NeedMore if buf is exhausted first, or
// ErrInvalidHeader on a grammar violation.
func (p *HeaderParser) Parse(buf *ringbuf.Buffer) (Result, error) {
	for {
		if p.cur >= buf.Last() {
			return NeedMore, nil
		}
		ch, err := buf.ByteAt(p.cur)
		if err != nil {
			return NeedMore, nil
		}

		switch p.state {
		case headerStart:
			switch ch {
			case cr:
				// Blank line before any key: end of header block, same pair
				// as headerCRLF's CR branch.
				p.state = headerCRLFCR
			case lf:
				p.cur++
				return Done, nil
			default:
				p.keyStart = p.cur
				p.state = headerKey
			}

		case headerKey:
			switch ch {
			case sp:
				p.keyEnd = p.cur
				p.state = headerSpacesBeforeColon
			case ':':
				p.keyEnd = p.cur
				p.state = headerSpacesAfterColon
			}

		case headerSpacesBeforeColon:
			switch ch {
			case sp:
			case ':':
				p.state = headerSpacesAfterColon
			default:
				return NeedMore, ErrInvalidHeader
			}

		case headerSpacesAfterColon:
			if ch == sp {
				break
			}
			p.valueStart = p.cur
			p.state = headerValue
			continue // re-examine ch as the first byte of VALUE

		case headerValue:
			switch ch {
			case cr:
				p.valueEnd = p.cur
				p.state = headerCR
			case lf:
				p.valueEnd = p.cur
				p.state = headerCRLF
			}

		case headerCR:
			if ch != lf {
				return NeedMore, ErrInvalidHeader
			}
			p.Headers = append(p.Headers, Field{
				KeyStart: p.keyStart, KeyEnd: p.keyEnd,
				ValueStart: p.valueStart, ValueEnd: p.valueEnd,
			})
			p.state = headerCRLF

		case headerCRLF:
			switch ch {
			case cr:
				p.state = headerCRLFCR
			case lf:
				p.cur++
				return Done, nil
			default:
				p.keyStart = p.cur
				p.state = headerKey
				continue // re-examine ch as the first byte of the next KEY
			}

		case headerCRLFCR:
			if ch != lf {
				return NeedMore, ErrInvalidHeader
			}
			p.cur++
			return Done, nil
		}

		p.cur++
	}
}
