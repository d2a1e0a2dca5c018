package httpwire

import "github.com/wattforge/reactord/internal/ringbuf"

const (
	cr = 0x0D
	lf = 0x0A
	sp = ' '
)

// lineState is the request-line state machine's discriminant (spec §4.2).
type lineState uint8

const (
	lineStart lineState = iota
	lineMethod
	lineSpacesBeforeURI
	lineAfterSlashInURI
	lineHTTP
	lineHTTPH
	lineHTTPHT
	lineHTTPHTT
	lineHTTPHTTP
	lineFirstMajorDigit
	lineMajorDigit
	lineFirstMinorDigit
	lineMinorDigit
	lineSpacesAfterDigit
	lineAlmostDone
)

// RequestLineParser is a resumable, byte-at-a-time state machine for
// "METHOD SP+ URI SP+ HTTP/major.minor (CR? LF)" (spec §4.2). It can be
// interrupted by NeedMore at any byte boundary and resumed later without
// losing position: all recorded positions are absolute offsets into a
// ringbuf.Buffer, not pointers, so they remain valid across interruption
// (spec §3, §9 "Absolute-position arena").
type RequestLineParser struct {
	state lineState
	cur   uint64

	requestStart uint64
	uriStart     uint64
	uriEnd       uint64

	Method     Method
	HTTPMajor  int
	HTTPMinor  int
}

// NewRequestLineParser creates a parser that begins reading at absolute
// position start (normally 0, the start of a fresh connection's buffer).
func NewRequestLineParser(start uint64) *RequestLineParser {
	return &RequestLineParser{state: lineStart, cur: start}
}

// URIRange returns the absolute [start, end) byte range of the parsed URI.
// Valid only after Parse returns Done.
func (p *RequestLineParser) URIRange() (start, end uint64) {
	return p.uriStart, p.uriEnd
}

// Pos reports the parser's current absolute read position — the next byte
// it will examine, or (after Done) the position immediately following the
// request line's terminating LF.
func (p *RequestLineParser) Pos() uint64 { return p.cur }

// Parse advances the state machine over whatever unexamined bytes are
// available in buf. It returns Done once the request line is fully
// consumed, NeedMore if buf is exhausted first, or one of
// ErrInvalidMethod/ErrInvalidRequest on a grammar violation.
func (p *RequestLineParser) Parse(buf *ringbuf.Buffer) (Result, error) {
	for {
		if p.cur >= buf.Last() {
			return NeedMore, nil
		}
		ch, err := buf.ByteAt(p.cur)
		if err != nil {
			return NeedMore, nil
		}

		switch p.state {
		case lineStart:
			if ch == cr || ch == lf {
				p.cur++
				continue
			}
			if !isMethodByte(ch) {
				return NeedMore, ErrInvalidMethod
			}
			p.requestStart = p.cur
			p.state = lineMethod

		case lineMethod:
			if ch == sp {
				tok, err := buf.Slice(p.requestStart, p.cur)
				if err != nil {
					return NeedMore, err
				}
				p.Method = classifyMethod(tok)
				p.state = lineSpacesBeforeURI
			} else if !isMethodByte(ch) {
				return NeedMore, ErrInvalidMethod
			}

		case lineSpacesBeforeURI:
			switch ch {
			case sp:
			case '/':
				p.uriStart = p.cur
				p.state = lineAfterSlashInURI
			default:
				return NeedMore, ErrInvalidRequest
			}

		case lineAfterSlashInURI:
			if ch == sp {
				p.uriEnd = p.cur
				p.state = lineHTTP
			}

		case lineHTTP:
			switch ch {
			case sp:
			case 'H':
				p.state = lineHTTPH
			default:
				return NeedMore, ErrInvalidRequest
			}

		case lineHTTPH:
			if ch != 'T' {
				return NeedMore, ErrInvalidRequest
			}
			p.state = lineHTTPHT

		case lineHTTPHT:
			if ch != 'T' {
				return NeedMore, ErrInvalidRequest
			}
			p.state = lineHTTPHTT

		case lineHTTPHTT:
			if ch != 'P' {
				return NeedMore, ErrInvalidRequest
			}
			p.state = lineHTTPHTTP

		case lineHTTPHTTP:
			if ch != '/' {
				return NeedMore, ErrInvalidRequest
			}
			p.state = lineFirstMajorDigit

		case lineFirstMajorDigit:
			if ch < '1' || ch > '9' {
				return NeedMore, ErrInvalidRequest
			}
			p.HTTPMajor = int(ch - '0')
			p.state = lineMajorDigit

		case lineMajorDigit:
			if ch == '.' {
				p.state = lineFirstMinorDigit
			} else if ch >= '0' && ch <= '9' {
				p.HTTPMajor = p.HTTPMajor*10 + int(ch-'0')
			} else {
				return NeedMore, ErrInvalidRequest
			}

		case lineFirstMinorDigit:
			if ch < '0' || ch > '9' {
				return NeedMore, ErrInvalidRequest
			}
			p.HTTPMinor = int(ch - '0')
			p.state = lineMinorDigit

		case lineMinorDigit:
			switch {
			case ch == sp:
				p.state = lineSpacesAfterDigit
			case ch == cr:
				p.state = lineAlmostDone
			case ch == lf:
				p.cur++
				return Done, nil
			case ch >= '0' && ch <= '9':
				p.HTTPMinor = p.HTTPMinor*10 + int(ch-'0')
			default:
				return NeedMore, ErrInvalidRequest
			}

		case lineSpacesAfterDigit:
			switch ch {
			case sp:
			case cr:
				p.state = lineAlmostDone
			case lf:
				p.cur++
				return Done, nil
			default:
				return NeedMore, ErrInvalidRequest
			}

		case lineAlmostDone:
			if ch != lf {
				return NeedMore, ErrInvalidRequest
			}
			p.cur++
			return Done, nil
		}

		p.cur++
	}
}
