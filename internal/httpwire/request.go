package httpwire

import "github.com/wattforge/reactord/internal/ringbuf"

// phase tracks which of the two state machines (spec §4.2, §4.3) is
// currently driving Parser.Parse.
type phase uint8

const (
	phaseRequestLine phase = iota
	phaseHeaders
	phaseDone
)

// Request is the parsed result handed to the response generator once
// Parser.Parse returns Done: the URI and every header value remain byte
// ranges into the connection's ring buffer rather than copies (spec §3
// ParsedRequest).
type Request struct {
	Method    Method
	HTTPMajor int
	HTTPMinor int

	URIStart, URIEnd uint64

	Headers []Field
}

// Parser is the two-phase resumable request parser: the request line
// (§4.2), then the header block (§4.3). A single Parser instance is created
// per connection (spec §3 Connection "owns ... one ParseState") and is fed
// the connection's ring buffer across as many Parse calls as NeedMore
// requires.
type Parser struct {
	ph   phase
	line *RequestLineParser
	hdr  *HeaderParser
}

// NewParser creates a parser that begins reading a fresh request at
// absolute position start (0 for a newly accepted connection).
func NewParser(start uint64) *Parser {
	return &Parser{
		ph:   phaseRequestLine,
		line: NewRequestLineParser(start),
	}
}

// Parse drives the state machine forward over whatever bytes buf currently
// has available. It returns Done with the completed Request once the full
// header block has been consumed, NeedMore if the grammar demands more
// input than buf currently holds, or one of ErrInvalidMethod/
// ErrInvalidRequest/ErrInvalidHeader on a grammar violation — at which
// point the caller must close the connection (spec §7).
func (p *Parser) Parse(buf *ringbuf.Buffer) (Result, *Request, error) {
	if p.ph == phaseRequestLine {
		res, err := p.line.Parse(buf)
		if err != nil {
			return NeedMore, nil, err
		}
		if res == NeedMore {
			return NeedMore, nil, nil
		}
		p.hdr = NewHeaderParser(p.line.Pos())
		p.ph = phaseHeaders
	}

	res, err := p.hdr.Parse(buf)
	if err != nil {
		return NeedMore, nil, err
	}
	if res == NeedMore {
		return NeedMore, nil, nil
	}

	p.ph = phaseDone
	uriStart, uriEnd := p.line.URIRange()
	return Done, &Request{
		Method:    p.line.Method,
		HTTPMajor: p.line.HTTPMajor,
		HTTPMinor: p.line.HTTPMinor,
		URIStart:  uriStart,
		URIEnd:    uriEnd,
		Headers:   p.hdr.Headers,
	}, nil
}
