package httpwire

// Method identifies the HTTP request method. Any all-uppercase-or-underscore
// token that isn't GET/HEAD/POST classifies as MethodUnknown rather than
// being rejected — only a non-token prefix is a parse error (spec §4.2,
// §6 "Methods recognized").
type Method uint8

const (
	MethodUnknown Method = iota
	MethodGET
	MethodHEAD
	MethodPOST
)

// String returns the canonical textual form of m.
func (m Method) String() string {
	switch m {
	case MethodGET:
		return "GET"
	case MethodHEAD:
		return "HEAD"
	case MethodPOST:
		return "POST"
	default:
		return "UNKNOWN"
	}
}

// classifyMethod maps a method token to its Method ID. Dispatch is by
// length first (cheap, branches away most non-matches immediately) then a
// byte-by-byte compare — equivalent to the reference implementation's 4-byte
// word compare without resorting to unsafe (spec §9).
func classifyMethod(tok []byte) Method {
	switch len(tok) {
	case 3:
		if tok[0] == 'G' && tok[1] == 'E' && tok[2] == 'T' {
			return MethodGET
		}
	case 4:
		if tok[0] == 'P' && tok[1] == 'O' && tok[2] == 'S' && tok[3] == 'T' {
			return MethodPOST
		}
		if tok[0] == 'H' && tok[1] == 'E' && tok[2] == 'A' && tok[3] == 'D' {
			return MethodHEAD
		}
	}
	return MethodUnknown
}

// isMethodByte reports whether b is a legal method-token byte: 'A'-'Z' or
// '_' (spec §4.2, START/METHOD transitions).
func isMethodByte(b byte) bool {
	return (b >= 'A' && b <= 'Z') || b == '_'
}
