// Package fileserver is the response generator the reactor hands a
// completed ParsedRequest to: it resolves the request's URI against a
// document root, serves the file with a zero-copy sendfile where the
// platform supports it, and renders the handful of canned error pages a
// static file server needs.
package fileserver

// Status lines, pre-built with CRLF so a response never allocates one at
// request time — the same zero-allocation-on-the-hot-path convention the
// teacher's HTTP/1.1 engine uses for its status table.
var (
	status200 = []byte("HTTP/1.1 200 OK\r\n")
	status400 = []byte("HTTP/1.1 400 Bad Request\r\n")
	status404 = []byte("HTTP/1.1 404 Not Found\r\n")
	status405 = []byte("HTTP/1.1 405 Method Not Allowed\r\n")
	status500 = []byte("HTTP/1.1 500 Internal Server Error\r\n")
)

// errorBodies holds the canned body for each non-200 status this server can
// produce. Kept tiny and fixed since there is no templating need here.
var errorBodies = map[int][]byte{
	400: []byte("<html><body><h1>400 Bad Request</h1></body></html>"),
	404: []byte("<html><body><h1>404 Not Found</h1></body></html>"),
	405: []byte("<html><body><h1>405 Method Not Allowed</h1></body></html>"),
	500: []byte("<html><body><h1>500 Internal Server Error</h1></body></html>"),
}

func statusLine(code int) []byte {
	switch code {
	case 400:
		return status400
	case 404:
		return status404
	case 405:
		return status405
	case 500:
		return status500
	default:
		return status200
	}
}
