package fileserver

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/wattforge/reactord/internal/httpwire"
)

// Serve renders a response for a completed request directly onto fd: the
// reactor hands it a write-ready socket once the parser reports Done (spec
// §1's "external collaborator ... specified only by the interface it
// expects: a completed parsed request + a write-ready socket"). uri is the
// raw URI bytes sliced from the connection's ring buffer.
func Serve(fd int, method httpwire.Method, uri []byte, root string) error {
	if method != httpwire.MethodGET && method != httpwire.MethodHEAD {
		return writeError(fd, 405)
	}

	path, ok := resolvePath(root, string(uri))
	if !ok {
		return writeError(fd, 400)
	}

	f, err := os.Open(path)
	if err != nil {
		return writeError(fd, 404)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		return writeError(fd, 404)
	}

	header := responseHeader(200, info.Size(), detectContentType(path))
	if _, err := unix.Write(fd, header); err != nil {
		return err
	}
	if method == httpwire.MethodHEAD {
		return nil
	}

	_, err = sendFile(fd, f, 0, info.Size())
	return err
}

// resolvePath joins uri onto root and rejects any result that would escape
// root via ".." segments — the one security-relevant decision a static file
// responder has to make.
func resolvePath(root, uri string) (string, bool) {
	if uri == "" || uri[0] != '/' {
		return "", false
	}
	// Cleaned as a relative path so a leading ".." is kept rather than
	// collapsed at "/", and the prefix check below can reject it.
	clean := filepath.Clean("." + uri)
	if clean == "." {
		clean = "index.html"
	}
	full := filepath.Join(root, clean)
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", false
	}
	fullAbs, err := filepath.Abs(full)
	if err != nil {
		return "", false
	}
	if fullAbs != rootAbs && !strings.HasPrefix(fullAbs, rootAbs+string(filepath.Separator)) {
		return "", false
	}
	return fullAbs, true
}

func writeError(fd int, code int) error {
	body := errorBodies[code]
	header := responseHeader(code, int64(len(body)), "text/html; charset=utf-8")
	if _, err := unix.Write(fd, header); err != nil {
		return err
	}
	_, err := unix.Write(fd, body)
	return err
}

func responseHeader(code int, contentLength int64, contentType string) []byte {
	var b strings.Builder
	b.Write(statusLine(code))
	b.WriteString("Content-Length: ")
	b.WriteString(strconv.FormatInt(contentLength, 10))
	b.WriteString("\r\nContent-Type: ")
	b.WriteString(contentType)
	b.WriteString("\r\nConnection: close\r\n\r\n")
	return []byte(b.String())
}
