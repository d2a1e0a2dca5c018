//go:build !linux

package fileserver

import (
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// sendFile falls back to a plain write loop on platforms without the
// Linux sendfile(2) semantics this package otherwise exploits.
func sendFile(dstFD int, file *os.File, offset, count int64) (written int64, err error) {
	return io.Copy(fdWriter{dstFD}, io.NewSectionReader(file, offset, count))
}

type fdWriter struct{ fd int }

func (w fdWriter) Write(p []byte) (int, error) {
	return unix.Write(w.fd, p)
}
