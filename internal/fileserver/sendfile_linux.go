//go:build linux

package fileserver

import (
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// sendFile implements zero-copy file transmission over a raw socket fd via
// the sendfile(2) syscall, adapted from the teacher's net.Conn-oriented
// SendFile (shockwave/pkg/shockwave/socket/sendfile_linux.go) to the raw
// fds the reactor owns directly — it never wraps connections in net.Conn,
// so there is no SyscallConn to unwrap here.
func sendFile(dstFD int, file *os.File, offset, count int64) (written int64, err error) {
	srcFD := int(file.Fd())
	remaining := count
	cur := offset

	for remaining > 0 {
		chunk := remaining
		if chunk > 1<<30 { // sendfile caps a single call well under 2GB; chunk at 1GB
			chunk = 1 << 30
		}
		n, err := unix.Sendfile(dstFD, srcFD, &cur, int(chunk))
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}
			if written > 0 {
				return written, err
			}
			return io.Copy(fdWriter{dstFD}, io.NewSectionReader(file, offset, count))
		}
		if n == 0 {
			break
		}
		written += int64(n)
		remaining -= int64(n)
	}
	return written, nil
}

// fdWriter adapts a raw fd to io.Writer for the io.Copy fallback path.
type fdWriter struct{ fd int }

func (w fdWriter) Write(p []byte) (int, error) {
	return unix.Write(w.fd, p)
}
