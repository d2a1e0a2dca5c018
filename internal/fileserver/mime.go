package fileserver

import (
	"mime"
	"path/filepath"
)

// extraTypes mirrors the teacher's own content-type constant table
// (shockwave/pkg/shockwave/http11/constants.go) for the extensions the
// stdlib mime package either doesn't know or maps inconsistently across
// platforms.
var extraTypes = map[string]string{
	".woff":  "font/woff",
	".woff2": "font/woff2",
	".ttf":   "font/ttf",
	".ico":   "image/x-icon",
}

const defaultContentType = "application/octet-stream"

// detectContentType returns the MIME type for name based on its extension:
// extraTypes first, then the stdlib mime package, and finally
// defaultContentType.
func detectContentType(name string) string {
	ext := filepath.Ext(name)
	if t, ok := extraTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return defaultContentType
}
