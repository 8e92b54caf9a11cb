// Package files is the server's view of the local file system: a small
// provider interface for existence/length checks and reads, plus the
// content-type table used for responses.
package files

import (
	"io"
	"io/fs"
	"os"
	"strings"
)

// FileSystem provides metadata and byte streams for local paths
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	Open(path string) (io.ReadCloser, error)
}

// OS serves files straight from the operating system
type OS struct{}

func (OS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

func (OS) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// IsRegularFile reports whether path exists and is a regular file.
// The file info is returned so callers need not stat twice.
func IsRegularFile(fsys FileSystem, path string) (fs.FileInfo, bool) {
	info, err := fsys.Stat(path)
	if err != nil {
		return nil, false
	}
	return info, info.Mode().IsRegular()
}

// DefaultContentType is used when no suffix in the table matches
const DefaultContentType = "text/html"

var contentTypes = []struct {
	suffixes    []string
	contentType string
}{
	{[]string{".jpg", ".jpeg"}, "image/jpeg"},
	{[]string{".gif"}, "image/gif"},
	{[]string{".zip"}, "application/x-zip-compressed"},
	{[]string{".js"}, "application/javascript"},
	{[]string{".css"}, "text/css"},
}

// ContentType returns the MIME type for path based on its suffix.
// Matching is case-insensitive and the first matching entry wins.
func ContentType(path string) string {
	lower := strings.ToLower(path)
	for _, ct := range contentTypes {
		for _, suffix := range ct.suffixes {
			if strings.HasSuffix(lower, suffix) {
				return ct.contentType
			}
		}
	}
	return DefaultContentType
}
