package http

import "github.com/pkg/errors"

// Parse failures. All of them are answered with 400 Bad Request.
var (
	ErrEmptyRequest         = errors.New("empty request")
	ErrMalformedRequestLine = errors.New("malformed request line")
	ErrMalformedHeader      = errors.New("malformed header")
	ErrMalformedRequest     = errors.New("malformed request")
	ErrUnsupportedVersion   = errors.New("unsupported HTTP version")
)

var (
	// ErrResourceUnavailable means a file passed the existence check but
	// could not be opened for reading.
	ErrResourceUnavailable = errors.New("resource unavailable")

	// ErrNotImplemented is returned when resolving a request whose method
	// is MethodUnknown.
	ErrNotImplemented = errors.New("method not implemented")
)

// IsParseError reports whether err belongs to the 400 Bad Request class
func IsParseError(err error) bool {
	return errors.Is(err, ErrEmptyRequest) ||
		errors.Is(err, ErrMalformedRequestLine) ||
		errors.Is(err, ErrMalformedHeader) ||
		errors.Is(err, ErrMalformedRequest) ||
		errors.Is(err, ErrUnsupportedVersion)
}
