package http

import "strings"

// Method is a request method the server knows how to answer
type Method int

const (
	// MethodUnknown marks a request line whose method is not GET or HEAD.
	// It is not a parse failure; the connection worker answers it with 501.
	MethodUnknown Method = iota
	MethodGet
	MethodHead
)

var methodNames = [...]string{
	MethodUnknown: "UNKNOWN",
	MethodGet:     "GET",
	MethodHead:    "HEAD",
}

// String returns the wire name of the method
func (m Method) String() string {
	if m < 0 || int(m) >= len(methodNames) {
		return methodNames[MethodUnknown]
	}
	return methodNames[m]
}

// ParseMethod matches raw request-line text case-insensitively.
// Unrecognized text yields MethodUnknown.
func ParseMethod(raw string) Method {
	for m := MethodGet; int(m) < len(methodNames); m++ {
		if strings.EqualFold(raw, methodNames[m]) {
			return m
		}
	}
	return MethodUnknown
}

// Version is a supported HTTP protocol version
type Version int

const (
	HTTP10 Version = iota
	HTTP11
)

var versionNames = [...]string{
	HTTP10: "HTTP/1.0",
	HTTP11: "HTTP/1.1",
}

// String returns the protocol text, e.g. "HTTP/1.1"
func (v Version) String() string {
	if v < 0 || int(v) >= len(versionNames) {
		return versionNames[HTTP11]
	}
	return versionNames[v]
}

// ParseVersion matches raw protocol text case-insensitively
func ParseVersion(raw string) (Version, bool) {
	for i, name := range versionNames {
		if strings.EqualFold(raw, name) {
			return Version(i), true
		}
	}
	return 0, false
}

// Status is a response status with its fixed code and reason phrase
type Status struct {
	Code   int
	Reason string
}

var (
	StatusOK                  = Status{200, "OK"}
	StatusBadRequest          = Status{400, "Bad Request"}
	StatusNotFound            = Status{404, "Not Found"}
	StatusInternalServerError = Status{500, "Internal Server Error"}
	StatusNotImplemented      = Status{501, "Not Implemented"}
)

func (s Status) String() string {
	return string(appendInt(nil, s.Code)) + " " + s.Reason
}
