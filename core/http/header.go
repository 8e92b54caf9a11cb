package http

import (
	"regexp"

	"github.com/pkg/errors"
)

// Header names used by the server
const (
	HeaderConnection    = "Connection"
	HeaderContentLength = "Content-Length"
	HeaderContentType   = "Content-Type"
	HeaderServer        = "Server"
)

// DefaultServerName is sent in the Server header when none is configured
const DefaultServerName = "FileServer"

var headerLine = regexp.MustCompile(`^([^:]+): (.+)$`)

// Header is a single-valued header table. Keys iterate in insertion order;
// setting an existing key replaces its value in place.
//
// Every table starts with its own copy of the defaults
// (Connection: close, Content-Length: 0, Server: <name>) so that even a
// minimal response is well formed. Tables are never shared between
// connections.
type Header struct {
	keys   []string
	values map[string]string
}

// NewHeader creates a header table holding the three default entries
func NewHeader(serverName string) *Header {
	if serverName == "" {
		serverName = DefaultServerName
	}

	h := &Header{
		keys:   make([]string, 0, 8),
		values: make(map[string]string, 8),
	}
	h.Set(HeaderConnection, "close")
	h.Set(HeaderContentLength, "0")
	h.Set(HeaderServer, serverName)

	return h
}

// Set upserts a header value
func (h *Header) Set(key, value string) {
	if _, ok := h.values[key]; !ok {
		h.keys = append(h.keys, key)
	}
	h.values[key] = value
}

// Get returns the value for key and whether it is present
func (h *Header) Get(key string) (string, bool) {
	v, ok := h.values[key]
	return v, ok
}

// Keys returns the header names in iteration order
func (h *Header) Keys() []string {
	keys := make([]string, len(h.keys))
	copy(keys, h.keys)
	return keys
}

// Len returns the number of entries
func (h *Header) Len() int {
	return len(h.keys)
}

// AddRaw parses a "<key>: <value>" line and stores it.
// Lines that do not match fail with ErrMalformedHeader.
func (h *Header) AddRaw(line string) error {
	m := headerLine.FindStringSubmatch(line)
	if m == nil {
		return errors.Wrapf(ErrMalformedHeader, "%q", line)
	}

	h.Set(m[1], m[2])
	return nil
}
