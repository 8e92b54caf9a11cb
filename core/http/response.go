package http

import (
	"io"

	"github.com/pkg/errors"

	"github.com/searchktools/file-server/core/files"
	"github.com/searchktools/file-server/core/pools"
)

const crlf = "\r\n"

// body copy buffers, shared by every response
var copyBuffers = pools.NewBytePool()

const copyBufferSize = 32 * 1024

// CopyBufferStats reports traffic on the shared body copy buffers
func CopyBufferStats() pools.BytePoolStats {
	return copyBuffers.Stats()
}

// Response is mutable until written. At most one body source is set:
// none, a path opened lazily at write time, or an already open stream.
type Response struct {
	Version Version
	Status  Status

	header *Header

	bodyPath string
	bodyFS   files.FileSystem
	body     io.ReadCloser
}

// NewResponse creates a response. A nil header gets a fresh default table.
func NewResponse(version Version, status Status, header *Header) *Response {
	if header == nil {
		header = NewHeader("")
	}
	return &Response{
		Version: version,
		Status:  status,
		header:  header,
	}
}

// Header returns a response header value
func (r *Response) Header(key string) (string, bool) {
	return r.header.Get(key)
}

// SetHeader upserts a response header
func (r *Response) SetHeader(key, value string) {
	r.header.Set(key, value)
}

// SetBodyStream makes body the response body, replacing any other source.
// The response owns body from here on and closes it in Close.
func (r *Response) SetBodyStream(body io.ReadCloser) {
	r.closeBody()
	r.bodyPath, r.bodyFS = "", nil
	r.body = body
}

// SetBodyPath makes the file at path the response body. It is opened
// through fsys only when the response is written.
func (r *Response) SetBodyPath(fsys files.FileSystem, path string) {
	r.closeBody()
	r.bodyPath, r.bodyFS = path, fsys
}

// HasBody reports whether a body source is set
func (r *Response) HasBody() bool {
	return r.body != nil || r.bodyPath != ""
}

// Write serializes the status line, headers, blank line and body to w.
// Content-Length is sent as set; it is not recomputed from the body.
func (r *Response) Write(w io.Writer) error {
	head := make([]byte, 0, 256)
	head = append(head, r.Version.String()...)
	head = append(head, ' ')
	head = appendInt(head, r.Status.Code)
	head = append(head, ' ')
	head = append(head, r.Status.Reason...)
	head = append(head, crlf...)

	for _, key := range r.header.keys {
		head = append(head, key...)
		head = append(head, ": "...)
		head = append(head, r.header.values[key]...)
		head = append(head, crlf...)
	}
	head = append(head, crlf...)

	if _, err := w.Write(head); err != nil {
		return errors.Wrap(err, "write response head")
	}

	body, err := r.openBody()
	if err != nil {
		return err
	}
	if body == nil {
		return nil
	}

	buf := copyBuffers.Get(copyBufferSize)
	defer copyBuffers.Put(buf)

	if _, err := io.CopyBuffer(w, body, buf); err != nil {
		return errors.Wrap(err, "write response body")
	}
	return nil
}

func (r *Response) openBody() (io.Reader, error) {
	if r.body != nil {
		return r.body, nil
	}
	if r.bodyPath == "" {
		return nil, nil
	}

	f, err := r.bodyFS.Open(r.bodyPath)
	if err != nil {
		return nil, errors.Wrapf(ErrResourceUnavailable, "open %s: %v", r.bodyPath, err)
	}
	r.body = f
	return f, nil
}

// Close releases the body stream, if one is open
func (r *Response) Close() error {
	return r.closeBody()
}

func (r *Response) closeBody() error {
	if r.body == nil {
		return nil
	}
	err := r.body.Close()
	r.body = nil
	return err
}

func appendInt(b []byte, i int) []byte {
	if i == 0 {
		return append(b, '0')
	}

	if i < 0 {
		b = append(b, '-')
		i = -i
	}

	var digits [20]byte
	n := 0
	for i > 0 {
		digits[n] = byte('0' + i%10)
		i /= 10
		n++
	}

	for n > 0 {
		n--
		b = append(b, digits[n])
	}

	return b
}
