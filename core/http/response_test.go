package http

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/searchktools/file-server/core/files"
)

type failingWriter struct {
	failAfter int
	written   int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.written+len(p) > w.failAfter {
		return 0, errors.New("connection reset")
	}
	w.written += len(p)
	return len(p), nil
}

type trackingCloser struct {
	io.Reader
	closed bool
}

func (c *trackingCloser) Close() error {
	c.closed = true
	return nil
}

func TestResponseWriteNoBody(t *testing.T) {
	resp := NewResponse(HTTP11, StatusNotImplemented, NewHeader("TestServer"))

	var out bytes.Buffer
	if err := resp.Write(&out); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	want := "HTTP/1.1 501 Not Implemented\r\n" +
		"Connection: close\r\n" +
		"Content-Length: 0\r\n" +
		"Server: TestServer\r\n" +
		"\r\n"
	if out.String() != want {
		t.Errorf("Expected %q, got %q", want, out.String())
	}
}

func TestResponseWriteStreamBody(t *testing.T) {
	resp := NewResponse(HTTP10, StatusOK, nil)
	resp.SetHeader(HeaderContentLength, "5")
	body := &trackingCloser{Reader: strings.NewReader("hello")}
	resp.SetBodyStream(body)

	var out bytes.Buffer
	if err := resp.Write(&out); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	s := out.String()
	if !strings.HasPrefix(s, "HTTP/1.0 200 OK\r\n") {
		t.Errorf("Unexpected status line in %q", s)
	}
	if !strings.HasSuffix(s, "\r\n\r\nhello") {
		t.Errorf("Expected body after blank line, got %q", s)
	}

	resp.Close()
	if !body.closed {
		t.Error("Expected body stream closed")
	}
}

func TestResponseWriteKeepsStaleContentLength(t *testing.T) {
	resp := NewResponse(HTTP11, StatusOK, nil)
	resp.SetHeader(HeaderContentLength, "99")
	resp.SetBodyStream(io.NopCloser(strings.NewReader("abc")))

	var out bytes.Buffer
	if err := resp.Write(&out); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	if !strings.Contains(out.String(), "Content-Length: 99\r\n") {
		t.Errorf("Content-Length must not be recomputed, got %q", out.String())
	}
}

func TestResponseWriteBodyFromPath(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "a.gif", "GIF89a")

	resp := NewResponse(HTTP11, StatusOK, nil)
	resp.SetBodyPath(files.OS{}, path)

	var out bytes.Buffer
	if err := resp.Write(&out); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	defer resp.Close()

	if !strings.HasSuffix(out.String(), "\r\n\r\nGIF89a") {
		t.Errorf("Expected file body, got %q", out.String())
	}
}

func TestResponseWriteBodyFromMissingPath(t *testing.T) {
	resp := NewResponse(HTTP11, StatusOK, nil)
	resp.SetBodyPath(openFailFS{}, "/nowhere")

	err := resp.Write(io.Discard)
	if !errors.Is(err, ErrResourceUnavailable) {
		t.Errorf("Expected ErrResourceUnavailable, got %v", err)
	}
}

func TestResponseWriteBodyFailure(t *testing.T) {
	resp := NewResponse(HTTP11, StatusOK, nil)
	resp.SetBodyStream(io.NopCloser(strings.NewReader(strings.Repeat("x", 1000))))
	defer resp.Close()

	w := &failingWriter{failAfter: 200}
	if err := resp.Write(w); err == nil {
		t.Error("Expected error when the body write fails")
	}
}

func TestResponseSetBodyReplacesSource(t *testing.T) {
	first := &trackingCloser{Reader: strings.NewReader("first")}

	resp := NewResponse(HTTP11, StatusOK, nil)
	resp.SetBodyStream(first)
	resp.SetBodyPath(files.OS{}, "/some/path")

	if !first.closed {
		t.Error("Expected replaced stream to be closed")
	}
	if !resp.HasBody() {
		t.Error("Expected path body to be set")
	}
}

func TestStatusString(t *testing.T) {
	if s := StatusNotFound.String(); s != "404 Not Found" {
		t.Errorf("Expected 404 Not Found, got %s", s)
	}
	if s := StatusInternalServerError.String(); s != "500 Internal Server Error" {
		t.Errorf("Expected 500 Internal Server Error, got %s", s)
	}
}

func TestResponseWriteUsesCopyBuffers(t *testing.T) {
	before := CopyBufferStats()

	resp := NewResponse(HTTP11, StatusOK, nil)
	resp.SetBodyStream(io.NopCloser(strings.NewReader("payload")))
	if err := resp.Write(io.Discard); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	after := CopyBufferStats()
	if after.Gets <= before.Gets {
		t.Errorf("Expected a buffer get, got %d -> %d", before.Gets, after.Gets)
	}
	if after.Puts <= before.Puts {
		t.Errorf("Expected the buffer returned, got %d -> %d", before.Puts, after.Puts)
	}
}
