package http

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/searchktools/file-server/core/files"
)

// Request is a parsed client request. It is immutable once the parser
// returns it; the local path is resolved against the server root exactly
// once, at parse time.
//
// GET and HEAD share one resolution step; GET additionally attaches the
// file as the response body.
type Request struct {
	method     Method
	rawMethod  string
	uri        string
	localPath  string
	version    Version
	header     *Header
	serverName string
}

// Method returns the resolved method. MethodUnknown means the request
// must be answered with 501 Not Implemented.
func (r *Request) Method() Method { return r.method }

// RawMethod returns the method text exactly as received
func (r *Request) RawMethod() string { return r.rawMethod }

// URI returns the request target as received, query included
func (r *Request) URI() string { return r.uri }

// LocalPath returns the file-system path the request resolves to
func (r *Request) LocalPath() string { return r.localPath }

// Version returns the protocol version of the request
func (r *Request) Version() Version { return r.version }

// Header returns a request header value
func (r *Request) Header(key string) (string, bool) {
	return r.header.Get(key)
}

// Resolve produces the response for the request. HEAD never carries a
// body. GET carries the file as its body when the status is OK; a file
// that exists but cannot be opened fails with ErrResourceUnavailable.
func (r *Request) Resolve(fsys files.FileSystem) (*Response, error) {
	switch r.method {
	case MethodHead:
		return r.resolveHead(fsys), nil
	case MethodGet:
		return r.resolveGet(fsys)
	default:
		return nil, errors.Wrapf(ErrNotImplemented, "method %q", r.rawMethod)
	}
}

func (r *Request) resolveHead(fsys files.FileSystem) *Response {
	info, ok := files.IsRegularFile(fsys, r.localPath)
	if !ok {
		return NewResponse(HTTP11, StatusNotFound, NewHeader(r.serverName))
	}

	resp := NewResponse(HTTP11, StatusOK, NewHeader(r.serverName))
	resp.SetHeader(HeaderContentLength, strconv.FormatInt(info.Size(), 10))
	resp.SetHeader(HeaderContentType, files.ContentType(r.localPath))

	return resp
}

func (r *Request) resolveGet(fsys files.FileSystem) (*Response, error) {
	resp := r.resolveHead(fsys)
	if resp.Status != StatusOK {
		return resp, nil
	}

	body, err := fsys.Open(r.localPath)
	if err != nil {
		return nil, errors.Wrapf(ErrResourceUnavailable, "open %s: %v", r.localPath, err)
	}
	resp.SetBodyStream(body)

	return resp, nil
}
