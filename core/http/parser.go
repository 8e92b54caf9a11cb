package http

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

// MaxLineSize bounds a single request or header line
const MaxLineSize = 64 * 1024

// Parser turns a raw request stream into a Request rooted at Root
type Parser struct {
	Root       string
	ServerName string
}

// NewParser creates a parser for files under root
func NewParser(root, serverName string) *Parser {
	return &Parser{Root: root, ServerName: serverName}
}

// ParseRequest parses a request with the default server name
func ParseRequest(r io.Reader, root string) (*Request, error) {
	return NewParser(root, DefaultServerName).Parse(r)
}

// Parse reads the request line and header block from r.
//
// A version other than HTTP/1.0 or HTTP/1.1 fails with
// ErrUnsupportedVersion. An unknown method does not fail: the request is
// returned with MethodUnknown and it is up to the caller to answer 501.
// Read errors from r are returned as-is (wrapped) and are not parse errors.
func (p *Parser) Parse(r io.Reader) (*Request, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), MaxLineSize)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, readError(err, ErrMalformedRequestLine, "read request line")
		}
		return nil, ErrEmptyRequest
	}

	line := sc.Text()
	if line == "" {
		return nil, ErrEmptyRequest
	}

	tokens := splitRequestLine(line)
	if len(tokens) != 3 {
		return nil, errors.Wrapf(ErrMalformedRequestLine, "%d tokens in %q", len(tokens), line)
	}
	rawMethod, uri, rawVersion := tokens[0], tokens[1], tokens[2]

	req := &Request{
		rawMethod:  rawMethod,
		uri:        uri,
		localPath:  BuildPath(p.Root, TrimQuery(uri)),
		header:     NewHeader(p.ServerName),
		serverName: p.ServerName,
	}

	for sc.Scan() {
		hl := sc.Text()
		if hl == "" {
			break
		}
		if err := req.header.AddRaw(hl); err != nil {
			return nil, &requestError{kind: ErrMalformedRequest, cause: err}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, readError(err, ErrMalformedRequest, "read headers")
	}

	version, ok := ParseVersion(rawVersion)
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedVersion, "%q", rawVersion)
	}
	req.version = version
	req.method = ParseMethod(rawMethod)

	return req, nil
}

// readError classifies a scanner failure. An over-long line is the client's
// fault and maps to kind; anything else is a transport error.
func readError(err, kind error, msg string) error {
	if errors.Is(err, bufio.ErrTooLong) {
		return &requestError{kind: kind, cause: err}
	}
	return errors.Wrap(err, msg)
}

// requestError reports a parse failure of class kind caused by cause.
// errors.Is matches both.
type requestError struct {
	kind  error
	cause error
}

func (e *requestError) Error() string { return e.kind.Error() + ": " + e.cause.Error() }

func (e *requestError) Is(target error) bool { return target == e.kind }

func (e *requestError) Unwrap() error { return e.cause }
