// Package netutil opens the server's listening socket
package netutil

import (
	"context"
	"net"
	"syscall"
	"time"

	"github.com/pkg/errors"
)

// Options controls the listening socket
type Options struct {
	// ReusePort sets SO_REUSEPORT so several processes can share the port
	ReusePort bool

	// KeepAlive is the TCP keep-alive period of accepted connections.
	// Zero keeps the Go default, negative disables keep-alives.
	KeepAlive time.Duration
}

// Listen opens a TCP listener on addr
func Listen(ctx context.Context, addr string, opts Options) (net.Listener, error) {
	lc := net.ListenConfig{
		KeepAlive: opts.KeepAlive,
		Control: func(network, address string, c syscall.RawConn) error {
			var sockErr error
			err := c.Control(func(fd uintptr) {
				sockErr = setSockopts(fd, opts)
			})
			if err != nil {
				return err
			}
			return sockErr
		},
	}

	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "listen on %s", addr)
	}
	return ln, nil
}
