//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package netutil

import "github.com/pkg/errors"

func setSockopts(fd uintptr, opts Options) error {
	if opts.ReusePort {
		return errors.New("SO_REUSEPORT is not supported on this platform")
	}
	return nil
}
