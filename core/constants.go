package core

import "github.com/pkg/errors"

// Error definitions
var (
	ErrServerStopped = errors.New("server stopped")
	ErrSocketClose   = errors.New("failed to close listening socket")
)
