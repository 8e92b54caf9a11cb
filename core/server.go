package core

import (
	"net"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/searchktools/file-server/core/files"
	"github.com/searchktools/file-server/core/http"
	"github.com/searchktools/file-server/core/observability"
	"github.com/searchktools/file-server/core/pools"
)

// Pool runs connection workers. Submit may block while the pool is
// saturated.
type Pool interface {
	Submit(task pools.Task) error
	Shutdown()
}

// Options configures a Server
type Options struct {
	// Root is the directory requests are resolved against
	Root string

	// ServerName is sent in the Server header
	ServerName string

	// FileSystem defaults to the operating system
	FileSystem files.FileSystem

	Logger  zerolog.Logger
	Monitor *observability.Monitor

	// ReadTimeout and WriteTimeout set per-connection deadlines when
	// positive. Zero means no deadline.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server owns a listening socket and a worker pool. It accepts
// connections in Run and hands each one to the pool. Stop closes the
// socket, which makes the blocked Accept fail and Run return.
type Server struct {
	ln   net.Listener
	pool Pool

	parser  *http.Parser
	fsys    files.FileSystem
	logger  zerolog.Logger
	monitor *observability.Monitor

	readTimeout  time.Duration
	writeTimeout time.Duration

	running  atomic.Bool
	stopped  atomic.Bool
	requests atomic.Uint64
}

// NewServer creates a stopped server. It takes ownership of ln and pool
// and releases both in Stop.
func NewServer(ln net.Listener, pool Pool, opts Options) *Server {
	if opts.FileSystem == nil {
		opts.FileSystem = files.OS{}
	}
	if opts.ServerName == "" {
		opts.ServerName = http.DefaultServerName
	}
	if opts.Monitor == nil {
		opts.Monitor = observability.NewMonitor()
	}

	return &Server{
		ln:           ln,
		pool:         pool,
		parser:       http.NewParser(opts.Root, opts.ServerName),
		fsys:         opts.FileSystem,
		logger:       opts.Logger.With().Str("component", "server").Logger(),
		monitor:      opts.Monitor,
		readTimeout:  opts.ReadTimeout,
		writeTimeout: opts.WriteTimeout,
	}
}

// Run accepts connections until Stop is called or Accept fails.
//
// An Accept failure while running stops the server and is returned. A
// failure caused by Stop closing the socket is expected and swallowed.
// Run on a server that was already stopped, or that is already running,
// returns ErrServerStopped.
func (s *Server) Run() error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrServerStopped
	}
	if s.stopped.Load() {
		s.running.Store(false)
		return ErrServerStopped
	}

	s.logger.Info().Str("addr", s.ln.Addr().String()).Msg("accepting connections")

	for s.running.Load() {
		conn, err := s.ln.Accept()
		if err != nil {
			if !s.running.Load() || s.stopped.Load() {
				s.logger.Debug().Err(err).Msg("accept interrupted by stop")
				break
			}

			s.logger.Error().Err(err).Msg("accept failed, stopping server")
			if stopErr := s.Stop(); stopErr != nil {
				s.logger.Error().Err(stopErr).Msg("stop after accept failure")
			}
			return errors.Wrap(err, "accept")
		}

		if !s.running.Load() {
			conn.Close()
			break
		}

		n := s.requests.Add(1)
		s.logger.Debug().Uint64("request", n).Str("remote", conn.RemoteAddr().String()).Msg("dispatching connection")

		w := s.newConnWorker(conn, n)
		if err := s.pool.Submit(w.Serve); err != nil {
			s.logger.Warn().Err(err).Uint64("request", n).Msg("pool rejected connection")
			w.close()
		}
	}

	s.running.Store(false)
	s.logger.Info().Uint64("requests", s.requests.Load()).Msg("stopped accepting connections")
	return nil
}

// Stop flips the server to stopped, closes the listening socket and shuts
// down the pool. The pool is shut down even when closing the socket
// fails; that failure is returned wrapped in ErrSocketClose. Stop may be
// called from any goroutine and more than once.
func (s *Server) Stop() (err error) {
	s.stopped.Store(true)
	s.running.Store(false)

	defer s.pool.Shutdown()

	if cerr := s.ln.Close(); cerr != nil && !errors.Is(cerr, net.ErrClosed) {
		s.logger.Warn().Err(cerr).Msg("close listening socket")
		return errors.Wrapf(ErrSocketClose, "%v", cerr)
	}
	return nil
}

// Running reports whether the accept loop is active
func (s *Server) Running() bool {
	return s.running.Load()
}

// RequestsProcessed returns the number of connections accepted so far
func (s *Server) RequestsProcessed() uint64 {
	return s.requests.Load()
}

// Addr returns the listening address
func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}
