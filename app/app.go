package app

import (
	"bufio"
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/searchktools/file-server/config"
	"github.com/searchktools/file-server/core"
	"github.com/searchktools/file-server/core/netutil"
	"github.com/searchktools/file-server/core/pools"
)

// ShutdownTimeout bounds how long Run waits for in-flight connections
const ShutdownTimeout = 10 * time.Second

// App wires configuration, listening socket, worker pool and server
type App struct {
	cfg    *config.Config
	logger zerolog.Logger
	stdin  io.Reader
}

// New creates an application instance
func New(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: logger,
		stdin:  os.Stdin,
	}
}

// NewLogger builds the process logger: console output in development,
// JSON otherwise.
func NewLogger(cfg *config.Config, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if cfg.Env == "development" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Run starts serving and blocks until a signal arrives, Enter is pressed
// (with -stdin-stop), ctx is cancelled, or the accept loop fails.
func (a *App) Run(ctx context.Context) error {
	ln, err := netutil.Listen(ctx, a.cfg.Addr(), netutil.Options{
		ReusePort: a.cfg.ReusePort,
		KeepAlive: a.cfg.KeepAlive,
	})
	if err != nil {
		return err
	}

	pool := pools.NewWorkerPool(a.cfg.MaxThreads).
		WithLogger(a.logger.With().Str("component", "pool").Logger())
	server := core.NewServer(ln, pool, core.Options{
		Root:         a.cfg.Root,
		ServerName:   a.cfg.ServerName,
		Logger:       a.logger,
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
	})

	a.logger.Info().
		Str("addr", server.Addr().String()).
		Str("root", a.cfg.Root).
		Int("max_threads", a.cfg.MaxThreads).
		Str("env", a.cfg.Env).
		Msg("server started")

	runErr := make(chan error, 1)
	go func() {
		runErr <- server.Run()
	}()

	select {
	case err := <-runErr:
		a.logger.Error().Err(err).Msg("server stopped unexpectedly")
		a.drain(pool)
		return err
	case reason := <-a.awaitStop(ctx):
		a.logger.Info().
			Str("reason", reason).
			Uint64("requests", server.RequestsProcessed()).
			Msg("stopping server")
	}

	stopErr := server.Stop()
	if err := <-runErr; err != nil && stopErr == nil {
		stopErr = err
	}
	a.drain(pool)

	a.logger.Info().Uint64("requests", server.RequestsProcessed()).Msg("exiting")
	a.logger.Debug().Msg(server.StatsJSON())

	return errors.Wrap(stopErr, "stop server")
}

func (a *App) drain(pool *pools.WorkerPool) {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := pool.Wait(ctx); err != nil {
		a.logger.Warn().Err(err).Msg("in-flight connections still running at exit")
	}
}

// awaitStop delivers the reason the application should stop
func (a *App) awaitStop(ctx context.Context) <-chan string {
	stop := make(chan string, 3)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-quit:
			stop <- "signal " + sig.String()
		case <-ctx.Done():
			stop <- "context done"
		}
		signal.Stop(quit)
	}()

	if a.cfg.StdinStop {
		a.logger.Info().Msg("press <Enter> to stop the server")
		go func() {
			bufio.NewReader(a.stdin).ReadString('\n')
			stop <- "stdin"
		}()
	}

	return stop
}
