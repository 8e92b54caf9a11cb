package core

import (
	"io"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/searchktools/file-server/core/files"
	"github.com/searchktools/file-server/core/http"
	"github.com/searchktools/file-server/core/observability"
)

// connWorker owns one accepted connection for its whole life:
// parse, resolve, write, close.
type connWorker struct {
	conn    net.Conn
	parser  *http.Parser
	fsys    files.FileSystem
	logger  zerolog.Logger
	monitor *observability.Monitor

	readTimeout  time.Duration
	writeTimeout time.Duration

	closeOnce sync.Once
}

func (s *Server) newConnWorker(conn net.Conn, n uint64) *connWorker {
	return &connWorker{
		conn:    conn,
		parser:  s.parser,
		fsys:    s.fsys,
		monitor: s.monitor,
		logger: s.logger.With().
			Str("component", "conn").
			Uint64("request", n).
			Str("remote", conn.RemoteAddr().String()).
			Logger(),
		readTimeout:  s.readTimeout,
		writeTimeout: s.writeTimeout,
	}
}

// Serve handles the connection and closes it. It is the task submitted to
// the worker pool.
func (w *connWorker) Serve() {
	start := time.Now()
	defer w.close()

	if w.readTimeout > 0 {
		if err := w.conn.SetReadDeadline(start.Add(w.readTimeout)); err != nil {
			w.logger.Warn().Err(err).Msg("set read deadline")
		}
	}
	if w.writeTimeout > 0 {
		if err := w.conn.SetWriteDeadline(start.Add(w.writeTimeout)); err != nil {
			w.logger.Warn().Err(err).Msg("set write deadline")
		}
	}

	label, err := w.handle(w.conn, w.conn)
	if err != nil {
		w.logger.Error().Err(err).Msg("dropping connection without response")
		label = "dropped"
	}
	w.monitor.RecordRequest(label, time.Since(start), err != nil)
}

// handle reads one request from r and writes its response to w. It
// returns a metrics label, or an error when the request failed for a
// reason other than a parse failure. In that case nothing more is written.
func (w *connWorker) handle(r io.Reader, out io.Writer) (string, error) {
	req, err := w.parser.Parse(r)
	if err != nil {
		if !http.IsParseError(err) {
			return "", err
		}
		w.logger.Warn().Err(err).Msg("bad request")
		return "400", w.writeStatus(out, http.StatusBadRequest)
	}

	log := w.logger.With().Str("method", req.RawMethod()).Str("uri", req.URI()).Logger()

	if req.Method() == http.MethodUnknown {
		log.Warn().Msg("method not implemented")
		// raw method text is client controlled, keep the label fixed
		return http.MethodUnknown.String() + " 501", w.writeStatus(out, http.StatusNotImplemented)
	}

	log.Debug().Str("path", req.LocalPath()).Msg("resolving")

	resp, err := req.Resolve(w.fsys)
	if err != nil {
		return "", err
	}
	defer resp.Close()

	if err := resp.Write(out); err != nil {
		return "", err
	}

	log.Info().Int("status", resp.Status.Code).Msg("served")
	return req.Method().String() + " " + strconv.Itoa(resp.Status.Code), nil
}

// writeStatus writes a body-less response carrying only the default headers
func (w *connWorker) writeStatus(out io.Writer, status http.Status) error {
	resp := http.NewResponse(http.HTTP11, status, http.NewHeader(w.parser.ServerName))
	return resp.Write(out)
}

func (w *connWorker) close() {
	w.closeOnce.Do(func() {
		if err := w.conn.Close(); err != nil {
			w.logger.Error().Err(err).Msg("close connection")
		}
	})
}
