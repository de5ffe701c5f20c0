package server

import (
	"errors"
	"io"
	"log"
	"net"

	"github.com/dchest/uniuri"
	"github.com/indigo-web/weaprous/config"
	"github.com/indigo-web/weaprous/dispatcher"
	"github.com/indigo-web/weaprous/http"
	"github.com/indigo-web/weaprous/http/status"
	"github.com/indigo-web/weaprous/internal/parser/http1"
	serializer "github.com/indigo-web/weaprous/internal/protocol/http1"
	"github.com/indigo-web/weaprous/internal/timer"
	"github.com/indigo-web/weaprous/transport"
)

// Outcome is the branch a request-response cycle took.
type Outcome uint8

const (
	// Discarded means the connection failed before a request was received, so nothing
	// was responded.
	Discarded Outcome = iota
	// Rejected means the request was refused while being read, e.g. for being too large.
	Rejected
	// ParseFailed means the request line was malformed.
	ParseFailed
	// RouteUnmatched means no handler is registered for the request.
	RouteUnmatched
	// RouteMatched means the handler was invoked.
	RouteMatched
)

func (o Outcome) String() string {
	switch o {
	case Discarded:
		return "discarded"
	case Rejected:
		return "rejected"
	case ParseFailed:
		return "parse failed"
	case RouteUnmatched:
		return "route unmatched"
	case RouteMatched:
		return "route matched"
	default:
		return "unknown"
	}
}

// Server runs request-response cycles. A single instance serves all the connections
// concurrently, as it holds no per-connection state.
type Server struct {
	cfg        *config.Config
	parser     *http1.Parser
	dispatcher *dispatcher.Dispatcher
	logger     *log.Logger
}

func New(cfg *config.Config, routes http1.Resolver, logger *log.Logger) *Server {
	return &Server{
		cfg:        cfg,
		parser:     http1.NewParser(cfg.Path, routes),
		dispatcher: dispatcher.New(logger),
		logger:     logger,
	}
}

// Serve receives a single request, dispatches it and writes the response back. The
// connection is left open, closing it is up to the caller.
func (s *Server) Serve(conn net.Conn) Outcome {
	id := uniuri.NewLen(8)

	raw, err := transport.ReadRequest(conn, s.cfg.NET)
	if err != nil {
		var httpErr status.HTTPError
		if !errors.As(err, &httpErr) {
			if !errors.Is(err, io.EOF) {
				s.logger.Printf("weaprous: [%s] %s: discarding connection: %s", id, conn.RemoteAddr(), err)
			}

			return Discarded
		}

		s.logger.Printf("weaprous: [%s] %s: rejecting request: %s", id, conn.RemoteAddr(), err)
		s.respond(conn, id, serializer.DefaultProtocol, http.Error(err))
		return Rejected
	}

	request := s.parser.Parse(raw)
	request.ID, request.Remote = id, conn.RemoteAddr()

	outcome := RouteMatched
	switch {
	case request.Malformed():
		outcome = ParseFailed
	case !request.Matched():
		outcome = RouteUnmatched
	}

	response := s.dispatcher.Dispatch(request)
	code := s.respond(conn, id, request.Version, response)
	s.logger.Printf(
		"weaprous: [%s] %s %s %s -> %d (%s)",
		id, request.Remote, request.Method, request.Path, code, outcome,
	)

	return outcome
}

func (s *Server) respond(conn net.Conn, id, version string, response *http.Response) status.Code {
	data := serializer.NewSerializer(make([]byte, 0, s.cfg.NET.ReadBufferSize)).Serialize(version, response)

	if err := conn.SetWriteDeadline(timer.Deadline(s.cfg.NET.WriteTimeout)); err != nil {
		s.logger.Printf("weaprous: [%s] setting write deadline: %s", id, err)
	}

	if _, err := conn.Write(data); err != nil {
		s.logger.Printf("weaprous: [%s] writing response: %s", id, err)
	}

	return response.Expose().Code
}
