// Package api serves gallery computations over HTTP.
//
// Routes:
//
//	GET  /healthz                       liveness probe
//	GET  /v1/layout?width=&height=&count=   solved layout, crops and rects
//	GET  /v1/panner?width=&height=&count=   Panner values for one count
//	GET  /v1/panner/range?width=&height=&max=  Panner values for 1..max
//	POST /v1/relay                      trigger an OSC fan-out
//
// Width and height default to 1920x1080; count defaults to 1. Errors are
// JSON objects carrying the error code:
//
//	{"error": {"code": "INVALID_DIMENSION", "message": "..."}}
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	cerrors "github.com/matzehuels/cropsy/pkg/errors"
	"github.com/matzehuels/cropsy/pkg/pipeline"
	"github.com/matzehuels/cropsy/pkg/relay"
)

// DefaultAddr is the default HTTP listen address.
const DefaultAddr = "127.0.0.1:8080"

const shutdownTimeout = 5 * time.Second

// Server exposes a pipeline runner and, optionally, a relay over HTTP.
type Server struct {
	runner *pipeline.Runner
	relay  *relay.Relay
	logger *log.Logger
}

// New creates a server. rel may be nil, in which case POST /v1/relay
// answers 503.
func New(runner *pipeline.Runner, rel *relay.Relay, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, nil, logger)
	}
	return &Server{runner: runner, relay: rel, logger: logger}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/layout", s.handleLayout)
		r.Get("/panner", s.handlePanner)
		r.Get("/panner/range", s.handlePannerRange)
		r.Post("/relay", s.handleRelay)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, cerrors.New(cerrors.ErrCodeInvalidInput, "no route for %s %s", r.Method, r.URL.Path), http.StatusNotFound)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("http api listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return cerrors.Wrap(cerrors.ErrCodeNetwork, err, "http listen on %s", addr)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errc
		return nil
	}
}
