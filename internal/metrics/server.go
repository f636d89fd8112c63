package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// ReadyFunc reports whether the economy API is reachable.
type ReadyFunc func(ctx context.Context) bool

type Server struct {
	srv *http.Server
	log zerolog.Logger
}

// NewServer builds the metrics and health endpoints:
//
//	GET /metrics  prometheus exposition
//	GET /healthz  process liveness
//	GET /readyz   economy API reachability (503 when down)
func NewServer(addr string, ready ReadyFunc, logger zerolog.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           Router(ready),
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: logger,
	}
}

// Router returns the mux used by Server, exposed for tests.
func Router(ready ReadyFunc) http.Handler {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "ok")
	}).Methods(http.MethodGet)
	r.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if ready != nil && !ready(r.Context()) {
			writeStatus(w, http.StatusServiceUnavailable, "economy api unreachable")
			return
		}
		writeStatus(w, http.StatusOK, "ok")
	}).Methods(http.MethodGet)
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.srv.Addr).Msg("metrics server listening")
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}

func writeStatus(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(`{"status":"` + msg + `"}`))
}
