// Package web serves the process liveness endpoint. It reports only that the
// process is up; it never touches ledger state.
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Server is a minimal HTTP responder for health checks.
type Server struct {
	srv       *http.Server
	log       zerolog.Logger
	startTime time.Time
}

// NewServer creates a health server listening on addr.
func NewServer(addr string, logger zerolog.Logger) *Server {
	s := &Server{
		log:       logger,
		startTime: time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/", s.handleHealth)

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Start runs the listener in the background.
func (s *Server) Start() {
	s.log.Info().Str("addr", s.srv.Addr).Msg("Health endpoint listening")
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error().Err(err).Msg("Health endpoint failed")
		}
	}()
}

// Shutdown stops the listener gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(s.startTime).Seconds()),
		"timestamp":      time.Now().Unix(),
	})
}
