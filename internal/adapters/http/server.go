// Package http exposes the message protocol over HTTP for hosts that bridge
// the presentation layer through a local server instead of stdio.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/runner"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server handles protocol envelopes over HTTP.
type Server struct {
	dispatcher *runner.Dispatcher
	logger     *slog.Logger
}

// NewHandler creates the HTTP handler: POST /message takes one envelope and
// returns the emitted envelopes as a JSON array; /metrics serves Prometheus.
func NewHandler(dispatcher *runner.Dispatcher, logger *slog.Logger) http.Handler {
	s := &Server{dispatcher: dispatcher, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Post("/message", s.handleMessage)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var env domain.Envelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	replies, done := s.dispatcher.Dispatch(r.Context(), env)
	if replies == nil {
		replies = []domain.Envelope{}
	}
	if done {
		s.logger.Debug("cancel received over http")
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(replies); err != nil {
		s.logger.Error("failed to encode response", "err", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
