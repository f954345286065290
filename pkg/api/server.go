package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/imbecility/yt-resolver/pkg/gateway"
	"github.com/imbecility/yt-resolver/pkg/models"
)

type Server struct {
	Gateway *gateway.Service

	srv *http.Server
}

func NewServer(gw *gateway.Service, cfg gateway.ServerConfig) *Server {
	s := &Server{Gateway: gw}
	s.srv = &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:           s.Handler(),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
	return s
}

// Handler returns the routed mux wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/resolve", s.handleResolve)
	mux.HandleFunc("/api/download", s.handleResolve)
	mux.HandleFunc("/proxy", s.handleProxy)
	mux.HandleFunc("/api/proxy", s.handleProxy)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.Handle("/metrics", s.Gateway.Metrics.Handler())

	var h http.Handler = mux
	h = withCORS(h)
	h = withLogging(h, s.Gateway)
	h = withRequestID(h)
	h = withRecovery(h)
	return h
}

// Start blocks until the server stops. http.ErrServerClosed is not an error.
func (s *Server) Start() error {
	slog.Info("Starting API server", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen %s: %w", s.srv.Addr, err)
	}
	return nil
}

// Shutdown waits for in-flight requests, including proxy relays, until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down API server")
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !allowGET(w, r) {
		return
	}
	respondJSON(w, http.StatusOK, models.HealthResponse{
		Status:    "OK",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// allowGET answers preflight and rejected methods. It reports whether the
// handler should continue.
func allowGET(w http.ResponseWriter, r *http.Request) bool {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		return true
	case http.MethodOptions:
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.WriteHeader(http.StatusOK)
		return false
	default:
		w.Header().Set("Allow", "GET, OPTIONS")
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return false
	}
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	jerr := json.NewEncoder(w).Encode(data)
	if jerr != nil {
		slog.Error("JSON encoding failed", "error", jerr)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, models.APIError{Success: false, Error: msg})
}
