// Package api serves the REST surface consumed by the web frontend: video
// analysis, chat, timestamp extraction, visual search, PDF export, and the
// analysis history, plus health and metrics endpoints.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gorilla/mux"
)

// Config holds the REST server settings.
type Config struct {
	Port          int
	AllowedOrigin string
	Version       string
}

// Server is the REST API server.
type Server struct {
	config     Config
	httpServer *http.Server
	router     *mux.Router
	handlers   *Handlers
}

// NewServer creates the REST server and wires all routes.
func NewServer(config Config) *Server {
	s := &Server{
		config:   config,
		router:   mux.NewRouter(),
		handlers: NewHandlers(config.Version),
	}
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:        fmt.Sprintf(":%d", config.Port),
		Handler:     corsMiddleware(config.AllowedOrigin, recoveryMiddleware(s.router)),
		ReadTimeout: 15 * time.Second,
		// Gemini video analysis can run for minutes on long videos.
		WriteTimeout: 600 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.handlers.Health).Methods("GET")
	s.router.HandleFunc("/metrics", s.handlers.Metrics).Methods("GET")
	s.router.HandleFunc("/analyze_video", s.handlers.AnalyzeVideo).Methods("POST")
	s.router.HandleFunc("/video_timestamps", s.handlers.VideoTimestamps).Methods("POST")
	s.router.HandleFunc("/chat", s.handlers.Chat).Methods("POST")
	s.router.HandleFunc("/visual_search", s.handlers.VisualSearch).Methods("POST")
	s.router.HandleFunc("/download_summary_pdf", s.handlers.DownloadSummaryPDF).Methods("POST")
	s.router.HandleFunc("/history", s.handlers.HistoryList).Methods("GET")
	s.router.HandleFunc("/history/{video_id}", s.handlers.HistoryGet).Methods("GET")
	s.router.HandleFunc("/history/{video_id}", s.handlers.HistoryDelete).Methods("DELETE")
}

// Start begins listening and blocks until the server stops.
func (s *Server) Start() error {
	slog.Info("REST API listening", slog.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("api server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// recoveryMiddleware converts handler panics into JSON 500 responses.
func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("handler panic",
					slog.Any("panic", rec),
					slog.String("path", r.URL.Path),
					slog.String("stack", string(debug.Stack())))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
					"success": false,
					"error":   "Internal server error",
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware allows the configured frontend origin and answers
// preflight requests.
func corsMiddleware(origin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
