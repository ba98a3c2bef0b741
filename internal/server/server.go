// Package server provides the HTTP server for the mudra transcription app.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/server/api"
	"github.com/ayusman/mudra/internal/session"
)

// App is the session surface the server needs beyond the REST controller.
type App interface {
	api.Controller
	Subscribe() (<-chan session.Change, func())
	Latest() *detector.Frame
}

// FrameSource provides the most recent JPEG-encoded preview frame.
type FrameSource interface {
	Latest() []byte
}

// Config holds the server configuration.
type Config struct {
	StaticDir string
	App       App
	Stream    FrameSource
	Metrics   bool
}

// Server represents the HTTP server for the mudra application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
	events *EventsHandler
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	guides := api.NewGuideHandler()
	s.mux.Handle("/api/guides", guides)
	s.mux.Handle("/api/guides/", guides)

	if s.config.App != nil {
		sessionHandler := api.NewSessionHandler(s.config.App)
		s.mux.Handle("/api/session", sessionHandler)
		s.mux.Handle("/api/session/", sessionHandler)

		transcriptHandler := api.NewTranscriptHandler(s.config.App)
		s.mux.Handle("/api/transcript", transcriptHandler)
		s.mux.Handle("/api/transcript/", transcriptHandler)

		s.mux.Handle("/api/video", api.NewVideoHandler(s.config.App))
		s.mux.Handle("/api/recordings", api.NewRecordingsHandler(s.config.App))

		s.events = NewEventsHandler(s.config.App)
		s.mux.Handle("/api/events", s.events)
	}

	if s.config.Stream != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Stream))
	}

	if s.config.Metrics {
		s.mux.Handle("/metrics", promhttp.Handler())
	}

	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}
	if s.config.App != nil {
		response["session"] = s.config.App.Snapshot().Status
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}

// Close disconnects event clients. It does not stop a running listener.
func (s *Server) Close() {
	if s.events != nil {
		s.events.Close()
	}
}
