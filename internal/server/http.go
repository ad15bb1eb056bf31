package server

import (
	"encoding/json"
	"net/http"

	"github.com/zeusync/tiltmaze/internal/core/observability/log"
)

// Handler routes /ws, /healthz and /levels.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /levels", s.handleLevels)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleLevels(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.catalog.Summaries()); err != nil {
		s.logger.Warn("Failed to write level list", log.Error(err))
	}
}
