package server

import (
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/zeusync/tiltmaze/internal/core/observability/log"
)

// handleWebSocket upgrades GET /ws?level=<n>&encoding=json|msgpack and runs
// a session until either side hangs up.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if atomic.LoadInt32(&s.closed) == 1 {
		http.Error(w, ErrServerClosed.Error(), http.StatusServiceUnavailable)
		return
	}

	query := r.URL.Query()

	startLevel := 0
	if raw := query.Get("level"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "level must be an integer", http.StatusBadRequest)
			return
		}
		startLevel = n
	}

	enc := s.config.Encoding
	if raw := query.Get("encoding"); raw != "" {
		parsed, err := ParseEncoding(raw)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		enc = parsed
	}
	codec, err := NewCodec(enc)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if int(atomic.AddInt64(&s.sessionCount, 1)) > s.config.MaxClients {
		atomic.AddInt64(&s.sessionCount, -1)
		s.logger.Warn("Maximum clients reached, rejecting connection", log.String("remote_addr", r.RemoteAddr))
		http.Error(w, ErrMaxClientsReached.Error(), http.StatusServiceUnavailable)
		return
	}
	defer atomic.AddInt64(&s.sessionCount, -1)

	if !s.trackSession() {
		http.Error(w, ErrServerClosed.Error(), http.StatusServiceUnavailable)
		return
	}
	defer s.sessionWG.Done()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Websocket upgrade failed", log.Error(err))
		return
	}

	id := uuid.NewString()
	sess, err := newSession(s, id, conn, codec, startLevel)
	if err != nil {
		s.logger.Error("Failed to create session", log.Error(err))
		_ = conn.Close()
		return
	}

	started := time.Now()
	s.logger.Info("Client connected",
		log.String("session_id", id),
		log.String("remote_addr", r.RemoteAddr),
		log.String("encoding", string(codec.Encoding())),
		log.Int64("total_clients", atomic.LoadInt64(&s.sessionCount)))

	if err := sess.run(s.sessionCtx); err != nil {
		s.logger.Warn("Session ended with error", log.String("session_id", id), log.Error(err))
	}

	s.logger.Info("Client disconnected",
		log.String("session_id", id),
		log.Duration("duration", time.Since(started)))
}
