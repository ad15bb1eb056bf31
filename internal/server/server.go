package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/zeusync/tiltmaze/internal/core/game"
	"github.com/zeusync/tiltmaze/internal/core/level"
	"github.com/zeusync/tiltmaze/internal/core/observability/log"
)

// Server hosts tilt-maze sessions over websocket. Every connection gets its
// own game.
type Server struct {
	config     Config
	gameConfig game.Config
	catalog    *level.Catalog
	logger     log.Log
	upgrader   websocket.Upgrader

	// Session management
	sessionCount int64      // atomic
	sessionMu    sync.Mutex // guards draining against sessionWG.Add
	draining     bool
	sessionWG    sync.WaitGroup
	sessionCtx   context.Context
	stopSessions context.CancelFunc

	// Server state
	running int32 // atomic bool
	closed  int32 // atomic bool

	httpServer *http.Server
	listener   net.Listener
	group      *errgroup.Group
}

// Config holds server configuration
type Config struct {
	ListenAddr   string
	MaxClients   int
	TickRate     int   // game ticks per second per session
	ReadLimit    int64 // max client message size in bytes
	WriteTimeout time.Duration
	Encoding     Encoding // used when the client does not pick one
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() Config {
	return Config{
		ListenAddr:   "127.0.0.1:8080",
		MaxClients:   1000,
		TickRate:     60,
		ReadLimit:    4096,
		WriteTimeout: 5 * time.Second,
		Encoding:     EncodingJSON,
	}
}

func (c Config) Validate() error {
	var errs []error
	if c.ListenAddr == "" {
		errs = append(errs, fmt.Errorf("%w: empty listen address", ErrInvalidConfig))
	}
	if c.MaxClients <= 0 {
		errs = append(errs, fmt.Errorf("%w: max clients must be positive", ErrInvalidConfig))
	}
	if c.TickRate <= 0 || c.TickRate > 1000 {
		errs = append(errs, fmt.Errorf("%w: tick rate %d out of range", ErrInvalidConfig, c.TickRate))
	}
	if _, err := NewCodec(c.Encoding); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidConfig, err))
	}
	return errors.Join(errs...)
}

// NewServer creates a new tilt-maze server
func NewServer(config Config, gameConfig game.Config, catalog *level.Catalog, logger log.Log) *Server {
	if logger == nil {
		logger = log.NewNop()
	}
	defaults := DefaultServerConfig()
	if config.TickRate <= 0 {
		config.TickRate = defaults.TickRate
	}
	if config.MaxClients <= 0 {
		config.MaxClients = defaults.MaxClients
	}
	if config.Encoding == "" {
		config.Encoding = defaults.Encoding
	}

	ctx, cancel := context.WithCancel(context.Background())
	server := &Server{
		config:       config,
		gameConfig:   gameConfig,
		catalog:      catalog,
		logger:       logger.With(log.String("component", "server")),
		upgrader:     websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024},
		sessionCtx:   ctx,
		stopSessions: cancel,
	}

	server.logger.Info("Server created",
		log.String("listen_addr", config.ListenAddr),
		log.Int("tick_rate", config.TickRate),
		log.Int("levels", catalog.Len()))

	return server
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	if atomic.LoadInt32(&s.closed) == 1 {
		return ErrServerClosed
	}
	if !atomic.CompareAndSwapInt32(&s.running, 0, 1) {
		return ErrServerAlreadyRunning
	}

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.config.ListenAddr)
	if err != nil {
		atomic.StoreInt32(&s.running, 0)
		s.logger.Error("Failed to create listener", log.Error(err))
		return fmt.Errorf("%w: %w", ErrListenerFailed, err)
	}

	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.group = &errgroup.Group{}
	s.group.Go(func() error {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server failed", log.Error(err))
			return err
		}
		return nil
	})

	s.logger.Info("Server listening", log.String("addr", listener.Addr().String()))
	return nil
}

// Run starts the server and blocks until ctx is done, then stops it.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.Stop(stopCtx)
}

// Addr is the bound listener address, nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop stops the server and ends every session.
func (s *Server) Stop(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&s.running, 1, 0) {
		return ErrServerNotRunning
	}

	s.logger.Info("Stopping server")

	err := s.httpServer.Shutdown(ctx)
	s.drain()
	err = errors.Join(err, s.group.Wait())

	s.logger.Info("Server stopped")
	return err
}

// Close closes the server and releases all resources
func (s *Server) Close() error {
	if !atomic.CompareAndSwapInt32(&s.closed, 0, 1) {
		return nil
	}

	if atomic.LoadInt32(&s.running) == 1 {
		_ = s.Stop(context.Background())
	}
	s.drain()
	s.logger.Info("Server closed")
	return nil
}

// trackSession registers a new session unless the server is draining.
func (s *Server) trackSession() bool {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()
	if s.draining {
		return false
	}
	s.sessionWG.Add(1)
	return true
}

// drain refuses new sessions, ends the running ones and waits for them.
func (s *Server) drain() {
	s.sessionMu.Lock()
	s.draining = true
	s.sessionMu.Unlock()

	s.stopSessions()
	s.sessionWG.Wait()
}

// GetStats returns server statistics
func (s *Server) GetStats() Stats {
	return Stats{
		SessionCount: atomic.LoadInt64(&s.sessionCount),
		Levels:       s.catalog.Len(),
		Running:      atomic.LoadInt32(&s.running) == 1,
	}
}

// Stats contains server statistics
type Stats struct {
	SessionCount int64 `json:"sessions"`
	Levels       int   `json:"levels"`
	Running      bool  `json:"running"`
}
