package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/treasuresweep/game"
	"github.com/lox/treasuresweep/internal/randutil"
	"github.com/lox/treasuresweep/internal/server/statistics"
	"github.com/lox/treasuresweep/internal/sessionid"
)

var (
	ErrUnknownLevel = errors.New("server: unknown level")
	ErrServerFull   = errors.New("server: session limit reached")
)

// Server hosts game sessions over WebSocket, one session per connection.
type Server struct {
	config      *Config
	layouts     map[string][][]int
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	register    chan *Connection
	unregister  chan *Connection
	sessions    *SessionManager
	stats       *statistics.Collector
	logger      *log.Logger
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
	httpServer  *http.Server

	// Session RNGs are derived from seedBase plus a sequence number, so a
	// configured seed reproduces every board the server deals.
	seedBase int64
	seedSeq  atomic.Int64
}

// NewServer creates a WebSocket server from a validated config. Layout
// files are parsed and validated here so a bad file fails the boot rather
// than the first new_game.
func NewServer(config *Config, logger *log.Logger) (*Server, error) {
	layouts, err := config.LoadLayouts()
	if err != nil {
		return nil, err
	}

	seedBase := config.Server.Seed
	if seedBase == 0 {
		seedBase = time.Now().UnixNano()
	}

	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		config:  config,
		layouts: layouts,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// For development, allow all origins
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		sessions:    NewSessionManager(),
		stats:       statistics.NewCollector(),
		logger:      logger.WithPrefix("server"),
		ctx:         ctx,
		cancel:      cancel,
		seedBase:    seedBase,
	}
	s.httpServer = &http.Server{
		Addr:    config.GetServerAddress(),
		Handler: s.handler(),
	}
	return s, nil
}

// Stats returns the server's statistics collector.
func (s *Server) Stats() *statistics.Collector {
	return s.stats
}

// Start runs the server until Stop is called.
func (s *Server) Start() error {
	go s.run()

	s.logger.Info("Starting WebSocket server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts the server down, closing every live connection.
func (s *Server) Stop() error {
	s.cancel()

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close()
	}
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// handler builds the HTTP routes.
func (s *Server) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// run handles connection lifecycle
func (s *Server) run() {
	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.connections[conn] = true
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Client connected", "total", total)

		case conn := <-s.unregister:
			s.mu.Lock()
			_, ok := s.connections[conn]
			if ok {
				delete(s.connections, conn)
			}
			total := len(s.connections)
			s.mu.Unlock()

			if ok {
				if session := conn.GetSession(); session != nil {
					s.CloseSession(session)
				}
				_ = conn.Close()
			}
			s.logger.Info("Client disconnected", "total", total)

		case <-s.ctx.Done():
			return
		}
	}
}

// CreateSession builds a session for a new_game request: a restored game
// when the request carries a snapshot, otherwise a fresh board from the
// named level.
func (s *Server) CreateSession(data NewGameData) (*Session, error) {
	if s.sessions.Count() >= s.config.Server.MaxSessions {
		return nil, fmt.Errorf("%w (%d)", ErrServerFull, s.config.Server.MaxSessions)
	}

	rng := randutil.New(s.nextSeed())

	var (
		g     *game.Game
		level string
		err   error
	)
	if data.Snapshot != nil {
		level = data.Level
		if level == "" {
			level = "restored"
		}
		g, err = game.Restore(rng, data.Snapshot)
	} else {
		level = data.Level
		if level == "" {
			level = s.config.Levels[0].Name
		}
		cfg := s.config.GetLevel(level)
		if cfg == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownLevel, level)
		}
		if cells, ok := s.layouts[level]; ok {
			g, err = game.New(rng, len(cells), len(cells[0]), 0, 0, game.WithFixedLayout(cells))
		} else {
			g, err = game.New(rng, cfg.Rows, cfg.Cols, cfg.Mines, cfg.Treasures)
		}
	}
	if err != nil {
		return nil, err
	}

	session := NewSession(sessionid.New(), level, g, s.stats, s.logger)
	s.sessions.Register(session)
	s.stats.SessionOpened()
	s.logger.Info("Session created", "session", session.ID(), "level", level)
	return session, nil
}

// CloseSession removes a session from the manager.
func (s *Server) CloseSession(session *Session) {
	if _, ok := s.sessions.Delete(session.ID()); ok {
		s.stats.SessionClosed()
		s.logger.Info("Session closed", "session", session.ID())
	}
}

// nextSeed returns the next seed in the server's deterministic sequence.
func (s *Server) nextSeed() int64 {
	return s.seedBase + s.seedSeq.Add(1)
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s.logger, s)
	s.register <- client
	client.Start()

	// Connection cleanup is handled by the connection itself
	go func() {
		<-client.ctx.Done()
		s.unregister <- client
	}()
}

// handleHealth reports liveness plus the aggregate counters.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":   "ok",
		"sessions": s.sessions.Count(),
		"stats":    s.stats.Snapshot(),
	})
}
