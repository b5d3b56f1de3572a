package server

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/lox/treasuresweep/board"
	"github.com/lox/treasuresweep/game"
	"github.com/lox/treasuresweep/internal/server/statistics"
)

// Session owns one game on behalf of one connection. The engine is
// single-threaded by contract, so every entry point takes the session
// mutex before touching the game.
type Session struct {
	id     string
	level  string
	game   *game.Game
	stats  *statistics.Collector
	logger *log.Logger
	mu     sync.Mutex
}

// NewSession wraps a game in a session.
func NewSession(id, level string, g *game.Game, stats *statistics.Collector, logger *log.Logger) *Session {
	return &Session{
		id:     id,
		level:  level,
		game:   g,
		stats:  stats,
		logger: logger.With("session", id),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Level returns the level name the session was created from.
func (s *Session) Level() string { return s.level }

// Created builds the session_created payload.
func (s *Session) Created(restored bool) SessionCreatedData {
	s.mu.Lock()
	defer s.mu.Unlock()

	return SessionCreatedData{
		SessionID: s.id,
		Level:     s.level,
		Rows:      s.game.Rows(),
		Cols:      s.game.Cols(),
		Mines:     s.game.MineCount(),
		Treasures: s.game.TreasureCount(),
		Status:    s.game.Status().String(),
		Restored:  restored,
	}
}

// BoardUpdate builds the redacted board_update payload.
func (s *Session) BoardUpdate() BoardUpdateData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return BoardUpdateFromGame(s.game)
}

// Snapshot returns a detached snapshot of the session's game.
func (s *Session) Snapshot() *game.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Snapshot()
}

// Reveal runs one reveal and returns the game_over payload when the move
// ended the game.
func (s *Session) Reveal(row, col int) (board.RevealResult, *GameOverData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.game.Status()
	res, err := s.game.Reveal(row, col)
	if err != nil {
		return board.RevealResult{}, nil, err
	}

	if before == game.NotStarted && s.game.Status() != game.NotStarted {
		s.stats.GameStarted(s.level)
	}
	if res.Outcome == board.OutcomeRevealed {
		s.stats.CellsRevealed(len(res.Cells))
	}

	if s.game.Status().Terminal() {
		over := GameOverFromGame(s.game)
		s.recordResult(over)
		return res, &over, nil
	}
	return res, nil, nil
}

// ToggleFlag flips a flag on the session's game.
func (s *Session) ToggleFlag(row, col int) (board.FlagResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.game.ToggleFlag(row, col)
	if err != nil {
		return board.FlagResult{}, err
	}
	if res.Changed && res.Flagged {
		s.stats.FlagPlaced()
	}
	return res, nil
}

// Restart swaps in a fresh game built from the session's original
// parameters. Works from any state, including mid-game and after a loss.
func (s *Session) Restart() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fresh, err := s.game.Restart()
	if err != nil {
		return err
	}
	s.game = fresh
	s.stats.Restarted()
	s.logger.Debug("Game restarted")
	return nil
}

// recordResult folds a finished game into the collector; callers hold the
// session lock.
func (s *Session) recordResult(over GameOverData) {
	s.stats.RecordGame(statistics.GameResult{
		Level:      s.level,
		Won:        over.Won,
		ByTreasure: over.Reason == "treasure",
		Duration:   s.game.Elapsed(),
		Revealed:   s.game.RevealedCount(),
		Flags:      s.game.FlagCount(),
	})
}

// SessionManager tracks live sessions by ID.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionManager constructs an empty session manager.
func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
	}
}

// Register adds a session to the manager.
func (sm *SessionManager) Register(session *Session) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.sessions[session.ID()] = session
}

// Get retrieves a session by ID.
func (sm *SessionManager) Get(id string) (*Session, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	session, ok := sm.sessions[id]
	return session, ok
}

// Delete removes a session by ID and returns it.
func (sm *SessionManager) Delete(id string) (*Session, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	session, ok := sm.sessions[id]
	if !ok {
		return nil, false
	}
	delete(sm.sessions, id)
	return session, true
}

// Count returns the number of live sessions.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}
