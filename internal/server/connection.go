package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"

	"github.com/lox/treasuresweep/board"
	"github.com/lox/treasuresweep/game"
)

// Connection represents a WebSocket connection to a client
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	session   *Session
	server    *Server
	logger    *log.Logger
	clock     quartz.Clock
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	closeOnce sync.Once

	writeWait  time.Duration
	pongWait   time.Duration
	pingPeriod time.Duration
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, logger *log.Logger, server *Server) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	c := &Connection{
		conn:      conn,
		send:      make(chan *Message, 256),
		server:    server,
		logger:    logger.WithPrefix("conn"),
		clock:     quartz.NewReal(),
		ctx:       ctx,
		cancel:    cancel,
		writeWait: writeWait,
		pongWait:  pongWait,
	}
	if server != nil {
		if w := server.config.Server.WriteWaitSeconds; w > 0 {
			c.writeWait = time.Duration(w) * time.Second
		}
		if p := server.config.Server.PongWaitSeconds; p > 0 {
			c.pongWait = time.Duration(p) * time.Second
		}
	}
	c.pingPeriod = (c.pongWait * 9) / 10
	return c
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SendMessage sends a message to the client
func (c *Connection) SendMessage(msg *Message) error {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed, expected during shutdown
			c.logger.Debug("Attempted to send message on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// SetSession associates this connection with a session
func (c *Connection) SetSession(session *Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = session
}

// GetSession returns the associated session, if any
func (c *Connection) GetSession() *Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var (
	ErrConnectionClosed = websocket.ErrCloseSent
)

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(c.clock.Now().Add(c.pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(c.clock.Now().Add(c.pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			break
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := c.clock.NewTicker(c.pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(c.clock.Now().Add(c.writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(c.clock.Now().Add(c.writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type)

	switch msg.Type {
	case MessageTypeNewGame:
		var data NewGameData
		if len(msg.Data) > 0 {
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				c.sendError("invalid_message", "Failed to parse new game data")
				return
			}
		}
		c.handleNewGame(data)

	case MessageTypeReveal:
		var data RevealData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse reveal data")
			return
		}
		c.handleReveal(data)

	case MessageTypeFlag:
		var data FlagData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse flag data")
			return
		}
		c.handleFlag(data)

	case MessageTypeRestart:
		c.handleRestart()

	case MessageTypeSnapshotRequest:
		c.handleSnapshotRequest()

	default:
		c.sendError("unknown_message_type", "Unknown message type: "+msg.Type.String())
	}
}

// sendError sends an error message to the client
func (c *Connection) sendError(code, message string) {
	errorMsg, err := NewMessage(MessageTypeError, ErrorData{
		Code:    code,
		Message: message,
	})
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}

	_ = c.SendMessage(errorMsg)
}

func (c *Connection) handleNewGame(data NewGameData) {
	c.logger.Info("New game request", "level", data.Level, "restore", data.Snapshot != nil)

	if c.server == nil {
		c.sendError("service_unavailable", "Session service not available")
		return
	}

	// A connection drives one session at a time; a second new_game
	// replaces the first.
	if existing := c.GetSession(); existing != nil {
		c.server.CloseSession(existing)
		c.SetSession(nil)
	}

	session, err := c.server.CreateSession(data)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownLevel):
			c.sendError("unknown_level", err.Error())
		case errors.Is(err, ErrServerFull):
			c.sendError("server_full", err.Error())
		case errors.Is(err, board.ErrConfiguration):
			c.sendError("invalid_snapshot", err.Error())
		default:
			c.sendError("create_failed", err.Error())
		}
		return
	}

	c.SetSession(session)

	response, _ := NewMessage(MessageTypeSessionCreated, session.Created(data.Snapshot != nil))
	_ = c.SendMessage(response)
	c.sendBoardUpdate(session)
}

func (c *Connection) handleReveal(data RevealData) {
	session := c.GetSession()
	if session == nil {
		c.sendError("no_session", "Start a game with new_game first")
		return
	}

	_, over, err := session.Reveal(data.Row, data.Col)
	if err != nil {
		switch {
		case errors.Is(err, game.ErrGameOver):
			c.sendError("game_over", err.Error())
		case errors.Is(err, board.ErrOutOfBounds):
			c.sendError("invalid_coordinate", err.Error())
		default:
			c.sendError("reveal_failed", err.Error())
		}
		return
	}

	c.sendBoardUpdate(session)
	if over != nil {
		c.sendGameOver(over)
	}
}

func (c *Connection) handleFlag(data FlagData) {
	session := c.GetSession()
	if session == nil {
		c.sendError("no_session", "Start a game with new_game first")
		return
	}

	_, err := session.ToggleFlag(data.Row, data.Col)
	if err != nil {
		switch {
		case errors.Is(err, game.ErrGameOver):
			c.sendError("game_over", err.Error())
		case errors.Is(err, board.ErrOutOfBounds):
			c.sendError("invalid_coordinate", err.Error())
		default:
			c.sendError("flag_failed", err.Error())
		}
		return
	}

	c.sendBoardUpdate(session)
}

func (c *Connection) handleRestart() {
	session := c.GetSession()
	if session == nil {
		c.sendError("no_session", "Start a game with new_game first")
		return
	}

	if err := session.Restart(); err != nil {
		c.sendError("restart_failed", err.Error())
		return
	}

	c.sendBoardUpdate(session)
}

func (c *Connection) handleSnapshotRequest() {
	session := c.GetSession()
	if session == nil {
		c.sendError("no_session", "Start a game with new_game first")
		return
	}

	response, _ := NewMessage(MessageTypeSnapshot, SnapshotData{Snapshot: session.Snapshot()})
	_ = c.SendMessage(response)
}

func (c *Connection) sendBoardUpdate(session *Session) {
	response, _ := NewMessage(MessageTypeBoardUpdate, session.BoardUpdate())
	_ = c.SendMessage(response)
}

func (c *Connection) sendGameOver(over *GameOverData) {
	response, _ := NewMessage(MessageTypeGameOver, over)
	_ = c.SendMessage(response)

	if c.server != nil {
		stats, _ := NewMessage(MessageTypeStats, c.server.stats.Snapshot())
		_ = c.SendMessage(stats)
	}
}
