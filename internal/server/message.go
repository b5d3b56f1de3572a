package server

import (
	"encoding/json"
	"time"

	"github.com/lox/treasuresweep/board"
	"github.com/lox/treasuresweep/game"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

// NewGameData starts a fresh session. A non-nil Snapshot restores a
// persisted game instead of generating a new board.
type NewGameData struct {
	Level    string         `json:"level,omitempty"`
	Snapshot *game.Snapshot `json:"snapshot,omitempty"`
}

type RevealData struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type FlagData struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// restart and snapshot_request carry no payload.

// Server → Client Messages

type SessionCreatedData struct {
	SessionID string `json:"sessionId"`
	Level     string `json:"level"`
	Rows      int    `json:"rows"`
	Cols      int    `json:"cols"`
	Mines     int    `json:"mines"`
	Treasures int    `json:"treasures"`
	Status    string `json:"status"`
	Restored  bool   `json:"restored,omitempty"`
}

// CellView is the presentation-safe projection of one cell. Unrevealed
// cells carry position and flag state only; mine, treasure and adjacency
// stay zero until the cell is revealed or the game ends.
type CellView struct {
	Row           int  `json:"row"`
	Col           int  `json:"col"`
	Revealed      bool `json:"revealed"`
	Flagged       bool `json:"flagged"`
	AdjacentMines int  `json:"adjacentMines"`
	Mine          bool `json:"mine,omitempty"`
	Treasure      bool `json:"treasure,omitempty"`
}

type BoardUpdateData struct {
	Status    string     `json:"status"`
	Revealed  int        `json:"revealed"`
	Flags     int        `json:"flags"`
	SafeCells int        `json:"safeCells"`
	ElapsedMs int64      `json:"elapsedMs"`
	Cells     []CellView `json:"cells"`
}

type GameOverData struct {
	Status     string     `json:"status"`
	Won        bool       `json:"won"`
	Reason     string     `json:"reason"` // mine, treasure or clear
	Revealed   int        `json:"revealed"`
	DurationMs int64      `json:"durationMs"`
	Cells      []CellView `json:"cells"` // full disclosure
}

type SnapshotData struct {
	Snapshot *game.Snapshot `json:"snapshot"`
}

// The stats payload is a statistics.Snapshot.

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Helper functions to convert between engine types and message types

// NewCellView projects a cell for the wire. With disclose set the hidden
// fields are included; otherwise unrevealed cells are redacted.
func NewCellView(cell board.Cell, disclose bool) CellView {
	view := CellView{
		Row:      cell.Row,
		Col:      cell.Col,
		Revealed: cell.Revealed,
		Flagged:  cell.Flagged,
	}
	if cell.Revealed || disclose {
		view.AdjacentMines = cell.AdjacentMines
		view.Mine = cell.Mine
		view.Treasure = cell.Treasure
	}
	return view
}

// BoardViewFromGame projects every cell of the game's board.
func BoardViewFromGame(g *game.Game, disclose bool) []CellView {
	cells := g.Cells()
	views := make([]CellView, 0, len(cells))
	for _, cell := range cells {
		views = append(views, NewCellView(cell, disclose))
	}
	return views
}

// BoardUpdateFromGame builds the redacted board_update payload.
func BoardUpdateFromGame(g *game.Game) BoardUpdateData {
	return BoardUpdateData{
		Status:    g.Status().String(),
		Revealed:  g.RevealedCount(),
		Flags:     g.FlagCount(),
		SafeCells: g.SafeCells(),
		ElapsedMs: g.Elapsed().Milliseconds(),
		Cells:     BoardViewFromGame(g, false),
	}
}

// GameOverFromGame builds the fully disclosed game_over payload.
func GameOverFromGame(g *game.Game) GameOverData {
	return GameOverData{
		Status:     g.Status().String(),
		Won:        g.Status() == game.Won,
		Reason:     gameOverReason(g),
		Revealed:   g.RevealedCount(),
		DurationMs: g.Elapsed().Milliseconds(),
		Cells:      BoardViewFromGame(g, true),
	}
}

// gameOverReason distinguishes treasure wins from board clears. A loss is
// always a mine.
func gameOverReason(g *game.Game) string {
	if g.Status() == game.Lost {
		return "mine"
	}
	for _, cell := range g.Cells() {
		if cell.Treasure && cell.Revealed {
			return "treasure"
		}
	}
	return "clear"
}
