// Package game wraps a board with the run-time state of a single game: the
// status machine, the elapsed-time anchor, observer notifications, restart,
// and the versioned snapshot contract used for persistence.
//
// A Game is single-threaded by contract. Hosts that serve games
// concurrently must serialize access to each Game behind one mutex; the
// engine itself does no locking.
package game

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
	"time"

	"github.com/lox/treasuresweep/board"
)

var ErrGameOver = errors.New("game: already over")

// Status is the lifecycle state of a game.
type Status int

const (
	NotStarted Status = iota
	InProgress
	Won
	Lost
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case InProgress:
		return "in_progress"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Terminal reports whether the game has ended.
func (s Status) Terminal() bool {
	return s == Won || s == Lost
}

// Game owns a board and its gameplay state. Construct with New or Restore;
// mutate only through Reveal, ToggleFlag and Restart.
type Game struct {
	board     *board.Board
	status    Status
	startedAt time.Time

	rng *rand.Rand
	cfg gameConfig

	// Requested construction parameters, kept for Restart. In fixed-layout
	// mode the effective counts come from the board.
	rows      int
	cols      int
	mines     int
	treasures int
}

// New creates a game with a freshly generated board. The RNG is required so
// placement is explicit and seedable; games built from a fixed layout keep
// it for restarts of random games restored alongside them.
//
//	rng := randutil.New(time.Now().UnixNano())
//	g, err := game.New(rng, 8, 8, 10, 1)
//
//	// Deterministic test-mode board
//	g, err := game.New(rng, 8, 8, 10, 1, game.WithFixedLayout(cells))
func New(rng *rand.Rand, rows, cols, mines, treasures int, opts ...Option) (*Game, error) {
	if rng == nil {
		panic("rng is required for game creation")
	}

	cfg := defaultGameConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	var (
		b   *board.Board
		err error
	)
	if cfg.fixed != nil {
		b, err = board.GenerateFixed(cfg.fixed, rows, cols)
	} else {
		b, err = board.Generate(rng, rows, cols, mines, treasures)
	}
	if err != nil {
		return nil, err
	}

	return &Game{
		board:     b,
		status:    NotStarted,
		rng:       rng,
		cfg:       cfg,
		rows:      rows,
		cols:      cols,
		mines:     mines,
		treasures: treasures,
	}, nil
}

func (g *Game) Status() Status     { return g.status }
func (g *Game) Rows() int          { return g.board.Rows() }
func (g *Game) Cols() int          { return g.board.Cols() }
func (g *Game) MineCount() int     { return g.board.MineCount() }
func (g *Game) TreasureCount() int { return g.board.TreasureCount() }
func (g *Game) RevealedCount() int { return g.board.RevealedCount() }
func (g *Game) FlagCount() int     { return g.board.FlagCount() }
func (g *Game) FixedLayout() bool  { return g.board.FixedLayout() }
func (g *Game) SafeCells() int     { return g.board.SafeCells() }

// At returns a copy of the cell at (row, col).
func (g *Game) At(row, col int) (board.Cell, error) {
	return g.board.At(row, col)
}

// Cells returns a row-major copy of every cell.
func (g *Game) Cells() []board.Cell {
	return g.board.Cells()
}

// Elapsed returns the time since the first successful reveal, or zero if
// the game has not started.
func (g *Game) Elapsed() time.Duration {
	if g.startedAt.IsZero() {
		return 0
	}
	return g.cfg.clock.Since(g.startedAt)
}

// StartedAt returns the first-reveal timestamp, or the zero time if the
// game has not started.
func (g *Game) StartedAt() time.Time {
	return g.startedAt
}

// Reveal uncovers the cell at (row, col) and advances the status machine.
// A mine loses the game, the treasure wins it, and revealing the last safe
// cell wins it. Reveals after the game has ended return ErrGameOver.
func (g *Game) Reveal(row, col int) (board.RevealResult, error) {
	if g.status.Terminal() {
		return board.RevealResult{}, fmt.Errorf("reveal (%d,%d): %w", row, col, ErrGameOver)
	}

	res, err := g.board.Reveal(row, col)
	if err != nil {
		return board.RevealResult{}, err
	}
	if res.Outcome == board.OutcomeIgnored {
		return res, nil
	}

	// The clock starts on the first reveal that changes the board, not on
	// construction or flagging.
	if g.status == NotStarted {
		g.startedAt = g.cfg.clock.Now()
		g.setStatus(InProgress)
	}

	for _, coord := range res.Cells {
		cell, _ := g.board.At(coord.Row, coord.Col)
		for _, obs := range g.cfg.observers {
			obs.CellRevealed(coord, cell)
		}
	}

	switch res.Outcome {
	case board.OutcomeMine:
		g.setStatus(Lost)
	case board.OutcomeTreasure:
		g.setStatus(Won)
	case board.OutcomeRevealed:
		if g.board.RevealedCount() == g.board.SafeCells() {
			g.setStatus(Won)
		}
	}

	return res, nil
}

// ToggleFlag flips the flag on an unrevealed cell. Flagging never starts
// the clock, and toggles after the game has ended return ErrGameOver.
func (g *Game) ToggleFlag(row, col int) (board.FlagResult, error) {
	if g.status.Terminal() {
		return board.FlagResult{}, fmt.Errorf("flag (%d,%d): %w", row, col, ErrGameOver)
	}

	res, err := g.board.ToggleFlag(row, col)
	if err != nil {
		return board.FlagResult{}, err
	}
	if res.Changed {
		coord := board.Coord{Row: row, Col: col}
		for _, obs := range g.cfg.observers {
			obs.CellFlagged(coord, res.Flagged)
		}
	}
	return res, nil
}

// Restart builds a fresh game from the original construction parameters:
// the identical layout when one was fixed, otherwise a new random placement
// drawn from the same RNG stream. The caller owns the swap; the old game is
// left untouched so readers holding it never see a half-reset state.
func (g *Game) Restart() (*Game, error) {
	fresh, err := New(g.rng, g.rows, g.cols, g.mines, g.treasures, withConfig(g.cfg))
	if err != nil {
		return nil, err
	}
	for _, obs := range fresh.cfg.observers {
		obs.StatusChanged(NotStarted)
	}
	return fresh, nil
}

func (g *Game) setStatus(s Status) {
	g.status = s
	for _, obs := range g.cfg.observers {
		obs.StatusChanged(s)
	}
}
