package game

import (
	"fmt"
	rand "math/rand/v2"
	"time"

	"github.com/lox/treasuresweep/board"
)

// SnapshotVersion is the current persisted snapshot format version.
const SnapshotVersion = 1

// CellSnapshot is the persisted state of one cell. Adjacency counts are
// deliberately not persisted; Restore recomputes them from the mine layout.
type CellSnapshot struct {
	Row      int  `json:"row"`
	Col      int  `json:"col"`
	Mine     bool `json:"mine"`
	Treasure bool `json:"treasure"`
	Flagged  bool `json:"flagged"`
	Revealed bool `json:"revealed"`
}

// Snapshot is an immutable, versioned view of a game, decoupled from the
// in-memory representation so the persisted format stays stable across
// internal refactors. It doubles as the read-only view handed to
// presentation adapters.
type Snapshot struct {
	Version       int            `json:"version"`
	Rows          int            `json:"rows"`
	Cols          int            `json:"cols"`
	MineCount     int            `json:"mineCount"`
	TreasureCount int            `json:"treasureCount"`
	RevealedCount int            `json:"revealedCount"`
	FlagCount     int            `json:"flagCount"`
	Status        string         `json:"status"`
	StartedAt     *time.Time     `json:"startedAt,omitempty"`
	FixedLayout   bool           `json:"fixedLayout"`
	Cells         []CellSnapshot `json:"cells"`
}

// Snapshot captures the full game state as a detached value. Mutating the
// game afterwards does not affect the snapshot, and vice versa.
func (g *Game) Snapshot() *Snapshot {
	cells := g.board.Cells()
	snap := &Snapshot{
		Version:       SnapshotVersion,
		Rows:          g.board.Rows(),
		Cols:          g.board.Cols(),
		MineCount:     g.board.MineCount(),
		TreasureCount: g.board.TreasureCount(),
		RevealedCount: g.board.RevealedCount(),
		FlagCount:     g.board.FlagCount(),
		Status:        g.status.String(),
		FixedLayout:   g.board.FixedLayout(),
		Cells:         make([]CellSnapshot, 0, len(cells)),
	}
	if !g.startedAt.IsZero() {
		started := g.startedAt
		snap.StartedAt = &started
	}
	for _, cell := range cells {
		snap.Cells = append(snap.Cells, CellSnapshot{
			Row:      cell.Row,
			Col:      cell.Col,
			Mine:     cell.Mine,
			Treasure: cell.Treasure,
			Flagged:  cell.Flagged,
			Revealed: cell.Revealed,
		})
	}
	return snap
}

// Restore rebuilds an in-progress game from a snapshot. The board's
// adjacency counts are recomputed from the persisted mine layout, so
// subsequent reveals flood exactly as they would have in the original
// session. The RNG is required for restarts of restored random games.
func Restore(rng *rand.Rand, snap *Snapshot, opts ...Option) (*Game, error) {
	if rng == nil {
		panic("rng is required to restore a game")
	}
	if snap == nil {
		return nil, fmt.Errorf("%w: nil snapshot", board.ErrConfiguration)
	}
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: unsupported snapshot version %d", board.ErrConfiguration, snap.Version)
	}

	status, err := parseStatus(snap.Status)
	if err != nil {
		return nil, err
	}

	cells := make([]board.Cell, 0, len(snap.Cells))
	for _, cell := range snap.Cells {
		cells = append(cells, board.Cell{
			Row:      cell.Row,
			Col:      cell.Col,
			Mine:     cell.Mine,
			Treasure: cell.Treasure,
			Flagged:  cell.Flagged,
			Revealed: cell.Revealed,
		})
	}
	b, err := board.FromCells(snap.Rows, snap.Cols, cells, snap.FixedLayout)
	if err != nil {
		return nil, err
	}

	cfg := defaultGameConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if snap.FixedLayout && cfg.fixed == nil {
		cfg.fixed = layoutFromSnapshot(snap)
	}

	g := &Game{
		board:     b,
		status:    status,
		rng:       rng,
		cfg:       cfg,
		rows:      snap.Rows,
		cols:      snap.Cols,
		mines:     snap.MineCount,
		treasures: snap.TreasureCount,
	}
	if snap.StartedAt != nil {
		g.startedAt = *snap.StartedAt
	}
	return g, nil
}

// layoutFromSnapshot reconstructs the fixed-layout matrix so Restart keeps
// reproducing the identical board after a restore.
func layoutFromSnapshot(snap *Snapshot) [][]int {
	cells := make([][]int, snap.Rows)
	for r := range cells {
		cells[r] = make([]int, snap.Cols)
	}
	for _, cell := range snap.Cells {
		switch {
		case cell.Mine:
			cells[cell.Row][cell.Col] = board.CellMine
		case cell.Treasure:
			cells[cell.Row][cell.Col] = board.CellTreasure
		}
	}
	return cells
}

func parseStatus(s string) (Status, error) {
	for _, status := range []Status{NotStarted, InProgress, Won, Lost} {
		if status.String() == s {
			return status, nil
		}
	}
	return NotStarted, fmt.Errorf("%w: unknown status %q", board.ErrConfiguration, s)
}
