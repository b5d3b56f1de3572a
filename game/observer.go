package game

import "github.com/lox/treasuresweep/board"

// Observer receives notifications after gameplay state changes. Adapters
// embed NopObserver and override only the callbacks they care about, so the
// capability set is fixed at compile time.
type Observer interface {
	// CellRevealed fires once per newly revealed cell, cascaded cells
	// included, with a copy of the cell's post-reveal state.
	CellRevealed(coord board.Coord, cell board.Cell)
	// CellFlagged fires after a flag toggle that changed state.
	CellFlagged(coord board.Coord, flagged bool)
	// StatusChanged fires after every status transition, including the
	// NotStarted of a replacement game built by Restart.
	StatusChanged(status Status)
}

// NopObserver implements Observer with no-ops for embedding.
type NopObserver struct{}

func (NopObserver) CellRevealed(board.Coord, board.Cell) {}
func (NopObserver) CellFlagged(board.Coord, bool)        {}
func (NopObserver) StatusChanged(Status)                 {}
