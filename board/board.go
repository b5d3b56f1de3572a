// Package board implements the minefield grid: cell placement, adjacency
// counts, and the reveal and flag transitions that drive a game.
//
// A Board is built once by Generate (random placement), GenerateFixed (an
// externally validated layout), or FromCells (a persisted snapshot), and is
// mutated only through Reveal and ToggleFlag. Callers never hold references
// into the grid; At and Cells return value copies.
package board

import (
	"errors"
	"fmt"
)

// Matrix cell values for fixed layouts.
const (
	CellEmpty    = 0
	CellMine     = 1
	CellTreasure = 2
)

var (
	ErrConfiguration = errors.New("board: invalid configuration")
	ErrOutOfBounds   = errors.New("board: coordinate out of bounds")
)

// Coord identifies a cell by row and column.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Cell is a single grid square. Mine, Treasure and AdjacentMines are fixed
// once generation completes; Flagged and Revealed change during play.
type Cell struct {
	Row           int
	Col           int
	Mine          bool
	Treasure      bool
	Flagged       bool
	Revealed      bool
	AdjacentMines int
}

// Board is a rows x cols minefield. Mines and treasures are mutually
// exclusive per cell, and every cell's AdjacentMines equals the number of
// mines among its up-to-8 king-move neighbors.
type Board struct {
	rows          int
	cols          int
	cells         [][]Cell
	mineCount     int
	treasureCount int
	fixedLayout   bool
	revealedCount int
	flagCount     int
}

func newBoard(rows, cols int, fixed bool) *Board {
	cells := make([][]Cell, rows)
	for r := range cells {
		cells[r] = make([]Cell, cols)
		for c := range cells[r] {
			cells[r][c] = Cell{Row: r, Col: c}
		}
	}
	return &Board{rows: rows, cols: cols, cells: cells, fixedLayout: fixed}
}

func (b *Board) Rows() int          { return b.rows }
func (b *Board) Cols() int          { return b.cols }
func (b *Board) MineCount() int     { return b.mineCount }
func (b *Board) TreasureCount() int { return b.treasureCount }
func (b *Board) FixedLayout() bool  { return b.fixedLayout }

// RevealedCount returns the number of safe cells revealed so far. Mine and
// treasure reveals end the game and are not counted.
func (b *Board) RevealedCount() int { return b.revealedCount }

// FlagCount returns the number of currently flagged cells.
func (b *Board) FlagCount() int { return b.flagCount }

// SafeCells returns how many cells must be revealed to clear the board.
func (b *Board) SafeCells() int {
	return b.rows*b.cols - b.mineCount - b.treasureCount
}

// At returns a copy of the cell at (row, col).
func (b *Board) At(row, col int) (Cell, error) {
	if !b.inBounds(row, col) {
		return Cell{}, fmt.Errorf("cell (%d,%d): %w", row, col, ErrOutOfBounds)
	}
	return b.cells[row][col], nil
}

// Cells returns a row-major copy of every cell.
func (b *Board) Cells() []Cell {
	out := make([]Cell, 0, b.rows*b.cols)
	for r := 0; r < b.rows; r++ {
		out = append(out, b.cells[r]...)
	}
	return out
}

func (b *Board) inBounds(row, col int) bool {
	return row >= 0 && row < b.rows && col >= 0 && col < b.cols
}

// forEachNeighbor calls fn for each in-bounds king-move neighbor of
// (row, col). Edges and corners see fewer than 8 neighbors; there is no
// wraparound.
func (b *Board) forEachNeighbor(row, col int, fn func(r, c int)) {
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			r, c := row+dr, col+dc
			if b.inBounds(r, c) {
				fn(r, c)
			}
		}
	}
}

// computeAdjacency derives AdjacentMines for every cell. Called exactly once
// after placement; counts are never recomputed during play.
func (b *Board) computeAdjacency() {
	for r := 0; r < b.rows; r++ {
		for c := 0; c < b.cols; c++ {
			count := 0
			b.forEachNeighbor(r, c, func(nr, nc int) {
				if b.cells[nr][nc].Mine {
					count++
				}
			})
			b.cells[r][c].AdjacentMines = count
		}
	}
}

// nearTreasure reports whether any king-move neighbor of (row, col) holds
// treasure. The cell itself is not considered.
func (b *Board) nearTreasure(row, col int) bool {
	near := false
	b.forEachNeighbor(row, col, func(r, c int) {
		if b.cells[r][c].Treasure {
			near = true
		}
	})
	return near
}
