package board

import (
	"fmt"
	rand "math/rand/v2"
)

// Generate builds a board with mines and treasures placed uniformly at
// random, sampling without replacement so no cell is chosen twice and no
// cell holds both. The RNG is required to make randomness explicit and
// testing deterministic.
//
//	rng := randutil.New(time.Now().UnixNano())
//	b, err := board.Generate(rng, 8, 8, 10, 1)
func Generate(rng *rand.Rand, rows, cols, mines, treasures int) (*Board, error) {
	if rng == nil {
		panic("rng is required for board generation")
	}
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%w: board size %dx%d", ErrConfiguration, rows, cols)
	}
	if mines < 1 {
		return nil, fmt.Errorf("%w: mine count %d", ErrConfiguration, mines)
	}
	if treasures < 1 {
		return nil, fmt.Errorf("%w: treasure count %d", ErrConfiguration, treasures)
	}
	if mines+treasures >= rows*cols {
		return nil, fmt.Errorf("%w: %d mines and %d treasures do not fit a %dx%d board",
			ErrConfiguration, mines, treasures, rows, cols)
	}

	b := newBoard(rows, cols, false)

	// A random permutation of the cell index space gives distinct positions
	// for both placements in one draw.
	order := rng.Perm(rows * cols)
	for _, idx := range order[:mines] {
		b.cells[idx/cols][idx%cols].Mine = true
	}
	for _, idx := range order[mines : mines+treasures] {
		b.cells[idx/cols][idx%cols].Treasure = true
	}
	b.mineCount = mines
	b.treasureCount = treasures

	b.computeAdjacency()
	return b, nil
}

// GenerateFixed builds a board from an externally supplied matrix of
// CellEmpty/CellMine/CellTreasure values. Mine and treasure counts are
// derived from the matrix content. The matrix must match the requested
// dimensions exactly; structural rules beyond that are the validator's job
// (see the layout package).
func GenerateFixed(cells [][]int, rows, cols int) (*Board, error) {
	if len(cells) != rows {
		return nil, fmt.Errorf("%w: layout has %d rows, want %d", ErrConfiguration, len(cells), rows)
	}
	for r, row := range cells {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: layout row %d has %d values, want %d", ErrConfiguration, r, len(row), cols)
		}
	}

	b := newBoard(rows, cols, true)
	for r, row := range cells {
		for c, v := range row {
			switch v {
			case CellEmpty:
			case CellMine:
				b.cells[r][c].Mine = true
				b.mineCount++
			case CellTreasure:
				b.cells[r][c].Treasure = true
				b.treasureCount++
			default:
				return nil, fmt.Errorf("%w: layout value %d at (%d,%d)", ErrConfiguration, v, r, c)
			}
		}
	}

	b.computeAdjacency()
	return b, nil
}

// FromCells rebuilds a board from persisted cell state, recomputing
// adjacency counts from the mine layout so restored games behave exactly
// like the originals. Flag and reveal counters are rederived from the cells.
func FromCells(rows, cols int, cells []Cell, fixed bool) (*Board, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%w: board size %dx%d", ErrConfiguration, rows, cols)
	}
	if len(cells) != rows*cols {
		return nil, fmt.Errorf("%w: %d cells for a %dx%d board", ErrConfiguration, len(cells), rows, cols)
	}

	b := newBoard(rows, cols, fixed)
	for _, cell := range cells {
		if !b.inBounds(cell.Row, cell.Col) {
			return nil, fmt.Errorf("%w: cell (%d,%d) outside %dx%d board", ErrConfiguration, cell.Row, cell.Col, rows, cols)
		}
		if cell.Mine && cell.Treasure {
			return nil, fmt.Errorf("%w: cell (%d,%d) is both mine and treasure", ErrConfiguration, cell.Row, cell.Col)
		}
		target := &b.cells[cell.Row][cell.Col]
		target.Mine = cell.Mine
		target.Treasure = cell.Treasure
		target.Flagged = cell.Flagged
		target.Revealed = cell.Revealed

		if cell.Mine {
			b.mineCount++
		}
		if cell.Treasure {
			b.treasureCount++
		}
		if cell.Flagged {
			b.flagCount++
		}
		if cell.Revealed && !cell.Mine && !cell.Treasure {
			b.revealedCount++
		}
	}

	b.computeAdjacency()
	return b, nil
}
