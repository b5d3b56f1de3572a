package board

import "fmt"

// Outcome classifies the result of a reveal.
type Outcome int

const (
	// OutcomeIgnored means the target cell was already revealed or is
	// flagged; nothing changed.
	OutcomeIgnored Outcome = iota
	// OutcomeRevealed means one or more safe cells were revealed.
	OutcomeRevealed
	// OutcomeMine means the target cell was a mine.
	OutcomeMine
	// OutcomeTreasure means the target cell held the treasure.
	OutcomeTreasure
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeRevealed:
		return "revealed"
	case OutcomeMine:
		return "mine"
	case OutcomeTreasure:
		return "treasure"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// RevealResult reports what a reveal did. Cells lists every newly revealed
// coordinate, starting cell first; it is empty for OutcomeIgnored.
type RevealResult struct {
	Outcome Outcome
	Cells   []Coord
}

// FlagResult reports a flag toggle. Changed is false when the toggle was
// ignored because the cell is already revealed.
type FlagResult struct {
	Changed bool
	Flagged bool
}

// Reveal uncovers the cell at (row, col). Revealing a mine or treasure
// uncovers only that cell. Revealing a safe cell with a nonzero adjacency
// count uncovers only that cell; a zero-count cell starts a breadth-first
// flood fill over its neighborhood.
//
// The flood fill never cascades into a cell that is flagged, holds
// treasure, or touches a treasure cell by a king move. Those cells stay
// hidden until the player reveals them directly, so finding the treasure is
// always a deliberate act.
func (b *Board) Reveal(row, col int) (RevealResult, error) {
	if !b.inBounds(row, col) {
		return RevealResult{}, fmt.Errorf("reveal (%d,%d): %w", row, col, ErrOutOfBounds)
	}

	cell := &b.cells[row][col]
	if cell.Revealed || cell.Flagged {
		return RevealResult{Outcome: OutcomeIgnored}, nil
	}

	cell.Revealed = true
	start := Coord{Row: row, Col: col}

	if cell.Mine {
		return RevealResult{Outcome: OutcomeMine, Cells: []Coord{start}}, nil
	}
	if cell.Treasure {
		return RevealResult{Outcome: OutcomeTreasure, Cells: []Coord{start}}, nil
	}

	b.revealedCount++
	revealed := []Coord{start}
	if cell.AdjacentMines == 0 {
		revealed = b.floodReveal(revealed)
	}
	return RevealResult{Outcome: OutcomeRevealed, Cells: revealed}, nil
}

// floodReveal expands a zero-adjacency reveal breadth-first. revealed must
// contain the already-revealed starting cell; the returned slice appends
// every cascaded cell in visit order. Each cell flips to revealed at most
// once, so the walk terminates after at most rows*cols visits.
func (b *Board) floodReveal(revealed []Coord) []Coord {
	queue := []Coord{revealed[0]}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		b.forEachNeighbor(cur.Row, cur.Col, func(r, c int) {
			n := &b.cells[r][c]
			if n.Revealed || n.Mine || n.Flagged || n.Treasure || b.nearTreasure(r, c) {
				return
			}
			n.Revealed = true
			b.revealedCount++
			revealed = append(revealed, Coord{Row: r, Col: c})
			if n.AdjacentMines == 0 {
				queue = append(queue, Coord{Row: r, Col: c})
			}
		})
	}
	return revealed
}

// ToggleFlag flips the flag on an unrevealed cell and adjusts the flag
// counter. Toggling a revealed cell is silently ignored. The counter is
// purely observational and may exceed the true mine count.
func (b *Board) ToggleFlag(row, col int) (FlagResult, error) {
	if !b.inBounds(row, col) {
		return FlagResult{}, fmt.Errorf("flag (%d,%d): %w", row, col, ErrOutOfBounds)
	}

	cell := &b.cells[row][col]
	if cell.Revealed {
		return FlagResult{}, nil
	}

	cell.Flagged = !cell.Flagged
	if cell.Flagged {
		b.flagCount++
	} else {
		b.flagCount--
	}
	return FlagResult{Changed: true, Flagged: cell.Flagged}, nil
}
