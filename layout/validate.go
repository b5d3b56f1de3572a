package layout

import "fmt"

// Result is the outcome of validating a layout. When OK is false, Rule
// identifies the first violated rule (1-7) and Message describes the
// violation. Validation failures are values, never errors, so callers can
// prompt for corrected input.
type Result struct {
	OK      bool
	Rule    int
	Message string
}

func fail(rule int, format string, args ...any) Result {
	return Result{Rule: rule, Message: fmt.Sprintf(format, args...)}
}

// Validate checks a parsed layout against the structural rules, in order,
// stopping at the first violation:
//
//  1. exactly 8 rows of exactly 8 values
//  2. every value is 0, 1 or 2
//  3. exactly 10 mines
//  4. every row and every column contains at least one mine
//  5. exactly one mine on the main diagonal
//  6. exactly one orthogonally adjacent mine pair on the whole board
//  7. between 1 and 9 treasures
//
// Validate never mutates its input and has no side effects.
func Validate(cells [][]int) Result {
	// Rule 1: dimensions.
	if len(cells) != Rows {
		return fail(1, "board must have exactly %d rows, found %d", Rows, len(cells))
	}
	for r, row := range cells {
		if len(row) != Cols {
			return fail(1, "row %d must have exactly %d values, found %d", r, Cols, len(row))
		}
	}

	// Rule 2: cell values.
	for r, row := range cells {
		for c, v := range row {
			if v < 0 || v > 2 {
				return fail(2, "cell (%d,%d) must be 0, 1 or 2, found %d", r, c, v)
			}
		}
	}

	// Rule 3: total mines.
	mines := 0
	for _, row := range cells {
		for _, v := range row {
			if v == 1 {
				mines++
			}
		}
	}
	if mines != Mines {
		return fail(3, "board must contain exactly %d mines, found %d", Mines, mines)
	}

	// Rule 4: row and column coverage.
	for r, row := range cells {
		found := false
		for _, v := range row {
			if v == 1 {
				found = true
				break
			}
		}
		if !found {
			return fail(4, "row %d must contain at least one mine", r)
		}
	}
	for c := 0; c < Cols; c++ {
		found := false
		for r := 0; r < Rows; r++ {
			if cells[r][c] == 1 {
				found = true
				break
			}
		}
		if !found {
			return fail(4, "column %d must contain at least one mine", c)
		}
	}

	// Rule 5: main diagonal.
	diagonal := 0
	for i := 0; i < Rows; i++ {
		if cells[i][i] == 1 {
			diagonal++
		}
	}
	if diagonal != 1 {
		return fail(5, "board must have exactly one mine on the main diagonal, found %d", diagonal)
	}

	// Rule 6: adjacent pairs. Checking right and down for each mine counts
	// every unordered edge-sharing pair once; diagonal contact does not
	// count.
	pairs := 0
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			if cells[r][c] != 1 {
				continue
			}
			if c+1 < Cols && cells[r][c+1] == 1 {
				pairs++
			}
			if r+1 < Rows && cells[r+1][c] == 1 {
				pairs++
			}
		}
	}
	if pairs != 1 {
		return fail(6, "board must have exactly one orthogonally adjacent mine pair, found %d", pairs)
	}

	// Rule 7: treasures.
	treasures := 0
	for _, row := range cells {
		for _, v := range row {
			if v == 2 {
				treasures++
			}
		}
	}
	if treasures < MinTreasures || treasures > MaxTreasures {
		return fail(7, "board must contain between %d and %d treasures, found %d", MinTreasures, MaxTreasures, treasures)
	}

	return Result{OK: true}
}
