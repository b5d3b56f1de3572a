package board

import (
	"errors"
	"testing"

	"github.com/lox/treasuresweep/internal/randutil"
)

func TestGenerateCounts(t *testing.T) {
	t.Parallel()

	for seed := int64(0); seed < 20; seed++ {
		b, err := Generate(randutil.New(seed), 8, 8, 10, 1)
		if err != nil {
			t.Fatalf("Generate failed for seed %d: %v", seed, err)
		}

		mines, treasures := 0, 0
		for _, cell := range b.Cells() {
			if cell.Mine {
				mines++
			}
			if cell.Treasure {
				treasures++
			}
			if cell.Mine && cell.Treasure {
				t.Errorf("seed %d: cell (%d,%d) is both mine and treasure", seed, cell.Row, cell.Col)
			}
		}

		if mines != 10 {
			t.Errorf("seed %d: expected 10 mines, got %d", seed, mines)
		}
		if treasures != 1 {
			t.Errorf("seed %d: expected 1 treasure, got %d", seed, treasures)
		}
		if b.SafeCells() != 53 {
			t.Errorf("seed %d: expected 53 safe cells, got %d", seed, b.SafeCells())
		}
	}
}

func TestGenerateAdjacencyBruteForce(t *testing.T) {
	t.Parallel()

	for seed := int64(0); seed < 10; seed++ {
		b, err := Generate(randutil.New(seed), 9, 7, 12, 2)
		if err != nil {
			t.Fatalf("Generate failed for seed %d: %v", seed, err)
		}

		for _, cell := range b.Cells() {
			want := 0
			for dr := -1; dr <= 1; dr++ {
				for dc := -1; dc <= 1; dc++ {
					if dr == 0 && dc == 0 {
						continue
					}
					n, err := b.At(cell.Row+dr, cell.Col+dc)
					if err != nil {
						continue
					}
					if n.Mine {
						want++
					}
				}
			}
			if cell.AdjacentMines != want {
				t.Errorf("seed %d: cell (%d,%d) adjacency %d, want %d",
					seed, cell.Row, cell.Col, cell.AdjacentMines, want)
			}
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	t.Parallel()

	a, err := Generate(randutil.New(42), 8, 8, 10, 1)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	b, err := Generate(randutil.New(42), 8, 8, 10, 1)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	aCells, bCells := a.Cells(), b.Cells()
	for i := range aCells {
		if aCells[i].Mine != bCells[i].Mine || aCells[i].Treasure != bCells[i].Treasure {
			t.Fatalf("same seed produced different layouts at (%d,%d)", aCells[i].Row, aCells[i].Col)
		}
	}
}

func TestGenerateErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		rows      int
		cols      int
		mines     int
		treasures int
	}{
		{name: "zero rows", rows: 0, cols: 8, mines: 1, treasures: 1},
		{name: "zero cols", rows: 8, cols: 0, mines: 1, treasures: 1},
		{name: "zero mines", rows: 8, cols: 8, mines: 0, treasures: 1},
		{name: "zero treasures", rows: 8, cols: 8, mines: 10, treasures: 0},
		{name: "board exactly full", rows: 3, cols: 3, mines: 8, treasures: 1},
		{name: "board overfull", rows: 3, cols: 3, mines: 9, treasures: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(randutil.New(1), tt.rows, tt.cols, tt.mines, tt.treasures)
			if !errors.Is(err, ErrConfiguration) {
				t.Errorf("expected ErrConfiguration, got %v", err)
			}
		})
	}
}

func TestGenerateNilRNGPanics(t *testing.T) {
	t.Parallel()

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for nil rng")
		}
	}()
	_, _ = Generate(nil, 8, 8, 10, 1)
}

func TestGenerateFixedDerivesCounts(t *testing.T) {
	t.Parallel()

	cells := [][]int{
		{1, 0, 0, 2},
		{0, 0, 0, 0},
		{0, 1, 0, 0},
		{2, 0, 0, 1},
	}
	b, err := GenerateFixed(cells, 4, 4)
	if err != nil {
		t.Fatalf("GenerateFixed failed: %v", err)
	}

	if b.MineCount() != 3 {
		t.Errorf("expected 3 mines derived from layout, got %d", b.MineCount())
	}
	if b.TreasureCount() != 2 {
		t.Errorf("expected 2 treasures derived from layout, got %d", b.TreasureCount())
	}
	if !b.FixedLayout() {
		t.Error("expected FixedLayout to be true")
	}

	cell, err := b.At(0, 0)
	if err != nil || !cell.Mine {
		t.Errorf("expected mine at (0,0), got %+v err %v", cell, err)
	}
	cell, _ = b.At(3, 0)
	if !cell.Treasure {
		t.Errorf("expected treasure at (3,0), got %+v", cell)
	}
	cell, _ = b.At(1, 1)
	if cell.AdjacentMines != 2 {
		t.Errorf("expected adjacency 2 at (1,1), got %d", cell.AdjacentMines)
	}
}

func TestGenerateFixedErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		cells [][]int
		rows  int
		cols  int
	}{
		{name: "row count mismatch", cells: [][]int{{0, 0}, {0, 0}}, rows: 3, cols: 2},
		{name: "col count mismatch", cells: [][]int{{0, 0, 0}, {0, 0}}, rows: 2, cols: 3},
		{name: "bad cell value", cells: [][]int{{0, 3}, {0, 0}}, rows: 2, cols: 2},
		{name: "negative cell value", cells: [][]int{{0, -1}, {0, 0}}, rows: 2, cols: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateFixed(tt.cells, tt.rows, tt.cols)
			if !errors.Is(err, ErrConfiguration) {
				t.Errorf("expected ErrConfiguration, got %v", err)
			}
		})
	}
}

func TestFromCellsRebuildsCounters(t *testing.T) {
	t.Parallel()

	orig, err := GenerateFixed([][]int{
		{0, 0, 0},
		{0, 0, 0},
		{2, 0, 1},
	}, 3, 3)
	if err != nil {
		t.Fatalf("GenerateFixed failed: %v", err)
	}
	if _, err := orig.Reveal(0, 2); err != nil {
		t.Fatalf("Reveal failed: %v", err)
	}
	if _, err := orig.ToggleFlag(2, 2); err != nil {
		t.Fatalf("ToggleFlag failed: %v", err)
	}

	restored, err := FromCells(3, 3, orig.Cells(), true)
	if err != nil {
		t.Fatalf("FromCells failed: %v", err)
	}

	if restored.RevealedCount() != orig.RevealedCount() {
		t.Errorf("revealed count %d, want %d", restored.RevealedCount(), orig.RevealedCount())
	}
	if restored.FlagCount() != 1 {
		t.Errorf("flag count %d, want 1", restored.FlagCount())
	}
	if restored.MineCount() != 1 || restored.TreasureCount() != 1 {
		t.Errorf("counts mines=%d treasures=%d, want 1/1", restored.MineCount(), restored.TreasureCount())
	}

	// Adjacency is recomputed, not persisted.
	cell, _ := restored.At(1, 1)
	if cell.AdjacentMines != 1 {
		t.Errorf("adjacency at (1,1) %d, want 1", cell.AdjacentMines)
	}
}

func TestFromCellsErrors(t *testing.T) {
	t.Parallel()

	both := []Cell{
		{Row: 0, Col: 0, Mine: true, Treasure: true},
		{Row: 0, Col: 1}, {Row: 1, Col: 0}, {Row: 1, Col: 1},
	}
	if _, err := FromCells(2, 2, both, false); !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected ErrConfiguration for mine+treasure cell, got %v", err)
	}

	if _, err := FromCells(2, 2, both[:3], false); !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected ErrConfiguration for short cell slice, got %v", err)
	}

	outside := []Cell{
		{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 1, Col: 0}, {Row: 5, Col: 5},
	}
	if _, err := FromCells(2, 2, outside, false); !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected ErrConfiguration for out-of-range cell, got %v", err)
	}
}
