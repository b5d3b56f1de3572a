package layout

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	input := `# test layout
0, 1, 2

1,0,1
`
	cells, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, [][]int{{0, 1, 2}, {1, 0, 1}}, cells)
}

func TestParseRaggedRowsPassThrough(t *testing.T) {
	t.Parallel()

	// Parse builds the matrix as written; shape enforcement is Validate's
	// job.
	cells, err := Parse(strings.NewReader("0,1\n0,1,2\n"))
	require.NoError(t, err)
	require.Len(t, cells, 2)
	require.Len(t, cells[0], 2)
	require.Len(t, cells[1], 3)
}

func TestParseMalformed(t *testing.T) {
	t.Parallel()

	_, err := Parse(strings.NewReader("0,1,x\n"))
	require.ErrorIs(t, err, ErrMalformed)

	_, err = Parse(strings.NewReader("# only comments\n\n"))
	require.ErrorIs(t, err, ErrMalformed)
}

func TestParseFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "board.csv")
	require.NoError(t, os.WriteFile(path, []byte("0,1\n2,0\n"), 0644))

	cells, err := ParseFile(path)
	require.NoError(t, err)
	require.Equal(t, [][]int{{0, 1}, {2, 0}}, cells)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
}

// acceptedLayout returns a fresh matrix satisfying every rule: 10 mines
// covering all rows and columns, one diagonal mine at (0,0), one adjacent
// pair at (1,5)-(1,6), and a single treasure at (5,5).
func acceptedLayout() [][]int {
	return [][]int{
		{1, 0, 0, 1, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 1, 1, 0},
		{0, 1, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 1, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 1},
		{0, 0, 1, 0, 0, 2, 0, 0},
		{0, 0, 0, 0, 0, 1, 0, 0},
		{0, 0, 0, 1, 0, 0, 0, 0},
	}
}

func TestValidateAccepts(t *testing.T) {
	t.Parallel()

	res := Validate(acceptedLayout())
	require.True(t, res.OK, "expected acceptance, got rule %d: %s", res.Rule, res.Message)
}

func TestValidateRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mutate   func(cells [][]int) [][]int
		wantRule int
	}{
		{
			name:     "seven rows",
			mutate:   func(cells [][]int) [][]int { return cells[:7] },
			wantRule: 1,
		},
		{
			name: "short row",
			mutate: func(cells [][]int) [][]int {
				cells[4] = cells[4][:7]
				return cells
			},
			wantRule: 1,
		},
		{
			name: "value out of range",
			mutate: func(cells [][]int) [][]int {
				cells[5][5] = 3
				return cells
			},
			wantRule: 2,
		},
		{
			name: "nine mines",
			mutate: func(cells [][]int) [][]int {
				cells[7][3] = 0
				return cells
			},
			wantRule: 3,
		},
		{
			name: "eleven mines",
			mutate: func(cells [][]int) [][]int {
				cells[7][6] = 1
				return cells
			},
			wantRule: 3,
		},
		{
			name: "row without mine",
			mutate: func(cells [][]int) [][]int {
				cells[7][3] = 0
				cells[6][3] = 1
				return cells
			},
			wantRule: 4,
		},
		{
			name: "column without mine",
			mutate: func(cells [][]int) [][]int {
				cells[2][1] = 0
				cells[2][3] = 1
				return cells
			},
			wantRule: 4,
		},
		{
			name: "two diagonal mines",
			mutate: func(cells [][]int) [][]int {
				cells[6][5] = 0
				cells[6][6] = 1
				return cells
			},
			wantRule: 5,
		},
		{
			name: "no diagonal mine",
			mutate: func(cells [][]int) [][]int {
				cells[0][0] = 0
				cells[4][0] = 1
				return cells
			},
			wantRule: 5,
		},
		{
			name: "no adjacent pair",
			mutate: func(cells [][]int) [][]int {
				cells[1][6] = 0
				cells[7][6] = 1
				return cells
			},
			wantRule: 6,
		},
		{
			name: "two adjacent pairs",
			mutate: func(cells [][]int) [][]int {
				cells[0][3] = 0
				cells[2][0] = 1
				return cells
			},
			wantRule: 6,
		},
		{
			name: "no treasure",
			mutate: func(cells [][]int) [][]int {
				cells[5][5] = 0
				return cells
			},
			wantRule: 7,
		},
		{
			name: "ten treasures",
			mutate: func(cells [][]int) [][]int {
				for _, coord := range [][2]int{{0, 1}, {0, 2}, {0, 4}, {0, 5}, {0, 6}, {0, 7}, {2, 2}, {2, 3}, {2, 4}} {
					cells[coord[0]][coord[1]] = 2
				}
				return cells
			},
			wantRule: 7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := Validate(tt.mutate(acceptedLayout()))
			require.False(t, res.OK, "expected rejection")
			require.Equal(t, tt.wantRule, res.Rule, "message: %s", res.Message)
			require.NotEmpty(t, res.Message)
		})
	}
}

func TestValidateDoesNotMutate(t *testing.T) {
	t.Parallel()

	cells := acceptedLayout()
	Validate(cells)
	require.Equal(t, acceptedLayout(), cells)
}
