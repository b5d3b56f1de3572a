// Package layout parses and validates externally supplied board layouts.
//
// A layout file is a text table of comma-separated integers, one board row
// per line, using the cell values from the board package (0 empty, 1 mine,
// 2 treasure). Parse only builds the integer matrix; Validate applies the
// structural rules a fixed layout must satisfy before it is handed to
// board.GenerateFixed.
package layout

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Structural requirements for a fixed layout.
const (
	Rows         = 8
	Cols         = 8
	Mines        = 10
	MinTreasures = 1
	MaxTreasures = 9
)

var ErrMalformed = errors.New("layout: malformed input")

// Parse reads a layout table from r. Blank lines and lines starting with
// '#' are skipped; whitespace around values is tolerated. Parse does not
// apply the structural rules, so ragged or oversized tables come back as-is
// for Validate to reject.
func Parse(r io.Reader) ([][]int, error) {
	var cells [][]int
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Split(text, ",")
		row := make([]int, 0, len(fields))
		for i, field := range fields {
			v, err := strconv.Atoi(strings.TrimSpace(field))
			if err != nil {
				return nil, fmt.Errorf("%w: line %d value %d %q", ErrMalformed, line, i+1, strings.TrimSpace(field))
			}
			row = append(row, v)
		}
		cells = append(cells, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("layout: read: %w", err)
	}
	if len(cells) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrMalformed)
	}
	return cells, nil
}

// ParseFile reads a layout table from the file at path.
func ParseFile(path string) ([][]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("layout: open %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}
