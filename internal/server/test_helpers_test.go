package server

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
)

// testLogger creates a logger that discards output for tests
func testLogger() *log.Logger {
	return log.New(io.Discard)
}

// acceptedLayoutCSV is an 8x8 layout that passes every validation rule:
// ten mines covering all rows and columns, one diagonal mine, one adjacent
// pair and a single treasure.
const acceptedLayoutCSV = `1,0,0,1,0,0,0,0
0,0,0,0,0,1,1,0
0,1,0,0,0,0,0,0
0,0,0,0,1,0,0,0
0,0,0,0,0,0,0,1
0,0,1,0,0,2,0,0
0,0,0,0,0,1,0,0
0,0,0,1,0,0,0,0
`

// writeTestLayout writes the accepted layout to a temp file.
func writeTestLayout(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "layout.csv")
	if err := os.WriteFile(path, []byte(acceptedLayoutCSV), 0o644); err != nil {
		t.Fatalf("failed to write layout file: %v", err)
	}
	return path
}

// testConfig returns a config with a deterministic seed, a random level and
// a fixed-layout level backed by a temp file.
func testConfig(t *testing.T) *Config {
	t.Helper()

	return &Config{
		Server: ServerSettings{
			Host:        "localhost",
			Port:        8080,
			LogLevel:    "info",
			MaxSessions: 16,
			Seed:        42,
		},
		Levels: []LevelConfig{
			{Name: "beginner", Rows: 8, Cols: 8, Mines: 10, Treasures: 1},
			{Name: "test", LayoutFile: writeTestLayout(t)},
		},
	}
}
