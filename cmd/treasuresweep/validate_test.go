package main

import (
	"os"
	"path/filepath"
	"testing"
)

const validLayout = `1,0,0,1,0,0,0,0
0,0,0,0,0,1,1,0
0,1,0,0,0,0,0,0
0,0,0,0,1,0,0,0
0,0,0,0,0,0,0,1
0,0,1,0,0,2,0,0
0,0,0,0,0,1,0,0
0,0,0,1,0,0,0,0
`

func writeLayout(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "layout.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write layout: %v", err)
	}
	return path
}

func TestValidateCmdAccepts(t *testing.T) {
	t.Parallel()

	cmd := &ValidateCmd{Files: []string{writeLayout(t, validLayout)}, Quiet: true}
	if err := cmd.Run(); err != nil {
		t.Errorf("expected accept, got %v", err)
	}
}

func TestValidateCmdRejectsBadStructure(t *testing.T) {
	t.Parallel()

	cmd := &ValidateCmd{Files: []string{writeLayout(t, "0,0,0\n")}, Quiet: true}
	if err := cmd.Run(); err == nil {
		t.Error("expected rejection error")
	}
}

func TestValidateCmdRejectsMalformedFile(t *testing.T) {
	t.Parallel()

	cmd := &ValidateCmd{Files: []string{writeLayout(t, "1,x,0\n")}, Quiet: true}
	if err := cmd.Run(); err == nil {
		t.Error("expected parse error")
	}
}
