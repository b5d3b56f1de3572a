package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/treasuresweep/board"
	"github.com/lox/treasuresweep/layout"
)

// ValidateCmd checks fixed-layout files against the structural rules.
type ValidateCmd struct {
	Files []string `arg:"" type:"existingfile" help:"Layout files to validate"`
	Quiet bool     `short:"q" help:"Suppress output, report through the exit code only"`
}

var (
	// Style definitions
	fileStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	acceptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	rejectStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
)

func (c *ValidateCmd) Run() error {
	rejected := 0
	for _, path := range c.Files {
		cells, err := layout.ParseFile(path)
		if err != nil {
			rejected++
			if !c.Quiet {
				fmt.Printf("%s: %s\n", fileStyle.Render(path), rejectStyle.Render(err.Error()))
			}
			continue
		}

		if res := layout.Validate(cells); !res.OK {
			rejected++
			if !c.Quiet {
				verdict := fmt.Sprintf("rejected by rule %d: %s", res.Rule, res.Message)
				fmt.Printf("%s: %s\n", fileStyle.Render(path), rejectStyle.Render(verdict))
			}
			continue
		}

		if !c.Quiet {
			fmt.Printf("%s: %s\n", fileStyle.Render(path), acceptStyle.Render("accepted"))
			printLayoutSummary(cells)
		}
	}

	if rejected > 0 {
		return fmt.Errorf("%d of %d layouts rejected", rejected, len(c.Files))
	}
	return nil
}

// printLayoutSummary prints the piece counts using tabwriter for alignment.
func printLayoutSummary(cells [][]int) {
	mines, treasures := 0, 0
	for _, row := range cells {
		for _, v := range row {
			switch v {
			case board.CellMine:
				mines++
			case board.CellTreasure:
				treasures++
			}
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  rows\t%d\n", len(cells))
	fmt.Fprintf(w, "  cols\t%d\n", len(cells[0]))
	fmt.Fprintf(w, "  mines\t%d\n", mines)
	fmt.Fprintf(w, "  treasures\t%d\n", treasures)
	_ = w.Flush()
}
