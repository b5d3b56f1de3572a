package main

import (
	"context"
	"fmt"
	rand "math/rand/v2"
	"os"
	"runtime"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/lox/treasuresweep/board"
	"github.com/lox/treasuresweep/game"
	"github.com/lox/treasuresweep/internal/randutil"
)

// SimulateCmd plays batches of random games and reports how they end.
type SimulateCmd struct {
	Games     int    `default:"10000" help:"Number of games to play"`
	Rows      int    `default:"8" help:"Board rows"`
	Cols      int    `default:"8" help:"Board columns"`
	Mines     int    `default:"10" help:"Mines per board"`
	Treasures int    `default:"1" help:"Treasures per board"`
	Seed      *int64 `help:"Random seed for reproducible results"`
	Workers   int    `default:"0" help:"Worker goroutines (0 uses all CPUs)"`
}

var simHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("15"))

// simResult holds the aggregate outcomes from one worker's batch.
type simResult struct {
	games         int
	treasureWins  int
	clearWins     int
	mineLosses    int
	moves         int
	cellsRevealed int
}

func (r *simResult) add(other simResult) {
	r.games += other.games
	r.treasureWins += other.treasureWins
	r.clearWins += other.clearWins
	r.mineLosses += other.mineLosses
	r.moves += other.moves
	r.cellsRevealed += other.cellsRevealed
}

func (c *SimulateCmd) Run() error {
	if c.Games < 1 {
		return fmt.Errorf("games must be at least 1, got %d", c.Games)
	}

	var seed int64
	if c.Seed != nil {
		seed = *c.Seed
	} else {
		seed = time.Now().UnixNano()
	}
	rng := randutil.New(seed)

	workers := c.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > c.Games {
		workers = c.Games
	}

	gamesPerWorker := c.Games / workers
	remainder := c.Games % workers

	start := time.Now()

	g, ctx := errgroup.WithContext(context.Background())
	results := make(chan simResult, workers)

	for w := 0; w < workers; w++ {
		workerGames := gamesPerWorker
		if w < remainder {
			workerGames++ // Distribute remainder games
		}

		// Create independent RNG for each worker to avoid contention
		workerSeed := rng.Int64()

		g.Go(func() error {
			result, err := runSimWorker(c.Rows, c.Cols, c.Mines, c.Treasures, workerGames, randutil.New(workerSeed))
			if err != nil {
				return err
			}

			select {
			case results <- result:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}

	go func() {
		defer close(results)
		_ = g.Wait()
	}()

	var total simResult
	for result := range results {
		total.add(result)
	}
	if err := g.Wait(); err != nil {
		return err
	}

	printSimResults(total, seed, time.Since(start))
	return nil
}

// runSimWorker plays games with a uniform random click policy: each move
// reveals a uniformly chosen still-hidden cell until the game ends.
func runSimWorker(rows, cols, mines, treasures, games int, rng *rand.Rand) (simResult, error) {
	order := make([]int, rows*cols)
	for i := range order {
		order[i] = i
	}

	var res simResult
	for i := 0; i < games; i++ {
		gm, err := game.New(rng, rows, cols, mines, treasures)
		if err != nil {
			return simResult{}, err
		}

		// A pre-shuffled click order visits hidden cells uniformly;
		// cells a cascade already revealed are skipped.
		rng.Shuffle(len(order), func(a, b int) {
			order[a], order[b] = order[b], order[a]
		})

		for _, idx := range order {
			row, col := idx/cols, idx%cols
			cell, err := gm.At(row, col)
			if err != nil {
				return simResult{}, err
			}
			if cell.Revealed {
				continue
			}

			out, err := gm.Reveal(row, col)
			if err != nil {
				return simResult{}, err
			}
			res.moves++

			switch out.Outcome {
			case board.OutcomeMine:
				res.mineLosses++
			case board.OutcomeTreasure:
				res.treasureWins++
			case board.OutcomeRevealed:
				res.cellsRevealed += len(out.Cells)
				if gm.Status() == game.Won {
					res.clearWins++
				}
			}

			if gm.Status().Terminal() {
				break
			}
		}
		res.games++
	}
	return res, nil
}

// printSimResults displays the aggregate outcome shares using tabwriter
// for proper alignment.
func printSimResults(total simResult, seed int64, elapsed time.Duration) {
	share := func(n int) string {
		return fmt.Sprintf("%d (%.1f%%)", n, 100*float64(n)/float64(total.games))
	}

	fmt.Println(simHeaderStyle.Render("Simulation results"))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  games\t%d\n", total.games)
	fmt.Fprintf(w, "  treasure wins\t%s\n", share(total.treasureWins))
	fmt.Fprintf(w, "  board clears\t%s\n", share(total.clearWins))
	fmt.Fprintf(w, "  mine losses\t%s\n", share(total.mineLosses))
	fmt.Fprintf(w, "  mean moves per game\t%.1f\n", float64(total.moves)/float64(total.games))
	fmt.Fprintf(w, "  mean cells revealed\t%.1f\n", float64(total.cellsRevealed)/float64(total.games))
	fmt.Fprintf(w, "  seed\t%d\n", seed)
	fmt.Fprintf(w, "  elapsed\t%s\n", elapsed.Round(time.Millisecond))
	_ = w.Flush()
}
