// Package statistics aggregates counters across every session the server
// hosts. The collector is shared by all connections, so all state sits
// behind one RWMutex and readers get detached copies.
package statistics

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// GameResult is the outcome of one finished game.
type GameResult struct {
	Level      string        // level name the game was created from
	Won        bool          // true for treasure or full-clear wins
	ByTreasure bool          // won by finding the treasure rather than clearing
	Duration   time.Duration // first reveal to the terminal reveal
	Revealed   int           // safe cells revealed when the game ended
	Flags      int           // flags placed when the game ended
}

// LevelStats tracks per-level game outcomes.
type LevelStats struct {
	Games  int `json:"games"`
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

// Snapshot is a detached copy of every counter, shaped for the stats
// protocol message.
type Snapshot struct {
	SessionsOpened int `json:"sessionsOpened"`
	SessionsClosed int `json:"sessionsClosed"`
	ActiveSessions int `json:"activeSessions"`

	GamesStarted int `json:"gamesStarted"`
	GamesWon     int `json:"gamesWon"`
	GamesLost    int `json:"gamesLost"`
	TreasureWins int `json:"treasureWins"`
	ClearWins    int `json:"clearWins"`
	Restarts     int `json:"restarts"`

	CellsRevealed int `json:"cellsRevealed"`
	FlagsPlaced   int `json:"flagsPlaced"`

	FastestWinMs int64 `json:"fastestWinMs"`
	AverageWinMs int64 `json:"averageWinMs"`

	Levels map[string]LevelStats `json:"levels"`
}

// Collector accumulates server-wide gameplay counters.
type Collector struct {
	mu sync.RWMutex

	sessionsOpened int
	sessionsClosed int

	gamesStarted int
	gamesWon     int
	gamesLost    int
	treasureWins int
	restarts     int

	cellsRevealed int
	flagsPlaced   int

	fastestWin   time.Duration
	totalWinTime time.Duration

	levels map[string]*LevelStats
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{
		levels: make(map[string]*LevelStats),
	}
}

// SessionOpened records a new websocket session.
func (c *Collector) SessionOpened() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessionsOpened++
}

// SessionClosed records a session teardown.
func (c *Collector) SessionClosed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessionsClosed++
}

// GameStarted records a game leaving the not-started state.
func (c *Collector) GameStarted(level string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gamesStarted++
	c.levelStats(level).Games++
}

// Restarted records a restart of an existing session's game.
func (c *Collector) Restarted() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.restarts++
}

// CellsRevealed adds n to the revealed-cell counter. Cascades report the
// whole flood at once.
func (c *Collector) CellsRevealed(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cellsRevealed += n
}

// FlagPlaced records a flag toggle that left a flag on the board.
func (c *Collector) FlagPlaced() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flagsPlaced++
}

// RecordGame folds a finished game into the counters.
func (c *Collector) RecordGame(result GameResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.levelStats(result.Level)
	if result.Won {
		c.gamesWon++
		stats.Wins++
		if result.ByTreasure {
			c.treasureWins++
		}
		if result.Duration > 0 {
			c.totalWinTime += result.Duration
			if c.fastestWin == 0 || result.Duration < c.fastestWin {
				c.fastestWin = result.Duration
			}
		}
	} else {
		c.gamesLost++
		stats.Losses++
	}
}

// levelStats returns the mutable per-level entry; callers hold the lock.
func (c *Collector) levelStats(level string) *LevelStats {
	if level == "" {
		level = "unknown"
	}
	stats, ok := c.levels[level]
	if !ok {
		stats = &LevelStats{}
		c.levels[level] = stats
	}
	return stats
}

// Snapshot returns a detached copy of every counter.
func (c *Collector) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := Snapshot{
		SessionsOpened: c.sessionsOpened,
		SessionsClosed: c.sessionsClosed,
		ActiveSessions: c.sessionsOpened - c.sessionsClosed,
		GamesStarted:   c.gamesStarted,
		GamesWon:       c.gamesWon,
		GamesLost:      c.gamesLost,
		TreasureWins:   c.treasureWins,
		ClearWins:      c.gamesWon - c.treasureWins,
		Restarts:       c.restarts,
		CellsRevealed:  c.cellsRevealed,
		FlagsPlaced:    c.flagsPlaced,
		FastestWinMs:   c.fastestWin.Milliseconds(),
		Levels:         make(map[string]LevelStats, len(c.levels)),
	}
	if c.gamesWon > 0 {
		snap.AverageWinMs = (c.totalWinTime / time.Duration(c.gamesWon)).Milliseconds()
	}
	for name, stats := range c.levels {
		snap.Levels[name] = *stats
	}
	return snap
}

// Summary returns a formatted multi-line report, logged on shutdown.
func (c *Collector) Summary() string {
	snap := c.Snapshot()
	if snap.GamesStarted == 0 {
		return "no games played"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "sessions: %d opened, %d closed\n", snap.SessionsOpened, snap.SessionsClosed)
	fmt.Fprintf(&b, "games: %d started, %d won (%d treasure, %d clear), %d lost, %d restarts\n",
		snap.GamesStarted, snap.GamesWon, snap.TreasureWins, snap.ClearWins, snap.GamesLost, snap.Restarts)
	fmt.Fprintf(&b, "activity: %d cells revealed, %d flags placed\n", snap.CellsRevealed, snap.FlagsPlaced)
	if snap.GamesWon > 0 {
		fmt.Fprintf(&b, "wins: fastest %dms, average %dms\n", snap.FastestWinMs, snap.AverageWinMs)
	}

	names := make([]string, 0, len(snap.Levels))
	for name := range snap.Levels {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		stats := snap.Levels[name]
		fmt.Fprintf(&b, "level %s: %d games, %d wins, %d losses\n", name, stats.Games, stats.Wins, stats.Losses)
	}
	return strings.TrimRight(b.String(), "\n")
}
