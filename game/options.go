package game

import "github.com/coder/quartz"

// Option configures a Game during creation.
type Option func(*gameConfig)

// gameConfig holds all optional configuration for creating a game. It is
// retained by the game so Restart rebuilds with the same settings.
type gameConfig struct {
	clock     quartz.Clock
	observers []Observer
	fixed     [][]int
}

func defaultGameConfig() gameConfig {
	return gameConfig{clock: quartz.NewReal()}
}

// withConfig reuses a resolved configuration wholesale. Restart uses it so
// the replacement game keeps the clock, observers and layout of the
// original.
func withConfig(cfg gameConfig) Option {
	return func(c *gameConfig) {
		*c = cfg
	}
}

// WithFixedLayout builds the board from a validated matrix instead of
// random placement. Mine and treasure counts are derived from the matrix,
// and every Restart reproduces the identical board.
func WithFixedLayout(cells [][]int) Option {
	return func(c *gameConfig) {
		c.fixed = cells
	}
}

// WithClock injects the clock used for the elapsed-time anchor. Defaults to
// the real clock; tests pass *quartz.Mock.
func WithClock(clock quartz.Clock) Option {
	return func(c *gameConfig) {
		c.clock = clock
	}
}

// WithObserver attaches an observer. May be given multiple times; observers
// are notified in attachment order after each state change.
func WithObserver(obs Observer) Option {
	return func(c *gameConfig) {
		c.observers = append(c.observers, obs)
	}
}
