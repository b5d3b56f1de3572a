package main

import (
	"fmt"
	"os"

	"github.com/lox/treasuresweep/cmd/treasuresweep/shared"
	"github.com/lox/treasuresweep/internal/server"
)

// ServeCmd runs the WebSocket session service.
type ServeCmd struct {
	Config   string `short:"c" default:"treasuresweep.hcl" help:"Path to HCL configuration file"`
	Host     string `help:"Bind host (overrides config)"`
	Port     int    `help:"Bind port (overrides config)"`
	LogLevel string `short:"l" help:"Log level (overrides config)"`
	Seed     *int64 `help:"Deterministic RNG seed for the server (optional)"`
	Debug    bool   `help:"Enable debug logging"`
}

func (c *ServeCmd) Run() error {
	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return err
	}

	// Apply command line overrides
	if c.Host != "" {
		cfg.Server.Host = c.Host
	}
	if c.Port != 0 {
		cfg.Server.Port = c.Port
	}
	if c.LogLevel != "" {
		cfg.Server.LogLevel = c.LogLevel
	}
	if c.Debug {
		cfg.Server.LogLevel = "debug"
	}
	if c.Seed != nil {
		cfg.Server.Seed = *c.Seed
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := shared.SetupLogger(cfg.Server.LogLevel)
	if cfg.Server.LogFile != "" {
		f, err := os.OpenFile(cfg.Server.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logger.SetOutput(f)
	}

	srv, err := server.NewServer(cfg, logger)
	if err != nil {
		return err
	}

	logger.Info("Starting treasuresweep server",
		"addr", cfg.GetServerAddress(),
		"levels", len(cfg.Levels),
		"maxSessions", cfg.Server.MaxSessions)

	ctx := shared.SetupSignalContext()

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down server...")
		if err := srv.Stop(); err != nil {
			return err
		}
		fmt.Println(srv.Stats().Summary())
		return nil
	case err := <-serverErr:
		return err
	}
}
