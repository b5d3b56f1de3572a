package server

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/treasuresweep/layout"
)

// Config represents the complete server configuration
type Config struct {
	Server ServerSettings `hcl:"server,block"`
	Levels []LevelConfig  `hcl:"level,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Host        string `hcl:"host,optional"`
	Port        int    `hcl:"port,optional"`
	LogLevel    string `hcl:"log_level,optional"`
	LogFile     string `hcl:"log_file,optional"`
	MaxSessions int    `hcl:"max_sessions,optional"`

	// Connection tuning; zero values select the package defaults.
	WriteWaitSeconds int `hcl:"write_wait_seconds,optional"`
	PongWaitSeconds  int `hcl:"pong_wait_seconds,optional"`

	// Seed for board generation. Zero seeds from the wall clock at startup.
	Seed int64 `hcl:"seed,optional"`
}

// LevelConfig defines a board preset clients can start games from
type LevelConfig struct {
	Name      string `hcl:"name,label"`
	Rows      int    `hcl:"rows,optional"`
	Cols      int    `hcl:"cols,optional"`
	Mines     int    `hcl:"mines,optional"`
	Treasures int    `hcl:"treasures,optional"`

	// LayoutFile switches the level to a fixed board read from a
	// validated layout file instead of random placement.
	LayoutFile string `hcl:"layout_file,optional"`
}

// DefaultConfig returns default server configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Host:        "localhost",
			Port:        8080,
			LogLevel:    "info",
			MaxSessions: 128,
		},
		Levels: []LevelConfig{
			{Name: "beginner", Rows: 8, Cols: 8, Mines: 10, Treasures: 1},
			{Name: "intermediate", Rows: 16, Cols: 16, Mines: 40, Treasures: 2},
			{Name: "expert", Rows: 30, Cols: 16, Mines: 99, Treasures: 3},
			{Name: "test", Rows: layout.Rows, Cols: layout.Cols, Mines: layout.Mines, Treasures: 1},
		},
	}
}

// LoadConfig loads server configuration from an HCL file. A missing file
// yields the defaults.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	if config.Server.Host == "" {
		config.Server.Host = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = "info"
	}
	if config.Server.MaxSessions == 0 {
		config.Server.MaxSessions = 128
	}
	if len(config.Levels) == 0 {
		config.Levels = DefaultConfig().Levels
	}

	return &config, nil
}

// Validate validates the server configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Server.MaxSessions < 1 {
		return fmt.Errorf("max_sessions must be positive, got %d", c.Server.MaxSessions)
	}

	if len(c.Levels) == 0 {
		return fmt.Errorf("at least one level must be configured")
	}

	seen := make(map[string]bool)
	for _, level := range c.Levels {
		if seen[level.Name] {
			return fmt.Errorf("duplicate level name: %s", level.Name)
		}
		seen[level.Name] = true

		if level.LayoutFile != "" {
			// Dimensions and counts come from the file; checked by
			// LoadLayouts at startup.
			continue
		}
		if level.Rows < 1 || level.Cols < 1 {
			return fmt.Errorf("level %s: dimensions must be positive", level.Name)
		}
		if level.Mines < 1 {
			return fmt.Errorf("level %s: at least one mine required", level.Name)
		}
		if level.Treasures < 1 {
			return fmt.Errorf("level %s: at least one treasure required", level.Name)
		}
		if level.Mines+level.Treasures >= level.Rows*level.Cols {
			return fmt.Errorf("level %s: mines and treasures leave no safe cells", level.Name)
		}
	}

	return nil
}

// LoadLayouts parses and validates every configured layout file. Called once
// at startup so a bad file fails the boot rather than the first new_game.
func (c *Config) LoadLayouts() (map[string][][]int, error) {
	layouts := make(map[string][][]int)
	for _, level := range c.Levels {
		if level.LayoutFile == "" {
			continue
		}
		cells, err := layout.ParseFile(level.LayoutFile)
		if err != nil {
			return nil, fmt.Errorf("level %s: %w", level.Name, err)
		}
		if result := layout.Validate(cells); !result.OK {
			return nil, fmt.Errorf("level %s: layout %s rejected by rule %d: %s",
				level.Name, level.LayoutFile, result.Rule, result.Message)
		}
		layouts[level.Name] = cells
	}
	return layouts, nil
}

// GetServerAddress returns the full server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetLevel returns a level configuration by name
func (c *Config) GetLevel(name string) *LevelConfig {
	for _, level := range c.Levels {
		if level.Name == name {
			return &level
		}
	}
	return nil
}
