package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Orientation selects the long axis of the panel.
type Orientation string

const (
	Horizontal Orientation = "horizontal"
	Vertical   Orientation = "vertical"
)

// TileKind distinguishes adopted dockapps from clickable launchers.
type TileKind string

const (
	KindDockapp  TileKind = "dockapp"
	KindLauncher TileKind = "launcher"
)

// DefaultBackground is the background tile image used when the config names
// none.
const DefaultBackground = "tile-default.png"

// Tile is one configured slot, in panel order.
type Tile struct {
	Type         TileKind `yaml:"type"`
	Command      string   `yaml:"command"`
	ResourceName string   `yaml:"resource_name"`
	Icon         string   `yaml:"icon"`
}

// Config is the effective, validated configuration.
type Config struct {
	TileSize    int
	Orientation Orientation
	OriginX     int
	OriginY     int
	AllDesktops bool
	AboveAll    bool
	Decorations uint
	Functions   uint
	Daemonize   bool
	Background  string
	Verbose     bool
	Tiles       []Tile
}

// Horizontal reports whether the panel grows along the X axis.
func (c *Config) Horizontal() bool {
	return c.Orientation == Horizontal
}

// DefaultConfig returns the built-in defaults. The tile list is empty and
// must come from the config file; Validate rejects a tile-less panel.
func DefaultConfig() *Config {
	return &Config{
		TileSize:    64,
		Orientation: Vertical,
		Background:  DefaultBackground,
	}
}

// DefaultConfigPath returns the standard config file location.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "godock", "config.yaml"), nil
}

// Validate checks the effective configuration for startup errors. These are
// all fatal: the panel refuses to start on a bad config.
func (c *Config) Validate() error {
	if c.TileSize <= 0 {
		return fmt.Errorf("tile_size: must be a positive integer, got %d", c.TileSize)
	}
	if c.Orientation != Horizontal && c.Orientation != Vertical {
		return fmt.Errorf("orientation: must be %q or %q, got %q", Horizontal, Vertical, c.Orientation)
	}
	if c.Background == "" {
		return fmt.Errorf("background: must not be empty")
	}
	if len(c.Tiles) == 0 {
		return fmt.Errorf("tiles: no tiles specified")
	}

	for i, tile := range c.Tiles {
		if tile.Command == "" {
			return fmt.Errorf("tiles[%d]: command is required", i)
		}
		switch tile.Type {
		case KindDockapp:
			if tile.ResourceName == "" {
				return fmt.Errorf("tiles[%d]: dockapp requires resource_name", i)
			}
			if tile.Icon != "" {
				return fmt.Errorf("tiles[%d]: icon is only valid for launcher tiles", i)
			}
		case KindLauncher:
			if tile.Icon == "" {
				return fmt.Errorf("tiles[%d]: launcher requires icon", i)
			}
			if tile.ResourceName != "" {
				return fmt.Errorf("tiles[%d]: resource_name is only valid for dockapp tiles", i)
			}
		default:
			return fmt.Errorf("tiles[%d]: type must be %q or %q, got %q", i, KindDockapp, KindLauncher, tile.Type)
		}
	}

	return nil
}
