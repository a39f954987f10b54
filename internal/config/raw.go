package config

// RawConfig mirrors the YAML file. All scalar fields are pointers so that an
// absent key is distinguishable from a zero value when applying defaults.
type RawConfig struct {
	TileSize    *int         `yaml:"tile_size"`
	Orientation *Orientation `yaml:"orientation"`
	OriginX     *int         `yaml:"origin_x"`
	OriginY     *int         `yaml:"origin_y"`
	AllDesktops *bool        `yaml:"all_desktops"`
	AboveAll    *bool        `yaml:"above_all"`
	Decorations *uint        `yaml:"decorations"`
	Functions   *uint        `yaml:"functions"`
	Daemonize   *bool        `yaml:"daemonize"`
	Background  *string      `yaml:"background"`
	Verbose     *bool        `yaml:"verbose"`
	Tiles       []Tile       `yaml:"tiles"`
}

func (r RawConfig) apply(cfg *Config) {
	if r.TileSize != nil {
		cfg.TileSize = *r.TileSize
	}
	if r.Orientation != nil {
		cfg.Orientation = *r.Orientation
	}
	if r.OriginX != nil {
		cfg.OriginX = *r.OriginX
	}
	if r.OriginY != nil {
		cfg.OriginY = *r.OriginY
	}
	if r.AllDesktops != nil {
		cfg.AllDesktops = *r.AllDesktops
	}
	if r.AboveAll != nil {
		cfg.AboveAll = *r.AboveAll
	}
	if r.Decorations != nil {
		cfg.Decorations = *r.Decorations
	}
	if r.Functions != nil {
		cfg.Functions = *r.Functions
	}
	if r.Daemonize != nil {
		cfg.Daemonize = *r.Daemonize
	}
	if r.Background != nil {
		cfg.Background = *r.Background
	}
	if r.Verbose != nil {
		cfg.Verbose = *r.Verbose
	}
	if r.Tiles != nil {
		cfg.Tiles = r.Tiles
	}
}
