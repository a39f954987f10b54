package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"

	"github.com/godock/godock/internal/config"
	"github.com/godock/godock/internal/daemon"
	"github.com/godock/godock/internal/dock"
	"github.com/godock/godock/internal/proc"
	"github.com/godock/godock/internal/x11"
)

func main() {
	fs := flag.NewFlagSet("godock", flag.ExitOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: godock [OPTIONS]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "An X11 panel hosting dockapps and app launchers.")
		fmt.Fprintln(os.Stderr, "Tiles are configured in the config file; flags override global settings.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Options:")
		fs.PrintDefaults()
	}

	configPath := fs.String("config", "", "Config file path (default: ~/.config/godock/config.yaml)")
	tileSize := fs.Int("s", 64, "Tile size in pixels")
	background := fs.String("b", config.DefaultBackground, "Tile background image")
	horizontal := fs.Bool("H", false, "Use horizontal layout")
	originX := fs.Int("x", 0, "X coordinate")
	originY := fs.Int("y", 0, "Y coordinate")
	allDesktops := fs.Bool("a", false, "Show on all virtual desktops")
	aboveAll := fs.Bool("A", false, "Show on top of all windows")
	decorations := fs.String("D", "0x00", "Window decorations hints mask")
	functions := fs.String("f", "0x00", "Window functions hints mask")
	daemonize := fs.Bool("d", false, "Daemonize after swallowing all dockapps")
	verbose := fs.Bool("v", false, "Show debug messages")

	fs.Parse(os.Args[1:])
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "godock takes no arguments")
		fs.Usage()
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Flags set on the command line override the config file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "s":
			cfg.TileSize = *tileSize
		case "b":
			cfg.Background = *background
		case "H":
			if *horizontal {
				cfg.Orientation = config.Horizontal
			}
		case "x":
			cfg.OriginX = *originX
		case "y":
			cfg.OriginY = *originY
		case "a":
			cfg.AllDesktops = *allDesktops
		case "A":
			cfg.AboveAll = *aboveAll
		case "D":
			cfg.Decorations = parseMask(f.Name, *decorations)
		case "f":
			cfg.Functions = parseMask(f.Name, *functions)
		case "d":
			cfg.Daemonize = *daemonize
		case "v":
			cfg.Verbose = *verbose
		}
	})

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if cfg.Daemonize && !daemon.InChild() {
		if err := daemon.Run(); err != nil {
			log.Fatalf("Daemonization failed: %v", err)
		}
		os.Exit(0)
	}

	os.Exit(run(cfg))
}

func run(cfg *config.Config) int {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	bg, err := dock.LoadImage(cfg.Background)
	if err != nil {
		log.Fatalf("Failed to load background image: %v", err)
	}

	registry, err := dock.NewRegistry(cfg.Tiles)
	if err != nil {
		log.Fatalf("Failed to build tile registry: %v", err)
	}

	x, err := x11.NewConnection(logger)
	if err != nil {
		log.Fatalf("Cannot open display: %v", err)
	}
	defer x.Close()

	super := proc.NewSupervisor(logger)

	onComplete := func() {
		if !daemon.InChild() {
			return
		}
		if err := daemon.NotifyParent(); err != nil {
			logger.Warn("failed to notify daemon parent", "error", err)
		}
	}

	d, err := dock.New(x, cfg, registry, super, bg, logger, onComplete)
	if err != nil {
		log.Fatalf("Failed to create dock: %v", err)
	}

	if err := d.StartDockapps(); err != nil {
		log.Fatalf("Failed to start dockapps: %v", err)
	}

	if err := d.Run(); err != nil {
		logger.Error("event loop terminated", "error", err)
		return 1
	}
	return 0
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

func parseMask(name, value string) uint {
	mask, err := strconv.ParseUint(value, 0, 32)
	if err != nil {
		log.Fatalf("Invalid -%s mask %q: %v", name, value, err)
	}
	return uint(mask)
}
