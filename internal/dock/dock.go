package dock

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xwindow"
	"github.com/godock/godock/internal/config"
	"github.com/godock/godock/internal/proc"
	"github.com/godock/godock/internal/x11"
)

// Dock owns the host container window, the tile registry and the components
// operating on them. All mutation happens on the single event-loop goroutine.
type Dock struct {
	x         *x11.Connection
	cfg       *config.Config
	registry  *Registry
	renderer  *Renderer
	swallower *Swallower
	super     *proc.Supervisor
	container *xwindow.Window
	logger    *slog.Logger
}

// New creates the host container and launcher windows, binds their surfaces
// and wires the event callbacks. onComplete fires when the last dockapp has
// been adopted.
func New(x *x11.Connection, cfg *config.Config, registry *Registry,
	super *proc.Supervisor, background image.Image, logger *slog.Logger,
	onComplete func()) (*Dock, error) {

	d := &Dock{
		x:        x,
		cfg:      cfg,
		registry: registry,
		super:    super,
		logger:   logger,
	}

	if err := x.ListenRoot(); err != nil {
		return nil, fmt.Errorf("failed to select root notifications: %w", err)
	}

	if err := d.createContainer(); err != nil {
		return nil, err
	}

	d.renderer = NewRenderer(x.XUtil, registry, background,
		cfg.TileSize, cfg.Horizontal(), logger)
	if err := d.renderer.BindContainer(d.container.Id); err != nil {
		return nil, fmt.Errorf("failed to bind container surface: %w", err)
	}

	if err := d.createLaunchers(); err != nil {
		return nil, err
	}

	d.swallower = NewSwallower(x, registry, d.container.Id,
		cfg.TileSize, cfg.Horizontal(), logger, onComplete)

	xevent.CreateNotifyFun(func(xu *xgbutil.XUtil, ev xevent.CreateNotifyEvent) {
		d.swallower.HandleCreate(ev.Window)
	}).Connect(x.XUtil, x.Root)

	xevent.ExposeFun(func(xu *xgbutil.XUtil, ev xevent.ExposeEvent) {
		d.renderer.Repaint(ev.Window)
	}).Connect(x.XUtil, d.container.Id)

	x.Flush()

	return d, nil
}

// Container returns the host container window id.
func (d *Dock) Container() xproto.Window {
	return d.container.Id
}

func (d *Dock) createContainer() error {
	width, height := ContainerSize(d.registry.Len(), d.cfg.TileSize, d.cfg.Horizontal())

	win, err := xwindow.Generate(d.x.XUtil)
	if err != nil {
		return fmt.Errorf("failed to generate container window: %w", err)
	}

	white := d.x.XUtil.Screen().WhitePixel
	if err := win.CreateChecked(d.x.Root, d.cfg.OriginX, d.cfg.OriginY,
		width, height, xproto.CwBackPixel, white); err != nil {
		return fmt.Errorf("failed to create container window: %w", err)
	}

	d.x.SetName(win.Id, "godock")
	d.x.SetClassHint(win.Id, "godock", "GoDock")
	d.x.SetMotifHints(win.Id, d.cfg.Functions, d.cfg.Decorations)

	if d.cfg.AboveAll {
		d.x.SetAboveHint(win.Id)
	}
	if d.cfg.AllDesktops {
		d.x.SetAllDesktopsHint(win.Id)
	}

	win.Map()
	// Move again after mapping; a window manager may have repositioned the
	// window during the map.
	win.MoveResize(d.cfg.OriginX, d.cfg.OriginY, width, height)

	if err := win.Listen(xproto.EventMaskExposure | xproto.EventMaskStructureNotify); err != nil {
		return fmt.Errorf("failed to select container events: %w", err)
	}

	d.logger.Debug("created container window",
		"window", win.Id, "width", width, "height", height,
		"x", d.cfg.OriginX, "y", d.cfg.OriginY)

	d.container = win
	return nil
}

func (d *Dock) createLaunchers() error {
	for i := 0; i < d.registry.Len(); i++ {
		tile := d.registry.Get(i)
		if tile.Kind != config.KindLauncher {
			continue
		}

		pos := TilePosition(i, d.cfg.TileSize, d.cfg.Horizontal())

		win, err := xwindow.Generate(d.x.XUtil)
		if err != nil {
			return fmt.Errorf("failed to generate launcher window: %w", err)
		}
		white := d.x.XUtil.Screen().WhitePixel
		if err := win.CreateChecked(d.container.Id, pos.X, pos.Y,
			d.cfg.TileSize, d.cfg.TileSize, xproto.CwBackPixel, white); err != nil {
			return fmt.Errorf("failed to create launcher window: %w", err)
		}

		tile.Window = win.Id

		if err := win.Listen(xproto.EventMaskExposure | xproto.EventMaskButtonPress); err != nil {
			return fmt.Errorf("failed to select launcher events: %w", err)
		}
		win.Map()

		if err := d.renderer.BindLauncher(win.Id, tile.Icon); err != nil {
			return fmt.Errorf("failed to bind launcher surface: %w", err)
		}

		command := tile.Command
		xevent.ButtonPressFun(func(xu *xgbutil.XUtil, ev xevent.ButtonPressEvent) {
			d.super.Launch(command)
		}).Connect(d.x.XUtil, win.Id)

		xevent.ExposeFun(func(xu *xgbutil.XUtil, ev xevent.ExposeEvent) {
			d.renderer.Repaint(ev.Window)
		}).Connect(d.x.XUtil, win.Id)

		d.logger.Debug("created launcher window",
			"window", win.Id, "x", pos.X, "y", pos.Y)
	}
	return nil
}

// StartDockapps spawns the external command of every dockapp tile and records
// the child pids. A spawn failure is fatal.
func (d *Dock) StartDockapps() error {
	for i := 0; i < d.registry.Len(); i++ {
		tile := d.registry.Get(i)
		if tile.Kind != config.KindDockapp {
			continue
		}
		pid, err := d.super.Spawn(tile.Command)
		if err != nil {
			return fmt.Errorf("failed to start %s: %w", tile.Command, err)
		}
		d.registry.SetPID(i, pid)
		d.logger.Debug("started dockapp", "command", tile.Command, "pid", pid)
	}
	return nil
}

// Run executes the event loop until a termination signal arrives. OS signals
// are bridged into the loop through the ping handshake: while a signal is
// being handled the event dispatcher is blocked, so the registry keeps a
// single writer. A dying X11 connection takes the whole process down from
// inside the dispatcher; dockapp children are then terminated by their
// parent-death signal rather than by this loop.
func (d *Dock) Run() error {
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	pingBefore, pingAfter, _ := xevent.MainPing(d.x.XUtil)

	for {
		select {
		case <-pingBefore:
			<-pingAfter
		case sig := <-sigCh:
			// The dispatcher is parked on the ping handshake, so no event
			// handler can run concurrently with the shutdown path.
			d.logger.Info("received signal, terminating dockapps", "signal", sig.String())
			d.super.TerminateAll(d.registry.PIDs())
			return nil
		}
	}
}
