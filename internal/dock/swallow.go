package dock

import (
	"log/slog"
	"time"

	"github.com/BurntSushi/xgb/xproto"
)

const (
	// iconAttempts bounds how often a matched window is polled for its icon
	// sub-window before the tile is abandoned.
	iconAttempts = 2
	iconDelay    = 100 * time.Millisecond

	// wmSettleDelay gives an external window manager time to relinquish a
	// window between the unmap and the reparent. Reparenting a window the
	// window manager is still actively managing is unreliable.
	wmGraceDelay  = 100 * time.Millisecond
	wmSettleDelay = 50 * time.Millisecond
)

// Adopter is the slice of the X connection the swallower needs. Implemented
// by *x11.Connection; tests substitute a fake.
type Adopter interface {
	CheckWindowManager() bool
	IconWindow(win xproto.Window) (xproto.Window, bool)
	ResourceName(win xproto.Window) (string, bool)
	WindowSize(win xproto.Window) (int, int)
	StripBorder(win xproto.Window)
	Reparent(win, parent xproto.Window, x, y int)
	MapRaised(win xproto.Window)
	Unmap(win xproto.Window)
	Flush()
	StopRootNotify()
}

// Swallower matches newly created windows to pending dockapp tiles and
// reparents them into the host container.
type Swallower struct {
	x          Adopter
	registry   *Registry
	container  xproto.Window
	tileSize   int
	horizontal bool
	logger     *slog.Logger

	// sleep is time.Sleep, injectable for tests.
	sleep func(time.Duration)

	// onComplete fires once, when the last pending dockapp is adopted.
	onComplete func()
}

// NewSwallower creates the adoption state machine for the given registry and
// container window. onComplete may be nil.
func NewSwallower(x Adopter, registry *Registry, container xproto.Window,
	tileSize int, horizontal bool, logger *slog.Logger, onComplete func()) *Swallower {

	return &Swallower{
		x:          x,
		registry:   registry,
		container:  container,
		tileSize:   tileSize,
		horizontal: horizontal,
		logger:     logger,
		sleep:      time.Sleep,
		onComplete: onComplete,
	}
}

// HandleCreate consumes one window-creation notification. Windows without a
// class hint are ignored; otherwise the first pending dockapp tile with a
// matching resource name is adopted. At most one tile per notification.
func (s *Swallower) HandleCreate(win xproto.Window) {
	name, ok := s.x.ResourceName(win)
	if !ok {
		return
	}
	s.logger.Debug("window created", "window", win, "res_name", name)

	index, ok := s.registry.FindPendingByResourceName(name)
	if !ok {
		return
	}
	s.swallow(win, index)
}

// swallow runs the Matched -> Icon-Resolving -> Adopted sequence for one
// dockapp. When the icon sub-window never appears the tile is abandoned and
// left permanently without a window.
func (s *Swallower) swallow(mainWin xproto.Window, index int) {
	s.logger.Debug("swallowing dockapp", "main_window", mainWin, "index", index)

	wmRunning := s.x.CheckWindowManager()
	if wmRunning {
		s.logger.Warn("window manager detected, swallowing dockapp with workaround")
		s.sleep(wmGraceDelay)
	}

	iconWin, ok := s.waitIconWindow(mainWin)
	if !ok {
		s.logger.Warn("window has no icon window, skipping", "window", mainWin)
		s.registry.MarkAbandoned(index)
		return
	}

	s.x.StripBorder(iconWin)

	width, height := s.x.WindowSize(iconWin)
	tilePos := TilePosition(index, s.tileSize, s.horizontal)
	iconX := tilePos.X + CenterOffset(width, s.tileSize)
	iconY := tilePos.Y + CenterOffset(height, s.tileSize)

	// The main window is pushed two tile sizes along the cross axis, out of
	// the visible grid, while its icon occupies the tile.
	mainX, mainY := iconX, s.tileSize*2
	if !s.horizontal {
		mainX, mainY = s.tileSize*2, iconY
	}

	if wmRunning {
		// Unmap first and give the window manager time to let go before
		// reparenting.
		s.x.Unmap(mainWin)
		s.x.Unmap(iconWin)
		s.x.Flush()
		s.sleep(wmSettleDelay)
		s.x.Reparent(mainWin, s.container, mainX, mainY)
		s.x.Reparent(iconWin, s.container, iconX, iconY)
		s.x.Flush()
		s.sleep(wmSettleDelay)
	}

	// Reparent again unconditionally. The workaround branch may race with
	// the window manager; this second pass is idempotent and makes the
	// sequence correct with or without one.
	s.x.Reparent(mainWin, s.container, mainX, mainY)
	s.x.Reparent(iconWin, s.container, iconX, iconY)
	s.x.MapRaised(mainWin)
	s.x.MapRaised(iconWin)
	s.x.Flush()

	s.registry.MarkAdopted(index, iconWin)
	s.logger.Debug("swallowed window", "icon_window", iconWin, "x", iconX, "y", iconY)

	if s.registry.AllDockappsAdopted() {
		s.logger.Debug("all dockapps swallowed")
		s.x.StopRootNotify()
		if s.onComplete != nil {
			s.onComplete()
		}
	}
}

// waitIconWindow polls the main window's hints for an icon sub-window,
// sleeping between attempts. Dockapps often advertise the icon shortly after
// creating their top-level window.
func (s *Swallower) waitIconWindow(win xproto.Window) (xproto.Window, bool) {
	for i := 0; i < iconAttempts; i++ {
		if icon, ok := s.x.IconWindow(win); ok {
			return icon, true
		}
		s.logger.Debug("waiting for icon window", "window", win)
		s.sleep(iconDelay)
	}
	return 0, false
}
