package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/motif"
)

// allDesktops is the _NET_WM_DESKTOP value for windows visible on every
// virtual desktop.
const allDesktops = 0xFFFFFFFF

// CheckWindowManager reports whether an EWMH-compliant window manager is
// active, by probing _NET_SUPPORTING_WM_CHECK on the root window. Absence of
// the property is a normal negative result.
func (c *Connection) CheckWindowManager() bool {
	wmWin, err := ewmh.SupportingWmCheckGet(c.XUtil, c.Root)
	if err != nil {
		return false
	}
	return wmWin != 0
}

// IconWindow returns the icon sub-window a dockapp advertises through its
// WM_HINTS. The second return value is false when the window declares no icon
// sub-window yet; callers are expected to retry.
func (c *Connection) IconWindow(win xproto.Window) (xproto.Window, bool) {
	hints, err := icccm.WmHintsGet(c.XUtil, win)
	if err != nil {
		return 0, false
	}
	if hints.Flags&icccm.HintIconWindow == 0 {
		return 0, false
	}
	return hints.IconWindow, true
}

// ResourceName returns the WM_CLASS instance name of a window. Newly created
// windows often have no class hint at all; that is reported as ok == false.
func (c *Connection) ResourceName(win xproto.Window) (string, bool) {
	class, err := icccm.WmClassGet(c.XUtil, win)
	if err != nil {
		return "", false
	}
	return class.Instance, true
}

// WindowSize returns the pixel dimensions of a window. On query failure both
// dimensions are zero; centering math degrades to the tile origin.
func (c *Connection) WindowSize(win xproto.Window) (int, int) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(win)).Reply()
	if err != nil {
		c.logger.Debug("failed to get window geometry", "window", win, "error", err)
		return 0, 0
	}
	c.logger.Debug("window geometry",
		"window", win, "width", geom.Width, "height", geom.Height)
	return int(geom.Width), int(geom.Height)
}

// SetName writes the WM_NAME property of a window.
func (c *Connection) SetName(win xproto.Window, name string) {
	icccm.WmNameSet(c.XUtil, win, name)
}

// SetClassHint writes the WM_CLASS property of a window.
func (c *Connection) SetClassHint(win xproto.Window, instance, class string) {
	icccm.WmClassSet(c.XUtil, win, &icccm.WmClass{
		Instance: instance,
		Class:    class,
	})
}

// SetMotifHints writes the _MOTIF_WM_HINTS property, declaring both the
// functions and decorations fields valid.
func (c *Connection) SetMotifHints(win xproto.Window, funcs, decor uint) {
	motif.WmHintsSet(c.XUtil, win, &motif.Hints{
		Flags:      motif.HintFunctions | motif.HintDecorations,
		Function:   funcs,
		Decoration: decor,
	})
}

// SetAllDesktopsHint marks a window as visible on all virtual desktops via
// _NET_WM_DESKTOP.
func (c *Connection) SetAllDesktopsHint(win xproto.Window) {
	ewmh.WmDesktopSet(c.XUtil, win, allDesktops)
	c.logger.Debug("set _NET_WM_DESKTOP hint", "window", win)
}

// SetAboveHint requests always-on-top stacking via _NET_WM_STATE_ABOVE.
func (c *Connection) SetAboveHint(win xproto.Window) {
	ewmh.WmStateSet(c.XUtil, win, []string{"_NET_WM_STATE_ABOVE"})
	c.logger.Debug("set _NET_WM_STATE_ABOVE hint", "window", win)
}
