package x11

import (
	"github.com/BurntSushi/xgb/xproto"
)

// Reparent makes win a child of parent at the given offset.
func (c *Connection) Reparent(win, parent xproto.Window, x, y int) {
	xproto.ReparentWindow(c.XUtil.Conn(), win, parent, int16(x), int16(y))
}

// MapRaised maps a window at the top of the stacking order.
func (c *Connection) MapRaised(win xproto.Window) {
	xproto.ConfigureWindow(c.XUtil.Conn(), win,
		xproto.ConfigWindowStackMode, []uint32{xproto.StackModeAbove})
	xproto.MapWindow(c.XUtil.Conn(), win)
}

// Unmap withdraws a window from the screen.
func (c *Connection) Unmap(win xproto.Window) {
	xproto.UnmapWindow(c.XUtil.Conn(), win)
}

// StripBorder sets a window's border width to zero.
func (c *Connection) StripBorder(win xproto.Window) {
	xproto.ConfigureWindow(c.XUtil.Conn(), win,
		xproto.ConfigWindowBorderWidth, []uint32{0})
}

// Flush forces all buffered requests to the server and waits for them to be
// processed. The swallow workaround depends on this barrier.
func (c *Connection) Flush() {
	c.XUtil.Sync()
}
