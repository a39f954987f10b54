package x11

import (
	"log/slog"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// Connection manages the X11 connection and core X resources.
type Connection struct {
	XUtil  *xgbutil.XUtil
	Root   xproto.Window
	logger *slog.Logger
}

// NewConnection establishes a connection to the X11 server.
func NewConnection(logger *slog.Logger) (*Connection, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, err
	}

	c := &Connection{
		XUtil:  xu,
		Root:   xu.RootWin(),
		logger: logger,
	}

	// A dockapp can destroy its window between the CreateNotify and our
	// follow-up property queries. The resulting BadWindow errors are a
	// normal race, not a fault.
	xevent.ErrorHandlerSet(xu, func(err xgb.Error) {
		if _, ok := err.(xproto.WindowError); ok {
			logger.Debug("ignoring BadWindow error", "error", err)
			return
		}
		logger.Debug("X11 error", "error", err)
	})

	return c, nil
}

// ListenRoot subscribes to window-creation notifications on the root window.
func (c *Connection) ListenRoot() error {
	return xwindow.New(c.XUtil, c.Root).Listen(xproto.EventMaskSubstructureNotify)
}

// StopRootNotify stops delivery of window-creation notifications and drops
// the callbacks attached to the root window.
func (c *Connection) StopRootNotify() {
	xproto.ChangeWindowAttributes(c.XUtil.Conn(), c.Root,
		xproto.CwEventMask, []uint32{0})
	xevent.Detach(c.XUtil, c.Root)
}

// Close cleanly disconnects from the X11 server.
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
