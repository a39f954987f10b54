package dock

import (
	"image"
	"image/draw"
	"log/slog"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xgraphics"
	"github.com/godock/godock/internal/config"
)

// Renderer owns the pixel surfaces behind the container and launcher
// windows. Each surface is composited once at startup; expose events only
// repaint it.
type Renderer struct {
	xu         *xgbutil.XUtil
	registry   *Registry
	background image.Image
	tileSize   int
	horizontal bool
	logger     *slog.Logger

	surfaces map[xproto.Window]*xgraphics.Image
}

// NewRenderer creates a renderer for the given background tile image.
func NewRenderer(xu *xgbutil.XUtil, registry *Registry, background image.Image,
	tileSize int, horizontal bool, logger *slog.Logger) *Renderer {

	return &Renderer{
		xu:         xu,
		registry:   registry,
		background: background,
		tileSize:   tileSize,
		horizontal: horizontal,
		logger:     logger,
		surfaces:   make(map[xproto.Window]*xgraphics.Image),
	}
}

// BindContainer composites the background tile behind every non-launcher
// slot and binds the result to the container window. Launcher slots are
// covered by their own sub-windows, dockapp icons by the adopted windows the
// display server stacks on top.
func (r *Renderer) BindContainer(win xproto.Window) error {
	width, height := ContainerSize(r.registry.Len(), r.tileSize, r.horizontal)
	img := xgraphics.New(r.xu, image.Rect(0, 0, width, height))

	for i := 0; i < r.registry.Len(); i++ {
		if r.registry.Get(i).Kind == config.KindLauncher {
			continue
		}
		pos := TilePosition(i, r.tileSize, r.horizontal)
		r.drawBackground(img, pos)
	}

	return r.bind(win, img)
}

// BindLauncher composites the background plus the centered launcher icon and
// binds the result to the launcher's own window.
func (r *Renderer) BindLauncher(win xproto.Window, icon image.Image) error {
	img := xgraphics.New(r.xu, image.Rect(0, 0, r.tileSize, r.tileSize))
	r.drawBackground(img, Position{})

	bounds := icon.Bounds()
	x := CenterOffset(bounds.Dx(), r.tileSize)
	y := CenterOffset(bounds.Dy(), r.tileSize)
	rect := image.Rect(x, y, x+bounds.Dx(), y+bounds.Dy())
	draw.Draw(img, rect, icon, bounds.Min, draw.Over)

	return r.bind(win, img)
}

// Repaint handles an expose event by repainting the surface bound to the
// exposed window. Unknown windows are ignored.
func (r *Renderer) Repaint(win xproto.Window) {
	img, ok := r.surfaces[win]
	if !ok {
		return
	}
	img.XPaint(win)
}

func (r *Renderer) drawBackground(img *xgraphics.Image, pos Position) {
	bounds := r.background.Bounds()
	rect := image.Rect(pos.X, pos.Y, pos.X+bounds.Dx(), pos.Y+bounds.Dy())
	draw.Draw(img, rect, r.background, bounds.Min, draw.Src)
}

func (r *Renderer) bind(win xproto.Window, img *xgraphics.Image) error {
	if err := img.XSurfaceSet(win); err != nil {
		return err
	}
	img.XDraw()
	img.XPaint(win)
	r.surfaces[win] = img
	return nil
}
