package dock

import (
	"fmt"
	"image"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/godock/godock/internal/config"
)

// Tile is one fixed slot in the panel grid. Dockapp tiles gain a window when
// their external process is adopted; launcher tiles own their window outright.
type Tile struct {
	Index        int
	Kind         config.TileKind
	Command      string
	ResourceName string
	Icon         image.Image
	Window       xproto.Window
	PID          int

	abandoned bool
}

// Pending reports whether a dockapp tile is still waiting to be matched to a
// created window. Abandoned tiles are never rematched.
func (t *Tile) Pending() bool {
	return t.Kind == config.KindDockapp && t.Window == 0 && !t.abandoned
}

// Abandoned reports whether icon resolution gave up on this tile.
func (t *Tile) Abandoned() bool {
	return t.abandoned
}

// Registry owns the fixed array of configured tiles for the process lifetime.
// It is only ever mutated from the single event-loop goroutine.
type Registry struct {
	tiles []Tile
}

// NewRegistry builds the tile table from validated configuration, decoding
// each launcher's icon image. An undecodable icon is a fatal startup error.
func NewRegistry(specs []config.Tile) (*Registry, error) {
	tiles := make([]Tile, len(specs))
	for i, spec := range specs {
		tiles[i] = Tile{
			Index:        i,
			Kind:         spec.Type,
			Command:      spec.Command,
			ResourceName: spec.ResourceName,
		}
		if spec.Type == config.KindLauncher {
			icon, err := LoadImage(spec.Icon)
			if err != nil {
				return nil, fmt.Errorf("failed to load icon %s: %w", spec.Icon, err)
			}
			tiles[i].Icon = icon
		}
	}
	return &Registry{tiles: tiles}, nil
}

// Len returns the number of configured tiles.
func (r *Registry) Len() int {
	return len(r.tiles)
}

// Get returns the tile at the given index.
func (r *Registry) Get(index int) *Tile {
	return &r.tiles[index]
}

// FindPendingByResourceName returns the first pending dockapp tile, in
// configuration order, whose resource name matches. Configuration order is
// the tie-break when two tiles share a name.
func (r *Registry) FindPendingByResourceName(name string) (int, bool) {
	for i := range r.tiles {
		if r.tiles[i].Pending() && r.tiles[i].ResourceName == name {
			return i, true
		}
	}
	return 0, false
}

// MarkAdopted records the adopted window for a tile. The transition from
// absent to present happens exactly once; a second call is a logic error.
func (r *Registry) MarkAdopted(index int, win xproto.Window) {
	t := &r.tiles[index]
	if t.Window != 0 {
		panic(fmt.Sprintf("tile %d adopted twice", index))
	}
	t.Window = win
}

// MarkAbandoned permanently excludes a dockapp tile from matching after icon
// resolution gave up. The tile keeps no window, so AllDockappsAdopted can
// never become true.
func (r *Registry) MarkAbandoned(index int) {
	r.tiles[index].abandoned = true
}

// SetPID records the process id spawned for a tile.
func (r *Registry) SetPID(index, pid int) {
	r.tiles[index].PID = pid
}

// AllDockappsAdopted reports whether every dockapp tile has an adopted
// window. Launcher tiles are excluded; with no dockapps it is vacuously true.
func (r *Registry) AllDockappsAdopted() bool {
	for i := range r.tiles {
		if r.tiles[i].Kind == config.KindDockapp && r.tiles[i].Window == 0 {
			return false
		}
	}
	return true
}

// PIDs returns the recorded positive process ids of all tracked children.
func (r *Registry) PIDs() []int {
	var pids []int
	for i := range r.tiles {
		if r.tiles[i].PID > 0 {
			pids = append(pids, r.tiles[i].PID)
		}
	}
	return pids
}
