package dock

// Position is a pixel offset inside the host container window.
type Position struct {
	X int
	Y int
}

// TilePosition maps a tile index to its pixel origin inside the container.
// The panel grows along the X axis when horizontal, along Y otherwise.
func TilePosition(index, tileSize int, horizontal bool) Position {
	if horizontal {
		return Position{X: index * tileSize, Y: 0}
	}
	return Position{X: 0, Y: index * tileSize}
}

// ContainerSize returns the container dimensions for a panel of count tiles:
// the long axis scales with the tile count, the short axis is one tile.
func ContainerSize(count, tileSize int, horizontal bool) (width, height int) {
	if horizontal {
		return count * tileSize, tileSize
	}
	return tileSize, count * tileSize
}

// CenterOffset returns the offset that centers a window of the given inner
// dimension within a tile cell. A zero or oversized dimension collapses to
// zero, placing the window flush at the tile origin.
func CenterOffset(inner, tileSize int) int {
	if inner <= 0 || inner >= tileSize {
		return 0
	}
	return (tileSize - inner) / 2
}
