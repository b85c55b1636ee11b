package world

import "math/rand"

const (
	// MapWidth and MapHeight are the dimensions of every level.
	MapWidth  = 80
	MapHeight = 20
)

// Level is a fixed-size grid of terrain prototypes representing one depth of
// the dungeon. Tiles are indexed [y][x].
type Level struct {
	Width  int
	Height int
	tiles  [][]*Tile
	free   int // number of non-solid cells
}

// NewLevel creates a level of the given size filled with void.
func NewLevel(width, height int) *Level {
	tiles := make([][]*Tile, height)
	for y := range tiles {
		tiles[y] = make([]*Tile, width)
		for x := range tiles[y] {
			tiles[y][x] = Void
		}
	}

	return &Level{
		Width:  width,
		Height: height,
		tiles:  tiles,
	}
}

// GenerateLevel builds a MapWidth x MapHeight level whose border is wall and
// whose interior is floor.
func GenerateLevel() *Level {
	l := NewLevel(MapWidth, MapHeight)
	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			if x == 0 || x == l.Width-1 || y == 0 || y == l.Height-1 {
				l.set(x, y, Wall)
			} else {
				l.set(x, y, Floor)
			}
		}
	}
	return l
}

// InBounds returns true if (x, y) lies on the grid.
func (l *Level) InBounds(x, y int) bool {
	return x >= 0 && x < l.Width && y >= 0 && y < l.Height
}

// At returns the tile at the given position. Positions off the grid are void.
func (l *Level) At(x, y int) *Tile {
	if !l.InBounds(x, y) {
		return Void
	}
	return l.tiles[y][x]
}

// IsSolid returns true if the given position blocks movement.
func (l *Level) IsSolid(x, y int) bool {
	return l.At(x, y).IsSolid()
}

// FreeTiles returns the number of non-solid cells.
func (l *Level) FreeTiles() int {
	return l.free
}

// RandomFreeTile samples uniform coordinates from rng until it finds a
// non-solid cell. ok is false only for a level with no free cells.
func (l *Level) RandomFreeTile(rng *rand.Rand) (x, y int, ok bool) {
	if l.free == 0 {
		return -1, -1, false
	}
	for {
		x = rng.Intn(l.Width)
		y = rng.Intn(l.Height)
		if !l.IsSolid(x, y) {
			return x, y, true
		}
	}
}

func (l *Level) set(x, y int, t *Tile) {
	old := l.tiles[y][x]
	if !old.IsSolid() {
		l.free--
	}
	if !t.IsSolid() {
		l.free++
	}
	l.tiles[y][x] = t
}
