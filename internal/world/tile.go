// Package world provides terrain, levels, and dungeon generation.
package world

import "github.com/gdamore/tcell/v2"

// Flags is a set of terrain properties.
type Flags uint8

const (
	// FlagSolid marks terrain that blocks movement.
	FlagSolid Flags = 1 << iota
	// FlagOpaque marks terrain that blocks line of sight.
	FlagOpaque
)

// Tile is an immutable terrain prototype. Levels hold pointers to the
// package-level prototypes; tiles are never copied per cell.
type Tile struct {
	name  string
	glyph rune
	color tcell.Color
	flags Flags
}

// The three terrain prototypes.
var (
	Void  = &Tile{name: "void", glyph: ' ', color: tcell.ColorBlack, flags: FlagSolid}
	Floor = &Tile{name: "floor", glyph: '.', color: tcell.ColorWhite}
	Wall  = &Tile{name: "wall", glyph: '#', color: tcell.ColorYellow, flags: FlagSolid | FlagOpaque}
)

// Name returns the prototype name.
func (t *Tile) Name() string { return t.name }

// Rune returns the tile's display character.
func (t *Tile) Rune() rune { return t.glyph }

// Color returns the tile's foreground color.
func (t *Tile) Color() tcell.Color { return t.color }

// IsSolid returns true if the tile blocks movement.
func (t *Tile) IsSolid() bool { return t.flags&FlagSolid != 0 }

// IsOpaque returns true if the tile blocks line of sight.
func (t *Tile) IsOpaque() bool { return t.flags&FlagOpaque != 0 }
