// Package entity provides actors and the actor registry.
package entity

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/amuleta/internal/gamedata"
)

// Actor is a living entity controlled either by the user or by the computer.
type Actor struct {
	Kind     string      // Definition ID (e.g., "rat")
	Name     string      // Display name
	Behavior string      // Name of the behavior that takes this actor's turns
	Symbol   rune        // Display symbol
	Color    tcell.Color // Display color
	X, Y, Z  int         // Position: column, row, and dungeon depth
	HP       int         // Current hit points
	MaxHP    int         // Maximum hit points

	player bool
}

// NewActor creates an actor from a definition at the given position.
func NewActor(def *gamedata.ActorDef, x, y, z int) *Actor {
	return &Actor{
		Kind:     def.ID,
		Name:     def.Name,
		Behavior: def.Behavior,
		Symbol:   def.GlyphRune(),
		Color:    def.TCellColor(),
		X:        x,
		Y:        y,
		Z:        z,
		HP:       def.HP,
		MaxHP:    def.HP,
	}
}

// NewPlayer creates the user-controlled actor.
func NewPlayer(def *gamedata.ActorDef, x, y, z int) *Actor {
	a := NewActor(def, x, y, z)
	a.player = true
	return a
}

// IsPlayer reports whether this is the user-controlled actor. The flag is
// fixed at construction.
func (a *Actor) IsPlayer() bool { return a.player }

// Move updates the actor position by the given delta.
func (a *Actor) Move(dx, dy int) {
	a.X += dx
	a.Y += dy
}

// Position returns the current x, y, z coordinates.
func (a *Actor) Position() (int, int, int) {
	return a.X, a.Y, a.Z
}

// IsAlive returns true if the actor has HP remaining.
func (a *Actor) IsAlive() bool { return a.HP > 0 }
