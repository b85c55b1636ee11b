package entity

import (
	"errors"
	"slices"
)

var (
	// ErrNoPlayer is returned when a registry is created without a player actor.
	ErrNoPlayer = errors.New("registry requires a player actor")
	// ErrDuplicatePlayer is returned when a second player actor is appended.
	ErrDuplicatePlayer = errors.New("registry already holds a player actor")
	// ErrRemovePlayer is returned when removal of the player is requested.
	ErrRemovePlayer = errors.New("the player actor cannot be removed")
	// ErrNilActor is returned when a nil actor is appended or removed.
	ErrNilActor = errors.New("nil actor")
	// ErrUnknownActor is returned when removing an actor the registry does not hold.
	ErrUnknownActor = errors.New("actor not in registry")
)

// Registry is the insertion-ordered collection of every actor in a session.
// Turn order follows insertion order. Exactly one actor is the player.
type Registry struct {
	actors []*Actor
	player int // index of the player in actors
}

// NewRegistry creates a registry whose first actor is the given player.
func NewRegistry(player *Actor) (*Registry, error) {
	if player == nil || !player.IsPlayer() {
		return nil, ErrNoPlayer
	}
	return &Registry{
		actors: []*Actor{player},
		player: 0,
	}, nil
}

// Append adds a non-player actor at the tail of the registry.
func (r *Registry) Append(a *Actor) error {
	if a == nil {
		return ErrNilActor
	}
	if a.IsPlayer() {
		return ErrDuplicatePlayer
	}
	r.actors = append(r.actors, a)
	return nil
}

// Remove deletes a non-player actor, preserving the order of the rest.
func (r *Registry) Remove(a *Actor) error {
	if a == nil {
		return ErrNilActor
	}
	if a.IsPlayer() {
		return ErrRemovePlayer
	}
	i := slices.Index(r.actors, a)
	if i < 0 {
		return ErrUnknownActor
	}
	r.actors = slices.Delete(r.actors, i, i+1)
	if i < r.player {
		r.player--
	}
	return nil
}

// Player returns the player actor. It is the same pointer held in the
// registry, not a copy.
func (r *Registry) Player() *Actor {
	return r.actors[r.player]
}

// Len returns the number of actors.
func (r *Registry) Len() int {
	return len(r.actors)
}

// At returns the actor at turn-order position i, or nil if out of range.
func (r *Registry) At(i int) *Actor {
	if i < 0 || i >= len(r.actors) {
		return nil
	}
	return r.actors[i]
}

// All returns a snapshot of the actors in turn order.
func (r *Registry) All() []*Actor {
	return slices.Clone(r.actors)
}

// OnLevel returns the actors on depth z in turn order.
func (r *Registry) OnLevel(z int) []*Actor {
	var result []*Actor
	for _, a := range r.actors {
		if a.Z == z {
			result = append(result, a)
		}
	}
	return result
}

// ActorAt returns the first actor at the given position, or nil.
func (r *Registry) ActorAt(x, y, z int) *Actor {
	for _, a := range r.actors {
		if a.X == x && a.Y == y && a.Z == z {
			return a
		}
	}
	return nil
}

// PlayerCount returns how many actors carry the player flag.
func (r *Registry) PlayerCount() int {
	n := 0
	for _, a := range r.actors {
		if a.IsPlayer() {
			n++
		}
	}
	return n
}
