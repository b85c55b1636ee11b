package gamedata

import (
	"errors"
	"fmt"
	"math/rand"
)

// Catalog holds the loaded player and monster definitions and provides
// weighted monster selection.
type Catalog struct {
	player      ActorDef
	monsters    []ActorDef
	totalWeight int
}

// NewCatalog validates the definitions in file and builds a catalog.
func NewCatalog(file ActorsFile) (*Catalog, error) {
	if err := validate(file.Player); err != nil {
		return nil, fmt.Errorf("player: %w", err)
	}
	if file.Player.Behavior != PlayerBehavior {
		return nil, fmt.Errorf("player: behavior must be %q, got %q", PlayerBehavior, file.Player.Behavior)
	}
	if len(file.Monsters) == 0 {
		return nil, errors.New("no monsters defined")
	}

	totalWeight := 0
	seen := make(map[string]bool, len(file.Monsters))
	for _, m := range file.Monsters {
		if err := validate(m); err != nil {
			return nil, fmt.Errorf("monster %q: %w", m.ID, err)
		}
		if m.Behavior == PlayerBehavior {
			return nil, fmt.Errorf("monster %q: behavior %q is reserved for the player", m.ID, PlayerBehavior)
		}
		if seen[m.ID] {
			return nil, fmt.Errorf("monster %q defined twice", m.ID)
		}
		if m.SpawnWeight < 0 {
			return nil, fmt.Errorf("monster %q: negative spawn weight", m.ID)
		}
		seen[m.ID] = true
		totalWeight += m.SpawnWeight
	}
	if totalWeight == 0 {
		return nil, errors.New("monster spawn weights sum to zero")
	}

	return &Catalog{
		player:      file.Player,
		monsters:    file.Monsters,
		totalWeight: totalWeight,
	}, nil
}

// LoadCatalog loads and validates the embedded actors.json.
func LoadCatalog() (*Catalog, error) {
	file, err := LoadActors()
	if err != nil {
		return nil, err
	}
	return NewCatalog(file)
}

// Player returns the player definition.
func (c *Catalog) Player() *ActorDef {
	return &c.player
}

// SpawnMonster selects a monster definition using weighted probability.
// It consumes exactly one value from rng.
func (c *Catalog) SpawnMonster(rng *rand.Rand) *ActorDef {
	roll := rng.Intn(c.totalWeight)

	cumulative := 0
	for i := range c.monsters {
		cumulative += c.monsters[i].SpawnWeight
		if roll < cumulative {
			return &c.monsters[i]
		}
	}

	return &c.monsters[len(c.monsters)-1]
}

// MonsterByID returns the monster definition with the given ID, or nil if not found.
func (c *Catalog) MonsterByID(id string) *ActorDef {
	for i := range c.monsters {
		if c.monsters[i].ID == id {
			return &c.monsters[i]
		}
	}
	return nil
}

func validate(d ActorDef) error {
	switch {
	case d.ID == "":
		return errors.New("missing id")
	case d.Glyph == "":
		return errors.New("missing glyph")
	case d.HP <= 0:
		return errors.New("hp must be positive")
	case d.Behavior == "":
		return errors.New("missing behavior")
	}
	if _, err := ParseHexColor(d.Color); err != nil {
		return err
	}
	return nil
}
