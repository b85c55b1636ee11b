package game

import (
	"context"
	"fmt"
	"math/rand"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/amuleta/internal/entity"
	"github.com/samdwyer/amuleta/internal/gamedata"
	"github.com/samdwyer/amuleta/internal/logging"
	"github.com/samdwyer/amuleta/internal/telemetry"
	"github.com/samdwyer/amuleta/internal/world"
)

// Session holds all state of one play session: the dungeon, every actor,
// and the seeded random stream that generated them.
type Session struct {
	Seed    int64
	Dungeon *world.Dungeon
	Actors  *entity.Registry

	cfg     Config
	rng     *rand.Rand
	catalog *gamedata.Catalog
	log     logging.Logger
}

// NewSession generates the dungeon, creates the player, and populates every
// level. All randomness is drawn from a single stream seeded by cfg.Seed.
func NewSession(ctx context.Context, cfg Config, catalog *gamedata.Catalog, log logging.Logger) (*Session, error) {
	tracer := telemetry.Tracer("game")
	ctx, span := tracer.Start(ctx, "game.init")
	defer span.End()

	s := &Session{
		Seed:    cfg.Seed,
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(cfg.Seed)),
		catalog: catalog,
		log:     logging.OrNoop(log),
	}
	s.log.Info(ctx, "random seed chosen", logging.Int64("seed", cfg.Seed))

	s.Dungeon = world.GenerateDungeon(ctx)
	s.log.Debug(ctx, "finished creating the dungeon", logging.Int("depth", s.Dungeon.Depth()))

	player := CreatePlayer(catalog.Player())
	actors, err := entity.NewRegistry(player)
	if err != nil {
		return nil, err
	}
	s.Actors = actors

	for z := 0; z < s.Dungeon.Depth(); z++ {
		if err := s.PopulateLevel(ctx, z); err != nil {
			return nil, fmt.Errorf("populate level %d: %w", z, err)
		}
	}

	span.SetAttributes(
		attribute.Int64("game.seed", cfg.Seed),
		attribute.Int("game.actors", s.Actors.Len()),
		attribute.Int("player.start_x", player.X),
		attribute.Int("player.start_y", player.Y),
	)
	s.log.Debug(ctx, "finished initializing game session", logging.Int("actors", s.Actors.Len()))
	return s, nil
}

// CreatePlayer builds the player actor at the center of the top level.
func CreatePlayer(def *gamedata.ActorDef) *entity.Actor {
	return entity.NewPlayer(def, world.MapWidth/2, world.MapHeight/2, 0)
}

// PopulateLevel appends MonstersPerLevel monsters to the tail of the actor
// registry, each on an independently drawn free tile of level z.
func (s *Session) PopulateLevel(ctx context.Context, z int) error {
	tracer := telemetry.Tracer("game")
	_, span := tracer.Start(ctx, "level.populate")
	defer span.End()
	span.SetAttributes(attribute.Int("level", z))

	level, err := s.Dungeon.Level(z)
	if err != nil {
		return err
	}

	for i := 0; i < s.cfg.MonstersPerLevel; i++ {
		def := s.catalog.SpawnMonster(s.rng)
		x, y, ok := level.RandomFreeTile(s.rng)
		if !ok {
			return fmt.Errorf("level %d has no free tile", z)
		}
		if err := s.Actors.Append(entity.NewActor(def, x, y, z)); err != nil {
			return err
		}
	}

	span.SetAttributes(attribute.Int("monsters", s.cfg.MonstersPerLevel))
	return nil
}

// Level returns the level the given actor stands on.
func (s *Session) Level(a *entity.Actor) (*world.Level, error) {
	return s.Dungeon.Level(a.Z)
}
