package world

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/amuleta/internal/telemetry"
)

// DungeonDepth is the number of levels in every dungeon.
const DungeonDepth = 10

// ErrLevelOutOfRange is returned when a depth outside the dungeon is requested.
var ErrLevelOutOfRange = errors.New("level out of range")

// Dungeon is the ordered set of levels of one play session, shallowest first.
type Dungeon struct {
	levels []*Level
}

// GenerateDungeon creates DungeonDepth levels. Every level currently has the
// same bordered layout; generation consumes no randomness.
func GenerateDungeon(ctx context.Context) *Dungeon {
	tracer := telemetry.Tracer("world")
	_, span := tracer.Start(ctx, "dungeon.generate")
	defer span.End()

	startTime := time.Now()

	d := &Dungeon{levels: make([]*Level, DungeonDepth)}
	for z := range d.levels {
		d.levels[z] = GenerateLevel()
	}

	span.SetAttributes(
		attribute.Int("dungeon.depth", len(d.levels)),
		attribute.Int("dungeon.width", MapWidth),
		attribute.Int("dungeon.height", MapHeight),
		attribute.Int64("dungeon.generation_ms", time.Since(startTime).Milliseconds()),
	)
	return d
}

// Depth returns the number of levels.
func (d *Dungeon) Depth() int {
	return len(d.levels)
}

// Level returns the level at depth z.
func (d *Dungeon) Level(z int) (*Level, error) {
	if z < 0 || z >= len(d.levels) {
		return nil, fmt.Errorf("depth %d of %d: %w", z, len(d.levels), ErrLevelOutOfRange)
	}
	return d.levels[z], nil
}
