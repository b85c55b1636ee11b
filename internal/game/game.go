package game

import (
	"context"
	"errors"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/amuleta/internal/entity"
	"github.com/samdwyer/amuleta/internal/logging"
	"github.com/samdwyer/amuleta/internal/metrics"
	"github.com/samdwyer/amuleta/internal/telemetry"
	"github.com/samdwyer/amuleta/internal/world"
)

// ErrAlreadyStarted is returned by Run on an engine that has already run.
var ErrAlreadyStarted = errors.New("game already started")

// Renderer draws one level and the actors standing on it.
type Renderer interface {
	Render(level *world.Level, actors []*entity.Actor)
	Sync()
}

// Input is a blocking source of terminal events.
type Input interface {
	PollEvent() tcell.Event
}

// Options carries the collaborators of a Game. Logger and Metrics may be nil.
type Options struct {
	Renderer Renderer
	Input    Input
	Logger   logging.Logger
	Metrics  *metrics.Collector
}

// Game is the turn engine. Each round gives every actor one turn in
// registry order, the player first.
type Game struct {
	session   *Session
	renderer  Renderer
	input     Input
	log       logging.Logger
	metrics   *metrics.Collector
	behaviors map[string]Behavior
	warned    map[string]bool
	state     State
	rounds    int
}

// New creates a turn engine over an initialized session.
func New(session *Session, opts Options) *Game {
	return &Game{
		session:  session,
		renderer: opts.Renderer,
		input:    opts.Input,
		log:      logging.OrNoop(opts.Logger),
		metrics:  opts.Metrics,
		behaviors: map[string]Behavior{
			BehaviorPlayer: playerBehavior{},
			BehaviorIdle:   idleBehavior{},
		},
		warned: make(map[string]bool),
		state:  StateNotRunning,
	}
}

// RegisterBehavior binds a behavior name, replacing any previous binding.
// Binding BehaviorPlayer replaces how the player takes its turn.
func (g *Game) RegisterBehavior(name string, b Behavior) {
	g.behaviors[name] = b
}

// State returns the current lifecycle state.
func (g *Game) State() State {
	return g.state
}

// Rounds returns the number of completed rounds.
func (g *Game) Rounds() int {
	return g.rounds
}

// Stop requests the engine to halt. No further actor acts once it returns,
// even in the middle of a round.
func (g *Game) Stop() {
	if g.state == StateRunning {
		g.state = StateStopped
	}
}

// Run executes rounds until a stop is requested or ctx is done.
func (g *Game) Run(ctx context.Context) error {
	if g.state != StateNotRunning {
		return ErrAlreadyStarted
	}
	g.state = StateRunning
	g.metrics.SetActors(g.session.Actors.Len())
	g.log.Info(ctx, "game started", logging.Int64("seed", g.session.Seed))

	for g.state == StateRunning {
		if err := ctx.Err(); err != nil {
			g.state = StateStopped
			return err
		}
		g.playRound(ctx)
	}

	g.log.Info(ctx, "game ended", logging.Int("rounds", g.rounds))
	return nil
}

// playRound gives each actor one turn. The registry length is read on every
// iteration so actors appended mid-round still act this round.
func (g *Game) playRound(ctx context.Context) {
	tracer := telemetry.Tracer("game")
	ctx, span := tracer.Start(ctx, "game.round")
	defer span.End()
	span.SetAttributes(attribute.Int("round", g.rounds+1))

	actors := g.session.Actors
	for i := 0; i < actors.Len(); i++ {
		a := actors.At(i)
		g.behaviorFor(ctx, a).Act(ctx, g, a)
		g.metrics.ObserveTurn(a.Behavior)

		if g.state != StateRunning {
			span.SetAttributes(
				attribute.Bool("round.aborted", true),
				attribute.Int("round.turns", i+1),
			)
			return
		}
	}

	g.rounds++
	g.metrics.ObserveRound()
	span.SetAttributes(attribute.Int("round.turns", actors.Len()))
}

// behaviorFor keys the player's turn on the player flag alone, so only the
// player ever reads input whatever the data files say.
func (g *Game) behaviorFor(ctx context.Context, a *entity.Actor) Behavior {
	if a.IsPlayer() {
		return g.behaviors[BehaviorPlayer]
	}
	if a.Behavior != BehaviorPlayer {
		if b, ok := g.behaviors[a.Behavior]; ok {
			return b
		}
	}
	if !g.warned[a.Behavior] {
		g.warned[a.Behavior] = true
		g.log.Warn(ctx, "unusable behavior, falling back to idle",
			logging.String("behavior", a.Behavior),
			logging.String("kind", a.Kind),
		)
	}
	return g.behaviors[BehaviorIdle]
}

// MoveActor moves a by (dx, dy) unless the destination is solid. Positions
// outside the level read as solid void, so an actor can never leave the grid.
// It reports whether the move was applied.
func (g *Game) MoveActor(ctx context.Context, a *entity.Actor, dx, dy int) bool {
	level, err := g.session.Level(a)
	if err != nil {
		g.log.Error(ctx, "actor on unknown level", logging.String("name", a.Name), logging.Err(err))
		g.metrics.ObserveMove(false)
		return false
	}

	x, y := a.X+dx, a.Y+dy
	if level.IsSolid(x, y) {
		g.log.Debug(ctx, "move blocked",
			logging.String("name", a.Name),
			logging.Int("x", x),
			logging.Int("y", y),
			logging.String("tile", level.At(x, y).Name()),
		)
		g.metrics.ObserveMove(false)
		return false
	}

	a.Move(dx, dy)
	g.metrics.ObserveMove(true)
	return true
}

func (g *Game) render(ctx context.Context, z int) {
	level, err := g.session.Dungeon.Level(z)
	if err != nil {
		g.log.Error(ctx, "render unknown level", logging.Int("z", z), logging.Err(err))
		return
	}
	g.renderer.Render(level, g.session.Actors.OnLevel(z))
}
