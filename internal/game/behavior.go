package game

import (
	"context"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/amuleta/internal/entity"
	"github.com/samdwyer/amuleta/internal/gamedata"
	"github.com/samdwyer/amuleta/internal/logging"
)

// Behavior names bound by default.
const (
	BehaviorPlayer = gamedata.PlayerBehavior
	BehaviorIdle   = "idle"
)

// Behavior decides what an actor does with its turn.
type Behavior interface {
	Act(ctx context.Context, g *Game, a *entity.Actor)
}

// BehaviorFunc adapts a plain function to the Behavior interface.
type BehaviorFunc func(ctx context.Context, g *Game, a *entity.Actor)

// Act calls f(ctx, g, a).
func (f BehaviorFunc) Act(ctx context.Context, g *Game, a *entity.Actor) {
	f(ctx, g, a)
}

// playerBehavior shows the actor's level, then blocks for one input event
// and applies it.
type playerBehavior struct{}

func (playerBehavior) Act(ctx context.Context, g *Game, a *entity.Actor) {
	g.render(ctx, a.Z)

	switch ev := g.input.PollEvent().(type) {
	case *tcell.EventKey:
		g.handleKey(ctx, a, ev)
	case *tcell.EventResize:
		g.renderer.Sync()
	case nil:
		// The input source has been finalized.
		g.log.Warn(ctx, "input closed, stopping")
		g.Stop()
	}
}

// idleBehavior does nothing with its turn.
type idleBehavior struct{}

func (idleBehavior) Act(context.Context, *Game, *entity.Actor) {}

func (g *Game) handleKey(ctx context.Context, a *entity.Actor, ev *tcell.EventKey) {
	cmd := CommandFor(ev)
	switch cmd.Action {
	case ActionQuit:
		g.log.Info(ctx, "exit requested")
		g.Stop()
	case ActionMove:
		g.MoveActor(ctx, a, cmd.DX, cmd.DY)
	default:
		g.log.Debug(ctx, "unbound key", logging.String("key", ev.Name()))
	}
}
