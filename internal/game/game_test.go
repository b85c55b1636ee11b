package game

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/samdwyer/amuleta/internal/entity"
	"github.com/samdwyer/amuleta/internal/gamedata"
	"github.com/samdwyer/amuleta/internal/logging"
	"github.com/samdwyer/amuleta/internal/metrics"
	"github.com/samdwyer/amuleta/internal/ui"
	"github.com/samdwyer/amuleta/internal/world"
)

// scriptedInput replays events, then presses Q forever.
type scriptedInput struct {
	events []tcell.Event
	polls  int
}

func (s *scriptedInput) PollEvent() tcell.Event {
	s.polls++
	if len(s.events) == 0 {
		return key('Q')
	}
	ev := s.events[0]
	s.events = s.events[1:]
	return ev
}

type recordingRenderer struct {
	renders int
	syncs   int
	level   *world.Level
	actors  []*entity.Actor
}

func (r *recordingRenderer) Render(level *world.Level, actors []*entity.Actor) {
	r.renders++
	r.level = level
	r.actors = actors
}

func (r *recordingRenderer) Sync() { r.syncs++ }

func key(ch rune) tcell.Event {
	return tcell.NewEventKey(tcell.KeyRune, ch, tcell.ModNone)
}

func repeat(ev tcell.Event, n int) []tcell.Event {
	events := make([]tcell.Event, n)
	for i := range events {
		events[i] = ev
	}
	return events
}

func behaviorCatalog(t *testing.T, behavior string) *gamedata.Catalog {
	t.Helper()
	catalog, err := gamedata.NewCatalog(gamedata.ActorsFile{
		Player: gamedata.ActorDef{ID: "player", Name: "You", Glyph: "@", Color: "#FFFFFF", HP: 1, Behavior: BehaviorPlayer},
		Monsters: []gamedata.ActorDef{
			{ID: "rat", Name: "Rat", Glyph: "r", Color: "#A0522D", HP: 1, SpawnWeight: 1, Behavior: behavior},
		},
	})
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	return catalog
}

func newGame(t *testing.T, session *Session, events ...tcell.Event) (*Game, *scriptedInput, *recordingRenderer) {
	t.Helper()
	input := &scriptedInput{events: events}
	renderer := &recordingRenderer{}
	return New(session, Options{Renderer: renderer, Input: input}), input, renderer
}

func TestMoveRightFromStart(t *testing.T) {
	s := newSession(t, DefaultConfig(42), loadCatalog(t))
	g, _, _ := newGame(t, s, key('l'))

	if err := g.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	p := s.Actors.Player()
	if p.X != 41 || p.Y != 10 {
		t.Errorf("player at (%d,%d), want (41,10)", p.X, p.Y)
	}
	if g.State() != StateStopped {
		t.Errorf("State() = %v, want stopped", g.State())
	}
}

func TestMovementStopsAtWalls(t *testing.T) {
	tests := []struct {
		name  string
		key   tcell.Event
		times int
		wantX int
		wantY int
	}{
		{"up", key('k'), 15, 40, 1},
		{"down", tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone), 15, 40, world.MapHeight - 2},
		{"left", key('h'), 60, 1, 10},
		{"right", tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone), 60, world.MapWidth - 2, 10},
	}

	catalog := loadCatalog(t)
	for _, tt := range tests {
		s := newSession(t, DefaultConfig(42), catalog)
		g, _, _ := newGame(t, s, repeat(tt.key, tt.times)...)

		if err := g.Run(context.Background()); err != nil {
			t.Fatalf("%s: Run() error = %v", tt.name, err)
		}

		p := s.Actors.Player()
		if p.X != tt.wantX || p.Y != tt.wantY {
			t.Errorf("%s: player at (%d,%d), want (%d,%d)", tt.name, p.X, p.Y, tt.wantX, tt.wantY)
		}
	}
}

func TestMoveActorRejectsSolidTiles(t *testing.T) {
	s := newSession(t, Config{Seed: 1}, loadCatalog(t))
	g, _, _ := newGame(t, s)
	ctx := context.Background()

	p := s.Actors.Player()
	p.X, p.Y = 1, 1

	if g.MoveActor(ctx, p, 0, -1) {
		t.Error("MoveActor() into the wall should be rejected")
	}
	if g.MoveActor(ctx, p, -5, -5) {
		t.Error("MoveActor() off the grid should be rejected")
	}
	if p.X != 1 || p.Y != 1 {
		t.Errorf("rejected moves changed position to (%d,%d)", p.X, p.Y)
	}
	if !g.MoveActor(ctx, p, 1, 1) {
		t.Error("MoveActor() onto floor should succeed")
	}
	if p.X != 2 || p.Y != 2 {
		t.Errorf("player at (%d,%d), want (2,2)", p.X, p.Y)
	}

	p.Z = world.DungeonDepth
	if g.MoveActor(ctx, p, 1, 0) {
		t.Error("MoveActor() on an unknown level should be rejected")
	}
	if p.X != 2 {
		t.Errorf("player moved on unknown level to x=%d", p.X)
	}
}

func TestQuitHaltsMidRound(t *testing.T) {
	var turns int
	s := newSession(t, Config{Seed: 42, MonstersPerLevel: 3}, behaviorCatalog(t, "counter"))
	g, input, _ := newGame(t, s, key('Q'))
	g.RegisterBehavior("counter", BehaviorFunc(func(context.Context, *Game, *entity.Actor) { turns++ }))

	if err := g.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if turns != 0 {
		t.Errorf("%d monsters acted after the player quit, want 0", turns)
	}
	if g.Rounds() != 0 {
		t.Errorf("Rounds() = %d, want 0", g.Rounds())
	}
	if input.polls != 1 {
		t.Errorf("input polled %d times, want 1", input.polls)
	}
}

func TestEveryActorActsOncePerRound(t *testing.T) {
	var turns int
	s := newSession(t, Config{Seed: 42, MonstersPerLevel: 3}, behaviorCatalog(t, "counter"))
	g, _, _ := newGame(t, s, key('x'), key('x'))
	g.RegisterBehavior("counter", BehaviorFunc(func(context.Context, *Game, *entity.Actor) { turns++ }))

	if err := g.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := 2 * 3 * world.DungeonDepth
	if turns != want {
		t.Errorf("monster turns = %d, want %d", turns, want)
	}
	if g.Rounds() != 2 {
		t.Errorf("Rounds() = %d, want 2", g.Rounds())
	}
}

func TestStopFromMonsterTurn(t *testing.T) {
	var turns int
	s := newSession(t, Config{Seed: 42, MonstersPerLevel: 3}, behaviorCatalog(t, "stopper"))
	g, _, _ := newGame(t, s, key('x'))
	g.RegisterBehavior("stopper", BehaviorFunc(func(_ context.Context, g *Game, _ *entity.Actor) {
		turns++
		if turns == 5 {
			g.Stop()
		}
	}))

	if err := g.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if turns != 5 {
		t.Errorf("monster turns = %d, want 5", turns)
	}
}

func TestUnknownBehaviorFallsBackToIdle(t *testing.T) {
	var buf bytes.Buffer
	s := newSession(t, Config{Seed: 42, MonstersPerLevel: 2}, behaviorCatalog(t, "wander"))
	input := &scriptedInput{events: []tcell.Event{key('x'), key('x')}}
	g := New(s, Options{
		Renderer: &recordingRenderer{},
		Input:    input,
		Logger:   logging.New(&buf, logging.Config{Level: "debug"}),
	})

	before := make([][2]int, s.Actors.Len())
	for i, a := range s.Actors.All() {
		before[i] = [2]int{a.X, a.Y}
	}

	if err := g.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := strings.Count(buf.String(), "unusable behavior"); got != 1 {
		t.Errorf("unknown behavior warned %d times, want 1:\n%s", got, buf.String())
	}
	for i := 1; i < s.Actors.Len(); i++ {
		if a := s.Actors.At(i); before[i] != [2]int{a.X, a.Y} {
			t.Errorf("monster %d with unknown behavior moved", i)
		}
	}
	if g.Rounds() != 2 {
		t.Errorf("Rounds() = %d, want 2", g.Rounds())
	}
}

func TestPlayerFlagDecidesWhoReadsInput(t *testing.T) {
	tests := []struct {
		name            string
		playerBehavior  string
		monsterBehavior string
	}{
		{"player tagged idle", BehaviorIdle, BehaviorIdle},
		{"monsters tagged player", BehaviorPlayer, BehaviorPlayer},
		{"both swapped", BehaviorIdle, BehaviorPlayer},
	}

	for _, tt := range tests {
		s := newSession(t, Config{Seed: 42, MonstersPerLevel: 2}, loadCatalog(t))
		for _, a := range s.Actors.All() {
			if a.IsPlayer() {
				a.Behavior = tt.playerBehavior
			} else {
				a.Behavior = tt.monsterBehavior
			}
		}
		g, input, renderer := newGame(t, s, key('l'))

		if err := g.Run(context.Background()); err != nil {
			t.Fatalf("%s: Run() error = %v", tt.name, err)
		}

		if input.polls != 2 {
			t.Errorf("%s: input polled %d times over one full round and a quit, want 2", tt.name, input.polls)
		}
		if renderer.renders != 2 {
			t.Errorf("%s: renders = %d, want 2", tt.name, renderer.renders)
		}
		if p := s.Actors.Player(); p.X != 41 || p.Y != 10 {
			t.Errorf("%s: player at (%d,%d), want (41,10)", tt.name, p.X, p.Y)
		}
		if g.Rounds() != 1 {
			t.Errorf("%s: Rounds() = %d, want 1", tt.name, g.Rounds())
		}
	}
}

func TestPlayerTurnRendersOwnLevel(t *testing.T) {
	s := newSession(t, DefaultConfig(42), loadCatalog(t))
	g, _, renderer := newGame(t, s, tcell.NewEventResize(100, 40))

	if err := g.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if renderer.renders != 2 {
		t.Errorf("renders = %d, want one per player turn (2)", renderer.renders)
	}
	if renderer.syncs != 1 {
		t.Errorf("syncs = %d, want 1 after resize", renderer.syncs)
	}
	level, _ := s.Dungeon.Level(0)
	if renderer.level != level {
		t.Error("player turn rendered a level other than its own")
	}
	if got, want := len(renderer.actors), 1+DefaultMonstersPerLevel; got != want {
		t.Errorf("rendered %d actors, want %d on level 0", got, want)
	}
}

func TestRunTwice(t *testing.T) {
	s := newSession(t, Config{Seed: 1}, loadCatalog(t))
	g, _, _ := newGame(t, s)

	if err := g.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if err := g.Run(context.Background()); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Run() error = %v, want ErrAlreadyStarted", err)
	}
}

func TestRunHonoursCancelledContext(t *testing.T) {
	s := newSession(t, Config{Seed: 1}, loadCatalog(t))
	g, input, _ := newGame(t, s)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := g.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if input.polls != 0 {
		t.Errorf("input polled %d times after cancellation", input.polls)
	}
	if g.State() != StateStopped {
		t.Errorf("State() = %v, want stopped", g.State())
	}
}

func TestStopBeforeRunIsNoop(t *testing.T) {
	s := newSession(t, Config{Seed: 1}, loadCatalog(t))
	g, _, _ := newGame(t, s)

	g.Stop()
	if g.State() != StateNotRunning {
		t.Errorf("State() after early Stop = %v, want not_running", g.State())
	}
}

func TestRunRecordsMetrics(t *testing.T) {
	collector, err := metrics.NewCollector(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewCollector() error = %v", err)
	}
	s := newSession(t, Config{Seed: 42, MonstersPerLevel: 1}, loadCatalog(t))
	g := New(s, Options{
		Renderer: &recordingRenderer{},
		Input:    &scriptedInput{events: []tcell.Event{key('l')}},
		Metrics:  collector,
	})

	if err := g.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := testutil.ToFloat64(collector.Rounds); got != 1 {
		t.Errorf("rounds = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.Turns.WithLabelValues(BehaviorPlayer)); got != 2 {
		t.Errorf("player turns = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.Moves.WithLabelValues(metrics.MoveApplied)); got != 1 {
		t.Errorf("applied moves = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.Actors); got != float64(s.Actors.Len()) {
		t.Errorf("actors = %v, want %d", got, s.Actors.Len())
	}
}

func TestRunOnSimulationScreen(t *testing.T) {
	sim := tcell.NewSimulationScreen("UTF-8")
	screen, err := ui.NewScreenFrom(sim)
	if err != nil {
		t.Fatalf("NewScreenFrom() error = %v", err)
	}
	defer screen.Close()
	sim.SetSize(ui.MinTerminalWidth, ui.MinTerminalHeight)

	s := newSession(t, Config{Seed: 42}, loadCatalog(t))
	g := New(s, Options{Renderer: ui.NewRenderer(screen), Input: screen})

	sim.InjectKey(tcell.KeyRight, 0, tcell.ModNone)
	sim.InjectKey(tcell.KeyRune, 'Q', tcell.ModNone)

	if err := g.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	p := s.Actors.Player()
	if p.X != 41 || p.Y != 10 {
		t.Errorf("player at (%d,%d), want (41,10)", p.X, p.Y)
	}
	if ch, _, _, _ := sim.GetContent(41, 10); ch != '@' {
		t.Errorf("cell (41,10) = %q, want @", ch)
	}
}
