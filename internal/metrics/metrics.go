// Package metrics exposes Prometheus counters for the turn engine.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Move outcomes used as the "result" label of amuleta_moves_total.
const (
	MoveApplied = "applied"
	MoveBlocked = "blocked"
)

// Collector bundles the game's Prometheus metrics. A nil *Collector is valid
// and records nothing.
type Collector struct {
	gatherer prometheus.Gatherer

	Rounds prometheus.Counter
	Turns  *prometheus.CounterVec
	Moves  *prometheus.CounterVec
	Actors prometheus.Gauge
}

// NewCollector registers the game metrics against reg, defaulting to the
// global Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	rounds := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "amuleta_rounds_total",
		Help: "Completed passes over the actor registry.",
	})
	rounds, err := register(reg, rounds, "amuleta_rounds_total")
	if err != nil {
		return nil, err
	}

	turns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "amuleta_turns_total",
		Help: "Actor turns dispatched, labeled by behavior.",
	}, []string{"behavior"})
	turns, err = register(reg, turns, "amuleta_turns_total")
	if err != nil {
		return nil, err
	}

	moves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "amuleta_moves_total",
		Help: "Movement attempts, labeled by result.",
	}, []string{"result"})
	moves, err = register(reg, moves, "amuleta_moves_total")
	if err != nil {
		return nil, err
	}

	actors := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "amuleta_actors",
		Help: "Current number of actors in the registry.",
	})
	actors, err = register(reg, actors, "amuleta_actors")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer: gatherer,
		Rounds:   rounds,
		Turns:    turns,
		Moves:    moves,
		Actors:   actors,
	}, nil
}

// ObserveRound counts one completed round.
func (c *Collector) ObserveRound() {
	if c == nil {
		return
	}
	c.Rounds.Inc()
}

// ObserveTurn counts one dispatched turn for the named behavior.
func (c *Collector) ObserveTurn(behavior string) {
	if c == nil {
		return
	}
	c.Turns.WithLabelValues(behavior).Inc()
}

// ObserveMove counts a movement attempt.
func (c *Collector) ObserveMove(applied bool) {
	if c == nil {
		return
	}
	result := MoveBlocked
	if applied {
		result = MoveApplied
	}
	c.Moves.WithLabelValues(result).Inc()
}

// SetActors records the current registry size.
func (c *Collector) SetActors(n int) {
	if c == nil {
		return
	}
	c.Actors.Set(float64(n))
}

// Handler exposes the collector's gatherer over HTTP.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

// Serve runs a /metrics endpoint on addr until ctx is cancelled.
func (c *Collector) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return c.serve(ctx, ln)
}

func (c *Collector) serve(ctx context.Context, ln net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// register returns the already registered collector of the same name when
// one exists.
func register[T prometheus.Collector](reg prometheus.Registerer, c T, name string) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
			return c, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return c, err
	}
	return c, nil
}
