// Package main is the entry point for Amuleta.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/samdwyer/amuleta/internal/config"
	"github.com/samdwyer/amuleta/internal/game"
	"github.com/samdwyer/amuleta/internal/gamedata"
	"github.com/samdwyer/amuleta/internal/logging"
	"github.com/samdwyer/amuleta/internal/metrics"
	"github.com/samdwyer/amuleta/internal/telemetry"
	"github.com/samdwyer/amuleta/internal/ui"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr, ui.NewScreen))
}

// run wires every component and plays one session, returning the exit code.
func run(args []string, stderr io.Writer, newScreen func() (*ui.Screen, error)) int {
	// Load .env file for local development. Variables already set win.
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(stderr, "Note: .env file not loaded: %v\n", err)
	}

	cfg, err := config.Load(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "amuleta: %v\n", err)
		return exitUsage
	}

	log, logFile, err := logging.Open(cfg.LogPath, cfg.Log)
	if err != nil {
		fmt.Fprintf(stderr, "amuleta: %v\n", err)
		return exitError
	}
	defer logFile.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Info(ctx, "starting",
		logging.Int64("seed", cfg.Seed),
		logging.Bool("seed_from_clock", cfg.SeedFromClock),
		logging.Int("monsters_per_level", cfg.MonstersPerLevel),
	)

	if cfg.Tracing.Exporter == telemetry.ExporterOTLP {
		config.ApplyHoneycombEnv()
	}
	shutdown, err := telemetry.Setup(ctx, cfg.Tracing, log)
	if err != nil {
		// Continue without telemetry - game still works
		log.Warn(ctx, "telemetry setup failed, running without tracing", logging.Err(err))
	} else {
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Error(ctx, "telemetry shutdown failed", logging.Err(err))
			}
		}()
	}

	var collector *metrics.Collector
	if cfg.MetricsAddr != "" {
		collector, err = metrics.NewCollector(prometheus.NewRegistry())
		if err != nil {
			log.Error(ctx, "metrics setup failed", logging.Err(err))
			return exitError
		}
		go func() {
			if err := collector.Serve(ctx, cfg.MetricsAddr); err != nil {
				log.Error(ctx, "metrics endpoint stopped", logging.String("addr", cfg.MetricsAddr), logging.Err(err))
			}
		}()
		log.Info(ctx, "serving metrics", logging.String("addr", cfg.MetricsAddr))
	}

	catalog, err := gamedata.LoadCatalog()
	if err != nil {
		log.Error(ctx, "failed to load actor definitions", logging.Err(err))
		fmt.Fprintf(stderr, "amuleta: %v\n", err)
		return exitError
	}

	screen, err := newScreen()
	if err != nil {
		log.Error(ctx, "failed to initialize terminal", logging.Err(err))
		fmt.Fprintf(stderr, "amuleta: %v\n", err)
		return exitError
	}
	if err := screen.CheckSize(); err != nil {
		screen.Close()
		log.Error(ctx, "terminal too small", logging.Err(err))
		fmt.Fprintf(stderr, "amuleta: %v\n", err)
		return exitError
	}

	session, err := game.NewSession(ctx, game.Config{
		Seed:             cfg.Seed,
		MonstersPerLevel: cfg.MonstersPerLevel,
	}, catalog, log)
	if err != nil {
		screen.Close()
		log.Error(ctx, "failed to initialize game", logging.Err(err))
		fmt.Fprintf(stderr, "amuleta: %v\n", err)
		return exitError
	}

	g := game.New(session, game.Options{
		Renderer: ui.NewRenderer(screen),
		Input:    screen,
		Logger:   log,
		Metrics:  collector,
	})
	runErr := g.Run(ctx)
	screen.Close()

	if runErr != nil {
		log.Error(ctx, "game error", logging.Err(runErr))
		fmt.Fprintf(stderr, "amuleta: %v\n", runErr)
		return exitError
	}
	log.Info(ctx, "terminated", logging.Int("rounds", g.Rounds()))
	return exitOK
}
