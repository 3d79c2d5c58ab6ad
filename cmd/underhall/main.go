// Command underhall runs a deterministic simulation of the world for a fixed
// number of turns and writes a save snapshot. Identical seeds replay
// identical turn sequences.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/cory-johannsen/underhall/internal/config"
	"github.com/cory-johannsen/underhall/internal/game/rng"
	"github.com/cory-johannsen/underhall/internal/game/sim"
	"github.com/cory-johannsen/underhall/internal/game/world"
	"github.com/cory-johannsen/underhall/internal/observability"
	"github.com/cory-johannsen/underhall/internal/storage/snapshot"
	"github.com/cory-johannsen/underhall/internal/storage/sqlite"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "underhall: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	def, err := world.LoadFromFile(cfg.World.Path)
	if err != nil {
		return err
	}
	def.World.SetEmitter(observability.NewNarrationEmitter(logger))

	src := rng.NewSeeded(cfg.Simulation.Seed)
	if cfg.Simulation.TraceRNG {
		src = rng.NewLogged(src, logger)
	}
	s, err := sim.New(def, src, logger)
	if err != nil {
		return err
	}
	s.Engine.SetTransitionHook(sim.ScoringHook(s.World, logger))

	logger.Info("simulation starting",
		zap.Uint64("seed", cfg.Simulation.Seed),
		zap.Int("turns", cfg.Simulation.Turns),
		zap.String("world", cfg.World.Path),
	)
	for i := 0; i < cfg.Simulation.Turns; i++ {
		s.Tick()
	}
	logger.Info("simulation finished", zap.Int("turn", s.World.Turn()))

	if cfg.Save.Path == "" {
		return nil
	}
	store, err := sqlite.Open(cfg.Save.Path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	id, err := store.SaveSnapshot(context.Background(), snapshot.Capture(s.World, s.Engine, s.Scheduler))
	if err != nil {
		return err
	}
	logger.Info("snapshot saved", zap.String("id", id), zap.String("path", cfg.Save.Path))
	return nil
}
