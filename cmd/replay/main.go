// Command replay restores the latest save snapshot onto a freshly loaded
// world and continues ticking, demonstrating the save round-trip contract:
// scheduler event state, actor state, fuel counters, and the wound
// accumulator all survive a save/restore cycle.
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
		fmt.Fprintf(os.Stderr, "replay: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Save.Path == "" {
		return fmt.Errorf("save.path must be set for replay")
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

	store, err := sqlite.Open(cfg.Save.Path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	snap, err := store.LoadLatest(context.Background())
	if err != nil {
		return err
	}
	if err := snapshot.Apply(snap, s.World, s.Engine, s.Scheduler); err != nil {
		return err
	}
	logger.Info("snapshot restored",
		zap.Int("turn", s.World.Turn()),
		zap.Int("wounds", s.Engine.Wounds()),
	)

	for i := 0; i < cfg.Simulation.Turns; i++ {
		s.Tick()
	}
	logger.Info("replay finished", zap.Int("turn", s.World.Turn()))
	return nil
}
