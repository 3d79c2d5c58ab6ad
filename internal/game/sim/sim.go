// Package sim assembles one runnable world instance: engine, scheduler,
// controllers, and timers, registered in the canonical tick order.
package sim

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/underhall/internal/game/behavior"
	"github.com/cory-johannsen/underhall/internal/game/combat"
	"github.com/cory-johannsen/underhall/internal/game/rng"
	"github.com/cory-johannsen/underhall/internal/game/schedule"
	"github.com/cory-johannsen/underhall/internal/game/timers"
	"github.com/cory-johannsen/underhall/internal/game/world"
)

// AtmosphereDaemonName is the canonical registration name of the ambient
// atmosphere daemon, last in the tick order.
const AtmosphereDaemonName = "atmosphere"

// atmosphereChance is the per-turn probability of an ambient message.
const atmosphereChance = 0.03

// Simulation is one fully wired world instance.
type Simulation struct {
	World     *world.World
	Engine    *combat.Engine
	Scheduler *schedule.Scheduler
	Registry  *behavior.Registry
}

// New wires a Simulation from a loaded world definition. Events register in
// the canonical priority order — combat, equipment reactions, adversary
// behavior, fuel interrupts, ambient daemons — which downstream consumers
// (output comparison, save replay) depend on.
//
// Precondition: def, src, and logger must be non-nil.
func New(def *world.Definition, src rng.Source, logger *zap.Logger) (*Simulation, error) {
	w := def.World
	engine := combat.NewEngine(w, src, combat.ConfigFromTuning(def.Tuning), logger)
	sched := schedule.New(logger)
	registry := behavior.NewRegistry(logger)

	if err := sched.RegisterDaemon(combat.DaemonName, combat.NewDaemon(engine), true); err != nil {
		return nil, err
	}

	if def.SensingWeapon != "" {
		if err := sched.RegisterDaemon(combat.GlowDaemonName,
			combat.NewGlowDaemon(engine, def.SensingWeapon), true); err != nil {
			return nil, err
		}
	}

	for _, binding := range def.Controllers {
		ctrl, err := buildController(engine, src, binding, logger)
		if err != nil {
			return nil, err
		}
		if err := registry.Register(binding.ActorID, ctrl); err != nil {
			return nil, err
		}
	}
	if err := sched.RegisterDaemon(behavior.DaemonName, registry.Daemon(), true); err != nil {
		return nil, err
	}

	for _, o := range w.Objects() {
		if !o.Has(world.ObjLightSource) {
			continue
		}
		name := timers.FuelInterruptName(o.ID)
		cb := timers.NewFuelInterrupt(sched, o.ID, logger)
		countdown := 0
		if o.Has(world.ObjLit) && !o.Has(world.ObjBurnedOut) {
			countdown = 1
		}
		if err := sched.RegisterInterrupt(name, cb, countdown); err != nil {
			return nil, err
		}
	}

	healInterval := def.Tuning.HealInterval
	if err := sched.RegisterInterrupt(timers.HealInterruptName,
		timers.NewHealInterrupt(engine, sched, healInterval, logger), 0); err != nil {
		return nil, err
	}
	engine.SetHealArmer(timers.HealArmer(sched, healInterval))

	if len(def.Ambience) > 0 {
		if err := sched.RegisterDaemon(AtmosphereDaemonName,
			newAtmosphereDaemon(src, def.Ambience), true); err != nil {
			return nil, err
		}
	}

	return &Simulation{
		World:     w,
		Engine:    engine,
		Scheduler: sched,
		Registry:  registry,
	}, nil
}

// buildController constructs the controller implementation for one binding.
func buildController(engine *combat.Engine, src rng.Source, b world.ControllerBinding, logger *zap.Logger) (behavior.Controller, error) {
	switch b.Kind {
	case "guard":
		return behavior.NewGuard(engine, src, b.ActorID, logger), nil
	case "thief":
		return behavior.NewThief(engine, src, b.ActorID, behavior.ThiefConfig{
			StashRoomID:       b.StashRoom,
			PuzzleObjectID:    b.PuzzleObject,
			RoomTheftChance:   b.RoomTheftChance,
			PlayerTheftChance: b.PlayerTheftChance,
			DropChance:        b.DropChance,
			MaxScan:           b.MaxScan,
		}, logger), nil
	default:
		return nil, fmt.Errorf("unknown controller kind %q for %s", b.Kind, b.ActorID)
	}
}

// newAtmosphereDaemon returns the ambient daemon: an occasional mood line
// when the player is alive.
func newAtmosphereDaemon(src rng.Source, pool []string) schedule.Callback {
	return func(w *world.World) error {
		p := w.Player()
		if p == nil || !p.Conscious() {
			return nil
		}
		if !rng.Chance(src, atmosphereChance) {
			return nil
		}
		w.Say("%s", rng.Pick(src, pool))
		return nil
	}
}

// Tick advances the world one turn and runs the scheduler.
func (s *Simulation) Tick() {
	s.World.AdvanceTurn()
	s.Scheduler.Tick(s.World)
}
