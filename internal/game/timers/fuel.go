// Package timers provides the turn-counted countdowns of the simulation:
// consumable light-source fuel depletion and wound healing.
package timers

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/underhall/internal/game/schedule"
	"github.com/cory-johannsen/underhall/internal/game/world"
)

// FuelInterruptName returns the scheduler registration name for the fuel
// interrupt of one light source.
func FuelInterruptName(objID string) string {
	return "fuel:" + objID
}

// NewFuelInterrupt returns the fuel interrupt callback for the light source
// with the given object ID. While the source is burning, each firing
// decrements its fuel counter by one and re-queues itself for the next turn.
// When the counter matches a warning stage and the source is held by the
// player or in the player's room, the stage's message is emitted. At the
// terminal zero stage the source is extinguished and marked burned out;
// burnout is permanent and survives refueling.
//
// The interrupt stops re-queueing when the source goes out; the host re-arms
// it when the source is lit again.
func NewFuelInterrupt(s *schedule.Scheduler, objID string, logger *zap.Logger) schedule.Callback {
	name := FuelInterruptName(objID)
	return func(w *world.World) error {
		o := w.Object(objID)
		if o == nil || !o.Has(world.ObjLit) || o.Has(world.ObjBurnedOut) {
			return nil
		}

		o.Fuel--
		for _, stage := range o.FuelStages {
			if o.Fuel != stage.Remaining {
				continue
			}
			if stage.Remaining == 0 {
				o.Clear(world.ObjLit)
				o.Set(world.ObjBurnedOut)
				logger.Info("light source burned out", zap.String("object", objID))
			}
			if stage.Message != "" && w.WithPlayer(objID) {
				w.Say("%s", stage.Message)
			}
		}

		if o.Has(world.ObjLit) {
			return s.QueueInterrupt(name, 1)
		}
		return nil
	}
}

// ArmFuel arms the fuel interrupt for a lit light source. Called by the host
// whenever a source is lit. A source that is out, missing, or burned out is
// left alone.
func ArmFuel(s *schedule.Scheduler, w *world.World, objID string) {
	o := w.Object(objID)
	if o == nil || !o.Has(world.ObjLit) || o.Has(world.ObjBurnedOut) {
		return
	}
	_ = s.QueueInterrupt(FuelInterruptName(objID), 1)
}
