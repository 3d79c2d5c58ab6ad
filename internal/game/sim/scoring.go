package sim

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/underhall/internal/game/actor"
	"github.com/cory-johannsen/underhall/internal/game/combat"
	"github.com/cory-johannsen/underhall/internal/game/world"
)

// ScoringHook returns the transition notification collaborator: it awards the
// adversary's profile value on death and narrates lifecycle transitions. The
// combat engine guarantees it fires exactly once per DEAD transition.
func ScoringHook(w *world.World, logger *zap.Logger) actor.TransitionFunc {
	return func(a *actor.Actor, from, to actor.State) {
		switch to {
		case actor.StateDead:
			if a.ID == world.PlayerID {
				w.Say("It appears that that last blow was too much for you.")
				logger.Info("player died", zap.Int("turn", w.Turn()))
				return
			}
			if a.Profile != nil && a.Profile.Value > 0 {
				w.SetGlobal(combat.GlobalScore, w.Global(combat.GlobalScore)+a.Profile.Value)
			}
			w.Say("Almost as soon as the %s breathes his last breath, a cloud of sinister black fog envelops him.", a.Name)
			logger.Info("adversary died",
				zap.String("adversary", a.ID),
				zap.Int("score", w.Global(combat.GlobalScore)),
			)
		case actor.StateUnconscious:
			if a.ID != world.PlayerID {
				w.Say("The %s is knocked out!", a.Name)
			}
		case actor.StateNormal:
			logger.Debug("actor recovered", zap.String("actor", a.ID), zap.Stringer("from", from))
		}
	}
}
