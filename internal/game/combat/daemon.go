package combat

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/underhall/internal/game/actor"
	"github.com/cory-johannsen/underhall/internal/game/schedule"
	"github.com/cory-johannsen/underhall/internal/game/world"
)

// DaemonName is the canonical registration name of the combat daemon.
const DaemonName = "fight"

// NewDaemon returns the per-turn combat daemon. It runs first in the canonical
// tick order: for each adversary in load order it clears stale combat state
// when the adversary has left the player's combat context, and resolves one
// adversary attack on the player when engaged.
func NewDaemon(e *Engine) schedule.Callback {
	return func(w *world.World) error {
		p := w.Player()
		if p == nil || p.State() == actor.StateDead {
			return nil
		}
		for _, a := range w.Adversaries() {
			if a.State() == actor.StateDead || a.RoomID == world.Nowhere {
				continue
			}

			// Out of combat context: different room, or hidden from
			// the player. Clears STAGGERED without touching the
			// lifecycle state.
			if a.RoomID != p.RoomID || a.Hidden {
				a.LeaveCombat()
				continue
			}

			if a.State() != actor.StateNormal || !a.Fighting {
				continue
			}

			// A staggered attacker spends the turn recovering.
			if a.Staggered {
				a.Staggered = false
				e.Message(a, Hesitate)
				continue
			}

			attack := e.AdversaryStrength(a)
			if attack < 1 {
				continue
			}
			defense := e.FightingStrength(true)
			if defense < 1 {
				defense = 1
			}
			o := e.Resolve(attack, defense, p.Staggered)
			e.log.Debug("adversary attack",
				zap.String("adversary", a.ID),
				zap.Stringer("outcome", o),
			)
			e.Message(a, o)
			e.ApplyToPlayer(o)
			if p.State() == actor.StateDead {
				return nil
			}
		}
		return nil
	}
}
