package behavior

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/underhall/internal/game/actor"
	"github.com/cory-johannsen/underhall/internal/game/combat"
	"github.com/cory-johannsen/underhall/internal/game/rng"
	"github.com/cory-johannsen/underhall/internal/game/world"
)

// Guard is the simplest adversary controller: a stationary blocker that
// engages the player on sight and otherwise only participates in combat.
type Guard struct {
	engine  *combat.Engine
	src     rng.Source
	actorID string
	log     *zap.Logger
}

// NewGuard creates a Guard controller for the adversary with the given ID.
//
// Precondition: engine, src, and logger must be non-nil.
func NewGuard(engine *combat.Engine, src rng.Source, actorID string, logger *zap.Logger) *Guard {
	return &Guard{engine: engine, src: src, actorID: actorID, log: logger}
}

// ExecuteTurn runs one turn: an unconscious guard attempts to wake (with the
// profile's escalating probability); a conscious guard engages the player
// when they share a room.
func (g *Guard) ExecuteTurn(w *world.World) bool {
	a := w.Actor(g.actorID)
	if a == nil || a.State() == actor.StateDead || a.RoomID == world.Nowhere {
		return false
	}
	p := w.Player()
	if p == nil {
		return false
	}

	if a.State() == actor.StateUnconscious {
		if !g.engine.WakeAdversary(a) {
			return false
		}
		g.log.Debug("guard woke up", zap.String("adversary", a.ID))
		if a.RoomID == p.RoomID && !a.Hidden {
			msg := a.Profile.Message("wake", g.src.Intn)
			if msg == "" {
				msg = "The " + a.Name + " comes to and looks for a fight."
			}
			w.Say("%s", msg)
			return true
		}
		return false
	}

	if a.RoomID == p.RoomID && !a.Hidden && p.State() == actor.StateNormal {
		a.Fighting = true
	} else {
		a.LeaveCombat()
	}
	return false
}
