package combat

import (
	"github.com/cory-johannsen/underhall/internal/game/actor"
	"github.com/cory-johannsen/underhall/internal/game/schedule"
	"github.com/cory-johannsen/underhall/internal/game/world"
)

// GlowDaemonName is the canonical registration name of the sensing-weapon
// daemon. It runs after combat and before adversary behavior.
const GlowDaemonName = "sword_glow"

// GlobalGlow is the named global holding the sensing weapon's current glow
// level: 0 none, 1 adversary nearby, 2 adversary present.
const GlobalGlow = "sword_glow"

// NewGlowDaemon returns the equipment-reaction daemon for the sensing weapon
// with the given object ID. While the player carries the weapon, its glow
// level tracks living adversaries in the player's room (level 2) or in an
// adjacent room (level 1); the daemon emits a message only when the level
// changes.
func NewGlowDaemon(e *Engine, weaponID string) schedule.Callback {
	return func(w *world.World) error {
		p := w.Player()
		if p == nil || !w.HeldByPlayer(weaponID) {
			return nil
		}
		level := glowLevel(w, p.RoomID)
		if level == w.Global(GlobalGlow) {
			return nil
		}
		w.SetGlobal(GlobalGlow, level)
		weapon := w.Object(weaponID)
		if weapon == nil {
			return nil
		}
		switch level {
		case 2:
			w.Say("Your %s has begun to glow very brightly.", weapon.Name)
		case 1:
			w.Say("Your %s is glowing with a faint blue glow.", weapon.Name)
		default:
			w.Say("Your %s is no longer glowing.", weapon.Name)
		}
		return nil
	}
}

// glowLevel computes the glow level for the player's position: 2 when a
// living adversary shares the room, 1 when one is in an adjacent room.
func glowLevel(w *world.World, roomID string) int {
	if hostileIn(w, roomID) {
		return 2
	}
	room := w.Room(roomID)
	if room == nil {
		return 0
	}
	for _, exit := range room.Exits {
		if hostileIn(w, exit) {
			return 1
		}
	}
	return 0
}

// hostileIn reports whether a living, visible adversary occupies roomID.
func hostileIn(w *world.World, roomID string) bool {
	for _, a := range w.ActorsIn(roomID) {
		if a.ID == world.PlayerID {
			continue
		}
		if a.State() != actor.StateDead && !a.Hidden {
			return true
		}
	}
	return false
}
