// Package actor provides combat-capable entities and their lifecycle state
// machine: NORMAL, STAGGERED, UNCONSCIOUS, and DEAD.
package actor

import "github.com/cory-johannsen/underhall/internal/game/rng"

// State is an actor's lifecycle state.
type State int

const (
	// StateNormal is the initial, fully capable state.
	StateNormal State = iota
	// StateUnconscious is entered on an UNCONSCIOUS combat outcome; the
	// actor's strength is stored negated while in this state.
	StateUnconscious
	// StateDead is terminal; entered when strength reaches exactly zero.
	StateDead
)

// String returns a human-readable state label.
func (s State) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StateUnconscious:
		return "unconscious"
	case StateDead:
		return "dead"
	default:
		return "unknown"
	}
}

// TransitionFunc is the notification point invoked once per lifecycle
// transition, so an external collaborator can apply scoring and narration.
type TransitionFunc func(a *Actor, from, to State)

// Actor is a live combat-capable entity. The player is an Actor too, under the
// reserved player identifier; its Strength field is unused (player strength is
// computed from score and wounds).
type Actor struct {
	// ID uniquely identifies this actor.
	ID string
	// Name is the display name.
	Name string
	// RoomID is the actor's current location; empty means removed.
	RoomID string
	// Strength is remaining fighting capacity. Positive while NORMAL,
	// negated while UNCONSCIOUS, exactly zero when DEAD.
	Strength int
	// MaxStrength is the profile ceiling Strength never exceeds.
	MaxStrength int
	// Staggered is the transient briefly-unable-to-retaliate flag.
	Staggered bool
	// Hidden marks the actor as currently invisible to the player.
	Hidden bool
	// Fighting marks the actor as engaged in combat with the player.
	Fighting bool
	// WeaponID is the held weapon's object ID; empty means unarmed.
	WeaponID string
	// Profile is the static combat configuration; nil for the player.
	Profile *Profile

	// WakeChance is the current per-turn probability of waking while
	// unconscious. Escalates after each failed check; reset on waking.
	WakeChance float64

	state        State
	deathHandled bool
}

// State returns the actor's current lifecycle state.
func (a *Actor) State() State { return a.state }

// Conscious reports whether the actor is NORMAL (not unconscious, not dead).
func (a *Actor) Conscious() bool { return a.state == StateNormal }

// SetStrength sets Strength, clamping positive values to MaxStrength.
// Negative values (the unconscious marker) pass through unchanged.
func (a *Actor) SetStrength(v int) {
	if a.MaxStrength > 0 && v > a.MaxStrength {
		v = a.MaxStrength
	}
	a.Strength = v
}

// KnockOut transitions the actor to UNCONSCIOUS, storing Strength negated so
// callers can detect the state and later restore the prior value.
//
// Precondition: the actor is NORMAL with positive Strength.
// Postcondition: State() == StateUnconscious; Strength < 0.
func (a *Actor) KnockOut() State {
	from := a.state
	if a.Strength > 0 {
		a.Strength = -a.Strength
	}
	a.Staggered = false
	a.Fighting = false
	a.state = StateUnconscious
	return from
}

// TryWake performs one wake-up probability check. On failure the chance
// escalates by step; on success Strength is restored to its positive magnitude,
// the chance resets to the profile default, and the actor returns to NORMAL.
//
// Precondition: the actor is UNCONSCIOUS; src must be non-nil.
func (a *Actor) TryWake(src rng.Source, step float64) bool {
	if a.state != StateUnconscious {
		return false
	}
	if !rng.Chance(src, a.WakeChance) {
		a.WakeChance += step
		if a.WakeChance > 1 {
			a.WakeChance = 1
		}
		return false
	}
	if a.Strength < 0 {
		a.Strength = -a.Strength
	}
	if a.Profile != nil {
		a.WakeChance = a.Profile.WakeChance
	}
	a.state = StateNormal
	return true
}

// Die transitions the actor to DEAD, forcing Strength to zero.
// DEAD is terminal: subsequent calls are no-ops returning StateDead.
func (a *Actor) Die() State {
	if a.state == StateDead {
		return StateDead
	}
	from := a.state
	a.Strength = 0
	a.Staggered = false
	a.Fighting = false
	a.state = StateDead
	return from
}

// MarkDeathHandled records that the one-time DEAD side effects (loot drop,
// scoring) have fired. Returns false if they already had.
func (a *Actor) MarkDeathHandled() bool {
	if a.deathHandled {
		return false
	}
	a.deathHandled = true
	return true
}

// DeathHandled reports whether the one-time DEAD side effects have fired.
func (a *Actor) DeathHandled() bool { return a.deathHandled }

// RestoreState reinstates lifecycle state from a save.
func (a *Actor) RestoreState(s State, deathHandled bool) {
	a.state = s
	a.deathHandled = deathHandled
}

// LeaveCombat clears the transient combat flags without changing the
// lifecycle state. Called when the actor leaves the player's combat context.
func (a *Actor) LeaveCombat() {
	a.Staggered = false
	a.Fighting = false
}

// IsPlayer reports whether this actor is the player.
func (a *Actor) IsPlayer() bool { return a.Profile == nil }
