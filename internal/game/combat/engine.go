package combat

import (
	"errors"

	"go.uber.org/zap"

	"github.com/cory-johannsen/underhall/internal/game/actor"
	"github.com/cory-johannsen/underhall/internal/game/rng"
	"github.com/cory-johannsen/underhall/internal/game/world"
)

// ErrNoTarget is returned when an attack names an actor that is missing,
// removed, or already dead. Callers treat it as "nothing happens".
var ErrNoTarget = errors.New("combat: no such target")

// woundsDeathSentinel is the wound-accumulator value representing player
// death from a Killed or SittingDuck outcome.
const woundsDeathSentinel = -10000

// GlobalScore is the named global holding the player's score.
const GlobalScore = "score"

// GlobalCapacity is the named global holding the player's carrying capacity.
const GlobalCapacity = "load_allowed"

// Config holds the combat engine's numeric tuning.
type Config struct {
	// StrengthMin and StrengthMax clamp the player's base fighting strength.
	StrengthMin int
	StrengthMax int
	// ScorePerStrength is the score bracket width per strength step.
	ScorePerStrength int
	// WoundCapacityPenalty is the carrying-capacity cost per wound point.
	WoundCapacityPenalty int
	// BaseCapacity is the unwounded carrying capacity.
	BaseCapacity int
	// MinCapacity is the floor below which wounds stop reducing capacity.
	MinCapacity int
}

// ConfigFromTuning builds a combat Config from world tuning values.
func ConfigFromTuning(t world.Tuning) Config {
	return Config{
		StrengthMin:          t.StrengthMin,
		StrengthMax:          t.StrengthMax,
		ScorePerStrength:     t.ScorePerStrength,
		WoundCapacityPenalty: t.WoundCapacityPenalty,
		BaseCapacity:         t.BaseCapacity,
		MinCapacity:          10,
	}
}

// Engine resolves attacks and applies their effects. One Engine serves one
// world instance; it owns the player's wound accumulator.
type Engine struct {
	w    *world.World
	src  rng.Source
	log  *zap.Logger
	cfg  Config
	hook actor.TransitionFunc

	// wounds is the player's wound accumulator. Invariant: wounds <= 0.
	wounds int

	// armHeal arms the healing interrupt if it is not already armed.
	// Wired by the timer layer; nil before wiring.
	armHeal func()
}

// NewEngine creates an Engine for w drawing randomness from src.
//
// Precondition: w, src, and logger must be non-nil.
//
// Postcondition: the carrying-capacity global reflects the unwounded player.
func NewEngine(w *world.World, src rng.Source, cfg Config, logger *zap.Logger) *Engine {
	e := &Engine{w: w, src: src, log: logger, cfg: cfg}
	e.updateCapacity()
	return e
}

// SetTransitionHook installs the external notification point invoked once per
// lifecycle transition. A nil hook disables notifications.
func (e *Engine) SetTransitionHook(fn actor.TransitionFunc) { e.hook = fn }

// SetHealArmer installs the callback that arms the healing interrupt.
func (e *Engine) SetHealArmer(fn func()) { e.armHeal = fn }

// Wounds returns the player's wound accumulator.
//
// Postcondition: the returned value is <= 0.
func (e *Engine) Wounds() int { return e.wounds }

// SetWounds restores the wound accumulator from a save.
//
// Precondition: v <= 0.
func (e *Engine) SetWounds(v int) {
	if v > 0 {
		v = 0
	}
	e.wounds = v
	e.updateCapacity()
}

// notify invokes the transition hook, if any.
func (e *Engine) notify(a *actor.Actor, from, to actor.State) {
	if e.hook != nil {
		e.hook(a, from, to)
	}
}

// FightingStrength computes the player's strength: a step function of score
// rising one step per full score bracket, clamped to [StrengthMin,
// StrengthMax], optionally offset by the wound accumulator.
func (e *Engine) FightingStrength(includeWounds bool) int {
	s := e.cfg.StrengthMin + e.w.Global(GlobalScore)/e.cfg.ScorePerStrength
	if s > e.cfg.StrengthMax {
		s = e.cfg.StrengthMax
	}
	if includeWounds {
		s += e.wounds
	}
	return s
}

// AdversaryStrength returns the adversary's effective strength. A negative
// value is returned as-is so callers can detect unconsciousness. When the
// player wields the profile's counter-weapon, the profile's advantage is
// subtracted, floored at 1.
func (e *Engine) AdversaryStrength(a *actor.Actor) int {
	s := a.Strength
	if s < 0 || a.Profile == nil {
		return s
	}
	p := e.w.Player()
	if p != nil && a.Profile.CounterWeapon != "" && p.WeaponID == a.Profile.CounterWeapon {
		s -= a.Profile.Advantage
		if s < 1 {
			s = 1
		}
	}
	return s
}

// Resolve selects an outcome for one attack using the engine's random source.
func (e *Engine) Resolve(attack, defense int, defenderStaggered bool) Outcome {
	return ResolveOutcome(e.src, attack, defense, defenderStaggered)
}

// PlayerAttack resolves one player attack on target with the given weapon
// (empty means bare hands) and applies the outcome to the target.
//
// An unconscious target, or an unarmed attack on a target already at zero
// strength, is killed outright without a table lookup: an incapacitated or
// defenseless target cannot defend.
func (e *Engine) PlayerAttack(targetID, weaponID string) (Outcome, error) {
	target := e.w.Actor(targetID)
	if target == nil || target.State() == actor.StateDead || target.RoomID == world.Nowhere {
		return Missed, ErrNoTarget
	}

	defense := e.AdversaryStrength(target)
	var o Outcome
	switch {
	case defense < 0, defense == 0 && weaponID == "":
		o = Killed
	default:
		attack := e.FightingStrength(true)
		if attack < 1 {
			attack = 1
		}
		o = e.Resolve(attack, defense, target.Staggered)
	}

	e.log.Debug("player attack",
		zap.String("target", target.ID),
		zap.String("weapon", weaponID),
		zap.Stringer("outcome", o),
	)
	e.ApplyToAdversary(target, o)
	return o, nil
}

// ApplyToAdversary applies one outcome to an adversary.
func (e *Engine) ApplyToAdversary(a *actor.Actor, o Outcome) {
	if a == nil || a.State() == actor.StateDead {
		return
	}
	wasDuck := o == SittingDuck
	switch o {
	case Missed, Hesitate:
		// No effect.
	case LightWound:
		e.woundAdversary(a, 1)
	case SeriousWound:
		e.woundAdversary(a, 2)
	case Stagger:
		a.Staggered = true
	case LoseWeapon:
		e.dropWeapon(a)
	case Unconscious:
		from := a.KnockOut()
		e.notify(a, from, actor.StateUnconscious)
	case Killed, SittingDuck:
		e.Kill(a)
	}
	// A finished-off sitting duck is no longer staggered.
	if wasDuck {
		a.Staggered = false
	}
}

// woundAdversary reduces strength by n, killing the adversary at zero.
func (e *Engine) woundAdversary(a *actor.Actor, n int) {
	a.SetStrength(a.Strength - n)
	if a.Strength <= 0 {
		a.Strength = 0
		e.Kill(a)
	}
}

// dropWeapon knocks the actor's held weapon into its room, visible.
func (e *Engine) dropWeapon(a *actor.Actor) {
	if a.WeaponID == "" {
		return
	}
	if o := e.w.Object(a.WeaponID); o != nil {
		o.Location = a.RoomID
		o.Set(world.ObjVisible)
	}
	a.WeaponID = ""
}

// Kill transitions the actor to DEAD and fires the one-time death side
// effects: all non-bonded carried items drop visible at the actor's last
// location, the transition hook (scoring, narration) is invoked, and the
// actor is removed from the world. Repeat calls are no-ops.
func (e *Engine) Kill(a *actor.Actor) {
	if a == nil {
		return
	}
	from := a.Die()
	if !a.MarkDeathHandled() {
		return
	}
	lastRoom := a.RoomID
	for _, o := range e.w.ObjectsIn(a.ID) {
		if o.Has(world.ObjBonded) {
			continue
		}
		o.Location = lastRoom
		o.Set(world.ObjVisible)
	}
	e.dropWeaponAt(a, lastRoom)
	e.notify(a, from, actor.StateDead)
	e.w.MoveActor(a.ID, world.Nowhere)
	e.log.Info("actor died", zap.String("actor", a.ID), zap.String("room", lastRoom))
}

// dropWeaponAt drops the actor's held weapon into roomID.
func (e *Engine) dropWeaponAt(a *actor.Actor, roomID string) {
	if a.WeaponID == "" {
		return
	}
	if o := e.w.Object(a.WeaponID); o != nil {
		o.Location = roomID
		o.Set(world.ObjVisible)
	}
	a.WeaponID = ""
}

// WakeAdversary runs one wake-up probability check for an unconscious
// adversary, notifying the transition hook on success.
func (e *Engine) WakeAdversary(a *actor.Actor) bool {
	if a == nil || a.State() != actor.StateUnconscious {
		return false
	}
	step := 0.0
	if a.Profile != nil {
		step = a.Profile.WakeStep
	}
	if !a.TryWake(e.src, step) {
		return false
	}
	e.notify(a, actor.StateUnconscious, actor.StateNormal)
	return true
}

// ApplyToPlayer applies one outcome to the player.
func (e *Engine) ApplyToPlayer(o Outcome) {
	p := e.w.Player()
	if p == nil || p.State() == actor.StateDead {
		return
	}
	switch o {
	case Missed, Hesitate:
		// No effect.
	case LightWound:
		e.WoundPlayer(1)
	case SeriousWound:
		e.WoundPlayer(2)
	case Stagger:
		p.Staggered = true
	case LoseWeapon:
		e.dropWeapon(p)
	case Unconscious:
		from := p.KnockOut()
		e.notify(p, from, actor.StateUnconscious)
	case Killed, SittingDuck:
		e.wounds = woundsDeathSentinel
		e.updateCapacity()
		e.Kill(p)
	}
	if o == SittingDuck {
		p.Staggered = false
	}
}

// WoundPlayer decrements the wound accumulator by n, applies the
// carrying-capacity penalty, arms the healing interrupt if not already armed,
// and kills the player if fighting strength reaches zero.
//
// Precondition: n > 0.
func (e *Engine) WoundPlayer(n int) {
	e.wounds -= n
	e.updateCapacity()
	if e.armHeal != nil {
		e.armHeal()
	}
	if e.FightingStrength(true) <= 0 {
		e.Kill(e.w.Player())
	}
}

// Heal moves the wound accumulator one step toward zero and restores one step
// of capacity. Returns true while the accumulator is still negative, meaning
// the healing interrupt should re-queue itself.
func (e *Engine) Heal() bool {
	if e.wounds >= 0 {
		return false
	}
	e.wounds++
	e.updateCapacity()
	return e.wounds < 0
}

// updateCapacity recomputes the carrying-capacity global from the wound
// accumulator, floored at MinCapacity.
func (e *Engine) updateCapacity() {
	capacity := e.cfg.BaseCapacity + e.wounds*e.cfg.WoundCapacityPenalty
	if capacity < e.cfg.MinCapacity {
		capacity = e.cfg.MinCapacity
	}
	e.w.SetGlobal(GlobalCapacity, capacity)
}

// Message emits a flavor message for the outcome from the adversary's pool,
// if one exists.
func (e *Engine) Message(a *actor.Actor, o Outcome) {
	if a == nil || a.Profile == nil {
		return
	}
	if msg := a.Profile.Message(o.Token(), e.src.Intn); msg != "" {
		e.w.Say("%s", msg)
	}
}
