// Package combat implements strength calculation, probability-table outcome
// selection, and wound/unconsciousness/death resolution for player-versus-
// adversary melee.
package combat

// Outcome is the result of one resolved attack.
type Outcome int

const (
	// Missed means the blow did not land.
	Missed Outcome = iota
	// LightWound costs the defender one strength point.
	LightWound
	// SeriousWound costs the defender two strength points.
	SeriousWound
	// Stagger leaves the defender briefly unable to retaliate.
	Stagger
	// LoseWeapon knocks the defender's weapon to the floor.
	LoseWeapon
	// Unconscious knocks the defender out; strength is stored negated.
	Unconscious
	// Killed kills the defender outright.
	Killed
	// Hesitate is the downgrade of a Stagger rolled against an
	// already-staggered defender.
	Hesitate
	// SittingDuck is the escalation of any other roll against an
	// already-staggered defender: a defenseless target is finished off.
	SittingDuck
)

// String returns a human-readable outcome label.
func (o Outcome) String() string {
	switch o {
	case Missed:
		return "missed"
	case LightWound:
		return "light wound"
	case SeriousWound:
		return "serious wound"
	case Stagger:
		return "stagger"
	case LoseWeapon:
		return "lose weapon"
	case Unconscious:
		return "unconscious"
	case Killed:
		return "killed"
	case Hesitate:
		return "hesitate"
	case SittingDuck:
		return "sitting duck"
	default:
		return "unknown"
	}
}

// Token returns the stable key used for per-profile message pools.
func (o Outcome) Token() string {
	switch o {
	case Missed:
		return "missed"
	case LightWound:
		return "light_wound"
	case SeriousWound:
		return "serious_wound"
	case Stagger:
		return "stagger"
	case LoseWeapon:
		return "lose_weapon"
	case Unconscious:
		return "unconscious"
	case Killed:
		return "killed"
	case Hesitate:
		return "hesitate"
	case SittingDuck:
		return "sitting_duck"
	default:
		return "unknown"
	}
}

// Fatal reports whether the outcome kills the defender outright.
func (o Outcome) Fatal() bool { return o == Killed || o == SittingDuck }
