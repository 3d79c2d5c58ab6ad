package combat

import "github.com/cory-johannsen/underhall/internal/game/rng"

// table is one banded outcome table. Rows are indexed by the attacker-defender
// strength differential, offset by minDiff and clamped to the valid range.
// Each row is a uniform draw pool: repeating an outcome weights it.
type table struct {
	minDiff int
	rows    [][]Outcome
}

// row returns the draw pool for the given differential, clamped.
func (t table) row(diff int) []Outcome {
	i := diff - t.minDiff
	if i < 0 {
		i = 0
	}
	if i >= len(t.rows) {
		i = len(t.rows) - 1
	}
	return t.rows[i]
}

// defenseTables holds the three defender-strength bands: exactly 1, exactly 2,
// and greater than 2. Raw tables never contain Hesitate or SittingDuck; those
// arise only from the already-staggered adjustment in ResolveOutcome.
var (
	// tableDef1: a defender of strength 1 folds quickly; decisive outcomes
	// dominate as the attacker's edge grows.
	tableDef1 = table{
		minDiff: -2,
		rows: [][]Outcome{
			{Missed, Missed, Missed, Missed, Missed, Stagger, Stagger, Unconscious, Killed},
			{Missed, Missed, Missed, Missed, Stagger, Stagger, Unconscious, Unconscious, Killed},
			{Missed, Missed, Missed, Stagger, Stagger, Unconscious, Unconscious, Killed, Killed},
			{Missed, Missed, Stagger, Stagger, Unconscious, Unconscious, Unconscious, Killed, Killed},
			{Missed, Stagger, Stagger, Unconscious, Unconscious, Unconscious, Killed, Killed, Killed},
			{Stagger, Unconscious, Unconscious, Unconscious, Unconscious, Killed, Killed, Killed, Killed},
		},
	}

	// tableDef2: a defender of strength 2 can be disarmed and wounded
	// before going down.
	tableDef2 = table{
		minDiff: -2,
		rows: [][]Outcome{
			{Missed, Missed, Missed, Missed, Missed, Stagger, Stagger, LoseWeapon, LightWound},
			{Missed, Missed, Missed, Missed, Stagger, Stagger, LoseWeapon, LightWound, LightWound},
			{Missed, Missed, Missed, Stagger, Stagger, LoseWeapon, LightWound, LightWound, Unconscious},
			{Missed, Missed, Stagger, Stagger, LoseWeapon, LightWound, LightWound, Unconscious, Killed},
			{Missed, Missed, Stagger, LoseWeapon, LightWound, LightWound, Unconscious, Unconscious, Killed},
			{Missed, Stagger, LoseWeapon, LightWound, LightWound, Unconscious, Unconscious, Killed, Killed},
		},
	}

	// tableDef3: a defender of strength 3 or more takes attrition damage;
	// outright kills stay rare until the attacker's edge is large.
	tableDef3 = table{
		minDiff: -2,
		rows: [][]Outcome{
			{Missed, Missed, Missed, Missed, Missed, Stagger, Stagger, LightWound, LightWound},
			{Missed, Missed, Missed, Missed, Stagger, Stagger, LightWound, LightWound, SeriousWound},
			{Missed, Missed, Missed, Stagger, Stagger, LoseWeapon, LightWound, LightWound, SeriousWound},
			{Missed, Missed, Stagger, Stagger, LoseWeapon, LightWound, LightWound, SeriousWound, SeriousWound},
			{Missed, Missed, Stagger, LoseWeapon, LightWound, LightWound, SeriousWound, SeriousWound, Killed},
			{Missed, Stagger, LoseWeapon, LightWound, LightWound, SeriousWound, SeriousWound, Unconscious, Killed},
		},
	}
)

// tableForDefender selects the outcome table band for a defender strength.
//
// Precondition: defense >= 1.
func tableForDefender(defense int) table {
	switch {
	case defense <= 1:
		return tableDef1
	case defense == 2:
		return tableDef2
	default:
		return tableDef3
	}
}

// ResolveOutcome selects the banded table for the defender's strength, draws
// uniformly from the row for the attacker-defender differential, and applies
// the already-staggered adjustment: a fresh Stagger is downgraded to Hesitate
// (no double-staggering), any other roll is escalated to SittingDuck.
//
// Precondition: attack >= 1; defense >= 1; src must be non-nil.
// Postcondition: returns one of the nine defined outcomes.
func ResolveOutcome(src rng.Source, attack, defense int, defenderStaggered bool) Outcome {
	pool := tableForDefender(defense).row(attack - defense)
	o := pool[src.Intn(len(pool))]
	if defenderStaggered {
		if o == Stagger {
			return Hesitate
		}
		return SittingDuck
	}
	return o
}
