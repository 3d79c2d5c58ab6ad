package actor

import "fmt"

// Profile is the static combat configuration for one adversary kind.
type Profile struct {
	// ID uniquely identifies the profile.
	ID string
	// Name is the display name for spawned actors.
	Name string
	// BaseStrength is the spawn strength and ceiling.
	BaseStrength int
	// CounterWeapon is the object ID of the weapon that grants the player
	// a bonus advantage against this adversary. Empty means none.
	CounterWeapon string
	// Advantage is subtracted from the adversary's effective strength when
	// the player wields CounterWeapon, floored at 1.
	Advantage int
	// WakeChance is the default per-turn probability of waking while
	// unconscious.
	WakeChance float64
	// WakeStep is the escalation added to the wake chance after each
	// failed check.
	WakeStep float64
	// Value is the score awarded when this adversary dies.
	Value int
	// Messages holds per-outcome flavor message pools, keyed by outcome
	// token (e.g. "missed", "stagger").
	Messages map[string][]string
}

// Validate checks the profile's invariants.
//
// Postcondition: Returns nil if the profile is valid, or an error naming the
// first violation.
func (p *Profile) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("profile missing id")
	}
	if p.BaseStrength < 1 {
		return fmt.Errorf("profile %s: base strength must be >= 1, got %d", p.ID, p.BaseStrength)
	}
	if p.Advantage < 0 {
		return fmt.Errorf("profile %s: advantage must be >= 0, got %d", p.ID, p.Advantage)
	}
	if p.WakeChance < 0 || p.WakeChance > 1 {
		return fmt.Errorf("profile %s: wake chance must be in [0,1], got %g", p.ID, p.WakeChance)
	}
	if p.WakeStep < 0 {
		return fmt.Errorf("profile %s: wake step must be >= 0, got %g", p.ID, p.WakeStep)
	}
	return nil
}

// Spawn creates a live Actor from this profile, placed in roomID.
//
// Precondition: id and roomID must be non-empty; p must be valid.
// Postcondition: the actor starts NORMAL at full strength with the profile's
// default wake chance.
func (p *Profile) Spawn(id, roomID string) *Actor {
	return &Actor{
		ID:          id,
		Name:        p.Name,
		RoomID:      roomID,
		Strength:    p.BaseStrength,
		MaxStrength: p.BaseStrength,
		Profile:     p,
		WakeChance:  p.WakeChance,
	}
}

// Message returns a uniformly drawn flavor message for the given outcome
// token, or the empty string if the pool is empty.
func (p *Profile) Message(token string, pick func(n int) int) string {
	pool := p.Messages[token]
	if len(pool) == 0 {
		return ""
	}
	return pool[pick(len(pool))]
}
