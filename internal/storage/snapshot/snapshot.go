// Package snapshot captures and reapplies the persistable simulation state:
// every scheduled event's enabled/countdown state, every actor's strength and
// flags, every fuel counter, and the wound accumulator.
package snapshot

import (
	"fmt"

	"github.com/cory-johannsen/underhall/internal/game/actor"
	"github.com/cory-johannsen/underhall/internal/game/combat"
	"github.com/cory-johannsen/underhall/internal/game/schedule"
	"github.com/cory-johannsen/underhall/internal/game/world"
)

// ActorState is the persistable state of one actor.
type ActorState struct {
	ID           string
	RoomID       string
	Strength     int
	State        actor.State
	Staggered    bool
	Hidden       bool
	Fighting     bool
	WeaponID     string
	WakeChance   float64
	DeathHandled bool
}

// FuelState is the persistable state of one light source.
type FuelState struct {
	ObjectID  string
	Fuel      int
	Lit       bool
	BurnedOut bool
}

// Snapshot is one complete persistable state of a world instance.
type Snapshot struct {
	Turn    int
	Wounds  int
	Globals map[string]int
	Events  []schedule.EventState
	Actors  []ActorState
	Fuel    []FuelState
}

// Capture collects the current persistable state of w, eng, and sched.
//
// Postcondition: applying the returned snapshot onto an identically
// constructed world reproduces the captured state exactly.
func Capture(w *world.World, eng *combat.Engine, sched *schedule.Scheduler) Snapshot {
	snap := Snapshot{
		Turn:    w.Turn(),
		Wounds:  eng.Wounds(),
		Globals: w.Globals(),
		Events:  sched.Snapshot(),
	}
	for _, a := range w.Actors() {
		snap.Actors = append(snap.Actors, ActorState{
			ID:           a.ID,
			RoomID:       a.RoomID,
			Strength:     a.Strength,
			State:        a.State(),
			Staggered:    a.Staggered,
			Hidden:       a.Hidden,
			Fighting:     a.Fighting,
			WeaponID:     a.WeaponID,
			WakeChance:   a.WakeChance,
			DeathHandled: a.DeathHandled(),
		})
	}
	for _, o := range w.Objects() {
		if !o.Has(world.ObjLightSource) {
			continue
		}
		snap.Fuel = append(snap.Fuel, FuelState{
			ObjectID:  o.ID,
			Fuel:      o.Fuel,
			Lit:       o.Has(world.ObjLit),
			BurnedOut: o.Has(world.ObjBurnedOut),
		})
	}
	return snap
}

// Apply reinstates snap onto a freshly loaded world. Entries referring to
// content that no longer exists are skipped: a stale save must not halt the
// simulation.
func Apply(snap Snapshot, w *world.World, eng *combat.Engine, sched *schedule.Scheduler) error {
	w.SetTurn(snap.Turn)
	eng.SetWounds(snap.Wounds)
	for name, v := range snap.Globals {
		w.SetGlobal(name, v)
	}
	sched.Restore(snap.Events)

	for _, st := range snap.Actors {
		a := w.Actor(st.ID)
		if a == nil {
			continue
		}
		a.RoomID = st.RoomID
		a.Strength = st.Strength
		a.Staggered = st.Staggered
		a.Hidden = st.Hidden
		a.Fighting = st.Fighting
		a.WeaponID = st.WeaponID
		a.WakeChance = st.WakeChance
		a.RestoreState(st.State, st.DeathHandled)
	}

	for _, st := range snap.Fuel {
		o := w.Object(st.ObjectID)
		if o == nil {
			continue
		}
		if !o.Has(world.ObjLightSource) {
			return fmt.Errorf("snapshot: object %q is not a light source", st.ObjectID)
		}
		o.Fuel = st.Fuel
		o.Clear(world.ObjLit | world.ObjBurnedOut)
		if st.Lit {
			o.Set(world.ObjLit)
		}
		if st.BurnedOut {
			o.Set(world.ObjBurnedOut)
		}
	}
	return nil
}
