package behavior

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/underhall/internal/game/actor"
	"github.com/cory-johannsen/underhall/internal/game/combat"
	"github.com/cory-johannsen/underhall/internal/game/rng"
	"github.com/cory-johannsen/underhall/internal/game/world"
)

// ThiefConfig holds the tuning for a thief-archetype controller.
type ThiefConfig struct {
	// StashRoomID is the room where accumulated valuables are deposited.
	StashRoomID string
	// PuzzleObjectID is the carried object that receives the one-time
	// side effect on the first stash visit (empty disables it).
	PuzzleObjectID string
	// RoomTheftChance is the independent per-item probability of stealing
	// a valuable from a room the player has already visited.
	RoomTheftChance float64
	// PlayerTheftChance is the per-turn probability of lifting a valuable
	// from the player's own inventory in darkness.
	PlayerTheftChance float64
	// DropChance is the per-item probability of dropping a carried
	// non-valuable into a room the thief passes through.
	DropChance float64
	// MaxScan bounds the cyclic room scan when choosing where to move.
	MaxScan int
}

// PuzzleGlobal returns the named global set to 1 by the one-time stash-room
// side effect on objID.
func PuzzleGlobal(objID string) string {
	return "opened:" + objID
}

// Thief is the roaming burglar controller: it hides from the player, loots
// visited rooms, ferries valuables to its stash, and occasionally robs the
// player outright in the dark.
type Thief struct {
	engine  *combat.Engine
	src     rng.Source
	actorID string
	cfg     ThiefConfig
	log     *zap.Logger

	puzzleDone bool
	scanFrom   int
}

// NewThief creates a Thief controller for the adversary with the given ID.
//
// Precondition: engine, src, and logger must be non-nil; cfg.MaxScan > 0.
func NewThief(engine *combat.Engine, src rng.Source, actorID string, cfg ThiefConfig, logger *zap.Logger) *Thief {
	if cfg.MaxScan <= 0 {
		cfg.MaxScan = 64
	}
	return &Thief{engine: engine, src: src, actorID: actorID, cfg: cfg, log: logger}
}

// ExecuteTurn runs one thief turn. The order of business is fixed for
// reproducibility: wake check, player-room ambush, then (while roaming)
// stash deposit, room theft, junk drop, and movement.
func (t *Thief) ExecuteTurn(w *world.World) bool {
	a := w.Actor(t.actorID)
	if a == nil || a.State() == actor.StateDead || a.RoomID == world.Nowhere {
		return false
	}
	p := w.Player()
	if p == nil {
		return false
	}

	if a.State() == actor.StateUnconscious {
		if !t.engine.WakeAdversary(a) {
			return false
		}
		t.log.Debug("thief woke up", zap.String("adversary", a.ID))
		if a.RoomID == p.RoomID && !a.Hidden {
			msg := a.Profile.Message("wake", t.src.Intn)
			if msg == "" {
				msg = "The " + a.Name + " rises, brushes himself off, and glares at you."
			}
			w.Say("%s", msg)
			return true
		}
		return false
	}

	if a.RoomID == p.RoomID {
		return t.turnWithPlayer(w, a, p)
	}
	return t.turnRoaming(w, a)
}

// turnWithPlayer handles a turn spent in the player's room. A visible thief
// fights; a hidden thief may rob the player in the dark.
func (t *Thief) turnWithPlayer(w *world.World, a, p *actor.Actor) bool {
	if !a.Hidden {
		if p.State() == actor.StateNormal {
			a.Fighting = true
		}
		return false
	}
	// Robbery wants darkness and no rescuing third party.
	if !w.IsDark(p.RoomID) || t.bystanderPresent(w, a, p) {
		return false
	}
	if !rng.Chance(t.src, t.cfg.PlayerTheftChance) {
		return false
	}
	loot := t.stealOne(w, world.PlayerID, a.ID)
	if loot == nil {
		return false
	}
	w.Say("You hear a scuffling noise, and you feel a good deal lighter.")
	t.log.Debug("thief robbed player",
		zap.String("object", loot.ID),
	)
	return true
}

// turnRoaming handles a turn out of the player's sight: the hiding
// hysteresis, the stash run, opportunistic looting, junk drops, movement.
func (t *Thief) turnRoaming(w *world.World, a *actor.Actor) bool {
	// Out of the player's room the thief goes to ground and stays there.
	a.Hidden = true
	a.LeaveCombat()

	room := w.Room(a.RoomID)
	if room == nil {
		return false
	}

	if a.RoomID == t.cfg.StashRoomID {
		t.deposit(w, a)
	} else if !room.Has(world.RoomSacred) && room.Has(world.RoomVisited) {
		t.lootRoom(w, a)
	}

	t.dropJunk(w, a)
	t.move(w, a)
	return false
}

// bystanderPresent reports whether a conscious third party shares the room —
// a rescuer that deters robbery.
func (t *Thief) bystanderPresent(w *world.World, a, p *actor.Actor) bool {
	for _, other := range w.ActorsIn(p.RoomID) {
		if other.ID == a.ID || other.ID == p.ID {
			continue
		}
		if other.State() == actor.StateNormal {
			return true
		}
	}
	return false
}

// stealOne moves one valuable from loc into the thief's inventory, hidden.
// Returns the stolen object, or nil when nothing was eligible.
func (t *Thief) stealOne(w *world.World, loc, thiefID string) *world.Object {
	var valuables []*world.Object
	for _, o := range w.ObjectsIn(loc) {
		if o.IsValuable() && o.Has(world.ObjTakeable) {
			valuables = append(valuables, o)
		}
	}
	if len(valuables) == 0 {
		return nil
	}
	o := rng.Pick(t.src, valuables)
	o.Location = thiefID
	o.Clear(world.ObjVisible)
	return o
}

// lootRoom steals valuables from the thief's current room with an independent
// per-item probability. Only rooms the player has already visited are worth
// the risk.
func (t *Thief) lootRoom(w *world.World, a *actor.Actor) {
	for _, o := range w.ObjectsIn(a.RoomID) {
		if !o.IsValuable() || !o.Has(world.ObjTakeable) {
			continue
		}
		if !rng.Chance(t.src, t.cfg.RoomTheftChance) {
			continue
		}
		o.Location = a.ID
		o.Clear(world.ObjVisible)
		t.log.Debug("thief stole from room",
			zap.String("object", o.ID),
			zap.String("room", a.RoomID),
		)
	}
}

// deposit unloads carried valuables into the stash room and performs the
// one-time puzzle side effect on the designated carried object.
func (t *Thief) deposit(w *world.World, a *actor.Actor) {
	for _, o := range w.ObjectsIn(a.ID) {
		if !o.IsValuable() {
			continue
		}
		if o.ID == t.cfg.PuzzleObjectID && !t.puzzleDone {
			// The thief knows the trick to this one; opening it is
			// done exactly once.
			w.SetGlobal(PuzzleGlobal(o.ID), 1)
			t.puzzleDone = true
			t.log.Info("thief opened puzzle object", zap.String("object", o.ID))
		}
		o.Location = t.cfg.StashRoomID
		o.Set(world.ObjVisible)
	}
}

// dropJunk scatters carried non-valuables into the current room.
func (t *Thief) dropJunk(w *world.World, a *actor.Actor) {
	for _, o := range w.ObjectsIn(a.ID) {
		if o.IsValuable() || o.Has(world.ObjBonded) || o.ID == a.WeaponID {
			continue
		}
		if !rng.Chance(t.src, t.cfg.DropChance) {
			continue
		}
		o.Location = a.RoomID
		o.Set(world.ObjVisible)
		t.log.Debug("thief dropped junk",
			zap.String("object", o.ID),
			zap.String("room", a.RoomID),
		)
	}
}

// move advances the thief to the next eligible room, scanning the world's
// room list in a fixed cyclic order and skipping rooms flagged sacred or not
// traversable on foot. The scan is bounded by MaxScan so a world with no
// eligible room cannot loop forever.
func (t *Thief) move(w *world.World, a *actor.Actor) {
	rooms := w.Rooms()
	if len(rooms) == 0 {
		return
	}
	limit := t.cfg.MaxScan
	if limit > len(rooms) {
		limit = len(rooms)
	}
	for i := 1; i <= limit; i++ {
		candidate := rooms[(t.scanFrom+i)%len(rooms)]
		if candidate.ID == a.RoomID {
			continue
		}
		if candidate.Has(world.RoomSacred) || !candidate.Has(world.RoomOnLand) {
			continue
		}
		t.scanFrom = (t.scanFrom + i) % len(rooms)
		a.RoomID = candidate.ID
		return
	}
}
