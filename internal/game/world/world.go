package world

import (
	"fmt"

	"github.com/cory-johannsen/underhall/internal/game/actor"
)

// Emitter receives player-visible narration text. The renderer is an external
// collaborator; tests substitute a buffering implementation.
type Emitter interface {
	Emit(msg string)
}

// nopEmitter discards all output.
type nopEmitter struct{}

func (nopEmitter) Emit(string) {}

// World is the single source of truth for all mutable simulation state.
// Iteration order over rooms, objects, and actors is load order, so identical
// seeds replay identical turn sequences.
type World struct {
	rooms      map[string]*Room
	roomOrder  []string
	objects    map[string]*Object
	objOrder   []string
	actors     map[string]*actor.Actor
	actorOrder []string
	globals    map[string]int
	turn       int
	emitter    Emitter
}

// New creates an empty world with a discarding emitter.
func New() *World {
	return &World{
		rooms:   make(map[string]*Room),
		objects: make(map[string]*Object),
		actors:  make(map[string]*actor.Actor),
		globals: make(map[string]int),
		emitter: nopEmitter{},
	}
}

// SetEmitter replaces the narration sink.
//
// Precondition: e must be non-nil.
func (w *World) SetEmitter(e Emitter) { w.emitter = e }

// Say formats and emits one line of player-visible narration.
func (w *World) Say(format string, args ...any) {
	w.emitter.Emit(fmt.Sprintf(format, args...))
}

// Turn returns the current turn number, starting at 0.
func (w *World) Turn() int { return w.turn }

// SetTurn sets the turn counter; used when restoring a save.
func (w *World) SetTurn(n int) { w.turn = n }

// AdvanceTurn increments the turn counter and returns the new value.
func (w *World) AdvanceTurn() int {
	w.turn++
	return w.turn
}

// AddRoom registers r. Returns an error if the ID is already taken.
func (w *World) AddRoom(r *Room) error {
	if _, ok := w.rooms[r.ID]; ok {
		return fmt.Errorf("room %q already exists", r.ID)
	}
	w.rooms[r.ID] = r
	w.roomOrder = append(w.roomOrder, r.ID)
	return nil
}

// Room returns the room with the given ID, or nil if absent. A nil result is
// not an error condition: callers treat missing references as no-ops.
func (w *World) Room(id string) *Room { return w.rooms[id] }

// Rooms returns all rooms in load order.
func (w *World) Rooms() []*Room {
	rooms := make([]*Room, 0, len(w.roomOrder))
	for _, id := range w.roomOrder {
		rooms = append(rooms, w.rooms[id])
	}
	return rooms
}

// AddObject registers o. Returns an error if the ID is already taken.
func (w *World) AddObject(o *Object) error {
	if _, ok := w.objects[o.ID]; ok {
		return fmt.Errorf("object %q already exists", o.ID)
	}
	w.objects[o.ID] = o
	w.objOrder = append(w.objOrder, o.ID)
	return nil
}

// Object returns the object with the given ID, or nil if absent.
func (w *World) Object(id string) *Object { return w.objects[id] }

// Objects returns all objects in load order, including removed ones.
func (w *World) Objects() []*Object {
	objs := make([]*Object, 0, len(w.objOrder))
	for _, id := range w.objOrder {
		objs = append(objs, w.objects[id])
	}
	return objs
}

// ObjectsIn returns all objects whose Location equals loc, in load order.
func (w *World) ObjectsIn(loc string) []*Object {
	var objs []*Object
	for _, id := range w.objOrder {
		if o := w.objects[id]; o.Location == loc {
			objs = append(objs, o)
		}
	}
	return objs
}

// MoveObject relocates the object to loc (Nowhere removes it). Missing
// objects are ignored.
func (w *World) MoveObject(id, loc string) {
	if o := w.objects[id]; o != nil {
		o.Location = loc
	}
}

// AddActor registers a. Returns an error if the ID is already taken.
func (w *World) AddActor(a *actor.Actor) error {
	if _, ok := w.actors[a.ID]; ok {
		return fmt.Errorf("actor %q already exists", a.ID)
	}
	w.actors[a.ID] = a
	w.actorOrder = append(w.actorOrder, a.ID)
	return nil
}

// Actor returns the actor with the given ID, or nil if absent.
func (w *World) Actor(id string) *actor.Actor { return w.actors[id] }

// Actors returns all actors in load order, the player included.
func (w *World) Actors() []*actor.Actor {
	actors := make([]*actor.Actor, 0, len(w.actorOrder))
	for _, id := range w.actorOrder {
		actors = append(actors, w.actors[id])
	}
	return actors
}

// Adversaries returns all non-player actors in load order.
func (w *World) Adversaries() []*actor.Actor {
	var out []*actor.Actor
	for _, id := range w.actorOrder {
		if id != PlayerID {
			out = append(out, w.actors[id])
		}
	}
	return out
}

// Player returns the player actor, or nil if the world has none.
func (w *World) Player() *actor.Actor { return w.actors[PlayerID] }

// MoveActor relocates the actor to roomID (Nowhere removes it from play).
// Missing actors are ignored.
func (w *World) MoveActor(id, roomID string) {
	if a := w.actors[id]; a != nil {
		a.RoomID = roomID
	}
}

// ActorsIn returns all actors currently in roomID, in load order.
func (w *World) ActorsIn(roomID string) []*actor.Actor {
	var out []*actor.Actor
	if roomID == Nowhere {
		return out
	}
	for _, id := range w.actorOrder {
		if a := w.actors[id]; a.RoomID == roomID {
			out = append(out, a)
		}
	}
	return out
}

// Global returns the named global variable, or 0 if unset.
func (w *World) Global(name string) int { return w.globals[name] }

// SetGlobal sets the named global variable.
func (w *World) SetGlobal(name string, v int) { w.globals[name] = v }

// Globals returns a copy of all named globals.
func (w *World) Globals() map[string]int {
	out := make(map[string]int, len(w.globals))
	for k, v := range w.globals {
		out[k] = v
	}
	return out
}

// IsDark reports whether roomID is dark for the player: the room is not
// self-lit and no burning light source is in the room or carried by the
// player while the player stands there.
func (w *World) IsDark(roomID string) bool {
	room := w.rooms[roomID]
	if room == nil || room.Has(RoomLit) {
		return false
	}
	for _, id := range w.objOrder {
		o := w.objects[id]
		if !o.Has(ObjLit) {
			continue
		}
		if o.Location == roomID {
			return false
		}
		if holder := w.actors[o.Location]; holder != nil && holder.RoomID == roomID {
			return false
		}
	}
	return true
}

// HeldByPlayer reports whether the object is in the player's inventory.
func (w *World) HeldByPlayer(objID string) bool {
	o := w.objects[objID]
	return o != nil && o.Location == PlayerID
}

// WithPlayer reports whether the object is held by the player or lying in the
// player's room.
func (w *World) WithPlayer(objID string) bool {
	o := w.objects[objID]
	if o == nil {
		return false
	}
	if o.Location == PlayerID {
		return true
	}
	p := w.Player()
	return p != nil && p.RoomID != Nowhere && o.Location == p.RoomID
}
