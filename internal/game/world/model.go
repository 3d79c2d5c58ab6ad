// Package world provides the mutable world model for the Underhall simulation:
// rooms, objects, actors, typed entity flags, and named globals. All state is
// owned by the single simulation goroutine; no method is safe for concurrent use.
package world

// Nowhere is the location value for entities removed from the world.
const Nowhere = ""

// PlayerID is the reserved actor identifier for the player.
const PlayerID = "player"

// RoomFlag is a fixed capability bit on a room. Flags form a closed set so
// invalid flag names are caught at compile time rather than at lookup time.
type RoomFlag uint8

const (
	// RoomLit marks a room with its own light source (no lamp needed).
	RoomLit RoomFlag = 1 << iota
	// RoomSacred marks a room adversaries will not enter or steal from.
	RoomSacred
	// RoomOnLand marks a room traversable on foot.
	RoomOnLand
	// RoomVisited is set the first time the player enters the room.
	RoomVisited
)

// ObjectFlag is a fixed capability bit on an object.
type ObjectFlag uint16

const (
	// ObjVisible marks an object the player can currently see.
	ObjVisible ObjectFlag = 1 << iota
	// ObjTakeable marks an object that can be picked up.
	ObjTakeable
	// ObjWeapon marks an object usable as a melee weapon.
	ObjWeapon
	// ObjLightSource marks an object that can provide light.
	ObjLightSource
	// ObjLit marks a light source that is currently burning.
	ObjLit
	// ObjBurnedOut marks a light source whose fuel ran out. Permanent.
	ObjBurnedOut
	// ObjBonded marks an item an actor keeps even in death.
	ObjBonded
)

// Room is a location in the world.
type Room struct {
	// ID uniquely identifies this room.
	ID string
	// Name is the short display name of the room.
	Name string
	// Exits lists the IDs of rooms directly reachable from this one.
	Exits []string
	// Flags holds the room's capability bits.
	Flags RoomFlag
}

// Has reports whether the room has flag f set.
func (r *Room) Has(f RoomFlag) bool { return r.Flags&f != 0 }

// Set sets flag f on the room.
func (r *Room) Set(f RoomFlag) { r.Flags |= f }

// Clear clears flag f on the room.
func (r *Room) Clear(f RoomFlag) { r.Flags &^= f }

// FuelStage pairs a remaining-fuel threshold with the warning emitted when the
// counter reaches it. A stage with Remaining == 0 is terminal: the source is
// deactivated permanently.
type FuelStage struct {
	Remaining int
	Message   string
}

// Object is a portable or fixed item in the world.
type Object struct {
	// ID uniquely identifies this object.
	ID string
	// Name is the short display name.
	Name string
	// Location is a room ID, an actor ID, PlayerID, or Nowhere.
	Location string
	// Value is the treasure value; > 0 marks the object as a valuable.
	Value int
	// Fuel is the remaining-fuel counter for light sources; ignored otherwise.
	Fuel int
	// FuelStages is the ordered warning table for light sources, highest
	// threshold first, terminal zero stage last.
	FuelStages []FuelStage
	// Flags holds the object's capability bits.
	Flags ObjectFlag
}

// Has reports whether the object has flag f set.
func (o *Object) Has(f ObjectFlag) bool { return o.Flags&f != 0 }

// Set sets flag f on the object.
func (o *Object) Set(f ObjectFlag) { o.Flags |= f }

// Clear clears flag f on the object.
func (o *Object) Clear(f ObjectFlag) { o.Flags &^= f }

// IsValuable reports whether the object counts as a treasure.
func (o *Object) IsValuable() bool { return o.Value > 0 }
