package world

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/underhall/internal/game/actor"
)

// Tuning holds the numeric knobs for the combat and timer layers, loaded with
// the world content so that content and balance ship together.
type Tuning struct {
	// StrengthMin and StrengthMax clamp the player's base fighting strength.
	StrengthMin int
	// StrengthMax is the ceiling of the player's base fighting strength.
	StrengthMax int
	// ScorePerStrength is the score bracket width: base strength rises one
	// step per full bracket of score.
	ScorePerStrength int
	// HealInterval is the healing interrupt's countdown in turns.
	HealInterval int
	// WoundCapacityPenalty is the carrying-capacity cost of one wound point.
	WoundCapacityPenalty int
	// BaseCapacity is the player's unwounded carrying capacity.
	BaseCapacity int
}

// ControllerBinding names the behavior controller driving one adversary,
// with the controller-specific tuning carried alongside.
type ControllerBinding struct {
	// ActorID is the adversary this binding drives.
	ActorID string
	// Kind selects the controller implementation: "guard" or "thief".
	Kind string
	// StashRoom is the thief's deposit room.
	StashRoom string
	// PuzzleObject is the thief's one-time puzzle target.
	PuzzleObject string
	// RoomTheftChance is the thief's per-item room theft probability.
	RoomTheftChance float64
	// PlayerTheftChance is the thief's per-turn player theft probability.
	PlayerTheftChance float64
	// DropChance is the thief's per-item junk drop probability.
	DropChance float64
	// MaxScan bounds the thief's cyclic room scan.
	MaxScan int
}

// Definition is a fully loaded world: state, tuning, and wiring metadata.
type Definition struct {
	World  *World
	Tuning Tuning
	// SensingWeapon is the object ID of the glowing weapon, if any.
	SensingWeapon string
	// Controllers lists adversary controller bindings in load order.
	Controllers []ControllerBinding
	// Ambience is the pool of ambient atmosphere messages.
	Ambience []string
}

// yamlWorldFile is the top-level YAML structure for world files.
type yamlWorldFile struct {
	World yamlWorld `yaml:"world"`
}

type yamlWorld struct {
	StartRoom     string          `yaml:"start_room"`
	SensingWeapon string          `yaml:"sensing_weapon"`
	Ambience      []string        `yaml:"ambience"`
	Tuning        yamlTuning      `yaml:"tuning"`
	Rooms         []yamlRoom      `yaml:"rooms"`
	Objects       []yamlObject    `yaml:"objects"`
	Adversaries   []yamlAdversary `yaml:"adversaries"`
}

type yamlTuning struct {
	StrengthMin          int `yaml:"strength_min"`
	StrengthMax          int `yaml:"strength_max"`
	ScorePerStrength     int `yaml:"score_per_strength"`
	HealInterval         int `yaml:"heal_interval"`
	WoundCapacityPenalty int `yaml:"wound_capacity_penalty"`
	BaseCapacity         int `yaml:"base_capacity"`
}

type yamlRoom struct {
	ID     string   `yaml:"id"`
	Name   string   `yaml:"name"`
	Exits  []string `yaml:"exits"`
	Lit    bool     `yaml:"lit"`
	Sacred bool     `yaml:"sacred"`
	OnLand bool     `yaml:"on_land"`
}

type yamlFuelStage struct {
	Remaining int    `yaml:"remaining"`
	Message   string `yaml:"message"`
}

type yamlObject struct {
	ID          string          `yaml:"id"`
	Name        string          `yaml:"name"`
	Location    string          `yaml:"location"`
	Value       int             `yaml:"value"`
	Takeable    bool            `yaml:"takeable"`
	Weapon      bool            `yaml:"weapon"`
	LightSource bool            `yaml:"light_source"`
	Lit         bool            `yaml:"lit"`
	Bonded      bool            `yaml:"bonded"`
	Hidden      bool            `yaml:"hidden"`
	Fuel        int             `yaml:"fuel"`
	FuelStages  []yamlFuelStage `yaml:"fuel_stages"`
}

type yamlAdversary struct {
	ID            string              `yaml:"id"`
	Name          string              `yaml:"name"`
	Room          string              `yaml:"room"`
	Strength      int                 `yaml:"strength"`
	CounterWeapon string              `yaml:"counter_weapon"`
	Advantage     int                 `yaml:"advantage"`
	WakeChance    float64             `yaml:"wake_chance"`
	WakeStep      float64             `yaml:"wake_step"`
	Value         int                 `yaml:"value"`
	Weapon        string              `yaml:"weapon"`
	Controller    string              `yaml:"controller"`
	Messages      map[string][]string `yaml:"messages"`

	// Thief controller tuning; ignored for other controller kinds.
	StashRoom         string  `yaml:"stash_room"`
	PuzzleObject      string  `yaml:"puzzle_object"`
	RoomTheftChance   float64 `yaml:"room_theft_chance"`
	PlayerTheftChance float64 `yaml:"player_theft_chance"`
	DropChance        float64 `yaml:"drop_chance"`
	MaxScan           int     `yaml:"max_scan"`
}

// LoadFromFile reads and validates a world YAML file.
//
// Precondition: path must point to a valid YAML world file.
// Postcondition: Returns a validated Definition or a non-nil error.
func LoadFromFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading world file %s: %w", path, err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses and validates a world definition from YAML bytes.
//
// Postcondition: Returns a Definition whose player actor is placed in the
// world's start room, or a non-nil error.
func LoadFromBytes(data []byte) (*Definition, error) {
	var file yamlWorldFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing world YAML: %w", err)
	}

	w := New()
	yw := file.World

	for _, yr := range yw.Rooms {
		room := &Room{ID: yr.ID, Name: yr.Name, Exits: yr.Exits}
		if yr.Lit {
			room.Set(RoomLit)
		}
		if yr.Sacred {
			room.Set(RoomSacred)
		}
		if yr.OnLand {
			room.Set(RoomOnLand)
		}
		if err := w.AddRoom(room); err != nil {
			return nil, err
		}
	}

	for _, yo := range yw.Objects {
		obj := &Object{
			ID:       yo.ID,
			Name:     yo.Name,
			Location: yo.Location,
			Value:    yo.Value,
			Fuel:     yo.Fuel,
		}
		if !yo.Hidden {
			obj.Set(ObjVisible)
		}
		if yo.Takeable {
			obj.Set(ObjTakeable)
		}
		if yo.Weapon {
			obj.Set(ObjWeapon)
		}
		if yo.LightSource {
			obj.Set(ObjLightSource)
		}
		if yo.Lit {
			obj.Set(ObjLit)
		}
		if yo.Bonded {
			obj.Set(ObjBonded)
		}
		for _, ys := range yo.FuelStages {
			obj.FuelStages = append(obj.FuelStages, FuelStage(ys))
		}
		if err := w.AddObject(obj); err != nil {
			return nil, err
		}
	}

	player := &actor.Actor{ID: PlayerID, Name: "you", RoomID: yw.StartRoom}
	if err := w.AddActor(player); err != nil {
		return nil, err
	}

	for _, ya := range yw.Adversaries {
		profile := &actor.Profile{
			ID:            ya.ID,
			Name:          ya.Name,
			BaseStrength:  ya.Strength,
			CounterWeapon: ya.CounterWeapon,
			Advantage:     ya.Advantage,
			WakeChance:    ya.WakeChance,
			WakeStep:      ya.WakeStep,
			Value:         ya.Value,
			Messages:      ya.Messages,
		}
		if err := profile.Validate(); err != nil {
			return nil, fmt.Errorf("adversary %s: %w", ya.ID, err)
		}
		adv := profile.Spawn(ya.ID, ya.Room)
		adv.WeaponID = ya.Weapon
		if err := w.AddActor(adv); err != nil {
			return nil, err
		}
	}

	def := &Definition{
		World:         w,
		Tuning:        convertTuning(yw.Tuning),
		SensingWeapon: yw.SensingWeapon,
		Ambience:      yw.Ambience,
	}
	for _, ya := range yw.Adversaries {
		if ya.Controller == "" {
			continue
		}
		def.Controllers = append(def.Controllers, ControllerBinding{
			ActorID:           ya.ID,
			Kind:              ya.Controller,
			StashRoom:         ya.StashRoom,
			PuzzleObject:      ya.PuzzleObject,
			RoomTheftChance:   ya.RoomTheftChance,
			PlayerTheftChance: ya.PlayerTheftChance,
			DropChance:        ya.DropChance,
			MaxScan:           ya.MaxScan,
		})
	}
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("validating world: %w", err)
	}
	return def, nil
}

// convertTuning applies defaults for unset tuning fields.
func convertTuning(yt yamlTuning) Tuning {
	t := Tuning{
		StrengthMin:          yt.StrengthMin,
		StrengthMax:          yt.StrengthMax,
		ScorePerStrength:     yt.ScorePerStrength,
		HealInterval:         yt.HealInterval,
		WoundCapacityPenalty: yt.WoundCapacityPenalty,
		BaseCapacity:         yt.BaseCapacity,
	}
	if t.StrengthMin == 0 {
		t.StrengthMin = 2
	}
	if t.StrengthMax == 0 {
		t.StrengthMax = 7
	}
	if t.ScorePerStrength == 0 {
		t.ScorePerStrength = 70
	}
	if t.HealInterval == 0 {
		t.HealInterval = 30
	}
	if t.WoundCapacityPenalty == 0 {
		t.WoundCapacityPenalty = 10
	}
	if t.BaseCapacity == 0 {
		t.BaseCapacity = 100
	}
	return t
}

// Validate checks world-level invariants: the start room exists, every exit
// and object location resolves, and every adversary stands in a real room.
//
// Postcondition: Returns nil if the definition is valid.
func (d *Definition) Validate() error {
	w := d.World
	p := w.Player()
	if p == nil {
		return fmt.Errorf("world has no player")
	}
	if w.Room(p.RoomID) == nil {
		return fmt.Errorf("start room %q does not exist", p.RoomID)
	}
	for _, r := range w.Rooms() {
		for _, exit := range r.Exits {
			if w.Room(exit) == nil {
				return fmt.Errorf("room %s: exit to unknown room %q", r.ID, exit)
			}
		}
	}
	for _, o := range w.Objects() {
		if o.Location == Nowhere || o.Location == PlayerID {
			continue
		}
		if w.Room(o.Location) == nil && w.Actor(o.Location) == nil {
			return fmt.Errorf("object %s: unknown location %q", o.ID, o.Location)
		}
	}
	for _, a := range w.Adversaries() {
		if a.RoomID != Nowhere && w.Room(a.RoomID) == nil {
			return fmt.Errorf("adversary %s: unknown room %q", a.ID, a.RoomID)
		}
		if a.WeaponID != "" && w.Object(a.WeaponID) == nil {
			return fmt.Errorf("adversary %s: unknown weapon %q", a.ID, a.WeaponID)
		}
	}
	if d.SensingWeapon != "" && w.Object(d.SensingWeapon) == nil {
		return fmt.Errorf("sensing weapon %q does not exist", d.SensingWeapon)
	}
	for _, cb := range d.Controllers {
		switch cb.Kind {
		case "guard", "thief":
		default:
			return fmt.Errorf("adversary %s: unknown controller kind %q", cb.ActorID, cb.Kind)
		}
		if cb.StashRoom != "" && w.Room(cb.StashRoom) == nil {
			return fmt.Errorf("adversary %s: unknown stash room %q", cb.ActorID, cb.StashRoom)
		}
	}
	return nil
}
