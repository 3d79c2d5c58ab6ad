package timers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/underhall/internal/game/actor"
	"github.com/cory-johannsen/underhall/internal/game/schedule"
	"github.com/cory-johannsen/underhall/internal/game/timers"
	"github.com/cory-johannsen/underhall/internal/game/world"
	"github.com/cory-johannsen/underhall/internal/testutil"
)

func newFuelWorld(t *testing.T, fuel int, stages []world.FuelStage) (*world.World, *world.Object) {
	t.Helper()
	w := world.New()
	require.NoError(t, w.AddRoom(&world.Room{ID: "cellar", Name: "Cellar", Flags: world.RoomOnLand}))
	require.NoError(t, w.AddActor(&actor.Actor{ID: world.PlayerID, Name: "you", RoomID: "cellar"}))
	lamp := &world.Object{
		ID:         "lamp",
		Name:       "lamp",
		Location:   world.PlayerID,
		Fuel:       fuel,
		FuelStages: stages,
		Flags:      world.ObjVisible | world.ObjTakeable | world.ObjLightSource | world.ObjLit,
	}
	require.NoError(t, w.AddObject(lamp))
	return w, lamp
}

func TestFuelInterrupt_WarningStages(t *testing.T) {
	w, lamp := newFuelWorld(t, 101, []world.FuelStage{
		{Remaining: 100, Message: "The lamp appears a bit dimmer."},
		{Remaining: 70, Message: "The lamp is definitely dimmer now."},
		{Remaining: 15, Message: "The lamp is nearly out."},
		{Remaining: 0, Message: "The lamp has run out of power."},
	})
	out := &testutil.BufferEmitter{}
	w.SetEmitter(out)
	s := schedule.New(zap.NewNop())
	require.NoError(t, s.RegisterInterrupt(timers.FuelInterruptName("lamp"), timers.NewFuelInterrupt(s, "lamp", zap.NewNop()), 1))

	for i := 0; i < 31; i++ {
		s.Tick(w)
	}

	assert.Equal(t, 70, lamp.Fuel, "one unit burned per turn")
	assert.Equal(t, []string{
		"The lamp appears a bit dimmer.",
		"The lamp is definitely dimmer now.",
	}, out.Lines(), "exactly the crossed stages announce themselves")
	assert.True(t, lamp.Has(world.ObjLit))
}

func TestFuelInterrupt_BurnoutIsPermanent(t *testing.T) {
	w, lamp := newFuelWorld(t, 2, []world.FuelStage{
		{Remaining: 0, Message: "The lamp has run out of power."},
	})
	out := &testutil.BufferEmitter{}
	w.SetEmitter(out)
	s := schedule.New(zap.NewNop())
	require.NoError(t, s.RegisterInterrupt(timers.FuelInterruptName("lamp"), timers.NewFuelInterrupt(s, "lamp", zap.NewNop()), 1))

	s.Tick(w)
	s.Tick(w)
	assert.Equal(t, 0, lamp.Fuel)
	assert.False(t, lamp.Has(world.ObjLit), "a dry source goes out")
	assert.True(t, lamp.Has(world.ObjBurnedOut))
	assert.Equal(t, []string{"The lamp has run out of power."}, out.Lines())

	// Refueling a burned-out source does not revive it.
	lamp.Fuel = 50
	lamp.Set(world.ObjLit)
	timers.ArmFuel(s, w, "lamp")
	armed, _ := s.Armed(timers.FuelInterruptName("lamp"))
	assert.False(t, armed, "burnout survives refueling")
	s.Tick(w)
	assert.Equal(t, 50, lamp.Fuel)
}

func TestFuelInterrupt_SilentWhenAway(t *testing.T) {
	w, lamp := newFuelWorld(t, 101, []world.FuelStage{
		{Remaining: 100, Message: "The lamp appears a bit dimmer."},
	})
	require.NoError(t, w.AddRoom(&world.Room{ID: "gallery", Name: "Gallery", Flags: world.RoomLit | world.RoomOnLand}))
	lamp.Location = "cellar"
	w.MoveActor(world.PlayerID, "gallery")
	out := &testutil.BufferEmitter{}
	w.SetEmitter(out)
	s := schedule.New(zap.NewNop())
	require.NoError(t, s.RegisterInterrupt(timers.FuelInterruptName("lamp"), timers.NewFuelInterrupt(s, "lamp", zap.NewNop()), 1))

	s.Tick(w)
	assert.Equal(t, 100, lamp.Fuel, "fuel burns even out of sight")
	assert.Empty(t, out.Lines(), "warnings reach only a player who can see the source")
}

func TestFuelInterrupt_StopsWhileUnlit(t *testing.T) {
	w, lamp := newFuelWorld(t, 10, nil)
	s := schedule.New(zap.NewNop())
	require.NoError(t, s.RegisterInterrupt(timers.FuelInterruptName("lamp"), timers.NewFuelInterrupt(s, "lamp", zap.NewNop()), 1))

	s.Tick(w)
	lamp.Clear(world.ObjLit)
	s.Tick(w)
	s.Tick(w)
	assert.Equal(t, 9, lamp.Fuel, "an extinguished source burns nothing")

	// Lighting again re-arms the countdown.
	lamp.Set(world.ObjLit)
	timers.ArmFuel(s, w, "lamp")
	s.Tick(w)
	assert.Equal(t, 8, lamp.Fuel)
}
