package behavior_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/underhall/internal/game/actor"
	"github.com/cory-johannsen/underhall/internal/game/behavior"
	"github.com/cory-johannsen/underhall/internal/game/combat"
	"github.com/cory-johannsen/underhall/internal/game/rng"
	"github.com/cory-johannsen/underhall/internal/game/world"
	"github.com/cory-johannsen/underhall/internal/testutil"
)

var behaviorCombatConfig = combat.Config{
	StrengthMin:          2,
	StrengthMax:          7,
	ScorePerStrength:     70,
	WoundCapacityPenalty: 10,
	BaseCapacity:         100,
	MinCapacity:          10,
}

// newGuardWorld builds a world with the player and a troll in adjacent rooms.
func newGuardWorld(t *testing.T) (*world.World, *actor.Actor) {
	t.Helper()
	w := world.New()
	require.NoError(t, w.AddRoom(&world.Room{ID: "cellar", Name: "Cellar", Flags: world.RoomOnLand}))
	require.NoError(t, w.AddRoom(&world.Room{ID: "troll_room", Name: "Troll Room", Flags: world.RoomOnLand}))
	require.NoError(t, w.AddActor(&actor.Actor{ID: world.PlayerID, Name: "you", RoomID: "cellar"}))

	profile := &actor.Profile{
		ID:           "troll",
		Name:         "troll",
		BaseStrength: 2,
		WakeChance:   0.3,
		WakeStep:     0.1,
		Messages: map[string][]string{
			"wake": {"The troll stirs, quickly resuming a fighting stance."},
		},
	}
	troll := profile.Spawn("troll", "troll_room")
	require.NoError(t, w.AddActor(troll))
	return w, troll
}

func newGuard(w *world.World, troll *actor.Actor, src rng.Source) *behavior.Guard {
	e := combat.NewEngine(w, src, behaviorCombatConfig, zap.NewNop())
	return behavior.NewGuard(e, src, troll.ID, zap.NewNop())
}

func TestGuard_EngagesOnSight(t *testing.T) {
	w, troll := newGuardWorld(t)
	g := newGuard(w, troll, &testutil.ScriptedSource{})

	g.ExecuteTurn(w)
	assert.False(t, troll.Fighting, "no engagement across rooms")

	w.MoveActor(world.PlayerID, "troll_room")
	g.ExecuteTurn(w)
	assert.True(t, troll.Fighting, "shared room means a fight")
}

func TestGuard_DisengagesWhenPlayerLeaves(t *testing.T) {
	w, troll := newGuardWorld(t)
	g := newGuard(w, troll, &testutil.ScriptedSource{})

	w.MoveActor(world.PlayerID, "troll_room")
	g.ExecuteTurn(w)
	troll.Staggered = true

	w.MoveActor(world.PlayerID, "cellar")
	g.ExecuteTurn(w)
	assert.False(t, troll.Fighting, "combat context ends with the player gone")
	assert.False(t, troll.Staggered, "stagger clears on disengagement")
}

func TestGuard_IgnoresIncapacitatedPlayer(t *testing.T) {
	w, troll := newGuardWorld(t)
	g := newGuard(w, troll, &testutil.ScriptedSource{})
	w.MoveActor(world.PlayerID, "troll_room")
	w.Player().KnockOut()

	g.ExecuteTurn(w)
	assert.False(t, troll.Fighting, "a downed player is not engaged")
}

func TestGuard_WakeEscalation(t *testing.T) {
	w, troll := newGuardWorld(t)
	out := &testutil.BufferEmitter{}
	w.SetEmitter(out)
	// Fail twice (0.99 >= 0.3, 0.99 >= 0.4) then succeed (0.1 < 0.5).
	src := &testutil.ScriptedSource{Floats: []float64{0.99, 0.99, 0.1}}
	g := newGuard(w, troll, src)
	w.MoveActor(world.PlayerID, "troll_room")
	troll.KnockOut()

	g.ExecuteTurn(w)
	g.ExecuteTurn(w)
	assert.Equal(t, actor.StateUnconscious, troll.State())
	assert.Empty(t, out.Lines())

	g.ExecuteTurn(w)
	assert.Equal(t, actor.StateNormal, troll.State())
	assert.Equal(t, 2, troll.Strength, "strength restored on waking")
	assert.InDelta(t, 0.3, troll.WakeChance, 1e-9, "chance resets to the profile default")
	assert.Equal(t, []string{"The troll stirs, quickly resuming a fighting stance."}, out.Lines())
}

func TestGuard_WakesQuietlyAlone(t *testing.T) {
	w, troll := newGuardWorld(t)
	out := &testutil.BufferEmitter{}
	w.SetEmitter(out)
	src := &testutil.ScriptedSource{Floats: []float64{0.0}}
	g := newGuard(w, troll, src)
	troll.KnockOut()

	g.ExecuteTurn(w)
	assert.Equal(t, actor.StateNormal, troll.State())
	assert.Empty(t, out.Lines(), "no narration without the player present")
}

func TestGuard_DeadOrMissingIsNoOp(t *testing.T) {
	w, troll := newGuardWorld(t)
	g := newGuard(w, troll, &testutil.ScriptedSource{})

	troll.Die()
	assert.NotPanics(t, func() { g.ExecuteTurn(w) })

	missing := behavior.NewGuard(
		combat.NewEngine(w, &testutil.ScriptedSource{}, behaviorCombatConfig, zap.NewNop()),
		&testutil.ScriptedSource{}, "grue", zap.NewNop(),
	)
	assert.NotPanics(t, func() { missing.ExecuteTurn(w) })
}
