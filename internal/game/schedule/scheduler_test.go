package schedule_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/underhall/internal/game/schedule"
	"github.com/cory-johannsen/underhall/internal/game/world"
)

// appender returns a callback that records its label in order.
func appender(log *[]string, label string) schedule.Callback {
	return func(*world.World) error {
		*log = append(*log, label)
		return nil
	}
}

func TestTick_DaemonsRunInRegistrationOrder(t *testing.T) {
	s := schedule.New(zap.NewNop())
	w := world.New()
	var fired []string

	require.NoError(t, s.RegisterDaemon("a", appender(&fired, "a"), true))
	require.NoError(t, s.RegisterDaemon("b", appender(&fired, "b"), true))
	require.NoError(t, s.RegisterDaemon("c", appender(&fired, "c"), true))

	s.Tick(w)
	s.Tick(w)
	assert.Equal(t, []string{"a", "b", "c", "a", "b", "c"}, fired)
}

func TestDisable_SkipsDaemonWithoutReordering(t *testing.T) {
	s := schedule.New(zap.NewNop())
	w := world.New()
	var fired []string

	require.NoError(t, s.RegisterDaemon("a", appender(&fired, "a"), true))
	require.NoError(t, s.RegisterDaemon("b", appender(&fired, "b"), true))
	require.NoError(t, s.RegisterDaemon("c", appender(&fired, "c"), true))

	s.Disable("b")
	s.Tick(w)
	assert.Equal(t, []string{"a", "c"}, fired)

	// Re-enabling restores the original slot, not a new one at the end.
	fired = nil
	s.Enable("b")
	s.Tick(w)
	assert.Equal(t, []string{"a", "b", "c"}, fired)
}

func TestEnableDisable_IdempotentAndUnknownIgnored(t *testing.T) {
	s := schedule.New(zap.NewNop())
	w := world.New()
	var fired []string

	require.NoError(t, s.RegisterDaemon("a", appender(&fired, "a"), false))

	s.Enable("a")
	s.Enable("a")
	s.Disable("ghost")
	s.Enable("ghost")
	s.Tick(w)
	assert.Equal(t, []string{"a"}, fired)
	assert.True(t, s.Enabled("a"))
	assert.False(t, s.Enabled("ghost"))
}

func TestRegister_RejectsDuplicatesAndNilCallbacks(t *testing.T) {
	s := schedule.New(zap.NewNop())

	require.NoError(t, s.RegisterDaemon("a", func(*world.World) error { return nil }, true))
	assert.Error(t, s.RegisterDaemon("a", func(*world.World) error { return nil }, true))
	assert.Error(t, s.RegisterInterrupt("a", func(*world.World) error { return nil }, 1))
	assert.Error(t, s.RegisterDaemon("nil", nil, true))
	assert.Error(t, s.RegisterInterrupt("neg", func(*world.World) error { return nil }, -1))
}

func TestInterrupt_FiresOnceAtZero(t *testing.T) {
	s := schedule.New(zap.NewNop())
	w := world.New()
	var fired []string

	require.NoError(t, s.RegisterInterrupt("boom", appender(&fired, "boom"), 3))

	s.Tick(w)
	s.Tick(w)
	assert.Empty(t, fired, "countdown not yet elapsed")
	armed, left := s.Armed("boom")
	assert.True(t, armed)
	assert.Equal(t, 1, left)

	s.Tick(w)
	assert.Equal(t, []string{"boom"}, fired)
	armed, _ = s.Armed("boom")
	assert.False(t, armed, "fired interrupt leaves the active set")

	s.Tick(w)
	assert.Equal(t, []string{"boom"}, fired, "does not fire again")
}

func TestQueueInterrupt_ResetsWithoutStacking(t *testing.T) {
	s := schedule.New(zap.NewNop())
	w := world.New()
	var fired []string

	require.NoError(t, s.RegisterInterrupt("heal", appender(&fired, "heal"), 0))
	armed, _ := s.Armed("heal")
	assert.False(t, armed, "zero countdown registers inactive")

	require.NoError(t, s.QueueInterrupt("heal", 30))
	require.NoError(t, s.QueueInterrupt("heal", 30))
	armed, left := s.Armed("heal")
	assert.True(t, armed)
	assert.Equal(t, 30, left, "double queue resets, never stacks")

	for i := 0; i < 30; i++ {
		s.Tick(w)
	}
	assert.Equal(t, []string{"heal"}, fired, "one queued firing, not two")
}

func TestQueueInterrupt_Errors(t *testing.T) {
	s := schedule.New(zap.NewNop())

	require.NoError(t, s.RegisterDaemon("d", func(*world.World) error { return nil }, true))
	require.NoError(t, s.RegisterInterrupt("i", func(*world.World) error { return nil }, 0))

	assert.Error(t, s.QueueInterrupt("missing", 5))
	assert.Error(t, s.QueueInterrupt("d", 5))
	assert.Error(t, s.QueueInterrupt("i", 0))
}

func TestInterrupt_CanRequeueItself(t *testing.T) {
	s := schedule.New(zap.NewNop())
	w := world.New()

	count := 0
	cb := func(*world.World) error {
		count++
		if count < 3 {
			return s.QueueInterrupt("pulse", 1)
		}
		return nil
	}
	require.NoError(t, s.RegisterInterrupt("pulse", cb, 1))

	for i := 0; i < 5; i++ {
		s.Tick(w)
	}
	assert.Equal(t, 3, count, "fires each turn while it re-queues, then stops")
}

func TestInterrupt_DisarmWhileCounting(t *testing.T) {
	s := schedule.New(zap.NewNop())
	w := world.New()
	var fired []string

	require.NoError(t, s.RegisterInterrupt("fuse", appender(&fired, "fuse"), 2))
	s.Tick(w)
	s.Disable("fuse")
	s.Tick(w)
	s.Tick(w)
	assert.Empty(t, fired)

	// Enable re-arms the remaining countdown.
	s.Enable("fuse")
	s.Tick(w)
	assert.Equal(t, []string{"fuse"}, fired)
}

func TestTick_IsolatesFailuresAndPanics(t *testing.T) {
	s := schedule.New(zap.NewNop())
	w := world.New()
	var fired []string

	require.NoError(t, s.RegisterDaemon("fails", func(*world.World) error {
		return errors.New("boom")
	}, true))
	require.NoError(t, s.RegisterDaemon("panics", func(*world.World) error {
		panic("boom")
	}, true))
	require.NoError(t, s.RegisterDaemon("after", appender(&fired, "after"), true))

	assert.NotPanics(t, func() { s.Tick(w) })
	assert.Equal(t, []string{"after"}, fired, "later callbacks still run")
}

func TestTick_NewRegistrationsWaitForNextTick(t *testing.T) {
	s := schedule.New(zap.NewNop())
	w := world.New()
	var fired []string

	require.NoError(t, s.RegisterDaemon("spawner", func(*world.World) error {
		if !s.Enabled("child") {
			return s.RegisterDaemon("child", appender(&fired, "child"), true)
		}
		return nil
	}, true))

	s.Tick(w)
	assert.Empty(t, fired, "a daemon registered mid-tick must not run this tick")
	s.Tick(w)
	assert.Equal(t, []string{"child"}, fired)
}

func TestSnapshotRestore_RoundTrip(t *testing.T) {
	s := schedule.New(zap.NewNop())
	w := world.New()

	require.NoError(t, s.RegisterDaemon("fight", func(*world.World) error { return nil }, true))
	require.NoError(t, s.RegisterDaemon("villains", func(*world.World) error { return nil }, true))
	require.NoError(t, s.RegisterInterrupt("heal", func(*world.World) error { return nil }, 0))
	require.NoError(t, s.QueueInterrupt("heal", 30))
	s.Disable("villains")
	s.Tick(w)

	snap := s.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "fight", snap[0].Name)
	assert.Equal(t, "villains", snap[1].Name)
	assert.Equal(t, "heal", snap[2].Name)
	assert.Equal(t, 29, snap[2].Countdown)

	// Fresh scheduler with the same registrations restores to the same state.
	s2 := schedule.New(zap.NewNop())
	require.NoError(t, s2.RegisterDaemon("fight", func(*world.World) error { return nil }, true))
	require.NoError(t, s2.RegisterDaemon("villains", func(*world.World) error { return nil }, true))
	require.NoError(t, s2.RegisterInterrupt("heal", func(*world.World) error { return nil }, 0))
	s2.Restore(snap)

	assert.True(t, s2.Enabled("fight"))
	assert.False(t, s2.Enabled("villains"))
	armed, left := s2.Armed("heal")
	assert.True(t, armed)
	assert.Equal(t, 29, left)

	// Stale entries for unregistered events are ignored.
	s2.Restore([]schedule.EventState{{Name: "ghost", Enabled: true}})
	assert.False(t, s2.Enabled("ghost"))
}
