// Package schedule provides the per-world turn scheduler: recurring daemons
// and one-shot countdown interrupts, executed in registration order every tick.
package schedule

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/underhall/internal/game/world"
)

// Callback is one scheduled unit of work. A returned error is reported and
// isolated; it never aborts the remainder of the tick.
type Callback func(w *world.World) error

// Kind distinguishes daemons from interrupts.
type Kind int

const (
	// KindDaemon runs every turn while enabled, with no countdown.
	KindDaemon Kind = iota
	// KindInterrupt runs once when its countdown reaches zero, then is
	// removed from the active set unless its callback re-queues it.
	KindInterrupt
)

// String returns "daemon" or "interrupt".
func (k Kind) String() string {
	if k == KindDaemon {
		return "daemon"
	}
	return "interrupt"
}

// event is one registered schedule entry.
type event struct {
	name      string
	kind      Kind
	cb        Callback
	enabled   bool // daemons only
	armed     bool // interrupts only
	countdown int  // interrupts only
}

// EventState is the persistable state of one registered event.
type EventState struct {
	Name      string
	Kind      Kind
	Enabled   bool
	Armed     bool
	Countdown int
}

// Scheduler owns the event table for one world instance. Constructed once per
// world and passed by reference to every component that registers or triggers
// events, so multiple world instances never share schedule state.
//
// Invariant: daemons and interrupts fire in registration order within a tick.
type Scheduler struct {
	log    *zap.Logger
	events []*event
	byName map[string]*event
}

// New creates an empty Scheduler logging through logger.
//
// Precondition: logger must be non-nil (use zap.NewNop() in tests).
func New(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		log:    logger,
		byName: make(map[string]*event),
	}
}

// RegisterDaemon registers a recurring callback under name.
//
// Precondition: name must be unique across all registered events.
func (s *Scheduler) RegisterDaemon(name string, cb Callback, enabled bool) error {
	return s.register(&event{name: name, kind: KindDaemon, cb: cb, enabled: enabled})
}

// RegisterInterrupt registers a one-shot callback under name. A positive
// countdown arms it immediately; zero leaves it registered but inactive.
//
// Precondition: name must be unique; countdown must be >= 0.
func (s *Scheduler) RegisterInterrupt(name string, cb Callback, countdown int) error {
	if countdown < 0 {
		return fmt.Errorf("interrupt %q: countdown must be >= 0, got %d", name, countdown)
	}
	return s.register(&event{
		name:      name,
		kind:      KindInterrupt,
		cb:        cb,
		armed:     countdown > 0,
		countdown: countdown,
	})
}

func (s *Scheduler) register(e *event) error {
	if e.cb == nil {
		return fmt.Errorf("%s %q: callback must not be nil", e.kind, e.name)
	}
	if _, ok := s.byName[e.name]; ok {
		return fmt.Errorf("event %q already registered", e.name)
	}
	s.events = append(s.events, e)
	s.byName[e.name] = e
	return nil
}

// Enable activates the named event. For daemons it sets the enabled flag; for
// interrupts it re-arms the remaining countdown, if any. Idempotent. Unknown
// names are a no-op: content momentarily absent must never halt the simulation.
func (s *Scheduler) Enable(name string) {
	e, ok := s.byName[name]
	if !ok {
		return
	}
	switch e.kind {
	case KindDaemon:
		e.enabled = true
	case KindInterrupt:
		if e.countdown > 0 {
			e.armed = true
		}
	}
}

// Disable deactivates the named event. Disabling an event whose callback is
// currently firing does not abort that invocation. Idempotent; unknown names
// are a no-op.
func (s *Scheduler) Disable(name string) {
	e, ok := s.byName[name]
	if !ok {
		return
	}
	e.enabled = false
	e.armed = false
}

// QueueInterrupt (re)arms the named interrupt with the given countdown. If the
// interrupt is already armed its countdown is reset; interrupts never stack.
//
// Precondition: name must refer to a registered interrupt; turns must be > 0.
func (s *Scheduler) QueueInterrupt(name string, turns int) error {
	e, ok := s.byName[name]
	if !ok {
		return fmt.Errorf("interrupt %q not registered", name)
	}
	if e.kind != KindInterrupt {
		return fmt.Errorf("event %q is a daemon, not an interrupt", name)
	}
	if turns <= 0 {
		return fmt.Errorf("interrupt %q: countdown must be > 0, got %d", name, turns)
	}
	e.countdown = turns
	e.armed = true
	return nil
}

// Armed reports whether the named interrupt is currently armed, and its
// remaining countdown.
func (s *Scheduler) Armed(name string) (bool, int) {
	e, ok := s.byName[name]
	if !ok || e.kind != KindInterrupt {
		return false, 0
	}
	return e.armed, e.countdown
}

// Enabled reports whether the named daemon is currently enabled.
func (s *Scheduler) Enabled(name string) bool {
	e, ok := s.byName[name]
	return ok && e.kind == KindDaemon && e.enabled
}

// Tick runs one turn of scheduled work: every enabled daemon in registration
// order, then every armed interrupt's countdown decrement, firing those that
// reach zero in registration order. An interrupt is disarmed before its
// callback runs so the callback can re-queue it.
//
// A callback that fails or panics is reported and isolated; callbacks
// scheduled after it in the same tick still run.
func (s *Scheduler) Tick(w *world.World) {
	// Snapshot length so callbacks registering new events do not run this tick.
	n := len(s.events)

	for i := 0; i < n; i++ {
		e := s.events[i]
		if e.kind != KindDaemon || !e.enabled {
			continue
		}
		s.invoke(e, w)
	}

	var due []*event
	for i := 0; i < n; i++ {
		e := s.events[i]
		if e.kind != KindInterrupt || !e.armed {
			continue
		}
		e.countdown--
		if e.countdown <= 0 {
			due = append(due, e)
		}
	}
	for _, e := range due {
		e.armed = false
		e.countdown = 0
		s.invoke(e, w)
	}
}

// invoke runs one callback, recovering panics and logging failures.
func (s *Scheduler) invoke(e *event, w *world.World) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("scheduled callback panicked",
				zap.String("event", e.name),
				zap.Stringer("kind", e.kind),
				zap.Any("panic", r),
			)
		}
	}()
	if err := e.cb(w); err != nil {
		s.log.Error("scheduled callback failed",
			zap.String("event", e.name),
			zap.Stringer("kind", e.kind),
			zap.Error(err),
		)
	}
}

// Snapshot returns the persistable state of every registered event, in
// registration order.
func (s *Scheduler) Snapshot() []EventState {
	out := make([]EventState, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, EventState{
			Name:      e.name,
			Kind:      e.kind,
			Enabled:   e.enabled,
			Armed:     e.armed,
			Countdown: e.countdown,
		})
	}
	return out
}

// Restore applies saved event state onto the already-registered event table.
// States for events that no longer exist are ignored; events absent from the
// snapshot keep their registration defaults.
func (s *Scheduler) Restore(states []EventState) {
	for _, st := range states {
		e, ok := s.byName[st.Name]
		if !ok {
			continue
		}
		e.enabled = st.Enabled
		e.armed = st.Armed
		e.countdown = st.Countdown
	}
}
