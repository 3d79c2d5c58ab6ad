package timers

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/underhall/internal/game/combat"
	"github.com/cory-johannsen/underhall/internal/game/schedule"
	"github.com/cory-johannsen/underhall/internal/game/world"
)

// HealInterruptName is the scheduler registration name of the healing
// interrupt.
const HealInterruptName = "heal"

// NewHealInterrupt returns the healing interrupt callback. Each firing moves
// the wound accumulator one step toward zero and restores one step of
// carrying capacity; while the accumulator is still negative the interrupt
// re-queues itself with the same countdown. It stops re-queueing once the
// accumulator reaches zero.
func NewHealInterrupt(e *combat.Engine, s *schedule.Scheduler, interval int, logger *zap.Logger) schedule.Callback {
	return func(w *world.World) error {
		if e.Heal() {
			return s.QueueInterrupt(HealInterruptName, interval)
		}
		logger.Debug("wounds fully healed")
		return nil
	}
}

// HealArmer returns the callback the combat engine uses to arm the healing
// interrupt when the player is wounded. Arming is idempotent: an already
// armed interrupt keeps its running countdown.
func HealArmer(s *schedule.Scheduler, interval int) func() {
	return func() {
		if armed, _ := s.Armed(HealInterruptName); armed {
			return
		}
		_ = s.QueueInterrupt(HealInterruptName, interval)
	}
}
