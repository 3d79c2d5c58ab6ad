// Package behavior provides per-adversary turn controllers. Every adversary
// kind implements the single Controller contract; a registry keyed by
// adversary identity drives them in a fixed order each turn.
package behavior

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/underhall/internal/game/schedule"
	"github.com/cory-johannsen/underhall/internal/game/world"
)

// DaemonName is the canonical registration name of the adversary behavior
// daemon. It runs after combat and equipment reactions, before fuel
// interrupts.
const DaemonName = "villains"

// Controller is one adversary's per-turn behavior. ExecuteTurn reports
// whether it produced a player-visible message this turn.
type Controller interface {
	ExecuteTurn(w *world.World) bool
}

// Registry maps adversary identity to its Controller and preserves
// registration order, so identical worlds replay identical behavior.
type Registry struct {
	log   *zap.Logger
	order []string
	byID  map[string]Controller
}

// NewRegistry creates an empty Registry logging through logger.
//
// Precondition: logger must be non-nil.
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{log: logger, byID: make(map[string]Controller)}
}

// Register binds c as the controller for the adversary with the given ID.
//
// Precondition: adversaryID must be unique within the registry; c non-nil.
func (r *Registry) Register(adversaryID string, c Controller) error {
	if c == nil {
		return fmt.Errorf("controller for %q must not be nil", adversaryID)
	}
	if _, ok := r.byID[adversaryID]; ok {
		return fmt.Errorf("controller for %q already registered", adversaryID)
	}
	r.order = append(r.order, adversaryID)
	r.byID[adversaryID] = c
	return nil
}

// Controller returns the controller registered for adversaryID, or nil.
func (r *Registry) Controller(adversaryID string) Controller {
	return r.byID[adversaryID]
}

// Daemon returns the scheduler callback that runs every registered
// controller's turn in registration order.
func (r *Registry) Daemon() schedule.Callback {
	return func(w *world.World) error {
		for _, id := range r.order {
			if r.byID[id].ExecuteTurn(w) {
				r.log.Debug("controller produced output", zap.String("adversary", id))
			}
		}
		return nil
	}
}
