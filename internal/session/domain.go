package session

import (
	"github.com/google/uuid"

	"github.com/portiva/portiva/internal/gate"
	"github.com/portiva/portiva/internal/guard"
	"github.com/portiva/portiva/internal/identity"
	"github.com/portiva/portiva/internal/menu"
)

// GateRequirement is the gate verdict surfaced on a decision.
type GateRequirement string

const (
	GateNone           GateRequirement = "none"
	GateRequireProfile GateRequirement = "require_profile"
)

// Decision is the composite access decision emitted once per navigation.
// It is a value: consumers never mutate it, a new navigation produces a new
// one. This is the sole surface the presentation layer consumes.
type Decision struct {
	ID        uuid.UUID           `json:"id"`
	Screen    string              `json:"screen"`
	Allow     bool                `json:"allow"`
	Redirect  guard.Target        `json:"redirectTarget"`
	Menu      menu.Tree           `json:"menu"`
	Gate      GateRequirement     `json:"gate"`
	Principal *identity.Principal `json:"principal,omitempty"`
}

func gateRequirement(state gate.State) GateRequirement {
	if state.Blocking() {
		return GateRequireProfile
	}
	return GateNone
}
