package executor

import (
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"
)

// State is the lifecycle stage of one engine invocation
type State int32

const (
	Created State = iota
	Dispatching
	AwaitingCompletion
	Reducing
	Settled
)

// String returns the state name used in logs
func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Dispatching:
		return "dispatching"
	case AwaitingCompletion:
		return "awaiting_completion"
	case Reducing:
		return "reducing"
	case Settled:
		return "settled"
	default:
		return "unknown"
	}
}

// invocation tracks one call into the engine. Settled is terminal and is
// entered exactly once.
type invocation struct {
	id      string
	pattern string
	state   atomic.Int32
	logger  *slog.Logger
}

func newInvocation(pattern string, logger *slog.Logger) *invocation {
	id := uuid.NewString()
	return &invocation{
		id:      id,
		pattern: pattern,
		logger:  logger.With("run_id", id, "pattern", pattern),
	}
}

// State returns the current lifecycle stage
func (inv *invocation) State() State {
	return State(inv.state.Load())
}

// transition moves the invocation forward. Moving out of Settled, or
// backwards, is ignored.
func (inv *invocation) transition(to State) bool {
	for {
		from := State(inv.state.Load())
		if from == Settled || to <= from {
			return false
		}
		if inv.state.CompareAndSwap(int32(from), int32(to)) {
			inv.logger.Debug("invocation state changed", "from", from.String(), "to", to.String())
			return true
		}
	}
}
