package executor

import (
	"context"
	"fmt"

	"github.com/aryankumar/sep/internal/action"
	"github.com/aryankumar/sep/internal/util"
)

// Pattern names accepted by Apply
const (
	PatternParallel        = "parallel"
	PatternBatched         = "batched"
	PatternFanOutFanIn     = "fanoutfanin"
	PatternInvokeWithRetry = "invokewithretry"
)

// Patterns lists the names Apply accepts
func Patterns() []string {
	return []string{PatternParallel, PatternFanOutFanIn, PatternInvokeWithRetry}
}

// Request bundles everything a named pattern may need
type Request struct {
	Actions []action.Action
	Reducer action.Reducer
	Retry   []RetryOption
}

// Apply dispatches req to the pattern called name. invokewithretry retries
// the first action of the request only.
func (e *Engine) Apply(ctx context.Context, name string, req Request) (*action.ResultSet, error) {
	switch name {
	case PatternParallel:
		return e.Parallel(ctx, req.Actions), nil
	case PatternFanOutFanIn:
		return e.FanOutFanIn(ctx, req.Actions, req.Reducer)
	case PatternInvokeWithRetry:
		var first action.Action
		if len(req.Actions) > 0 {
			first = req.Actions[0]
		}
		return e.Retry(ctx, first, req.Retry...), nil
	default:
		return nil, fmt.Errorf("%q: %w", name, util.ErrPatternNotFound)
	}
}
