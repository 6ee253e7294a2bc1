// Package executor provides the action orchestration engine.
//
// The Engine runs named actions under several concurrency disciplines and
// aggregates their outcomes into an immutable action.ResultSet. Every call is
// an independent invocation: it owns its result slots, is never short-circuited
// by a failing action and settles exactly once.
//
// # Disciplines
//
//   - Parallel: every action runs concurrently
//   - Batched: actions run in sequential batches sized by a concurrency level
//     (<= 0 unbounded, 1 serial, N batches of N)
//   - FanOutFanIn: Parallel followed by exactly one reducer
//   - Retry: one action retried up to a bound, synchronously or with a
//     detached fire-and-forget chain
//
// # Basic Usage
//
//	engine := executor.New(
//	    executor.WithLogger(logger),
//	    executor.WithRetryCount(3),
//	)
//
//	results := engine.Parallel(ctx, []action.Action{foo, bar})
//	for name, r := range results.All() {
//	    fmt.Println(name, r.Code)
//	}
//
//	merged, err := engine.FanOutFanIn(ctx, actions, merge)
//	if err != nil {
//	    // only a missing reducer is reported as an error
//	}
//
//	results = engine.Retry(ctx, flaky, executor.RetryCount(5))
//
// # Failure Isolation
//
// Errors and panics raised by an action, its optional Start step or a reducer
// are converted into results with action.CodeError. They never abort sibling
// actions and never escape to the caller.
//
// # Blocking Actions
//
// Actions marked with action.Blocking run on a bounded pool of blocking
// workers (WithBlockingWorkers) so that slow I/O cannot starve the rest of the
// invocation.
//
// # Observing
//
// Observer hooks expose batch dispatch, settled actions, retry attempts and
// the outcome of detached retry chains. Drain waits for detached chains during
// shutdown.
//
// # Cancellation
//
// The engine does not cancel work. The context is handed to actions as is and
// an aggregate never resolves before every dispatched action has settled.
package executor
