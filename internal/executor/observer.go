package executor

import "github.com/aryankumar/sep/internal/action"

// Observer receives engine events. Every hook is optional and may be called
// concurrently from several goroutines.
type Observer struct {
	// OnBatch is called before a batch of actions is dispatched
	OnBatch func(pattern string, batch, size int)

	// OnSettled is called once per settled action of a parallel or batched run
	OnSettled func(pattern, name string, r action.Result)

	// OnAttempt is called after every attempt of a retry chain
	OnAttempt func(name string, attempt int, r action.Result)

	// OnDetachedRetry receives the outcome of a fire-and-forget retry chain,
	// which is otherwise unreachable
	OnDetachedRetry func(name string, rs *action.ResultSet)
}

type observers []Observer

func (o observers) batch(pattern string, batch, size int) {
	for _, ob := range o {
		if ob.OnBatch != nil {
			ob.OnBatch(pattern, batch, size)
		}
	}
}

func (o observers) settled(pattern, name string, r action.Result) {
	for _, ob := range o {
		if ob.OnSettled != nil {
			ob.OnSettled(pattern, name, r)
		}
	}
}

func (o observers) attempt(name string, attempt int, r action.Result) {
	for _, ob := range o {
		if ob.OnAttempt != nil {
			ob.OnAttempt(name, attempt, r)
		}
	}
}

func (o observers) detached(name string, rs *action.ResultSet) {
	for _, ob := range o {
		if ob.OnDetachedRetry != nil {
			ob.OnDetachedRetry(name, rs)
		}
	}
}
