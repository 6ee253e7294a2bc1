package executor

import (
	"context"

	"github.com/aryankumar/sep/internal/action"
	"github.com/aryankumar/sep/internal/util"
)

// RetryOption overrides the engine's retry defaults for one call
type RetryOption func(*retryConfig)

type retryConfig struct {
	count int
	async bool
}

// RetryCount overrides the retry bound, negative values become 0
func RetryCount(n int) RetryOption {
	return func(c *retryConfig) {
		c.count = max(n, 0)
	}
}

// AsyncRetry overrides the retry mode
func AsyncRetry(async bool) RetryOption {
	return func(c *retryConfig) {
		c.async = async
	}
}

// Retry executes a and retries it on failure.
//
// In synchronous mode a runs at most R+1 times, stopping at the first success;
// the returned set holds the last Result. In asynchronous mode a runs once and
// that outcome is returned immediately; if it failed, a detached chain of up
// to R further attempts is started whose outcome only reaches
// Observer.OnDetachedRetry.
//
// A nil or unnamed action yields the empty ResultSet.
func (e *Engine) Retry(ctx context.Context, a action.Action, opts ...RetryOption) *action.ResultSet {
	cfg := retryConfig{count: e.retryCount, async: e.asyncRetry}
	for _, opt := range opts {
		opt(&cfg)
	}

	inv := newInvocation(PatternInvokeWithRetry, e.logger)
	name := nameOf(a)
	if name == "" {
		inv.logger.Debug("no action to retry")
		inv.transition(Settled)
		return action.Empty()
	}

	inv.transition(Dispatching)
	inv.logger.Info("invoking action with retry",
		"action", name,
		"retry_count", cfg.count,
		"async_retry", cfg.async)

	if !cfg.async {
		inv.transition(AwaitingCompletion)
		results := e.chain(ctx, inv, name, a, cfg.count+1)
		inv.transition(Settled)
		return results
	}

	inv.transition(AwaitingCompletion)
	results := e.chain(ctx, inv, name, a, 1)
	inv.transition(Settled)

	if r, _ := results.Get(name); !r.OK() && cfg.count > 0 {
		e.detach(ctx, name, a, cfg.count)
	}

	return results
}

// chain runs a up to attempts times, strictly sequentially
func (e *Engine) chain(ctx context.Context, inv *invocation, name string, a action.Action, attempts int) *action.ResultSet {
	var r action.Result
	for remaining, n := attempts, 1; remaining > 0; remaining, n = remaining-1, n+1 {
		r = e.attempt(ctx, name, a)
		inv.logger.Debug("retry attempt settled",
			"action", name,
			"attempt", n,
			"remaining", remaining-1,
			"success", r.OK())
		e.observers.attempt(name, n, r)

		if r.OK() {
			break
		}
	}
	return action.Single(name, r)
}

// detach starts a fire-and-forget retry chain. The caller's context is
// stripped of cancellation so the chain outlives the request that spawned it.
func (e *Engine) detach(ctx context.Context, name string, a action.Action, attempts int) {
	e.mu.Lock()
	if e.shutdown {
		e.mu.Unlock()
		e.logger.Warn("detached retry refused", "action", name, "error", util.ErrShutdown)
		return
	}
	e.detached.Add(1)
	e.mu.Unlock()

	detachedCtx := context.WithoutCancel(ctx)
	inv := newInvocation(PatternInvokeWithRetry, e.logger)

	go func() {
		defer e.detached.Add(-1)

		inv.transition(Dispatching)
		inv.transition(AwaitingCompletion)
		results := e.chain(detachedCtx, inv, name, a, attempts)
		inv.transition(Settled)

		r, _ := results.Get(name)
		inv.logger.Info("detached retry completed", "action", name, "success", r.OK(), "code", r.Code)
		e.observers.detached(name, results)
	}()
}
