package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aryankumar/sep/internal/action"
	"github.com/aryankumar/sep/internal/util"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
	"golang.org/x/sync/semaphore"
)

const (
	// DefaultRetryCount is used when no retry count is configured
	DefaultRetryCount = 3

	// DefaultBlockingWorkers bounds how many blocking actions run at once
	DefaultBlockingWorkers = 16

	// NullActionPrefix keys the error entry of a nil or unnamed action
	NullActionPrefix = "ACTION_NULL_IDX_"

	// DefaultReducerKey keys a reducer failure when the reducer has no usable name
	DefaultReducerKey = "REDUCER"
)

// ErrNilAction is the error recorded for nil or unnamed actions
var ErrNilAction = errors.New("action is nil or has no name")

// Engine runs actions under the parallel, batched, fan-out/fan-in and retry
// disciplines. An Engine holds no per-invocation state and is safe for
// concurrent use; every call builds and returns its own ResultSet.
type Engine struct {
	logger          *slog.Logger
	retryCount      int
	asyncRetry      bool
	blockingWorkers int
	blocking        *semaphore.Weighted
	observers       observers

	// mu orders detach against Drain so no chain starts after Drain has
	// seen the shutdown flag
	mu sync.Mutex

	// detached counts fire-and-forget retry chains still running
	detached atomic.Int64

	// shutdown indicates Drain has been called, guarded by mu
	shutdown bool
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the structured logger
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithRetryCount sets the default retry bound, negative values become 0
func WithRetryCount(n int) Option {
	return func(e *Engine) {
		e.retryCount = max(n, 0)
	}
}

// WithAsyncRetry sets the default retry mode
func WithAsyncRetry(async bool) Option {
	return func(e *Engine) {
		e.asyncRetry = async
	}
}

// WithBlockingWorkers sets the size of the blocking worker pool.
// Values <= 0 fall back to DefaultBlockingWorkers.
func WithBlockingWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.blockingWorkers = n
		}
	}
}

// WithObserver registers an event observer
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observers = append(e.observers, o)
	}
}

// New creates an engine
func New(opts ...Option) *Engine {
	e := &Engine{
		logger:          slog.Default(),
		retryCount:      DefaultRetryCount,
		blockingWorkers: DefaultBlockingWorkers,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.blocking = semaphore.NewWeighted(int64(e.blockingWorkers))
	return e
}

// RetryCount returns the default retry bound
func (e *Engine) RetryCount() int {
	return e.retryCount
}

// BlockingWorkers returns the size of the blocking worker pool
func (e *Engine) BlockingWorkers() int {
	return e.blockingWorkers
}

// Parallel runs every action concurrently and returns once all have settled.
// An empty input returns the empty ResultSet without dispatching anything.
func (e *Engine) Parallel(ctx context.Context, actions []action.Action) *action.ResultSet {
	return e.run(ctx, newInvocation(PatternParallel, e.logger), actions, 0)
}

// Batched runs actions in sequential batches of size level; actions inside a
// batch run concurrently and a batch fully settles before the next starts.
// level <= 0 runs everything in one batch, level 1 runs strictly serially.
func (e *Engine) Batched(ctx context.Context, actions []action.Action, level int) *action.ResultSet {
	return e.run(ctx, newInvocation(PatternBatched, e.logger), actions, level)
}

// FanOutFanIn runs actions in parallel then hands the full ResultSet to
// reducer exactly once. A nil reducer is rejected before anything is
// dispatched. A failing reducer yields a one-entry error set keyed by its name.
func (e *Engine) FanOutFanIn(ctx context.Context, actions []action.Action, reducer action.Reducer) (*action.ResultSet, error) {
	if isNil(reducer) {
		return nil, util.ErrNoReducer
	}

	inv := newInvocation(PatternFanOutFanIn, e.logger)
	results := e.collect(ctx, inv, actions, 0)

	inv.transition(Reducing)
	reduced := e.reduce(ctx, inv, reducer, results)
	inv.transition(Settled)

	return reduced, nil
}

func (e *Engine) reduce(ctx context.Context, inv *invocation, reducer action.Reducer, in *action.ResultSet) *action.ResultSet {
	var (
		out *action.ResultSet
		err error
	)

	var pc panics.Catcher
	pc.Try(func() {
		out, err = reducer.Reduce(ctx, in)
	})
	if rec := pc.Recovered(); rec != nil {
		err = recoveredError(rec)
	}

	if err != nil {
		name := nameOf(reducer)
		if name == "" {
			name = DefaultReducerKey
		}
		inv.logger.Warn("reducer failed", "reducer", name, "error", err)
		return action.Single(name, action.FromError(err))
	}
	if out == nil {
		return action.Empty()
	}
	return out
}

// task is one dispatchable action and the slot it writes
type task struct {
	index int
	name  string
	act   action.Action
}

func (e *Engine) run(ctx context.Context, inv *invocation, actions []action.Action, level int) *action.ResultSet {
	results := e.collect(ctx, inv, actions, level)
	inv.transition(Settled)
	return results
}

// collect dispatches actions and freezes their slots into a ResultSet.
// It leaves the invocation in AwaitingCompletion so callers may reduce.
func (e *Engine) collect(ctx context.Context, inv *invocation, actions []action.Action, level int) *action.ResultSet {
	if len(actions) == 0 {
		inv.logger.Debug("no actions to execute")
		inv.transition(AwaitingCompletion)
		return action.Empty()
	}

	inv.transition(Dispatching)
	slots := make([]action.Slot, len(actions))
	tasks := make([]task, 0, len(actions))

	for i, a := range actions {
		name := nameOf(a)
		if name == "" {
			name = NullActionPrefix + strconv.Itoa(i)
			inv.logger.Warn("nil or unnamed action", "index", i, "key", name)
			slots[i] = action.Slot{Name: name, Result: action.FromError(ErrNilAction), Filled: true}
			e.observers.settled(inv.pattern, name, slots[i].Result)
			continue
		}

		// a failed start is recorded now and never occupies a batch slot
		if err := e.start(ctx, name, a); err != nil {
			inv.logger.Warn("action failed to start", "action", name, "error", err)
			slots[i] = action.Slot{Name: name, Result: action.FromError(err), Filled: true}
			e.observers.settled(inv.pattern, name, slots[i].Result)
			continue
		}

		tasks = append(tasks, task{index: i, name: name, act: a})
	}

	batches := chunk(tasks, level)

	inv.logger.Info("starting action execution",
		"actions", len(actions),
		"dispatched", len(tasks),
		"batches", len(batches),
		"level", level)

	startTime := time.Now()
	inv.transition(AwaitingCompletion)

	var remaining atomic.Int64
	remaining.Store(int64(len(tasks)))

	for b, batch := range batches {
		e.observers.batch(inv.pattern, b, len(batch))
		inv.logger.Debug("dispatching batch", "batch", b, "size", len(batch))

		var wg conc.WaitGroup
		for _, t := range batch {
			wg.Go(func() {
				r := e.execute(ctx, t.name, t.act)
				slots[t.index] = action.Slot{Name: t.name, Result: r, Filled: true}

				left := remaining.Add(-1)
				inv.logger.Debug("action settled",
					"action", t.name,
					"success", r.OK(),
					"duration", r.Duration,
					"progress", fmt.Sprintf("%d/%d", int64(len(tasks))-left, len(tasks)))
				e.observers.settled(inv.pattern, t.name, r)
			})
		}
		wg.Wait()
	}

	results, duplicates := action.Collect(slots)
	for _, name := range duplicates {
		inv.logger.Warn("duplicate action name, earlier result overwritten", "action", name)
	}

	summary := action.Summarize(results)
	inv.logger.Info("action execution completed",
		"total", summary.Total,
		"successful", summary.Successful,
		"failed", summary.Failed,
		"duration", time.Since(startTime))

	return results
}

// chunk splits tasks into batches of size level. level <= 0 is one batch.
func chunk(tasks []task, level int) [][]task {
	if len(tasks) == 0 {
		return nil
	}
	size := level
	if size <= 0 || size > len(tasks) {
		size = len(tasks)
	}

	batches := make([][]task, 0, (len(tasks)+size-1)/size)
	for start := 0; start < len(tasks); start += size {
		end := min(start+size, len(tasks))
		batches = append(batches, tasks[start:end])
	}
	return batches
}

// nameOf returns the name of n, or "" when n is nil, a typed nil, or its
// Name method panics
func nameOf(n interface{ Name() string }) (name string) {
	if isNil(n) {
		return ""
	}
	var pc panics.Catcher
	pc.Try(func() {
		name = n.Name()
	})
	if pc.Recovered() != nil {
		return ""
	}
	return name
}

// isNil reports whether v is nil or an interface holding a nil pointer, map,
// slice, func or channel
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

// start runs the optional synchronous setup step of a
func (e *Engine) start(ctx context.Context, name string, a action.Action) (err error) {
	s, ok := a.(action.Starter)
	if !ok {
		return nil
	}

	var pc panics.Catcher
	pc.Try(func() {
		err = s.Start(ctx)
	})
	if rec := pc.Recovered(); rec != nil {
		e.logger.Debug("action start panicked", "action", name, "stack", string(rec.Stack))
		err = recoveredError(rec)
	}
	return err
}

// execute runs one action and converts any error or panic into a Result
func (e *Engine) execute(ctx context.Context, name string, a action.Action) action.Result {
	startTime := time.Now()

	if action.IsBlocking(a) {
		// the engine never cancels work, so waiting for a worker ignores ctx
		if err := e.blocking.Acquire(context.WithoutCancel(ctx), 1); err != nil {
			return action.FromError(err).WithDuration(time.Since(startTime))
		}
		defer e.blocking.Release(1)
	}

	var (
		r   action.Result
		err error
	)

	var pc panics.Catcher
	pc.Try(func() {
		r, err = a.Exec(ctx)
	})
	if rec := pc.Recovered(); rec != nil {
		e.logger.Debug("action panicked", "action", name, "stack", string(rec.Stack))
		err = recoveredError(rec)
	}

	if err != nil {
		e.logger.Warn("action failed", "action", name, "error", err)
		r = action.FromError(err)
	} else if r.Code == "" {
		r.Code = action.CodeSuccess
	}

	return r.WithDuration(time.Since(startTime))
}

// attempt is start followed by execute, used by retry chains
func (e *Engine) attempt(ctx context.Context, name string, a action.Action) action.Result {
	startTime := time.Now()
	if err := e.start(ctx, name, a); err != nil {
		return action.FromError(err).WithDuration(time.Since(startTime))
	}
	return e.execute(ctx, name, a)
}

func recoveredError(rec *panics.Recovered) error {
	if err, ok := rec.Value.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", rec.Value)
}

// Drain stops new detached retry chains and waits for running ones.
// The context bounds how long to wait.
func (e *Engine) Drain(ctx context.Context) error {
	e.mu.Lock()
	e.shutdown = true
	e.mu.Unlock()

	e.logger.Debug("draining detached retries", "running", e.detached.Load())

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for e.detached.Load() > 0 {
		select {
		case <-ctx.Done():
			return fmt.Errorf("drain timeout: %w", ctx.Err())
		case <-ticker.C:
		}
	}

	e.logger.Debug("detached retries drained")
	return nil
}

// Detached returns the number of running fire-and-forget retry chains
func (e *Engine) Detached() int {
	return int(e.detached.Load())
}
