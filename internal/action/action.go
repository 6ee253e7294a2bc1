package action

import "context"

// Action is a named unit of work producing a Result.
// Implementations must be safe to execute more than once.
type Action interface {
	// Name is the identifier the result is stored under
	Name() string

	// Data is the input associated with the action, may be nil
	Data() any

	// Exec runs the action. A returned error is equivalent to a failed Result.
	Exec(ctx context.Context) (Result, error)
}

// Func is the body of an action built with New or NewWithData
type Func func(ctx context.Context) (Result, error)

// Starter is implemented by actions that need a synchronous setup step before
// their work is dispatched. A Start failure is recorded as the action's result
// and Exec is not called.
type Starter interface {
	Start(ctx context.Context) error
}

// Blocker is implemented by actions that perform blocking I/O and must run on
// the engine's blocking worker pool.
type Blocker interface {
	Blocking() bool
}

// Reducer post-processes the full ResultSet of a fan-out into a new one
type Reducer interface {
	Name() string
	Reduce(ctx context.Context, in *ResultSet) (*ResultSet, error)
}

// ReduceFunc is the body of a reducer built with NewReducer
type ReduceFunc func(ctx context.Context, in *ResultSet) (*ResultSet, error)

type funcAction struct {
	name string
	data any
	fn   Func
}

// New creates an action with no associated data
func New(name string, fn Func) Action {
	return &funcAction{name: name, fn: fn}
}

// NewWithData creates an action carrying input data
func NewWithData(name string, data any, fn Func) Action {
	return &funcAction{name: name, data: data, fn: fn}
}

func (a *funcAction) Name() string { return a.name }

func (a *funcAction) Data() any { return a.data }

func (a *funcAction) Exec(ctx context.Context) (Result, error) {
	return a.fn(ctx)
}

type funcReducer struct {
	name string
	fn   ReduceFunc
}

// NewReducer creates a named reducer from a function
func NewReducer(name string, fn ReduceFunc) Reducer {
	return &funcReducer{name: name, fn: fn}
}

func (r *funcReducer) Name() string { return r.name }

func (r *funcReducer) Reduce(ctx context.Context, in *ResultSet) (*ResultSet, error) {
	return r.fn(ctx, in)
}

// blockingAction marks a wrapped action as blocking. Start is forwarded so
// wrapping does not hide a setup step.
type blockingAction struct {
	Action
}

// Blocking wraps a so the engine runs it on its blocking worker pool
func Blocking(a Action) Action {
	if a == nil {
		return nil
	}
	return &blockingAction{Action: a}
}

func (b *blockingAction) Blocking() bool { return true }

func (b *blockingAction) Start(ctx context.Context) error {
	if s, ok := b.Action.(Starter); ok {
		return s.Start(ctx)
	}
	return nil
}

// IsBlocking reports whether a asked to run on the blocking pool
func IsBlocking(a Action) bool {
	b, ok := a.(Blocker)
	return ok && b.Blocking()
}
