// Package action defines the unit of work run by the orchestration engine and
// the values it produces.
//
// An Action is a named, reusable piece of work. Executing it yields a Result:
// a status code ("0" means success), an optional message and optional data.
// The results of one orchestration run are gathered into a ResultSet, an
// immutable name-keyed collection that is only handed out after every action
// of the run has settled.
//
// # Basic Usage
//
//	a := action.New("ping", func(ctx context.Context) (action.Result, error) {
//	    return action.SuccessMessage("pong"), nil
//	})
//
//	rs := action.Of(map[string]action.Result{"ping": action.Success()})
//	for name, r := range rs.All() {
//	    fmt.Println(name, r.Code)
//	}
//
// # Optional Behaviour
//
// Actions may implement Starter to run a synchronous setup step before they
// are dispatched, and Blocker to ask the engine to run them on its bounded
// pool of blocking workers. Blocking wraps any action to mark it as blocking.
//
// # Errors
//
// An error returned from Exec is never propagated to the caller of the
// engine. It is converted into a Result with CodeError and the error text as
// its message (see FromError).
package action
