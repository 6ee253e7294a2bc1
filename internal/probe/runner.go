package probe

import (
	"context"
	"log/slog"

	"github.com/aryankumar/sep/internal/action"
	"github.com/aryankumar/sep/internal/executor"
)

// Runner executes registered probes with bounded concurrency
type Runner struct {
	engine   *executor.Engine
	registry *Registry
	level    int
	logger   *slog.Logger
}

// NewRunner creates a probe runner. level follows the engine's concurrency
// level semantics: <= 0 unbounded, 1 serial, N batches of N.
func NewRunner(engine *executor.Engine, registry *Registry, level int, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		engine:   engine,
		registry: registry,
		level:    level,
		logger:   logger,
	}
}

// Level returns the configured concurrency level
func (r *Runner) Level() int {
	return r.level
}

// Registry returns the probe registry the runner reads from
func (r *Runner) Registry() *Registry {
	return r.registry
}

// Run executes the probe called name, or every registered probe when name is
// empty. Probes run in name order, chunked by the concurrency level; a chunk
// settles before the next one starts and a failing probe never stops the run.
//
// An unknown name returns an error wrapping util.ErrProbeNotFound and nothing
// is executed.
func (r *Runner) Run(ctx context.Context, name string) (*action.ResultSet, error) {
	if name == "" {
		probes := r.registry.All()
		r.logger.Debug("running all probes", "probes", len(probes), "level", r.level)
		return r.engine.Batched(ctx, probes, r.level), nil
	}

	p, err := r.registry.Get(name)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("running probe", "probe", name)
	return r.engine.Batched(ctx, []action.Action{p}, r.level), nil
}
