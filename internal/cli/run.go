package cli

import (
	"context"
	"fmt"

	"github.com/aryankumar/sep/internal/action"
	"github.com/aryankumar/sep/internal/catalog"
	"github.com/aryankumar/sep/internal/config"
	"github.com/aryankumar/sep/internal/executor"
	"github.com/aryankumar/sep/internal/util"
	"github.com/spf13/cobra"
)

func newParallelCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parallel",
		Short: "Run every configured action concurrently",
		Long: `Run every configured action and print one result per action name.

With --concurrency N the actions run in sequential batches of N; a batch
settles before the next one starts. When no actions are configured the
built-in demo set is used.`,
		Example: `  # Run all actions at once
  sep parallel

  # Run strictly serially
  sep parallel --concurrency 1

  # Batches of three, JSON output
  sep parallel -c 3 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runParallel(cmd)
		},
	}

	return cmd
}

func (a *app) runParallel(cmd *cobra.Command) error {
	actions, err := a.catalog().BuildAll(catalog.ActionsOrDemo(a.config))
	if err != nil {
		return err
	}

	level := a.config.Defaults.ConcurrencyLevel
	engine := a.engine()

	var results *action.ResultSet
	if level > 0 {
		results = engine.Batched(cmd.Context(), actions, level)
	} else {
		results = engine.Parallel(cmd.Context(), actions)
	}

	return a.formatter().FormatResults(cmd.OutOrStdout(), results)
}

func newFanOutCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "fanout",
		Aliases: []string{"fanoutfanin"},
		Short:   "Run every configured action, then reduce the results",
		Long: `Run every configured action concurrently and hand the complete result
set to the configured reducer exactly once. The reducer's output is printed.`,
		Example: `  # Count successes and failures of the demo actions
  sep fanout`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFanOut(cmd)
		},
	}

	return cmd
}

func (a *app) runFanOut(cmd *cobra.Command) error {
	c := a.catalog()

	actions, err := c.BuildAll(catalog.ActionsOrDemo(a.config))
	if err != nil {
		return err
	}

	reducer, err := c.Reducer(a.config.Reducer)
	if err != nil {
		return err
	}

	results, err := a.engine().FanOutFanIn(cmd.Context(), actions, reducer)
	if err != nil {
		return err
	}

	return a.formatter().FormatResults(cmd.OutOrStdout(), results)
}

func newRetryCmd(a *app) *cobra.Command {
	var wait bool

	cmd := &cobra.Command{
		Use:   "retry [action]",
		Short: "Run one action with bounded retries",
		Long: `Run one configured action, retrying on failure up to --retry more times.

Without an action name the demo action is used, which fails its first ten
invocations. With --async-retry only the first attempt is reported; the
remaining attempts run detached and their outcome is logged.`,
		Example: `  # Retry the demo action three times
  sep retry

  # Retry a configured action up to five times
  sep retry api-check --retry 5

  # Report the first attempt, keep retrying in the background
  sep retry --async-retry`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			return a.runRetry(cmd, name, wait)
		},
	}

	cmd.Flags().BoolVar(&wait, "wait", true, "wait for detached retries before exiting")

	return cmd
}

func (a *app) runRetry(cmd *cobra.Command, name string, wait bool) error {
	def, err := a.retryAction(name)
	if err != nil {
		return err
	}

	act, err := a.catalog().Build(def)
	if err != nil {
		return err
	}

	engine := a.engine(executor.WithObserver(a.retryObserver()))
	results := engine.Retry(cmd.Context(), act)

	if err := a.formatter().FormatResults(cmd.OutOrStdout(), results); err != nil {
		return err
	}

	if !wait || engine.Detached() == 0 {
		return nil
	}

	// cancellation of the command context only cuts the wait short
	ctx, cancel := context.WithTimeout(cmd.Context(), a.config.Server.ShutdownTimeout)
	defer cancel()
	return engine.Drain(ctx)
}

// retryAction resolves the action to retry by name, falling back to the demo
// action when no name is given
func (a *app) retryAction(name string) (config.ActionConfig, error) {
	if name == "" {
		return catalog.DemoRetryAction(), nil
	}
	def, ok := a.manager.GetAction(name)
	if !ok {
		return config.ActionConfig{}, fmt.Errorf("%q: %w", name, util.ErrActionNotFound)
	}
	return *def, nil
}

// retryObserver logs every attempt and the outcome of detached chains
func (a *app) retryObserver() executor.Observer {
	return executor.Observer{
		OnAttempt: func(name string, attempt int, r action.Result) {
			a.logger.Debug("retry attempt", "action", name, "attempt", attempt, "success", r.OK(), "code", r.Code)
		},
		OnDetachedRetry: func(name string, rs *action.ResultSet) {
			a.logger.Info("detached retry finished", "action", name, "summary", action.Summarize(rs).String())
		},
	}
}
