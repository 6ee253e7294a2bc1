package cli

import (
	"fmt"

	"github.com/aryankumar/sep/internal/action"
	"github.com/aryankumar/sep/internal/catalog"
	"github.com/aryankumar/sep/internal/executor"
	"github.com/aryankumar/sep/internal/output"
	"github.com/aryankumar/sep/internal/probe"
	"github.com/spf13/cobra"
)

func newHealthCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health [probe]",
		Short: "Run health probes",
		Long: `Run every registered probe, or only the named one, and print one
"<name> : HEALTHY" line per probe. Probes run in name order in batches of
--concurrency. The command fails when any probe is unhealthy.`,
		Example: `  # Run all probes
  sep health

  # Run one probe
  sep health foo

  # Run probes one at a time, table output
  sep health -c 1 -o table`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			return a.runHealth(cmd, name)
		},
	}

	return cmd
}

func (a *app) runHealth(cmd *cobra.Command, name string) error {
	runner, err := a.probeRunner(a.engine())
	if err != nil {
		return err
	}

	results, err := runner.Run(cmd.Context(), name)
	if err != nil {
		return err
	}

	formatter := a.formatter()
	if !cmd.Flags().Changed("output") {
		formatter = a.formatterFor(output.FormatText)
	}
	if err := formatter.FormatResults(cmd.OutOrStdout(), results); err != nil {
		return err
	}

	if failed := action.CountFailed(results); failed > 0 {
		return fmt.Errorf("%d of %d probes unhealthy", failed, results.Len())
	}
	return nil
}

// probeRunner registers the configured probes, or the demo probes, and
// returns a runner over them
func (a *app) probeRunner(engine *executor.Engine) (*probe.Runner, error) {
	probes, err := a.catalog().BuildAll(catalog.ProbesOrDemo(a.config))
	if err != nil {
		return nil, err
	}

	registry := probe.NewRegistry(probes...)
	return probe.NewRunner(engine, registry, a.config.Defaults.ConcurrencyLevel, a.logger), nil
}
