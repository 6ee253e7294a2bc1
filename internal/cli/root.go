package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aryankumar/sep/internal/catalog"
	"github.com/aryankumar/sep/internal/config"
	"github.com/aryankumar/sep/internal/executor"
	"github.com/aryankumar/sep/internal/output"
	"github.com/spf13/cobra"
)

// app holds the state shared by every subcommand once the root has loaded
// configuration
type app struct {
	cfgFile string
	manager *config.Manager
	config  *config.SEPConfig
	logger  *slog.Logger
}

// Execute runs the root command with the provided context
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

// newRootCmd creates the root command
func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "sep",
		Short: "sep - run named actions under parallel, batched and retry patterns",
		Long: `sep runs named units of work ("actions" and "probes") under one of
several concurrency disciplines: unbounded parallel, strictly serial or fixed
size batches. Results are aggregated per name, and a bounded retry, either
synchronous or fire-and-forget, can be layered on top of a single action.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	// Define persistent flags
	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.sep.yaml)")
	rootCmd.PersistentFlags().String("kubeconfig", "", "path to kubeconfig file for kubernetes probes (default is $HOME/.kube/config)")
	rootCmd.PersistentFlags().IntP("retry", "r", config.DefaultRetryCount, "number of retries after the first attempt")
	rootCmd.PersistentFlags().Bool("async-retry", false, "run retries detached from the caller")
	rootCmd.PersistentFlags().IntP("concurrency", "c", 0, "batch size (0 unbounded, 1 serial)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format (table, json, yaml, text)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output with debug logging")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")

	// Add subcommands
	rootCmd.AddCommand(newParallelCmd(a))
	rootCmd.AddCommand(newFanOutCmd(a))
	rootCmd.AddCommand(newRetryCmd(a))
	rootCmd.AddCommand(newHealthCmd(a))
	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// flagBindings maps persistent flags onto configuration keys
var flagBindings = map[string]string{
	"retry":       "defaults.retryCount",
	"async-retry": "defaults.asyncRetry",
	"concurrency": "defaults.concurrencyLevel",
	"output":      "defaults.outputFormat",
	"no-color":    "defaults.noColor",
	"kubeconfig":  "kubeconfig",
	"verbose":     "verbose",
}

// init loads configuration and sets up logging
func (a *app) init(cmd *cobra.Command) error {
	a.manager = config.NewManager(a.cfgFile)

	v := a.manager.Viper()
	for flag, key := range flagBindings {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag %q: %w", flag, err)
		}
	}

	cfg, err := a.manager.Load()
	if err != nil {
		return err
	}
	a.config = cfg

	a.logger = setupLogging(v.GetBool("verbose"), cfg.Defaults.NoColor)
	if used := v.ConfigFileUsed(); used != "" {
		a.logger.Debug("loaded configuration", "file", used)
	}

	return nil
}

// setupLogging configures structured logging with slog
func setupLogging(verbose, noColor bool) *slog.Logger {
	// Set log level based on verbose flag
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var handler slog.Handler
	if noColor {
		// Use JSON handler for no-color mode
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	if verbose {
		logger.Debug("verbose logging enabled")
	}

	return logger
}

// engine builds an engine from the loaded defaults
func (a *app) engine(opts ...executor.Option) *executor.Engine {
	d := a.config.Defaults
	base := []executor.Option{
		executor.WithLogger(a.logger),
		executor.WithRetryCount(d.RetryCount),
		executor.WithAsyncRetry(d.AsyncRetry),
		executor.WithBlockingWorkers(d.BlockingWorkers),
	}
	return executor.New(append(base, opts...)...)
}

// catalog builds the action supplier, wired to the configured kubeconfig
func (a *app) catalog() *catalog.Catalog {
	loader := config.NewKubeconfigLoader(a.manager.Viper().GetString("kubeconfig"))
	return catalog.New(
		catalog.WithLogger(a.logger),
		catalog.WithKubeconfig(loader),
	)
}

// formatter returns the formatter selected by --output
func (a *app) formatter() output.Formatter {
	return a.formatterFor(output.Format(a.config.Defaults.OutputFormat))
}

// formatterFor returns a formatter for format carrying the persistent output options
func (a *app) formatterFor(format output.Format) output.Formatter {
	return output.NewFormatter(format, a.outputOptions()...)
}

func (a *app) outputOptions() []output.Option {
	return []output.Option{
		output.WithNoColor(a.config.Defaults.NoColor),
	}
}
