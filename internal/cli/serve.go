package cli

import (
	"github.com/aryankumar/sep/internal/catalog"
	"github.com/aryankumar/sep/internal/executor"
	"github.com/aryankumar/sep/internal/metrics"
	"github.com/aryankumar/sep/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve patterns and health checks over HTTP",
		Long: `Start the HTTP server.

Endpoints:
  GET /health-checks            run every probe
  GET /health-checks/{name}     run one probe
  GET /api/{pattern}            run parallel, fanoutfanin or invokewithretry
  GET /metrics                  Prometheus metrics

invokewithretry accepts retrymode=async to detach retries and mode=async to
run entirely in the background. On SIGINT or SIGTERM the server stops
accepting requests and waits for background work.`,
		Example: `  # Listen on the configured address (default :5050)
  sep serve

  # Listen on another port
  sep serve --addr :8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runServe(cmd, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")

	return cmd
}

func (a *app) runServe(cmd *cobra.Command, addr string) error {
	if addr == "" {
		addr = a.config.Server.Addr
	}

	recorder := metrics.New(nil)
	engine := a.engine(executor.WithObserver(recorder.Observer()), executor.WithObserver(a.retryObserver()))

	runner, err := a.probeRunner(engine)
	if err != nil {
		return err
	}

	srv := server.New(server.Options{
		Addr:            addr,
		ShutdownTimeout: a.config.Server.ShutdownTimeout,
		Engine:          engine,
		Runner:          runner,
		Catalog:         a.catalog(),
		Recorder:        recorder,
		Logger:          a.logger,
		Actions:         catalog.ActionsOrDemo(a.config),
		Reducer:         a.config.Reducer,
		RetryAction:     catalog.DemoRetryAction(),
	})

	return srv.Run(cmd.Context())
}
