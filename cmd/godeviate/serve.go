package main

import (
	"context"
	"os/signal"
	"syscall"

	"godeviate/adapters/datareadiness/coercer"
	"godeviate/adapters/excel"
	"godeviate/internal"
	"godeviate/internal/config"
	"godeviate/internal/metrics"
	"godeviate/internal/ops"
	"godeviate/internal/pipeline"
	"godeviate/ui"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the upload web UI and the ops endpoints",
		Long: `Run the web UI (upload, results, downloads, chart) and, unless
OPS_ENABLED=false, a second listener with /healthz, /metrics and pprof.
Both stop together on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			defer logger.Sync()

			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, logger)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "Web UI port (default from PORT, 8080)")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, logger *internal.Logger) error {
	gin.SetMode(cfg.Server.GinMode)

	manager := metrics.NewManager()
	reader := excel.NewDataReader(excel.DefaultReaderConfig(), logger)
	analyzer := pipeline.NewAnalyzer(coercer.CoercionConfig{Lenient: cfg.Analysis.LenientNumbers}, logger, manager)

	server, err := ui.NewServer(reader, analyzer, ui.OptionsFromConfig(cfg), logger)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.ListenAndServe(ctx, ":"+cfg.Server.Port, cfg.Server.ShutdownTimeout)
	})
	if cfg.Ops.Enabled && cfg.Ops.Port != "" {
		g.Go(func() error {
			return ops.Serve(ctx, "ops", ":"+cfg.Ops.Port, ops.NewRouter(manager.Handler()), cfg.Server.ShutdownTimeout, logger)
		})
	}
	return g.Wait()
}
