package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/recq/logger"
	"github.com/kbukum/recq/observability"
	"github.com/kbukum/recq/plan"
	"github.com/kbukum/recq/server"
	"github.com/kbukum/recq/source"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the query API over HTTP",
		Long: `Serve the query API until interrupted.

Endpoints:
  GET  /health
  POST /v1/query            {"plan": {...}, "records": [...], "previous": [...]}
  POST /v1/plans/validate   plan document as JSON, or YAML with a yaml content type`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				rootOpts.Config.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, rootOpts)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.addr)")
	return cmd
}

func serve(ctx context.Context, opts *RootOptions) error {
	cfg := opts.Config
	log := opts.Log

	srvOpts := []server.Option{
		server.WithLogger(log),
		server.WithVersion(cfg.Version),
	}

	if cfg.Tracing.Enabled {
		shutdown, metrics, err := initTelemetry(ctx, cfg)
		if err != nil {
			return err
		}
		defer shutdown()
		srvOpts = append(srvOpts, server.WithExecutorOptions(
			plan.WithTracer(observability.Tracer(cfg.Name)),
			plan.WithMetrics(metrics),
		))
	}

	if cfg.Source.SQLite != "" {
		db, err := source.OpenSQLite(ctx, cfg.Source.SQLite)
		if err != nil {
			return err
		}
		defer db.Close()
		srvOpts = append(srvOpts, server.WithHealthCheckers(db))
	}

	srv, err := server.New(cfg.Server, srvOpts...)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}

func initTelemetry(ctx context.Context, cfg *AppConfig) (func(), *observability.Metrics, error) {
	tcfg := observability.DefaultTracerConfig(cfg.Name)
	tcfg.ServiceVersion = cfg.Version
	tcfg.Environment = cfg.Environment
	tcfg.Endpoint = cfg.Tracing.Endpoint
	tcfg.Insecure = cfg.Tracing.Insecure
	tcfg.SampleRate = cfg.Tracing.SampleRate
	tp, err := observability.InitTracer(ctx, tcfg)
	if err != nil {
		return nil, nil, fmt.Errorf("init tracer: %w", err)
	}

	mcfg := observability.DefaultMeterConfig(cfg.Name)
	mcfg.ServiceVersion = cfg.Version
	mcfg.Environment = cfg.Environment
	mcfg.Endpoint = cfg.Tracing.Endpoint
	mcfg.Insecure = cfg.Tracing.Insecure
	mp, err := observability.InitMeter(ctx, mcfg)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, nil, fmt.Errorf("init meter: %w", err)
	}

	metrics, err := observability.NewMetrics(observability.Meter(cfg.Name))
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return nil, nil, fmt.Errorf("create metrics: %w", err)
	}

	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Warn("tracer shutdown failed", logger.ErrorFields("shutdown", err))
		}
		if err := mp.Shutdown(ctx); err != nil {
			logger.Warn("meter shutdown failed", logger.ErrorFields("shutdown", err))
		}
	}
	return shutdown, metrics, nil
}
