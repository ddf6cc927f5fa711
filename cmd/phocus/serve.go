package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aretw0/phocus/internal/cli"
	httpAdapter "github.com/aretw0/phocus/pkg/adapters/http"
	"github.com/aretw0/phocus/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Exposes the engine as a JSON API over HTTP, with Prometheus metrics on /metrics and lifecycle events on /events.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics := observability.NewMetrics(reg)
		streams := httpAdapter.NewStreamManager()

		engine, cleanup, err := loadEngine(sigCtx, cmd, metrics.Hooks(), streams.Hooks())
		if err != nil {
			return err
		}
		defer cleanup()

		opts := optionsFromFlags(cmd)
		logger, err := cli.CreateLogger(opts.LogLevel)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr: addr,
			Handler: httpAdapter.NewHandler(engine,
				httpAdapter.WithStreams(streams),
				httpAdapter.WithMetrics(reg),
				httpAdapter.WithLogger(logger),
			),
		}

		g, ctx := errgroup.WithContext(sigCtx)
		g.Go(func() error {
			logger.Info("Starting Phocus Server", "address", addr, "source", opts.Source)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			logger.Info("Shutting down", "signal", sigCtx.Signal())

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("Graceful shutdown did not complete", "err", err)
				return srv.Close()
			}
			return nil
		})
		return g.Wait()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
}
