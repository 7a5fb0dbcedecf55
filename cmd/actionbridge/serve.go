// cmd/actionbridge/serve.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"actionbridge/internal/engine"
	"actionbridge/internal/mongo"
	"actionbridge/internal/server"
	"actionbridge/internal/sheets"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve /execute and /lookup over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, zapLog, log, err := loadRuntime(opts.configPath)
			if err != nil {
				return err
			}
			defer zapLog.Sync()

			obs := newObservability(cfg, log)
			defer obs.Shutdown()

			ctx := cmd.Context()
			engines := map[string]*engine.Engine{}
			for _, name := range []string{sheets.BackendName, mongo.BackendName} {
				if name == mongo.BackendName && cfg.Mongo.URI == "" {
					continue
				}
				backend, closeFn, err := newBackend(ctx, name, cfg, log)
				if err != nil {
					return err
				}
				defer closeFn()
				engines[name] = engine.New(backend, log, obs)
				zapLog.Info("backend ready", zap.String("backend", name))
			}

			sharedMetrics := cfg.Metrics.Enabled && cfg.Metrics.Address == cfg.Server.Address
			srv := &http.Server{
				Addr:              cfg.Server.Address,
				Handler:           server.New(engines, opts.backend, log).Handler(sharedMetrics),
				ReadHeaderTimeout: 10 * time.Second,
			}
			if cfg.Metrics.Enabled && !sharedMetrics {
				metricsSrv := &http.Server{
					Addr:              cfg.Metrics.Address,
					Handler:           promhttp.Handler(),
					ReadHeaderTimeout: 10 * time.Second,
				}
				go func() {
					zapLog.Info("metrics server listening", zap.String("address", cfg.Metrics.Address))
					if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						zapLog.Error("metrics server failed", zap.Error(err))
					}
				}()
				defer metricsSrv.Close()
			}

			errCh := make(chan error, 1)
			go func() {
				zapLog.Info("server listening", zap.String("address", cfg.Server.Address))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			select {
			case <-sigCh:
				zapLog.Info("shutdown signal received")
			case err := <-errCh:
				if err != nil {
					return err
				}
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}
