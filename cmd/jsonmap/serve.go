// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kyle-silver/jsonmap/internal/config"
	"github.com/kyle-silver/jsonmap/internal/logging"
	"github.com/kyle-silver/jsonmap/internal/server"
)

// NewServeCmd creates the "serve" subcommand, running the HTTP translate
// service as a long-lived daemon.
func NewServeCmd() *cobra.Command {
	var addr string
	var logFormat string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the jsonmap HTTP translate service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			return runServe(cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", config.Defaults().Addr, "HTTP listen address")
	cmd.Flags().StringVar(&logFormat, "log-format", config.Defaults().LogFormat, "log format: json or text")

	return cmd
}

func runServe(cfg config.Config) error {
	build := logging.BuildInfo{Service: "jsonmap", Version: version, Commit: commit, Date: date}
	logger := logging.Setup(build, cfg.LogFormat, nil)
	logger.Info("jsonmap serve starting", "addr", cfg.Addr)

	translateHandler := server.New(logger, cfg.MaxProgramBytes)
	requestTimeout := time.Duration(cfg.RequestTimeout) * time.Second

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           http.TimeoutHandler(translateHandler, requestTimeout, `{"error":{"kind":"Timeout","message":"request timed out"}}`),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = httpServer.Shutdown(shutdownCtx)
		cancel()
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("serve: %w", err)
	}

	<-ctx.Done()
	logger.Info("jsonmap serve stopped")
	return nil
}
