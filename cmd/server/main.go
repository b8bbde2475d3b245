package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vishkar/confluence-gateway/internal/blob"
	"github.com/vishkar/confluence-gateway/internal/config"
	"github.com/vishkar/confluence-gateway/internal/registry"
	"github.com/vishkar/confluence-gateway/internal/rpc"
	"github.com/vishkar/confluence-gateway/internal/web"
	"github.com/vishkar/confluence-gateway/pkg/logging"
)

// version is stamped at build time via -ldflags.
var version = "2.0.0"

func main() {
	if err := rootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:           "confluence-gateway",
		Short:         "Multi-tenant JSON-RPC gateway for the Confluence REST API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to configuration directory or file")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Start the gateway HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), cfgPath)
		},
	}
	root.AddCommand(serve)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the gateway version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println(version)
		},
	}
	root.AddCommand(versionCmd)

	return root
}

func runServe(ctx context.Context, cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Default().Error("failed to load configuration", slog.Any("error", err))
		return err
	}

	logger := logging.New(cfg.Server.LogLevel)

	resolver, err := registry.NewResolver(cfg.Registry, logger)
	if err != nil {
		logger.Error("failed to initialize registry resolver", slog.Any("error", err))
		return err
	}

	var blobs blob.Store = blob.NoopStore{}
	if cfg.Blob.Bucket != "" {
		s3Store, err := blob.NewS3Store(ctx, cfg.Blob, logger)
		if err != nil {
			logger.Error("failed to initialize blob store", slog.Any("error", err))
			return err
		}
		blobs = s3Store
	}

	handler := rpc.NewHandler(resolver, rpc.HandlerOptions{
		BlobStore:      blobs,
		JiraBaseURL:    cfg.Jira.BaseURL,
		BackendTimeout: cfg.Backend.Timeout,
		ServerName:     "confluence-gateway",
		Version:        version,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           web.Router(handler, version, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("gateway listening", slog.String("addr", cfg.Server.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server terminated", slog.Any("error", err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		return err
	}

	logger.Info("gateway stopped")
	return nil
}
