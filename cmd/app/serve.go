package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/osse101/CommentGarden_Go/internal/bootstrap"
)

const shutdownTimeout = 30 * time.Second

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Run the HTTP API, capture sources and background workers",
		PreRunE: bindFlags,
		RunE:    runServe,
	}
	cmd.Flags().Int("port", 0, "HTTP port; overrides PORT")
	cmd.Flags().String("storage", "", "snapshot store (sqlite, postgres); overrides STORAGE_DRIVER")
	cmd.Flags().String("detection-config", "", "detection settings file; overrides DETECTION_CONFIG_PATH")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()
	warnEnv()

	ctx := cmd.Context()
	app, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		return err
	}

	// Background components outlive the signal context until shutdown runs
	if err := app.Start(context.WithoutCancel(ctx)); err != nil {
		shutdown(app)
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		if err := app.Server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		slog.Info("Received interrupt signal, shutting down gracefully...")
	case err = <-errCh:
		if err != nil {
			slog.Error("Server failed", "error", err)
		}
	}

	shutdown(app)
	return err
}

func shutdown(app *bootstrap.App) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	bootstrap.GracefulShutdown(ctx, app)
}
