package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/CommentGarden_Go/internal/logger"
)

// GracefulShutdown stops the application in dependency order:
//  1. HTTP server and Discord capture (stop accepting comments)
//  2. Scheduler, rollover worker and pool (finish in-flight jobs)
//  3. One last queue drain so accepted comments are not lost
//  4. SSE hub, model worker and event publisher (flush pending events)
//  5. Snapshot store
//
// Errors during shutdown are logged but do not stop the sequence.
func GracefulShutdown(ctx context.Context, app *App) {
	slog.Info(LogMsgShuttingDownServer)

	if app.Server != nil {
		if err := app.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if app.Discord != nil {
		if err := app.Discord.Stop(); err != nil {
			logger.ForComponent(ctx, ComponentDiscord).Error(LogMsgComponentShutdownFailed, "error", err)
		}
	}

	app.Scheduler.Stop()
	if err := app.Rollover.Shutdown(ctx); err != nil {
		logger.ForComponent(ctx, ComponentRolloverWorker).Error(LogMsgComponentShutdownFailed, "error", err)
	}
	app.Pool.Stop()

	app.Queue.DrainOnce(ctx)

	app.Hub.Stop()
	app.Model.Shutdown(ctx)

	slog.Info(LogMsgShuttingDownEventPublisher)
	if err := app.Publisher.Shutdown(ctx); err != nil {
		slog.Error(LogMsgResilientPublisherFailed, "error", err)
	}

	if err := app.Store.Close(); err != nil {
		logger.ForComponent(ctx, ComponentStore).Error(LogMsgComponentShutdownFailed, "error", err)
	}

	slog.Info(LogMsgServerStopped)
}
