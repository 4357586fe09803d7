package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/osse101/CommentGarden_Go/internal/backend"
	"github.com/osse101/CommentGarden_Go/internal/config"
	"github.com/osse101/CommentGarden_Go/internal/detection"
	"github.com/osse101/CommentGarden_Go/internal/discord"
	"github.com/osse101/CommentGarden_Go/internal/event"
	"github.com/osse101/CommentGarden_Go/internal/progression"
	"github.com/osse101/CommentGarden_Go/internal/queue"
	"github.com/osse101/CommentGarden_Go/internal/scheduler"
	"github.com/osse101/CommentGarden_Go/internal/server"
	"github.com/osse101/CommentGarden_Go/internal/sse"
	"github.com/osse101/CommentGarden_Go/internal/worker"
)

// App holds every long-lived component of a running instance
type App struct {
	Config      *config.Config
	Store       Store
	Bus         event.Bus
	Publisher   *event.ResilientPublisher
	Settings    *config.DetectionSettings
	Detector    *detection.Cascade
	Model       *ModelWorker
	Progression *progression.Service
	Queue       *queue.Queue
	Pool        *worker.Pool
	Scheduler   *scheduler.Scheduler
	Rollover    *worker.RolloverWorker
	Hub         *sse.Hub
	Server      *server.Server

	// Optional integrations, nil when not configured
	Backend *backend.Client
	Syncer  *backend.Syncer
	Discord *discord.Capture

	extensionUserID string
}

// Build wires the application from configuration without starting anything
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}

	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.Store = store

	app.Bus, app.Publisher, err = InitializeEventSystem(cfg)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	app.Settings = config.NewDetectionSettings(cfg.DetectionConfigPath)
	app.Model = NewModelWorker(cfg)
	app.Detector, err = NewDetector(ctx, app.Settings, app.Model)
	if err != nil {
		app.closeEarly(ctx)
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadDetection, err)
	}

	var rank progression.RankEstimator = progression.NewBandEstimator(
		rand.NewPCG(uint64(time.Now().UnixNano()), uint64(cfg.Port)))

	if cfg.BackendEnabled() {
		app.extensionUserID, err = backend.EnsureExtensionUserID(ctx, store)
		if err != nil {
			app.closeEarly(ctx)
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedExtensionUserID, err)
		}
		app.Backend = backend.New(cfg.BackendURL, cfg.BackendAPIKey)
		rank = progression.NewBackendEstimator(backend.NewLeaderboard(app.Backend, app.extensionUserID), rank)
	} else {
		slog.Info(LogMsgBackendDisabled)
	}

	app.Progression = progression.NewService(store, rank, app.Publisher)
	if app.Backend != nil {
		app.Syncer = backend.NewSyncer(app.Backend, app.Progression, app.extensionUserID)
	}

	app.Pool = worker.NewPool(WorkerPoolSize, WorkerQueueSize)
	app.Queue = queue.New(app.Detector, app.Progression,
		queue.WithRetention(cfg.QueueRetention),
		queue.WithDispatcher(app.Pool))
	app.Rollover = worker.NewRolloverWorker(app.Progression)

	app.Scheduler = scheduler.New(app.Pool)
	app.Scheduler.Schedule(JobNameQueueDrain, cfg.QueueDrainInterval, worker.JobFunc(func(ctx context.Context) error {
		app.Queue.DrainOnce(ctx)
		return nil
	}))
	if app.Syncer != nil {
		app.Scheduler.Schedule(JobNameBackendSync, cfg.BackendSyncInterval, worker.JobFunc(app.syncBackend))
	}

	app.Hub = sse.NewHub()

	var notifier *discord.Notifier
	if cfg.DiscordEnabled() {
		app.Discord, err = discord.New(discord.Config{
			Token:     cfg.DiscordToken,
			ChannelID: cfg.DiscordChannelID,
			UserID:    cfg.DiscordUserID,
		}, app.Queue)
		if err != nil {
			app.closeEarly(ctx)
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedStartDiscord, err)
		}
		notifier = discord.NewNotifier(app.Discord.Session, cfg.DiscordChannelID)
	} else {
		slog.Info(LogMsgDiscordDisabled)
	}

	if err := RegisterEventHandlers(EventHandlerDependencies{
		EventBus: app.Bus,
		Hub:      app.Hub,
		Notifier: notifier,
	}); err != nil {
		app.closeEarly(ctx)
		return nil, err
	}

	app.Server = server.NewServer(server.Config{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		TrustedProxies: cfg.TrustedProxies,
	}, server.Deps{
		Queue:       app.Queue,
		Progression: app.Progression,
		Detector:    app.Detector,
		Settings:    app.Settings,
		Store:       store,
		Hub:         app.Hub,
		Model:       app.Model.Pinger(),
	})

	return app, nil
}

// Start launches background components. The HTTP server is started separately.
func (a *App) Start(ctx context.Context) error {
	a.Pool.Start()
	a.Hub.Start()
	a.Rollover.Start()
	a.Scheduler.Start()
	a.Model.Warmup(ctx)

	if a.Backend != nil {
		go a.registerBackend(ctx)
	}

	if a.Discord != nil {
		if err := a.Discord.Start(); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedStartDiscord, err)
		}
	}
	return nil
}

func (a *App) registerBackend(ctx context.Context) {
	id, err := backend.Register(ctx, a.Backend, a.Store, a.extensionUserID)
	if err != nil {
		slog.Warn(LogMsgBackendRegisterFailed, "error", err)
		return
	}
	slog.Info(LogMsgBackendRegistered, "backend_user_id", id)
}

func (a *App) syncBackend(ctx context.Context) error {
	n, err := a.Syncer.Run(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", LogMsgBackendSyncFailed, err)
	}
	if n > 0 {
		slog.Info(LogMsgBackendSynced, "records", n)
	}
	return nil
}

// closeEarly releases what Build opened before a wiring failure
func (a *App) closeEarly(ctx context.Context) {
	a.Model.Shutdown(ctx)
	if a.Publisher != nil {
		_ = a.Publisher.Shutdown(ctx)
	}
	if a.Store != nil {
		_ = a.Store.Close()
	}
}
