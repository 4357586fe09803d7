package bootstrap

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/osse101/CommentGarden_Go/internal/config"
	"github.com/osse101/CommentGarden_Go/internal/detection"
	"github.com/osse101/CommentGarden_Go/internal/handler"
	"github.com/osse101/CommentGarden_Go/internal/logger"
	"github.com/osse101/CommentGarden_Go/internal/modelrpc"
)

// ModelWorker bundles the proxy to the model worker with the host that
// spawns it. Host is nil when the worker is managed externally.
type ModelWorker struct {
	Proxy *modelrpc.Proxy
	Host  *modelrpc.ProcessHost
}

// NewModelWorker wires the proxy for the configured worker. It returns nil
// when neither an address nor a command is configured.
func NewModelWorker(cfg *config.Config) *ModelWorker {
	if cfg.DetectorAddr == "" && cfg.DetectorCommand == "" {
		slog.Info(LogMsgModelWorkerDisabled)
		return nil
	}

	addr := cfg.DetectorAddr
	if addr == "" {
		addr = config.DefaultDetectorAddr
	}

	mw := &ModelWorker{}
	var host modelrpc.Host = modelrpc.ExternalHost{}
	if parts := strings.Fields(cfg.DetectorCommand); len(parts) > 0 {
		mw.Host = modelrpc.NewProcessHost(parts[0], parts[1:]...)
		host = mw.Host
	}

	mw.Proxy = modelrpc.NewProxy(modelrpc.NewWebSocketTransport(addr), host, modelrpc.DefaultConfig())
	slog.Info(LogMsgModelWorkerConfigured, "addr", addr, "spawned", mw.Host != nil)
	return mw
}

// Warmup initializes the worker in the background. Failures only disable the local tier.
func (m *ModelWorker) Warmup(ctx context.Context) {
	if m == nil {
		return
	}
	go func() {
		if err := m.Proxy.Initialize(ctx); err != nil {
			slog.Warn(LogMsgModelWarmupFailed, "error", err)
		}
	}()
}

// Pinger exposes the proxy to readiness checks. It returns a nil interface
// when no worker is configured.
func (m *ModelWorker) Pinger() handler.Pinger {
	if m == nil {
		return nil
	}
	return m.Proxy
}

// Shutdown closes the proxy and stops a spawned worker
func (m *ModelWorker) Shutdown(ctx context.Context) {
	if m == nil {
		return
	}
	if err := m.Proxy.Close(); err != nil {
		logger.ForComponent(ctx, ComponentModelProxy).Error(LogMsgComponentShutdownFailed, "error", err)
	}
	if m.Host != nil {
		if err := m.Host.Stop(ctx); err != nil {
			logger.ForComponent(ctx, ComponentModelHost).Error(LogMsgComponentShutdownFailed, "error", err)
		}
	}
}

// NewDetector builds the classification cascade from the persisted settings
func NewDetector(ctx context.Context, settings *config.DetectionSettings, mw *ModelWorker) (*detection.Cascade, error) {
	detCfg, err := settings.Load(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info(LogMsgDetectionSettingsReady,
		"path", settings.Path(),
		"endpoint", detCfg.HasEndpoint(),
		"fallback", detCfg.EnableFallback)

	// A nil *Proxy inside the interface would defeat the tier's nil check
	var model detection.ModelClient
	if mw != nil {
		model = mw.Proxy
	}
	return detection.NewDefaultCascade(detCfg, &http.Client{}, model), nil
}
