package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/osse101/CommentGarden_Go/internal/config"
	"github.com/osse101/CommentGarden_Go/internal/logger"
)

// SetupLogger installs the default logger, writing to stdout and a fresh
// session file under cfg.LogDir. Older sessions beyond LogFileRetentionCount
// are pruned. The caller closes the returned file.
func SetupLogger(cfg *config.Config) (*os.File, error) {
	if err := os.MkdirAll(cfg.LogDir, DirPermission); err != nil {
		return nil, fmt.Errorf("%s: %w", LogMsgFailedCreateLogsDir, err)
	}
	pruneErr := pruneSessionLogs(cfg.LogDir, LogFileRetentionCount)

	logFile, err := openSessionLog(cfg.LogDir, time.Now())
	if err != nil {
		return nil, err
	}

	debugEnv := cfg.Environment == "dev" || cfg.Environment == "development"
	logCfg := logger.NewConfig(cfg.LogLevel, cfg.LogFormat, cfg.ServiceName, cfg.Version, cfg.Environment, debugEnv)
	logger.InitLoggerWithWriter(logCfg, io.MultiWriter(os.Stdout, logFile))

	slog.Info(LogMsgLoggingInitialized, "level", logCfg.LogLevel(), "file", logFile.Name())
	if pruneErr != nil {
		slog.Warn(LogMsgPruneLogsFailed, "dir", cfg.LogDir, "error", pruneErr)
	}
	slog.Info(LogMsgStartingCommentGarden,
		"environment", cfg.Environment,
		"version", cfg.Version,
		"log_format", cfg.LogFormat)
	slog.Debug(LogMsgConfigurationLoaded,
		"port", cfg.Port,
		"storage_driver", cfg.StorageDriver,
		"detector", cfg.DetectorAddr != "" || cfg.DetectorCommand != "",
		"backend", cfg.BackendEnabled(),
		"discord", cfg.DiscordEnabled(),
		"trusted_proxies", len(cfg.TrustedProxies))

	return logFile, nil
}

func openSessionLog(dir string, started time.Time) (*os.File, error) {
	name := filepath.Join(dir, fmt.Sprintf(LogFileNamePattern, started.Format(LogFileTimestampFormat)))
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, LogFilePermission)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", LogMsgFailedOpenLogFile, err)
	}
	return f, nil
}

// pruneSessionLogs deletes the oldest session logs until at most keep remain.
// Other files in dir are left alone.
func pruneSessionLogs(dir string, keep int) error {
	sessions, err := filepath.Glob(filepath.Join(dir, LogFileGlob))
	if err != nil || len(sessions) <= keep {
		return err
	}

	// timestamped names sort chronologically
	slices.Sort(sessions)
	var errs []error
	for _, path := range sessions[:len(sessions)-keep] {
		if err := os.Remove(path); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
