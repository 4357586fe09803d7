// @title CommentGarden API
// @version 1.0
// @description Comment sentiment pipeline that grows a virtual garden.
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/osse101/CommentGarden_Go/internal/config"
)

// Viper keys, named after the flags that set them
const (
	keyPort            = "port"
	keyLogLevel        = "log-level"
	keyLogFormat       = "log-format"
	keyStorageDriver   = "storage"
	keyDetectionConfig = "detection-config"
	keyDetectorAddr    = "detector"
)

var rootCmd = &cobra.Command{
	Use:           "comment-garden",
	Short:         "Grow a garden from the tone of your comments",
	Long:          "CommentGarden classifies captured comments and turns their sentiment into tree health, growth and weekly lottery tickets.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error); overrides LOG_LEVEL")
	rootCmd.PersistentFlags().String("log-format", "", "log format (text, json); overrides LOG_FORMAT")

	_ = viper.BindPFlag(keyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag(keyLogFormat, rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(doctorCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bindFlags binds the running command's own flags. Commands share flag
// names, so binding happens at run time rather than in init.
func bindFlags(cmd *cobra.Command, _ []string) error {
	return viper.BindPFlags(cmd.Flags())
}

// loadConfig reads the environment and applies any flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	applyOverrides(cfg)
	return cfg, nil
}

func applyOverrides(cfg *config.Config) {
	if viper.IsSet(keyPort) {
		cfg.Port = viper.GetInt(keyPort)
	}
	if v := viper.GetString(keyLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := viper.GetString(keyLogFormat); v != "" {
		cfg.LogFormat = v
	}
	if v := viper.GetString(keyStorageDriver); v != "" {
		cfg.StorageDriver = v
	}
	if v := viper.GetString(keyDetectionConfig); v != "" {
		cfg.DetectionConfigPath = v
	}
	if v := viper.GetString(keyDetectorAddr); v != "" {
		cfg.DetectorAddr = v
	}
}

// warnEnv logs non-fatal configuration problems
func warnEnv() {
	warnings, err := config.ValidateEnvWithWarnings()
	if err != nil {
		slog.Warn("Environment validation failed", "error", err)
		return
	}
	for _, w := range warnings {
		slog.Warn(w)
	}
}
