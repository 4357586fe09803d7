package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"github.com/osse101/CommentGarden_Go/internal/detection"
	"github.com/osse101/CommentGarden_Go/internal/logger"
)

// DetectionSettings persists the cascade configuration as YAML.
// DETECTION_* environment variables override values read from the file.
type DetectionSettings struct {
	mu   sync.Mutex
	path string
}

// NewDetectionSettings creates a settings store backed by path
func NewDetectionSettings(path string) *DetectionSettings {
	return &DetectionSettings{path: path}
}

// Path returns the backing file
func (s *DetectionSettings) Path() string {
	return s.path
}

func (s *DetectionSettings) newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(DetectionEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := detection.DefaultConfig()
	v.SetDefault(DetectionKeyEndpoint, def.Endpoint)
	v.SetDefault(DetectionKeyAPIKey, def.APIKey)
	v.SetDefault(DetectionKeyTimeoutMs, def.TimeoutMs)
	v.SetDefault(DetectionKeyFallback, def.EnableFallback)
	return v
}

// Load reads the stored configuration. A missing file yields the defaults.
func (s *DetectionSettings) Load(ctx context.Context) (detection.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.newViper()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return detection.Config{}, fmt.Errorf("failed to read detection settings: %w", err)
		}
		logger.FromContext(ctx).Info(LogMsgDetectionSettingsMissing, "path", s.path)
	}

	var cfg detection.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return detection.Config{}, fmt.Errorf("failed to decode detection settings: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return detection.Config{}, err
	}
	return cfg, nil
}

// Save validates cfg and writes it to disk
func (s *DetectionSettings) Save(ctx context.Context, cfg detection.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0750); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.Set(DetectionKeyEndpoint, cfg.Endpoint)
	v.Set(DetectionKeyAPIKey, cfg.APIKey)
	v.Set(DetectionKeyTimeoutMs, cfg.TimeoutMs)
	v.Set(DetectionKeyFallback, cfg.EnableFallback)

	if err := v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("failed to write detection settings: %w", err)
	}

	logger.FromContext(ctx).Info(LogMsgDetectionSettingsSaved, "path", s.path, "endpoint_set", cfg.HasEndpoint())
	return nil
}
