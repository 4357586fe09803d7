package detection

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/CommentGarden_Go/internal/domain"
)

var validate = validator.New()

// Config is the cascade configuration owned by the caller
type Config struct {
	Endpoint       string `mapstructure:"endpoint" json:"endpoint" validate:"omitempty,url"`
	APIKey         string `mapstructure:"api_key" json:"api_key"`
	TimeoutMs      int    `mapstructure:"timeout_ms" json:"timeout_ms" validate:"gte=0,lte=120000"`
	EnableFallback bool   `mapstructure:"enable_fallback" json:"enable_fallback"`
}

// DefaultConfig returns the configuration used when nothing is stored
func DefaultConfig() Config {
	return Config{
		TimeoutMs:      DefaultTimeoutMs,
		EnableFallback: true,
	}
}

// Timeout returns the endpoint timeout, applying the default for unset values
func (c Config) Timeout() time.Duration {
	if c.TimeoutMs <= 0 {
		return DefaultTimeoutMs * time.Millisecond
	}
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// HasEndpoint reports whether the custom tier should run
func (c Config) HasEndpoint() bool {
	return strings.TrimSpace(c.Endpoint) != ""
}

// Validate checks field constraints
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

// Redacted returns a copy safe to log or return over the API
func (c Config) Redacted() Config {
	if c.APIKey != "" {
		c.APIKey = "********"
	}
	return c
}
