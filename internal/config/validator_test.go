package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEnv(t *testing.T) {
	t.Run("missing schema version", func(t *testing.T) {
		clearEnvVars(t)
		err := ValidateEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ENV_SCHEMA_VERSION is not set")
	})

	t.Run("schema mismatch", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("ENV_SCHEMA_VERSION", "0.9")
		err := ValidateEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mismatch")
	})

	t.Run("missing api key", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("ENV_SCHEMA_VERSION", ExpectedEnvSchemaVersion)
		err := ValidateEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "API_KEY")
	})

	t.Run("sqlite needs no database vars", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("ENV_SCHEMA_VERSION", ExpectedEnvSchemaVersion)
		t.Setenv("API_KEY", "secret")
		assert.NoError(t, ValidateEnv())
	})

	t.Run("postgres requires database vars", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("ENV_SCHEMA_VERSION", ExpectedEnvSchemaVersion)
		t.Setenv("API_KEY", "secret")
		t.Setenv("STORAGE_DRIVER", "postgres")
		t.Setenv("DB_USER", "u")

		err := ValidateEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB_PASSWORD")
		assert.NotContains(t, err.Error(), "DB_USER")
	})
}

func TestValidateEnvWithWarnings(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("ENV_SCHEMA_VERSION", ExpectedEnvSchemaVersion)
	t.Setenv("API_KEY", "generate_with_openssl_rand_hex_32")
	t.Setenv("DISCORD_TOKEN", "tok")
	t.Setenv("BACKEND_URL", "https://api.example.com")

	warnings, err := ValidateEnvWithWarnings()
	require.NoError(t, err)
	assert.Len(t, warnings, 3)
}

func TestValidateEnvWithWarnings_Detection(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("ENV_SCHEMA_VERSION", ExpectedEnvSchemaVersion)
	t.Setenv("API_KEY", "secret")
	t.Setenv("DETECTION_API_KEY", "k")
	t.Setenv("DETECTION_ENDPOINT", "http://classifier.internal/v1")
	t.Setenv("DETECTOR_COMMAND", "comment-garden-detector --heuristic")
	t.Setenv("DETECTOR_ADDR", "")

	warnings, err := ValidateEnvWithWarnings()
	require.NoError(t, err)
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "unencrypted")
	assert.Contains(t, warnings[1], DefaultDetectorAddr)

	t.Setenv("DETECTION_ENDPOINT", "https://classifier.internal/v1")
	t.Setenv("DETECTOR_ADDR", "ws://10.0.0.2:8765/ws")
	warnings, err = ValidateEnvWithWarnings()
	require.NoError(t, err)
	assert.Empty(t, warnings)
}
