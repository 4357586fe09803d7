package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// ExpectedEnvSchemaVersion is bumped whenever .env keys are renamed or removed
const ExpectedEnvSchemaVersion = "1.0"

// RequiredEnvVars must always be set
var RequiredEnvVars = []string{
	"ENV_SCHEMA_VERSION",
	"API_KEY",
}

// PostgresEnvVars must be set when STORAGE_DRIVER=postgres
var PostgresEnvVars = []string{
	"DB_USER",
	"DB_PASSWORD",
	"DB_HOST",
	"DB_PORT",
	"DB_NAME",
}

// envWarning flags a setting that works but is probably a mistake
type envWarning struct {
	applies func(getenv func(string) string) bool
	message string
}

var envWarnings = []envWarning{
	{
		applies: func(get func(string) string) bool { return get("DB_PASSWORD") == "change_this_secure_password" },
		message: "DB_PASSWORD appears to be using the example value - please use a secure password",
	},
	{
		applies: func(get func(string) string) bool { return get("API_KEY") == "generate_with_openssl_rand_hex_32" },
		message: "API_KEY appears to be using the example value - generate a secure key with: openssl rand -hex 32",
	},
	{
		applies: func(get func(string) string) bool {
			return get("DISCORD_TOKEN") != "" && get("DISCORD_CHANNEL_ID") == ""
		},
		message: "DISCORD_TOKEN is set without DISCORD_CHANNEL_ID - Discord capture stays disabled",
	},
	{
		applies: func(get func(string) string) bool {
			return get("BACKEND_URL") != "" && get("BACKEND_API_KEY") == ""
		},
		message: "BACKEND_URL is set without BACKEND_API_KEY - backend requests will be unauthenticated",
	},
	{
		applies: func(get func(string) string) bool {
			return get(DetectionEnvPrefix+"_API_KEY") != "" && isPlainHTTP(get(DetectionEnvPrefix+"_ENDPOINT"))
		},
		message: "DETECTION_ENDPOINT is plain http - the classifier API key is sent unencrypted",
	},
	{
		applies: func(get func(string) string) bool {
			return get("DETECTOR_COMMAND") != "" && get("DETECTOR_ADDR") == ""
		},
		message: "DETECTOR_COMMAND is set without DETECTOR_ADDR - the spawned worker is expected on " + DefaultDetectorAddr,
	},
}

func isPlainHTTP(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && strings.EqualFold(u.Scheme, "http")
}

// ValidateEnv checks the schema version and that required variables are set
func ValidateEnv() error {
	schemaVersion := os.Getenv("ENV_SCHEMA_VERSION")
	switch {
	case schemaVersion == "":
		return fmt.Errorf("ENV_SCHEMA_VERSION is not set - please update your .env file to include this field (expected: %s)", ExpectedEnvSchemaVersion)
	case schemaVersion != ExpectedEnvSchemaVersion:
		return fmt.Errorf("ENV_SCHEMA_VERSION mismatch: expected %s, got %s - your .env file may be outdated", ExpectedEnvSchemaVersion, schemaVersion)
	}

	required := RequiredEnvVars
	if strings.EqualFold(os.Getenv("STORAGE_DRIVER"), StorageDriverPostgres) {
		required = append(append([]string(nil), required...), PostgresEnvVars...)
	}

	var missing []string
	for _, key := range required {
		if os.Getenv(key) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ValidateEnvWithWarnings runs ValidateEnv and then reports suspicious settings
func ValidateEnvWithWarnings() ([]string, error) {
	if err := ValidateEnv(); err != nil {
		return nil, err
	}

	var warnings []string
	for _, w := range envWarnings {
		if w.applies(os.Getenv) {
			warnings = append(warnings, w.message)
		}
	}
	return warnings, nil
}
