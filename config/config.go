// Package config loads descriptor configuration from environment variables,
// with optional .env file support. It is a collaborator of the core library,
// not a dependency: descriptors can always be built directly.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds descriptor field values sourced from the environment.
type Config struct {
	// Backend selects the family: dalle, flux, stability, or leonardo.
	Backend string

	// Endpoint overrides the family's default endpoint when set.
	Endpoint string

	// APIKey is the bearer credential for the selected backend.
	APIKey string

	// Model overrides the family's default model when set.
	Model string

	// Timeout bounds one whole dispatch call.
	Timeout time.Duration

	// MaxRetries is the retry budget after the initial attempt.
	MaxRetries int

	// RetryBaseDelay is the base of the exponential backoff.
	RetryBaseDelay time.Duration

	// OutputDir is where the sample CLI persists generated images.
	OutputDir string
}

// Load reads configuration from environment variables. A .env file is
// loaded first if present (silent if not found).
func Load() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		Backend:        getEnvOrDefault("PICTOR_BACKEND", "dalle"),
		Endpoint:       os.Getenv("PICTOR_ENDPOINT"),
		APIKey:         os.Getenv("PICTOR_API_KEY"),
		Model:          os.Getenv("PICTOR_MODEL"),
		Timeout:        getEnvDurationOrDefault("PICTOR_TIMEOUT", 2*time.Minute),
		MaxRetries:     getEnvIntOrDefault("PICTOR_MAX_RETRIES", 3),
		RetryBaseDelay: getEnvDurationOrDefault("PICTOR_RETRY_DELAY", time.Second),
		OutputDir:      getEnvOrDefault("PICTOR_OUTPUT_DIR", "out"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	switch c.Backend {
	case "dalle", "flux", "stability", "leonardo":
	default:
		return fmt.Errorf("PICTOR_BACKEND must be one of dalle, flux, stability, leonardo (got %q)", c.Backend)
	}
	if c.APIKey == "" {
		return fmt.Errorf("PICTOR_API_KEY is required")
	}
	return nil
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvIntOrDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvDurationOrDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
