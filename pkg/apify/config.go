// Package apify provides a client for running the Apify tweet-scraper actor
// and retrieving its dataset items.
package apify

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Default configuration values
const (
	// DefaultAPIEndpoint is the base URL of the Apify API
	DefaultAPIEndpoint = "https://api.apify.com"
	// DefaultRequestTimeout is the default timeout in seconds for actor runs.
	// Synchronous actor runs are long-lived, so this is generous.
	DefaultRequestTimeout = 300
)

// Config holds the Apify API configuration settings.
// Environment variables:
//   - APIFY_API_TOKEN: API token (required)
//   - APIFY_ACTOR_ID: ID of the tweet-scraper actor (required)
//   - APIFY_API_ENDPOINT: base API URL (default: https://api.apify.com)
//   - APIFY_REQUEST_TIMEOUT: request timeout in seconds (default: 300)
type Config struct {
	APIToken       string
	ActorID        string
	APIEndpoint    string
	RequestTimeout time.Duration
	Logger         *logrus.Logger
}

// NewConfig creates a Config from environment variables. The .env file is
// loaded if present, but its absence is not an error. Missing credentials
// are fatal here: the client refuses to initialize without them.
func NewConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	timeout := DefaultRequestTimeout
	if s := os.Getenv("APIFY_REQUEST_TIMEOUT"); s != "" {
		if t, err := strconv.Atoi(s); err == nil {
			timeout = t
		} else {
			logrus.WithFields(logrus.Fields{
				"value":   s,
				"default": DefaultRequestTimeout,
			}).Warn("Failed to parse APIFY_REQUEST_TIMEOUT, using default")
		}
	}

	config := &Config{
		APIToken:       os.Getenv("APIFY_API_TOKEN"),
		ActorID:        os.Getenv("APIFY_ACTOR_ID"),
		APIEndpoint:    getEnvOrDefault("APIFY_API_ENDPOINT", DefaultAPIEndpoint),
		RequestTimeout: time.Duration(timeout) * time.Second,
		Logger:         logrus.New(),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.APIToken == "" {
		return fmt.Errorf("apify: API token is required")
	}
	if c.ActorID == "" {
		return fmt.Errorf("apify: actor ID is required")
	}
	if c.APIEndpoint == "" {
		return fmt.Errorf("apify: API endpoint is required")
	}
	if c.Logger == nil {
		return fmt.Errorf("apify: logger is required")
	}
	if c.RequestTimeout < 1*time.Second {
		return fmt.Errorf("apify: request timeout must be at least 1 second, got %v", c.RequestTimeout)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
