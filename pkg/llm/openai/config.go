package openai

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Defaults lean deterministic: the completions feed a scoring pipeline, not
// a conversation.
const (
	DefaultModel       = "gpt-3.5-turbo"
	DefaultTemperature = 0.3
	DefaultMaxTokens   = 200
)

// Config holds the OpenAI client settings.
// Environment variables:
//   - OPENAI_API_KEY: API key (required)
//   - OPENAI_MODEL: model name (default: gpt-3.5-turbo)
type Config struct {
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Logger      *logrus.Logger
}

// NewConfig creates a Config from environment variables. A missing API key
// is fatal: the client refuses to initialize without credentials.
func NewConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	config := &Config{
		APIKey:      os.Getenv("OPENAI_API_KEY"),
		Model:       os.Getenv("OPENAI_MODEL"),
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		Logger:      logrus.New(),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("openai: API key is required")
	}
	if c.Logger == nil {
		return fmt.Errorf("openai: logger is required")
	}
	if c.Temperature == 0 {
		c.Temperature = DefaultTemperature
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	return nil
}
