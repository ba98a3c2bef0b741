// Package config loads mudra's runtime configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Polling interval bounds, matching the speed slider.
const (
	MinInterval  = 1000 * time.Millisecond
	MaxInterval  = 10000 * time.Millisecond
	IntervalStep = 500 * time.Millisecond
)

// ErrInvalidInterval is returned for a polling interval outside the slider range.
var ErrInvalidInterval = errors.New("interval must be between 1000ms and 10000ms in 500ms steps")

// Config holds all configuration for the mudra service.
type Config struct {
	// HTTP server
	Addr      string `envconfig:"MUDRA_ADDR" default:":8080"`
	StaticDir string `envconfig:"MUDRA_STATIC_DIR" default:""`

	// Camera and sampling
	CameraID  int  `envconfig:"MUDRA_CAMERA_ID" default:"0"`
	FrameRate int  `envconfig:"MUDRA_FRAME_RATE" default:"15"` // Frame Sampler refresh rate in Hz
	Recording bool `envconfig:"MUDRA_RECORDING" default:"true"`

	// Hand detection
	MaxHands      int     `envconfig:"MUDRA_MAX_HANDS" default:"2"`
	MinConfidence float64 `envconfig:"MUDRA_MIN_CONFIDENCE" default:"0.5"`

	// Transcription
	IntervalMs         int    `envconfig:"MUDRA_INTERVAL_MS" default:"4000"`
	Provider           string `envconfig:"MUDRA_PROVIDER" default:"gemini"` // gemini, openai
	APIKey             string `envconfig:"API_KEY"`
	Model              string `envconfig:"MUDRA_MODEL" default:""`
	BaseURL            string `envconfig:"MUDRA_BASE_URL" default:""`
	InterpreterTimeout int    `envconfig:"MUDRA_INTERPRETER_TIMEOUT" default:"30"` // seconds

	// Desktop
	Tray bool `envconfig:"MUDRA_TRAY" default:"false"`

	// Observability
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	LogPretty      bool   `envconfig:"LOG_PRETTY" default:"false"`
	MetricsEnabled bool   `envconfig:"METRICS_ENABLED" default:"true"`
}

// Load reads configuration from a .env file, if present, and then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadFromEnv()
}

// LoadFromEnv reads configuration from environment variables only.
func LoadFromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.Model == "" {
		cfg.Model = defaultModel(cfg.Provider)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks field ranges and required values.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return errors.New("API_KEY is required")
	}
	switch c.Provider {
	case "gemini", "openai":
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	if c.FrameRate < 1 || c.FrameRate > 60 {
		return fmt.Errorf("MUDRA_FRAME_RATE must be between 1 and 60, got %d", c.FrameRate)
	}
	if c.MaxHands < 1 {
		return fmt.Errorf("MUDRA_MAX_HANDS must be positive, got %d", c.MaxHands)
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("MUDRA_MIN_CONFIDENCE must be within [0, 1], got %f", c.MinConfidence)
	}
	if c.InterpreterTimeout <= 0 {
		return fmt.Errorf("MUDRA_INTERPRETER_TIMEOUT must be positive, got %d", c.InterpreterTimeout)
	}
	if err := ValidateInterval(c.Interval()); err != nil {
		return fmt.Errorf("MUDRA_INTERVAL_MS: %w", err)
	}
	return nil
}

// Interval returns the configured initial polling interval.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.IntervalMs) * time.Millisecond
}

// Timeout returns the per-call interpreter timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.InterpreterTimeout) * time.Second
}

// ValidateInterval reports whether d is a value the speed slider can produce.
func ValidateInterval(d time.Duration) error {
	if d < MinInterval || d > MaxInterval || (d-MinInterval)%IntervalStep != 0 {
		return ErrInvalidInterval
	}
	return nil
}

func defaultModel(provider string) string {
	if provider == "openai" {
		return "gpt-4o-mini"
	}
	return "gemini-2.5-flash"
}
