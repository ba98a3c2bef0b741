// Package interpreter turns hand landmark snapshots into an updated
// transcription sentence using a hosted language model.
package interpreter

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ayusman/mudra/internal/detector"
)

// Provider names accepted by New.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Interpreter maps the newest landmarks and the sentence so far to the full
// updated sentence. The result replaces the sentence; it is never a delta.
type Interpreter interface {
	Interpret(ctx context.Context, hands []detector.HandLandmarks, sentence string) (string, error)
}

// Func adapts an ordinary function to the Interpreter interface.
type Func func(ctx context.Context, hands []detector.HandLandmarks, sentence string) (string, error)

// Interpret calls f.
func (f Func) Interpret(ctx context.Context, hands []detector.HandLandmarks, sentence string) (string, error) {
	return f(ctx, hands, sentence)
}

// Config selects and configures a provider.
type Config struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration
}

// New creates an Interpreter for cfg.Provider.
func New(cfg Config) (Interpreter, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("interpreter: api key is required")
	}

	switch cfg.Provider {
	case ProviderGemini, "":
		return NewGemini(cfg, &http.Client{Timeout: cfg.Timeout}), nil
	case ProviderOpenAI:
		return NewOpenAI(cfg), nil
	default:
		return nil, fmt.Errorf("interpreter: unknown provider %q", cfg.Provider)
	}
}
