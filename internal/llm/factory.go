package llm

import (
	"context"
	"fmt"
	"os"
	"time"
)

const (
	// EnvMode is the environment variable for mode selection.
	EnvMode = "INTERVIEWD_MODE"
	// ModeMock selects the mock provider regardless of configuration.
	ModeMock = "MOCK"
)

// Config selects and configures a completion provider.
type Config struct {
	// Name is one of "openai", "gemini", "mock".
	Name        string
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	// Timeout bounds every completion call.
	Timeout time.Duration
}

// NewProvider builds the configured provider wrapped with the call
// timeout. INTERVIEWD_MODE=MOCK forces the mock provider, which lets
// the service run end to end without a backend.
func NewProvider(ctx context.Context, cfg Config) (Provider, error) {
	if os.Getenv(EnvMode) == ModeMock {
		return WithTimeout(NewMockProvider(), cfg.Timeout), nil
	}

	var (
		p   Provider
		err error
	)
	switch cfg.Name {
	case "openai", "groq", "":
		p, err = NewOpenAIProvider(OpenAIConfig{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
		})
	case "gemini":
		p, err = NewGeminiProvider(ctx, GeminiConfig{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
		})
	case "mock":
		p = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Name)
	}
	if err != nil {
		return nil, err
	}
	return WithTimeout(p, cfg.Timeout), nil
}
