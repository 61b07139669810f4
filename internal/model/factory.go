package model

import (
	"fmt"

	"github.com/pennwright/inkwell/internal/config"
	inkwellErrors "github.com/pennwright/inkwell/internal/errors"
	anthropicProvider "github.com/pennwright/inkwell/internal/model/providers/anthropic"
	geminiProvider "github.com/pennwright/inkwell/internal/model/providers/gemini"
	openaiProvider "github.com/pennwright/inkwell/internal/model/providers/openai"
)

// New constructs the configured backend. The API key must already be
// resolved; an empty key is a precondition failure, reported before any
// network call is attempted.
func New(cfg config.ModelConfig) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, inkwellErrors.Precondition(fmt.Sprintf("no API key configured for provider %q", cfg.Provider))
	}

	timeout, err := config.DurationOrDefault(cfg.RequestTimeout, config.DefaultModelRequestTimeout)
	if err != nil {
		return nil, inkwellErrors.InvalidInput(fmt.Sprintf("bad request timeout: %v", err))
	}

	switch cfg.Provider {
	case "gemini", "":
		return geminiProvider.New(cfg.APIKey, cfg.BaseURL, cfg.Name, timeout)
	case "openai":
		return openaiProvider.New(cfg.APIKey, cfg.BaseURL, cfg.Name, timeout), nil
	case "anthropic":
		return anthropicProvider.New(cfg.APIKey, cfg.Name, timeout), nil
	default:
		return nil, inkwellErrors.InvalidInput(fmt.Sprintf("unknown provider %q", cfg.Provider))
	}
}
