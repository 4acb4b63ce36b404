package services

import (
	"context"
	"fmt"
	"strings"

	"blgs-backend/internal/config"
	"blgs-backend/internal/models"
)

// Provider sends one conversation to a hosted model and returns its reply.
// History is presented to the model in order, followed by message.
type Provider interface {
	Generate(ctx context.Context, system string, history []models.ChatTurn, message string) (string, error)
}

// NewProvider builds the Gemini backend selected by cfg. It returns
// ErrMissingCredential when no API key is configured.
func NewProvider(ctx context.Context, cfg *config.Config) (Provider, error) {
	apiKey := strings.TrimSpace(cfg.GeminiAPIKey)
	if apiKey == "" {
		return nil, ErrMissingCredential
	}

	switch cfg.GeminiBackend {
	case config.BackendGenAI:
		p, err := NewGenAIProvider(ctx, apiKey, cfg.GeminiModel, cfg.GeminiTemperature)
		if err != nil {
			return nil, err
		}
		return p, nil
	case config.BackendGenerativeAI, "":
		p, err := NewGeminiProvider(ctx, apiKey, cfg.GeminiModel, cfg.GeminiTemperature)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown GEMINI_BACKEND %q", cfg.GeminiBackend)
	}
}
