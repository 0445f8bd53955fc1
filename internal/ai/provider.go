package ai

import (
	"context"
	"errors"
)

var (
	// ErrNoChoices is returned when a completion response carries no choices
	ErrNoChoices = errors.New("no choices returned")
	// ErrEmptyResponse is returned when the first choice has no content
	ErrEmptyResponse = errors.New("empty completion content")
	// ErrUnknownProvider is returned by NewLLMProvider for unsupported names
	ErrUnknownProvider = errors.New("unsupported AI provider")
)

// Provider defines the interface for AI providers
type Provider interface {
	Name() string
	// GenerateSummary returns a one-sentence summary of text
	GenerateSummary(ctx context.Context, text string) (string, error)
}

// ProviderConfig holds configuration for a provider
type ProviderConfig struct {
	Name         string
	BaseURL      string
	APIKey       string
	TextModel    string
	SystemPrompt string
	Temperature  float64
}
