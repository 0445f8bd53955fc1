package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
)

// MultiProvider tries providers in order until one succeeds
type MultiProvider struct {
	providers []Provider
}

// NewMultiProvider creates a new multi-provider orchestrator
func NewMultiProvider(providers ...Provider) *MultiProvider {
	if len(providers) == 0 {
		panic("at least one provider required")
	}
	return &MultiProvider{providers: providers}
}

func (m *MultiProvider) Name() string {
	names := make([]string, len(m.providers))
	for i, p := range m.providers {
		names[i] = p.Name()
	}
	return "Multi[" + strings.Join(names, "+") + "]"
}

// GenerateSummary uses provider[0] with fallback to the rest
func (m *MultiProvider) GenerateSummary(ctx context.Context, text string) (string, error) {
	var errs []error
	for i, provider := range m.providers {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		log.Printf("[MultiProvider] Trying %s for summary (attempt %d/%d)...", provider.Name(), i+1, len(m.providers))
		summary, err := provider.GenerateSummary(ctx, text)
		if err == nil {
			log.Printf("[MultiProvider] %s generated summary (length: %d)", provider.Name(), len(summary))
			return summary, nil
		}
		log.Printf("[MultiProvider] %s failed: %v", provider.Name(), err)
		errs = append(errs, fmt.Errorf("%s: %w", provider.Name(), err))
	}
	return "", fmt.Errorf("all providers failed for summary: %w", errors.Join(errs...))
}
