package enrich

import (
	"context"
	"log"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/amityadav/policyfeed/internal/ai"
	"github.com/amityadav/policyfeed/internal/feed"
)

// Status classifies how a summary was produced
type Status int

const (
	StatusOK Status = iota
	StatusNoCredential
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNoCredential:
		return "no-credential"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// Outcome is the result of one enrichment attempt. Text is always usable as a summary.
type Outcome struct {
	Text   string
	Status Status
	Err    error
}

// Enricher produces a summary for a headline
type Enricher interface {
	Summarize(ctx context.Context, title string) Outcome
}

// Config controls the summarizer
type Config struct {
	// Enabled is false when no credential is configured
	Enabled bool
	Delay   time.Duration
	Timeout time.Duration
}

// Summarizer wraps an AI provider with throttling and placeholder fallbacks
type Summarizer struct {
	provider ai.Provider
	cfg      Config
	limiter  *rate.Limiter
}

// NewSummarizer creates a new Summarizer. A nil provider behaves like a missing credential.
func NewSummarizer(provider ai.Provider, cfg Config) *Summarizer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = feed.DefaultEnrichTimeout
	}
	limit := rate.Inf
	if cfg.Delay > 0 {
		limit = rate.Every(cfg.Delay)
	}
	return &Summarizer{
		provider: provider,
		cfg:      cfg,
		limiter:  rate.NewLimiter(limit, 1),
	}
}

// Summarize never returns an error; failures are folded into the Outcome
func (s *Summarizer) Summarize(ctx context.Context, title string) Outcome {
	if s.provider == nil || !s.cfg.Enabled {
		return Outcome{Text: feed.MissingKeyPlaceholder, Status: StatusNoCredential}
	}

	if err := s.limiter.Wait(ctx); err != nil {
		log.Printf("[Summarizer.Summarize] Throttle wait aborted: %v", err)
		return Outcome{Text: feed.FailurePlaceholder, Status: StatusFailed, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	text, err := s.provider.GenerateSummary(ctx, title)
	if err != nil {
		log.Printf("[Summarizer.Summarize] %s failed for %q: %v", s.provider.Name(), title, err)
		return Outcome{Text: feed.FailurePlaceholder, Status: StatusFailed, Err: err}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return Outcome{Text: feed.FailurePlaceholder, Status: StatusFailed, Err: ai.ErrEmptyResponse}
	}
	return Outcome{Text: text, Status: StatusOK}
}
