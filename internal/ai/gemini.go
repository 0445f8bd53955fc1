package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"

	"github.com/amityadav/policyfeed/internal/ai/models"
	"github.com/amityadav/policyfeed/prompts"
)

// GeminiProvider generates summaries through the Gemini API
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates a new Gemini provider
func NewGeminiProvider(ctx context.Context, apiKey, modelID string) (*GeminiProvider, error) {
	if modelID == "" {
		modelID = models.ModelGeminiFlash
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiProvider{client: client, model: modelID}, nil
}

func (g *GeminiProvider) Name() string {
	return "Gemini"
}

// GenerateSummary implements Provider
func (g *GeminiProvider) GenerateSummary(ctx context.Context, text string) (string, error) {
	log.Printf("[Gemini.Summary] Sending request (model=%s)...", g.model)

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(strings.TrimSpace(prompts.Summary), genai.RoleUser),
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompts.SummaryUser(text)), config)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	content := strings.TrimSpace(resp.Text())
	if content == "" {
		return "", ErrEmptyResponse
	}
	log.Printf("[Gemini.Summary] Success, response length: %d", len(content))
	return content, nil
}
