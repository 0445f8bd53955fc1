package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/amityadav/policyfeed/prompts"
)

// BaseProvider implements common functionality for OpenAI-compatible APIs
type BaseProvider struct {
	config ProviderConfig
	client *http.Client
}

// NewBaseProvider creates a new base provider
func NewBaseProvider(config ProviderConfig) *BaseProvider {
	if config.SystemPrompt == "" {
		config.SystemPrompt = strings.TrimSpace(prompts.Summary)
	}
	return &BaseProvider{
		config: config,
		client: &http.Client{Timeout: 90 * time.Second},
	}
}

func (p *BaseProvider) Name() string {
	return p.config.Name
}

// HasCredential reports whether an API key is configured
func (p *BaseProvider) HasCredential() bool {
	return strings.TrimSpace(p.config.APIKey) != ""
}

type textMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []textMessage `json:"messages"`
	Stream      bool          `json:"stream"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// sendRequest handles HTTP requests to the AI provider
func (p *BaseProvider) sendRequest(ctx context.Context, reqBody chatRequest, operation string) (string, error) {
	log.Printf("[%s.%s] Sending request...", p.config.Name, operation)

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.BaseURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	log.Printf("[%s.%s] Response status: %d", p.config.Name, operation, resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("api error: %d %s", resp.StatusCode, string(bodyBytes))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", ErrNoChoices
	}

	content := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyResponse
	}
	log.Printf("[%s.%s] Success, response length: %d", p.config.Name, operation, len(content))
	return content, nil
}

// GenerateSummary asks for a one-sentence summary of a headline
func (p *BaseProvider) GenerateSummary(ctx context.Context, text string) (string, error) {
	reqBody := chatRequest{
		Model: p.config.TextModel,
		Messages: []textMessage{
			{Role: "system", Content: p.config.SystemPrompt},
			{Role: "user", Content: prompts.SummaryUser(text)},
		},
		Stream:      false,
		Temperature: p.config.Temperature,
	}

	return p.sendRequest(ctx, reqBody, "Summary")
}
