package ai

import (
	"fmt"
	"strings"

	"github.com/amityadav/policyfeed/internal/ai/models"
)

// NewLLMProvider creates a provider instance based on the provider name.
// An empty modelID selects the provider's default model.
// Supported providers: "deepseek", "siliconflow", "groq", "cerebras"
func NewLLMProvider(providerName, apiKey, modelID string) (*BaseProvider, error) {
	pick := func(def string) string {
		if modelID != "" {
			return modelID
		}
		return def
	}

	switch strings.ToLower(providerName) {
	case "deepseek":
		return NewBaseProvider(ProviderConfig{
			Name:        "DeepSeek",
			BaseURL:     "https://api.deepseek.com/chat/completions",
			APIKey:      apiKey,
			TextModel:   pick(models.ModelDeepSeekChat),
			Temperature: 0.3,
		}), nil
	case "siliconflow":
		return NewBaseProvider(ProviderConfig{
			Name:        "SiliconFlow",
			BaseURL:     "https://api.siliconflow.cn/v1/chat/completions",
			APIKey:      apiKey,
			TextModel:   pick(models.ModelSiliconFlowDeepSeekV3),
			Temperature: 0.3,
		}), nil
	case "groq":
		return NewBaseProvider(ProviderConfig{
			Name:      "Groq",
			BaseURL:   "https://api.groq.com/openai/v1/chat/completions",
			APIKey:    apiKey,
			TextModel: pick(models.ModelGroqLlama3_3_70b),
		}), nil
	case "cerebras":
		return NewBaseProvider(ProviderConfig{
			Name:      "Cerebras",
			BaseURL:   "https://api.cerebras.ai/v1/chat/completions",
			APIKey:    apiKey,
			TextModel: pick(models.ModelCerebrasLlama3_3_70b),
		}), nil
	default:
		return nil, fmt.Errorf("%w: %s (supported: deepseek, siliconflow, groq, cerebras)", ErrUnknownProvider, providerName)
	}
}
