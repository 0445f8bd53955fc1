package models

// Default text models per provider
const (
	// === DeepSeek Models ===
	ModelDeepSeekChat = "deepseek-chat"

	// === SiliconFlow Models ===
	ModelSiliconFlowDeepSeekV3 = "deepseek-ai/DeepSeek-V3"

	// === Groq Models ===
	ModelGroqLlama3_3_70b = "llama-3.3-70b-versatile"

	// === Cerebras Models ===
	ModelCerebrasLlama3_3_70b = "llama-3.3-70b"

	// === Gemini Models ===
	ModelGeminiFlash = "gemini-2.0-flash"
)
