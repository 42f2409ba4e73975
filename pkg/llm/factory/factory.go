package factory

import (
	"fmt"

	"ai-hub-be/internal/config"
	"ai-hub-be/pkg/llm"
	"ai-hub-be/pkg/llm/gemini"
	"ai-hub-be/pkg/llm/ollama"
)

func NewCompletionProvider(cfg config.AIConfig, geminiAPIKey string) (llm.CompletionProvider, error) {
	switch cfg.Provider {
	case "gemini":
		if geminiAPIKey == "" {
			return nil, fmt.Errorf("gemini provider requires GOOGLE_GEMINI_API_KEY")
		}
		return gemini.NewGeminiProvider(geminiAPIKey, cfg.NamingModel), nil
	case "ollama":
		baseURL := cfg.OllamaBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return ollama.NewOllamaProvider(baseURL, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported completion provider: %s", cfg.Provider)
	}
}
