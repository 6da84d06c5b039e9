package factory

import (
	"fmt"

	"smart-fridge-be/pkg/llm"
	"smart-fridge-be/pkg/llm/ollama"
	"smart-fridge-be/pkg/llm/openai"
)

const huggingFaceRouterURL = "https://router.huggingface.co/v1"

type ProviderConfig struct {
	Type          string // "openai", "ollama", "huggingface"
	Model         string
	OpenAIBaseURL string
	OllamaBaseURL string
	OpenAIKey     string
	HuggingFace   string
}

func NewLLMProvider(cfg ProviderConfig) (llm.LLMProvider, error) {
	switch cfg.Type {
	case "openai", "":
		return openai.NewProvider(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.Model), nil
	case "huggingface":
		return openai.NewProvider(cfg.HuggingFace, huggingFaceRouterURL, cfg.Model), nil
	case "ollama":
		baseURL := cfg.OllamaBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Type)
	}
}
