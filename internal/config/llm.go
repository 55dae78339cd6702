package config

import (
	"os"
	"strings"
	"sync"
	"time"
)

const (
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
)

// LLMConfig holds provider-independent text generation settings.
type LLMConfig struct {
	Provider   string
	MaxRetries int
	Timeout    time.Duration
}

var (
	llmConfig *LLMConfig
	llmOnce   sync.Once
)

func LoadLLMConfig() *LLMConfig {
	llmOnce.Do(func() {
		provider := strings.ToLower(os.Getenv("LLM_PROVIDER"))
		if provider == "" {
			provider = ProviderGemini
		}
		llmConfig = &LLMConfig{
			Provider:   provider,
			MaxRetries: intFromEnv("LLM_MAX_RETRIES", 0),
			Timeout:    time.Duration(intFromEnv("LLM_TIMEOUT_SECONDS", 90)) * time.Second,
		}
	})
	return llmConfig
}
