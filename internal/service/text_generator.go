package service

import (
	"context"
	"fmt"

	"github.com/fadilmartias/career-coach/internal/config"
	"github.com/fadilmartias/career-coach/internal/logger"
)

// TextGenerator turns a prompt into model output text.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// NewTextGenerator builds the generator selected by LLM_PROVIDER.
func NewTextGenerator(ctx context.Context, log *logger.Logger) (TextGenerator, error) {
	llm := config.LoadLLMConfig()
	switch llm.Provider {
	case config.ProviderGemini:
		return NewGeminiService(ctx, config.LoadGeminiConfig(), llm, log)
	case config.ProviderOpenRouter:
		return NewOpenRouterService(config.LoadOpenRouterConfig(), llm, log)
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", llm.Provider)
	}
}
