package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/fadilmartias/career-coach/internal/config"
	"github.com/fadilmartias/career-coach/internal/logger"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

const openRouterSystemPrompt = "You are a career coach helping professionals understand their industry and prepare for interviews."

// OpenRouterService calls an OpenAI compatible chat completions endpoint.
type OpenRouterService struct {
	*retrier
	client *resty.Client
	Model  string
}

// StatusError is a non-2xx reply from the provider.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("openrouter returned status %d: %s", e.Code, e.Body)
}

func NewOpenRouterService(cfg *config.OpenRouterConfig, llm *config.LLMConfig, log *logger.Logger) (*OpenRouterService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OPENROUTER_API_KEY not set")
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json")
	return &OpenRouterService{
		retrier: newRetrier(llm.MaxRetries, llm.Timeout, log.With("component", "openrouter")),
		client:  client,
		Model:   cfg.Model,
	}, nil
}

func (s *OpenRouterService) GenerateText(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}

	var text string
	err := s.do(ctx, "ChatCompletion", func(ctx context.Context) error {
		resp, err := s.client.R().
			SetContext(ctx).
			SetBody(map[string]any{
				"model": s.Model,
				"messages": []map[string]string{
					{"role": "system", "content": openRouterSystemPrompt},
					{"role": "user", "content": prompt},
				},
			}).
			Post("/chat/completions")
		if err != nil {
			return err
		}
		if resp.IsError() {
			return &StatusError{Code: resp.StatusCode(), Body: resp.String()}
		}

		content := gjson.Get(resp.String(), "choices.0.message.content")
		if !content.Exists() || content.String() == "" {
			return fmt.Errorf("no response from LLM")
		}
		text = content.String()
		return nil
	}, isRetryableOpenRouterError)
	if err != nil {
		return "", err
	}
	return text, nil
}

func isRetryableOpenRouterError(err error) bool {
	if se, ok := err.(*StatusError); ok {
		return retryableStatus(se.Code)
	}
	return retryableMessage(err.Error())
}
