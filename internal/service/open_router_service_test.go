package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fadilmartias/career-coach/internal/config"
	"github.com/fadilmartias/career-coach/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpenRouter(t *testing.T, handler http.HandlerFunc, maxRetries int) *OpenRouterService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := NewOpenRouterService(
		&config.OpenRouterConfig{APIKey: "test-key", Model: "test/model", BaseURL: srv.URL + "/"},
		&config.LLMConfig{Provider: config.ProviderOpenRouter, MaxRetries: maxRetries, Timeout: 5 * time.Second},
		logger.Nop(),
	)
	require.NoError(t, err)
	svc.BaseDelay = time.Millisecond
	return svc
}

func TestOpenRouterService_GenerateText(t *testing.T) {
	svc := newTestOpenRouter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body struct {
			Model    string              `json:"model"`
			Messages []map[string]string `json:"messages"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "test/model", body.Model)
		assert.Equal(t, "say hi", body.Messages[1]["content"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hi"}}]}`))
	}, 0)

	text, err := svc.GenerateText(context.Background(), "say hi")
	require.NoError(t, err)
	assert.Equal(t, "hi", text)
}

func TestOpenRouterService_EmptyChoices(t *testing.T) {
	svc := newTestOpenRouter(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}, 0)

	_, err := svc.GenerateText(context.Background(), "say hi")
	assert.Error(t, err)
}

func TestOpenRouterService_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	svc := newTestOpenRouter(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}, 1)

	text, err := svc.GenerateText(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, int32(2), calls.Load())
}

func TestOpenRouterService_RejectsEmptyPrompt(t *testing.T) {
	svc := newTestOpenRouter(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}, 0)
	_, err := svc.GenerateText(context.Background(), "   ")
	assert.Error(t, err)
}

func TestNewOpenRouterService_RequiresKey(t *testing.T) {
	_, err := NewOpenRouterService(&config.OpenRouterConfig{}, &config.LLMConfig{}, logger.Nop())
	assert.Error(t, err)
}

func TestOpenRouterService_CancelledCallersDoNotTripCircuit(t *testing.T) {
	var hits atomic.Int32
	svc := newTestOpenRouter(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	}, 0)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 6; i++ {
		_, err := svc.GenerateText(cancelled, "say hi")
		require.Error(t, err)
	}

	text, err := svc.GenerateText(context.Background(), "say hi")
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.GreaterOrEqual(t, hits.Load(), int32(1))
}
