package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
	"github.com/fredcamaral/deckgen/internal/domain/ports"
)

func newTestGenerator(t *testing.T, handler http.HandlerFunc) (*OpenAIGenerator, *atomic.Int32) {
	t.Helper()
	calls := &atomic.Int32{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	cfg := entities.LLMConfig{BaseURL: server.URL + "/", Model: "test-model", APIKey: "sk-test"}
	return NewOpenAIGenerator(cfg, nil), calls
}

func TestOpenAIGenerator_Complete(t *testing.T) {
	req := ports.CompletionRequest{Purpose: ports.PurposeOutline, Prompt: "make an outline", MaxTokens: 1500, Temperature: 0.7}

	t.Run("sends one user message and returns first choice", func(t *testing.T) {
		gen, calls := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var body chatRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "test-model", body.Model)
			assert.Equal(t, 1500, body.MaxTokens)
			assert.InDelta(t, 0.7, body.Temperature, 0.001)
			require.Len(t, body.Messages, 1)
			assert.Equal(t, "user", body.Messages[0].Role)
			assert.Equal(t, "make an outline", body.Messages[0].Content)

			_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"first"}},{"message":{"role":"assistant","content":"second"}}]}`))
		})

		out, err := gen.Complete(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "first", out)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("error status is a single attempt", func(t *testing.T) {
		gen, calls := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
		})

		_, err := gen.Complete(context.Background(), req)
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
		assert.Contains(t, err.Error(), "rate limited")
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("no choices", func(t *testing.T) {
		gen, _ := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		})

		_, err := gen.Complete(context.Background(), req)
		assert.ErrorIs(t, err, ErrNoChoices)
	})

	t.Run("malformed body", func(t *testing.T) {
		gen, _ := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		})

		_, err := gen.Complete(context.Background(), req)
		assert.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		gen, _ := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"x"}}]}`))
		})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := gen.Complete(ctx, req)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestOpenAIGenerator_Name(t *testing.T) {
	assert.Equal(t, "openai", NewOpenAIGenerator(entities.LLMConfig{}, nil).Name())
}
