package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
	"github.com/fredcamaral/deckgen/internal/domain/ports"
)

// ErrNoChoices is returned when the service answers without any completion choice
var ErrNoChoices = errors.New("completion response has no choices")

// APIError is a non-2xx answer from the chat-completion service
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("chat completion failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("chat completion failed with status %d: %s", e.StatusCode, e.Message)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float32       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type errorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// OpenAIGenerator talks to an OpenAI-compatible /chat/completions endpoint
type OpenAIGenerator struct {
	client  ports.HTTPClient
	baseURL string
	model   string
	apiKey  string
}

// NewOpenAIGenerator creates a generator for cfg. A nil client gets a
// single-attempt client with the configured timeout.
func NewOpenAIGenerator(cfg entities.LLMConfig, client ports.HTTPClient) *OpenAIGenerator {
	if client == nil {
		client = ports.NewRealHTTPClient(ports.HTTPClientConfig{
			Timeout:   cfg.GetTimeout(),
			UserAgent: "deckgen",
		})
	}
	return &OpenAIGenerator{
		client:  client,
		baseURL: cfg.GetBaseURL(),
		model:   cfg.GetModel(),
		apiKey:  cfg.APIKey,
	}
}

// Name returns the provider name
func (g *OpenAIGenerator) Name() string {
	return entities.ProviderOpenAI
}

// Complete sends one user message and returns the first choice's content
func (g *OpenAIGenerator) Complete(ctx context.Context, req ports.CompletionRequest) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:       g.model,
		Messages:    []chatMessage{{Role: "user", Content: req.Prompt}},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("encoding completion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating completion request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("calling chat completion: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading completion response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var eb errorBody
		if json.Unmarshal(body, &eb) == nil {
			apiErr.Message = eb.Error.Message
		}
		return "", apiErr
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decoding completion response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", ErrNoChoices
	}
	return parsed.Choices[0].Message.Content, nil
}

var _ ports.TextGenerator = (*OpenAIGenerator)(nil)
