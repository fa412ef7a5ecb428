package llm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
	"github.com/fredcamaral/deckgen/internal/domain/ports"
)

// EinoGenerator drives an eino chat model
type EinoGenerator struct {
	chatModel model.BaseChatModel
}

// NewEinoGenerator builds an eino OpenAI chat model from cfg
func NewEinoGenerator(ctx context.Context, cfg entities.LLMConfig) (*EinoGenerator, error) {
	maxTokens := cfg.GetContentMaxTokens()
	temperature := cfg.GetTemperature()

	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.GetBaseURL(),
		Model:       cfg.GetModel(),
		Timeout:     cfg.GetTimeout(),
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create eino chat model: %w", err)
	}
	return NewEinoGeneratorWithModel(chatModel), nil
}

// NewEinoGeneratorWithModel wraps an existing chat model
func NewEinoGeneratorWithModel(chatModel model.BaseChatModel) *EinoGenerator {
	return &EinoGenerator{chatModel: chatModel}
}

// Name returns the provider name
func (g *EinoGenerator) Name() string {
	return entities.ProviderEino
}

// Complete sends one user message through the chat model
func (g *EinoGenerator) Complete(ctx context.Context, req ports.CompletionRequest) (string, error) {
	var opts []model.Option
	if req.MaxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(req.MaxTokens))
	}
	if req.Temperature > 0 {
		opts = append(opts, model.WithTemperature(req.Temperature))
	}

	resp, err := g.chatModel.Generate(ctx, []*schema.Message{schema.UserMessage(req.Prompt)}, opts...)
	if err != nil {
		return "", fmt.Errorf("LLM call failed: %w", err)
	}
	if resp == nil {
		return "", ErrNoChoices
	}
	return resp.Content, nil
}

var _ ports.TextGenerator = (*EinoGenerator)(nil)
