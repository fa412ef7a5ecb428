package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
)

func TestNewTextGenerator(t *testing.T) {
	ctx := context.Background()

	t.Run("live provider without key fails fast", func(t *testing.T) {
		_, err := NewTextGenerator(ctx, entities.LLMConfig{Provider: "openai"}, nil)
		assert.ErrorIs(t, err, entities.ErrMissingAPIKey)
	})

	t.Run("openai", func(t *testing.T) {
		gen, err := NewTextGenerator(ctx, entities.LLMConfig{APIKey: "k"}, nil)
		require.NoError(t, err)
		assert.IsType(t, &OpenAIGenerator{}, gen)
	})

	t.Run("eino", func(t *testing.T) {
		gen, err := NewTextGenerator(ctx, entities.LLMConfig{Provider: "eino", APIKey: "k"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "eino", gen.Name())
	})

	t.Run("mock needs no key", func(t *testing.T) {
		gen, err := NewTextGenerator(ctx, entities.LLMConfig{Provider: "mock"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "mock", gen.Name())
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := NewTextGenerator(ctx, entities.LLMConfig{Provider: "palm", APIKey: "k"}, nil)
		assert.Error(t, err)
	})
}
