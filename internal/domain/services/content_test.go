package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
	"github.com/fredcamaral/deckgen/internal/domain/ports"
	"github.com/fredcamaral/deckgen/internal/logging"
	"github.com/fredcamaral/deckgen/internal/test/builders"
)

func newContentService(gen ports.TextGenerator) *ContentService {
	return NewContentService(gen, builders.StaticPresets{Table: builders.Presets()}, entities.LLMConfig{}, logging.Discard())
}

func hasTitle(title string) interface{} {
	return mock.MatchedBy(func(req ports.CompletionRequest) bool {
		return req.Hints["title"] == title
	})
}

func TestContentService_GenerateContent(t *testing.T) {
	ctx := context.Background()
	topics := builders.NewOutlineBuilder().WithCount(3).Build()

	t.Run("preserves length and order", func(t *testing.T) {
		gen := &MockTextGenerator{}
		gen.On("Complete", mock.Anything, hasTitle("Topic 1")).Return(`{"title":"One","content":"• a"}`, nil)
		gen.On("Complete", mock.Anything, hasTitle("Topic 2")).Return(`{"title":"Two","content":"• b"}`, nil)
		gen.On("Complete", mock.Anything, hasTitle("Topic 3")).Return(`{"title":"Three","content":"• c"}`, nil)

		records := newContentService(gen).GenerateContent(ctx, ContentRequest{Topics: topics})

		require.Len(t, records, 3)
		assert.Equal(t, "One", records[0].Title)
		assert.Equal(t, "Two", records[1].Title)
		assert.Equal(t, "• c", records[2].Content)
		assert.Equal(t, entities.DefaultImagePlaceholder, records[2].ImagePlaceholder)
	})

	t.Run("failure only affects its own slide", func(t *testing.T) {
		gen := &MockTextGenerator{}
		gen.On("Complete", mock.Anything, hasTitle("Topic 1")).Return(`{"title":"One","content":"• a"}`, nil)
		gen.On("Complete", mock.Anything, hasTitle("Topic 2")).Return("", errors.New("timeout"))
		gen.On("Complete", mock.Anything, hasTitle("Topic 3")).Return(`{"title":"Three","content":"• c"}`, nil)

		records := newContentService(gen).GenerateContent(ctx, ContentRequest{Topics: topics, Format: entities.ContentFormatBulleted})

		require.Len(t, records, 3)
		assert.Equal(t, "One", records[0].Title)
		assert.Equal(t, entities.FallbackContent(topics[1], entities.ContentFormatBulleted), records[1])
		assert.Equal(t, "Three", records[2].Title)
	})

	t.Run("missing content falls back", func(t *testing.T) {
		gen := &MockTextGenerator{}
		gen.On("Complete", mock.Anything, mock.Anything).Return(`{"title":"Only title"}`, nil)

		records := newContentService(gen).GenerateContent(ctx, ContentRequest{
			Topics: topics[:1],
			Format: entities.ContentFormatParagraph,
		})

		require.Len(t, records, 1)
		assert.Equal(t, entities.FallbackContent(topics[0], entities.ContentFormatParagraph), records[0])
	})

	t.Run("requests carry content budget and format", func(t *testing.T) {
		gen := &MockTextGenerator{}
		gen.On("Complete", mock.Anything, mock.MatchedBy(func(req ports.CompletionRequest) bool {
			return req.Purpose == ports.PurposeContent && req.MaxTokens == 800 && req.Hints["format"] == "paragraph"
		})).Return(`{"title":"t","content":"c"}`, nil)

		records := newContentService(gen).GenerateContent(ctx, ContentRequest{
			Topics: topics[:1],
			Format: entities.ContentFormatParagraph,
		})

		assert.Equal(t, "c", records[0].Content)
		gen.AssertExpectations(t)
	})

	t.Run("cancelled context fills placeholders", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		records := newContentService(&MockTextGenerator{}).GenerateContent(cancelled, ContentRequest{Topics: topics})
		require.Len(t, records, 3)
		assert.Equal(t, topics[2].Title, records[2].Title)
	})

	t.Run("empty outline yields no slides", func(t *testing.T) {
		assert.Empty(t, newContentService(&MockTextGenerator{}).GenerateContent(ctx, ContentRequest{}))
	})
}
