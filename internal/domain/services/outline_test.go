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

func newOutlineService(gen ports.TextGenerator) *OutlineService {
	return NewOutlineService(gen, builders.StaticPresets{Table: builders.Presets()}, entities.LLMConfig{}, logging.Discard())
}

func TestOutlineService_GenerateOutline(t *testing.T) {
	ctx := context.Background()

	t.Run("parses model response", func(t *testing.T) {
		gen := &MockTextGenerator{}
		gen.On("Complete", mock.Anything, mock.MatchedBy(func(req ports.CompletionRequest) bool {
			return req.Purpose == ports.PurposeOutline &&
				req.MaxTokens == 1500 &&
				req.Temperature == float32(0.7) &&
				req.Hints["slide_count"] == "2"
		})).Return(`[{"title":"Intro","description":"Why it matters","order":1},{"title":"Plan","description":"Next steps","order":2}]`, nil)

		topics := newOutlineService(gen).GenerateOutline(ctx, OutlineRequest{Topic: "Go", SlideCount: 2})

		require.Len(t, topics, 2)
		assert.Equal(t, entities.SlideTopic{Title: "Intro", Description: "Why it matters", Order: 1}, topics[0])
		assert.Equal(t, "Plan", topics[1].Title)
		gen.AssertExpectations(t)
	})

	t.Run("missing description and order get defaults", func(t *testing.T) {
		gen := &MockTextGenerator{}
		gen.On("Complete", mock.Anything, mock.Anything).Return("```json\n[{\"title\":\"A\"},{\"title\":\"B\"}]\n```", nil)

		topics := newOutlineService(gen).GenerateOutline(ctx, OutlineRequest{Topic: "Go", SlideCount: 2})

		require.Len(t, topics, 2)
		assert.Equal(t, "", topics[0].Description)
		assert.Equal(t, 1, topics[0].Order)
		assert.Equal(t, 2, topics[1].Order)
	})

	t.Run("model may return a different count", func(t *testing.T) {
		gen := &MockTextGenerator{}
		gen.On("Complete", mock.Anything, mock.Anything).Return(`[{"title":"Only one"}]`, nil)

		topics := newOutlineService(gen).GenerateOutline(ctx, OutlineRequest{Topic: "Go", SlideCount: 3})
		assert.Len(t, topics, 1)
	})

	fallbackCases := map[string]string{
		"malformed json": "not json",
		"missing title":  `[{"description":"no title"}]`,
		"empty array":    `[]`,
		"object":         `{"title":"x"}`,
	}
	for name, body := range fallbackCases {
		t.Run("fallback on "+name, func(t *testing.T) {
			gen := &MockTextGenerator{}
			gen.On("Complete", mock.Anything, mock.Anything).Return(body, nil)

			topics := newOutlineService(gen).GenerateOutline(ctx, OutlineRequest{Topic: "Go", SlideCount: 3})

			assert.Equal(t, entities.FallbackOutline("Go", 3), topics)
		})
	}

	t.Run("unreachable service yields numbered placeholders", func(t *testing.T) {
		svc := newOutlineService(failingGenerator{err: errors.New("connection refused")})

		for _, n := range []int{1, 5, 9} {
			topics := svc.GenerateOutline(ctx, OutlineRequest{Topic: "Risk Management", SlideCount: n})
			require.Len(t, topics, n)
			for i, topic := range topics {
				assert.Equal(t, i+1, topic.Order)
			}
		}
	})

	t.Run("non-positive count defaults to five", func(t *testing.T) {
		svc := newOutlineService(failingGenerator{err: errors.New("down")})
		assert.Len(t, svc.GenerateOutline(ctx, OutlineRequest{Topic: "x"}), entities.DefaultSlideCount)
	})

	t.Run("huge count is capped", func(t *testing.T) {
		svc := newOutlineService(failingGenerator{err: errors.New("down")})
		req := OutlineRequest{Topic: "Risk", SlideCount: entities.ParseSlideCount("4611686018427387904")}

		var topics []entities.SlideTopic
		require.NotPanics(t, func() { topics = svc.GenerateOutline(ctx, req) })
		assert.Len(t, topics, entities.MaxSlideCount)
	})
}
