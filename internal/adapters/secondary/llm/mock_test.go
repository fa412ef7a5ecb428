package llm

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/deckgen/internal/domain/ports"
)

func TestMockGenerator_Complete(t *testing.T) {
	gen := NewMockGenerator(0)
	ctx := context.Background()

	t.Run("outline has requested count", func(t *testing.T) {
		out, err := gen.Complete(ctx, ports.CompletionRequest{
			Purpose: ports.PurposeOutline,
			Hints:   map[string]string{"topic": "Go", "slide_count": "4"},
		})
		require.NoError(t, err)

		var topics []mockTopic
		require.NoError(t, json.Unmarshal([]byte(out), &topics))
		require.Len(t, topics, 4)
		assert.Equal(t, "Go: Introduction", topics[0].Title)
		assert.Equal(t, "Go: Summary", topics[3].Title)
		for i, topic := range topics {
			assert.Equal(t, i+1, topic.Order)
		}
	})

	t.Run("outline is deterministic", func(t *testing.T) {
		req := ports.CompletionRequest{Purpose: ports.PurposeOutline, Hints: map[string]string{"topic": "Go", "slide_count": "3"}}
		a, err := gen.Complete(ctx, req)
		require.NoError(t, err)
		b, err := gen.Complete(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("bulleted content", func(t *testing.T) {
		out, err := gen.Complete(ctx, ports.CompletionRequest{
			Purpose: ports.PurposeContent,
			Hints:   map[string]string{"title": "Go: Introduction", "description": "Introduction of Go", "format": "bulleted"},
		})
		require.NoError(t, err)

		var slide mockSlide
		require.NoError(t, json.Unmarshal([]byte(out), &slide))
		assert.Equal(t, "Go: Introduction", slide.Title)
		assert.Len(t, strings.Split(slide.Content, "\n"), 4)
		assert.True(t, strings.HasPrefix(slide.Content, "• "))
	})

	t.Run("paragraph content", func(t *testing.T) {
		out, err := gen.Complete(ctx, ports.CompletionRequest{
			Purpose: ports.PurposeContent,
			Hints:   map[string]string{"title": "t", "description": "About things.", "format": "paragraph"},
		})
		require.NoError(t, err)

		var slide mockSlide
		require.NoError(t, json.Unmarshal([]byte(out), &slide))
		assert.True(t, strings.HasPrefix(slide.Content, "About things. "))
		assert.NotContains(t, slide.Content, "•")
	})

	t.Run("unknown purpose", func(t *testing.T) {
		_, err := gen.Complete(ctx, ports.CompletionRequest{Purpose: "poem"})
		assert.Error(t, err)
	})

	t.Run("latency respects cancellation", func(t *testing.T) {
		slow := NewMockGenerator(time.Hour)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		_, err := slow.Complete(ctx, ports.CompletionRequest{Purpose: ports.PurposeOutline})
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
