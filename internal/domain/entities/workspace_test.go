package entities

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestConfigUpdate_Apply(t *testing.T) {
	t.Run("topic change resets outline", func(t *testing.T) {
		cfg := DefaultPresentationConfig()
		reset := ConfigUpdate{Topic: strPtr("Go")}.Apply(&cfg)

		assert.True(t, reset)
		assert.Equal(t, "Go", cfg.Topic)
	})

	t.Run("same topic keeps outline", func(t *testing.T) {
		cfg := DefaultPresentationConfig()
		cfg.Topic = "Go"
		assert.False(t, ConfigUpdate{Topic: strPtr("Go")}.Apply(&cfg))
	})

	t.Run("slide count parses with default", func(t *testing.T) {
		cfg := DefaultPresentationConfig()
		reset := ConfigUpdate{SlideCount: strPtr("abc")}.Apply(&cfg)

		assert.False(t, reset)
		assert.Equal(t, DefaultSlideCount, cfg.SlideCount)

		reset = ConfigUpdate{SlideCount: strPtr("8")}.Apply(&cfg)
		assert.True(t, reset)
		assert.Equal(t, 8, cfg.SlideCount)
	})

	t.Run("style changes keep outline", func(t *testing.T) {
		cfg := DefaultPresentationConfig()
		reset := ConfigUpdate{
			ContentFormat:   strPtr("paragraph"),
			BackgroundColor: strPtr("#333333"),
			TextColor:       strPtr("#ffffff"),
		}.Apply(&cfg)

		assert.False(t, reset)
		assert.Equal(t, ContentFormatParagraph, cfg.ContentFormat)
		assert.Equal(t, "#333333", cfg.Style().BackgroundColor)
	})

	t.Run("audience tone and scene reset outline", func(t *testing.T) {
		for _, u := range []ConfigUpdate{
			{Audience: strPtr("public")},
			{Tone: strPtr("humorous")},
			{Scene: strPtr("work_plan")},
		} {
			cfg := DefaultPresentationConfig()
			assert.True(t, u.Apply(&cfg))
		}
	})
}

func TestWorkspaceState_Clone(t *testing.T) {
	state := NewWorkspaceState()
	state.Topics = []SlideTopic{{Title: "a"}}
	state.Deck = &DeckSummary{ID: "d"}
	state.LatestRequest[TaskOutline] = 3

	clone := state.Clone()
	clone.Topics[0].Title = "b"
	clone.Deck.ID = "e"
	clone.LatestRequest[TaskOutline] = 4

	assert.Equal(t, "a", state.Topics[0].Title)
	assert.Equal(t, "d", state.Deck.ID)
	assert.Equal(t, uint64(3), state.LatestRequest[TaskOutline])
}

func TestNotifications(t *testing.T) {
	assert.True(t, strings.HasPrefix(NewSuccess("done").Message, SuccessMarker))
	assert.Equal(t, NotificationError, NewFailure("Error: x").Kind)
}

func TestParseTaskKind(t *testing.T) {
	kind, ok := ParseTaskKind("Outline")
	assert.True(t, ok)
	assert.Equal(t, TaskOutline, kind)

	_, ok = ParseTaskKind("render")
	assert.False(t, ok)
}
