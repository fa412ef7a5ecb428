package presets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
)

func TestNewCatalog(t *testing.T) {
	catalog, err := NewCatalog()
	require.NoError(t, err)
	p := catalog.Presets()

	t.Run("table sizes", func(t *testing.T) {
		assert.Len(t, p.Audiences, 4)
		assert.Len(t, p.Tones, 9)
		assert.Len(t, p.Scenes, 13)
		assert.Len(t, p.BackgroundColors, 8)
		assert.Len(t, p.TextColors, 8)
	})

	t.Run("labels derived from keys", func(t *testing.T) {
		assert.Equal(t, "General Scene", p.Scenes[0].Label)
		assert.Equal(t, "Science Popularization", p.Scenes[11].Label)
		assert.Equal(t, "Superiors", p.Audiences[0].Label)
	})

	t.Run("contexts with fallback", func(t *testing.T) {
		assert.Contains(t, p.AudienceContext("public"), "General audience with varied backgrounds")
		assert.Equal(t, p.AudienceContext("colleagues"), p.AudienceContext("martians"))
		assert.Equal(t, p.ToneContext("professional"), p.ToneContext(""))
		assert.Equal(t, p.SceneContext("general_scene"), p.SceneContext("nope"))
		assert.Contains(t, p.SceneContext("work_plan"), "Strategic planning document")
	})

	t.Run("lookups", func(t *testing.T) {
		assert.True(t, catalog.HasAudience("superiors"))
		assert.True(t, catalog.HasTone("concise"))
		assert.True(t, catalog.HasScene("public_speaking"))
		assert.False(t, catalog.HasScene("party"))
	})

	t.Run("defaults are first colours", func(t *testing.T) {
		assert.Equal(t, entities.DefaultBackgroundColor, p.BackgroundColors[0].Hex)
		assert.Equal(t, entities.DefaultTextColor, p.TextColors[0].Hex)
	})

	t.Run("marshal round trips through yaml", func(t *testing.T) {
		data, err := catalog.Marshal()
		require.NoError(t, err)

		var decoded entities.Presets
		require.NoError(t, yaml.Unmarshal(data, &decoded))
		assert.Equal(t, *p, decoded)
	})
}

func TestParse(t *testing.T) {
	valid := `
audiences: [{key: colleagues, context: peers}]
tones: [{key: professional, context: formal}]
scenes: [{key: general_scene, context: general}]
`
	t.Run("minimal catalog", func(t *testing.T) {
		catalog, err := Parse([]byte(valid))
		require.NoError(t, err)
		assert.Equal(t, "Colleagues", catalog.Presets().Audiences[0].Label)
	})

	tests := []struct {
		name string
		yaml string
	}{
		{"malformed", "audiences: ["},
		{"missing default", `
audiences: [{key: public, context: x}]
tones: [{key: professional, context: formal}]
scenes: [{key: general_scene, context: general}]
`},
		{"duplicate key", `
audiences: [{key: colleagues, context: a}, {key: colleagues, context: b}]
tones: [{key: professional, context: formal}]
scenes: [{key: general_scene, context: general}]
`},
		{"empty context", `
audiences: [{key: colleagues}]
tones: [{key: professional, context: formal}]
scenes: [{key: general_scene, context: general}]
`},
		{"bad colour", valid + "text_colors: [{label: Mud, hex: '#zzzzzz'}]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}
