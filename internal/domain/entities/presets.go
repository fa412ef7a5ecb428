package entities

// Default preset keys
const (
	DefaultAudience = "colleagues"
	DefaultTone     = "professional"
	DefaultScene    = "general_scene"
)

// PresetOption is one selectable audience, tone or scene
type PresetOption struct {
	Key     string `json:"key" yaml:"key"`
	Label   string `json:"label" yaml:"label"`
	Context string `json:"context" yaml:"context"`
	Hint    string `json:"hint,omitempty" yaml:"hint,omitempty"`
}

// ColorOption is a named colour swatch offered by the UI
type ColorOption struct {
	Label string `json:"label" yaml:"label"`
	Hex   string `json:"hex" yaml:"hex"`
}

// Presets holds the lookup tables that shape prompts and the colour pickers
type Presets struct {
	Audiences        []PresetOption `json:"audiences" yaml:"audiences"`
	Tones            []PresetOption `json:"tones" yaml:"tones"`
	Scenes           []PresetOption `json:"scenes" yaml:"scenes"`
	BackgroundColors []ColorOption  `json:"background_colors" yaml:"background_colors"`
	TextColors       []ColorOption  `json:"text_colors" yaml:"text_colors"`
}

// GenerationContext carries the audience, tone and scene keys of a request
type GenerationContext struct {
	Audience string `json:"audience"`
	Tone     string `json:"tone"`
	Scene    string `json:"scene"`
}

// DefaultGenerationContext returns colleagues / professional / general_scene
func DefaultGenerationContext() GenerationContext {
	return GenerationContext{
		Audience: DefaultAudience,
		Tone:     DefaultTone,
		Scene:    DefaultScene,
	}
}

// AudienceContext returns the prompt context for key, falling back to the default audience
func (p *Presets) AudienceContext(key string) string {
	return lookupContext(p.Audiences, key, DefaultAudience)
}

// ToneContext returns the prompt context for key, falling back to the default tone
func (p *Presets) ToneContext(key string) string {
	return lookupContext(p.Tones, key, DefaultTone)
}

// SceneContext returns the prompt context for key, falling back to the default scene
func (p *Presets) SceneContext(key string) string {
	return lookupContext(p.Scenes, key, DefaultScene)
}

func lookupContext(options []PresetOption, key, fallback string) string {
	var def string
	for _, opt := range options {
		if opt.Key == key {
			return opt.Context
		}
		if opt.Key == fallback {
			def = opt.Context
		}
	}
	return def
}
