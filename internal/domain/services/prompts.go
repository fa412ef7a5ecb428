package services

import (
	"bytes"
	"fmt"
	"strconv"
	"text/template"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
)

const outlinePromptText = `Break down the following topic into {{.SlideCount}} slide topics for a presentation:

Topic: "{{.Topic}}"

Context:
- Audience: {{.Audience}}
- Tone: {{.Tone}}
- Scene/Purpose: {{.Scene}}

Requirements:
- Create {{.SlideCount}} distinct slide topics that cover the main topic comprehensively
- Each slide should have a clear, engaging title appropriate for the audience and tone
- Include a brief description of what each slide should cover
- Ensure logical flow from one slide to the next
- Tailor the content structure to match the specified scene/purpose
- Consider the audience level and adjust complexity accordingly
- Apply the specified tone throughout the presentation structure

Return the response as a JSON array with this structure:
[
    {
        "title": "Slide Topic Title",
        "description": "Brief description of what this slide covers",
        "order": 1
    }
]

Only return the JSON array, no additional text.
`

const contentPromptText = `Create detailed content for a presentation slide with the following specifications:

Slide Title: "{{.Title}}"
Description: "{{.Description}}"

Context:
- Audience: {{.Audience}}
- Tone: {{.Tone}}
- Scene/Purpose: {{.Scene}}

Requirements:
- Content should be in {{.FormatInstruction}}
- Apply the specified tone throughout the content
- Tailor language and complexity for the target audience
- Ensure content aligns with the presentation scene/purpose
- Keep content concise but informative
- Focus on the key points related to this specific slide topic

Return the response as a JSON object with this structure:
{
    "title": "Slide Title",
    "content": "Slide content here"
}

Only return the JSON object, no additional text.
`

var (
	outlinePrompt = template.Must(template.New("outline").Parse(outlinePromptText))
	contentPrompt = template.Must(template.New("content").Parse(contentPromptText))
)

// contextStrings are the resolved audience, tone and scene descriptions
type contextStrings struct {
	Audience string
	Tone     string
	Scene    string
}

func resolveContext(presets *entities.Presets, ctx entities.GenerationContext) contextStrings {
	if presets == nil {
		return contextStrings{}
	}
	return contextStrings{
		Audience: presets.AudienceContext(ctx.Audience),
		Tone:     presets.ToneContext(ctx.Tone),
		Scene:    presets.SceneContext(ctx.Scene),
	}
}

// BuildOutlinePrompt renders the outline prompt for topic
func BuildOutlinePrompt(presets *entities.Presets, topic string, slideCount int, ctx entities.GenerationContext) (string, error) {
	c := resolveContext(presets, ctx)
	data := map[string]string{
		"Topic":      topic,
		"SlideCount": strconv.Itoa(slideCount),
		"Audience":   c.Audience,
		"Tone":       c.Tone,
		"Scene":      c.Scene,
	}

	var buf bytes.Buffer
	if err := outlinePrompt.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering outline prompt: %w", err)
	}
	return buf.String(), nil
}

// BuildContentPrompt renders the per-slide content prompt
func BuildContentPrompt(presets *entities.Presets, topic entities.SlideTopic, format entities.ContentFormat, ctx entities.GenerationContext) (string, error) {
	c := resolveContext(presets, ctx)
	data := map[string]string{
		"Title":             topic.Title,
		"Description":       topic.Description,
		"FormatInstruction": format.Instruction(),
		"Audience":          c.Audience,
		"Tone":              c.Tone,
		"Scene":             c.Scene,
	}

	var buf bytes.Buffer
	if err := contentPrompt.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering content prompt: %w", err)
	}
	return buf.String(), nil
}
