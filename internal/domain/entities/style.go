package entities

import (
	"fmt"
	"strings"
)

// ContentFormat selects how slide bodies are written
type ContentFormat string

const (
	ContentFormatBulleted  ContentFormat = "bulleted_list"
	ContentFormatParagraph ContentFormat = "paragraph"
)

// Normalize maps unknown formats to the bulleted default
func (f ContentFormat) Normalize() ContentFormat {
	switch ContentFormat(strings.ToLower(strings.TrimSpace(string(f)))) {
	case ContentFormatParagraph:
		return ContentFormatParagraph
	default:
		return ContentFormatBulleted
	}
}

// Instruction returns the prompt fragment describing the format
func (f ContentFormat) Instruction() string {
	if f.Normalize() == ContentFormatParagraph {
		return "paragraph format with 2-3 sentences per slide"
	}
	return "bulleted list format with 3-5 key points per slide"
}

// Default colours
const (
	DefaultBackgroundColor = "#ffffff"
	DefaultTextColor       = "#000000"
)

// StyleConfig holds the user's visual choices for export
type StyleConfig struct {
	BackgroundColor string        `json:"background_color"`
	TextColor       string        `json:"text_color"`
	ContentFormat   ContentFormat `json:"content_format"`
}

// DefaultStyle returns black text on white with bulleted content
func DefaultStyle() StyleConfig {
	return StyleConfig{
		BackgroundColor: DefaultBackgroundColor,
		TextColor:       DefaultTextColor,
		ContentFormat:   ContentFormatBulleted,
	}
}

// Validate checks both colours are hex triplets
func (s StyleConfig) Validate() error {
	if _, err := NormalizeHexColor(s.BackgroundColor); err != nil {
		return fmt.Errorf("background color: %w", err)
	}
	if _, err := NormalizeHexColor(s.TextColor); err != nil {
		return fmt.Errorf("text color: %w", err)
	}
	return nil
}

// BackgroundRGB returns the background as an upper-case RRGGBB string
func (s StyleConfig) BackgroundRGB() string {
	rgb, err := NormalizeHexColor(s.BackgroundColor)
	if err != nil {
		rgb, _ = NormalizeHexColor(DefaultBackgroundColor)
	}
	return rgb
}

// TextRGB returns the text colour as an upper-case RRGGBB string
func (s StyleConfig) TextRGB() string {
	rgb, err := NormalizeHexColor(s.TextColor)
	if err != nil {
		rgb, _ = NormalizeHexColor(DefaultTextColor)
	}
	return rgb
}

// HasCustomBackground reports whether the background differs from the default white
func (s StyleConfig) HasCustomBackground() bool {
	def, _ := NormalizeHexColor(DefaultBackgroundColor)
	return s.BackgroundRGB() != def
}

// NormalizeHexColor accepts "#rgb", "#rrggbb" or the same without '#'
// and returns the upper-case six digit form used by DrawingML.
func NormalizeHexColor(color string) (string, error) {
	c := strings.TrimPrefix(strings.TrimSpace(color), "#")
	if len(c) == 3 {
		c = string([]byte{c[0], c[0], c[1], c[1], c[2], c[2]})
	}
	if len(c) != 6 {
		return "", fmt.Errorf("invalid hex color %q", color)
	}
	for _, r := range c {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return "", fmt.Errorf("invalid hex color %q", color)
		}
	}
	return strings.ToUpper(c), nil
}
