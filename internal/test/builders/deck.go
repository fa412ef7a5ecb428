package builders

import (
	"strconv"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
)

// OutlineBuilder helps build slide topic lists for testing
type OutlineBuilder struct {
	topics []entities.SlideTopic
}

// NewOutlineBuilder creates an empty outline builder
func NewOutlineBuilder() *OutlineBuilder {
	return &OutlineBuilder{}
}

// WithTopic appends a topic numbered after the existing ones
func (b *OutlineBuilder) WithTopic(title, description string) *OutlineBuilder {
	b.topics = append(b.topics, entities.SlideTopic{
		Title:       title,
		Description: description,
		Order:       len(b.topics) + 1,
	})
	return b
}

// WithCount appends n generic topics
func (b *OutlineBuilder) WithCount(n int) *OutlineBuilder {
	for i := 0; i < n; i++ {
		idx := strconv.Itoa(len(b.topics) + 1)
		b.WithTopic("Topic "+idx, "Description "+idx)
	}
	return b
}

// Build returns the topics
func (b *OutlineBuilder) Build() []entities.SlideTopic {
	return entities.CloneTopics(b.topics)
}

// SlideRecordBuilder helps build slide record lists for testing
type SlideRecordBuilder struct {
	records []entities.SlideRecord
}

// NewSlideRecordBuilder creates an empty record builder
func NewSlideRecordBuilder() *SlideRecordBuilder {
	return &SlideRecordBuilder{}
}

// WithSlide appends a record
func (b *SlideRecordBuilder) WithSlide(title, content string) *SlideRecordBuilder {
	b.records = append(b.records, entities.NewSlideRecord(title, content))
	return b
}

// WithCount appends n records with bulleted content
func (b *SlideRecordBuilder) WithCount(n int) *SlideRecordBuilder {
	for i := 0; i < n; i++ {
		idx := strconv.Itoa(len(b.records) + 1)
		b.WithSlide("Slide "+idx, "• Point A of slide "+idx+"\n• Point B of slide "+idx)
	}
	return b
}

// Build returns the records
func (b *SlideRecordBuilder) Build() []entities.SlideRecord {
	return entities.CloneRecords(b.records)
}

// StyleBuilder helps build StyleConfig values for testing
type StyleBuilder struct {
	style entities.StyleConfig
}

// NewStyleBuilder starts from the default black on white bulleted style
func NewStyleBuilder() *StyleBuilder {
	return &StyleBuilder{style: entities.DefaultStyle()}
}

// WithBackground sets the background colour
func (b *StyleBuilder) WithBackground(hex string) *StyleBuilder {
	b.style.BackgroundColor = hex
	return b
}

// WithText sets the text colour
func (b *StyleBuilder) WithText(hex string) *StyleBuilder {
	b.style.TextColor = hex
	return b
}

// WithFormat sets the content format
func (b *StyleBuilder) WithFormat(format entities.ContentFormat) *StyleBuilder {
	b.style.ContentFormat = format
	return b
}

// Build returns the style
func (b *StyleBuilder) Build() entities.StyleConfig {
	return b.style
}

// Presets returns a small preset table with one extra entry per kind
func Presets() *entities.Presets {
	return &entities.Presets{
		Audiences: []entities.PresetOption{
			{Key: entities.DefaultAudience, Label: "Colleagues", Context: "Peers at similar levels"},
			{Key: "public", Label: "Public", Context: "General audience"},
		},
		Tones: []entities.PresetOption{
			{Key: entities.DefaultTone, Label: "Professional", Context: "Formal business language"},
			{Key: "humorous", Label: "Humorous", Context: "Light-hearted language"},
		},
		Scenes: []entities.PresetOption{
			{Key: entities.DefaultScene, Label: "General Scene", Context: "General presentation"},
			{Key: "work_plan", Label: "Work Plan", Context: "Strategic planning document"},
		},
		BackgroundColors: []entities.ColorOption{{Label: "White", Hex: "#ffffff"}},
		TextColors:       []entities.ColorOption{{Label: "Black", Hex: "#000000"}},
	}
}

// StaticPresets implements ports.PresetProvider over a fixed table
type StaticPresets struct {
	Table *entities.Presets
}

// Presets returns the table
func (s StaticPresets) Presets() *entities.Presets {
	return s.Table
}
