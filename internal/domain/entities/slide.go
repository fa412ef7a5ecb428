package entities

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DefaultSlideCount is used when the requested slide count cannot be parsed
const DefaultSlideCount = 5

// MaxSlideCount bounds every outline, generated or synthesized
const MaxSlideCount = 50

// DefaultImagePlaceholder is attached to every generated slide record
const DefaultImagePlaceholder = "https://via.placeholder.com/400x300/cccccc/666666?text=Image+Placeholder"

// SlideTopic is one outline entry. It has no identity beyond its list position;
// Order is advisory and never used to re-sort.
type SlideTopic struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Order       int    `json:"order" yaml:"order"`
}

// SlideRecord is the generated content for one slide
type SlideRecord struct {
	Title            string `json:"title" yaml:"title"`
	Content          string `json:"content" yaml:"content"`
	ImagePlaceholder string `json:"image_placeholder,omitempty" yaml:"image_placeholder,omitempty"`
}

// NewSlideRecord creates a record with the default image placeholder
func NewSlideRecord(title, content string) SlideRecord {
	return SlideRecord{
		Title:            title,
		Content:          content,
		ImagePlaceholder: DefaultImagePlaceholder,
	}
}

// ParseSlideCount parses a user supplied slide count.
// Anything that is not a positive integer yields DefaultSlideCount and
// larger counts are capped at MaxSlideCount.
func ParseSlideCount(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return DefaultSlideCount
	}
	return ClampSlideCount(n)
}

// ClampSlideCount maps non-positive counts to DefaultSlideCount and caps
// the rest at MaxSlideCount.
func ClampSlideCount(n int) int {
	if n < 1 {
		return DefaultSlideCount
	}
	if n > MaxSlideCount {
		return MaxSlideCount
	}
	return n
}

// SlideCountOutOfRange reports whether raw is a number above MaxSlideCount.
// Non-numeric input is left to ParseSlideCount.
func SlideCountOutOfRange(raw string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if errors.Is(err, strconv.ErrRange) {
		return n > 0
	}
	return err == nil && n > MaxSlideCount
}

// FallbackOutline synthesizes a deterministic outline for topic
func FallbackOutline(topic string, slideCount int) []SlideTopic {
	slideCount = ClampSlideCount(slideCount)

	topics := make([]SlideTopic, slideCount)
	for i := 1; i <= slideCount; i++ {
		topics[i-1] = SlideTopic{
			Title:       fmt.Sprintf("%s - Topic %d", topic, i),
			Description: fmt.Sprintf("This slide will cover aspect %d of %s", i, topic),
			Order:       i,
		}
	}
	return topics
}

// FallbackContent builds placeholder content for a topic whose generation failed
func FallbackContent(topic SlideTopic, format ContentFormat) SlideRecord {
	var content string
	if format.Normalize() == ContentFormatParagraph {
		content = fmt.Sprintf("This slide covers %s. We'll explore the key concepts and their practical applications in this context.", topic.Description)
	} else {
		content = strings.Join([]string{
			"• Key point 1 about " + topic.Title,
			"• Important aspect to consider",
			"• Benefits and advantages",
			"• Future implications",
		}, "\n")
	}
	return NewSlideRecord(topic.Title, content)
}

// CloneTopics returns a copy of topics that shares no backing array
func CloneTopics(topics []SlideTopic) []SlideTopic {
	if topics == nil {
		return nil
	}
	out := make([]SlideTopic, len(topics))
	copy(out, topics)
	return out
}

// CloneRecords returns a copy of records that shares no backing array
func CloneRecords(records []SlideRecord) []SlideRecord {
	if records == nil {
		return nil
	}
	out := make([]SlideRecord, len(records))
	copy(out, records)
	return out
}
