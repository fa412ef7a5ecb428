package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
	"github.com/fredcamaral/deckgen/internal/domain/ports"
)

var mockSections = []string{
	"Introduction",
	"Background",
	"Key Concepts",
	"Current Challenges",
	"Approach",
	"Case Study",
	"Results",
	"Next Steps",
	"Summary",
}

// MockGenerator answers from the request hints without any network access.
// Output is deterministic for a given request.
type MockGenerator struct {
	Latency time.Duration
}

// NewMockGenerator creates an offline generator
func NewMockGenerator(latency time.Duration) *MockGenerator {
	return &MockGenerator{Latency: latency}
}

// Name returns the provider name
func (g *MockGenerator) Name() string {
	return entities.ProviderMock
}

// Complete returns outline or content JSON shaped like a live model's answer
func (g *MockGenerator) Complete(ctx context.Context, req ports.CompletionRequest) (string, error) {
	if g.Latency > 0 {
		select {
		case <-time.After(g.Latency):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var v any
	switch req.Purpose {
	case ports.PurposeOutline:
		v = mockOutline(req.Hints["topic"], req.Hints["slide_count"])
	case ports.PurposeContent:
		v = mockContent(req.Hints["title"], req.Hints["description"], entities.ContentFormat(req.Hints["format"]))
	default:
		return "", fmt.Errorf("mock generator: unknown purpose %q", req.Purpose)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

type mockTopic struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

func mockOutline(topic, count string) []mockTopic {
	n, err := strconv.Atoi(count)
	if err != nil || n < 1 {
		n = entities.DefaultSlideCount
	}
	if strings.TrimSpace(topic) == "" {
		topic = "Presentation"
	}

	out := make([]mockTopic, n)
	for i := range out {
		section := mockSections[i%len(mockSections)]
		if i == n-1 && n > 1 {
			section = "Summary"
		}
		out[i] = mockTopic{
			Title:       topic + ": " + section,
			Description: fmt.Sprintf("%s of %s", section, topic),
			Order:       i + 1,
		}
	}
	return out
}

type mockSlide struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func mockContent(title, description string, format entities.ContentFormat) mockSlide {
	if description == "" {
		description = title
	}
	if format.Normalize() == entities.ContentFormatParagraph {
		return mockSlide{
			Title:   title,
			Content: fmt.Sprintf("%s. This slide walks through the main ideas and how they apply in practice.", strings.TrimSuffix(description, ".")),
		}
	}
	return mockSlide{
		Title: title,
		Content: strings.Join([]string{
			"• " + description,
			"• Why it matters",
			"• Practical example",
			"• Key takeaway",
		}, "\n"),
	}
}

var _ ports.TextGenerator = (*MockGenerator)(nil)
