package services

import (
	"context"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
	"github.com/fredcamaral/deckgen/internal/domain/ports"
	"github.com/fredcamaral/deckgen/internal/logging"
)

// ContentRequest asks for one slide record per topic
type ContentRequest struct {
	Topics  []entities.SlideTopic
	Format  entities.ContentFormat
	Context entities.GenerationContext
}

// ContentService writes the body of each slide
type ContentService struct {
	generator ports.TextGenerator
	presets   ports.PresetProvider
	llm       entities.LLMConfig
	logger    *logging.Logger
}

// NewContentService creates a new content service
func NewContentService(generator ports.TextGenerator, presets ports.PresetProvider, llm entities.LLMConfig, logger *logging.Logger) *ContentService {
	if logger == nil {
		logger = logging.New("content", false)
	}
	return &ContentService{
		generator: generator,
		presets:   presets,
		llm:       llm,
		logger:    logger,
	}
}

// GenerateContent produces a record for every topic, in order.
// Topics are processed one at a time and a failure only affects its own slide.
// A cancelled context fills the remaining slides with placeholders.
func (s *ContentService) GenerateContent(ctx context.Context, req ContentRequest) []entities.SlideRecord {
	format := req.Format.Normalize()
	records := make([]entities.SlideRecord, 0, len(req.Topics))

	fallbacks := 0
	for i, topic := range req.Topics {
		record, err := s.generateOne(ctx, topic, format, req.Context)
		if err != nil {
			s.logger.Warn("content for slide %d (%q) failed, using placeholder: %v", i+1, topic.Title, err)
			record = entities.FallbackContent(topic, format)
			fallbacks++
		}
		records = append(records, record)
	}

	if fallbacks > 0 {
		s.logger.Info("generated %d slides, %d from placeholders", len(records), fallbacks)
	}
	return records
}

func (s *ContentService) generateOne(ctx context.Context, topic entities.SlideTopic, format entities.ContentFormat, genCtx entities.GenerationContext) (entities.SlideRecord, error) {
	if err := ctx.Err(); err != nil {
		return entities.SlideRecord{}, err
	}

	prompt, err := BuildContentPrompt(s.presets.Presets(), topic, format, genCtx)
	if err != nil {
		return entities.SlideRecord{}, err
	}

	raw, err := s.generator.Complete(ctx, ports.CompletionRequest{
		Purpose:     ports.PurposeContent,
		Prompt:      prompt,
		MaxTokens:   s.llm.GetContentMaxTokens(),
		Temperature: s.llm.GetTemperature(),
		Hints: map[string]string{
			"title":       topic.Title,
			"description": topic.Description,
			"format":      string(format),
		},
	})
	if err != nil {
		return entities.SlideRecord{}, err
	}

	item, err := decodeContent(raw)
	if err != nil {
		return entities.SlideRecord{}, err
	}
	return entities.NewSlideRecord(*item.Title, *item.Content), nil
}
