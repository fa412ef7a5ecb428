package services

import (
	"context"
	"strconv"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
	"github.com/fredcamaral/deckgen/internal/domain/ports"
	"github.com/fredcamaral/deckgen/internal/logging"
)

// OutlineRequest asks for slideCount topics covering Topic
type OutlineRequest struct {
	Topic      string
	SlideCount int
	Context    entities.GenerationContext
}

// OutlineService breaks a topic down into slide topics
type OutlineService struct {
	generator ports.TextGenerator
	presets   ports.PresetProvider
	llm       entities.LLMConfig
	logger    *logging.Logger
}

// NewOutlineService creates a new outline service
func NewOutlineService(generator ports.TextGenerator, presets ports.PresetProvider, llm entities.LLMConfig, logger *logging.Logger) *OutlineService {
	if logger == nil {
		logger = logging.New("outline", false)
	}
	return &OutlineService{
		generator: generator,
		presets:   presets,
		llm:       llm,
		logger:    logger,
	}
}

// GenerateOutline returns exactly the topics the model produced, or the
// deterministic fallback sequence when anything goes wrong. It never fails.
func (s *OutlineService) GenerateOutline(ctx context.Context, req OutlineRequest) []entities.SlideTopic {
	count := entities.ClampSlideCount(req.SlideCount)

	topics, err := s.generate(ctx, req.Topic, count, req.Context)
	if err != nil {
		s.logger.Warn("outline generation for %q failed, using placeholders: %v", req.Topic, err)
		return entities.FallbackOutline(req.Topic, count)
	}

	s.logger.Debug("generated %d slide topics for %q", len(topics), req.Topic)
	return topics
}

func (s *OutlineService) generate(ctx context.Context, topic string, count int, genCtx entities.GenerationContext) ([]entities.SlideTopic, error) {
	prompt, err := BuildOutlinePrompt(s.presets.Presets(), topic, count, genCtx)
	if err != nil {
		return nil, err
	}

	raw, err := s.generator.Complete(ctx, ports.CompletionRequest{
		Purpose:     ports.PurposeOutline,
		Prompt:      prompt,
		MaxTokens:   s.llm.GetOutlineMaxTokens(),
		Temperature: s.llm.GetTemperature(),
		Hints: map[string]string{
			"topic":       topic,
			"slide_count": strconv.Itoa(count),
		},
	})
	if err != nil {
		return nil, err
	}

	items, err := decodeOutline(raw)
	if err != nil {
		return nil, err
	}

	topics := make([]entities.SlideTopic, len(items))
	for i, item := range items {
		topics[i] = entities.SlideTopic{Title: *item.Title, Order: i + 1}
		if item.Description != nil {
			topics[i].Description = *item.Description
		}
		if item.Order != nil {
			topics[i].Order = *item.Order
		}
	}
	return topics, nil
}
