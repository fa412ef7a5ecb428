package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
	"github.com/fredcamaral/deckgen/internal/domain/ports"
	"github.com/fredcamaral/deckgen/internal/logging"
)

// DeckService exports slide records and keeps the deck history
type DeckService struct {
	exporter ports.DeckExporter
	repo     ports.DeckRepository
	clock    ports.TimeProvider
	logger   *logging.Logger
}

// NewDeckService creates a new deck service. repo may be nil to disable history.
func NewDeckService(exporter ports.DeckExporter, repo ports.DeckRepository, clock ports.TimeProvider, logger *logging.Logger) *DeckService {
	if clock == nil {
		clock = ports.NewRealTimeProvider()
	}
	if logger == nil {
		logger = logging.New("deck", false)
	}
	return &DeckService{
		exporter: exporter,
		repo:     repo,
		clock:    clock,
		logger:   logger,
	}
}

// BuildDeck exports slides with style and records the result.
// Storage failures are logged; the deck is still returned.
func (s *DeckService) BuildDeck(ctx context.Context, topic string, slides []entities.SlideRecord, style entities.StyleConfig) (*entities.Deck, error) {
	if len(slides) == 0 {
		return nil, entities.NewExportError(entities.ErrorTypeValidation, "no slides to export", nil)
	}

	result, err := s.exporter.Export(ctx, ports.ExportRequest{
		Slides: entities.CloneRecords(slides),
		Style:  style,
	})
	if err != nil {
		return nil, fmt.Errorf("exporting deck: %w", err)
	}

	for _, w := range result.Warnings {
		s.logger.Warn("export: %s", w)
	}

	deck := &entities.Deck{
		ID:         uuid.New().String(),
		Topic:      topic,
		Filename:   entities.DeckFilename(topic),
		SlideCount: result.SlideCount,
		Slides:     entities.CloneRecords(slides),
		Style:      style,
		CreatedAt:  s.clock.Now(),
		Data:       result.Data,
	}

	s.logger.Info("exported %s: %d slides (%d reused, %d created, %d removed), %d bytes",
		deck.Filename, result.SlideCount, result.ReusedSlides, result.CreatedSlides, result.RemovedSlides, len(result.Data))

	if s.repo != nil {
		if err := s.repo.Save(ctx, deck); err != nil {
			s.logger.Warn("saving deck %s to history: %v", deck.ID, err)
		}
	}

	return deck, nil
}

// History lists recently exported decks
func (s *DeckService) History(ctx context.Context, limit int) ([]entities.DeckSummary, error) {
	if s.repo == nil {
		return []entities.DeckSummary{}, nil
	}
	return s.repo.List(ctx, limit)
}

// Get loads a stored deck by id
func (s *DeckService) Get(ctx context.Context, id string) (*entities.Deck, error) {
	if s.repo == nil {
		return nil, entities.ErrDeckNotFound
	}
	return s.repo.Get(ctx, id)
}
