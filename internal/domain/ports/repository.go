package ports

import (
	"context"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
)

// DeckRepository persists exported decks
type DeckRepository interface {
	// Save stores a deck, replacing any deck with the same ID
	Save(ctx context.Context, deck *entities.Deck) error

	// Get returns a deck with its payload, or entities.ErrDeckNotFound
	Get(ctx context.Context, id string) (*entities.Deck, error)

	// List returns the most recent decks first, at most limit entries
	List(ctx context.Context, limit int) ([]entities.DeckSummary, error)

	// Delete removes a deck, or returns entities.ErrDeckNotFound
	Delete(ctx context.Context, id string) error
}
