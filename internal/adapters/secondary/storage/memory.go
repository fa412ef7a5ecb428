// Package storage keeps the history of exported decks.
package storage

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
	"github.com/fredcamaral/deckgen/internal/domain/ports"
)

// DefaultListLimit caps List when no limit is given
const DefaultListLimit = 20

// MemoryRepository is a process-local DeckRepository
type MemoryRepository struct {
	mu    sync.RWMutex
	decks map[string]*entities.Deck
}

// NewMemoryRepository creates an empty repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{decks: make(map[string]*entities.Deck)}
}

func copyDeck(d *entities.Deck) *entities.Deck {
	out := *d
	out.Slides = entities.CloneRecords(d.Slides)
	out.Data = append([]byte(nil), d.Data...)
	return &out
}

// Save stores a copy of deck
func (r *MemoryRepository) Save(ctx context.Context, deck *entities.Deck) error {
	if deck == nil || deck.ID == "" {
		return errors.New("deck must have an ID")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decks[deck.ID] = copyDeck(deck)
	return nil
}

// Get returns a copy of the stored deck
func (r *MemoryRepository) Get(ctx context.Context, id string) (*entities.Deck, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.decks[id]
	if !ok {
		return nil, entities.ErrDeckNotFound
	}
	return copyDeck(d), nil
}

// List returns the most recent decks first
func (r *MemoryRepository) List(ctx context.Context, limit int) ([]entities.DeckSummary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	r.mu.RLock()
	out := make([]entities.DeckSummary, 0, len(r.decks))
	for _, d := range r.decks {
		out = append(out, d.Summary())
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Delete removes a deck
func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.decks[id]; !ok {
		return entities.ErrDeckNotFound
	}
	delete(r.decks, id)
	return nil
}

var _ ports.DeckRepository = (*MemoryRepository)(nil)
