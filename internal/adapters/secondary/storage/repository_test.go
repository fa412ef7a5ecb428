package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
	"github.com/fredcamaral/deckgen/internal/domain/ports"
)

func sampleDeck(id string, created time.Time) *entities.Deck {
	return &entities.Deck{
		ID:         id,
		Topic:      "Risk Management",
		Filename:   entities.DeckFilename("Risk Management"),
		SlideCount: 2,
		Slides: []entities.SlideRecord{
			entities.NewSlideRecord("One", "• a"),
			entities.NewSlideRecord("Two", "• b"),
		},
		Style:     entities.StyleConfig{BackgroundColor: "#e3f2fd", TextColor: "#1976d2", ContentFormat: entities.ContentFormatBulleted},
		CreatedAt: created,
		Data:      []byte("PK\x03\x04deck-" + id),
	}
}

func repositories(t *testing.T) map[string]ports.DeckRepository {
	t.Helper()
	sqlite, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })

	return map[string]ports.DeckRepository{
		"memory": NewMemoryRepository(),
		"sqlite": sqlite,
	}
}

func TestDeckRepository(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 123456789, time.UTC)

	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("save and get", func(t *testing.T) {
				deck := sampleDeck("d1", base)
				require.NoError(t, repo.Save(ctx, deck))

				got, err := repo.Get(ctx, "d1")
				require.NoError(t, err)
				assert.Equal(t, deck.Topic, got.Topic)
				assert.Equal(t, deck.Filename, got.Filename)
				assert.Equal(t, deck.Slides, got.Slides)
				assert.Equal(t, deck.Style, got.Style)
				assert.Equal(t, deck.Data, got.Data)
				assert.True(t, deck.CreatedAt.Equal(got.CreatedAt))
			})

			t.Run("missing deck", func(t *testing.T) {
				_, err := repo.Get(ctx, "nope")
				assert.ErrorIs(t, err, entities.ErrDeckNotFound)
				assert.ErrorIs(t, repo.Delete(ctx, "nope"), entities.ErrDeckNotFound)
			})

			t.Run("list newest first with limit", func(t *testing.T) {
				require.NoError(t, repo.Save(ctx, sampleDeck("d2", base.Add(time.Minute))))
				require.NoError(t, repo.Save(ctx, sampleDeck("d3", base.Add(2*time.Minute))))

				list, err := repo.List(ctx, 2)
				require.NoError(t, err)
				require.Len(t, list, 2)
				assert.Equal(t, "d3", list[0].ID)
				assert.Equal(t, "d2", list[1].ID)
				assert.Equal(t, len(sampleDeck("d3", base).Data), list[0].Size)

				all, err := repo.List(ctx, 0)
				require.NoError(t, err)
				assert.Len(t, all, 3)
			})

			t.Run("save replaces by id", func(t *testing.T) {
				deck := sampleDeck("d1", base)
				deck.Topic = "Updated"
				require.NoError(t, repo.Save(ctx, deck))

				got, err := repo.Get(ctx, "d1")
				require.NoError(t, err)
				assert.Equal(t, "Updated", got.Topic)
			})

			t.Run("delete", func(t *testing.T) {
				require.NoError(t, repo.Delete(ctx, "d2"))
				_, err := repo.Get(ctx, "d2")
				assert.ErrorIs(t, err, entities.ErrDeckNotFound)
			})

			t.Run("rejects deck without id", func(t *testing.T) {
				assert.Error(t, repo.Save(ctx, &entities.Deck{}))
			})
		})
	}
}

func TestMemoryRepository_CopiesData(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	deck := sampleDeck("d1", time.Now())
	require.NoError(t, repo.Save(ctx, deck))

	deck.Data[0] = 'X'
	deck.Slides[0].Title = "changed"

	got, err := repo.Get(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, byte('P'), got.Data[0])
	assert.Equal(t, "One", got.Slides[0].Title)
}
