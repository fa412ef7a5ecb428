package ports

import (
	"context"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
)

// WorkspaceService is the interaction surface over the application state.
// Reads return snapshots; writes are serialized by the implementation.
type WorkspaceService interface {
	// Snapshot returns a copy of the current state
	Snapshot(ctx context.Context) (entities.WorkspaceState, error)

	// UpdateConfig applies a partial config change
	UpdateConfig(ctx context.Context, update entities.ConfigUpdate) (entities.WorkspaceState, error)

	// SetTopicFromUpload replaces the topic with the text of an uploaded document
	SetTopicFromUpload(ctx context.Context, filename string, content []byte) (entities.WorkspaceState, error)

	// EditTopic changes one outline entry in place
	EditTopic(ctx context.Context, index int, edit entities.TopicEdit) (entities.WorkspaceState, error)

	// StartOutline launches outline generation and returns its request id
	StartOutline(ctx context.Context) (uint64, error)

	// StartSlides launches content generation and export and returns its request id
	StartSlides(ctx context.Context) (uint64, error)

	// Cancel stops the in-flight task of kind; false when nothing was running
	Cancel(ctx context.Context, kind entities.TaskKind) (bool, error)

	// DismissNotification clears the status message
	DismissNotification(ctx context.Context) error

	// CurrentDeck returns the most recently exported deck
	CurrentDeck(ctx context.Context) (*entities.Deck, error)

	// SaveDeck writes the current deck into dir and returns its path
	SaveDeck(ctx context.Context, dir string) (string, error)
}
