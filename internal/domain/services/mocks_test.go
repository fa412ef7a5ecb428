package services

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
	"github.com/fredcamaral/deckgen/internal/domain/ports"
)

type MockTextGenerator struct {
	mock.Mock
}

func (m *MockTextGenerator) Complete(ctx context.Context, req ports.CompletionRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockTextGenerator) Name() string {
	return "mock"
}

type MockDeckExporter struct {
	mock.Mock
}

func (m *MockDeckExporter) Export(ctx context.Context, req ports.ExportRequest) (*ports.ExportResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.ExportResult), args.Error(1)
}

type MockDeckRepository struct {
	mock.Mock
}

func (m *MockDeckRepository) Save(ctx context.Context, deck *entities.Deck) error {
	args := m.Called(ctx, deck)
	return args.Error(0)
}

func (m *MockDeckRepository) Get(ctx context.Context, id string) (*entities.Deck, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Deck), args.Error(1)
}

func (m *MockDeckRepository) List(ctx context.Context, limit int) ([]entities.DeckSummary, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]entities.DeckSummary), args.Error(1)
}

func (m *MockDeckRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockTopicExtractor struct {
	mock.Mock
}

func (m *MockTopicExtractor) Extract(ctx context.Context, filename string, content []byte) (string, error) {
	args := m.Called(ctx, filename, content)
	return args.String(0), args.Error(1)
}

func (m *MockTopicExtractor) Supports(filename string) bool {
	return m.Called(filename).Bool(0)
}

// recordingPublisher collects published events
type recordingPublisher struct {
	mu     sync.Mutex
	events []ports.UpdateEvent
}

func (p *recordingPublisher) Publish(event ports.UpdateEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// failingGenerator returns err for every request
type failingGenerator struct{ err error }

func (g failingGenerator) Complete(context.Context, ports.CompletionRequest) (string, error) {
	return "", g.err
}

func (g failingGenerator) Name() string { return "failing" }
