package http

import (
	"context"
	"net"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
	"github.com/fredcamaral/deckgen/internal/domain/ports"
	"github.com/fredcamaral/deckgen/internal/logging"
)

// MockWorkspace is a mock for WorkspaceService
type MockWorkspace struct {
	mock.Mock
}

func (m *MockWorkspace) Snapshot(ctx context.Context) (entities.WorkspaceState, error) {
	args := m.Called(ctx)
	return args.Get(0).(entities.WorkspaceState), args.Error(1)
}

func (m *MockWorkspace) UpdateConfig(ctx context.Context, update entities.ConfigUpdate) (entities.WorkspaceState, error) {
	args := m.Called(ctx, update)
	return args.Get(0).(entities.WorkspaceState), args.Error(1)
}

func (m *MockWorkspace) SetTopicFromUpload(ctx context.Context, filename string, content []byte) (entities.WorkspaceState, error) {
	args := m.Called(ctx, filename, content)
	return args.Get(0).(entities.WorkspaceState), args.Error(1)
}

func (m *MockWorkspace) EditTopic(ctx context.Context, index int, edit entities.TopicEdit) (entities.WorkspaceState, error) {
	args := m.Called(ctx, index, edit)
	return args.Get(0).(entities.WorkspaceState), args.Error(1)
}

func (m *MockWorkspace) StartOutline(ctx context.Context) (uint64, error) {
	args := m.Called(ctx)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockWorkspace) StartSlides(ctx context.Context) (uint64, error) {
	args := m.Called(ctx)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockWorkspace) Cancel(ctx context.Context, kind entities.TaskKind) (bool, error) {
	args := m.Called(ctx, kind)
	return args.Bool(0), args.Error(1)
}

func (m *MockWorkspace) DismissNotification(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockWorkspace) CurrentDeck(ctx context.Context) (*entities.Deck, error) {
	args := m.Called(ctx)
	if d := args.Get(0); d != nil {
		return d.(*entities.Deck), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockWorkspace) SaveDeck(ctx context.Context, dir string) (string, error) {
	args := m.Called(ctx, dir)
	return args.String(0), args.Error(1)
}

type staticPresets struct{ presets *entities.Presets }

func (p staticPresets) Presets() *entities.Presets { return p.presets }

type staticInspector struct{ info ports.TemplateInfo }

func (i staticInspector) InspectTemplate(context.Context) ports.TemplateInfo { return i.info }

// fakeHistory stores decks by id
type fakeHistory struct {
	decks map[string]*entities.Deck
	err   error
}

func (h *fakeHistory) History(_ context.Context, limit int) ([]entities.DeckSummary, error) {
	if h.err != nil {
		return nil, h.err
	}
	out := make([]entities.DeckSummary, 0, len(h.decks))
	for _, d := range h.decks {
		if len(out) == limit {
			break
		}
		out = append(out, d.Summary())
	}
	return out, nil
}

func (h *fakeHistory) Get(_ context.Context, id string) (*entities.Deck, error) {
	if h.err != nil {
		return nil, h.err
	}
	d, ok := h.decks[id]
	if !ok {
		return nil, entities.ErrDeckNotFound
	}
	return d, nil
}

func getTestServerConfig() *entities.ServerConfig {
	return &entities.ServerConfig{
		Host:        "localhost",
		Port:        0,
		Environment: "development",
		CORSOrigins: []string{"http://localhost:8000"},
	}
}

func testPresets() *entities.Presets {
	return &entities.Presets{
		Audiences:        []entities.PresetOption{{Key: "colleagues", Label: "Colleagues", Context: "peers"}},
		Tones:            []entities.PresetOption{{Key: "professional", Label: "Professional", Context: "formal"}},
		Scenes:           []entities.PresetOption{{Key: "general_scene", Label: "General Scene", Context: "any"}},
		BackgroundColors: []entities.ColorOption{{Label: "White", Hex: "#FFFFFF"}},
		TextColors:       []entities.ColorOption{{Label: "Black", Hex: "#000000"}},
	}
}

func newTestServer(t *testing.T) (*Server, *MockWorkspace, *fakeHistory) {
	t.Helper()
	workspace := new(MockWorkspace)
	history := &fakeHistory{decks: map[string]*entities.Deck{}}
	server := NewServer(Dependencies{
		Workspace: workspace,
		Presets:   staticPresets{presets: testPresets()},
		Template:  staticInspector{info: ports.TemplateInfo{Path: "template.pptx", Present: true, Valid: true, SlideCount: 3}},
		History:   history,
		SaveDir:   t.TempDir(),
		Version:   "test",
	}, getTestServerConfig(), logging.Discard())
	return server, workspace, history
}

func TestServerLifecycle(t *testing.T) {
	server, _, _ := newTestServer(t)
	ctx := context.Background()

	t.Run("start server", func(t *testing.T) {
		err := server.Start(ctx, 0, "localhost")
		require.NoError(t, err)
		assert.True(t, server.IsRunning())
		assert.NotEmpty(t, server.Addr())
	})

	t.Run("server already running", func(t *testing.T) {
		err := server.Start(ctx, 0, "localhost")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "already running")
	})

	t.Run("stop server", func(t *testing.T) {
		err := server.Stop(ctx)
		require.NoError(t, err)
		assert.False(t, server.IsRunning())
	})

	t.Run("server not running", func(t *testing.T) {
		err := server.Stop(ctx)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not running")
	})

	t.Run("port in use", func(t *testing.T) {
		first, _, _ := newTestServer(t)
		require.NoError(t, first.Start(ctx, 0, "127.0.0.1"))
		defer func() { _ = first.Stop(ctx) }()

		_, portStr, err := net.SplitHostPort(first.Addr())
		require.NoError(t, err)
		port, err := strconv.Atoi(portStr)
		require.NoError(t, err)

		second, _, _ := newTestServer(t)
		err = second.Start(ctx, port, "127.0.0.1")
		assert.Error(t, err)
		assert.False(t, second.IsRunning())
	})
}

func TestNotifyClients(t *testing.T) {
	server, _, _ := newTestServer(t)
	ctx := context.Background()
	event := ports.UpdateEvent{Type: ports.EventTypeStateChanged, Timestamp: time.Now()}

	t.Run("notify when server not running", func(t *testing.T) {
		err := server.NotifyClients(event)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not running")

		assert.NotPanics(t, func() { server.Publish(event) })
	})

	t.Run("notify when server running", func(t *testing.T) {
		require.NoError(t, server.Start(ctx, 0, "localhost"))
		defer func() { _ = server.Stop(ctx) }()

		assert.NoError(t, server.NotifyClients(event))
		server.Publish(event)
	})

	t.Run("publish never blocks on a full queue", func(t *testing.T) {
		idle, _, _ := newTestServer(t)
		idle.running = true // manager loop deliberately not started

		done := make(chan struct{})
		go func() {
			for i := 0; i < sendBufferSize*2; i++ {
				idle.Publish(event)
			}
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("Publish blocked")
		}
	})
}

func TestServerConfigValidation(t *testing.T) {
	t.Run("panics with nil config", func(t *testing.T) {
		assert.Panics(t, func() {
			NewServer(Dependencies{Workspace: new(MockWorkspace)}, nil, nil)
		})
	})

	t.Run("start requires a workspace", func(t *testing.T) {
		server := NewServer(Dependencies{}, getTestServerConfig(), logging.Discard())
		err := server.Start(context.Background(), 0, "127.0.0.1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no workspace")

		server.SetWorkspace(new(MockWorkspace))
		require.NoError(t, server.Start(context.Background(), 0, "127.0.0.1"))
		assert.NoError(t, server.Stop(context.Background()))
	})

	t.Run("defaults version and logger", func(t *testing.T) {
		server := NewServer(Dependencies{Workspace: new(MockWorkspace)}, getTestServerConfig(), nil)
		assert.Equal(t, "dev", server.deps.Version)
		assert.NotNil(t, server.logger)
	})
}

// countingMetrics is a minimal Metrics implementation
type countingMetrics struct {
	mu          sync.Mutex
	requests    int
	connections int
}

func (m *countingMetrics) RecordHTTPRequest() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests++
}

func (m *countingMetrics) RecordWebSocketConnection() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connections++
}

func (m *countingMetrics) GetHealthStatus() map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return map[string]interface{}{"http_requests": m.requests, "websocket_connections": m.connections}
}
