package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
	"github.com/fredcamaral/deckgen/internal/domain/ports"
	"github.com/fredcamaral/deckgen/internal/logging"
)

// DeckHistory looks up previously exported decks
type DeckHistory interface {
	History(ctx context.Context, limit int) ([]entities.DeckSummary, error)
	Get(ctx context.Context, id string) (*entities.Deck, error)
}

// Metrics receives request and connection counts and reports them on /api/stats
type Metrics interface {
	RecordHTTPRequest()
	RecordWebSocketConnection()
	GetHealthStatus() map[string]interface{}
}

// Dependencies are the domain services the server exposes
type Dependencies struct {
	Workspace ports.WorkspaceService
	Presets   ports.PresetProvider
	Template  ports.TemplateInspector
	History   DeckHistory
	// Metrics is optional
	Metrics Metrics
	// SaveDir is where POST /api/deck/save writes files
	SaveDir string
	Version string
}

// Server implements the HTTPServer interface and publishes workspace events
// to WebSocket clients.
type Server struct {
	server  *http.Server
	connMgr *ConnectionManager
	limiter *rateLimiter
	deps    Dependencies
	config  *entities.ServerConfig
	logger  *logging.Logger
	addr    string
	cancel  context.CancelFunc
	mu      sync.RWMutex
	running bool
}

// NewServer creates a new HTTP server.
// config must not be nil - use config.GetDefaultConfig().Server if needed
func NewServer(deps Dependencies, config *entities.ServerConfig, logger *logging.Logger) *Server {
	if config == nil {
		panic("server config cannot be nil - provide a valid ServerConfig")
	}
	if logger == nil {
		logger = logging.New("server", false)
	}
	if deps.Version == "" {
		deps.Version = "dev"
	}
	return &Server{
		connMgr: NewConnectionManager(logger.Named("ws")),
		limiter: newRateLimiter(defaultRateLimit, time.Minute),
		deps:    deps,
		config:  config,
		logger:  logger,
	}
}

// SetWorkspace attaches the workspace; call it before Start
func (s *Server) SetWorkspace(workspace ports.WorkspaceService) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deps.Workspace = workspace
}

// Start binds host:port and serves in the background. Port 0 picks a free port.
func (s *Server) Start(ctx context.Context, port int, host string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return errors.New("server already running")
	}
	if s.deps.Workspace == nil {
		return errors.New("server has no workspace")
	}

	listener, err := net.Listen("tcp", net.JoinHostPort(host, fmt.Sprint(port)))
	if err != nil {
		return fmt.Errorf("listening on %s:%d: %w", host, port, err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	go s.connMgr.Run(runCtx)
	go s.limiter.cleanupRoutine(runCtx)

	s.server = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.config.GetReadTimeout(),
		WriteTimeout: s.config.GetWriteTimeout(),
		IdleTimeout:  60 * time.Second,
	}
	s.addr = listener.Addr().String()
	s.running = true

	go func() {
		s.logger.Info("HTTP server listening on %s", s.addr)
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error: %v", err)
		}
	}()

	return nil
}

// Addr returns the bound address once the server is running
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return errors.New("server not running")
	}
	// in-flight handlers may still publish, so the lock is released before Shutdown
	s.running = false
	srv, stopRun := s.server, s.cancel
	s.mu.Unlock()

	s.connMgr.CloseAll()

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.GetShutdownTimeout())
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	stopRun()
	if err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// NotifyClients sends an update event to all connected clients
func (s *Server) NotifyClients(event ports.UpdateEvent) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.running {
		return errors.New("server not running")
	}

	s.connMgr.Broadcast(event)
	return nil
}

// Publish implements ports.EventPublisher. Events raised while the server is
// down are dropped.
func (s *Server) Publish(event ports.UpdateEvent) {
	if err := s.NotifyClients(event); err != nil {
		s.logger.Debug("dropping %s event: %v", event.Type, err)
	}
}

// IsRunning returns whether the server is currently running
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Handler returns the full handler chain: CORS, security headers, rate
// limiting, logging and panic recovery around the router.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.setupRoutes()

	// Apply middleware in order: security -> rate limiting -> logging -> recovery
	handler = securityHeadersMiddleware(handler)
	handler = s.limiter.middleware(handler)
	handler = createLoggingMiddleware(handler, s.logger)
	handler = createRecoveryMiddleware(handler, s.logger)
	if s.deps.Metrics != nil {
		handler = countRequestsMiddleware(handler, s.deps.Metrics)
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   s.config.GetCORSOrigins(),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           300,
	})
	return c.Handler(handler)
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/ws", s.handleWebSocket).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/state", s.handleState).Methods(http.MethodGet)
	api.HandleFunc("/config", s.handleUpdateConfig).Methods(http.MethodPut)
	api.HandleFunc("/upload", s.handleUpload).Methods(http.MethodPost)
	api.HandleFunc("/outline", s.handleStartOutline).Methods(http.MethodPost)
	api.HandleFunc("/outline/{index:[0-9]+}", s.handleEditTopic).Methods(http.MethodPut)
	api.HandleFunc("/slides", s.handleStartSlides).Methods(http.MethodPost)
	api.HandleFunc("/tasks/{kind}", s.handleCancelTask).Methods(http.MethodDelete)
	api.HandleFunc("/notification", s.handleDismissNotification).Methods(http.MethodDelete)
	api.HandleFunc("/presets", s.handlePresets).Methods(http.MethodGet)
	api.HandleFunc("/template", s.handleTemplate).Methods(http.MethodGet)
	api.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)
	api.HandleFunc("/deck", s.handleCurrentDeck).Methods(http.MethodGet)
	api.HandleFunc("/deck/download", s.handleDownloadCurrent).Methods(http.MethodGet)
	api.HandleFunc("/deck/save", s.handleSaveDeck).Methods(http.MethodPost)
	api.HandleFunc("/decks", s.handleListDecks).Methods(http.MethodGet)
	api.HandleFunc("/decks/{id}", s.handleGetDeck).Methods(http.MethodGet)
	api.HandleFunc("/decks/{id}/download", s.handleDownloadDeck).Methods(http.MethodGet)

	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		s.writeError(w, http.StatusNotFound, "Resource not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}

var (
	_ ports.HTTPServer     = (*Server)(nil)
	_ ports.EventPublisher = (*Server)(nil)
)
