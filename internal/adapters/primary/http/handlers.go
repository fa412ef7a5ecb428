package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
)

const (
	// uploads larger than this are rejected before they reach the extractor
	maxUploadBytes = 1 << 20
	// multipart framing on top of the file itself
	uploadOverhead = 64 << 10

	maxJSONBody = 64 << 10

	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string    `json:"error"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// TaskResponse acknowledges a background task
type TaskResponse struct {
	Kind      entities.TaskKind `json:"kind"`
	RequestID uint64            `json:"request_id"`
}

// CancelResponse reports whether a task was running
type CancelResponse struct {
	Kind      entities.TaskKind `json:"kind"`
	Cancelled bool              `json:"cancelled"`
}

// SaveResponse reports where a deck was written
type SaveResponse struct {
	Path string `json:"path"`
}

// HealthResponse is returned by /healthz
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Clients int    `json:"clients"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: s.deps.Version,
		Clients: s.connMgr.Count(),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.deps.Metrics == nil {
		s.writeError(w, http.StatusNotFound, "Metrics are disabled")
		return
	}
	stats := s.deps.Metrics.GetHealthStatus()
	stats["clients"] = s.connMgr.Count()
	s.writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	state, err := s.deps.Workspace.Snapshot(r.Context())
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	var update entities.ConfigUpdate
	if !s.decodeJSON(w, r, &update) {
		return
	}
	if msg := s.validateConfigUpdate(update); msg != "" {
		s.writeError(w, http.StatusBadRequest, msg)
		return
	}

	state, err := s.deps.Workspace.UpdateConfig(r.Context(), update)
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, state)
}

// validateConfigUpdate rejects oversized slide counts, colours that are not
// hex and preset keys the catalog does not know. It returns a user-facing message or "".
func (s *Server) validateConfigUpdate(u entities.ConfigUpdate) string {
	if u.SlideCount != nil && entities.SlideCountOutOfRange(*u.SlideCount) {
		return fmt.Sprintf("Invalid num_slides: %s (at most %d)", *u.SlideCount, entities.MaxSlideCount)
	}
	for name, color := range map[string]*string{"background_color": u.BackgroundColor, "text_color": u.TextColor} {
		if color == nil {
			continue
		}
		if _, err := entities.NormalizeHexColor(*color); err != nil {
			return fmt.Sprintf("Invalid %s: %s", name, *color)
		}
	}

	if s.deps.Presets == nil {
		return ""
	}
	presets := s.deps.Presets.Presets()
	checks := []struct {
		name    string
		value   *string
		options []entities.PresetOption
	}{
		{"audience", u.Audience, presets.Audiences},
		{"tone", u.Tone, presets.Tones},
		{"scene", u.Scene, presets.Scenes},
	}
	for _, c := range checks {
		if c.value != nil && !hasOption(c.options, *c.value) {
			return fmt.Sprintf("Unknown %s: %s", c.name, *c.value)
		}
	}
	return ""
}

func hasOption(options []entities.PresetOption, key string) bool {
	for _, opt := range options {
		if opt.Key == key {
			return true
		}
	}
	return false
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+uploadOverhead)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, "File is too large")
			return
		}
		s.writeError(w, http.StatusBadRequest, "Expected a multipart upload with a file field")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Expected a multipart upload with a file field")
		return
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		s.handleError(w, err)
		return
	}
	if len(content) > maxUploadBytes {
		s.writeError(w, http.StatusRequestEntityTooLarge, "File is too large")
		return
	}

	state, err := s.deps.Workspace.SetTopicFromUpload(r.Context(), header.Filename, content)
	if err != nil {
		if state.Notification != nil {
			s.writeError(w, http.StatusUnprocessableEntity, state.Notification.Message)
			return
		}
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleStartOutline(w http.ResponseWriter, r *http.Request) {
	s.startTask(w, r, entities.TaskOutline, s.deps.Workspace.StartOutline)
}

func (s *Server) handleStartSlides(w http.ResponseWriter, r *http.Request) {
	s.startTask(w, r, entities.TaskSlides, s.deps.Workspace.StartSlides)
}

func (s *Server) startTask(w http.ResponseWriter, r *http.Request, kind entities.TaskKind, start func(context.Context) (uint64, error)) {
	id, err := start(r.Context())
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusAccepted, TaskResponse{Kind: kind, RequestID: id})
}

func (s *Server) handleEditTopic(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid topic index")
		return
	}

	var edit entities.TopicEdit
	if !s.decodeJSON(w, r, &edit) {
		return
	}

	state, err := s.deps.Workspace.EditTopic(r.Context(), index, edit)
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleCancelTask(w http.ResponseWriter, r *http.Request) {
	kind, ok := entities.ParseTaskKind(mux.Vars(r)["kind"])
	if !ok {
		s.writeError(w, http.StatusBadRequest, "Unknown task kind")
		return
	}

	cancelled, err := s.deps.Workspace.Cancel(r.Context(), kind)
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, CancelResponse{Kind: kind, Cancelled: cancelled})
}

func (s *Server) handleDismissNotification(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Workspace.DismissNotification(r.Context()); err != nil {
		s.handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	if s.deps.Presets == nil {
		s.writeError(w, http.StatusNotFound, "Presets are not available")
		return
	}
	s.writeJSON(w, http.StatusOK, s.deps.Presets.Presets())
}

func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	if s.deps.Template == nil {
		s.writeError(w, http.StatusNotFound, "No template configured")
		return
	}
	s.writeJSON(w, http.StatusOK, s.deps.Template.InspectTemplate(r.Context()))
}

func (s *Server) handleCurrentDeck(w http.ResponseWriter, r *http.Request) {
	deck, err := s.deps.Workspace.CurrentDeck(r.Context())
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, deck.Summary())
}

func (s *Server) handleDownloadCurrent(w http.ResponseWriter, r *http.Request) {
	deck, err := s.deps.Workspace.CurrentDeck(r.Context())
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.writeDeck(w, deck)
}

func (s *Server) handleSaveDeck(w http.ResponseWriter, r *http.Request) {
	path, err := s.deps.Workspace.SaveDeck(r.Context(), s.deps.SaveDir)
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, SaveResponse{Path: path})
}

func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	if s.deps.History == nil {
		s.writeJSON(w, http.StatusOK, []entities.DeckSummary{})
		return
	}
	decks, err := s.deps.History.History(r.Context(), limit)
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, decks)
}

func (s *Server) handleGetDeck(w http.ResponseWriter, r *http.Request) {
	deck, err := s.lookupDeck(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, deck)
}

func (s *Server) handleDownloadDeck(w http.ResponseWriter, r *http.Request) {
	deck, err := s.lookupDeck(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.writeDeck(w, deck)
}

// lookupDeck checks history first and then the workspace's current deck,
// so downloads work with history disabled.
func (s *Server) lookupDeck(ctx context.Context, id string) (*entities.Deck, error) {
	if s.deps.History != nil {
		deck, err := s.deps.History.Get(ctx, id)
		if err == nil {
			return deck, nil
		}
		if !errors.Is(err, entities.ErrDeckNotFound) {
			return nil, err
		}
	}

	current, err := s.deps.Workspace.CurrentDeck(ctx)
	if err != nil {
		return nil, err
	}
	if current.ID != id {
		return nil, entities.ErrDeckNotFound
	}
	return current, nil
}

func (s *Server) writeDeck(w http.ResponseWriter, deck *entities.Deck) {
	w.Header().Set("Content-Type", entities.PPTXContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", deck.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(deck.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(deck.Data); err != nil {
		s.logger.Warn("writing deck %s: %v", deck.ID, err)
	}
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		s.logger.Debug("bad request body for %s: %v", r.URL.Path, err)
		s.writeError(w, http.StatusBadRequest, "Invalid JSON request body")
		return false
	}
	return true
}

// errorStatus maps domain errors to a status code and a message safe to show
// to the browser. Unknown errors become a generic 500.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, entities.ErrEmptyTopic):
		return http.StatusBadRequest, "Please enter a topic for your presentation."
	case errors.Is(err, entities.ErrNoOutline):
		return http.StatusConflict, "Please generate slide topics first."
	case errors.Is(err, entities.ErrTopicIndex):
		return http.StatusNotFound, "Slide topic not found"
	case errors.Is(err, entities.ErrDeckNotFound):
		return http.StatusNotFound, "Presentation not found"
	case errors.Is(err, entities.ErrWorkspaceClosed),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "Service unavailable"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// handleError logs err server-side and writes a sanitized response
func (s *Server) handleError(w http.ResponseWriter, err error) {
	status, message := errorStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("HTTP error (status %d): %v", status, err)
	} else {
		s.logger.Debug("HTTP error (status %d): %v", status, err)
	}
	s.writeError(w, status, message)
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	response := ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Time:    time.Now(),
	}
	s.writeJSON(w, status, response)
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("Failed to encode JSON response: %v", err)
	}
}
