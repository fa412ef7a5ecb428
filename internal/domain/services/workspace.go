package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
	"github.com/fredcamaral/deckgen/internal/domain/ports"
	"github.com/fredcamaral/deckgen/internal/logging"
)

// OutlineGenerator produces slide topics; implementations never fail
type OutlineGenerator interface {
	GenerateOutline(ctx context.Context, req OutlineRequest) []entities.SlideTopic
}

// ContentGenerator produces one record per topic; implementations never fail
type ContentGenerator interface {
	GenerateContent(ctx context.Context, req ContentRequest) []entities.SlideRecord
}

// DeckBuilder exports records into a deck
type DeckBuilder interface {
	BuildDeck(ctx context.Context, topic string, slides []entities.SlideRecord, style entities.StyleConfig) (*entities.Deck, error)
}

// User-facing messages
const (
	msgEnterTopic     = "Please enter a topic for your presentation."
	msgOutlineFirst   = "Please generate slide topics first."
	msgUploadOK       = "File uploaded successfully!"
	msgNoDeckToSave   = "Please generate slides first."
	errPrefixUpload   = "Error reading file: "
	errPrefixSlides   = "Error generating slides: "
	errPrefixSaveDeck = "Error saving file: "
)

// WorkspaceDeps are the collaborators of a Workspace
type WorkspaceDeps struct {
	Outline   OutlineGenerator
	Content   ContentGenerator
	Decks     DeckBuilder
	Extractor ports.TopicExtractor
	Publisher ports.EventPublisher
	FS        ports.FileSystem
	Clock     ports.TimeProvider
	Logger    *logging.Logger
}

type request struct {
	apply func(*entities.WorkspaceState)
	done  chan struct{}
}

// Workspace owns the application state. Every mutation runs as a closure on
// the Run loop; background tasks report back through the same loop, tagged
// with the request id they were started under.
type Workspace struct {
	deps WorkspaceDeps

	requests chan request
	closed   chan struct{}
	started  chan struct{}
	once     sync.Once
	tasks    sync.WaitGroup

	// owned by the run loop
	state   entities.WorkspaceState
	deck    *entities.Deck
	cancels map[entities.TaskKind]context.CancelFunc
	nextID  uint64
	baseCtx context.Context
}

// NewWorkspace creates a workspace. Call Run before using it.
func NewWorkspace(deps WorkspaceDeps) *Workspace {
	if deps.Publisher == nil {
		deps.Publisher = ports.NopPublisher{}
	}
	if deps.FS == nil {
		deps.FS = ports.NewRealFileSystem()
	}
	if deps.Clock == nil {
		deps.Clock = ports.NewRealTimeProvider()
	}
	if deps.Logger == nil {
		deps.Logger = logging.New("workspace", false)
	}
	return &Workspace{
		deps:     deps,
		requests: make(chan request),
		closed:   make(chan struct{}),
		started:  make(chan struct{}),
		state:    entities.NewWorkspaceState(),
		cancels:  make(map[entities.TaskKind]context.CancelFunc),
	}
}

// Run applies requests until ctx is cancelled, then cancels in-flight tasks
// and waits for them to exit.
func (w *Workspace) Run(ctx context.Context) {
	w.baseCtx = ctx
	w.once.Do(func() { close(w.started) })

	for {
		select {
		case <-ctx.Done():
			for kind, cancel := range w.cancels {
				cancel()
				delete(w.cancels, kind)
			}
			close(w.closed)
			w.tasks.Wait()
			return
		case req := <-w.requests:
			req.apply(&w.state)
			close(req.done)
		}
	}
}

// do runs fn on the loop and waits for it
func (w *Workspace) do(ctx context.Context, fn func(*entities.WorkspaceState)) error {
	req := request{apply: fn, done: make(chan struct{})}
	select {
	case w.requests <- req:
	case <-w.closed:
		return entities.ErrWorkspaceClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	<-req.done
	return nil
}

func (w *Workspace) publish(eventType string, data interface{}) {
	w.deps.Publisher.Publish(ports.UpdateEvent{
		Type:      eventType,
		Timestamp: w.deps.Clock.Now(),
		Data:      data,
	})
}

// publishState must only be called from the loop
func (w *Workspace) publishState(st *entities.WorkspaceState) {
	w.publish(ports.EventTypeStateChanged, st.Clone())
}

// Snapshot returns a copy of the current state
func (w *Workspace) Snapshot(ctx context.Context) (entities.WorkspaceState, error) {
	var out entities.WorkspaceState
	err := w.do(ctx, func(st *entities.WorkspaceState) {
		out = st.Clone()
	})
	return out, err
}

// UpdateConfig applies a partial config change. Changing topic, slide count,
// audience, tone or scene discards the outline.
func (w *Workspace) UpdateConfig(ctx context.Context, update entities.ConfigUpdate) (entities.WorkspaceState, error) {
	var out entities.WorkspaceState
	err := w.do(ctx, func(st *entities.WorkspaceState) {
		if update.Apply(&st.Config) {
			st.Topics = nil
		}
		w.publishState(st)
		out = st.Clone()
	})
	return out, err
}

// SetTopicFromUpload replaces the topic with the text of an uploaded file
func (w *Workspace) SetTopicFromUpload(ctx context.Context, filename string, content []byte) (entities.WorkspaceState, error) {
	if w.deps.Extractor == nil {
		return entities.WorkspaceState{}, errors.New("uploads are not supported")
	}
	text, extractErr := w.deps.Extractor.Extract(ctx, filename, content)

	var out entities.WorkspaceState
	err := w.do(ctx, func(st *entities.WorkspaceState) {
		if extractErr != nil {
			st.Notification = entities.NewFailure(errPrefixUpload + extractErr.Error())
		} else {
			st.Config.Topic = text
			st.Topics = nil
			st.Notification = entities.NewSuccess(msgUploadOK)
		}
		w.publishState(st)
		out = st.Clone()
	})
	if err != nil {
		return out, err
	}
	return out, extractErr
}

// EditTopic changes one outline entry
func (w *Workspace) EditTopic(ctx context.Context, index int, edit entities.TopicEdit) (entities.WorkspaceState, error) {
	var out entities.WorkspaceState
	var editErr error
	err := w.do(ctx, func(st *entities.WorkspaceState) {
		if index < 0 || index >= len(st.Topics) {
			editErr = fmt.Errorf("%w: %d", entities.ErrTopicIndex, index)
			out = st.Clone()
			return
		}
		edit.Apply(&st.Topics[index])
		w.publishState(st)
		out = st.Clone()
	})
	if err != nil {
		return out, err
	}
	return out, editErr
}

// DismissNotification clears the status message
func (w *Workspace) DismissNotification(ctx context.Context) error {
	return w.do(ctx, func(st *entities.WorkspaceState) {
		if st.Notification != nil {
			st.Notification = nil
			w.publishState(st)
		}
	})
}

// CurrentDeck returns the most recently exported deck
func (w *Workspace) CurrentDeck(ctx context.Context) (*entities.Deck, error) {
	var deck *entities.Deck
	err := w.do(ctx, func(*entities.WorkspaceState) {
		deck = w.deck
	})
	if err != nil {
		return nil, err
	}
	if deck == nil {
		return nil, entities.ErrDeckNotFound
	}
	return deck, nil
}

// SaveDeck writes the current deck into dir and returns the file path
func (w *Workspace) SaveDeck(ctx context.Context, dir string) (string, error) {
	deck, err := w.CurrentDeck(ctx)
	if errors.Is(err, entities.ErrDeckNotFound) {
		_ = w.notify(ctx, entities.NewFailure(msgNoDeckToSave))
		return "", err
	}
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, deck.Filename)
	if writeErr := w.deps.FS.WriteFile(path, deck.Data, 0600); writeErr != nil {
		_ = w.notify(ctx, entities.NewFailure(errPrefixSaveDeck+writeErr.Error()))
		return "", fmt.Errorf("saving deck: %w", writeErr)
	}

	_ = w.notify(ctx, entities.NewSuccess(fmt.Sprintf("PPTX file saved as '%s' in %s!", deck.Filename, displayDir(dir))))
	return path, nil
}

func displayDir(dir string) string {
	if dir == "" || dir == "." {
		return "the current directory"
	}
	return dir
}

func (w *Workspace) notify(ctx context.Context, n *entities.Notification) error {
	return w.do(ctx, func(st *entities.WorkspaceState) {
		st.Notification = n
		w.publishState(st)
	})
}

// beginTask registers a new request id for kind, cancelling the previous one.
// Must run on the loop.
func (w *Workspace) beginTask(st *entities.WorkspaceState, kind entities.TaskKind) (context.Context, uint64) {
	if cancel, ok := w.cancels[kind]; ok {
		cancel()
		w.deps.Logger.Debug("cancelled previous %s request %d", kind, st.LatestRequest[kind])
	}
	w.nextID++
	id := w.nextID
	taskCtx, cancel := context.WithCancel(w.baseCtx)
	w.cancels[kind] = cancel
	st.LatestRequest[kind] = id
	st.SetGenerating(kind, true)
	st.Notification = nil
	return taskCtx, id
}

// finishTask applies a task result if id is still the latest request of kind
func (w *Workspace) finishTask(kind entities.TaskKind, id uint64, apply func(*entities.WorkspaceState)) {
	err := w.do(context.Background(), func(st *entities.WorkspaceState) {
		if st.LatestRequest[kind] != id {
			w.deps.Logger.Info("discarding stale %s result for request %d (latest %d)", kind, id, st.LatestRequest[kind])
			w.publish(ports.EventTypeTaskDiscarded, entities.TaskEvent{Kind: kind, RequestID: id})
			return
		}
		if cancel, ok := w.cancels[kind]; ok {
			cancel()
			delete(w.cancels, kind)
		}
		st.SetGenerating(kind, false)
		apply(st)
		w.publish(ports.EventTypeTaskCompleted, entities.TaskEvent{Kind: kind, RequestID: id})
		w.publishState(st)
	})
	if err != nil {
		w.deps.Logger.Debug("%s request %d finished after shutdown", kind, id)
	}
}

func (w *Workspace) spawn(fn func()) {
	w.tasks.Add(1)
	go func() {
		defer w.tasks.Done()
		fn()
	}()
}

// StartOutline launches outline generation for the current topic
func (w *Workspace) StartOutline(ctx context.Context) (uint64, error) {
	var id uint64
	var startErr error
	err := w.do(ctx, func(st *entities.WorkspaceState) {
		topic := strings.TrimSpace(st.Config.Topic)
		if topic == "" {
			st.Notification = entities.NewFailure(msgEnterTopic)
			w.publishState(st)
			startErr = entities.ErrEmptyTopic
			return
		}

		var taskCtx context.Context
		taskCtx, id = w.beginTask(st, entities.TaskOutline)
		st.Topics = nil
		req := OutlineRequest{
			Topic:      topic,
			SlideCount: st.Config.SlideCount,
			Context:    st.Config.Context(),
		}
		w.publish(ports.EventTypeTaskStarted, entities.TaskEvent{Kind: entities.TaskOutline, RequestID: id})
		w.publishState(st)

		reqID := id
		w.spawn(func() {
			topics := w.deps.Outline.GenerateOutline(taskCtx, req)
			if taskCtx.Err() != nil {
				w.deps.Logger.Debug("outline request %d cancelled", reqID)
				return
			}
			w.finishTask(entities.TaskOutline, reqID, func(st *entities.WorkspaceState) {
				st.Topics = topics
				st.Notification = entities.NewSuccess(fmt.Sprintf("Generated %d slide topics!", len(topics)))
			})
		})
	})
	if err != nil {
		return 0, err
	}
	return id, startErr
}

// StartSlides launches content generation and export for the current outline
func (w *Workspace) StartSlides(ctx context.Context) (uint64, error) {
	var id uint64
	var startErr error
	err := w.do(ctx, func(st *entities.WorkspaceState) {
		if len(st.Topics) == 0 {
			st.Notification = entities.NewFailure(msgOutlineFirst)
			w.publishState(st)
			startErr = entities.ErrNoOutline
			return
		}

		var taskCtx context.Context
		taskCtx, id = w.beginTask(st, entities.TaskSlides)
		st.Slides = nil
		topics := entities.CloneTopics(st.Topics)
		cfg := st.Config
		w.publish(ports.EventTypeTaskStarted, entities.TaskEvent{Kind: entities.TaskSlides, RequestID: id})
		w.publishState(st)

		reqID := id
		w.spawn(func() {
			w.runSlides(taskCtx, reqID, topics, cfg)
		})
	})
	if err != nil {
		return 0, err
	}
	return id, startErr
}

func (w *Workspace) runSlides(ctx context.Context, id uint64, topics []entities.SlideTopic, cfg entities.PresentationConfig) {
	records := w.deps.Content.GenerateContent(ctx, ContentRequest{
		Topics:  topics,
		Format:  cfg.ContentFormat,
		Context: cfg.Context(),
	})
	if ctx.Err() != nil {
		w.deps.Logger.Debug("slides request %d cancelled", id)
		return
	}

	deck, err := w.deps.Decks.BuildDeck(ctx, cfg.Topic, records, cfg.Style())
	if ctx.Err() != nil {
		w.deps.Logger.Debug("slides request %d cancelled during export", id)
		return
	}

	w.finishTask(entities.TaskSlides, id, func(st *entities.WorkspaceState) {
		if err != nil {
			w.deps.Logger.Error("slides request %d: %v", id, err)
			st.Notification = entities.NewFailure(errPrefixSlides + err.Error())
			return
		}
		st.Slides = records
		summary := deck.Summary()
		st.Deck = &summary
		w.deck = deck
		st.Notification = entities.NewSuccess(fmt.Sprintf("Presentation ready: %d slides in %s", deck.SlideCount, deck.Filename))
	})
}

// Cancel stops the in-flight task of kind
func (w *Workspace) Cancel(ctx context.Context, kind entities.TaskKind) (bool, error) {
	var cancelled bool
	err := w.do(ctx, func(st *entities.WorkspaceState) {
		cancel, ok := w.cancels[kind]
		if !ok {
			return
		}
		cancel()
		delete(w.cancels, kind)
		id := st.LatestRequest[kind]
		// bump the id so a late result is recognised as stale
		w.nextID++
		st.LatestRequest[kind] = w.nextID
		st.SetGenerating(kind, false)
		cancelled = true
		w.deps.Logger.Info("cancelled %s request %d", kind, id)
		w.publish(ports.EventTypeTaskCancelled, entities.TaskEvent{Kind: kind, RequestID: id})
		w.publishState(st)
	})
	return cancelled, err
}

// WaitStarted blocks until Run has been called or ctx ends
func (w *Workspace) WaitStarted(ctx context.Context) error {
	select {
	case <-w.started:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ ports.WorkspaceService = (*Workspace)(nil)
