package entities

import (
	"strings"
	"time"
)

// TaskKind identifies a background generation task
type TaskKind string

const (
	TaskOutline TaskKind = "outline"
	TaskSlides  TaskKind = "slides"
)

// ParseTaskKind validates a task kind coming from the outside
func ParseTaskKind(s string) (TaskKind, bool) {
	switch TaskKind(strings.ToLower(s)) {
	case TaskOutline:
		return TaskOutline, true
	case TaskSlides:
		return TaskSlides, true
	}
	return "", false
}

// TaskEvent is the payload of task lifecycle events
type TaskEvent struct {
	Kind      TaskKind `json:"kind"`
	RequestID uint64   `json:"request_id"`
}

// PresentationConfig is everything the user picks before generating
type PresentationConfig struct {
	Topic           string        `json:"topic"`
	SlideCount      int           `json:"num_slides"`
	ContentFormat   ContentFormat `json:"content_format"`
	BackgroundColor string        `json:"background_color"`
	TextColor       string        `json:"text_color"`
	Audience        string        `json:"audience"`
	Tone            string        `json:"tone"`
	Scene           string        `json:"scene"`
}

// DefaultPresentationConfig returns an empty topic with default choices
func DefaultPresentationConfig() PresentationConfig {
	return PresentationConfig{
		SlideCount:      DefaultSlideCount,
		ContentFormat:   ContentFormatBulleted,
		BackgroundColor: DefaultBackgroundColor,
		TextColor:       DefaultTextColor,
		Audience:        DefaultAudience,
		Tone:            DefaultTone,
		Scene:           DefaultScene,
	}
}

// Style returns the export style portion of the config
func (c PresentationConfig) Style() StyleConfig {
	return StyleConfig{
		BackgroundColor: c.BackgroundColor,
		TextColor:       c.TextColor,
		ContentFormat:   c.ContentFormat.Normalize(),
	}
}

// Context returns the audience, tone and scene keys
func (c PresentationConfig) Context() GenerationContext {
	return GenerationContext{
		Audience: c.Audience,
		Tone:     c.Tone,
		Scene:    c.Scene,
	}
}

// ConfigUpdate is a partial change to PresentationConfig. Nil fields are left alone.
// SlideCount is raw user input and goes through ParseSlideCount.
type ConfigUpdate struct {
	Topic           *string `json:"topic,omitempty"`
	SlideCount      *string `json:"num_slides,omitempty"`
	ContentFormat   *string `json:"content_format,omitempty"`
	BackgroundColor *string `json:"background_color,omitempty"`
	TextColor       *string `json:"text_color,omitempty"`
	Audience        *string `json:"audience,omitempty"`
	Tone            *string `json:"tone,omitempty"`
	Scene           *string `json:"scene,omitempty"`
}

// Apply writes the update into cfg and reports whether the outline is now stale.
// Changes to topic, slide count, audience, tone or scene invalidate the outline.
func (u ConfigUpdate) Apply(cfg *PresentationConfig) (resetOutline bool) {
	if u.Topic != nil && *u.Topic != cfg.Topic {
		cfg.Topic = *u.Topic
		resetOutline = true
	}
	if u.SlideCount != nil {
		if n := ParseSlideCount(*u.SlideCount); n != cfg.SlideCount {
			cfg.SlideCount = n
			resetOutline = true
		}
	}
	if u.ContentFormat != nil {
		cfg.ContentFormat = ContentFormat(*u.ContentFormat).Normalize()
	}
	if u.BackgroundColor != nil {
		cfg.BackgroundColor = *u.BackgroundColor
	}
	if u.TextColor != nil {
		cfg.TextColor = *u.TextColor
	}
	if u.Audience != nil && *u.Audience != cfg.Audience {
		cfg.Audience = *u.Audience
		resetOutline = true
	}
	if u.Tone != nil && *u.Tone != cfg.Tone {
		cfg.Tone = *u.Tone
		resetOutline = true
	}
	if u.Scene != nil && *u.Scene != cfg.Scene {
		cfg.Scene = *u.Scene
		resetOutline = true
	}
	return resetOutline
}

// NotificationKind distinguishes outcomes on the shared status channel
type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
)

// SuccessMarker prefixes every success message
const SuccessMarker = "✅"

// Notification is a dismissible status message
type Notification struct {
	Kind    NotificationKind `json:"kind"`
	Message string           `json:"message"`
	Time    time.Time        `json:"time"`
}

// NewSuccess builds a success notification carrying the leading marker
func NewSuccess(msg string) *Notification {
	return &Notification{Kind: NotificationSuccess, Message: SuccessMarker + " " + msg, Time: time.Now()}
}

// NewFailure builds an error notification
func NewFailure(msg string) *Notification {
	return &Notification{Kind: NotificationError, Message: msg, Time: time.Now()}
}

// WorkspaceState is the single application state container.
// Only the workspace run loop mutates it; everyone else receives clones.
type WorkspaceState struct {
	Config            PresentationConfig  `json:"config"`
	Topics            []SlideTopic        `json:"topics"`
	Slides            []SlideRecord       `json:"slides"`
	Deck              *DeckSummary        `json:"deck,omitempty"`
	GeneratingOutline bool                `json:"generating_outline"`
	GeneratingSlides  bool                `json:"generating_slides"`
	Notification      *Notification       `json:"notification,omitempty"`
	LatestRequest     map[TaskKind]uint64 `json:"latest_request"`
}

// NewWorkspaceState returns the initial state
func NewWorkspaceState() WorkspaceState {
	return WorkspaceState{
		Config:        DefaultPresentationConfig(),
		LatestRequest: make(map[TaskKind]uint64),
	}
}

// Clone returns a deep copy of the state
func (s WorkspaceState) Clone() WorkspaceState {
	out := s
	out.Topics = CloneTopics(s.Topics)
	out.Slides = CloneRecords(s.Slides)
	if s.Deck != nil {
		d := *s.Deck
		out.Deck = &d
	}
	if s.Notification != nil {
		n := *s.Notification
		out.Notification = &n
	}
	out.LatestRequest = make(map[TaskKind]uint64, len(s.LatestRequest))
	for k, v := range s.LatestRequest {
		out.LatestRequest[k] = v
	}
	return out
}

// SetGenerating flips the in-progress flag for kind
func (s *WorkspaceState) SetGenerating(kind TaskKind, running bool) {
	switch kind {
	case TaskOutline:
		s.GeneratingOutline = running
	case TaskSlides:
		s.GeneratingSlides = running
	}
}

// TopicEdit changes the title and/or description of one outline entry
type TopicEdit struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Apply writes the edit into topic
func (e TopicEdit) Apply(topic *SlideTopic) {
	if e.Title != nil {
		topic.Title = *e.Title
	}
	if e.Description != nil {
		topic.Description = *e.Description
	}
}
