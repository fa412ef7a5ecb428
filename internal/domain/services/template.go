package services

import (
	"context"
	"fmt"

	"github.com/fredcamaral/deckgen/internal/domain/ports"
	"github.com/fredcamaral/deckgen/internal/logging"
)

// TemplateChange is the payload of a template_changed event
type TemplateChange struct {
	Change   string             `json:"change"`
	Template ports.TemplateInfo `json:"template"`
}

// TemplateMonitor pushes template_changed events while the template file changes
type TemplateMonitor struct {
	watcher   ports.FileWatcher
	inspector ports.TemplateInspector
	publisher ports.EventPublisher
	clock     ports.TimeProvider
	logger    *logging.Logger
}

// NewTemplateMonitor creates a monitor. publisher and clock may be nil.
func NewTemplateMonitor(watcher ports.FileWatcher, inspector ports.TemplateInspector, publisher ports.EventPublisher, clock ports.TimeProvider, logger *logging.Logger) *TemplateMonitor {
	if publisher == nil {
		publisher = ports.NopPublisher{}
	}
	if clock == nil {
		clock = ports.NewRealTimeProvider()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &TemplateMonitor{
		watcher:   watcher,
		inspector: inspector,
		publisher: publisher,
		clock:     clock,
		logger:    logger,
	}
}

// Run watches path until ctx is done or the watcher stops
func (m *TemplateMonitor) Run(ctx context.Context, path string) error {
	events, err := m.watcher.Watch(ctx, path)
	if err != nil {
		return fmt.Errorf("watching template %s: %w", path, err)
	}
	m.logger.Info("watching template %s", path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			info := m.inspector.InspectTemplate(ctx)
			m.logger.Info("template %s: valid=%t slides=%d", event.Type, info.Valid, info.SlideCount)
			m.publisher.Publish(ports.UpdateEvent{
				Type:      ports.EventTypeTemplateChanged,
				Timestamp: m.clock.Now(),
				Data:      TemplateChange{Change: event.Type.String(), Template: info},
			})
		}
	}
}
