package ports

import (
	"context"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
)

// ExportRequest is a snapshot of what goes into one deck
type ExportRequest struct {
	Slides []entities.SlideRecord
	Style  entities.StyleConfig
}

// ExportResult is the serialized deck plus assembly statistics
type ExportResult struct {
	Data          []byte
	SlideCount    int
	ReusedSlides  int
	CreatedSlides int
	RemovedSlides int
	TemplateUsed  bool
	Warnings      []string
}

// DeckExporter assembles slide records into a presentation package
type DeckExporter interface {
	Export(ctx context.Context, req ExportRequest) (*ExportResult, error)
}

// TemplateInfo describes the template currently on disk
type TemplateInfo struct {
	Path       string   `json:"path"`
	Present    bool     `json:"present"`
	Valid      bool     `json:"valid"`
	SlideCount int      `json:"slide_count"`
	Layouts    []string `json:"layouts,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// TemplateInspector reports on the export template
type TemplateInspector interface {
	InspectTemplate(ctx context.Context) TemplateInfo
}
