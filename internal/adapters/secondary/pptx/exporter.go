package pptx

import (
	"context"
	"fmt"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
	"github.com/fredcamaral/deckgen/internal/domain/ports"
	"github.com/fredcamaral/deckgen/internal/logging"
)

// Font sizes in hundredths of a point
const (
	TitleFontSize = 3200
	BodyFontSize  = 1800
)

// TemplateExporter merges slide records into the template at templatePath,
// or into a blank presentation when the template cannot be used
type TemplateExporter struct {
	fs           ports.FileSystem
	templatePath string
	logger       *logging.Logger
}

// NewTemplateExporter creates a new template exporter
func NewTemplateExporter(fs ports.FileSystem, templatePath string, logger *logging.Logger) *TemplateExporter {
	if fs == nil {
		fs = ports.NewRealFileSystem()
	}
	if logger == nil {
		logger = logging.New("export", false)
	}
	return &TemplateExporter{
		fs:           fs,
		templatePath: templatePath,
		logger:       logger,
	}
}

// TemplatePath returns the configured template location
func (e *TemplateExporter) TemplatePath() string {
	return e.templatePath
}

// Export builds a deck with exactly len(req.Slides) slides
func (e *TemplateExporter) Export(ctx context.Context, req ports.ExportRequest) (*ports.ExportResult, error) {
	pres, templateUsed := e.openTemplate()
	pres.SetSlideSize(WidescreenWidth, WidescreenHeight)

	pool, err := pres.Slides()
	if err != nil {
		return nil, entities.NewExportError(entities.ErrorTypeAssembly, "reading template slides", err)
	}

	result := &ports.ExportResult{TemplateUsed: templateUsed}
	bg := req.Style.BackgroundRGB()
	title := TextStyle{Size: TitleFontSize, Bold: true, Color: req.Style.TextRGB()}
	body := TextStyle{Size: BodyFontSize, Color: req.Style.TextRGB()}

	var layout *Layout
	for i, record := range req.Slides {
		if err := ctx.Err(); err != nil {
			return nil, entities.NewExportError(entities.ErrorTypeAssembly, "export cancelled", err)
		}

		var slide *Slide
		reused := i < len(pool)
		if reused {
			slide = pool[i]
			result.ReusedSlides++
		} else {
			if layout == nil {
				if layout, err = pres.ContentLayout(); err != nil {
					return nil, entities.NewExportError(entities.ErrorTypeAssembly, "selecting slide layout", err)
				}
			}
			if slide, err = pres.AddSlide(layout); err != nil {
				return nil, entities.NewExportError(entities.ErrorTypeAssembly, fmt.Sprintf("adding slide %d", i+1), err)
			}
			result.CreatedSlides++
		}

		if !reused || req.Style.HasCustomBackground() {
			slide.SetBackground(bg)
		}

		if ph := slide.TitlePlaceholder(); ph != nil {
			ph.SetText(record.Title, title)
		} else {
			result.Warnings = append(result.Warnings, fmt.Sprintf("slide %d (%s) has no title placeholder", i+1, slideFileName(slide.Part)))
		}

		if ph := slide.BodyPlaceholder(); ph != nil {
			ph.SetText(record.Content, body)
		} else {
			result.Warnings = append(result.Warnings, fmt.Sprintf("slide %d (%s) has no body placeholder", i+1, slideFileName(slide.Part)))
		}
	}

	if len(pool) > len(req.Slides) {
		for _, slide := range pool[len(req.Slides):] {
			if err := pres.RemoveSlide(slide); err != nil {
				return nil, entities.NewExportError(entities.ErrorTypeAssembly, "removing surplus template slide", err)
			}
			result.RemovedSlides++
		}
	}

	data, err := pres.Bytes()
	if err != nil {
		return nil, entities.NewExportError(entities.ErrorTypeSerialization, "writing presentation", err)
	}

	result.Data = data
	result.SlideCount = len(req.Slides)
	return result, nil
}

// openTemplate never fails: any template problem falls back to a blank deck
func (e *TemplateExporter) openTemplate() (*Presentation, bool) {
	if e.templatePath != "" && e.fs.Exists(e.templatePath) {
		data, err := e.fs.ReadFile(e.templatePath)
		if err == nil {
			pres, openErr := Open(data)
			if openErr == nil {
				openErr = validateTemplate(pres)
			}
			if openErr == nil {
				e.logger.Debug("using template %s", e.templatePath)
				return pres, true
			}
			err = openErr
		}
		e.logger.Warn("template %s unusable, starting from a blank presentation: %v", e.templatePath, err)
	} else {
		e.logger.Debug("no template at %s, starting from a blank presentation", e.templatePath)
	}

	pres, err := NewBlank()
	if err != nil {
		panic(fmt.Sprintf("building blank presentation: %v", err))
	}
	return pres, false
}

// validateTemplate checks that every slide and layout part parses
func validateTemplate(pres *Presentation) error {
	if _, err := pres.Slides(); err != nil {
		return err
	}
	_, err := pres.Layouts()
	return err
}

// InspectTemplate reports on the template file without modifying it
func (e *TemplateExporter) InspectTemplate(ctx context.Context) ports.TemplateInfo {
	info := ports.TemplateInfo{Path: e.templatePath}
	if e.templatePath == "" || !e.fs.Exists(e.templatePath) {
		return info
	}
	info.Present = true

	data, err := e.fs.ReadFile(e.templatePath)
	if err != nil {
		info.Error = err.Error()
		return info
	}
	pres, err := Open(data)
	if err != nil {
		info.Error = err.Error()
		return info
	}

	slides, err := pres.Slides()
	if err != nil {
		info.Error = err.Error()
		return info
	}
	layouts, err := pres.Layouts()
	if err != nil {
		info.Error = err.Error()
		return info
	}

	info.Valid = true
	info.SlideCount = len(slides)
	for _, l := range layouts {
		name := l.Name
		if name == "" {
			name = slideFileName(l.Part)
		}
		info.Layouts = append(info.Layouts, name)
	}
	return info
}

var (
	_ ports.DeckExporter      = (*TemplateExporter)(nil)
	_ ports.TemplateInspector = (*TemplateExporter)(nil)
)
