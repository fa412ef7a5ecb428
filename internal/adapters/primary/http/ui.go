package http

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
	"github.com/fredcamaral/deckgen/internal/domain/ports"
)

//go:embed web/index.html
var webFS embed.FS

var indexTemplate = template.Must(template.ParseFS(webFS, "web/index.html"))

type indexData struct {
	Version  string
	Presets  *entities.Presets
	Template *ports.TemplateInfo
	Defaults entities.PresentationConfig
	MinCount int
	MaxCount int
}

// handleIndex renders the single-page UI. Live state is fetched by the page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := indexData{
		Version:  s.deps.Version,
		Presets:  &entities.Presets{},
		Defaults: entities.DefaultPresentationConfig(),
		MinCount: 1,
		MaxCount: 20,
	}
	if s.deps.Presets != nil {
		data.Presets = s.deps.Presets.Presets()
	}
	if s.deps.Template != nil {
		info := s.deps.Template.InspectTemplate(r.Context())
		data.Template = &info
	}

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, data); err != nil {
		s.logger.Error("rendering index: %v", err)
		s.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = buf.WriteTo(w)
}
