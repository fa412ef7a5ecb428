package ports

import "github.com/fredcamaral/deckgen/internal/domain/entities"

// PresetProvider supplies the audience, tone, scene and colour tables
type PresetProvider interface {
	Presets() *entities.Presets
}
