// Package presets loads the audience, tone, scene and colour tables.
package presets

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
	"github.com/fredcamaral/deckgen/internal/domain/ports"
)

//go:embed catalog.yaml
var builtin []byte

// Catalog is an immutable preset table
type Catalog struct {
	presets *entities.Presets
}

// NewCatalog returns the built-in catalog
func NewCatalog() (*Catalog, error) {
	return Parse(builtin)
}

// MustCatalog returns the built-in catalog and panics if it is broken
func MustCatalog() *Catalog {
	c, err := NewCatalog()
	if err != nil {
		panic(fmt.Sprintf("built-in presets: %v", err))
	}
	return c
}

// Parse decodes and validates a YAML catalog
func Parse(data []byte) (*Catalog, error) {
	var p entities.Presets
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing presets: %w", err)
	}

	caser := cases.Title(language.English)
	for _, group := range [][]entities.PresetOption{p.Audiences, p.Tones, p.Scenes} {
		for i := range group {
			if group[i].Label == "" {
				group[i].Label = caser.String(strings.ReplaceAll(group[i].Key, "_", " "))
			}
		}
	}

	if err := validate(&p); err != nil {
		return nil, err
	}
	return &Catalog{presets: &p}, nil
}

func validate(p *entities.Presets) error {
	groups := []struct {
		name    string
		options []entities.PresetOption
		def     string
	}{
		{"audiences", p.Audiences, entities.DefaultAudience},
		{"tones", p.Tones, entities.DefaultTone},
		{"scenes", p.Scenes, entities.DefaultScene},
	}
	for _, g := range groups {
		seen := make(map[string]bool, len(g.options))
		for _, opt := range g.options {
			if opt.Key == "" {
				return fmt.Errorf("%s: option without key", g.name)
			}
			if seen[opt.Key] {
				return fmt.Errorf("%s: duplicate key %q", g.name, opt.Key)
			}
			if strings.TrimSpace(opt.Context) == "" {
				return fmt.Errorf("%s: %q has no context", g.name, opt.Key)
			}
			seen[opt.Key] = true
		}
		if !seen[g.def] {
			return fmt.Errorf("%s: default %q missing", g.name, g.def)
		}
	}

	var errs []error
	for _, c := range append(append([]entities.ColorOption{}, p.BackgroundColors...), p.TextColors...) {
		if _, err := entities.NormalizeHexColor(c.Hex); err != nil {
			errs = append(errs, fmt.Errorf("colour %q: %w", c.Label, err))
		}
	}
	return errors.Join(errs...)
}

// Presets returns the table. Callers must not modify it.
func (c *Catalog) Presets() *entities.Presets {
	return c.presets
}

// HasAudience reports whether key is a known audience
func (c *Catalog) HasAudience(key string) bool { return hasKey(c.presets.Audiences, key) }

// HasTone reports whether key is a known tone
func (c *Catalog) HasTone(key string) bool { return hasKey(c.presets.Tones, key) }

// HasScene reports whether key is a known scene
func (c *Catalog) HasScene(key string) bool { return hasKey(c.presets.Scenes, key) }

func hasKey(options []entities.PresetOption, key string) bool {
	for _, opt := range options {
		if opt.Key == key {
			return true
		}
	}
	return false
}

// Marshal renders the table as YAML
func (c *Catalog) Marshal() ([]byte, error) {
	return yaml.Marshal(c.presets)
}

var _ ports.PresetProvider = (*Catalog)(nil)
