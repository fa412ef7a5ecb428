package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
)

func TestConfigMerger_Merge(t *testing.T) {
	merger := NewConfigMerger()

	t.Run("merge with no configs returns defaults", func(t *testing.T) {
		result := merger.Merge()
		assert.NotNil(t, result)
		assert.Equal(t, "localhost", result.Server.Host)
		assert.Equal(t, 8000, result.Server.Port)
		assert.Equal(t, "gpt-3.5-turbo", result.LLM.Model)
	})

	t.Run("merge multiple configs with precedence", func(t *testing.T) {
		base := GetDefaultConfig()
		override := &entities.Config{
			Server:  entities.ServerConfig{Host: "0.0.0.0"},
			LLM:     entities.LLMConfig{Model: "gpt-4o", Temperature: 0.2},
			Export:  entities.ExportConfig{TemplatePath: "brand.pptx", WatchTemplate: true},
			Storage: entities.StorageConfig{Enabled: true, Path: "/tmp/h.db"},
			Browser: entities.BrowserConfig{AutoOpen: false},
		}

		result := merger.Merge(base, override)

		assert.Equal(t, "0.0.0.0", result.Server.Host)
		assert.Equal(t, 8000, result.Server.Port, "unset port keeps base value")
		assert.Equal(t, "gpt-4o", result.LLM.Model)
		assert.Equal(t, "openai", result.LLM.Provider)
		assert.InDelta(t, 0.2, result.LLM.Temperature, 0.0001)
		assert.Equal(t, 1500, result.LLM.OutlineMaxTokens)
		assert.Equal(t, "brand.pptx", result.Export.TemplatePath)
		assert.Equal(t, "/tmp/h.db", result.Storage.Path)
		assert.False(t, result.Browser.AutoOpen)
	})

	t.Run("nil configs are skipped", func(t *testing.T) {
		result := merger.Merge(GetDefaultConfig(), nil)
		assert.Equal(t, 8000, result.Server.Port)
	})

	t.Run("result does not alias inputs", func(t *testing.T) {
		base := GetDefaultConfig()
		result := merger.Merge(base)
		result.Server.CORSOrigins[0] = "changed"

		assert.NotEqual(t, "changed", base.Server.CORSOrigins[0])
	})
}

func TestConfigMerger_ApplyFlags(t *testing.T) {
	merger := NewConfigMerger()
	base := GetDefaultConfig()

	t.Run("flags override values", func(t *testing.T) {
		result := merger.ApplyFlags(base, map[string]interface{}{
			"port":       9000,
			"host":       "127.0.0.1",
			"no-browser": true,
			"template":   "brand.pptx",
			"provider":   "mock",
			"model":      "m",
			"no-history": true,
			"verbose":    true,
		})

		assert.Equal(t, 9000, result.Server.Port)
		assert.Equal(t, "127.0.0.1", result.Server.Host)
		assert.False(t, result.Browser.AutoOpen)
		assert.Equal(t, "brand.pptx", result.Export.TemplatePath)
		assert.Equal(t, "mock", result.LLM.Provider)
		assert.Equal(t, "m", result.LLM.Model)
		assert.False(t, result.Storage.Enabled)
		assert.True(t, result.Logging.Verbose)

		assert.Equal(t, 8000, base.Server.Port, "input is not modified")
	})

	t.Run("zero values are ignored", func(t *testing.T) {
		result := merger.ApplyFlags(base, map[string]interface{}{
			"port":       0,
			"host":       "",
			"no-browser": false,
		})

		assert.Equal(t, base.Server.Port, result.Server.Port)
		assert.Equal(t, base.Server.Host, result.Server.Host)
		assert.Equal(t, base.Browser.AutoOpen, result.Browser.AutoOpen)
	})
}

func TestConfigMerger_ApplyEnvVars(t *testing.T) {
	merger := NewConfigMerger()

	t.Run("environment overrides values", func(t *testing.T) {
		t.Setenv("DECKGEN_HOST", "127.0.0.1")
		t.Setenv("DECKGEN_PORT", "7000")
		t.Setenv("DECKGEN_NO_BROWSER", "true")
		t.Setenv("DECKGEN_LLM_PROVIDER", "mock")
		t.Setenv("DECKGEN_LLM_BASE_URL", "http://localhost:11434/v1")
		t.Setenv("DECKGEN_TEMPLATE", "other.pptx")
		t.Setenv("DECKGEN_LOG_LEVEL", "debug")

		result := merger.ApplyEnvVars(&entities.Config{})

		assert.Equal(t, "127.0.0.1", result.Server.Host)
		assert.Equal(t, 7000, result.Server.Port)
		assert.False(t, result.Browser.AutoOpen)
		assert.Equal(t, "mock", result.LLM.Provider)
		assert.Equal(t, "http://localhost:11434/v1", result.LLM.BaseURL)
		assert.Equal(t, "other.pptx", result.Export.TemplatePath)
		assert.Equal(t, "debug", result.Logging.Level)
	})

	t.Run("invalid port is ignored", func(t *testing.T) {
		t.Setenv("DECKGEN_PORT", "abc")

		result := merger.ApplyEnvVars(&entities.Config{Server: entities.ServerConfig{Port: 8000}})
		assert.Equal(t, 8000, result.Server.Port)
	})
}

func TestGetDefaultConfig(t *testing.T) {
	t.Run("defaults validate", func(t *testing.T) {
		assert.NoError(t, GetDefaultConfig().Validate())
	})

	t.Run("environment feeds defaults", func(t *testing.T) {
		t.Setenv("DECKGEN_CORS_ORIGINS", "http://a.test, http://b.test")
		t.Setenv("DECKGEN_WATCH_TEMPLATE", "false")

		config := GetDefaultConfig()
		assert.Equal(t, []string{"http://a.test", "http://b.test"}, config.Server.CORSOrigins)
		assert.False(t, config.Export.WatchTemplate)
	})
}
