package config

import (
	"os"
	"strconv"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
	"github.com/fredcamaral/deckgen/internal/domain/ports"
)

// ConfigMerger implements the ConfigMerger interface
type ConfigMerger struct{}

// NewConfigMerger creates a new configuration merger
func NewConfigMerger() *ConfigMerger {
	return &ConfigMerger{}
}

// Merge merges multiple configurations with later configs taking precedence
func (m *ConfigMerger) Merge(configs ...*entities.Config) *entities.Config {
	if len(configs) == 0 {
		return GetDefaultConfig()
	}

	result := deepCopy(configs[0])

	for i := 1; i < len(configs); i++ {
		if configs[i] != nil {
			m.mergeInto(result, configs[i])
		}
	}

	return result
}

// ApplyFlags applies CLI flag overrides to a configuration
func (m *ConfigMerger) ApplyFlags(config *entities.Config, flags map[string]interface{}) *entities.Config {
	result := deepCopy(config)

	if port, ok := flags["port"].(int); ok && port > 0 {
		result.Server.Port = port
	}

	if host, ok := flags["host"].(string); ok && host != "" {
		result.Server.Host = host
	}

	if noBrowser, ok := flags["no-browser"].(bool); ok && noBrowser {
		result.Browser.AutoOpen = false
	}

	if template, ok := flags["template"].(string); ok && template != "" {
		result.Export.TemplatePath = template
	}

	if provider, ok := flags["provider"].(string); ok && provider != "" {
		result.LLM.Provider = provider
	}

	if model, ok := flags["model"].(string); ok && model != "" {
		result.LLM.Model = model
	}

	if noHistory, ok := flags["no-history"].(bool); ok && noHistory {
		result.Storage.Enabled = false
	}

	if verbose, ok := flags["verbose"].(bool); ok && verbose {
		result.Logging.Verbose = true
	}

	return result
}

// ApplyEnvVars applies environment variable overrides to a configuration
func (m *ConfigMerger) ApplyEnvVars(config *entities.Config) *entities.Config {
	result := deepCopy(config)

	if host := os.Getenv("DECKGEN_HOST"); host != "" {
		result.Server.Host = host
	}

	if portStr := os.Getenv("DECKGEN_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			result.Server.Port = port
		}
	}

	if noBrowserStr := os.Getenv("DECKGEN_NO_BROWSER"); noBrowserStr != "" {
		if noBrowser, err := strconv.ParseBool(noBrowserStr); err == nil {
			result.Browser.AutoOpen = !noBrowser
		}
	}

	if browser := os.Getenv("DECKGEN_BROWSER"); browser != "" {
		result.Browser.Browser = browser
	}

	if provider := os.Getenv("DECKGEN_LLM_PROVIDER"); provider != "" {
		result.LLM.Provider = provider
	}

	if baseURL := os.Getenv("DECKGEN_LLM_BASE_URL"); baseURL != "" {
		result.LLM.BaseURL = baseURL
	}

	if model := os.Getenv("DECKGEN_LLM_MODEL"); model != "" {
		result.LLM.Model = model
	}

	if template := os.Getenv("DECKGEN_TEMPLATE"); template != "" {
		result.Export.TemplatePath = template
	}

	if path := os.Getenv("DECKGEN_STORAGE_PATH"); path != "" {
		result.Storage.Path = path
	}

	if level := os.Getenv("DECKGEN_LOG_LEVEL"); level != "" {
		result.Logging.Level = level
	}

	return result
}

// mergeInto merges source configuration into target configuration
func (m *ConfigMerger) mergeInto(target, source *entities.Config) {
	// Server config
	if source.Server.Port != 0 {
		target.Server.Port = source.Server.Port
	}
	if source.Server.Host != "" {
		target.Server.Host = source.Server.Host
	}
	if source.Server.ReadTimeout != 0 {
		target.Server.ReadTimeout = source.Server.ReadTimeout
	}
	if source.Server.WriteTimeout != 0 {
		target.Server.WriteTimeout = source.Server.WriteTimeout
	}
	if source.Server.ShutdownTimeout != 0 {
		target.Server.ShutdownTimeout = source.Server.ShutdownTimeout
	}
	if source.Server.Environment != "" {
		target.Server.Environment = source.Server.Environment
	}
	if len(source.Server.CORSOrigins) > 0 {
		target.Server.CORSOrigins = append([]string(nil), source.Server.CORSOrigins...)
	}

	// LLM config
	if source.LLM.Provider != "" {
		target.LLM.Provider = source.LLM.Provider
	}
	if source.LLM.BaseURL != "" {
		target.LLM.BaseURL = source.LLM.BaseURL
	}
	if source.LLM.Model != "" {
		target.LLM.Model = source.LLM.Model
	}
	if source.LLM.APIKeyEnv != "" {
		target.LLM.APIKeyEnv = source.LLM.APIKeyEnv
	}
	if source.LLM.Timeout != 0 {
		target.LLM.Timeout = source.LLM.Timeout
	}
	if source.LLM.OutlineMaxTokens != 0 {
		target.LLM.OutlineMaxTokens = source.LLM.OutlineMaxTokens
	}
	if source.LLM.ContentMaxTokens != 0 {
		target.LLM.ContentMaxTokens = source.LLM.ContentMaxTokens
	}
	if source.LLM.Temperature != 0 {
		target.LLM.Temperature = source.LLM.Temperature
	}

	// Export config
	if source.Export.TemplatePath != "" {
		target.Export.TemplatePath = source.Export.TemplatePath
	}
	if source.Export.PollIntervalMs != 0 {
		target.Export.PollIntervalMs = source.Export.PollIntervalMs
	}
	// Booleans always merge; the loader fills the ones a file leaves out
	target.Export.WatchTemplate = source.Export.WatchTemplate

	// Storage config
	target.Storage.Enabled = source.Storage.Enabled
	if source.Storage.Path != "" {
		target.Storage.Path = source.Storage.Path
	}

	// Browser config
	if source.Browser.Browser != "" {
		target.Browser.Browser = source.Browser.Browser
	}
	target.Browser.AutoOpen = source.Browser.AutoOpen

	// Logging config
	if source.Logging.Level != "" {
		target.Logging.Level = source.Logging.Level
	}
	target.Logging.Verbose = source.Logging.Verbose
}

// deepCopy creates a deep copy of a configuration
func deepCopy(src *entities.Config) *entities.Config {
	if src == nil {
		return nil
	}

	dst := *src
	if src.Server.CORSOrigins != nil {
		dst.Server.CORSOrigins = make([]string, len(src.Server.CORSOrigins))
		copy(dst.Server.CORSOrigins, src.Server.CORSOrigins)
	}

	return &dst
}

// Ensure ConfigMerger implements ports.ConfigMerger
var _ ports.ConfigMerger = (*ConfigMerger)(nil)
