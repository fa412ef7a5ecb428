package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
)

// GetDefaultConfig returns the default configuration with environment overrides
func GetDefaultConfig() *entities.Config {
	config := &entities.Config{
		Server: entities.ServerConfig{
			Host:            getEnvOrDefault("DECKGEN_HOST", "localhost"),
			Port:            getEnvIntOrDefault("DECKGEN_PORT", 8000),
			ReadTimeout:     getEnvIntOrDefault("DECKGEN_READ_TIMEOUT", 30),
			WriteTimeout:    getEnvIntOrDefault("DECKGEN_WRITE_TIMEOUT", 30),
			ShutdownTimeout: getEnvIntOrDefault("DECKGEN_SHUTDOWN_TIMEOUT", 5),
			Environment:     getEnvOrDefault("DECKGEN_ENV", "development"),
			CORSOrigins: getEnvSliceOrDefault("DECKGEN_CORS_ORIGINS", []string{
				"http://localhost:8000",
				"http://127.0.0.1:8000",
			}),
		},
		LLM: entities.LLMConfig{
			Provider:         getEnvOrDefault("DECKGEN_LLM_PROVIDER", entities.ProviderOpenAI),
			BaseURL:          getEnvOrDefault("DECKGEN_LLM_BASE_URL", "https://api.openai.com/v1"),
			Model:            getEnvOrDefault("DECKGEN_LLM_MODEL", "gpt-3.5-turbo"),
			APIKeyEnv:        "OPENAI_API_KEY",
			Timeout:          getEnvIntOrDefault("DECKGEN_LLM_TIMEOUT", 30),
			OutlineMaxTokens: 1500,
			ContentMaxTokens: 800,
			Temperature:      0.7,
		},
		Export: entities.ExportConfig{
			TemplatePath:   getEnvOrDefault("DECKGEN_TEMPLATE", "template.pptx"),
			WatchTemplate:  true,
			PollIntervalMs: 1000,
		},
		Storage: entities.StorageConfig{
			Enabled: getEnvBoolOrDefault("DECKGEN_HISTORY", true),
			Path:    getEnvOrDefault("DECKGEN_STORAGE_PATH", ""),
		},
		Browser: entities.BrowserConfig{
			AutoOpen: true,
			Browser:  "default",
		},
		Logging: entities.LoggingConfig{
			Level:   getEnvOrDefault("DECKGEN_LOG_LEVEL", "info"),
			Verbose: getEnvBoolOrDefault("DECKGEN_LOG_VERBOSE", false),
		},
	}

	applyEnvironmentOverrides(config)

	return config
}

// getEnvOrDefault returns environment variable value or default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvIntOrDefault returns environment variable as int or default
func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBoolOrDefault returns environment variable as bool or default
func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvSliceOrDefault returns a comma separated environment variable as slice or default
func getEnvSliceOrDefault(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}

func applyEnvironmentOverrides(config *entities.Config) {
	if watch := os.Getenv("DECKGEN_WATCH_TEMPLATE"); watch != "" {
		if boolValue, err := strconv.ParseBool(watch); err == nil {
			config.Export.WatchTemplate = boolValue
		}
	}

	if autoOpen := os.Getenv("DECKGEN_BROWSER_AUTO_OPEN"); autoOpen != "" {
		if boolValue, err := strconv.ParseBool(autoOpen); err == nil {
			config.Browser.AutoOpen = boolValue
		}
	}

	if browser := os.Getenv("DECKGEN_BROWSER"); browser != "" {
		config.Browser.Browser = browser
	}
}
