package entities

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LLM provider names accepted in [llm].provider
const (
	ProviderOpenAI = "openai"
	ProviderEino   = "eino"
	ProviderMock   = "mock"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig  `toml:"server"`
	LLM     LLMConfig     `toml:"llm"`
	Export  ExportConfig  `toml:"export"`
	Storage StorageConfig `toml:"storage"`
	Browser BrowserConfig `toml:"browser"`
	Logging LoggingConfig `toml:"logging"`
}

// LoadedConfig is a merged configuration and the layers it came from,
// lowest precedence first
type LoadedConfig struct {
	Config  *Config
	Sources []string
}

// Validate validates the entire configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("llm config: %w", err)
	}

	if err := c.Export.Validate(); err != nil {
		return fmt.Errorf("export config: %w", err)
	}

	if err := c.Storage.Validate(); err != nil {
		return fmt.Errorf("storage config: %w", err)
	}

	if err := c.Browser.Validate(); err != nil {
		return fmt.Errorf("browser config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string   `toml:"host"`
	Port            int      `toml:"port"`
	ReadTimeout     int      `toml:"read_timeout"`
	WriteTimeout    int      `toml:"write_timeout"`
	ShutdownTimeout int      `toml:"shutdown_timeout"`
	Environment     string   `toml:"environment"`
	CORSOrigins     []string `toml:"cors_origins"`
}

// Validate validates server configuration
func (s ServerConfig) Validate() error {
	if s.Port < 0 || s.Port > 65535 {
		return errors.New("port must be between 0 and 65535")
	}

	if s.Host != "" {
		if ip := net.ParseIP(s.Host); ip == nil {
			if _, err := net.LookupHost(s.Host); err != nil {
				return fmt.Errorf("invalid host: %w", err)
			}
		}
	}

	if s.ReadTimeout < 0 {
		return errors.New("read timeout must be non-negative")
	}

	if s.WriteTimeout < 0 {
		return errors.New("write timeout must be non-negative")
	}

	if s.ShutdownTimeout < 0 {
		return errors.New("shutdown timeout must be non-negative")
	}

	for _, origin := range s.CORSOrigins {
		if origin == "" {
			return errors.New("CORS origin cannot be empty")
		}
		if origin == "*" {
			continue
		}
		if len(origin) < 7 || (!strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://")) {
			return fmt.Errorf("invalid CORS origin format: %s (must start with http:// or https://)", origin)
		}
	}

	return nil
}

// GetReadTimeout returns the read timeout as a duration
func (s ServerConfig) GetReadTimeout() time.Duration {
	if s.ReadTimeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.ReadTimeout) * time.Second
}

// GetWriteTimeout returns the write timeout as a duration.
// Slide generation runs in the background, so requests never wait on the model.
func (s ServerConfig) GetWriteTimeout() time.Duration {
	if s.WriteTimeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.WriteTimeout) * time.Second
}

// GetShutdownTimeout returns the shutdown timeout as a duration
func (s ServerConfig) GetShutdownTimeout() time.Duration {
	if s.ShutdownTimeout <= 0 {
		return 5 * time.Second
	}
	return time.Duration(s.ShutdownTimeout) * time.Second
}

// GetCORSOrigins returns CORS origins with defaults if empty
func (s ServerConfig) GetCORSOrigins() []string {
	if len(s.CORSOrigins) == 0 {
		return []string{
			"http://localhost:8000",
			"http://127.0.0.1:8000",
		}
	}
	return s.CORSOrigins
}

// IsDevelopment returns true if the server is running in development mode
func (s ServerConfig) IsDevelopment() bool {
	return s.Environment == "development" || s.Environment == ""
}

// LLMConfig configures the text-generation backend
type LLMConfig struct {
	Provider         string  `toml:"provider"`
	BaseURL          string  `toml:"base_url"`
	Model            string  `toml:"model"`
	APIKeyEnv        string  `toml:"api_key_env"`
	Timeout          int     `toml:"timeout"`
	OutlineMaxTokens int     `toml:"outline_max_tokens"`
	ContentMaxTokens int     `toml:"content_max_tokens"`
	Temperature      float64 `toml:"temperature"`

	// APIKey is resolved from APIKeyEnv at startup and never persisted
	APIKey string `toml:"-"`
}

// Validate validates LLM configuration
func (l LLMConfig) Validate() error {
	switch l.GetProvider() {
	case ProviderOpenAI, ProviderEino, ProviderMock:
	default:
		return fmt.Errorf("unknown provider: %s (must be openai, eino, or mock)", l.Provider)
	}

	if l.BaseURL != "" {
		u, err := url.Parse(l.BaseURL)
		if err != nil {
			return fmt.Errorf("invalid base URL: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("base URL must start with http:// or https://: %s", l.BaseURL)
		}
	}

	if l.Timeout < 0 {
		return errors.New("timeout must be non-negative")
	}

	if l.OutlineMaxTokens < 0 || l.ContentMaxTokens < 0 {
		return errors.New("max tokens must be non-negative")
	}

	if l.Temperature < 0 || l.Temperature > 2 {
		return errors.New("temperature must be between 0 and 2")
	}

	return nil
}

// GetProvider returns the provider name with default
func (l LLMConfig) GetProvider() string {
	if l.Provider == "" {
		return ProviderOpenAI
	}
	return strings.ToLower(l.Provider)
}

// GetBaseURL returns the API base URL without a trailing slash
func (l LLMConfig) GetBaseURL() string {
	if l.BaseURL == "" {
		return "https://api.openai.com/v1"
	}
	return strings.TrimRight(l.BaseURL, "/")
}

// GetModel returns the chat model name with default
func (l LLMConfig) GetModel() string {
	if l.Model == "" {
		return "gpt-3.5-turbo"
	}
	return l.Model
}

// GetAPIKeyEnv returns the environment variable holding the API key
func (l LLMConfig) GetAPIKeyEnv() string {
	if l.APIKeyEnv == "" {
		return "OPENAI_API_KEY"
	}
	return l.APIKeyEnv
}

// GetTimeout returns the request timeout as a duration
func (l LLMConfig) GetTimeout() time.Duration {
	if l.Timeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(l.Timeout) * time.Second
}

// GetOutlineMaxTokens returns the token budget for outline requests
func (l LLMConfig) GetOutlineMaxTokens() int {
	if l.OutlineMaxTokens <= 0 {
		return 1500
	}
	return l.OutlineMaxTokens
}

// GetContentMaxTokens returns the token budget for per-slide content requests
func (l LLMConfig) GetContentMaxTokens() int {
	if l.ContentMaxTokens <= 0 {
		return 800
	}
	return l.ContentMaxTokens
}

// GetTemperature returns the sampling temperature with default
func (l LLMConfig) GetTemperature() float32 {
	if l.Temperature <= 0 {
		return 0.7
	}
	return float32(l.Temperature)
}

// RequiresAPIKey reports whether the provider talks to a live service
func (l LLMConfig) RequiresAPIKey() bool {
	return l.GetProvider() != ProviderMock
}

// ResolveAPIKey reads the API key from the environment.
// Live providers fail fast when it is missing.
func (l *LLMConfig) ResolveAPIKey() error {
	l.APIKey = os.Getenv(l.GetAPIKeyEnv())
	if l.APIKey == "" && l.RequiresAPIKey() {
		return fmt.Errorf("%w: %s is not set", ErrMissingAPIKey, l.GetAPIKeyEnv())
	}
	return nil
}

// ExportConfig contains deck export configuration
type ExportConfig struct {
	TemplatePath   string `toml:"template_path"`
	WatchTemplate  bool   `toml:"watch_template"`
	PollIntervalMs int    `toml:"poll_interval_ms"`
}

// Validate validates export configuration
func (e ExportConfig) Validate() error {
	if e.PollIntervalMs != 0 && e.PollIntervalMs < 50 {
		return errors.New("template poll interval must be at least 50ms")
	}
	return nil
}

// GetTemplatePath returns the template path with default
func (e ExportConfig) GetTemplatePath() string {
	if e.TemplatePath == "" {
		return "template.pptx"
	}
	return e.TemplatePath
}

// GetPollInterval returns the template poll interval as a duration
func (e ExportConfig) GetPollInterval() time.Duration {
	if e.PollIntervalMs <= 0 {
		return time.Second
	}
	return time.Duration(e.PollIntervalMs) * time.Millisecond
}

// StorageConfig configures the deck history database
type StorageConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Validate validates storage configuration
func (s StorageConfig) Validate() error {
	if s.Enabled && strings.TrimSpace(s.GetPath()) == "" {
		return errors.New("storage path cannot be empty when storage is enabled")
	}
	return nil
}

// GetPath returns the database path, defaulting to the user config directory
func (s StorageConfig) GetPath() string {
	if s.Path != "" {
		return s.Path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "deckgen.db"
	}
	return filepath.Join(homeDir, ".config", "deckgen", "history.db")
}

// BrowserConfig contains browser launch configuration
type BrowserConfig struct {
	AutoOpen bool   `toml:"auto_open"`
	Browser  string `toml:"browser"`
}

// Validate validates browser configuration
func (b BrowserConfig) Validate() error {
	return nil
}

// LogLevel represents logging level
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level   string `toml:"level"`   // debug, info, warn, error
	Verbose bool   `toml:"verbose"` // Enable verbose logging
}

// Validate validates logging configuration
func (l LoggingConfig) Validate() error {
	switch LogLevel(l.Level) {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	case "":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", l.Level)
	}
	return nil
}

// GetLevel returns the log level with default
func (l LoggingConfig) GetLevel() LogLevel {
	if l.Level == "" {
		return LogLevelInfo
	}
	return LogLevel(l.Level)
}
