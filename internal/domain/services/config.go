package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
	"github.com/fredcamaral/deckgen/internal/domain/ports"
)

// Config layer names reported in LoadedConfig.Sources
const (
	SourceDefaults    = "defaults"
	SourceEnvironment = "environment"
	SourceFlags       = "flags"
)

// ConfigService layers defaults, config files, environment and flags
type ConfigService struct {
	loader ports.ConfigLoader
	merger ports.ConfigMerger
	fs     ports.FileSystem
}

// NewConfigService creates a new configuration service. fs may be nil.
func NewConfigService(loader ports.ConfigLoader, merger ports.ConfigMerger, fs ports.FileSystem) *ConfigService {
	if fs == nil {
		fs = ports.NewRealFileSystem()
	}
	return &ConfigService{
		loader: loader,
		merger: merger,
		fs:     fs,
	}
}

// LoadConfig returns the merged, validated configuration for workingDir
func (s *ConfigService) LoadConfig(ctx context.Context, workingDir string, flags map[string]interface{}) (*entities.Config, error) {
	loaded, err := s.Load(ctx, workingDir, flags)
	if err != nil {
		return nil, err
	}
	return loaded.Config, nil
}

// Load merges defaults -> global file -> local file -> environment -> flags
// and validates the result. The global file is created on first use.
func (s *ConfigService) Load(ctx context.Context, workingDir string, flags map[string]interface{}) (*entities.LoadedConfig, error) {
	globalConfig, err := s.loader.LoadGlobal(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading global config: %w", err)
	}

	localConfig, err := s.loader.LoadLocal(ctx, workingDir)
	if err != nil {
		return nil, fmt.Errorf("loading local config: %w", err)
	}

	// Merge with no arguments yields the defaults
	configs := []*entities.Config{s.merger.Merge()}
	sources := []string{SourceDefaults}
	if globalConfig != nil {
		configs = append(configs, globalConfig)
		sources = append(sources, s.loader.GetGlobalPath())
	}
	if localConfig != nil {
		configs = append(configs, localConfig)
		sources = append(sources, s.loader.GetLocalPath(workingDir))
	}

	config := s.merger.Merge(configs...)
	config = s.merger.ApplyEnvVars(config)
	sources = append(sources, SourceEnvironment)
	if len(flags) > 0 {
		config = s.merger.ApplyFlags(config, flags)
		sources = append(sources, SourceFlags)
	}

	if config == nil {
		return nil, errors.New("config cannot be nil")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &entities.LoadedConfig{Config: config, Sources: sources}, nil
}

// ConfigPath returns the global config path, or deckgen.toml in workingDir
func (s *ConfigService) ConfigPath(local bool, workingDir string) string {
	if local {
		return s.loader.GetLocalPath(workingDir)
	}
	return s.loader.GetGlobalPath()
}

// InitConfig writes the defaults to path. An existing file is kept
// unless force is set.
func (s *ConfigService) InitConfig(ctx context.Context, path string, force bool) error {
	if !force && s.fs.Exists(path) {
		return fmt.Errorf("%w: %s", entities.ErrConfigExists, path)
	}
	if err := s.loader.CreateDefaults(ctx, path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

var _ ports.ConfigService = (*ConfigService)(nil)
