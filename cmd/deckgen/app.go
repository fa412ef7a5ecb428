package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/fredcamaral/deckgen/internal/adapters/secondary/config"
	"github.com/fredcamaral/deckgen/internal/adapters/secondary/llm"
	"github.com/fredcamaral/deckgen/internal/adapters/secondary/pptx"
	"github.com/fredcamaral/deckgen/internal/adapters/secondary/presets"
	"github.com/fredcamaral/deckgen/internal/adapters/secondary/storage"
	"github.com/fredcamaral/deckgen/internal/domain/entities"
	"github.com/fredcamaral/deckgen/internal/domain/ports"
	"github.com/fredcamaral/deckgen/internal/domain/services"
	"github.com/fredcamaral/deckgen/internal/logging"
)

// configFlags are the flags the config merger understands
var configFlags = []string{"port", "host", "no-browser", "template", "provider", "model", "no-history", "verbose"}

// collectFlags returns the explicitly set config flags of cmd
func collectFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	for _, name := range configFlags {
		f := cmd.Flags().Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		flags[name] = flagValue(cmd.Flags(), f)
	}
	return flags
}

func flagValue(set *pflag.FlagSet, f *pflag.Flag) interface{} {
	switch f.Value.Type() {
	case "int":
		v, _ := set.GetInt(f.Name)
		return v
	case "bool":
		v, _ := set.GetBool(f.Name)
		return v
	default:
		return f.Value.String()
	}
}

// workDir returns the --dir flag as an absolute path
func workDir(cmd *cobra.Command) (string, error) {
	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving working directory: %w", err)
	}
	return abs, nil
}

func newConfigService() *services.ConfigService {
	return services.NewConfigService(config.NewTOMLLoader(), config.NewConfigMerger(), nil)
}

// loadLayeredConfig loads .env, then layers defaults, global and local config,
// environment and flags.
func loadLayeredConfig(cmd *cobra.Command) (*entities.LoadedConfig, string, error) {
	dir, err := workDir(cmd)
	if err != nil {
		return nil, "", err
	}
	if err := config.LoadDotEnv(dir); err != nil {
		return nil, "", err
	}

	loaded, err := newConfigService().Load(cmd.Context(), dir, collectFlags(cmd))
	if err != nil {
		return nil, "", fmt.Errorf("loading configuration: %w", err)
	}
	return loaded, dir, nil
}

func loadConfig(cmd *cobra.Command) (*entities.Config, string, error) {
	loaded, dir, err := loadLayeredConfig(cmd)
	if err != nil {
		return nil, "", err
	}
	return loaded.Config, dir, nil
}

// app holds the services shared by every command that generates decks
type app struct {
	cfg      *entities.Config
	logger   *logging.Logger
	catalog  *presets.Catalog
	exporter *pptx.TemplateExporter
	repo     ports.DeckRepository
	outline  *services.OutlineService
	content  *services.ContentService
	decks    *services.DeckService
	closers  []func() error
}

func newApp(ctx context.Context, cfg *entities.Config, dir string) (*app, error) {
	logger := logging.FromConfig("deckgen", cfg.Logging)

	if err := cfg.LLM.ResolveAPIKey(); err != nil {
		return nil, err
	}
	generator, err := llm.NewTextGenerator(ctx, cfg.LLM, logger.Named("llm"))
	if err != nil {
		return nil, fmt.Errorf("creating text generator: %w", err)
	}
	logger.Debug("text generator: %s", generator.Name())

	catalog, err := presets.NewCatalog()
	if err != nil {
		return nil, fmt.Errorf("loading presets: %w", err)
	}

	a := &app{cfg: cfg, logger: logger, catalog: catalog}

	templatePath := resolvePath(dir, cfg.Export.GetTemplatePath())
	a.exporter = pptx.NewTemplateExporter(ports.NewRealFileSystem(), templatePath, logger.Named("pptx"))

	if cfg.Storage.Enabled {
		repo, err := storage.NewSQLiteRepository(resolvePath(dir, cfg.Storage.GetPath()))
		if err != nil {
			logger.Warn("deck history unavailable, keeping it in memory: %v", err)
			a.repo = storage.NewMemoryRepository()
		} else {
			a.repo = repo
			a.closers = append(a.closers, repo.Close)
		}
	}

	a.outline = services.NewOutlineService(generator, catalog, cfg.LLM, logger.Named("outline"))
	a.content = services.NewContentService(generator, catalog, cfg.LLM, logger.Named("content"))
	a.decks = services.NewDeckService(a.exporter, a.repo, nil, logger.Named("deck"))
	return a, nil
}

// Close releases the history database
func (a *app) Close() error {
	var errs []error
	for _, closeFn := range a.closers {
		errs = append(errs, closeFn())
	}
	return errors.Join(errs...)
}

func resolvePath(dir, path string) string {
	if path == "" || path == ":memory:" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
