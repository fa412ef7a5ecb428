package llm

import (
	"context"
	"fmt"

	"github.com/fredcamaral/deckgen/internal/domain/entities"
	"github.com/fredcamaral/deckgen/internal/domain/ports"
	"github.com/fredcamaral/deckgen/internal/logging"
)

// NewTextGenerator picks the generator named by cfg.Provider.
// Live providers require cfg.APIKey to be resolved already.
func NewTextGenerator(ctx context.Context, cfg entities.LLMConfig, logger *logging.Logger) (ports.TextGenerator, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	if cfg.RequiresAPIKey() && cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: %s is not set", entities.ErrMissingAPIKey, cfg.GetAPIKeyEnv())
	}

	switch cfg.GetProvider() {
	case entities.ProviderOpenAI:
		logger.Debug("using chat completions at %s with model %s", cfg.GetBaseURL(), cfg.GetModel())
		return NewOpenAIGenerator(cfg, nil), nil
	case entities.ProviderEino:
		logger.Debug("using eino chat model %s", cfg.GetModel())
		return NewEinoGenerator(ctx, cfg)
	case entities.ProviderMock:
		logger.Warn("using offline mock generator, slides will contain placeholder text")
		return NewMockGenerator(0), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}
