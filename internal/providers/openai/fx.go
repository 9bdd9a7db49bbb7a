package openai

import (
	"github.com/wattlens/wattlens/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("providers.openai",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(cfg config.Config, log *zap.Logger) (Provider, error) {
	if cfg.OpenAIAPIKey == "" {
		log.Warn("OPENAI_API_KEY not set, model provider disabled")
		return NoOpProvider{}, nil
	}

	return NewClient(Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
	}, log)
}
