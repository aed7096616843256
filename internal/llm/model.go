package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go/option"
	"github.com/raphaelgruber/etymon/internal/config"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
	lcopenai "github.com/tmc/langchaingo/llms/openai"
)

// NewGenerator creates the configured model backend, wrapped in a circuit breaker when enabled.
func NewGenerator(ctx context.Context, cfg config.Config, logger *slog.Logger) (Generator, error) {
	gen, err := newProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.BreakerEnabled {
		gen = NewBreakerGenerator(gen, BreakerConfig{
			Name:                string(cfg.Provider),
			ConsecutiveFailures: cfg.BreakerFailures,
			Cooldown:            cfg.BreakerCooldown,
		}, logger)
	}
	return gen, nil
}

func newProvider(ctx context.Context, cfg config.Config) (Generator, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		var opts []option.RequestOption
		if cfg.OpenAIBaseURL != "" {
			opts = append(opts, option.WithBaseURL(cfg.OpenAIBaseURL))
		}
		gen, err := NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.Model, opts...)
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}
		return gen, nil

	case config.ProviderOllama:
		model, err := ollama.New(
			ollama.WithModel(cfg.Model),
			ollama.WithServerURL(cfg.OllamaHost),
			ollama.WithFormat("json"),
		)
		if err != nil {
			return nil, fmt.Errorf("create ollama model: %w", err)
		}
		return NewLangchainGenerator(model, string(cfg.Provider), cfg.Model, true), nil

	case config.ProviderOpenAICompat:
		model, err := lcopenai.New(
			lcopenai.WithToken(cfg.OpenAIAPIKey),
			lcopenai.WithModel(cfg.Model),
			lcopenai.WithBaseURL(cfg.OpenAIBaseURL),
		)
		if err != nil {
			return nil, fmt.Errorf("create openai-compatible model: %w", err)
		}
		return NewLangchainGenerator(model, string(cfg.Provider), cfg.Model, true), nil

	case config.ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("Anthropic API key required")
		}
		model, err := anthropic.New(
			anthropic.WithToken(cfg.AnthropicAPIKey),
			anthropic.WithModel(cfg.Model),
		)
		if err != nil {
			return nil, fmt.Errorf("create anthropic model: %w", err)
		}
		return NewLangchainGenerator(model, string(cfg.Provider), cfg.Model, false), nil

	case config.ProviderBedrock:
		gen, err := NewBedrockGenerator(ctx, cfg.AWSRegion, cfg.Model)
		if err != nil {
			return nil, fmt.Errorf("create bedrock model: %w", err)
		}
		return gen, nil

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
