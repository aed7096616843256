package llm

import (
	"context"
	"testing"

	"github.com/raphaelgruber/etymon/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGenerator(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		want    any
		wantErr bool
	}{
		{
			name: "openai",
			cfg:  config.Config{Provider: config.ProviderOpenAI, Model: "gpt-5-mini", OpenAIAPIKey: "sk-test"},
			want: &OpenAIGenerator{},
		},
		{
			name:    "openai without key",
			cfg:     config.Config{Provider: config.ProviderOpenAI, Model: "gpt-5-mini"},
			wantErr: true,
		},
		{
			name: "ollama",
			cfg:  config.Config{Provider: config.ProviderOllama, Model: "llama3.1", OllamaHost: "http://localhost:11434"},
			want: &LangchainGenerator{},
		},
		{
			name: "anthropic",
			cfg:  config.Config{Provider: config.ProviderAnthropic, Model: "claude", AnthropicAPIKey: "key"},
			want: &LangchainGenerator{},
		},
		{
			name:    "anthropic without key",
			cfg:     config.Config{Provider: config.ProviderAnthropic, Model: "claude"},
			wantErr: true,
		},
		{
			name: "breaker wraps provider",
			cfg: config.Config{
				Provider: config.ProviderOpenAI, Model: "gpt-5-mini", OpenAIAPIKey: "sk-test",
				BreakerEnabled: true, BreakerFailures: 2,
			},
			want: &BreakerGenerator{},
		},
		{
			name:    "unknown provider",
			cfg:     config.Config{Provider: "gemini"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen, err := NewGenerator(context.Background(), tt.cfg, nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, gen)
			assert.Equal(t, tt.cfg.Model, gen.Model())
		})
	}
}
