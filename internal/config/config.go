package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Provider identifies the generative model backend.
type Provider string

const (
	// ProviderOpenAI uses the OpenAI Responses API with strict structured output.
	ProviderOpenAI Provider = "openai"

	// ProviderAnthropic uses Anthropic through langchaingo.
	ProviderAnthropic Provider = "anthropic"

	// ProviderOllama uses a local Ollama server through langchaingo.
	ProviderOllama Provider = "ollama"

	// ProviderOpenAICompat uses any OpenAI-compatible chat endpoint through langchaingo.
	ProviderOpenAICompat Provider = "openai-compat"

	// ProviderBedrock uses the AWS Bedrock Converse API.
	ProviderBedrock Provider = "bedrock"
)

// Config holds all configuration values.
type Config struct {
	// Model backend
	Provider        Provider `validate:"required,oneof=openai anthropic ollama openai-compat bedrock"`
	Model           string   `validate:"required"`
	OpenAIAPIKey    string   `validate:"required_if=Provider openai"`
	OpenAIBaseURL   string   `validate:"required_if=Provider openai-compat,omitempty,url"`
	AnthropicAPIKey string   `validate:"required_if=Provider anthropic"`
	OllamaHost      string   `validate:"required_if=Provider ollama,omitempty,url"`
	AWSRegion       string   `validate:"required_if=Provider bedrock"`

	// Empty disables the hint; "minimal" asks for no extended reasoning.
	ReasoningEffort string `validate:"omitempty,oneof=minimal low medium high"`
	MaxOutputTokens int    `validate:"gte=256"`

	// Circuit breaker around the model backend
	BreakerEnabled  bool
	BreakerFailures uint32 `validate:"gte=1"`
	BreakerCooldown time.Duration

	// Logging
	LogFile  string
	LogLevel slog.Level

	// Explorer startup query
	DefaultWord     string `validate:"required"`
	DefaultLanguage string `validate:"required"`

	// HTTP API
	ServerPort string `validate:"required,numeric"`
	ServerURL  string `validate:"omitempty,url"`
}

// Load reads configuration from environment variables.
func Load() Config {
	provider := Provider(strings.ToLower(getEnv("ETYMON_PROVIDER", string(ProviderOpenAI))))

	return Config{
		Provider:        provider,
		Model:           getEnv("ETYMON_MODEL", DefaultModel(provider)),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:   os.Getenv("OPENAI_BASE_URL"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		OllamaHost:      getEnv("OLLAMA_HOST", "http://localhost:11434"),
		AWSRegion:       getEnv("AWS_REGION", "us-east-1"),

		ReasoningEffort: getEnv("ETYMON_REASONING_EFFORT", "minimal"),
		MaxOutputTokens: getEnvInt("ETYMON_MAX_OUTPUT_TOKENS", 8192),

		BreakerEnabled:  getEnv("ETYMON_BREAKER", "false") == "true",
		BreakerFailures: uint32(getEnvInt("ETYMON_BREAKER_FAILURES", 3)),
		BreakerCooldown: getEnvDuration("ETYMON_BREAKER_COOLDOWN", 30*time.Second),

		LogFile:  getEnv("ETYMON_LOG_FILE", "/tmp/etymon.log"),
		LogLevel: parseLogLevel(getEnv("ETYMON_LOG_LEVEL", "INFO")),

		DefaultWord:     getEnv("ETYMON_DEFAULT_WORD", "etymon"),
		DefaultLanguage: getEnv("ETYMON_DEFAULT_LANGUAGE", "English"),

		ServerPort: getEnv("ETYMON_SERVER_PORT", "8484"),
		ServerURL:  os.Getenv("ETYMON_SERVER_URL"),
	}
}

// DefaultModel returns the model used when ETYMON_MODEL is unset.
func DefaultModel(p Provider) string {
	switch p {
	case ProviderOpenAI, ProviderOpenAICompat:
		return "gpt-5-mini"
	case ProviderAnthropic:
		return "claude-3-5-haiku-latest"
	case ProviderOllama:
		return "llama3.1"
	case ProviderBedrock:
		return "anthropic.claude-3-5-haiku-20241022-v1:0"
	}
	return ""
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration for missing or inconsistent values.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ValidateClient checks only what a remote client needs.
func (c Config) ValidateClient() error {
	if err := validate.Var(c.ServerURL, "required,url"); err != nil {
		return fmt.Errorf("invalid server url %q: %w", c.ServerURL, err)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
