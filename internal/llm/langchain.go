package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tmc/langchaingo/llms"
)

// LangchainGenerator adapts a langchaingo model. The schema travels in the system
// prompt and JSON mode is requested where the backend supports it.
type LangchainGenerator struct {
	llm       llms.Model
	provider  string
	modelName string
	jsonMode  bool
}

// Compile-time check that LangchainGenerator implements Generator.
var _ Generator = (*LangchainGenerator)(nil)

// NewLangchainGenerator wraps an existing langchaingo model.
func NewLangchainGenerator(model llms.Model, provider, modelName string, jsonMode bool) *LangchainGenerator {
	return &LangchainGenerator{
		llm:       model,
		provider:  provider,
		modelName: modelName,
		jsonMode:  jsonMode,
	}
}

// Model returns the model name.
func (g *LangchainGenerator) Model() string {
	return g.modelName
}

// Generate sends one chat completion.
func (g *LangchainGenerator) Generate(ctx context.Context, req Request) (Response, error) {
	system, err := instructionsWithSchema(req)
	if err != nil {
		return Response{}, err
	}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, req.Prompt),
	}

	var opts []llms.CallOption
	if g.jsonMode {
		opts = append(opts, llms.WithJSONMode())
	}
	if req.MaxOutputTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxOutputTokens))
	}

	start := time.Now()
	resp, err := g.llm.GenerateContent(ctx, messages, opts...)
	duration := time.Since(start)
	if err != nil {
		slog.Debug("generate failed", "provider", g.provider, "model", g.modelName, "duration_ms", duration.Milliseconds(), "error", err)
		return Response{}, requestFailed(g.provider, err)
	}

	if len(resp.Choices) == 0 {
		return Response{}, fmt.Errorf("%s: no response choices: %w", g.provider, ErrEmptyResponse)
	}

	choice := resp.Choices[0]
	in, out := tokenUsage(choice.GenerationInfo)
	return Response{
		Text:         choice.Content,
		InputTokens:  in,
		OutputTokens: out,
	}, nil
}

// tokenUsage reads token counts from langchaingo generation info.
// Key names differ between backends.
func tokenUsage(info map[string]any) (int64, int64) {
	in := firstInt(info, "PromptTokens", "InputTokens", "input_tokens")
	out := firstInt(info, "CompletionTokens", "OutputTokens", "output_tokens")
	return in, out
}

func firstInt(info map[string]any, keys ...string) int64 {
	for _, k := range keys {
		switch v := info[k].(type) {
		case int:
			return int64(v)
		case int32:
			return int64(v)
		case int64:
			return v
		case float64:
			return int64(v)
		}
	}
	return 0
}
