package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// fakeModel records the last call and returns a canned response.
type fakeModel struct {
	resp     *llms.ContentResponse
	err      error
	calls    int
	messages []llms.MessageContent
	opts     llms.CallOptions
}

func (f *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.calls++
	f.messages = messages
	f.opts = llms.CallOptions{}
	for _, o := range options {
		o(&f.opts)
	}
	return f.resp, f.err
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

func textOf(t *testing.T, m llms.MessageContent) string {
	t.Helper()
	require.Len(t, m.Parts, 1)
	part, ok := m.Parts[0].(llms.TextContent)
	require.True(t, ok)
	return part.Text
}

func TestLangchainGenerate(t *testing.T) {
	fake := &fakeModel{resp: &llms.ContentResponse{Choices: []*llms.ContentChoice{{
		Content:        `{"word":"etymon"}`,
		GenerationInfo: map[string]any{"PromptTokens": 120, "CompletionTokens": 45},
	}}}}
	g := NewLangchainGenerator(fake, "ollama", "llama3.1", true)

	resp, err := g.Generate(context.Background(), Request{
		System:          "sys",
		Prompt:          "tell me about etymon",
		Schema:          map[string]any{"type": "object"},
		MaxOutputTokens: 1024,
	})
	require.NoError(t, err)

	assert.Equal(t, `{"word":"etymon"}`, resp.Text)
	assert.Equal(t, int64(120), resp.InputTokens)
	assert.Equal(t, int64(45), resp.OutputTokens)
	assert.Equal(t, 1, fake.calls)

	require.Len(t, fake.messages, 2)
	assert.Equal(t, llms.ChatMessageTypeSystem, fake.messages[0].Role)
	assert.Contains(t, textOf(t, fake.messages[0]), `{"type":"object"}`)
	assert.Equal(t, "tell me about etymon", textOf(t, fake.messages[1]))
	assert.True(t, fake.opts.JSONMode)
	assert.Equal(t, 1024, fake.opts.MaxTokens)
	assert.Equal(t, "llama3.1", g.Model())
}

func TestLangchainGenerateNoJSONMode(t *testing.T) {
	fake := &fakeModel{resp: &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: "{}"}}}}
	g := NewLangchainGenerator(fake, "anthropic", "claude", false)

	_, err := g.Generate(context.Background(), Request{Prompt: "p"})
	require.NoError(t, err)
	assert.False(t, fake.opts.JSONMode)
}

func TestLangchainGenerateErrors(t *testing.T) {
	t.Run("provider error", func(t *testing.T) {
		g := NewLangchainGenerator(&fakeModel{err: errors.New("dial tcp: connection refused")}, "ollama", "m", true)
		_, err := g.Generate(context.Background(), Request{Prompt: "p"})
		assert.ErrorIs(t, err, ErrRequestFailed)
	})

	t.Run("no choices", func(t *testing.T) {
		g := NewLangchainGenerator(&fakeModel{resp: &llms.ContentResponse{}}, "ollama", "m", true)
		_, err := g.Generate(context.Background(), Request{Prompt: "p"})
		assert.ErrorIs(t, err, ErrEmptyResponse)
	})
}

func TestTokenUsage(t *testing.T) {
	in, out := tokenUsage(map[string]any{"InputTokens": int64(7), "OutputTokens": float64(9)})
	assert.Equal(t, int64(7), in)
	assert.Equal(t, int64(9), out)

	in, out = tokenUsage(nil)
	assert.Zero(t, in)
	assert.Zero(t, out)
}
