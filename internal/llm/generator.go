// Package llm provides the generative model boundary and its providers.
package llm

import "context"

// Request is one structured-output call.
type Request struct {
	// System holds standing instructions.
	System string

	// Prompt is the per-query instruction.
	Prompt string

	// SchemaName and Schema shape the output. Providers without native
	// structured output embed the schema in the instructions instead.
	SchemaName        string
	SchemaDescription string
	Schema            map[string]any

	// ReasoningEffort is a hint; empty means provider default.
	ReasoningEffort string

	MaxOutputTokens int
}

// Response is the raw model output plus token usage when the provider reports it.
type Response struct {
	Text         string
	InputTokens  int64
	OutputTokens int64
}

// Generator produces a single response for a request.
// Implementations issue exactly one upstream call per Generate and never retry.
type Generator interface {
	Generate(ctx context.Context, req Request) (Response, error)

	// Model returns the model identifier.
	Model() string
}
