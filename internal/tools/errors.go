package tools

import (
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/raphaelgruber/etymon/internal/llm"
)

// ErrorResult creates a tool error result with optional recovery hint.
// If hint is non-empty, formats as "{msg}. {hint}".
func ErrorResult(msg, hint string) *mcp.CallToolResult {
	text := msg
	if hint != "" {
		text = msg + ". " + hint
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
		IsError: true,
	}
}

// TextResult creates a success result with text content.
func TextResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

// FormatResults joins items with newlines for list output.
func FormatResults(items []string) string {
	return strings.Join(items, "\n")
}

// fetchHint suggests what the calling agent can do about a failed lookup.
func fetchHint(err error) string {
	switch {
	case errors.Is(err, llm.ErrFatalAPI):
		return "The model backend rejected the request; retrying will not help"
	case errors.Is(err, llm.ErrCircuitOpen):
		return "The model backend is failing; wait before retrying"
	case errors.Is(err, llm.ErrEmptyResponse), errors.Is(err, llm.ErrMalformedJSON):
		return "The model answer was unusable; retrying may succeed"
	default:
		return "Retry the lookup"
	}
}
