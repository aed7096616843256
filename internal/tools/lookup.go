package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/raphaelgruber/etymon/internal/models"
)

// LookupInput defines the input schema for the lookup_etymology tool.
type LookupInput struct {
	Word     string `json:"word" jsonschema:"The word to trace"`
	Language string `json:"language,omitempty" jsonschema:"Language of the word, for example English or German"`
}

// NewLookupHandler creates the lookup_etymology handler.
// The result text is the etymology JSON as served by the HTTP API.
func NewLookupHandler(deps *Dependencies) mcp.ToolHandlerFor[LookupInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input LookupInput) (*mcp.CallToolResult, any, error) {
		logger := deps.logger()

		word := strings.TrimSpace(input.Word)
		if word == "" {
			return ErrorResult("word is required", "Pass the word to trace in the word argument"), nil, nil
		}
		language := strings.TrimSpace(input.Language)
		if language == "" {
			language = deps.DefaultLanguage
		}
		if language == "" {
			language = models.Languages[0]
		}

		logger.Debug("lookup_etymology called", "word", word, "language", language)

		data, err := deps.Fetcher.Fetch(ctx, word, language)
		if err != nil {
			logger.Warn("lookup_etymology failed", "word", word, "language", language, "error", err)
			return ErrorResult(fmt.Sprintf("lookup %q (%s) failed: %v", word, language, err), fetchHint(err)), nil, nil
		}
		if data == nil {
			return ErrorResult(fmt.Sprintf("no etymology for %q (%s)", word, language), "Retry the lookup"), nil, nil
		}

		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return nil, nil, fmt.Errorf("encode etymology: %w", err)
		}
		return TextResult(string(out)), nil, nil
	}
}

// ListLanguagesInput defines the (empty) input schema for list_languages.
type ListLanguagesInput struct{}

// NewListLanguagesHandler creates the list_languages handler.
func NewListLanguagesHandler(deps *Dependencies) mcp.ToolHandlerFor[ListLanguagesInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ListLanguagesInput) (*mcp.CallToolResult, any, error) {
		deps.logger().Debug("list_languages called")
		return TextResult(FormatResults(models.Languages)), nil, nil
	}
}
