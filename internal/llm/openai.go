package llm

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
)

// OpenAIGenerator calls the OpenAI Responses API with a strict json_schema format.
type OpenAIGenerator struct {
	client    *openai.Client
	modelName string
}

// Compile-time check that OpenAIGenerator implements Generator.
var _ Generator = (*OpenAIGenerator)(nil)

// NewOpenAIGenerator creates a generator for model using apiKey.
// Extra options (base URL, HTTP client) are passed through to the SDK.
func NewOpenAIGenerator(apiKey, model string, opts ...option.RequestOption) (*OpenAIGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("OpenAI API key required")
	}
	if model == "" {
		return nil, errors.New("OpenAI model required")
	}
	client := openai.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	return &OpenAIGenerator{client: &client, modelName: model}, nil
}

// Model returns the model name.
func (g *OpenAIGenerator) Model() string {
	return g.modelName
}

// Generate issues one Responses call. The SDK's own retries are disabled.
func (g *OpenAIGenerator) Generate(ctx context.Context, req Request) (Response, error) {
	resp, err := g.client.Responses.New(ctx, g.params(req), option.WithMaxRetries(0))
	if err != nil {
		return Response{}, requestFailed("openai", err)
	}

	return Response{
		Text:         resp.OutputText(),
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
	}, nil
}

func (g *OpenAIGenerator) params(req Request) responses.ResponseNewParams {
	params := responses.ResponseNewParams{
		Model: g.modelName,
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(req.Prompt, responses.EasyInputMessageRoleUser),
			},
		},
	}

	if req.System != "" {
		params.Instructions = openai.String(req.System)
	}
	if req.MaxOutputTokens > 0 {
		params.MaxOutputTokens = openai.Int(int64(req.MaxOutputTokens))
	}
	if req.ReasoningEffort != "" {
		params.Reasoning = shared.ReasoningParam{Effort: shared.ReasoningEffort(req.ReasoningEffort)}
	}
	if req.Schema != nil {
		format := &responses.ResponseFormatTextJSONSchemaConfigParam{
			Name:   req.SchemaName,
			Schema: req.Schema,
			Strict: openai.Bool(true),
			Type:   "json_schema",
		}
		if req.SchemaDescription != "" {
			format.Description = openai.String(req.SchemaDescription)
		}
		params.Text = responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{OfJSONSchema: format},
		}
	}

	return params
}
