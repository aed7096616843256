package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

// ConverseAPI is the subset of the Bedrock runtime client used here.
type ConverseAPI interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// BedrockGenerator calls the Bedrock Converse API. The schema is embedded in the system prompt.
type BedrockGenerator struct {
	client    ConverseAPI
	modelName string
}

// Compile-time check that BedrockGenerator implements Generator.
var _ Generator = (*BedrockGenerator)(nil)

// NewBedrockGenerator loads the default AWS credential chain for region.
func NewBedrockGenerator(ctx context.Context, region, model string) (*BedrockGenerator, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewBedrockGeneratorWithClient(bedrockruntime.NewFromConfig(cfg), model), nil
}

// NewBedrockGeneratorWithClient wraps an existing Converse client.
func NewBedrockGeneratorWithClient(client ConverseAPI, model string) *BedrockGenerator {
	return &BedrockGenerator{client: client, modelName: model}
}

// Model returns the Bedrock model id.
func (g *BedrockGenerator) Model() string {
	return g.modelName
}

// Generate issues one Converse call.
func (g *BedrockGenerator) Generate(ctx context.Context, req Request) (Response, error) {
	system, err := instructionsWithSchema(req)
	if err != nil {
		return Response{}, err
	}

	input := &bedrockruntime.ConverseInput{
		ModelId: aws.String(g.modelName),
		Messages: []types.Message{{
			Role:    types.ConversationRoleUser,
			Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: req.Prompt}},
		}},
	}
	if system != "" {
		input.System = []types.SystemContentBlock{&types.SystemContentBlockMemberText{Value: system}}
	}
	if req.MaxOutputTokens > 0 {
		input.InferenceConfig = &types.InferenceConfiguration{MaxTokens: aws.Int32(int32(req.MaxOutputTokens))}
	}

	out, err := g.client.Converse(ctx, input)
	if err != nil {
		return Response{}, requestFailed("bedrock", err)
	}

	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return Response{}, fmt.Errorf("bedrock: unexpected output %T: %w", out.Output, ErrEmptyResponse)
	}

	var sb strings.Builder
	for _, block := range msg.Value.Content {
		if text, ok := block.(*types.ContentBlockMemberText); ok {
			sb.WriteString(text.Value)
		}
	}

	resp := Response{Text: sb.String()}
	if out.Usage != nil {
		resp.InputTokens = int64(aws.ToInt32(out.Usage.InputTokens))
		resp.OutputTokens = int64(aws.ToInt32(out.Usage.OutputTokens))
	}
	return resp, nil
}
