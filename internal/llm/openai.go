package llm

import (
	"context"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"github.com/devtrail/devtrail/internal/contract"
	"github.com/devtrail/devtrail/schema"
)

const defaultOpenAIModel = "gpt-4o-mini"

// openaiModel adapts the OpenAI chat completion API to the Model contract.
type openaiModel struct {
	client *openai.Client
	model  string
}

var _ contract.Model = &openaiModel{}

func newOpenAIModel(_ context.Context, modelName string) (contract.Model, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}
	if modelName == "" {
		modelName = defaultOpenAIModel
	}
	return &openaiModel{
		client: openai.NewClient(apiKey),
		model:  modelName,
	}, nil
}

// Name implements the Model interface.
func (m *openaiModel) Name() schema.LLMProvider {
	return schema.OpenAIProvider
}

// Generate implements the Model interface.
func (m *openaiModel) Generate(ctx context.Context, prompt string, opts contract.GenerateOptions) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: m.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}

	resp, err := m.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// EstimateTokens implements the Model interface.
func (m *openaiModel) EstimateTokens(text string) int {
	return estimateTokens(m.model, text)
}
