package llm

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/genai"

	"github.com/devtrail/devtrail/internal/contract"
	"github.com/devtrail/devtrail/schema"
)

const defaultGeminiModel = "gemini-2.0-flash"

// geminiModel adapts Google's Generative AI SDK to the Model contract.
type geminiModel struct {
	client *genai.Client
	model  string
}

var _ contract.Model = &geminiModel{}

func newGeminiModel(ctx context.Context, modelName string) (contract.Model, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}
	if modelName == "" {
		modelName = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &geminiModel{client: client, model: modelName}, nil
}

// Name implements the Model interface.
func (m *geminiModel) Name() schema.LLMProvider {
	return schema.GeminiProvider
}

// Generate implements the Model interface.
func (m *geminiModel) Generate(ctx context.Context, prompt string, opts contract.GenerateOptions) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature: &opts.Temperature,
	}
	if opts.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(opts.MaxTokens)
	}

	resp, err := m.client.Models.GenerateContent(ctx, m.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini completion failed: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no content parts")
	}
	return candidate.Content.Parts[0].Text, nil
}

// EstimateTokens implements the Model interface. Token counts come from the
// cl100k encoder; close enough for budget checks against Gemini models too.
func (m *geminiModel) EstimateTokens(text string) int {
	return estimateTokens("", text)
}
