// Package llm provides the text-generation backends and the LLM-backed
// technology detector. The provider set is closed: backends are resolved
// through a static registry keyed by schema.LLMProvider.
package llm

import (
	"context"
	"fmt"

	"github.com/devtrail/devtrail/internal/contract"
	"github.com/devtrail/devtrail/schema"
)

// modelFactory builds one provider's Model. An empty modelName selects the
// provider default.
type modelFactory func(ctx context.Context, modelName string) (contract.Model, error)

var modelFactories = map[schema.LLMProvider]modelFactory{
	schema.OpenAIProvider: newOpenAIModel,
	schema.GeminiProvider: newGeminiModel,
}

// NewModel resolves a provider name to a ready Model. Unknown providers fail
// rather than fall back, so a typo never silently picks a different backend.
func NewModel(ctx context.Context, provider schema.LLMProvider, modelName string) (contract.Model, error) {
	factory, ok := modelFactories[provider]
	if !ok {
		return nil, fmt.Errorf("unsupported llm provider: %s", provider)
	}
	return factory(ctx, modelName)
}
