// Package llmutils is the llm utility package
package llmutils

import (
	"fmt"
	"os"

	"github.com/marqlabs/marq/pkg/llm"
	"github.com/marqlabs/marq/pkg/llm/anthropic"
	"github.com/marqlabs/marq/pkg/llm/ollama"
	"github.com/marqlabs/marq/pkg/llm/openai"
)

type NewGeneratorOpts struct {
	ProviderType string
	TargetURL    string
	Model        string

	// APIKey overrides environment resolution when set.
	APIKey string
}

func NewGenerator(o *NewGeneratorOpts) (llm.Generator, error) {
	switch o.ProviderType {
	case "anthropic":
		apiKey := o.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		return anthropic.NewGenerator(anthropic.Config{
			BaseURL: o.TargetURL,
			Model:   o.Model,
			APIKey:  apiKey,
		})
	case "openai":
		apiKey := o.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("OPENAI_API_KEY")
		}
		return openai.NewGenerator(openai.Config{
			BaseURL: o.TargetURL,
			Model:   o.Model,
			APIKey:  apiKey,
		})
	case "ollama":
		return ollama.NewGenerator(ollama.Config{
			BaseURL: o.TargetURL,
			Model:   o.Model,
		})
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", o.ProviderType)
	}
}
