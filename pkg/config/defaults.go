package config

const (
	defaultVectorProvider = "sqlite"
	defaultVectorPath     = "./marq.db"

	// Reference embedding configuration. The 1536-dimension
	// text-embedding-3-small model is what the store schema is sized for.
	defaultEmbeddingProvider   = "openai"
	defaultEmbeddingTarget     = "https://api.openai.com"
	defaultEmbeddingModel      = "text-embedding-3-small"
	defaultEmbeddingDimensions = 1536

	defaultLLMProvider = "anthropic"
	defaultLLMTarget   = "https://api.anthropic.com"
	defaultLLMModel    = "claude-haiku-4-5-20251001"

	defaultTopK = 5
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		VectorStore: VectorStoreConfig{
			Provider: defaultVectorProvider,
			Path:     defaultVectorPath,
		},
		Embedding: EmbeddingConfig{
			Provider:   defaultEmbeddingProvider,
			Target:     defaultEmbeddingTarget,
			Model:      defaultEmbeddingModel,
			Dimensions: defaultEmbeddingDimensions,
		},
		LLM: LLMConfig{
			Provider: defaultLLMProvider,
			Target:   defaultLLMTarget,
			Model:    defaultLLMModel,
		},
		Retrieval: RetrievalConfig{
			TopK: defaultTopK,
		},
	}
}
