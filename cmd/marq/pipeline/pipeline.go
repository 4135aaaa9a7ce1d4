// Package pipeline wires resolved configuration into the embedding, storage,
// and generation components shared by the marq pipeline commands.
package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/marqlabs/marq/pkg/config"
	"github.com/marqlabs/marq/pkg/embeddings"
	embeddingutils "github.com/marqlabs/marq/pkg/embeddings/utils"
	"github.com/marqlabs/marq/pkg/llm"
	llmutils "github.com/marqlabs/marq/pkg/llm/utils"
	"github.com/marqlabs/marq/pkg/vector"
	vectorutils "github.com/marqlabs/marq/pkg/vector/utils"
)

// Load resolves the effective configuration for a pipeline command.
// Precedence: CLI flags > MARQ_ environment variables > config.toml > defaults.
// keys names the flag registry entries the command registered; only those
// flags participate in the viper binding.
func Load(cmd *cobra.Command, keys []string) (*config.Config, error) {
	configDir, _ := cmd.Flags().GetString("config-dir")

	v, err := config.InitViper(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	config.BindRegisteredFlags(v, cmd, config.Flags, keys)

	return config.FromViper(v), nil
}

// NewEmbedder builds the configured embedding provider.
func NewEmbedder(cfg *config.Config) (embeddings.Embedder, error) {
	return embeddingutils.NewEmbedder(&embeddingutils.NewEmbedderOpts{
		ProviderType: cfg.Embedding.Provider,
		TargetURL:    cfg.Embedding.Target,
		Model:        cfg.Embedding.Model,
	})
}

// NewStore builds the configured vector store. Dimensions come from the
// embedding config since the store schema must match the embedder's output.
func NewStore(cfg *config.Config, logger *slog.Logger) (vector.Store, error) {
	return vectorutils.NewStore(&vectorutils.NewStoreOpts{
		ProviderType: cfg.VectorStore.Provider,
		TargetURL:    cfg.VectorStore.Target,
		Path:         cfg.VectorStore.Path,
		Dimensions:   cfg.Embedding.Dimensions,
	}, logger)
}

// NewGenerator builds the configured answer generation provider.
func NewGenerator(cfg *config.Config) (llm.Generator, error) {
	return llmutils.NewGenerator(&llmutils.NewGeneratorOpts{
		ProviderType: cfg.LLM.Provider,
		TargetURL:    cfg.LLM.Target,
		Model:        cfg.LLM.Model,
	})
}
