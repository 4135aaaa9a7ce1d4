// Package embeddings defines the text embedding capability used by both
// the indexing and query pipelines. The same embedder (provider, target,
// and model) must be used for both; mixing models across index time and
// query time silently breaks similarity search.
package embeddings

import "context"

// Embedder provides text embedding capabilities.
type Embedder interface {
	// Embed converts one text into a fixed-length vector embedding.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch converts texts into embeddings, one vector per input,
	// order-preserving, so vectors map back to their inputs by position.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Close releases any resources held by the embedder.
	Close() error
}
