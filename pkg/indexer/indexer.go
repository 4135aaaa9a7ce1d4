// Package indexer runs the full ingestion pipeline: collect Markdown
// documents, chunk them, embed the chunks, and store the vectors.
package indexer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/marqlabs/marq/pkg/chunker"
	"github.com/marqlabs/marq/pkg/document"
	"github.com/marqlabs/marq/pkg/embeddings"
	"github.com/marqlabs/marq/pkg/vector"
)

// DefaultBatchSize is the number of chunks embedded per provider call.
const DefaultBatchSize = 100

// FileResult is the per-document outcome of an indexing run.
type FileResult struct {
	// Path is the document's slash-separated path.
	Path string

	// Chunks is the number of chunks produced from the document.
	Chunks int
}

// Result summarizes an indexing run.
type Result struct {
	// Files lists per-document outcomes in collection order.
	Files []FileResult

	// TotalChunks is the number of chunks embedded and stored.
	TotalChunks int
}

// Indexer rebuilds a vector store from a directory of Markdown documents.
type Indexer struct {
	embedder  embeddings.Embedder
	store     vector.Store
	batchSize int
	logger    *slog.Logger
}

// Option configures an Indexer.
type Option func(*Indexer)

// WithBatchSize overrides the embedding batch size.
func WithBatchSize(n int) Option {
	return func(ix *Indexer) {
		if n > 0 {
			ix.batchSize = n
		}
	}
}

// New creates an Indexer over the given embedder and store.
func New(embedder embeddings.Embedder, store vector.Store, logger *slog.Logger, opts ...Option) *Indexer {
	ix := &Indexer{
		embedder:  embedder,
		store:     store,
		batchSize: DefaultBatchSize,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// Run rebuilds the store from the Markdown files under root. The store is
// reset first, so a successful run leaves exactly the current corpus
// indexed. A failure mid-run leaves the store partially populated; the
// remedy is to re-run.
func (ix *Indexer) Run(ctx context.Context, root string) (*Result, error) {
	docs, err := document.Collect(root)
	if err != nil {
		return nil, err
	}

	if err := ix.store.Reset(ctx); err != nil {
		return nil, err
	}

	result := &Result{}
	var chunks []chunker.Chunk

	for _, doc := range docs {
		docChunks, err := chunker.Split(doc)
		if err != nil {
			return nil, err
		}

		ix.logger.Debug("chunked document",
			"path", doc.Path,
			"chunks", len(docChunks),
		)

		result.Files = append(result.Files, FileResult{
			Path:   doc.Path,
			Chunks: len(docChunks),
		})
		chunks = append(chunks, docChunks...)
	}

	if len(chunks) == 0 {
		ix.logger.Debug("no chunks to index", "root", root)
		return result, nil
	}

	for start := 0; start < len(chunks); start += ix.batchSize {
		end := min(start+ix.batchSize, len(chunks))
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Text
		}

		vectors, err := ix.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, err
		}
		if len(vectors) != len(batch) {
			return nil, fmt.Errorf("%w: got %d embeddings for %d chunks", vector.ErrEmbedding, len(vectors), len(batch))
		}

		records := make([]vector.Record, len(batch))
		for i, c := range batch {
			records[i] = vector.Record{
				ID:        c.ID(),
				Embedding: vectors[i],
				Text:      c.Text,
				Metadata: vector.Metadata{
					Source:     c.Source,
					Heading:    c.Heading,
					ChunkIndex: c.Index,
				},
			}
		}

		if err := ix.store.Upsert(ctx, records); err != nil {
			return nil, err
		}

		ix.logger.Debug("indexed batch",
			"from", start,
			"to", end,
			"total", len(chunks),
		)
	}

	result.TotalChunks = len(chunks)

	return result, nil
}
