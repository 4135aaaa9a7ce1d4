// Package vector provides interfaces and implementations for vector storage
// and retrieval of Markdown chunks.
package vector

import "context"

// Metadata is the chunk provenance stored alongside each vector.
type Metadata struct {
	// Source is the originating document's path.
	Source string

	// Heading is the nearest enclosing heading text, or empty.
	Heading string

	// ChunkIndex is the chunk's position within its source document.
	ChunkIndex int
}

// Record is one stored (id, embedding, text, metadata) tuple.
type Record struct {
	// ID is the chunk identity, "{source}::{chunk_index}", unique across
	// the collection.
	ID string

	// Embedding is the vector representation of Text.
	Embedding []float32

	// Text is the chunk content the embedding was computed from.
	Text string

	// Metadata traces the record back to its origin.
	Metadata Metadata
}

// QueryResult is a retrieved record with its similarity score.
type QueryResult struct {
	Record

	// Score is the cosine similarity to the query vector
	// (higher = more similar).
	Score float32
}

// Store handles persistence and nearest-neighbor retrieval of embedded
// chunks. A Store is bound to exactly one collection; Reset destroys and
// recreates that collection. One indexing run owns the collection
// exclusively: querying during a rebuild is undefined and must be
// serialized by the caller.
type Store interface {
	// Reset destroys the collection and recreates it empty, with cosine
	// as the similarity metric. No record from before the Reset survives.
	Reset(ctx context.Context) error

	// Upsert stores records. A record whose ID already exists is replaced.
	Upsert(ctx context.Context, records []Record) error

	// Query finds the topK records most similar to the given embedding,
	// ordered by descending similarity.
	Query(ctx context.Context, embedding []float32, topK int) ([]QueryResult, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Close releases any resources held by the store.
	Close() error
}
