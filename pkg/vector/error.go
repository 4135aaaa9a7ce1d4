package vector

import "errors"

var (
	// ErrEmbedding is returned when embedding generation fails.
	ErrEmbedding = errors.New("embedding failed")

	// ErrStorage is returned when a store write or read fails, including
	// length mismatches between ids, vectors, and texts.
	ErrStorage = errors.New("vector storage failed")

	// ErrConnection is returned when the vector store connection fails.
	ErrConnection = errors.New("vector store connection failed")
)
