// Package chroma provides a Chroma vector store driver using Chroma's
// REST API.
package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/marqlabs/marq/pkg/vector"
)

const (
	// DefaultCollectionName is the collection used for Markdown chunks.
	DefaultCollectionName = "markdown_docs"

	collectionsPath = "/api/v2/tenants/default_tenant/databases/default_database/collections"
)

// Store implements vector.Store against a Chroma server.
type Store struct {
	baseURL        string
	collectionName string
	collectionID   string
	httpClient     *http.Client
	logger         *slog.Logger
}

// Config holds configuration for the Chroma store.
type Config struct {
	// URL is the Chroma server URL (e.g., "http://localhost:8000").
	URL string

	// CollectionName is the name of the collection to use.
	// Defaults to DefaultCollectionName if empty.
	CollectionName string
}

// NewStore connects to Chroma and binds to the configured collection,
// creating it if missing.
func NewStore(c Config, logger *slog.Logger) (*Store, error) {
	if c.URL == "" {
		return nil, fmt.Errorf("%w: chroma URL is required", vector.ErrConnection)
	}

	collectionName := c.CollectionName
	if collectionName == "" {
		collectionName = DefaultCollectionName
	}

	s := &Store{
		baseURL:        c.URL,
		collectionName: collectionName,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger,
	}

	collectionID, err := s.getOrCreateCollection(context.Background())
	if err != nil {
		return nil, fmt.Errorf("%w: getting or creating collection %q: %v", vector.ErrConnection, collectionName, err)
	}
	s.collectionID = collectionID

	logger.Debug("connected to Chroma",
		"url", c.URL,
		"collection", collectionName,
		"collection_id", collectionID,
	)

	return s, nil
}

// getOrCreateCollection gets an existing collection or creates a new one
// with the cosine similarity space.
func (s *Store) getOrCreateCollection(ctx context.Context) (string, error) {
	url := fmt.Sprintf("%s%s/%s", s.baseURL, collectionsPath, s.collectionName)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", fmt.Errorf("creating get request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending get request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		var collection chromaCollection
		if err := json.NewDecoder(resp.Body).Decode(&collection); err != nil {
			return "", fmt.Errorf("decoding collection response: %w", err)
		}
		return collection.ID, nil
	}

	return s.createCollection(ctx)
}

// createCollection creates the collection with the cosine metric. The
// distance metric is fixed at creation time and cannot change afterwards.
func (s *Store) createCollection(ctx context.Context) (string, error) {
	createBody := chromaCreateRequest{
		Name:     s.collectionName,
		Metadata: map[string]any{"hnsw:space": "cosine"},
	}
	jsonBody, err := json.Marshal(createBody)
	if err != nil {
		return "", fmt.Errorf("marshaling create request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+collectionsPath, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("creating create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending create request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("failed to create collection: status %d: %s", resp.StatusCode, string(body))
	}

	var collection chromaCollection
	if err := json.NewDecoder(resp.Body).Decode(&collection); err != nil {
		return "", fmt.Errorf("decoding create response: %w", err)
	}

	return collection.ID, nil
}

// Reset deletes the collection and recreates it empty.
func (s *Store) Reset(ctx context.Context) error {
	url := fmt.Sprintf("%s%s/%s", s.baseURL, collectionsPath, s.collectionName)

	req, err := http.NewRequestWithContext(ctx, "DELETE", url, nil)
	if err != nil {
		return fmt.Errorf("%w: creating delete request: %v", vector.ErrStorage, err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: sending delete request: %v", vector.ErrStorage, err)
	}
	defer resp.Body.Close()

	// A missing collection is fine; anything else is an error.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: failed to delete collection: status %d: %s", vector.ErrStorage, resp.StatusCode, string(body))
	}

	collectionID, err := s.createCollection(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", vector.ErrStorage, err)
	}
	s.collectionID = collectionID

	s.logger.Debug("reset chroma collection", "collection", s.collectionName)

	return nil
}

// Upsert stores records with their embeddings, texts, and metadata.
func (s *Store) Upsert(ctx context.Context, records []vector.Record) error {
	if len(records) == 0 {
		return nil
	}

	ids := make([]string, len(records))
	embeddings := make([][]float32, len(records))
	documents := make([]string, len(records))
	metadatas := make([]map[string]any, len(records))

	for i, rec := range records {
		ids[i] = rec.ID
		embeddings[i] = rec.Embedding
		documents[i] = rec.Text
		metadatas[i] = map[string]any{
			"source":      rec.Metadata.Source,
			"heading":     rec.Metadata.Heading,
			"chunk_index": rec.Metadata.ChunkIndex,
		}
	}

	reqBody := chromaUpsertRequest{
		IDs:        ids,
		Embeddings: embeddings,
		Documents:  documents,
		Metadatas:  metadatas,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("%w: marshaling upsert request: %v", vector.ErrStorage, err)
	}

	url := fmt.Sprintf("%s%s/%s/upsert", s.baseURL, collectionsPath, s.collectionID)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("%w: creating upsert request: %v", vector.ErrStorage, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: sending upsert request: %v", vector.ErrStorage, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: failed to upsert records: status %d: %s", vector.ErrStorage, resp.StatusCode, string(body))
	}

	s.logger.Debug("upserted chunks to chroma", "count", len(records))

	return nil
}

// Query finds the topK records most similar to the given embedding.
func (s *Store) Query(ctx context.Context, embedding []float32, topK int) ([]vector.QueryResult, error) {
	if topK <= 0 {
		topK = 5
	}

	reqBody := chromaQueryRequest{
		QueryEmbeddings: [][]float32{embedding},
		NResults:        topK,
		Include:         []string{"documents", "metadatas", "distances", "embeddings"},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: marshaling query request: %v", vector.ErrStorage, err)
	}

	url := fmt.Sprintf("%s%s/%s/query", s.baseURL, collectionsPath, s.collectionID)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("%w: creating query request: %v", vector.ErrStorage, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: sending query request: %v", vector.ErrStorage, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: failed to query: status %d: %s", vector.ErrStorage, resp.StatusCode, string(body))
	}

	var queryResp chromaQueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&queryResp); err != nil {
		return nil, fmt.Errorf("%w: decoding query response: %v", vector.ErrStorage, err)
	}

	var results []vector.QueryResult

	// Process first group (we only query with one embedding)
	if len(queryResp.IDs) == 0 || len(queryResp.IDs[0]) == 0 {
		return results, nil
	}

	ids := queryResp.IDs[0]
	distances := queryResp.Distances[0]

	var documents []string
	if len(queryResp.Documents) > 0 {
		documents = queryResp.Documents[0]
	}

	var metadatas []map[string]any
	if len(queryResp.Metadatas) > 0 {
		metadatas = queryResp.Metadatas[0]
	}

	var embeddings [][]float32
	if len(queryResp.Embeddings) > 0 {
		embeddings = queryResp.Embeddings[0]
	}

	for i, id := range ids {
		result := vector.QueryResult{
			Record: vector.Record{ID: id},
		}

		if i < len(documents) {
			result.Text = documents[i]
		}

		if i < len(metadatas) && metadatas[i] != nil {
			if source, ok := metadatas[i]["source"].(string); ok {
				result.Metadata.Source = source
			}
			if heading, ok := metadatas[i]["heading"].(string); ok {
				result.Metadata.Heading = heading
			}
			// JSON numbers decode as float64.
			if idx, ok := metadatas[i]["chunk_index"].(float64); ok {
				result.Metadata.ChunkIndex = int(idx)
			}
		}

		if i < len(embeddings) {
			result.Embedding = embeddings[i]
		}

		// The collection uses the cosine space, where Chroma reports
		// distance = 1 - cosine similarity.
		if i < len(distances) {
			result.Score = 1.0 - distances[i]
		}

		results = append(results, result)
	}

	s.logger.Debug("queried chroma", "results", len(results))

	return results, nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	url := fmt.Sprintf("%s%s/%s/count", s.baseURL, collectionsPath, s.collectionID)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: creating count request: %v", vector.ErrStorage, err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: sending count request: %v", vector.ErrStorage, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("%w: failed to count: status %d: %s", vector.ErrStorage, resp.StatusCode, string(body))
	}

	var count int
	if err := json.NewDecoder(resp.Body).Decode(&count); err != nil {
		return 0, fmt.Errorf("%w: decoding count response: %v", vector.ErrStorage, err)
	}

	return count, nil
}

// Close releases resources held by the store.
func (s *Store) Close() error {
	// HTTP client doesn't require explicit cleanup
	return nil
}

// Ensure Store implements vector.Store
var _ vector.Store = (*Store)(nil)
