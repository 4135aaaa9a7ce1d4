// Package qdrant provides a Qdrant vector store driver over gRPC.
//
// Qdrant point IDs must be UUIDs or integers, so the chunk ID is carried in
// the point payload and the point ID is a deterministic UUIDv5 derived from
// the chunk ID. Identity therefore stays stable across re-indexing runs.
package qdrant

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/marqlabs/marq/pkg/vector"
)

// DefaultCollectionName is the collection used for Markdown chunks.
const DefaultCollectionName = "markdown_docs"

// Store implements vector.Store against a Qdrant server.
type Store struct {
	conn        *grpc.ClientConn
	points      pb.PointsClient
	collections pb.CollectionsClient
	collection  string
	dimensions  uint
	logger      *slog.Logger
}

// Config holds configuration for the Qdrant store.
type Config struct {
	// Addr is the Qdrant gRPC address (e.g., "localhost:6334").
	Addr string

	// CollectionName defaults to DefaultCollectionName if empty.
	CollectionName string

	// Dimensions is the embedding vector size used when the collection
	// is created.
	Dimensions uint
}

// NewStore connects to Qdrant and ensures the collection exists.
func NewStore(c Config, logger *slog.Logger) (*Store, error) {
	if c.Addr == "" {
		return nil, fmt.Errorf("%w: qdrant address is required", vector.ErrConnection)
	}
	if c.Dimensions == 0 {
		return nil, fmt.Errorf("%w: embedding dimensions must be configured", vector.ErrConnection)
	}

	collection := c.CollectionName
	if collection == "" {
		collection = DefaultCollectionName
	}

	conn, err := grpc.NewClient(c.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("%w: dialing qdrant %s: %v", vector.ErrConnection, c.Addr, err)
	}

	s := &Store{
		conn:        conn,
		points:      pb.NewPointsClient(conn),
		collections: pb.NewCollectionsClient(conn),
		collection:  collection,
		dimensions:  c.Dimensions,
		logger:      logger,
	}

	if err := s.ensureCollection(context.Background()); err != nil {
		conn.Close()
		return nil, err
	}

	logger.Debug("connected to qdrant",
		"addr", c.Addr,
		"collection", collection,
	)

	return s, nil
}

// ensureCollection creates the collection if it doesn't exist.
func (s *Store) ensureCollection(ctx context.Context) error {
	list, err := s.collections.List(ctx, &pb.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("%w: listing collections: %v", vector.ErrConnection, err)
	}
	for _, c := range list.GetCollections() {
		if c.GetName() == s.collection {
			return nil
		}
	}

	return s.createCollection(ctx)
}

// createCollection creates the collection with the cosine distance metric,
// fixed at creation time.
func (s *Store) createCollection(ctx context.Context) error {
	_, err := s.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     uint64(s.dimensions),
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("%w: creating collection %s: %v", vector.ErrStorage, s.collection, err)
	}
	return nil
}

// Reset deletes the collection and recreates it empty.
func (s *Store) Reset(ctx context.Context) error {
	_, err := s.collections.Delete(ctx, &pb.DeleteCollection{
		CollectionName: s.collection,
	})
	if err != nil {
		return fmt.Errorf("%w: deleting collection %s: %v", vector.ErrStorage, s.collection, err)
	}

	if err := s.createCollection(ctx); err != nil {
		return err
	}

	s.logger.Debug("reset qdrant collection", "collection", s.collection)

	return nil
}

// pointID derives the deterministic UUIDv5 point ID for a chunk ID.
func pointID(chunkID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(chunkID)).String()
}

// Upsert stores records as Qdrant points.
func (s *Store) Upsert(ctx context.Context, records []vector.Record) error {
	if len(records) == 0 {
		return nil
	}

	points := make([]*pb.PointStruct, len(records))
	for i, rec := range records {
		payload := map[string]*pb.Value{
			"chunk_id": {Kind: &pb.Value_StringValue{StringValue: rec.ID}},
			"text":     {Kind: &pb.Value_StringValue{StringValue: rec.Text}},
			"source":   {Kind: &pb.Value_StringValue{StringValue: rec.Metadata.Source}},
			"heading":  {Kind: &pb.Value_StringValue{StringValue: rec.Metadata.Heading}},
			"chunk_index": {
				Kind: &pb.Value_IntegerValue{IntegerValue: int64(rec.Metadata.ChunkIndex)},
			},
		}

		points[i] = &pb.PointStruct{
			Id: &pb.PointId{
				PointIdOptions: &pb.PointId_Uuid{Uuid: pointID(rec.ID)},
			},
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{
					Vector: &pb.Vector{Data: rec.Embedding},
				},
			},
			Payload: payload,
		}
	}

	wait := true
	_, err := s.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: s.collection,
		Wait:           &wait,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("%w: upserting %d points: %v", vector.ErrStorage, len(records), err)
	}

	s.logger.Debug("upserted chunks to qdrant", "count", len(records))

	return nil
}

// Query performs k-NN similarity search. Qdrant reports cosine similarity
// directly as the score.
func (s *Store) Query(ctx context.Context, embedding []float32, topK int) ([]vector.QueryResult, error) {
	if topK <= 0 {
		topK = 5
	}

	resp, err := s.points.Search(ctx, &pb.SearchPoints{
		CollectionName: s.collection,
		Vector:         embedding,
		Limit:          uint64(topK),
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: searching: %v", vector.ErrStorage, err)
	}

	results := make([]vector.QueryResult, 0, len(resp.GetResult()))
	for _, r := range resp.GetResult() {
		qr := vector.QueryResult{Score: r.GetScore()}

		for k, val := range r.GetPayload() {
			switch k {
			case "chunk_id":
				qr.ID = val.GetStringValue()
			case "text":
				qr.Text = val.GetStringValue()
			case "source":
				qr.Metadata.Source = val.GetStringValue()
			case "heading":
				qr.Metadata.Heading = val.GetStringValue()
			case "chunk_index":
				qr.Metadata.ChunkIndex = int(val.GetIntegerValue())
			}
		}

		results = append(results, qr)
	}

	s.logger.Debug("queried qdrant", "results", len(results))

	return results, nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	resp, err := s.points.Count(ctx, &pb.CountPoints{
		CollectionName: s.collection,
	})
	if err != nil {
		return 0, fmt.Errorf("%w: counting points: %v", vector.ErrStorage, err)
	}
	return int(resp.GetResult().GetCount()), nil
}

// Close closes the underlying gRPC connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Ensure Store implements vector.Store
var _ vector.Store = (*Store)(nil)
