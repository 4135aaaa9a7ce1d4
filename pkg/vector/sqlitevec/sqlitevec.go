// Package sqlitevec provides a SQLite-backed vector store using sqlite-vec.
// This is the default, local, on-disk store addressed by the --db path.
package sqlitevec

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"

	"github.com/marqlabs/marq/pkg/vector"
)

// Store implements vector.Store using SQLite with the sqlite-vec extension.
type Store struct {
	db         *sql.DB
	dimensions uint
	logger     *slog.Logger
}

// Config holds configuration for the SQLite vec store.
type Config struct {
	// DBPath is the path to the SQLite database file.
	// Use ":memory:" for an in-memory database.
	DBPath string

	// Dimensions is the number of dimensions for the embedding vectors.
	// Must match the embedding model's output size.
	Dimensions uint
}

// NewStore opens (or creates) the store at the configured path.
func NewStore(c Config, logger *slog.Logger) (*Store, error) {
	// enable connection to have sqlite-vec extension
	sqlite_vec.Auto()

	if c.DBPath == "" {
		return nil, fmt.Errorf("%w: database path is required", vector.ErrConnection)
	}
	if c.Dimensions == 0 {
		return nil, fmt.Errorf("%w: embedding dimensions must be configured", vector.ErrConnection)
	}

	db, err := sql.Open("sqlite3", c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %v", vector.ErrConnection, err)
	}

	// Verify sqlite-vec is loaded
	var vecVersion string
	if err := db.QueryRow("SELECT vec_version()").Scan(&vecVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: sqlite-vec not available: %v", vector.ErrConnection, err)
	}

	s := &Store{
		db:         db,
		dimensions: c.Dimensions,
		logger:     logger,
	}

	if err := s.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug("sqlite-vec store opened",
		"db_path", c.DBPath,
		"dimensions", c.Dimensions,
		"vec_version", vecVersion,
	)

	return s, nil
}

func (s *Store) createTables() error {
	// vec0 virtual tables use integer rowids, so a mapping table carries
	// the string chunk IDs plus the chunk text and provenance metadata.
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS chunks (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			chunk_id TEXT NOT NULL UNIQUE,
			text TEXT NOT NULL,
			source TEXT NOT NULL DEFAULT '',
			heading TEXT NOT NULL DEFAULT '',
			chunk_index INTEGER NOT NULL DEFAULT 0
		)
	`)
	if err != nil {
		return fmt.Errorf("%w: creating chunks table: %v", vector.ErrStorage, err)
	}

	createVec := fmt.Sprintf(
		`CREATE VIRTUAL TABLE IF NOT EXISTS chunk_embeddings USING vec0(embedding float[%d] distance_metric=cosine)`,
		s.dimensions,
	)
	if _, err := s.db.Exec(createVec); err != nil {
		return fmt.Errorf("%w: creating vec0 table: %v", vector.ErrStorage, err)
	}

	return nil
}

// Reset drops and recreates both tables, destroying every stored chunk.
func (s *Store) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DROP TABLE IF EXISTS chunk_embeddings`); err != nil {
		return fmt.Errorf("%w: dropping vec0 table: %v", vector.ErrStorage, err)
	}
	if _, err := s.db.ExecContext(ctx, `DROP TABLE IF EXISTS chunks`); err != nil {
		return fmt.Errorf("%w: dropping chunks table: %v", vector.ErrStorage, err)
	}

	if err := s.createTables(); err != nil {
		return err
	}

	s.logger.Debug("sqlite-vec store reset")
	return nil
}

// serializeFloat32 converts a float32 slice to a little-endian byte slice
// suitable for sqlite-vec BLOB format.
func serializeFloat32(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// deserializeFloat32 converts a little-endian byte slice back to a float32 slice.
func deserializeFloat32(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("invalid embedding blob length %d: must be divisible by 4", len(b))
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v, nil
}

// Upsert stores records. A record whose ID already exists is replaced.
func (s *Store) Upsert(ctx context.Context, records []vector.Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %v", vector.ErrStorage, err)
	}
	defer tx.Rollback()

	for _, rec := range records {
		embBlob := serializeFloat32(rec.Embedding)

		var existingRowID int64
		err = tx.QueryRowContext(ctx,
			`SELECT rowid FROM chunks WHERE chunk_id = ?`, rec.ID,
		).Scan(&existingRowID)

		switch err {
		case nil:
			if _, err := tx.ExecContext(ctx,
				`UPDATE chunks SET text = ?, source = ?, heading = ?, chunk_index = ? WHERE rowid = ?`,
				rec.Text, rec.Metadata.Source, rec.Metadata.Heading, rec.Metadata.ChunkIndex, existingRowID,
			); err != nil {
				return fmt.Errorf("%w: updating chunk %s: %v", vector.ErrStorage, rec.ID, err)
			}

			// vec0 does not support UPDATE; replace via DELETE + INSERT.
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM chunk_embeddings WHERE rowid = ?`, existingRowID,
			); err != nil {
				return fmt.Errorf("%w: deleting old embedding for chunk %s: %v", vector.ErrStorage, rec.ID, err)
			}

			if _, err := tx.ExecContext(ctx,
				`INSERT INTO chunk_embeddings(rowid, embedding) VALUES (?, ?)`,
				existingRowID, embBlob,
			); err != nil {
				return fmt.Errorf("%w: re-inserting embedding for chunk %s: %v", vector.ErrStorage, rec.ID, err)
			}
		case sql.ErrNoRows:
			result, err := tx.ExecContext(ctx,
				`INSERT INTO chunks(chunk_id, text, source, heading, chunk_index) VALUES (?, ?, ?, ?, ?)`,
				rec.ID, rec.Text, rec.Metadata.Source, rec.Metadata.Heading, rec.Metadata.ChunkIndex,
			)
			if err != nil {
				return fmt.Errorf("%w: inserting chunk %s: %v", vector.ErrStorage, rec.ID, err)
			}

			rowID, err := result.LastInsertId()
			if err != nil {
				return fmt.Errorf("%w: getting rowid for chunk %s: %v", vector.ErrStorage, rec.ID, err)
			}

			if _, err := tx.ExecContext(ctx,
				`INSERT INTO chunk_embeddings(rowid, embedding) VALUES (?, ?)`,
				rowID, embBlob,
			); err != nil {
				return fmt.Errorf("%w: inserting embedding for chunk %s: %v", vector.ErrStorage, rec.ID, err)
			}
		default:
			return fmt.Errorf("%w: checking for existing chunk %s: %v", vector.ErrStorage, rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing transaction: %v", vector.ErrStorage, err)
	}

	s.logger.Debug("upserted chunks to sqlite-vec", "count", len(records))

	return nil
}

// Query finds the topK records most similar to the given embedding.
func (s *Store) Query(ctx context.Context, embedding []float32, topK int) ([]vector.QueryResult, error) {
	if topK <= 0 {
		topK = 5
	}

	queryBlob := serializeFloat32(embedding)

	// KNN query via vec0 MATCH, joined back to get the chunk metadata.
	// With distance_metric=cosine the reported distance is 1 - cosine
	// similarity, so similarity = 1 - distance.
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			c.chunk_id,
			c.text,
			c.source,
			c.heading,
			c.chunk_index,
			ce.embedding,
			ce.distance
		FROM chunk_embeddings ce
		INNER JOIN chunks c ON c.rowid = ce.rowid
		WHERE ce.embedding MATCH ?
			AND ce.k = ?
		ORDER BY ce.distance
	`, queryBlob, topK)
	if err != nil {
		return nil, fmt.Errorf("%w: querying: %v", vector.ErrStorage, err)
	}
	defer rows.Close()

	var results []vector.QueryResult
	for rows.Next() {
		var (
			rec      vector.Record
			embBlob  []byte
			distance float32
		)
		if err := rows.Scan(
			&rec.ID, &rec.Text, &rec.Metadata.Source, &rec.Metadata.Heading,
			&rec.Metadata.ChunkIndex, &embBlob, &distance,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning result row: %v", vector.ErrStorage, err)
		}

		if rec.Embedding, err = deserializeFloat32(embBlob); err != nil {
			return nil, fmt.Errorf("%w: %v", vector.ErrStorage, err)
		}

		results = append(results, vector.QueryResult{
			Record: rec,
			Score:  1.0 - distance,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating results: %v", vector.ErrStorage, err)
	}

	s.logger.Debug("queried sqlite-vec", "results", len(results))

	return results, nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: counting chunks: %v", vector.ErrStorage, err)
	}
	return n, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ensure Store implements vector.Store
var _ vector.Store = (*Store)(nil)
