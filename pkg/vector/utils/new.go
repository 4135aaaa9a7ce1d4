// Package vectorutils is the vector store utility package
package vectorutils

import (
	"fmt"
	"log/slog"

	"github.com/marqlabs/marq/pkg/vector"
	"github.com/marqlabs/marq/pkg/vector/chroma"
	"github.com/marqlabs/marq/pkg/vector/qdrant"
	"github.com/marqlabs/marq/pkg/vector/sqlitevec"
)

type NewStoreOpts struct {
	ProviderType string

	// TargetURL is the server address for network-backed providers
	// (chroma, qdrant).
	TargetURL string

	// Path is the database file path for the sqlite provider.
	Path string

	// Dimensions is the embedding vector size.
	Dimensions uint
}

func NewStore(o *NewStoreOpts, logger *slog.Logger) (vector.Store, error) {
	switch o.ProviderType {
	case "sqlite":
		return sqlitevec.NewStore(sqlitevec.Config{
			DBPath:     o.Path,
			Dimensions: o.Dimensions,
		}, logger)
	case "chroma":
		return chroma.NewStore(chroma.Config{
			URL: o.TargetURL,
		}, logger)
	case "qdrant":
		return qdrant.NewStore(qdrant.Config{
			Addr:       o.TargetURL,
			Dimensions: o.Dimensions,
		}, logger)
	default:
		return nil, fmt.Errorf("unsupported vector store provider: %s", o.ProviderType)
	}
}
