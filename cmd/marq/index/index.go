// Package indexcmder provides the index command for building the vector
// store from a directory of Markdown documentation.
package indexcmder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/marqlabs/marq/cmd/marq/pipeline"
	"github.com/marqlabs/marq/pkg/cliui"
	"github.com/marqlabs/marq/pkg/config"
	"github.com/marqlabs/marq/pkg/indexer"
	"github.com/marqlabs/marq/pkg/logger"
)

type indexCommander struct {
	root string

	dbPath         string
	vectorProvider string
	vectorTarget   string
	embedProvider  string
	embedTarget    string
	embedModel     string
	embedDims      uint

	cfg   *config.Config
	debug bool

	logger *slog.Logger
}

// indexFlagKeys are the flag registry entries this command registers.
var indexFlagKeys = []string{
	config.FlagDB,
	config.FlagVectorProv,
	config.FlagVectorTgt,
	config.FlagEmbeddingProv,
	config.FlagEmbeddingTgt,
	config.FlagEmbeddingModel,
	config.FlagEmbeddingDims,
}

const indexLongDesc string = `Index a directory of Markdown documentation.

Recursively collects all .md files under the given directory, splits each
document into chunks at heading boundaries, embeds the chunks, and stores
the vectors. The store is rebuilt from scratch on every run: stale entries
from removed or renamed files never survive.

The same embedding provider and model must be used for indexing and asking;
changing either requires a re-index.

Examples:
  marq index ./docs
  marq index ./docs --db ./project.db
  marq index ./docs --vector-store-provider chroma --vector-store-target http://localhost:8000
  marq index ./docs --embedding-provider ollama --embedding-model nomic-embed-text --embedding-dimensions 768`

const indexShortDesc string = "Index a directory of Markdown documentation"

func NewIndexCmd() *cobra.Command {
	cmder := &indexCommander{}

	cmd := &cobra.Command{
		Use:   "index <directory>",
		Short: indexShortDesc,
		Long:  indexLongDesc,
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.cfg, err = pipeline.Load(cmd, indexFlagKeys)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.root = args[0]

			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagDB, &cmder.dbPath)
	config.AddStringFlag(cmd, config.Flags, config.FlagVectorProv, &cmder.vectorProvider)
	config.AddStringFlag(cmd, config.Flags, config.FlagVectorTgt, &cmder.vectorTarget)
	config.AddStringFlag(cmd, config.Flags, config.FlagEmbeddingProv, &cmder.embedProvider)
	config.AddStringFlag(cmd, config.Flags, config.FlagEmbeddingTgt, &cmder.embedTarget)
	config.AddStringFlag(cmd, config.Flags, config.FlagEmbeddingModel, &cmder.embedModel)
	config.AddUintFlag(cmd, config.Flags, config.FlagEmbeddingDims, &cmder.embedDims)

	return cmd
}

func (c *indexCommander) run() error {
	c.logger = logger.New(
		logger.WithWriter(os.Stderr),
		logger.WithDebug(c.debug),
	)

	ctx := context.Background()

	embedder, err := pipeline.NewEmbedder(c.cfg)
	if err != nil {
		return err
	}
	defer func() { _ = embedder.Close() }()

	store, err := pipeline.NewStore(c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	fmt.Printf("\n  %s %s\n",
		cliui.KeyStyle.Render("Indexing:"),
		cliui.NameStyle.Render(c.root),
	)
	fmt.Printf("  %s %s via %s\n\n",
		cliui.KeyStyle.Render("Embedding:"),
		cliui.ValueStyle.Render(c.cfg.Embedding.Model),
		cliui.DimStyle.Render(c.cfg.Embedding.Provider),
	)

	ix := indexer.New(embedder, store, c.logger)

	start := time.Now()
	var result *indexer.Result

	err = cliui.Step(os.Stdout, "Chunking, embedding, and storing", func() error {
		var runErr error
		result, runErr = ix.Run(ctx, c.root)
		return runErr
	})
	if err != nil {
		return err
	}

	fmt.Println()
	for _, file := range result.Files {
		fmt.Printf("  %s %s %s\n",
			cliui.SuccessMark,
			cliui.SourceStyle.Render(file.Path),
			cliui.DimStyle.Render(fmt.Sprintf("(%d chunks)", file.Chunks)),
		)
	}

	fmt.Printf("\n  Indexed %s from %s in %s\n\n",
		cliui.NameStyle.Render(fmt.Sprintf("%d chunks", result.TotalChunks)),
		cliui.NameStyle.Render(fmt.Sprintf("%d files", len(result.Files))),
		cliui.DimStyle.Render(cliui.FormatDuration(time.Since(start))),
	)

	return nil
}
