// Package askcmder provides the ask command for one-shot question answering
// over an indexed corpus.
package askcmder

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/marqlabs/marq/cmd/marq/pipeline"
	"github.com/marqlabs/marq/pkg/cliui"
	"github.com/marqlabs/marq/pkg/config"
	"github.com/marqlabs/marq/pkg/logger"
	"github.com/marqlabs/marq/pkg/retriever"
)

type askCommander struct {
	question string

	dbPath         string
	vectorProvider string
	vectorTarget   string
	embedProvider  string
	embedTarget    string
	embedModel     string
	embedDims      uint
	llmProvider    string
	llmTarget      string
	llmModel       string
	topK           int

	plain bool

	cfg   *config.Config
	debug bool

	logger *slog.Logger
}

// askFlagKeys are the flag registry entries this command registers.
var askFlagKeys = []string{
	config.FlagDB,
	config.FlagVectorProv,
	config.FlagVectorTgt,
	config.FlagEmbeddingProv,
	config.FlagEmbeddingTgt,
	config.FlagEmbeddingModel,
	config.FlagEmbeddingDims,
	config.FlagLLMProv,
	config.FlagLLMTgt,
	config.FlagLLMModel,
	config.FlagTopK,
}

const askLongDesc string = `Ask a question over the indexed documentation.

Embeds the question, retrieves the most similar chunks from the vector
store, and passes them as context to the configured model. The answer is
grounded in the retrieved chunks only, and the sources used are listed
below it.

Requires an index built with "marq index" using the same embedding
provider and model.

Examples:
  marq ask "How do I configure logging?"
  marq ask "What does the chunker do?" --top-k 10
  marq ask "How do I deploy?" --llm-provider ollama --llm-model llama3.2`

const askShortDesc string = "Ask a question over the indexed documentation"

func NewAskCmd() *cobra.Command {
	cmder := &askCommander{}

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: askShortDesc,
		Long:  askLongDesc,
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.cfg, err = pipeline.Load(cmd, askFlagKeys)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.question = args[0]

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
	config.AddStringFlag(cmd, config.Flags, config.FlagLLMProv, &cmder.llmProvider)
	config.AddStringFlag(cmd, config.Flags, config.FlagLLMTgt, &cmder.llmTarget)
	config.AddStringFlag(cmd, config.Flags, config.FlagLLMModel, &cmder.llmModel)
	config.AddIntFlag(cmd, config.Flags, config.FlagTopK, &cmder.topK)

	cmd.Flags().BoolVar(&cmder.plain, "plain", false, "Print the answer without markdown rendering")

	return cmd
}

func (c *askCommander) run() error {
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

	generator, err := pipeline.NewGenerator(c.cfg)
	if err != nil {
		return err
	}
	defer func() { _ = generator.Close() }()

	r := retriever.New(embedder, store, generator, c.logger)

	var answer *retriever.Answer
	err = cliui.Step(os.Stderr, "Retrieving and generating", func() error {
		var askErr error
		answer, askErr = r.Ask(ctx, c.question, c.cfg.Retrieval.TopK)
		return askErr
	})
	if err != nil {
		return err
	}

	printAnswer(answer, c.plain)

	return nil
}

// printAnswer renders the answer and its source attribution.
func printAnswer(answer *retriever.Answer, plain bool) {
	if plain {
		fmt.Printf("\n%s\n", answer.Text)
	} else {
		rendered, err := cliui.RenderMarkdown(answer.Text)
		if err != nil {
			rendered = "\n" + answer.Text + "\n"
		}
		fmt.Print(rendered)
	}

	if len(answer.Sources) == 0 {
		return
	}

	fmt.Printf("  %s\n", cliui.KeyStyle.Render("Sources:"))
	for _, source := range answer.Sources {
		fmt.Printf("    %s %s\n",
			cliui.DimStyle.Render("-"),
			cliui.SourceStyle.Render(source),
		)
	}
	fmt.Println()
}
