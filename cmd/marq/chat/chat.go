// Package chatcmder provides the chat command for an interactive question
// answering session over the indexed corpus.
package chatcmder

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/marqlabs/marq/cmd/marq/pipeline"
	"github.com/marqlabs/marq/pkg/cliui"
	"github.com/marqlabs/marq/pkg/config"
	"github.com/marqlabs/marq/pkg/logger"
	"github.com/marqlabs/marq/pkg/retriever"
)

var userPrompt = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true).Render("you> ")

type chatCommander struct {
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

	cfg   *config.Config
	debug bool

	logger *slog.Logger
}

// chatFlagKeys are the flag registry entries this command registers.
var chatFlagKeys = []string{
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

const chatLongDesc string = `Start an interactive question answering session.

Each line you type is answered independently over the indexed corpus,
exactly like "marq ask". Questions do not carry context from earlier
turns; retrieval starts fresh every time.

Type /exit, exit, or quit to leave, or press Ctrl+D.

Examples:
  marq chat
  marq chat --top-k 10`

const chatShortDesc string = "Interactive question answering session"

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.cfg, err = pipeline.Load(cmd, chatFlagKeys)
			return err
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
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

	return cmd
}

func (c *chatCommander) run() error {
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

	fmt.Println()
	fmt.Printf("  %s %s via %s\n",
		cliui.KeyStyle.Render("Model:"),
		cliui.NameStyle.Render(c.cfg.LLM.Model),
		cliui.DimStyle.Render(c.cfg.LLM.Provider),
	)
	fmt.Printf("  %s\n\n", cliui.DimStyle.Render("Ask a question and press Enter. /exit or Ctrl+D to quit."))

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(userPrompt)
		if !scanner.Scan() {
			// EOF or error
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "/exit" || input == "exit" || input == "quit" {
			break
		}

		answer, err := r.Ask(ctx, input, c.cfg.Retrieval.TopK)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  %s %v\n", cliui.FailMark, err)
			continue
		}

		c.printAnswer(answer)
	}

	fmt.Println()
	return nil
}

func (c *chatCommander) printAnswer(answer *retriever.Answer) {
	rendered, err := cliui.RenderMarkdown(answer.Text)
	if err != nil {
		rendered = "\n" + answer.Text + "\n"
	}
	fmt.Print(rendered)

	if len(answer.Sources) > 0 {
		fmt.Printf("  %s %s\n\n",
			cliui.KeyStyle.Render("Sources:"),
			cliui.SourceStyle.Render(strings.Join(answer.Sources, ", ")),
		)
	}
}
