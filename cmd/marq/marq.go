// Package marqcmder
package marqcmder

import (
	"github.com/spf13/cobra"

	askcmder "github.com/marqlabs/marq/cmd/marq/ask"
	chatcmder "github.com/marqlabs/marq/cmd/marq/chat"
	configcmder "github.com/marqlabs/marq/cmd/marq/config"
	indexcmder "github.com/marqlabs/marq/cmd/marq/index"
	initcmder "github.com/marqlabs/marq/cmd/marq/init"
	versioncmder "github.com/marqlabs/marq/cmd/version"
)

const marqLongDesc string = `Marq indexes a directory of Markdown documentation and answers
questions about it with source attribution.

Typical workflow:
  marq init            Create a local .marq/ directory
  marq index ./docs    Chunk, embed, and store the documentation
  marq ask "..."       Ask a question over the indexed corpus
  marq chat            Interactive question answering session`

const marqShortDesc string = "Marq - Ask questions of your Markdown docs"

func NewMarqCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "marq",
		Short: marqShortDesc,
		Long:  marqLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .marq/ config directory")

	// Add subcommands
	cmd.AddCommand(indexcmder.NewIndexCmd())
	cmd.AddCommand(askcmder.NewAskCmd())
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
