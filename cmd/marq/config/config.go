// Package configcmder provides the config command for managing persistent
// marq configuration stored in the .marq/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent marq configuration.

Configuration is stored as config.toml in the .marq/ directory and provides
default values for command flags. CLI flags always take precedence over
config file values, and MARQ_ environment variables sit between the two.

Keys use dotted notation matching the TOML section structure:
  vector_store.provider, vector_store.target, vector_store.path,
  embedding.provider, embedding.target, embedding.model, embedding.dimensions,
  llm.provider, llm.target, llm.model,
  retrieval.top_k

Use subcommands to get, set, or list configuration values:
  marq config set <key> <value>    Set a configuration value
  marq config get <key>            Get a configuration value
  marq config list                 List all configuration values
  marq config preset <name>        Apply a provider preset

Examples:
  marq config set llm.provider anthropic
  marq config set embedding.model nomic-embed-text
  marq config get llm.provider
  marq config preset ollama
  marq config list`

const configShortDesc string = "Manage persistent marq configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newPresetCmd())

	return cmd
}
