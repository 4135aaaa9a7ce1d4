package configcmder

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marqlabs/marq/pkg/cliui"
	"github.com/marqlabs/marq/pkg/config"
)

const presetLongDesc string = `Apply a provider preset.

Replaces the embedding and generation provider settings in config.toml
with sane defaults for the named provider. The vector store configuration
is left at its defaults.

Available presets: openai, anthropic, ollama. The anthropic preset keeps
the OpenAI embedder, since Anthropic has no embeddings API.

Examples:
  marq config preset ollama
  marq config preset anthropic`

const presetShortDesc string = "Apply a provider preset"

func newPresetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset <name>",
		Short: presetShortDesc,
		Long:  presetLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runPreset(args[0], configDir)
		},
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return config.ValidPresetNames(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
	}

	return cmd
}

func runPreset(name, configDir string) error {
	cfg, err := config.PresetConfig(name)
	if err != nil {
		return err
	}

	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if cfger.GetTarget() == "" {
		return fmt.Errorf("no .marq/ directory found; run \"marq init\" first")
	}

	if err := cfger.SaveConfig(cfg); err != nil {
		return err
	}

	fmt.Printf("\n  %s Applied preset %s\n",
		cliui.SuccessMark,
		cliui.NameStyle.Render(strings.ToLower(name)),
	)
	fmt.Printf("  %s %s\n\n",
		cliui.KeyStyle.Render("Config file:"),
		cliui.DimStyle.Render(cfger.GetTarget()),
	)

	return nil
}
