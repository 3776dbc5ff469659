package cli

import (
	"context"

	"github.com/plxdev/plx-cli/clierror"
	"github.com/plxdev/plx-cli/genericclioptions"
	"github.com/plxdev/plx-cli/types"

	"github.com/spf13/cobra"
)

type ModelsOptions struct {
	*genericclioptions.StdioOptions

	defaults *DefaultPlxOptions
}

var _ genericclioptions.CmdOptions = &ModelsOptions{}

// NewModelsOptions initializes the options struct.
func NewModelsOptions(defaults *DefaultPlxOptions) *ModelsOptions {
	return &ModelsOptions{
		StdioOptions: defaults.StdioOptions,
		defaults:     defaults,
	}
}

func (*ModelsOptions) Complete() error { return nil }

func (*ModelsOptions) Validate() error { return nil }

func (o *ModelsOptions) Run(_ context.Context, _ ...string) error {
	cfg := o.defaults.configOptions.Resolved()

	for _, m := range types.KnownModels {
		marker := " "
		if m == cfg.Models.Default {
			marker = "*"
		}

		o.Printf("%s %s\n", marker, m)
	}

	o.Print("\nconfigured slots:\n")
	o.Printf("  default:       %s\n", cfg.Models.Default)
	o.Printf("  search:        %s\n", cfg.Models.Search)
	o.Printf("  reasoning:     %s\n", cfg.Models.Reasoning)
	o.Printf("  fast:          %s\n", cfg.Models.Fast)
	o.Printf("  deep_research: %s\n", cfg.Models.DeepResearch)

	return nil
}

// NewCmdModels creates the models cobra command.
func NewCmdModels(defaults *DefaultPlxOptions) *cobra.Command {
	o := NewModelsOptions(defaults)

	cmd := &cobra.Command{
		Use:   "models",
		Short: "List known models",
		Long:  "List the models plx can send requests to; '*' marks the configured default.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return clierror.Check(genericclioptions.ExecuteCommand(cmd.Context(), o))
		},
	}

	return cmd
}
