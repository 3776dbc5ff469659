package cli

import (
	"context"

	"github.com/plxdev/plx-cli/chatui"
	"github.com/plxdev/plx-cli/clierror"
	"github.com/plxdev/plx-cli/genericclioptions"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

type ChatOptions struct {
	*genericclioptions.StdioOptions

	defaults *DefaultPlxOptions
}

var _ genericclioptions.CmdOptions = &ChatOptions{}

// NewChatOptions initializes the options struct.
func NewChatOptions(defaults *DefaultPlxOptions) *ChatOptions {
	return &ChatOptions{
		StdioOptions: defaults.StdioOptions,
		defaults:     defaults,
	}
}

func (*ChatOptions) Complete() error { return nil }

func (*ChatOptions) Validate() error { return nil }

func (o *ChatOptions) Run(_ context.Context, _ ...string) error {
	cfg := o.defaults.configOptions.Resolved()

	// the TUI starts on the per-call model when one was requested
	if requested := o.defaults.configOptions.flags.model; requested != "" {
		cfg.Models.Default, _ = cfg.Models.ResolveModel(requested)
	}

	tui := chatui.New(o.defaults.client, cfg)
	p := tea.NewProgram(tui,
		tea.WithAltScreen(),
		tea.WithReportFocus(),
	)

	if _, err := p.Run(); err != nil {
		return errf("chatui: %v", err)
	}

	return nil
}

// NewCmdChat creates the chat cobra command.
func NewCmdChat(defaults *DefaultPlxOptions) *cobra.Command {
	o := NewChatOptions(defaults)

	cmd := &cobra.Command{
		Use:     "chat",
		Aliases: []string{"tui"},
		Short:   "Start the interactive terminal chat UI",
		Long: `Launch an interactive TUI for asking questions.
Each question is sent independently; switch models from inside the UI.`,
		Example: `  # start the TUI with the configured default model
  plx chat

  # start with a specific model
  plx chat -m sonar-reasoning`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return clierror.Check(genericclioptions.ExecuteCommand(cmd.Context(), o, args...))
		},
	}

	return cmd
}
