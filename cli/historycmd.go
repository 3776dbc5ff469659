package cli

import (
	"context"
	"strings"

	"github.com/plxdev/plx-cli/clierror"
	"github.com/plxdev/plx-cli/genericclioptions"

	"github.com/spf13/cobra"
)

const defaultHistoryLimit = 10

type HistoryOptions struct {
	*genericclioptions.StdioOptions

	defaults *DefaultPlxOptions

	limit int
	clear bool
	full  bool
}

var _ genericclioptions.CmdOptions = &HistoryOptions{}

// NewHistoryOptions initializes the options struct.
func NewHistoryOptions(defaults *DefaultPlxOptions) *HistoryOptions {
	return &HistoryOptions{
		StdioOptions: defaults.StdioOptions,
		defaults:     defaults,
		limit:        defaultHistoryLimit,
	}
}

func (*HistoryOptions) Complete() error { return nil }

func (o *HistoryOptions) Validate() error {
	if o.limit <= 0 {
		return errf("--limit must be positive")
	}

	return nil
}

func (o *HistoryOptions) Run(_ context.Context, _ ...string) error {
	if o.clear {
		if err := o.defaults.historyLog.Clear(); err != nil {
			return errf("clear history: %v", err)
		}

		o.Infof("history cleared.\n")

		return nil
	}

	exchanges, err := o.defaults.historyLog.Recent(o.limit)
	if err != nil {
		return errf("read history: %v", err)
	}

	if len(exchanges) == 0 {
		o.Infof("no recorded exchanges.\n")
		return nil
	}

	for i, e := range exchanges {
		if i != 0 {
			o.Print("\n")
		}

		answer := e.Answer
		if !o.full {
			answer = firstLine(answer)
		}

		o.Printf("%s  [%s]\n", e.AskedAt.Format("2006-01-02 15:04"), e.Model)
		o.Printf("  Q: %s\n", e.Question)
		o.Printf("  A: %s\n", answer)
	}

	return nil
}

func firstLine(s string) string {
	line, _, found := strings.Cut(s, "\n")
	if found {
		return line + " ..."
	}

	return line
}

// NewCmdHistory creates the history cobra command.
func NewCmdHistory(defaults *DefaultPlxOptions) *cobra.Command {
	o := NewHistoryOptions(defaults)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past questions and answers",
		Long:  "Show recently recorded exchanges, newest first.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return clierror.Check(genericclioptions.ExecuteCommand(cmd.Context(), o))
		},
	}

	cmd.Flags().IntVarP(&o.limit, "limit", "n", defaultHistoryLimit, "number of exchanges to show")
	cmd.Flags().BoolVar(&o.full, "full", false, "show complete answers instead of the first line")
	cmd.Flags().BoolVar(&o.clear, "clear", false, "delete all recorded exchanges")

	return cmd
}
