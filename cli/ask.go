package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/plxdev/plx-cli/clierror"
	"github.com/plxdev/plx-cli/genericclioptions"
	"github.com/plxdev/plx-cli/history"
	"github.com/plxdev/plx-cli/llm"
	"github.com/plxdev/plx-cli/types"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

type AskOptions struct {
	*genericclioptions.StdioOptions

	defaults *DefaultPlxOptions

	question string
}

var _ genericclioptions.CmdOptions = &AskOptions{}

// NewAskOptions initializes the options struct.
func NewAskOptions(defaults *DefaultPlxOptions) *AskOptions {
	return &AskOptions{
		StdioOptions: defaults.StdioOptions,
		defaults:     defaults,
	}
}

func (*AskOptions) Complete() error { return nil }

func (o *AskOptions) Validate() error {
	return nil
}

func (o *AskOptions) Run(ctx context.Context, args ...string) error {
	if err := o.resolveQuestion(args); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var (
		cfg       = o.defaults.configOptions.Resolved()
		overrides = o.defaults.askOverrides()
		model, _  = cfg.Models.ResolveModel(overrides.Model)
	)

	// json output needs the complete response body, so it never streams
	streaming := cfg.Output.Stream && cfg.Output.Format != types.FormatJSON

	spinner := newSpinner(cancel, "")

	go spinner.run()

	defer spinner.stop()

	spinner.sendStatusWithEllipsis("asking " + model)

	var answerText string

	if streaming {
		text, err := o.streamAnswer(ctx, overrides, spinner)
		if err != nil {
			return err
		}

		answerText = text
	} else {
		answer, err := o.defaults.client.Ask(ctx, o.question, overrides)

		spinner.stop()

		if err != nil {
			return err
		}

		if err := o.printAnswer(cfg, answer.Text, answer.Citations, answer.Raw); err != nil {
			return err
		}

		answerText = answer.Text
	}

	if err := o.defaults.historyLog.Append(history.Exchange{
		Model:    model,
		Question: o.question,
		Answer:   answerText,
	}); err != nil {
		o.Logger.Warn("record exchange", "err", err)
	}

	return nil
}

// resolveQuestion takes the question from the arguments or from piped input,
// but never both.
func (o *AskOptions) resolveQuestion(args []string) error {
	piped := o.Piped()

	if piped && len(args) > 0 {
		return ErrConflictingQuestions
	}

	if piped {
		raw, err := io.ReadAll(o.In)
		if err != nil {
			return errf("read piped input: %v", err)
		}

		o.question = strings.TrimSpace(string(raw))
	} else {
		o.question = strings.TrimSpace(strings.Join(args, " "))
	}

	if o.question == "" {
		return ErrMissingQuestion
	}

	return nil
}

// streamAnswer prints fragments as they arrive and returns the full text.
func (o *AskOptions) streamAnswer(ctx context.Context, overrides llm.AskOptions, spinner *spinnerProg) (string, error) {
	it, err := o.defaults.client.AskStreaming(ctx, o.question, overrides)
	if err != nil {
		spinner.stop()
		return "", err
	}

	var sb strings.Builder

	for frag, err := range it {
		if err != nil {
			spinner.stop()
			return sb.String(), err
		}

		spinner.stop()

		o.Print(frag)
		sb.WriteString(frag)
	}

	spinner.stop()

	if sb.Len() > 0 {
		o.Print("\n")
	}

	return sb.String(), nil
}

func (o *AskOptions) printAnswer(cfg types.Config, text string, citations []string, raw []byte) error {
	switch cfg.Output.Format {
	case types.FormatJSON:
		o.Printf("%s\n", raw)

		return nil
	case types.FormatMarkdown:
		rendered, err := renderMarkdown(text)
		if err != nil {
			// fall back to the raw text rather than dropping the answer
			o.Logger.Warn("render markdown", "err", err)

			rendered = text + "\n"
		}

		o.Print(rendered)
	case types.FormatPlain:
		o.Printf("%s\n", text)
	}

	if cfg.Research.IncludeCitations && len(citations) > 0 {
		o.Print(formatCitations(citations))
	}

	return nil
}

func renderMarkdown(text string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}

	return r.Render(text)
}

func formatCitations(citations []string) string {
	var sb strings.Builder

	sb.WriteString("\nSources:\n")

	for i, c := range citations {
		fmt.Fprintf(&sb, "  [%d] %s\n", i+1, c)
	}

	return sb.String()
}

// NewCmdAsk creates the ask cobra command.
func NewCmdAsk(defaults *DefaultPlxOptions) *cobra.Command {
	o := NewAskOptions(defaults)

	cmd := &cobra.Command{
		Use:   "ask [flags] <question>...",
		Short: "Ask a one-off question",
		Long: `Send a question and print the answer.

The question is taken from the arguments, or from stdin when piped.`,
		Example: `  # ask directly
  plx ask how do goroutines differ from threads

  # pick a model and search mode for this call
  plx ask -m sonar-reasoning -s high "why is the sky blue?"

  # pipe the question in
  echo "summarize the latest Go release notes" | plx ask`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return clierror.Check(genericclioptions.ExecuteCommand(cmd.Context(), o, args...))
		},
	}

	return cmd
}
