package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/plxdev/plx-cli/clierror"
	"github.com/plxdev/plx-cli/genericclioptions"
	"github.com/plxdev/plx-cli/history"
	"github.com/plxdev/plx-cli/llm"
	"github.com/plxdev/plx-cli/types"

	"github.com/spf13/cobra"
)

var Version = "0.0.0"

var (
	ErrMissingQuestion      = errors.New("missing question: pass it as an argument or pipe it in")
	ErrConflictingQuestions = errors.New("cannot read the question from both piped input and arguments")
)

const (
	appName                  = "plx"
	envConfigPathKeyOverride = "PLX_CONFIG_PATH"
	defaultConfigName        = ".plx.yaml"
	defaultLogFilename       = ".log"
	defaultHistoryFilename   = "history.db"
)

type cleanupFunc func() error

type step func(ctx context.Context, args ...string) error

// DefaultPlxOptions is the base cli config shared across all plx subcommands.
type DefaultPlxOptions struct {
	*genericclioptions.StdioOptions

	configOptions *configOptions

	client     *llm.Client
	historyLog *history.Log

	cleanupFuncs []cleanupFunc

	steps []step
}

var _ genericclioptions.CmdOptions = &DefaultPlxOptions{}

// NewDefaultPlxOptions initializes the options struct.
func NewDefaultPlxOptions(iostreams *genericclioptions.IOStreams) *DefaultPlxOptions {
	stdio := &genericclioptions.StdioOptions{IOStreams: iostreams, Logger: slog.Default()}

	return &DefaultPlxOptions{
		StdioOptions:  stdio,
		configOptions: NewConfigOptions(stdio),
	}
}

func (o *DefaultPlxOptions) Complete() error {
	if err := o.StdioOptions.Complete(); err != nil {
		return err
	}

	return o.configOptions.Complete()
}

func (o *DefaultPlxOptions) Validate() error {
	if err := o.StdioOptions.Validate(); err != nil {
		return err
	}

	return o.configOptions.Validate()
}

func (o *DefaultPlxOptions) Run(ctx context.Context, args ...string) error {
	for _, s := range o.steps {
		if err := s(ctx, args...); err != nil {
			return err
		}
	}

	return nil
}

func (o *DefaultPlxOptions) planFor(cmd *cobra.Command) {
	o.steps = o.steps[:0]

	switch cmd.CalledAs() {
	case "ask":
		o.addStep(func(_ context.Context, _ ...string) error { return o.initLogger() })
		o.addStep(func(_ context.Context, _ ...string) error { return o.initClient() })
		o.addStep(func(_ context.Context, _ ...string) error { return o.initHistory() })
	case "chat", "tui":
		o.addStep(func(_ context.Context, _ ...string) error { return o.initLogger() })
		o.addStep(func(_ context.Context, _ ...string) error { return o.initClient() })
	case "history":
		o.addStep(func(_ context.Context, _ ...string) error { return o.initLogger() })
		o.addStep(func(_ context.Context, _ ...string) error { return o.initHistory() })
	default:
	}
}

func (o *DefaultPlxOptions) addStep(s step) {
	o.steps = append(o.steps, s)
}

func (o *DefaultPlxOptions) initLogger() error {
	dir, err := defaultStateDir()
	if err != nil {
		return errf("resolve state dir: %v", err)
	}

	f, err := openLogFile(dir, defaultLogFilename)
	if err != nil {
		return errf("open log file: %v", err)
	}

	o.cleanupFuncs = append(o.cleanupFuncs, func() error { return f.Close() })

	level := slog.LevelInfo
	if s := os.Getenv(envLogLevel); s != "" {
		if l, err := genericclioptions.ParseLevel(s); err == nil {
			level = l
		}
	}

	if o.configOptions.resolved.Output.Verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))

	o.Opts(
		genericclioptions.WithLevel(level),
		genericclioptions.WithLogger(logger),
	)

	return nil
}

func (o *DefaultPlxOptions) initClient() error {
	cfg := o.configOptions.resolved

	if err := types.ValidateAPIKeyFormat(cfg.API.Key); err != nil {
		if cfg.API.Key == "" {
			return llm.ErrMissingAPIKey
		}

		o.Logger.Warn("configured API key has unexpected format", "err", err)
	}

	o.client = llm.NewClient(cfg, llm.WithLogger(o.Logger))

	return nil
}

func (o *DefaultPlxOptions) initHistory() error {
	dir, err := defaultStateDir()
	if err != nil {
		return errf("resolve state dir: %v", err)
	}

	l, err := history.Open(history.WithPath(filepath.Join(dir, defaultHistoryFilename)))
	if err != nil {
		return errf("open history: %v", err)
	}

	o.cleanupFuncs = append(o.cleanupFuncs, l.Close)
	o.historyLog = l

	return nil
}

// askOverrides converts the per-invocation flags into per-call overrides.
// An unrecognized search mode is dropped with a warning, never an error;
// the configured mode then applies.
func (o *DefaultPlxOptions) askOverrides() llm.AskOptions {
	opts := llm.AskOptions{
		Model: o.configOptions.flags.model,
	}

	if raw := o.configOptions.flags.searchMode; raw != "" {
		mode, ok := types.ParseSearchMode(raw)
		if !ok {
			o.Logger.Warn("unknown search mode, using configured value",
				"requested", raw,
				"configured", o.configOptions.resolved.Research.SearchMode,
			)
		} else {
			opts.SearchMode = mode
		}
	}

	return opts
}

// NewDefaultPlxCommand creates the root cobra command.
func NewDefaultPlxCommand(iostreams *genericclioptions.IOStreams, args []string) *cobra.Command {
	o := NewDefaultPlxOptions(iostreams)

	cmd := &cobra.Command{
		Use:  "plx",
		Args: cobra.NoArgs,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		Short: "Ask questions from your terminal",
		Long: `plx is a terminal client for the Perplexity API.
Ask one-off questions, hold interactive chats, and tune search behavior per call.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			o.planFor(cmd)
			return clierror.Check(genericclioptions.ExecuteCommand(cmd.Context(), o, args...))
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return clierror.Check(executeCleanup(o.cleanupFuncs))
		},
	}

	cmd.SetArgs(args)

	cmd.PersistentFlags().StringVarP(&o.configOptions.flags.configPath, "config", "c", "", fmt.Sprintf("path to config file (default: ~/%s)", defaultConfigName))
	cmd.PersistentFlags().StringVarP(&o.configOptions.flags.model, "model", "m", "", "model to use for this call")
	cmd.PersistentFlags().StringVarP(&o.configOptions.flags.searchMode, "search-mode", "s", "", "search mode for this call (low, medium, high)")
	cmd.PersistentFlags().StringVarP(&o.configOptions.flags.format, "format", "f", "", "output format (markdown, json, plain)")
	cmd.PersistentFlags().BoolVar(&o.configOptions.flags.noStream, "no-stream", false, "disable streaming output")
	cmd.PersistentFlags().BoolVarP(&o.configOptions.flags.verbose, "verbose", "v", false, "enable debug logging")

	genericclioptions.MarkFlagsHidden(cmd, "verbose")

	cmd.AddCommand(NewCmdAsk(o))
	cmd.AddCommand(NewCmdChat(o))
	cmd.AddCommand(NewCmdConfig(o))
	cmd.AddCommand(NewCmdHistory(o))
	cmd.AddCommand(NewCmdModels(o))
	cmd.AddCommand(newVersionCommand(o))

	return cmd
}

// executeCleanup executes cleanup functions in reverse order,
// similar to defer statements.
//
// used functions are nilled out.
func executeCleanup(fs []cleanupFunc) error {
	var errs []error
	for i := len(fs) - 1; i >= 0; i-- {
		f := fs[i]
		if f == nil {
			continue
		}

		fs[i] = nil

		errs = append(errs, f())
	}

	return errors.Join(errs...)
}

func errf(format string, a ...any) error {
	return fmt.Errorf(format, a...)
}
