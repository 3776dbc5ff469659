package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/plxdev/plx-cli/clierror"
	"github.com/plxdev/plx-cli/genericclioptions"
	"github.com/plxdev/plx-cli/types"

	"github.com/spf13/cobra"
)

// configOptions holds cli, file, and resolved global configuration.
//
// Resolution is layered: built-in defaults, then the settings file, then
// the environment. Later layers only override leaves they define.
type configOptions struct {
	*genericclioptions.StdioOptions

	flags *Flags

	envConfig  EnvConfig
	fileConfig *FileConfig
	resolved   types.Config
}

// Flags holds cli overrides for configuration.
type Flags struct {
	configPath string
	model      string
	searchMode string
	format     string
	noStream   bool
	verbose    bool
}

var _ genericclioptions.CmdOptions = &configOptions{}

// NewConfigOptions initializes ConfigOptions with default values.
func NewConfigOptions(stdio *genericclioptions.StdioOptions) *configOptions {
	return &configOptions{
		StdioOptions: stdio,
		fileConfig:   &FileConfig{},
		flags:        &Flags{},
	}
}

func (o *configOptions) Resolved() types.Config { return o.resolved }

func (o *configOptions) Complete() error {
	c, err := LoadFileConfig(o.flags.configPath)
	if err != nil {
		var cfgErr *ConfigError
		if c == nil || !errors.As(err, &cfgErr) {
			return err
		}

		// a malformed file must not take the whole invocation down;
		// the remaining layers still resolve
		o.Errorf("%v; ignoring settings file\n", err)

		c.Overlay = types.Overlay{}
	}

	o.fileConfig = c

	o.envConfig.load()
	if err := o.envConfig.Err(); err != nil {
		o.Errorf("environment: %v\n", err)
	}

	o.resolve()

	return nil
}

func (o *configOptions) resolve() {
	resolved := types.Merge(types.Default(), &o.fileConfig.Overlay)
	resolved = types.Merge(resolved, o.envConfig.overlay)

	if o.flags.format != "" {
		if format, ok := types.ParseOutputFormat(o.flags.format); ok {
			resolved.Output.Format = format
		}
	}

	if o.flags.noStream {
		resolved.Output.Stream = false
	}

	if o.flags.verbose {
		resolved.Output.Verbose = true
	}

	o.resolved = resolved
}

func (o *configOptions) Validate() error {
	if o.flags.format != "" {
		if _, ok := types.ParseOutputFormat(o.flags.format); !ok {
			return &ConfigError{Opt: "format", Err: fmt.Errorf("unknown output format %q", o.flags.format)}
		}
	}

	if o.resolved.API.Timeout <= 0 {
		return &ConfigError{Opt: "api.timeout", Err: errors.New("must be positive")}
	}

	return nil
}

func (*configOptions) Run(context.Context, ...string) error { return nil }

// NewCmdConfig creates the cobra config command tree.
func NewCmdConfig(defaults *DefaultPlxOptions) *cobra.Command {
	o := defaults.configOptions

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and inspect configuration",
		Long: fmt.Sprintf(`Show the active plx configuration.

If --config is not provided, the default path (~/%s) is used.`, defaultConfigName),
		RunE: func(cmd *cobra.Command, _ []string) error {
			// per-call flags have no effect on the resolved view
			if err := clierror.Check(genericclioptions.RejectDisallowedFlags(cmd, "model", "search-mode", "no-stream")); err != nil {
				return err
			}

			if err := clierror.Check(genericclioptions.ExecuteCommand(cmd.Context(), o)); err != nil {
				return err
			}

			path, ok := o.fileConfig.ConfigPath()
			if !ok {
				o.Infof("no config file found; using default values.\n")
			}

			c := struct {
				Path     string `json:"path,omitempty"`
				Resolved any    `json:"resolved_config"` //nolint:tagliatelle
			}{
				Path:     path,
				Resolved: redactKey(o.resolved),
			}

			o.Printf("%s", stringifyPretty(c))

			return nil
		},
	}

	cmd.AddCommand(newGenerateConfigCmd(defaults))
	cmd.AddCommand(newValidateConfigCmd(defaults))
	cmd.AddCommand(newSetKeyCmd(defaults))

	return cmd
}

// redactKey masks the API key for display, keeping the identifying prefix.
func redactKey(c types.Config) types.Config {
	if c.API.Key != "" {
		c.API.Key = types.APIKeyPrefix + "****"
	}

	return c
}

// stringifyPretty returns the pretty-printed JSON representation of v.
// If marshalling fails, it returns the error message instead.
func stringifyPretty(v any) string {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)

	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if err := enc.Encode(v); err != nil {
		return fmt.Sprintf("stringify error: %v", err)
	}

	return buf.String()
}

type generateConfigOptions struct {
	*genericclioptions.StdioOptions
}

var _ genericclioptions.CmdOptions = &generateConfigOptions{}

func newGenerateConfigOptions(stdio *genericclioptions.StdioOptions) *generateConfigOptions {
	return &generateConfigOptions{
		StdioOptions: stdio,
	}
}

func (*generateConfigOptions) Complete() error { return nil }

func (*generateConfigOptions) Validate() error { return nil }

func (o *generateConfigOptions) Run(context.Context, ...string) error {
	o.Printf("%s", GenerateDefault())

	return nil
}

// newGenerateConfigCmd creates the 'generate' subcommand for generating default config.
func newGenerateConfigCmd(defaults *DefaultPlxOptions) *cobra.Command {
	o := newGenerateConfigOptions(defaults.StdioOptions)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a default config file",
		Long: `Generate the default configuration in YAML format
and write it to stdout.`,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return clierror.Check(genericclioptions.ExecuteCommand(cmd.Context(), o))
		},
	}

	genericclioptions.MarkAllFlagsHidden(cmd, "help")

	return cmd
}

type validateConfigOptions struct {
	*genericclioptions.StdioOptions

	configPath string
}

var _ genericclioptions.CmdOptions = &validateConfigOptions{}

func newValidateConfigOptions(stdio *genericclioptions.StdioOptions) *validateConfigOptions {
	return &validateConfigOptions{
		StdioOptions: stdio,
	}
}

func (*validateConfigOptions) Complete() error { return nil }

func (*validateConfigOptions) Validate() error { return nil }

func (o *validateConfigOptions) Run(context.Context, ...string) error {
	c, err := LoadFileConfig(o.configPath)
	if err != nil {
		return err
	}

	path, ok := c.ConfigPath()
	if !ok {
		o.Infof("no config file found; Nothing to validate.\n")
		return nil
	}

	if err := validateOverlay(&c.Overlay); err != nil {
		return err
	}

	o.Infof("%s: OK\n", path)

	return nil
}

// validateOverlay range-checks every leaf the settings file defines.
// Unset leaves are fine; they resolve from the other layers.
func validateOverlay(c *types.Overlay) error {
	var errs []error

	if a := c.API; a != nil {
		if a.Key != nil {
			if err := types.ValidateAPIKeyFormat(*a.Key); err != nil {
				errs = append(errs, &ConfigError{Opt: "api.key", Err: err})
			}
		}

		if a.Timeout != nil && *a.Timeout <= 0 {
			errs = append(errs, &ConfigError{Opt: "api.timeout", Err: errors.New("must be positive")})
		}
	}

	if a := c.Agent; a != nil {
		if a.MaxTokens != nil && *a.MaxTokens <= 0 {
			errs = append(errs, &ConfigError{Opt: "agent.max_tokens", Err: errors.New("must be positive")})
		}

		if a.Temperature != nil && (*a.Temperature < 0 || *a.Temperature > 2) {
			errs = append(errs, &ConfigError{Opt: "agent.temperature", Err: errors.New("must be between 0 and 2")})
		}
	}

	if r := c.Research; r != nil && r.SearchMode != nil {
		if _, ok := types.ParseSearchMode(string(*r.SearchMode)); !ok {
			errs = append(errs, &ConfigError{Opt: "research.search_mode", Err: fmt.Errorf("unknown search mode %q", string(*r.SearchMode))})
		}
	}

	if p := c.Output; p != nil && p.Format != nil {
		if _, ok := types.ParseOutputFormat(string(*p.Format)); !ok {
			errs = append(errs, &ConfigError{Opt: "output.format", Err: fmt.Errorf("unknown output format %q", string(*p.Format))})
		}
	}

	return errors.Join(errs...)
}

// newValidateConfigCmd creates the 'validate' subcommand for validating the config file.
func newValidateConfigCmd(defaults *DefaultPlxOptions) *cobra.Command {
	o := newValidateConfigOptions(defaults.StdioOptions)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the config file",
		Long: fmt.Sprintf(`Load the configuration file and check for common errors.

If --config is not provided, the default path (~/%s) is used.`, defaultConfigName),
		RunE: func(cmd *cobra.Command, _ []string) error {
			o.configPath, _ = cmd.InheritedFlags().GetString("config")

			return clierror.Check(genericclioptions.ExecuteCommand(cmd.Context(), o))
		},
	}

	genericclioptions.MarkAllFlagsHidden(cmd, "help", "config")

	return cmd
}

type setKeyOptions struct {
	*genericclioptions.StdioOptions

	configPath string
	key        string
}

var _ genericclioptions.CmdOptions = &setKeyOptions{}

func newSetKeyOptions(stdio *genericclioptions.StdioOptions) *setKeyOptions {
	return &setKeyOptions{
		StdioOptions: stdio,
	}
}

func (*setKeyOptions) Complete() error { return nil }

func (o *setKeyOptions) Validate() error {
	if err := types.ValidateAPIKeyFormat(o.key); err != nil {
		return &ConfigError{Opt: "api.key", Err: err}
	}

	return nil
}

// Run stores the key in the settings file, preserving every other setting
// already present.
func (o *setKeyOptions) Run(context.Context, ...string) error {
	c, err := LoadFileConfig(o.configPath)
	if err != nil {
		return err
	}

	if c.API == nil {
		c.API = &types.APIOverlay{}
	}

	c.API.Key = &o.key

	path, err := SaveFileConfig(o.configPath, &c.Overlay)
	if err != nil {
		return err
	}

	o.Infof("API key saved to %s\n", path)

	return nil
}

// newSetKeyCmd creates the 'set-key' subcommand for persisting the API key.
func newSetKeyCmd(defaults *DefaultPlxOptions) *cobra.Command {
	o := newSetKeyOptions(defaults.StdioOptions)

	cmd := &cobra.Command{
		Use:   "set-key <key>",
		Short: "Store the API key in the config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o.key = strings.TrimSpace(args[0])
			o.configPath, _ = cmd.InheritedFlags().GetString("config")

			return clierror.Check(genericclioptions.ExecuteCommand(cmd.Context(), o))
		},
	}

	genericclioptions.MarkAllFlagsHidden(cmd, "help", "config")

	return cmd
}
