package cli

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/plxdev/plx-cli/types"

	"gopkg.in/yaml.v3"
)

type ConfigError struct {
	Opt string
	Err error
}

func (e *ConfigError) Error() string {
	if e.Opt == "" {
		return "config: " + e.Err.Error()
	}

	return "config: " + e.Opt + ": " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error { return e.Err }

// FileConfig is the parsed settings file: a partial overlay plus the path
// it was loaded from. Empty path means no file was found.
type FileConfig struct {
	types.Overlay `yaml:",inline"`

	path string
}

func (c *FileConfig) ConfigPath() (string, bool) {
	return c.path, c.path != ""
}

// LoadFileConfig loads the settings file from the given or default path.
//
// A missing file at the default location is not an error; the returned
// overlay is simply empty. A malformed file is reported so the caller can
// warn and continue with the layers that did resolve.
func LoadFileConfig(path string) (*FileConfig, error) {
	defaultPath, err := defaultConfigPath()
	if err != nil {
		return nil, err
	}

	configPath := cmp.Or(path, defaultPath)

	raw, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		// file not found at default location; fall back to empty overlay
		if path == "" && errors.Is(err, fs.ErrNotExist) {
			return &FileConfig{}, nil
		}

		return nil, &ConfigError{Err: err}
	}

	c := &FileConfig{path: configPath}
	if err := yaml.Unmarshal(raw, &c.Overlay); err != nil {
		return c, &ConfigError{Err: fmt.Errorf("parse %s: %w", configPath, err)}
	}

	return c, nil
}

// SaveFileConfig writes the overlay to the given or default path. The file
// holds the API key, so it is created owner read-write only.
func SaveFileConfig(path string, o *types.Overlay) (string, error) {
	defaultPath, err := defaultConfigPath()
	if err != nil {
		return "", err
	}

	configPath := cmp.Or(path, defaultPath)

	raw, err := yaml.Marshal(o)
	if err != nil {
		return "", &ConfigError{Err: err}
	}

	if err := os.WriteFile(filepath.Clean(configPath), raw, 0o600); err != nil {
		return "", &ConfigError{Err: err}
	}

	return configPath, nil
}

// GenerateDefault returns the built-in configuration rendered as YAML,
// suitable as a settings file starting point.
func GenerateDefault() string {
	out, err := yaml.Marshal(types.Default())
	if err != nil {
		panic("config: marshal default config: " + err.Error())
	}

	return string(out)
}

func openLogFile(dir, name string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, err
	}

	var (
		filename = filepath.Join(dir, name)
		flag     = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	)

	return os.OpenFile(filepath.Clean(filename), flag, 0o600) //nolint:gosec // internal filename
}

func defaultStateDir() (string, error) {
	if stateDir, ok := os.LookupEnv("XDG_STATE_HOME"); ok {
		return filepath.Join(stateDir, appName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, ".local", "state", appName), nil
}

func defaultConfigPath() (string, error) {
	if p, ok := os.LookupEnv(envConfigPathKeyOverride); ok {
		return p, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, defaultConfigName), nil
}
