package cli

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/plxdev/plx-cli/genericclioptions"
	"github.com/plxdev/plx-cli/types"
)

func newTestPlxOptions(t *testing.T) (*DefaultPlxOptions, *bytes.Buffer) {
	t.Helper()

	clearPlxEnv(t)
	t.Setenv(envConfigPathKeyOverride, filepath.Join(t.TempDir(), "missing.yaml"))

	o := NewDefaultPlxOptions(genericclioptions.NewTestIOStreamsDiscard(genericclioptions.NewTestTTYFdReader()))

	logBuf := &bytes.Buffer{}
	o.Opts(genericclioptions.WithLogger(slog.New(slog.NewTextHandler(logBuf, nil))))

	return o, logBuf
}

func TestAskOverrides(t *testing.T) {
	t.Run("valid search mode overrides", func(t *testing.T) {
		o, logBuf := newTestPlxOptions(t)
		o.configOptions.flags.searchMode = "high"

		if err := o.Complete(); err != nil {
			t.Fatalf("Complete() error = %v", err)
		}

		if got := o.askOverrides().SearchMode; got != types.SearchModeHigh {
			t.Errorf("SearchMode = %q, want %q", got, types.SearchModeHigh)
		}

		if logBuf.Len() != 0 {
			t.Errorf("unexpected log output: %s", logBuf.String())
		}
	})

	t.Run("invalid search mode dropped with warning", func(t *testing.T) {
		o, logBuf := newTestPlxOptions(t)
		o.configOptions.flags.searchMode = "exhaustive"

		if err := o.Complete(); err != nil {
			t.Fatalf("Complete() error = %v", err)
		}

		// a bad per-call value never fails the invocation
		if err := o.Validate(); err != nil {
			t.Fatalf("Validate() error = %v, want nil", err)
		}

		if got := o.askOverrides().SearchMode; got != "" {
			t.Errorf("SearchMode = %q, want unset so the configured mode applies", got)
		}

		logged := logBuf.String()
		if !strings.Contains(logged, "unknown search mode") || !strings.Contains(logged, "exhaustive") {
			t.Errorf("expected a warning naming the rejected mode, got %q", logged)
		}
	})

	t.Run("model flag passes through unresolved", func(t *testing.T) {
		o, _ := newTestPlxOptions(t)
		o.configOptions.flags.model = "sonar-reasoning"

		if err := o.Complete(); err != nil {
			t.Fatalf("Complete() error = %v", err)
		}

		if got := o.askOverrides().Model; got != "sonar-reasoning" {
			t.Errorf("Model = %q, want %q", got, "sonar-reasoning")
		}
	})
}
