package llm_test

import (
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/plxdev/plx-cli/llm"
	"github.com/plxdev/plx-cli/types"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestBuildPayload(t *testing.T) {
	cfg := types.Default()
	cfg.Agent.Temperature = 0.3
	cfg.Agent.MaxTokens = 1234
	cfg.Agent.TopP = 0.5

	tests := []struct {
		name   string
		cfg    types.Config
		opts   llm.AskOptions
		stream bool
		want   llm.Payload
	}{
		{
			name: "defaults with sampling params copied verbatim",
			cfg:  cfg,
			want: llm.Payload{
				Model:       "sonar-pro",
				Messages:    []llm.Message{{Role: "user", Content: "q"}},
				SearchMode:  types.SearchModeMedium,
				Temperature: 0.3,
				MaxTokens:   1234,
				TopP:        0.5,
			},
		},
		{
			name: "per-call model override wins over configured default",
			cfg:  cfg,
			opts: llm.AskOptions{Model: "sonar-reasoning"},
			want: llm.Payload{
				Model:       "sonar-reasoning",
				Messages:    []llm.Message{{Role: "user", Content: "q"}},
				SearchMode:  types.SearchModeMedium,
				Temperature: 0.3,
				MaxTokens:   1234,
				TopP:        0.5,
			},
		},
		{
			name: "unknown model falls back to default",
			cfg:  cfg,
			opts: llm.AskOptions{Model: "gpt-4o"},
			want: llm.Payload{
				Model:       "sonar-pro",
				Messages:    []llm.Message{{Role: "user", Content: "q"}},
				SearchMode:  types.SearchModeMedium,
				Temperature: 0.3,
				MaxTokens:   1234,
				TopP:        0.5,
			},
		},
		{
			name: "per-call search mode override",
			cfg:  cfg,
			opts: llm.AskOptions{SearchMode: types.SearchModeHigh},
			want: llm.Payload{
				Model:       "sonar-pro",
				Messages:    []llm.Message{{Role: "user", Content: "q"}},
				SearchMode:  types.SearchModeHigh,
				Temperature: 0.3,
				MaxTokens:   1234,
				TopP:        0.5,
			},
		},
		{
			name:   "stream flag set",
			cfg:    cfg,
			stream: true,
			want: llm.Payload{
				Model:       "sonar-pro",
				Messages:    []llm.Message{{Role: "user", Content: "q"}},
				Stream:      true,
				SearchMode:  types.SearchModeMedium,
				Temperature: 0.3,
				MaxTokens:   1234,
				TopP:        0.5,
			},
		},
		{
			name: "focus on recent sets month recency filter",
			cfg: func() types.Config {
				c := cfg
				c.Research.FocusOnRecent = true

				return c
			}(),
			want: llm.Payload{
				Model:         "sonar-pro",
				Messages:      []llm.Message{{Role: "user", Content: "q"}},
				SearchMode:    types.SearchModeMedium,
				Temperature:   0.3,
				MaxTokens:     1234,
				TopP:          0.5,
				RecencyFilter: "month",
			},
		},
		{
			name: "domain filter forwarded",
			cfg: func() types.Config {
				c := cfg
				c.Research.SearchDomainFilter = []string{"wikipedia.org", "-reddit.com"}

				return c
			}(),
			want: llm.Payload{
				Model:              "sonar-pro",
				Messages:           []llm.Message{{Role: "user", Content: "q"}},
				SearchMode:         types.SearchModeMedium,
				Temperature:        0.3,
				MaxTokens:          1234,
				TopP:               0.5,
				SearchDomainFilter: []string{"wikipedia.org", "-reddit.com"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := llm.BuildPayload(discardLogger(), "q", tt.cfg, tt.opts, tt.stream)

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("payload mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
