package llm

import (
	"log/slog"

	"github.com/plxdev/plx-cli/types"
)

// Message is a single chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Payload is the chat completions request body. Built fresh per call and
// never mutated after construction.
type Payload struct {
	Model              string           `json:"model"`
	Messages           []Message        `json:"messages"`
	Stream             bool             `json:"stream"`
	SearchMode         types.SearchMode `json:"search_mode"`
	Temperature        float64          `json:"temperature"`
	MaxTokens          int              `json:"max_tokens"`
	TopP               float64          `json:"top_p"`
	SearchDomainFilter []string         `json:"search_domain_filter,omitempty"`
	RecencyFilter      string           `json:"search_recency_filter,omitempty"`
}

// AskOptions are per-call overrides. Only the model and search mode can be
// overridden per call; sampling parameters always come from the config.
type AskOptions struct {
	Model      string
	SearchMode types.SearchMode
	Stream     *bool
}

// BuildPayload assembles the request body for one question.
//
// The model resolves through the known-model whitelist, preferring the
// per-call override over the configured default; an unknown identifier is
// substituted with the default and logged. Sampling parameters are copied
// verbatim from the agent config.
func BuildPayload(logger *slog.Logger, question string, cfg types.Config, opts AskOptions, stream bool) Payload {
	if logger == nil {
		logger = slog.Default()
	}

	model, invalid := cfg.Models.ResolveModel(opts.Model)
	if invalid {
		logger.Warn("unknown model, falling back to default",
			"requested", opts.Model,
			"default", model,
			"known", types.KnownModels,
		)
	}

	searchMode := cfg.Research.SearchMode
	if opts.SearchMode != "" {
		searchMode = opts.SearchMode
	}

	p := Payload{
		Model:              model,
		Messages:           []Message{{Role: "user", Content: question}},
		Stream:             stream,
		SearchMode:         searchMode,
		Temperature:        cfg.Agent.Temperature,
		MaxTokens:          cfg.Agent.MaxTokens,
		TopP:               cfg.Agent.TopP,
		SearchDomainFilter: cfg.Research.SearchDomainFilter,
	}

	if cfg.Research.FocusOnRecent {
		p.RecencyFilter = "month"
	}

	return p
}
