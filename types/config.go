// Package types defines the resolved configuration schema shared across the
// cli and llm packages, together with the typed overlay used for layered
// resolution (defaults <- settings file <- environment).
package types

import "slices"

// SearchMode controls how much web searching the API performs per request.
type SearchMode string

const (
	SearchModeLow    SearchMode = "low"
	SearchModeMedium SearchMode = "medium"
	SearchModeHigh   SearchMode = "high"
)

// ParseSearchMode returns the matching mode, or false for unrecognized input.
func ParseSearchMode(s string) (SearchMode, bool) {
	switch SearchMode(s) {
	case SearchModeLow, SearchModeMedium, SearchModeHigh:
		return SearchMode(s), true
	default:
		return "", false
	}
}

// OutputFormat selects how answers are rendered.
type OutputFormat string

const (
	FormatMarkdown OutputFormat = "markdown"
	FormatJSON     OutputFormat = "json"
	FormatPlain    OutputFormat = "plain"
)

// ParseOutputFormat returns the matching format, or false for unrecognized input.
func ParseOutputFormat(s string) (OutputFormat, bool) {
	switch OutputFormat(s) {
	case FormatMarkdown, FormatJSON, FormatPlain:
		return OutputFormat(s), true
	default:
		return "", false
	}
}

// Config is the effective configuration for one invocation.
// It is fully resolved: every field holds a usable value.
// Treated as read-only after resolution.
type Config struct {
	API      APIConfig      `json:"api"      yaml:"api"`
	Models   ModelsConfig   `json:"models"   yaml:"models"`
	Agent    AgentConfig    `json:"agent"    yaml:"agent"`
	Research ResearchConfig `json:"research" yaml:"research"`
	Output   OutputConfig   `json:"output"   yaml:"output"`
}

type APIConfig struct {
	Key     string `json:"api_key,omitempty" yaml:"key,omitempty"`
	BaseURL string `json:"base_url"          yaml:"base_url"`
	Timeout int    `json:"timeout"           yaml:"timeout"` // milliseconds
}

// ModelsConfig holds the named model slots.
type ModelsConfig struct {
	Default      string `json:"default"       yaml:"default"`
	Search       string `json:"search"        yaml:"search"`
	Reasoning    string `json:"reasoning"     yaml:"reasoning"`
	Fast         string `json:"fast"          yaml:"fast"`
	DeepResearch string `json:"deep_research" yaml:"deep_research"`
}

type AgentConfig struct {
	MaxIterations int     `json:"max_iterations" yaml:"max_iterations"`
	Temperature   float64 `json:"temperature"    yaml:"temperature"`
	MaxTokens     int     `json:"max_tokens"     yaml:"max_tokens"`
	TopP          float64 `json:"top_p"          yaml:"top_p"`
}

type ResearchConfig struct {
	SearchMode         SearchMode `json:"search_mode"                    yaml:"search_mode"`
	IncludeCitations   bool       `json:"include_citations"              yaml:"include_citations"`
	FocusOnRecent      bool       `json:"focus_on_recent"                yaml:"focus_on_recent"`
	SearchDomainFilter []string   `json:"search_domain_filter,omitempty" yaml:"search_domain_filter,omitempty"`
}

type OutputConfig struct {
	Format  OutputFormat `json:"format"  yaml:"format"`
	Stream  bool         `json:"stream"  yaml:"stream"`
	Verbose bool         `json:"verbose" yaml:"verbose"`
}

const (
	DefaultBaseURL   = "https://api.perplexity.ai"
	DefaultTimeoutMS = 60000
)

// Default returns the built-in configuration. Every leaf is defined.
func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Timeout: DefaultTimeoutMS,
		},
		Models: ModelsConfig{
			Default:      "sonar-pro",
			Search:       "sonar-pro",
			Reasoning:    "sonar-reasoning-pro",
			Fast:         "sonar",
			DeepResearch: "sonar-deep-research",
		},
		Agent: AgentConfig{
			MaxIterations: 10,
			Temperature:   0.7,
			MaxTokens:     4000,
			TopP:          0.9,
		},
		Research: ResearchConfig{
			SearchMode:       SearchModeMedium,
			IncludeCitations: true,
			FocusOnRecent:    true,
		},
		Output: OutputConfig{
			Format:  FormatMarkdown,
			Stream:  true,
			Verbose: false,
		},
	}
}

// Overlay is a partial configuration: nil leaves are unset and contribute
// nothing when merged. The settings file and the environment table both
// produce this shape.
type Overlay struct {
	API      *APIOverlay      `json:"api,omitempty"      yaml:"api,omitempty"`
	Models   *ModelsOverlay   `json:"models,omitempty"   yaml:"models,omitempty"`
	Agent    *AgentOverlay    `json:"agent,omitempty"    yaml:"agent,omitempty"`
	Research *ResearchOverlay `json:"research,omitempty" yaml:"research,omitempty"`
	Output   *OutputOverlay   `json:"output,omitempty"   yaml:"output,omitempty"`
}

type APIOverlay struct {
	Key     *string `json:"api_key,omitempty"  yaml:"key,omitempty"`
	BaseURL *string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Timeout *int    `json:"timeout,omitempty"  yaml:"timeout,omitempty"`
}

type ModelsOverlay struct {
	Default      *string `json:"default,omitempty"       yaml:"default,omitempty"`
	Search       *string `json:"search,omitempty"        yaml:"search,omitempty"`
	Reasoning    *string `json:"reasoning,omitempty"     yaml:"reasoning,omitempty"`
	Fast         *string `json:"fast,omitempty"          yaml:"fast,omitempty"`
	DeepResearch *string `json:"deep_research,omitempty" yaml:"deep_research,omitempty"`
}

type AgentOverlay struct {
	MaxIterations *int     `json:"max_iterations,omitempty" yaml:"max_iterations,omitempty"`
	Temperature   *float64 `json:"temperature,omitempty"    yaml:"temperature,omitempty"`
	MaxTokens     *int     `json:"max_tokens,omitempty"     yaml:"max_tokens,omitempty"`
	TopP          *float64 `json:"top_p,omitempty"          yaml:"top_p,omitempty"`
}

type ResearchOverlay struct {
	SearchMode         *SearchMode `json:"search_mode,omitempty"          yaml:"search_mode,omitempty"`
	IncludeCitations   *bool       `json:"include_citations,omitempty"    yaml:"include_citations,omitempty"`
	FocusOnRecent      *bool       `json:"focus_on_recent,omitempty"      yaml:"focus_on_recent,omitempty"`
	SearchDomainFilter []string    `json:"search_domain_filter,omitempty" yaml:"search_domain_filter,omitempty"`
}

type OutputOverlay struct {
	Format  *OutputFormat `json:"format,omitempty"  yaml:"format,omitempty"`
	Stream  *bool         `json:"stream,omitempty"  yaml:"stream,omitempty"`
	Verbose *bool         `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

// Merge overlays o onto base, field by field. Unset (nil) leaves never erase
// base values, slice leaves replace wholesale, and a nil overlay returns base
// unchanged. base is not mutated.
func Merge(base Config, o *Overlay) Config {
	out := base
	out.Research.SearchDomainFilter = slices.Clone(base.Research.SearchDomainFilter)

	if o == nil {
		return out
	}

	if a := o.API; a != nil {
		setIf(&out.API.Key, a.Key)
		setIf(&out.API.BaseURL, a.BaseURL)
		setIf(&out.API.Timeout, a.Timeout)
	}

	if m := o.Models; m != nil {
		setIf(&out.Models.Default, m.Default)
		setIf(&out.Models.Search, m.Search)
		setIf(&out.Models.Reasoning, m.Reasoning)
		setIf(&out.Models.Fast, m.Fast)
		setIf(&out.Models.DeepResearch, m.DeepResearch)
	}

	if a := o.Agent; a != nil {
		setIf(&out.Agent.MaxIterations, a.MaxIterations)
		setIf(&out.Agent.Temperature, a.Temperature)
		setIf(&out.Agent.MaxTokens, a.MaxTokens)
		setIf(&out.Agent.TopP, a.TopP)
	}

	if r := o.Research; r != nil {
		setIf(&out.Research.SearchMode, r.SearchMode)
		setIf(&out.Research.IncludeCitations, r.IncludeCitations)
		setIf(&out.Research.FocusOnRecent, r.FocusOnRecent)

		if r.SearchDomainFilter != nil {
			out.Research.SearchDomainFilter = slices.Clone(r.SearchDomainFilter)
		}
	}

	if p := o.Output; p != nil {
		setIf(&out.Output.Format, p.Format)
		setIf(&out.Output.Stream, p.Stream)
		setIf(&out.Output.Verbose, p.Verbose)
	}

	return out
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
