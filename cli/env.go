package cli

import (
	"errors"
	"fmt"
	"math"
	"os"
	"reflect"
	"strconv"

	"github.com/plxdev/plx-cli/types"
)

// Environment variable names recognized by the resolver. The table is fixed;
// unknown PLX_* variables are ignored.
const (
	envAPIKey            = "PLX_API_KEY" //nolint:gosec // variable name, not a credential
	envBaseURL           = "PLX_BASE_URL"
	envTimeout           = "PLX_TIMEOUT"
	envModel             = "PLX_MODEL"
	envSearchModel       = "PLX_SEARCH_MODEL"
	envReasoningModel    = "PLX_REASONING_MODEL"
	envFastModel         = "PLX_FAST_MODEL"
	envDeepResearchModel = "PLX_DEEP_RESEARCH_MODEL"
	envMaxIterations     = "PLX_MAX_ITERATIONS"
	envTemperature       = "PLX_TEMPERATURE"
	envMaxTokens         = "PLX_MAX_TOKENS"
	envTopP              = "PLX_TOP_P"
	envSearchMode        = "PLX_SEARCH_MODE"
	envIncludeCitations  = "PLX_INCLUDE_CITATIONS"
	envFocusRecent       = "PLX_FOCUS_RECENT"
	envOutputFormat      = "PLX_OUTPUT_FORMAT"
	envStream            = "PLX_STREAM"
	envVerbose           = "PLX_VERBOSE"

	// envLogLevel tunes the log-file verbosity only; it never enters the
	// configuration overlay.
	envLogLevel = "PLX_LOG_LEVEL"
)

// EnvConfig is the overlay contributed by the process environment.
type EnvConfig struct {
	overlay *types.Overlay
	errs    []error
}

// load reads the fixed variable table into an overlay. Variables that are
// unset contribute nothing; variables that fail to parse are collected and
// skipped so the remaining layers still resolve.
func (env *EnvConfig) load() {
	o := &types.Overlay{}

	api := &types.APIOverlay{}
	envString(envAPIKey, &api.Key)
	envString(envBaseURL, &api.BaseURL)
	env.envInt(envTimeout, &api.Timeout)

	models := &types.ModelsOverlay{}
	envString(envModel, &models.Default)
	envString(envSearchModel, &models.Search)
	envString(envReasoningModel, &models.Reasoning)
	envString(envFastModel, &models.Fast)
	envString(envDeepResearchModel, &models.DeepResearch)

	agent := &types.AgentOverlay{}
	env.envInt(envMaxIterations, &agent.MaxIterations)
	env.envFloat(envTemperature, &agent.Temperature)
	env.envInt(envMaxTokens, &agent.MaxTokens)
	env.envFloat(envTopP, &agent.TopP)

	research := &types.ResearchOverlay{}
	env.envSearchMode(envSearchMode, &research.SearchMode)
	envBool(envIncludeCitations, &research.IncludeCitations)
	envBool(envFocusRecent, &research.FocusOnRecent)

	output := &types.OutputOverlay{}
	env.envFormat(envOutputFormat, &output.Format)
	envBool(envStream, &output.Stream)
	envBool(envVerbose, &output.Verbose)

	if *api != (types.APIOverlay{}) {
		o.API = api
	}

	if *models != (types.ModelsOverlay{}) {
		o.Models = models
	}

	if *agent != (types.AgentOverlay{}) {
		o.Agent = agent
	}

	if !reflect.DeepEqual(*research, types.ResearchOverlay{}) {
		o.Research = research
	}

	if *output != (types.OutputOverlay{}) {
		o.Output = output
	}

	env.overlay = o
}

func (env *EnvConfig) warnf(format string, a ...any) {
	env.errs = append(env.errs, fmt.Errorf(format, a...))
}

func envString(name string, dst **string) {
	if v, ok := os.LookupEnv(name); ok {
		*dst = &v
	}
}

// envBool interprets "true" and "1" as true and any other defined value as
// false. An unset variable contributes nothing.
func envBool(name string, dst **bool) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return
	}

	b := v == "true" || v == "1"
	*dst = &b
}

func (env *EnvConfig) envInt(name string, dst **int) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		env.warnf("%s: invalid integer %q", name, v)
		return
	}

	*dst = &n
}

func (env *EnvConfig) envFloat(name string, dst **float64) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		env.warnf("%s: invalid number %q", name, v)
		return
	}

	*dst = &f
}

func (env *EnvConfig) envSearchMode(name string, dst **types.SearchMode) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return
	}

	mode, ok := types.ParseSearchMode(v)
	if !ok {
		env.warnf("%s: unknown search mode %q", name, v)
		return
	}

	*dst = &mode
}

func (env *EnvConfig) envFormat(name string, dst **types.OutputFormat) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return
	}

	format, ok := types.ParseOutputFormat(v)
	if !ok {
		env.warnf("%s: unknown output format %q", name, v)
		return
	}

	*dst = &format
}

// Err joins every parse failure encountered while loading.
func (env *EnvConfig) Err() error { return errors.Join(env.errs...) }
