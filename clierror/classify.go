package clierror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/plxdev/plx-cli/llm"
)

// StandardErrorMessage maps known failure types to actionable messages.
// It reports false for errors it does not recognize, in which case the
// caller falls back to the raw error text.
//
// StreamError is matched before RequestError: a wrapped transport failure
// inside an interrupted stream should read as a stream problem.
func StandardErrorMessage(err error) (string, bool) {
	var (
		streamErr *llm.StreamError
		reqErr    *llm.RequestError
		apiErr    *llm.APIError
	)

	switch {
	case errors.Is(err, llm.ErrMissingAPIKey):
		return "No API key configured. Set PLX_API_KEY or run 'plx config set-key'.", true
	case errors.As(err, &streamErr):
		return fmt.Sprintf("Stream interrupted: %v", streamErr.Err), true
	case errors.As(err, &reqErr):
		return fmt.Sprintf("Network error (%s). Check your connection and retry.", reqErr.Code), true
	case errors.As(err, &apiErr):
		return apiErrorMessage(apiErr), true
	}

	return "", false
}

func apiErrorMessage(err *llm.APIError) string {
	switch err.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return "API key invalid or unauthorized. Check your credentials."
	case http.StatusNotFound:
		return "Endpoint not found. Check the configured base URL."
	case http.StatusTooManyRequests:
		return "Rate limit exceeded - wait and retry."
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		return fmt.Sprintf("Server error (%d). Try again later.", err.StatusCode)
	default:
		return fmt.Sprintf("API error (%d): %s", err.StatusCode, err.Message)
	}
}

// Classify renders any recovered value as a display string. It is total:
// every input produces some message.
func Classify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case error:
		if msg, ok := StandardErrorMessage(t); ok {
			return msg
		}

		return t.Error()
	case string:
		return t
	default:
		raw, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}

		return string(raw)
	}
}
