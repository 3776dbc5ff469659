package clierror_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/plxdev/plx-cli/clierror"
	"github.com/plxdev/plx-cli/llm"
)

func TestStandardErrorMessage(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    string
		handled bool
	}{
		{
			name:    "missing api key",
			err:     llm.ErrMissingAPIKey,
			want:    "No API key configured. Set PLX_API_KEY or run 'plx config set-key'.",
			handled: true,
		},
		{
			name:    "wrapped missing api key",
			err:     fmt.Errorf("init client: %w", llm.ErrMissingAPIKey),
			want:    "No API key configured. Set PLX_API_KEY or run 'plx config set-key'.",
			handled: true,
		},
		{
			name:    "network error carries code",
			err:     &llm.RequestError{Code: "ECONNREFUSED", Err: errors.New("dial tcp: connection refused")},
			want:    "Network error (ECONNREFUSED). Check your connection and retry.",
			handled: true,
		},
		{
			name:    "stream error wins over wrapped request error",
			err:     &llm.StreamError{Err: &llm.RequestError{Code: "ECONNRESET", Err: errors.New("read: connection reset")}},
			want:    "Stream interrupted: request failed (ECONNRESET): read: connection reset",
			handled: true,
		},
		{
			name:    "unauthorized",
			err:     &llm.APIError{StatusCode: 401},
			want:    "API key invalid or unauthorized. Check your credentials.",
			handled: true,
		},
		{
			name:    "forbidden",
			err:     &llm.APIError{StatusCode: 403},
			want:    "API key invalid or unauthorized. Check your credentials.",
			handled: true,
		},
		{
			name:    "not found",
			err:     &llm.APIError{StatusCode: 404},
			want:    "Endpoint not found. Check the configured base URL.",
			handled: true,
		},
		{
			name:    "rate limited",
			err:     &llm.APIError{StatusCode: 429},
			want:    "Rate limit exceeded - wait and retry.",
			handled: true,
		},
		{
			name:    "bad gateway",
			err:     &llm.APIError{StatusCode: 502},
			want:    "Server error (502). Try again later.",
			handled: true,
		},
		{
			name:    "unmapped status falls through with detail",
			err:     &llm.APIError{StatusCode: 418, Message: "teapot"},
			want:    "API error (418): teapot",
			handled: true,
		},
		{
			name: "unknown error unhandled",
			err:  errors.New("something else"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, handled := clierror.StandardErrorMessage(tt.err)

			if got != tt.want || handled != tt.handled {
				t.Errorf("StandardErrorMessage() = (%q, %v), want (%q, %v)",
					got, handled, tt.want, tt.handled)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want string
	}{
		{
			name: "nil",
			v:    nil,
			want: "",
		},
		{
			name: "known error uses standard message",
			v:    &llm.APIError{StatusCode: 429},
			want: "Rate limit exceeded - wait and retry.",
		},
		{
			name: "unknown error uses its text",
			v:    errors.New("boom"),
			want: "boom",
		},
		{
			name: "string passes through",
			v:    "panic message",
			want: "panic message",
		},
		{
			name: "arbitrary value rendered as json",
			v:    map[string]int{"code": 7},
			want: `{"code":7}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clierror.Classify(tt.v); got != tt.want {
				t.Errorf("Classify(%v) = %q, want %q", tt.v, got, tt.want)
			}
		})
	}
}
