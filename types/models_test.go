package types_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/plxdev/plx-cli/types"
)

func TestResolveModel(t *testing.T) {
	models := types.Default().Models

	tests := []struct {
		name        string
		requested   string
		want        string
		wantInvalid bool
	}{
		{
			name:      "empty resolves to configured default",
			requested: "",
			want:      models.Default,
		},
		{
			name:      "known model passes through",
			requested: "sonar-reasoning",
			want:      "sonar-reasoning",
		},
		{
			name:        "unknown model falls back and flags invalid",
			requested:   "not-a-model",
			want:        models.Default,
			wantInvalid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, invalid := models.ResolveModel(tt.requested)

			if got != tt.want || invalid != tt.wantInvalid {
				t.Errorf("ResolveModel(%q) = (%q, %v), want (%q, %v)",
					tt.requested, got, invalid, tt.want, tt.wantInvalid)
			}
		})
	}
}

func TestValidateAPIKeyFormat(t *testing.T) {
	valid := types.APIKeyPrefix + strings.Repeat("a", 40)

	tests := []struct {
		name string
		key  string
		want error
	}{
		{name: "empty", key: "", want: types.ErrKeyEmpty},
		{name: "blank", key: "   ", want: types.ErrKeyEmpty},
		{name: "wrong prefix", key: "sk-" + strings.Repeat("a", 40), want: types.ErrKeyWrongPrefix},
		{name: "too short", key: types.APIKeyPrefix + strings.Repeat("a", 10), want: types.ErrKeyTooShort},
		{name: "too long", key: types.APIKeyPrefix + strings.Repeat("a", 200), want: types.ErrKeyTooLong},
		{name: "invalid chars", key: types.APIKeyPrefix + strings.Repeat("a", 30) + "!!!", want: types.ErrKeyInvalidChars},
		{name: "valid", key: valid, want: nil},
		{name: "valid with separators", key: types.APIKeyPrefix + strings.Repeat("aB3_-", 8), want: nil},
		{name: "exactly 37 chars", key: types.APIKeyPrefix + strings.Repeat("x", 32), want: nil},
		{name: "exactly 128 chars", key: types.APIKeyPrefix + strings.Repeat("x", 123), want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := types.ValidateAPIKeyFormat(tt.key); !errors.Is(got, tt.want) {
				t.Errorf("ValidateAPIKeyFormat(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}
