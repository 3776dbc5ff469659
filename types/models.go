package types

import (
	"errors"
	"slices"
)

// KnownModels is the fixed set of model identifiers the API accepts.
var KnownModels = []string{
	"sonar",
	"sonar-pro",
	"sonar-reasoning",
	"sonar-reasoning-pro",
	"sonar-deep-research",
}

// ResolveModel picks the effective model for a request.
//
// An empty request resolves to the configured default and is not invalid.
// A known identifier passes through unchanged. Anything else falls back to
// the default with invalid=true so the caller can warn.
func (m ModelsConfig) ResolveModel(requested string) (model string, invalid bool) {
	if requested == "" {
		return m.Default, false
	}

	if slices.Contains(KnownModels, requested) {
		return requested, false
	}

	return m.Default, true
}

const (
	// APIKeyPrefix is the literal prefix every valid key starts with.
	APIKeyPrefix = "pplx-"

	minAPIKeyLen = 37
	maxAPIKeyLen = 128
)

// API key format failures, one per check.
var (
	ErrKeyEmpty        = errors.New("api key: EMPTY")
	ErrKeyWrongPrefix  = errors.New("api key: WRONG_PREFIX")
	ErrKeyTooShort     = errors.New("api key: TOO_SHORT")
	ErrKeyTooLong      = errors.New("api key: TOO_LONG")
	ErrKeyInvalidChars = errors.New("api key: INVALID_CHARS")
)

// ValidateAPIKeyFormat checks the shape of a key without contacting the API.
// The length window is inclusive and measured on the full string, prefix
// included; the suffix may only contain [A-Za-z0-9_-].
func ValidateAPIKeyFormat(key string) error {
	if len(key) == 0 || allBlank(key) {
		return ErrKeyEmpty
	}

	if len(key) < len(APIKeyPrefix) || key[:len(APIKeyPrefix)] != APIKeyPrefix {
		return ErrKeyWrongPrefix
	}

	if len(key) < minAPIKeyLen {
		return ErrKeyTooShort
	}

	if len(key) > maxAPIKeyLen {
		return ErrKeyTooLong
	}

	for _, r := range key[len(APIKeyPrefix):] {
		if !isKeyChar(r) {
			return ErrKeyInvalidChars
		}
	}

	return nil
}

func isKeyChar(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z',
		r >= 'A' && r <= 'Z',
		r >= '0' && r <= '9',
		r == '_', r == '-':
		return true
	default:
		return false
	}
}

func allBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' {
			return false
		}
	}

	return true
}
