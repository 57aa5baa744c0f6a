// SPDX-License-Identifier: MPL-2.0

package hostmatch

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPattern is the sentinel error wrapped by InvalidPatternError.
var ErrInvalidPattern = errors.New("invalid target pattern")

type (
	// Pattern is a target-machine specifier from a zenvfile. It is either
	// one of the wildcard specials ("*", "any", "localhost"), a glob over
	// the full hostname ('*' and '?' metacharacters), or a literal
	// hostname / domain-component string.
	Pattern string

	// InvalidPatternError is returned when a Pattern fails validation.
	InvalidPatternError struct {
		Value Pattern
	}
)

// Wildcard specials that match every hostname regardless of its value.
const (
	PatternAll       Pattern = "*"
	PatternAny       Pattern = "any"
	PatternLocalhost Pattern = "localhost"
)

// Error implements the error interface.
func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid target pattern %q (must not be empty or whitespace)", string(e.Value))
}

// Unwrap returns ErrInvalidPattern so callers can use errors.Is.
func (e *InvalidPatternError) Unwrap() error { return ErrInvalidPattern }

// Validate returns an error if the pattern is empty or whitespace-only.
func (p Pattern) Validate() error {
	if strings.TrimSpace(string(p)) == "" {
		return &InvalidPatternError{Value: p}
	}
	return nil
}

// IsValid reports whether the pattern passes validation.
func (p Pattern) IsValid() bool { return p.Validate() == nil }

// IsWildcardSpecial reports whether the pattern is one of the specials
// that match every hostname.
func (p Pattern) IsWildcardSpecial() bool {
	return p == PatternAll || p == PatternAny || p == PatternLocalhost
}

// HasGlobMeta reports whether the pattern contains glob metacharacters.
func (p Pattern) HasGlobMeta() bool {
	return strings.ContainsAny(string(p), "*?")
}

// String returns the pattern as a plain string.
func (p Pattern) String() string { return string(p) }

// ParseList splits a comma-joined target-machine string (the denormalized
// registry form) back into patterns, dropping empty segments.
func ParseList(joined string) []Pattern {
	if strings.TrimSpace(joined) == "" {
		return nil
	}
	parts := strings.Split(joined, ",")
	patterns := make([]Pattern, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		patterns = append(patterns, Pattern(trimmed))
	}
	return patterns
}

// JoinList is the inverse of ParseList: it renders patterns in the
// comma-joined form stored in the registry.
func JoinList(patterns []Pattern) string {
	parts := make([]string, len(patterns))
	for i, p := range patterns {
		parts[i] = string(p)
	}
	return strings.Join(parts, ",")
}
