// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for identifier resolution. Both are user-correctable:
// the CLI renders them with the actionable next step.
var (
	// ErrNotFound means no entry matched the identifier.
	ErrNotFound = errors.New("environment not found")

	// ErrAmbiguous means an ID prefix matched more than one entry.
	ErrAmbiguous = errors.New("identifier is ambiguous")
)

type (
	// NotFoundError carries the identifier that matched nothing.
	NotFoundError struct {
		Identifier string
	}

	// AmbiguousError carries the colliding entries' names so the caller
	// can present them.
	AmbiguousError struct {
		Identifier string
		Names      []string
	}
)

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no registered environment matches %q", e.Identifier)
}

// Unwrap returns ErrNotFound so callers can classify with errors.Is.
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// Error implements the error interface.
func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("identifier %q is ambiguous, matches: %s",
		e.Identifier, strings.Join(e.Names, ", "))
}

// Unwrap returns ErrAmbiguous so callers can classify with errors.Is.
func (e *AmbiguousError) Unwrap() error { return ErrAmbiguous }

// Resolve maps a user-supplied identifier to exactly one entry.
//
// Exact name match wins immediately, then exact full-ID match: an exact
// hit always short-circuits the prefix search, even when the identifier
// is also a valid prefix of other IDs. Only identifiers inside the
// partial-ID window (at least MinPrefixLength characters, shorter than a
// full ID) are tried as ID prefixes; anything shorter resolves by exact
// name or not at all, so a short name can never accidentally prefix-match
// an unrelated ID.
func (r *Registry) Resolve(identifier string) (*Entry, error) {
	if entry := r.Lookup(identifier); entry != nil {
		return entry, nil
	}

	if len(identifier) < MinPrefixLength || len(identifier) >= IDLength {
		return nil, &NotFoundError{Identifier: identifier}
	}

	var matches []*Entry
	for i := range r.Entries {
		if strings.HasPrefix(r.Entries[i].ID, identifier) {
			matches = append(matches, &r.Entries[i])
		}
	}

	switch len(matches) {
	case 0:
		return nil, &NotFoundError{Identifier: identifier}
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.Name
		}
		return nil, &AmbiguousError{Identifier: identifier, Names: names}
	}
}
