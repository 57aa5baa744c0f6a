// SPDX-License-Identifier: MPL-2.0

// Package hostmatch decides whether a hostname is covered by an
// environment's target-machine patterns.
//
// Matching is anchored: a glob pattern must cover the whole normalized
// hostname, never a substring. Literal (glob-free) patterns additionally
// match individual dot-separated hostname components and domain suffixes,
// so the pattern "jureca" covers the login node "jrlogin08.jureca".
package hostmatch

import "strings"

// localSuffix is stripped from hostnames before matching. macOS reports
// "<name>.local" via the mDNS resolver; target patterns are written
// without it.
const localSuffix = ".local"

// Normalize strips one trailing ".local" suffix (exact, case-sensitive)
// from the hostname. All matching operates on the normalized form.
func Normalize(hostname string) string {
	return strings.TrimSuffix(hostname, localSuffix)
}

// Matches reports whether the normalized hostname is covered by pattern.
func Matches(hostname string, pattern Pattern) bool {
	if pattern.IsWildcardSpecial() {
		return true
	}

	host := Normalize(hostname)
	pat := string(pattern)

	if pattern.HasGlobMeta() {
		// Pure prefix/suffix patterns are the common case for node names
		// like "jrlogin*"; the fast paths must agree with globMatch.
		if trimmed, ok := strings.CutSuffix(pat, "*"); ok && !strings.ContainsAny(trimmed, "*?") {
			return strings.HasPrefix(host, trimmed)
		}
		if trimmed, ok := strings.CutPrefix(pat, "*"); ok && !strings.ContainsAny(trimmed, "*?") {
			return strings.HasSuffix(host, trimmed)
		}
		return globMatch(pat, host)
	}

	return literalMatch(host, pat)
}

// MatchesAny reports whether any pattern in the list covers the hostname.
// An empty list matches every hostname: environments without explicit
// targets opt out of host filtering.
func MatchesAny(hostname string, patterns []Pattern) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, p := range patterns {
		if Matches(hostname, p) {
			return true
		}
	}
	return false
}

// literalMatch applies the glob-free rules: exact equality, equality with
// one dot-separated hostname component, leading-dot domain suffix, and
// final label-group suffix (hostname ends with "."+pattern).
func literalMatch(host, pattern string) bool {
	if host == pattern {
		return true
	}
	for _, label := range strings.Split(host, ".") {
		if label == pattern {
			return true
		}
	}
	if strings.HasPrefix(pattern, ".") {
		return strings.HasSuffix(host, pattern)
	}
	return strings.HasSuffix(host, "."+pattern)
}

// globMatch is a recursive backtracking matcher over the full string:
// '*' matches zero or more characters, '?' matches exactly one.
// Performance is a non-issue at hostname scale.
func globMatch(pattern, s string) bool {
	if pattern == "" {
		return s == ""
	}

	switch pattern[0] {
	case '*':
		// Try every possible span for the star, including the empty one.
		for i := 0; i <= len(s); i++ {
			if globMatch(pattern[1:], s[i:]) {
				return true
			}
		}
		return false
	case '?':
		return s != "" && globMatch(pattern[1:], s[1:])
	default:
		return s != "" && s[0] == pattern[0] && globMatch(pattern[1:], s[1:])
	}
}
