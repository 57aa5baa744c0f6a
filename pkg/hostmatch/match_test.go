// SPDX-License-Identifier: MPL-2.0

package hostmatch

import (
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		hostname string
		want     string
	}{
		{"strips trailing .local", "mymac.local", "mymac"},
		{"plain hostname unchanged", "jrlogin08.jureca", "jrlogin08.jureca"},
		{"only one suffix stripped", "mymac.local.local", "mymac.local"},
		{"case sensitive", "mymac.LOCAL", "mymac.LOCAL"},
		{"empty stays empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Normalize(tt.hostname); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.hostname, got, tt.want)
			}
		})
	}
}

func TestMatchesWildcardSpecials(t *testing.T) {
	t.Parallel()

	hosts := []string{"", "localhost", "jrlogin08.jureca", "node01.cluster.example.com", "mymac.local"}
	for _, pattern := range []Pattern{"*", "any", "localhost"} {
		for _, host := range hosts {
			if !Matches(host, pattern) {
				t.Errorf("Matches(%q, %q) = false, want true", host, pattern)
			}
		}
	}
}

func TestMatchesLiteral(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		hostname string
		pattern  Pattern
		want     bool
	}{
		{"exact match", "jureca", "jureca", true},
		{"dot component match", "jrlogin08.jureca", "jureca", true},
		{"first component match", "jrlogin08.jureca", "jrlogin08", true},
		{"middle component match", "node01.cluster.example.com", "cluster", true},
		{"domain suffix with leading dot", "login.fz-juelich.de", ".fz-juelich.de", true},
		{"final label-group suffix", "login03.jureca.fz-juelich.de", "fz-juelich.de", true},
		{"no substring matching", "jrlogin08.jureca", "login", false},
		{"component prefix does not match", "login03.jureca.fz-juelich.de", "jrlogin", false},
		{"unrelated host", "mylaptop", "jureca", false},
		{"normalized before matching", "mymac.local", "mymac", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Matches(tt.hostname, tt.pattern); got != tt.want {
				t.Errorf("Matches(%q, %q) = %v, want %v", tt.hostname, tt.pattern, got, tt.want)
			}
		})
	}
}

func TestMatchesGlob(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		hostname string
		pattern  Pattern
		want     bool
	}{
		{"prefix glob matches", "jrlogin08.jureca", "jrlogin*", true},
		{"prefix glob rejects", "login03.jureca", "jrlogin*", false},
		{"suffix glob matches", "login03.jureca", "*.jureca", true},
		{"suffix glob rejects", "login03.juwels", "*.jureca", false},
		{"question mark matches one char", "node1", "node?", true},
		{"question mark rejects two chars", "node12", "node?", false},
		{"mixed glob", "jrlogin08.jureca", "jr*0?.jureca", true},
		{"glob is anchored", "xjrlogin08", "jrlogin*", false},
		{"star spans many chars", "a-very-long-host.example", "a*example", true},
		{"empty host against star", "", "*x", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Matches(tt.hostname, tt.pattern); got != tt.want {
				t.Errorf("Matches(%q, %q) = %v, want %v", tt.hostname, tt.pattern, got, tt.want)
			}
		})
	}
}

// The prefix/suffix fast paths must be indistinguishable from the general
// recursive matcher.
func TestGlobFastPathsAgreeWithGeneralMatcher(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		host := rapid.StringMatching(`[a-z0-9.-]{0,20}`).Draw(rt, "host")
		stem := rapid.StringMatching(`[a-z0-9.-]{0,8}`).Draw(rt, "stem")

		prefixPat := stem + "*"
		if got, want := Matches(host, Pattern(prefixPat)), globMatch(prefixPat, Normalize(host)); got != want {
			rt.Fatalf("prefix fast path diverges: Matches(%q, %q) = %v, glob = %v", host, prefixPat, got, want)
		}

		suffixPat := "*" + stem
		if got, want := Matches(host, Pattern(suffixPat)), globMatch(suffixPat, Normalize(host)); got != want {
			rt.Fatalf("suffix fast path diverges: Matches(%q, %q) = %v, glob = %v", host, suffixPat, got, want)
		}
	})
}

func TestPrefixGlobEqualsHasPrefix(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		host := rapid.StringMatching(`[a-z0-9.-]{0,20}`).Draw(rt, "host")
		if got, want := Matches(host, "foo*"), strings.HasPrefix(Normalize(host), "foo"); got != want {
			rt.Fatalf("Matches(%q, \"foo*\") = %v, want %v", host, got, want)
		}
		if got, want := Matches(host, "*foo"), strings.HasSuffix(Normalize(host), "foo"); got != want {
			rt.Fatalf("Matches(%q, \"*foo\") = %v, want %v", host, got, want)
		}
	})
}

func TestMatchesAny(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		hostname string
		patterns []Pattern
		want     bool
	}{
		{"empty list matches everything", "whatever.example.com", nil, true},
		{"single matching pattern", "jrlogin08.jureca", []Pattern{"jureca"}, true},
		{"or across the list", "jrlogin08.jureca", []Pattern{"juwels", "jureca"}, true},
		{"no pattern matches", "jrlogin08.jureca", []Pattern{"juwels", "booster"}, false},
		{"special short-circuits", "anything", []Pattern{"nope", "*"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := MatchesAny(tt.hostname, tt.patterns); got != tt.want {
				t.Errorf("MatchesAny(%q, %v) = %v, want %v", tt.hostname, tt.patterns, got, tt.want)
			}
		})
	}
}

func TestPatternValidate(t *testing.T) {
	t.Parallel()

	if err := Pattern("jureca").Validate(); err != nil {
		t.Errorf("Validate() on valid pattern returned %v", err)
	}
	for _, p := range []Pattern{"", "   ", "\t"} {
		if p.IsValid() {
			t.Errorf("Pattern(%q).IsValid() = true, want false", p)
		}
	}
}

func TestParseJoinListRoundTrip(t *testing.T) {
	t.Parallel()

	patterns := []Pattern{"jureca", "juwels*", ".fz-juelich.de"}
	joined := JoinList(patterns)
	if joined != "jureca,juwels*,.fz-juelich.de" {
		t.Fatalf("JoinList() = %q", joined)
	}

	parsed := ParseList(joined)
	if len(parsed) != len(patterns) {
		t.Fatalf("ParseList() returned %d patterns, want %d", len(parsed), len(patterns))
	}
	for i := range patterns {
		if parsed[i] != patterns[i] {
			t.Errorf("ParseList()[%d] = %q, want %q", i, parsed[i], patterns[i])
		}
	}

	if got := ParseList(" , ,"); got != nil {
		t.Errorf("ParseList of empty segments = %v, want nil", got)
	}
}
