// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"strings"
	"testing"
)

const testSchema = `
#Thing: {
	name:    string
	count?:  int & >=0
	labels?: [...string]
}
`

type thing struct {
	Name   string   `json:"name"`
	Count  int      `json:"count,omitempty"`
	Labels []string `json:"labels,omitempty"`
}

func TestParseAndDecode(t *testing.T) {
	t.Parallel()

	result, err := ParseAndDecode[thing](testSchema, []byte(`name: "venv", count: 3`), "#Thing")
	if err != nil {
		t.Fatalf("ParseAndDecode() error = %v", err)
	}
	if result.Value.Name != "venv" || result.Value.Count != 3 {
		t.Errorf("decoded %+v, want name=venv count=3", result.Value)
	}
}

func TestParseAndDecodeSchemaViolation(t *testing.T) {
	t.Parallel()

	_, err := ParseAndDecode[thing](testSchema, []byte(`name: "x", count: -1`), "#Thing",
		WithFilename("bad.cue"))
	if err == nil {
		t.Fatal("ParseAndDecode() with schema violation returned nil error")
	}
	if !strings.Contains(err.Error(), "bad.cue") {
		t.Errorf("error %q does not mention filename", err)
	}
	if !strings.Contains(err.Error(), "count") {
		t.Errorf("error %q does not mention offending field", err)
	}
}

func TestParseAndDecodeSyntaxError(t *testing.T) {
	t.Parallel()

	_, err := ParseAndDecode[thing](testSchema, []byte(`name: "x", {{`), "#Thing")
	if err == nil {
		t.Fatal("ParseAndDecode() with syntax error returned nil error")
	}
}

func TestParseAndDecodeUnknownField(t *testing.T) {
	t.Parallel()

	_, err := ParseAndDecode[thing](testSchema, []byte(`name: "x", bogus: true`), "#Thing")
	if err == nil {
		t.Fatal("ParseAndDecode() with unknown field returned nil error")
	}
}

func TestParseAndDecodeFileSizeLimit(t *testing.T) {
	t.Parallel()

	_, err := ParseAndDecode[thing](testSchema, []byte(`name: "x"`), "#Thing",
		WithMaxFileSize(4), WithFilename("tiny.cue"))
	if err == nil {
		t.Fatal("ParseAndDecode() over the size limit returned nil error")
	}
	if !strings.Contains(err.Error(), "exceeds maximum") {
		t.Errorf("error %q is not a size-limit error", err)
	}
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path []string
		want string
	}{
		{"empty", nil, ""},
		{"single", []string{"envs"}, "envs"},
		{"nested", []string{"envs", "dev", "python"}, "envs.dev.python"},
		{"index", []string{"modules", "0"}, "modules[0]"},
		{"index then field", []string{"envs", "1", "name"}, "envs[1].name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := formatPath(tt.path); got != tt.want {
				t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
