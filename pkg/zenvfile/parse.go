// SPDX-License-Identifier: MPL-2.0

package zenvfile

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/zenv-dev/zenv/pkg/cueutil"
)

//go:embed zenvfile_schema.cue
var zenvfileSchema string

// Sentinel errors distinguishing the configuration failure kinds. All of
// them are fatal to the current command; none are retried.
var (
	// ErrNotFound means no zenvfile exists at the given path.
	ErrNotFound = errors.New("zenvfile not found")

	// ErrUnreadable means the zenvfile exists but could not be read.
	ErrUnreadable = errors.New("zenvfile unreadable")

	// ErrSchemaInvalid means the zenvfile parsed but violates the schema
	// or misses a required field.
	ErrSchemaInvalid = errors.New("zenvfile schema invalid")
)

// SchemaError wraps a schema or syntax violation with the offending file.
type SchemaError struct {
	Path  string
	Cause error
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	return e.Cause.Error()
}

// Unwrap returns ErrSchemaInvalid so callers can classify with errors.Is.
func (e *SchemaError) Unwrap() error { return ErrSchemaInvalid }

// Parse reads and parses the zenvfile at path.
func Parse(path string) (*Zenvfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
	}
	return ParseBytes(data, path)
}

// ParseBytes parses zenvfile content. The 3-step CUE flow (compile schema,
// unify with user data, validate and decode) handles both CUE and JSON
// input. Validation failures are fatal; required fields are never
// silently defaulted.
func ParseBytes(data []byte, path string) (*Zenvfile, error) {
	result, err := cueutil.ParseAndDecode[Zenvfile](
		zenvfileSchema,
		data,
		"#Zenvfile",
		cueutil.WithFilename(path),
	)
	if err != nil {
		return nil, &SchemaError{Path: path, Cause: err}
	}

	zf := result.Value
	zf.FilePath = path

	if err := zf.Validate(); err != nil {
		return nil, &SchemaError{Path: path, Cause: err}
	}

	return zf, nil
}
