// SPDX-License-Identifier: MPL-2.0

// Package log provides zenv's structured logging on top of
// charmbracelet/log. Output goes to stderr so eval-able command output
// (zenv activate, zenv path) stays clean on stdout. The default level is
// Warn; --verbose lowers it to Debug.
package log

import (
	"os"

	charmlog "github.com/charmbracelet/log"
)

var logger = charmlog.NewWithOptions(os.Stderr, charmlog.Options{
	Prefix: "zenv",
	Level:  charmlog.WarnLevel,
})

// SetVerbose switches between the quiet default (warnings and errors
// only) and full debug output.
func SetVerbose(verbose bool) {
	if verbose {
		logger.SetLevel(charmlog.DebugLevel)
	} else {
		logger.SetLevel(charmlog.WarnLevel)
	}
}

// Debug logs at debug level with optional key-value pairs.
func Debug(msg string, keyvals ...any) { logger.Debug(msg, keyvals...) }

// Info logs at info level with optional key-value pairs.
func Info(msg string, keyvals ...any) { logger.Info(msg, keyvals...) }

// Warn logs at warn level with optional key-value pairs.
func Warn(msg string, keyvals ...any) { logger.Warn(msg, keyvals...) }

// Error logs at error level with optional key-value pairs.
func Error(msg string, keyvals ...any) { logger.Error(msg, keyvals...) }
