// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing error context.
//
// ActionableError pairs a failure with the operation, the resource
// involved, and concrete suggestions for the next step. The issue
// catalog holds longer markdown help cards for the recurring failure
// situations (no zenvfile, host not eligible, ambiguous identifier),
// rendered with glamour.
package issue
