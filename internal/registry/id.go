// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

const (
	// IDLength is the fixed length of generated environment IDs.
	// 40 hex characters keep 7-character prefixes usably distinguishing
	// while making collisions across independent environments
	// practically impossible.
	IDLength = 40

	// MinPrefixLength is the shortest identifier treated as an ID
	// prefix during resolution. Shorter identifiers only ever resolve
	// via exact name match.
	MinPrefixLength = 7
)

// NewID generates a fresh environment ID: SHA-256 over the project
// directory, environment name, and a random UUID nonce, hex-encoded and
// truncated to IDLength. The nonce makes every registration's ID fresh;
// the result is a stable-length, filesystem- and shell-safe token.
func NewID(projectDir, name string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%s", projectDir, name, uuid.NewString())
	return hex.EncodeToString(h.Sum(nil))[:IDLength]
}
