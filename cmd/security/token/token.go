package token

import (
	"crypto/rand"
	"encoding/hex"
)

// OpaqueBytes is the entropy of a refresh token. Rendered as hex it is 128 chars.
const OpaqueBytes = 64

// Generate returns n bytes from crypto/rand rendered as lowercase hex (2n chars).
// A non-positive n falls back to OpaqueBytes.
func Generate(n int) string {
	if n <= 0 {
		n = OpaqueBytes
	}

	b := make([]byte, n)
	// crypto/rand.Read never returns an error; a broken OS source crashes the process.
	_, _ = rand.Read(b)

	return hex.EncodeToString(b)
}

// GenerateOpaque returns a fresh refresh token: 64 random bytes, 128 lowercase hex chars.
func GenerateOpaque() string { return Generate(OpaqueBytes) }
