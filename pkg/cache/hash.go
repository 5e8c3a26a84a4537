package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// PayloadKey generates a cache key for a payload source (typically a URL).
// The source is hashed so arbitrary strings become safe, fixed-length keys.
// The key format is: payload:hash(source)
func PayloadKey(source string) string {
	return "payload:" + Hash([]byte(source))
}
