package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest returns the cache key for a canonical input document: the
// lowercase hex SHA-256 of its bytes.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
