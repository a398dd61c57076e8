package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hasher provides content hashing for resource cache validators.
type Hasher struct{}

// DefaultHasher returns a SHA-256 hasher.
func DefaultHasher() *Hasher {
	return &Hasher{}
}

// Hash computes a hex-encoded SHA-256 of the input data.
func (h *Hasher) Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ETag computes a strong HTTP entity tag for served resource content.
func (h *Hasher) ETag(data []byte) string {
	return `"` + h.Hash(data)[:32] + `"`
}
