// Package hash fingerprints session contents.
//
// A session's revision is the hash of its serialized layers and orderings.
// Saving with an expected revision lets the state store detect that another
// process changed the session in the meantime.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// Hasher computes content fingerprints.
type Hasher interface {
	// Sum returns the fingerprint of data.
	Sum(data []byte) string
}

// SHA256Hasher implements Hasher using SHA-256, truncated to 16 hex digits.
type SHA256Hasher struct{}

// NewSHA256Hasher creates a new SHA256Hasher.
func NewSHA256Hasher() *SHA256Hasher {
	return &SHA256Hasher{}
}

// Sum returns the first 8 bytes of the SHA-256 digest of data, hex encoded.
func (h *SHA256Hasher) Sum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}

// FakeHasher returns sequential revisions for testing.
type FakeHasher struct {
	next   int
	byData map[string]string
}

// NewFakeHasher creates a new FakeHasher.
func NewFakeHasher() *FakeHasher {
	return &FakeHasher{byData: make(map[string]string)}
}

// Sum returns "rev-N", stable for identical data.
func (h *FakeHasher) Sum(data []byte) string {
	if rev, ok := h.byData[string(data)]; ok {
		return rev
	}
	h.next++
	rev := "rev-" + strconv.Itoa(h.next)
	h.byData[string(data)] = rev
	return rev
}
