package utils

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// DigestDocument returns the hex encoded BLAKE2b-256 sum of a serialized document.
func DigestDocument(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}
