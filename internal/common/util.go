package common

import (
	"crypto/rand"
	"encoding/hex"
)

// MakeRandHexString returns a hex string built from size random bytes, so the
// result is 2*size characters long. Used for refresh token generation.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// WipeByteArray zeroes the given slice in place. Callers use it to scrub
// passwords from memory once they are no longer needed.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
