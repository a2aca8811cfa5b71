package common

import (
	"crypto/rand"
	"encoding/base64"
)

// GenerateRandByteArray returns n cryptographically random bytes.
func GenerateRandByteArray(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

// GenerateRandString returns a URL-safe random string derived from n random
// bytes (length is the base64url encoding of n bytes, no padding).
func GenerateRandString(n int) string {
	return base64.RawURLEncoding.EncodeToString(GenerateRandByteArray(n))
}

// WipeByteArray overwrites the slice contents with zeros. Used for passwords
// read from the terminal once they are no longer needed.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
