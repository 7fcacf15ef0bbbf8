package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// RandomString returns a hex string of the requested length from a CSPRNG.
// Used for per-reservation access tokens; never derived from other fields.
func RandomString(length int) string {
	bytes := make([]byte, (length+1)/2)
	if _, err := rand.Read(bytes); err != nil {
		panic(err)
	}
	return hex.EncodeToString(bytes)[:length]
}
