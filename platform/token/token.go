// Package token provides opaque token generation for the lead publishing
// flow.
package token

import (
	"crypto/rand"
	"encoding/base64"
)

// GenerateRandomToken returns a URL-safe random token of size random bytes.
func GenerateRandomToken(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
