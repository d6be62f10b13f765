package security

import (
	"crypto/rand"
	"encoding/base64"
)

// NewToken returns a URL-safe random token with 256 bits of entropy,
// used for share links and API keys.
func NewToken() (string, error) {
	b := make([]byte, 32)

	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}
