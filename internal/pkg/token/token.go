package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// tokenBytes is the entropy behind every issued token. 48 random bytes give a
// 96-character hex string, unguessable and safe as a URL path segment.
const tokenBytes = 48

// New generates a cryptographically random single-use token. Generation is
// pure: callers persist the token and enforce expiry themselves.
func New() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
