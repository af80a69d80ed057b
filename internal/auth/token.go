package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"regexp"
)

// TokenBytes is the amount of randomness in a bearer token (256 bits).
const TokenBytes = 32

// tokenFormatRegex matches a base64url (unpadded) encoding of TokenBytes bytes.
var tokenFormatRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{43}$`)

// GenerateToken returns a new opaque bearer token from crypto/rand.
func GenerateToken() (string, error) {
	b := make([]byte, TokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// ValidateTokenFormat reports whether token could have come from GenerateToken.
// Lets callers reject garbage without touching a store.
func ValidateTokenFormat(token string) bool {
	return tokenFormatRegex.MatchString(token)
}
