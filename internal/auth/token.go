package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// SessionTokenBytes is the amount of randomness in a session token.
// 32 bytes encode to 43 base64url characters.
const SessionTokenBytes = 32

// GenerateSessionToken creates an opaque random session token.
// Returns the plaintext token (sent to the client once) and its hash
// (the only form that is stored).
func GenerateSessionToken() (token, hash string, err error) {
	b := make([]byte, SessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", "", fmt.Errorf("generate session token: %w", err)
	}

	token = base64.RawURLEncoding.EncodeToString(b)
	return token, HashToken(token), nil
}

// HashToken returns the hex SHA-256 digest of a session token.
// This is a lookup key, not a password hash: tokens carry 256 bits of
// entropy, so a fast digest is sufficient.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
