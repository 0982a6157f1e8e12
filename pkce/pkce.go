// Package pkce implements the client side of RFC 7636 Proof Key for Code Exchange.
package pkce

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/oauth2"
)

const (
	// MethodS256 is the only challenge method the gateway sends.
	MethodS256 = "S256"

	minVerifierLength = 43
	maxVerifierLength = 128
)

// GenerateVerifier returns a 43 character verifier built from 32 random bytes.
// It panics if crypto/rand fails.
func GenerateVerifier() string {
	return oauth2.GenerateVerifier()
}

// DeriveChallenge returns BASE64URL(SHA256(ASCII(verifier))) without padding.
func DeriveChallenge(verifier string) string {
	return oauth2.S256ChallengeFromVerifier(verifier)
}

// RandomString returns n bytes from crypto/rand encoded as unpadded base64url.
// Session ids and state values use it.
func RandomString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("pkce.RandomString: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// ValidVerifier reports whether v only uses the unreserved character set and
// has a length within 43..128.
func ValidVerifier(v string) bool {
	if len(v) < minVerifierLength || len(v) > maxVerifierLength {
		return false
	}
	for _, c := range v {
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		case c == '-', c == '.', c == '_', c == '~':
		default:
			return false
		}
	}
	return true
}
