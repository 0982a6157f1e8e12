package token

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-bff-gateway/internal/utils"
)

// Claims is the normalised identity extracted from a validated token.
type Claims struct {
	Subject     string
	DisplayName string
	Email       string
	Issuer      string
	Audience    []string
	Roles       []string
	IssuedAt    time.Time
	ExpiresAt   time.Time
	Raw         map[string]any
}

// NewClaims copies the registered and profile claims out of a claim map.
func NewClaims(raw jwt.MapClaims) *Claims {
	c := &Claims{
		DisplayName: DisplayName(raw),
		Email:       Email(raw),
		Roles:       utils.StringSlice(raw["roles"]),
		Raw:         map[string]any(raw),
	}
	c.Subject, _ = raw.GetSubject()
	c.Issuer, _ = raw.GetIssuer()
	if aud, err := raw.GetAudience(); err == nil {
		c.Audience = []string(aud)
	}
	if iat, err := raw.GetIssuedAt(); err == nil && iat != nil {
		c.IssuedAt = iat.Time
	}
	if exp, err := raw.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c
}

// DisplayName picks name, then preferred_username, then upn, then sub.
func DisplayName(raw map[string]any) string {
	return firstString(raw, "name", "preferred_username", "upn", "sub")
}

// Email picks email, then preferred_username.
func Email(raw map[string]any) string {
	return firstString(raw, "email", "preferred_username")
}

func firstString(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := raw[k].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}
