package token

import (
	"context"
	"maps"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// FixedClaimsValidator accepts any structurally valid token and returns a
// fixed identity. It performs no signature, issuer or audience check and must
// only be wired in local development.
type FixedClaimsValidator struct {
	claims jwt.MapClaims
	ttl    time.Duration
	now    func() time.Time
}

var _ Validator = (*FixedClaimsValidator)(nil)

type FixedClaimsOption func(*FixedClaimsValidator)

// WithFixedClaims overrides the identity returned by the validator.
func WithFixedClaims(claims map[string]any) FixedClaimsOption {
	return func(v *FixedClaimsValidator) {
		v.claims = jwt.MapClaims(maps.Clone(claims))
	}
}

// WithFixedClock replaces time.Now.
func WithFixedClock(now func() time.Time) FixedClaimsOption {
	return func(v *FixedClaimsValidator) {
		v.now = now
	}
}

func NewFixedClaimsValidator(exp Expectations, opts ...FixedClaimsOption) *FixedClaimsValidator {
	v := &FixedClaimsValidator{
		claims: jwt.MapClaims{
			"sub":                "dev-user",
			"name":               "Development User",
			"preferred_username": "dev.user@example.com",
			"email":              "dev.user@example.com",
			"iss":                exp.Issuer,
			"aud":                exp.ClientID,
		},
		ttl: time.Hour,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate only checks the token's structure. The returned claims are always
// the configured identity with a fresh issued-at and expiry.
func (v *FixedClaimsValidator) Validate(_ context.Context, rawToken string) (*Claims, error) {
	if _, err := parseStructure(rawToken); err != nil {
		return nil, err
	}

	now := v.now()
	claims := maps.Clone(v.claims)
	claims["iat"] = float64(now.Unix())
	claims["exp"] = float64(now.Add(v.ttl).Unix())
	return NewClaims(claims), nil
}
