package auth

import (
	"context"

	"github.com/jrsteele09/go-bff-gateway/token"
)

// Principal is the authenticated identity attached to a single request.
type Principal struct {
	Name    string
	Subject string
	Email   string
	Claims  *token.Claims
}

// NewPrincipal names the principal by display name, falling back to subject.
func NewPrincipal(claims *token.Claims) *Principal {
	name := claims.DisplayName
	if name == "" {
		name = claims.Subject
	}
	return &Principal{
		Name:    name,
		Subject: claims.Subject,
		Email:   claims.Email,
		Claims:  claims,
	}
}

type principalContextKey struct{}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext returns the principal set by the authentication filter.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(*Principal)
	return p, ok && p != nil
}
