// Package idp talks to the identity provider: it resolves the provider's
// endpoints and exchanges authorization codes for tokens.
package idp

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	apperrors "github.com/jrsteele09/go-bff-gateway/internal/errors"
)

// Endpoints are the provider URLs the gateway depends on.
type Endpoints struct {
	Issuer   string
	AuthURL  string
	TokenURL string
	JWKSURL  string
}

// StaticEndpoints derives the v2.0 endpoints from a tenant scoped authority
// such as https://login.microsoftonline.com/{tenant}.
func StaticEndpoints(authority, issuer, jwksURL string) Endpoints {
	authority = strings.TrimSuffix(authority, "/")
	if issuer == "" {
		issuer = authority + "/v2.0"
	}
	if jwksURL == "" {
		jwksURL = authority + "/discovery/v2.0/keys"
	}
	return Endpoints{
		Issuer:   issuer,
		AuthURL:  authority + "/oauth2/v2.0/authorize",
		TokenURL: authority + "/oauth2/v2.0/token",
		JWKSURL:  jwksURL,
	}
}

// Discover reads the provider's OpenID configuration document. The document's
// issuer must match issuer exactly.
func Discover(ctx context.Context, issuer string, client *http.Client) (Endpoints, error) {
	if client != nil {
		ctx = oidc.ClientContext(ctx, client)
	}
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return Endpoints{}, fmt.Errorf("[idp Discover] issuer %s: %w: %w", issuer, apperrors.ErrDiscoveryFailed, err)
	}

	var doc struct {
		JWKSURL string `json:"jwks_uri"`
	}
	if err := provider.Claims(&doc); err != nil {
		return Endpoints{}, fmt.Errorf("[idp Discover] reading discovery document: %w: %w", apperrors.ErrDiscoveryFailed, err)
	}

	endpoint := provider.Endpoint()
	return Endpoints{
		Issuer:   issuer,
		AuthURL:  endpoint.AuthURL,
		TokenURL: endpoint.TokenURL,
		JWKSURL:  doc.JWKSURL,
	}, nil
}
