package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	TokenTypeAccess = "access_token"
	TokenTypeID     = "id_token"

	defaultAuthorityHost = "https://login.microsoftonline.com"
)

// IdPConfig describes the identity provider this gateway signs users in against.
type IdPConfig interface {
	GetTenantID() string
	GetClientID() string
	GetClientSecret() string
	GetAuthority() string
	GetIssuer() string
	GetJWKSURL() string
	GetDiscoveryEnabled() bool
	GetRedirectURI() string
	GetScopes() []string
	GetExtraAudiences() []string
	GetTokenType() string
	GetPrompt() string
	GetHTTPTimeout() time.Duration
	GetJWKSRefreshInterval() time.Duration
}

type IdP struct {
	TenantID            string
	ClientID            string
	ClientSecret        string
	AuthorityHost       string
	Issuer              string
	JWKSURL             string
	DiscoveryEnabled    bool
	RedirectURI         string
	Scopes              []string
	ExtraAudiences      []string
	TokenType           string
	Prompt              string
	HTTPTimeout         time.Duration
	JWKSRefreshInterval time.Duration
}

var _ IdPConfig = IdP{}

func loadIdP() IdP {
	clientID := GetEnv("IDP_CLIENT_ID", "")
	defaultScopes := []string{"openid", "profile", "email"}
	if clientID != "" {
		defaultScopes = append(defaultScopes, fmt.Sprintf("api://%s/access_as_user", clientID))
	}
	return IdP{
		TenantID:         GetEnv("IDP_TENANT_ID", ""),
		ClientID:         clientID,
		ClientSecret:     GetEnv("IDP_CLIENT_SECRET", ""),
		AuthorityHost:    GetEnv("IDP_AUTHORITY_HOST", defaultAuthorityHost),
		Issuer:           GetEnv("IDP_ISSUER", ""),
		JWKSURL:          GetEnv("IDP_JWKS_URL", ""),
		DiscoveryEnabled: GetEnvBool("IDP_DISCOVERY", false),
		RedirectURI:      GetEnv("IDP_REDIRECT_URI", "http://localhost:8080/auth/callback"),
		Scopes:           GetEnvList("IDP_SCOPES", defaultScopes),
		ExtraAudiences: GetEnvList("IDP_EXTRA_AUDIENCES", []string{
			"https://graph.microsoft.com",
			"00000003-0000-0000-c000-000000000000",
		}),
		TokenType:           GetEnv("IDP_TOKEN_TYPE", TokenTypeAccess),
		Prompt:              GetEnv("IDP_PROMPT", "select_account"),
		HTTPTimeout:         GetEnvDuration("IDP_HTTP_TIMEOUT", 10*time.Second),
		JWKSRefreshInterval: GetEnvDuration("JWKS_REFRESH_INTERVAL", time.Hour),
	}
}

func (i IdP) GetTenantID() string { return i.TenantID }
func (i IdP) GetClientID() string { return i.ClientID }
func (i IdP) GetClientSecret() string { return i.ClientSecret }

// GetAuthority returns the tenant scoped authority, e.g.
// https://login.microsoftonline.com/{tenant}
func (i IdP) GetAuthority() string {
	host := strings.TrimSuffix(i.AuthorityHost, "/")
	if host == "" {
		host = defaultAuthorityHost
	}
	return host + "/" + i.TenantID
}

func (i IdP) GetIssuer() string {
	if i.Issuer != "" {
		return i.Issuer
	}
	return i.GetAuthority() + "/v2.0"
}

func (i IdP) GetJWKSURL() string {
	if i.JWKSURL != "" {
		return i.JWKSURL
	}
	return i.GetAuthority() + "/discovery/v2.0/keys"
}

func (i IdP) GetDiscoveryEnabled() bool { return i.DiscoveryEnabled }
func (i IdP) GetRedirectURI() string { return i.RedirectURI }
func (i IdP) GetScopes() []string { return i.Scopes }
func (i IdP) GetExtraAudiences() []string { return i.ExtraAudiences }
func (i IdP) GetPrompt() string { return i.Prompt }

func (i IdP) GetTokenType() string {
	if i.TokenType == "" {
		return TokenTypeAccess
	}
	return i.TokenType
}

func (i IdP) GetHTTPTimeout() time.Duration {
	if i.HTTPTimeout <= 0 {
		return 10 * time.Second
	}
	return i.HTTPTimeout
}

func (i IdP) GetJWKSRefreshInterval() time.Duration {
	if i.JWKSRefreshInterval <= 0 {
		return time.Hour
	}
	return i.JWKSRefreshInterval
}
