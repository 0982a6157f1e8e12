package config

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	apperrors "github.com/jrsteele09/go-bff-gateway/internal/errors"
)

type Config interface {
	EnvConfig
	IdPConfig
	CookieConfig
	FlowConfig
	StoreConfig
	CorsConfig
	SecurityConfig
}

type mainConfig struct {
	EnvVars
	IdP
	Cookie
	Flow
	Cors
	Security
}

// New assembles a Config from already populated parts. Tests use it to avoid
// touching the process environment.
func New(env EnvVars, idp IdP, cookie Cookie, flow Flow, cors Cors, security Security) Config {
	return mainConfig{
		EnvVars:  env,
		IdP:      idp,
		Cookie:   cookie,
		Flow:     flow,
		Cors:     cors,
		Security: security,
	}
}

// Load reads the configuration from the environment.
func Load() Config {
	return New(loadEnvVars(), loadIdP(), loadCookie(), loadFlow(), loadCors(), loadSecurity())
}

// Validate enforces the hardening rules that must hold before the gateway
// accepts traffic. All violations are reported together.
func Validate(c Config) error {
	var errs []error

	if c.GetClientID() == "" {
		errs = append(errs, apperrors.Wrapf(apperrors.ErrInvalidConfig, "IDP_CLIENT_ID is required"))
	}
	if c.GetTenantID() == "" && !c.GetDiscoveryEnabled() {
		errs = append(errs, apperrors.Wrapf(apperrors.ErrInvalidConfig, "IDP_TENANT_ID is required unless IDP_DISCOVERY is enabled"))
	}
	if c.GetTenantID() == "" && c.GetIssuer() == c.GetAuthority()+"/v2.0" {
		errs = append(errs, apperrors.Wrapf(apperrors.ErrInvalidConfig, "IDP_ISSUER is required without IDP_TENANT_ID"))
	}
	if _, err := url.ParseRequestURI(c.GetRedirectURI()); err != nil {
		errs = append(errs, apperrors.Wrapf(apperrors.ErrInvalidConfig, "IDP_REDIRECT_URI %q", c.GetRedirectURI()))
	}
	if _, err := url.ParseRequestURI(c.GetFrontendURL()); err != nil {
		errs = append(errs, apperrors.Wrapf(apperrors.ErrInvalidConfig, "FRONTEND_URL %q", c.GetFrontendURL()))
	}
	switch c.GetTokenType() {
	case TokenTypeAccess, TokenTypeID:
	default:
		errs = append(errs, apperrors.Wrapf(apperrors.ErrInvalidConfig, "IDP_TOKEN_TYPE %q", c.GetTokenType()))
	}

	if c.GetCookieName() == "" || c.GetLoginCookieName() == "" {
		errs = append(errs, apperrors.Wrapf(apperrors.ErrInvalidConfig, "cookie names must not be empty"))
	}
	if c.GetCookieName() == c.GetLoginCookieName() {
		errs = append(errs, apperrors.Wrapf(apperrors.ErrInvalidConfig, "COOKIE_NAME and LOGIN_COOKIE_NAME must differ"))
	}
	if c.GetCookieMaxAge() <= 0 {
		errs = append(errs, apperrors.Wrapf(apperrors.ErrInvalidConfig, "COOKIE_MAX_AGE must be positive"))
	}
	if c.GetCookieSameSite() == http.SameSiteNoneMode && !c.GetCookieSecure() {
		errs = append(errs, apperrors.Wrapf(apperrors.ErrInsecureConfig, "COOKIE_SAME_SITE=None requires COOKIE_SECURE=true"))
	}
	if !c.GetCookieHTTPOnly() && !c.IsDevelopment() {
		errs = append(errs, apperrors.Wrapf(apperrors.ErrInsecureConfig, "COOKIE_HTTP_ONLY=false is only allowed with ENV=%s", EnvDevelopment))
	}

	switch c.GetSessionStore() {
	case StoreMemory:
	case StoreRedis:
		if c.GetRedisURL() == "" {
			errs = append(errs, apperrors.Wrapf(apperrors.ErrInvalidConfig, "REDIS_URL is required with SESSION_STORE=redis"))
		}
	default:
		errs = append(errs, apperrors.Wrapf(apperrors.ErrInvalidConfig, "SESSION_STORE %q", c.GetSessionStore()))
	}

	switch c.GetTokenValidator() {
	case ValidatorRemoteJWKS:
	case ValidatorFixedClaims:
		if !c.IsDevelopment() || !c.GetAllowInsecureTestValidator() {
			errs = append(errs, apperrors.Wrapf(apperrors.ErrInsecureConfig,
				"TOKEN_VALIDATOR=%s requires ENV=%s and ALLOW_INSECURE_TEST_VALIDATOR=true", ValidatorFixedClaims, EnvDevelopment))
		}
	default:
		errs = append(errs, apperrors.Wrapf(apperrors.ErrInvalidConfig, "TOKEN_VALIDATOR %q", c.GetTokenValidator()))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config.Validate: %w", errors.Join(errs...))
	}
	return nil
}
