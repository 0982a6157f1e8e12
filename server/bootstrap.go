package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jrsteele09/go-bff-gateway/auth"
	"github.com/jrsteele09/go-bff-gateway/cookie"
	"github.com/jrsteele09/go-bff-gateway/idp"
	"github.com/jrsteele09/go-bff-gateway/internal/config"
	apperrors "github.com/jrsteele09/go-bff-gateway/internal/errors"
	"github.com/jrsteele09/go-bff-gateway/internal/metrics"
	"github.com/jrsteele09/go-bff-gateway/server/loginsession"
	"github.com/jrsteele09/go-bff-gateway/token"
	"github.com/rs/zerolog/log"
)

// Components is everything built from configuration at startup.
type Components struct {
	Deps
	Sessions  loginsession.Repo
	Endpoints idp.Endpoints

	closers []func() error
}

// Close releases external connections opened by Bootstrap.
func (c *Components) Close() error {
	var errs []error
	for _, closeFn := range c.closers {
		errs = append(errs, closeFn())
	}
	return errors.Join(errs...)
}

// Bootstrap builds the login session store, identity provider client, token
// validator, cookie manager and flow service described by cfg. Background
// work started here stops when ctx is cancelled.
func Bootstrap(ctx context.Context, cfg config.Config) (*Components, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("[Server Bootstrap] %w", err)
	}

	c := &Components{}
	m := metrics.New()
	c.Metrics = m.Handler()

	sessions, err := c.newLoginSessionRepo(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("[Server Bootstrap] failed to create login session store: %w", err)
	}
	c.Sessions = sessions

	c.Endpoints, err = resolveEndpoints(ctx, cfg)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("[Server Bootstrap] failed to resolve identity provider endpoints: %w", err)
	}

	validator, err := newTokenValidator(cfg, c.Endpoints)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("[Server Bootstrap] failed to create token validator: %w", err)
	}
	c.Validator = m.ObserveValidator(validator)

	c.Cookies = cookie.NewManager(cookie.Settings{
		Name:        cfg.GetCookieName(),
		MaxAge:      cfg.GetCookieMaxAge(),
		Secure:      cfg.GetCookieSecure(),
		SameSite:    cfg.GetCookieSameSite(),
		HTTPOnly:    cfg.GetCookieHTTPOnly(),
		LoginName:   cfg.GetLoginCookieName(),
		LoginMaxAge: cfg.GetLoginSessionTTL(),
	})

	exchange := idp.NewOAuth2ExchangeClient(c.Endpoints, idp.ClientSettings{
		ClientID:     cfg.GetClientID(),
		ClientSecret: cfg.GetClientSecret(),
		RedirectURI:  cfg.GetRedirectURI(),
		Scopes:       cfg.GetScopes(),
		Prompt:       cfg.GetPrompt(),
		Timeout:      cfg.GetHTTPTimeout(),
	})

	c.Flow = auth.NewFlowService(auth.Deps{
		Sessions:  c.Sessions,
		Exchange:  exchange,
		Validator: c.Validator,
		Cookies:   c.Cookies,
	}, cfg.GetFrontendURL(),
		auth.WithTokenType(cfg.GetTokenType()),
		auth.WithObserver(m),
	)
	return c, nil
}

func (c *Components) newLoginSessionRepo(ctx context.Context, cfg config.Config) (loginsession.Repo, error) {
	switch cfg.GetSessionStore() {
	case config.StoreRedis:
		client, err := loginsession.NewRedisClient(ctx, cfg.GetRedisURL())
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, client.Close)
		log.Info().Str("store", config.StoreRedis).Msg("login sessions stored in redis")
		return loginsession.NewRedisRepo(client, cfg.GetLoginSessionTTL()), nil
	default:
		repo := loginsession.NewInMemoryRepo(cfg.GetLoginSessionTTL())
		repo.StartSweeper(ctx, cfg.GetLoginSessionSweepInterval())
		log.Info().Str("store", config.StoreMemory).Msg("login sessions stored in memory, run a single instance or use sticky sessions")
		return repo, nil
	}
}

func resolveEndpoints(ctx context.Context, cfg config.Config) (idp.Endpoints, error) {
	if !cfg.GetDiscoveryEnabled() {
		return idp.StaticEndpoints(cfg.GetAuthority(), cfg.GetIssuer(), cfg.GetJWKSURL()), nil
	}

	discoverCtx, cancel := context.WithTimeout(ctx, cfg.GetHTTPTimeout())
	defer cancel()
	endpoints, err := idp.Discover(discoverCtx, cfg.GetIssuer(), &http.Client{Timeout: cfg.GetHTTPTimeout()})
	if err != nil {
		return idp.Endpoints{}, err
	}
	log.Info().Str("issuer", endpoints.Issuer).Str("jwks_uri", endpoints.JWKSURL).Msg("identity provider discovered")
	return endpoints, nil
}

// newTokenValidator picks the validator variant. The fixed claims variant is
// refused here as well as in config.Validate.
func newTokenValidator(cfg config.Config, endpoints idp.Endpoints) (token.Validator, error) {
	expectations := token.Expectations{
		Issuer:         endpoints.Issuer,
		ClientID:       cfg.GetClientID(),
		ExtraAudiences: cfg.GetExtraAudiences(),
	}

	switch cfg.GetTokenValidator() {
	case config.ValidatorRemoteJWKS:
		return token.NewRemoteJWKSValidator(token.RemoteJWKSConfig{
			JWKSURL:         endpoints.JWKSURL,
			Expectations:    expectations,
			HTTPTimeout:     cfg.GetHTTPTimeout(),
			RefreshInterval: cfg.GetJWKSRefreshInterval(),
		})
	case config.ValidatorFixedClaims:
		if !cfg.IsDevelopment() || !cfg.GetAllowInsecureTestValidator() {
			return nil, apperrors.Wrapf(apperrors.ErrInsecureConfig, "TOKEN_VALIDATOR=%s", config.ValidatorFixedClaims)
		}
		log.Warn().Msg("TOKEN_VALIDATOR=fixed-claims: token signatures are NOT verified, never use outside local development")
		return token.NewFixedClaimsValidator(expectations), nil
	}
	return nil, apperrors.Wrapf(apperrors.ErrInvalidConfig, "TOKEN_VALIDATOR %q", cfg.GetTokenValidator())
}
