package idp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/jrsteele09/go-bff-gateway/internal/errors"
	"github.com/jrsteele09/go-bff-gateway/pkce"
	"golang.org/x/oauth2"
)

const DefaultExchangeTimeout = 10 * time.Second

var ErrTokenMissing = errors.New("token missing from exchange response")

// TokenResult is what the token endpoint returned for an authorization code.
type TokenResult struct {
	AccessToken string
	IDToken     string
	Expiry      time.Time
}

// Token returns the raw token of the requested type, "access_token" or
// "id_token".
func (t *TokenResult) Token(tokenType string) (string, error) {
	raw := t.AccessToken
	if tokenType == "id_token" {
		raw = t.IDToken
	}
	if raw == "" {
		return "", fmt.Errorf("[TokenResult Token] %s: %w", tokenType, ErrTokenMissing)
	}
	return raw, nil
}

// ExchangeClient builds authorization URLs and redeems authorization codes.
type ExchangeClient interface {
	AuthCodeURL(state, codeChallenge string) string
	Exchange(ctx context.Context, code, codeVerifier string) (*TokenResult, error)
}

// ClientSettings are the registered client's parameters.
type ClientSettings struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scopes       []string
	Prompt       string
	Timeout      time.Duration
	HTTPClient   *http.Client
}

// OAuth2ExchangeClient is an ExchangeClient for a confidential or public
// client using the authorization code grant with PKCE.
type OAuth2ExchangeClient struct {
	oauth2Config *oauth2.Config
	httpClient   *http.Client
	prompt       string
	timeout      time.Duration
}

var _ ExchangeClient = (*OAuth2ExchangeClient)(nil)

func NewOAuth2ExchangeClient(endpoints Endpoints, settings ClientSettings) *OAuth2ExchangeClient {
	timeout := settings.Timeout
	if timeout <= 0 {
		timeout = DefaultExchangeTimeout
	}
	httpClient := settings.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &OAuth2ExchangeClient{
		oauth2Config: &oauth2.Config{
			ClientID:     settings.ClientID,
			ClientSecret: settings.ClientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:   endpoints.AuthURL,
				TokenURL:  endpoints.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
			RedirectURL: settings.RedirectURI,
			Scopes:      settings.Scopes,
		},
		httpClient: httpClient,
		prompt:     settings.Prompt,
		timeout:    timeout,
	}
}

// AuthCodeURL returns the provider's authorize URL for one login attempt.
func (c *OAuth2ExchangeClient) AuthCodeURL(state, codeChallenge string) string {
	opts := []oauth2.AuthCodeOption{
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", pkce.MethodS256),
		oauth2.SetAuthURLParam("response_mode", "query"),
	}
	if c.prompt != "" {
		opts = append(opts, oauth2.SetAuthURLParam("prompt", c.prompt))
	}
	return c.oauth2Config.AuthCodeURL(state, opts...)
}

// Exchange redeems code with the verifier it was issued for. Any transport or
// protocol failure wraps ErrExchangeFailed.
func (c *OAuth2ExchangeClient) Exchange(ctx context.Context, code, codeVerifier string) (*TokenResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	tok, err := c.oauth2Config.Exchange(
		ctx,
		code,
		oauth2.SetAuthURLParam("code_verifier", codeVerifier),
		oauth2.SetAuthURLParam("scope", strings.Join(c.oauth2Config.Scopes, " ")),
	)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.ErrorCode != "" {
			return nil, fmt.Errorf("[OAuth2ExchangeClient Exchange] %s (%s): %w", retrieveErr.ErrorCode, retrieveErr.ErrorDescription, apperrors.ErrExchangeFailed)
		}
		return nil, fmt.Errorf("[OAuth2ExchangeClient Exchange] %w: %w", apperrors.ErrExchangeFailed, err)
	}

	result := &TokenResult{
		AccessToken: tok.AccessToken,
		Expiry:      tok.Expiry,
	}
	if idToken, ok := tok.Extra("id_token").(string); ok {
		result.IDToken = idToken
	}
	return result, nil
}
