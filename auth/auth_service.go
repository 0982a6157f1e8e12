package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jrsteele09/go-bff-gateway/cookie"
	"github.com/jrsteele09/go-bff-gateway/idp"
	"github.com/jrsteele09/go-bff-gateway/pkce"
	"github.com/jrsteele09/go-bff-gateway/server/loginsession"
	"github.com/jrsteele09/go-bff-gateway/token"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// FlowState is the position of one login attempt in the authorization code flow.
type FlowState string

const (
	StateLoginInitiated   FlowState = "login_initiated"
	StateCallbackReceived FlowState = "callback_received"
	StateTokenExchanged   FlowState = "token_exchanged"
	StateAuthenticated    FlowState = "authenticated"
	StateError            FlowState = "error"
)

// OutcomeSuccess is reported to the FlowObserver for a completed login.
const OutcomeSuccess = "success"

// FlowObserver is told the outcome of every callback, either OutcomeSuccess
// or the FlowErrorKind string.
type FlowObserver interface {
	ObserveLoginFlow(outcome string)
}

// Deps holds everything the flow service drives.
type Deps struct {
	Sessions  loginsession.Repo
	Exchange  idp.ExchangeClient
	Validator token.Validator
	Cookies   *cookie.Manager
}

// FlowService runs the browser side of the authorization code flow with PKCE:
// it starts logins, completes callbacks and logs users out. Tokens never leave
// the server except inside the HttpOnly auth cookie.
type FlowService struct {
	deps        Deps
	tokenType   string
	frontendURL string
	observer    FlowObserver
}

type FlowServiceOption func(*FlowService)

// WithTokenType selects which exchanged token is validated and stored,
// "access_token" (default) or "id_token".
func WithTokenType(tokenType string) FlowServiceOption {
	return func(f *FlowService) {
		f.tokenType = tokenType
	}
}

func WithObserver(o FlowObserver) FlowServiceOption {
	return func(f *FlowService) {
		f.observer = o
	}
}

// NewFlowService creates the flow service. frontendURL is where the browser is
// sent after every callback, with login=success or login=error appended.
func NewFlowService(deps Deps, frontendURL string, opts ...FlowServiceOption) *FlowService {
	f := &FlowService{
		deps:        deps,
		tokenType:   "access_token",
		frontendURL: frontendURL,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *FlowService) SuccessURL() string {
	return f.frontendURL + "/?login=success"
}

func (f *FlowService) FailureURL() string {
	return f.frontendURL + "/?login=error"
}

// LoginStart is the result of starting a login.
type LoginStart struct {
	SessionID    string
	AuthorizeURL string
}

// StartLogin creates a login session and builds the provider's authorize URL for it.
func (f *FlowService) StartLogin(ctx context.Context) (*LoginStart, error) {
	session, err := f.deps.Sessions.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("[FlowService StartLogin] failed to begin login session: %w", err)
	}
	return &LoginStart{
		SessionID:    session.ID,
		AuthorizeURL: f.deps.Exchange.AuthCodeURL(session.State, pkce.DeriveChallenge(session.CodeVerifier)),
	}, nil
}

// CallbackParams are the inputs of one callback request.
type CallbackParams struct {
	Code             string
	State            string
	Error            string
	ErrorDescription string
	// SessionID comes from the login cookie, not from the provider.
	SessionID string
}

// LoginResult is a validated token ready to be stored in the auth cookie.
type LoginResult struct {
	RawToken  string
	Claims    *token.Claims
	ExpiresAt time.Time
}

// CompleteLogin consumes the login session, checks the returned state,
// exchanges the code and validates the resulting token. Every failure is a
// *FlowError.
func (f *FlowService) CompleteLogin(ctx context.Context, params CallbackParams) (*LoginResult, error) {
	if params.Error != "" {
		f.discardSession(ctx, params.SessionID)
		return nil, flowError(KindAuthorizationDenied, fmt.Errorf("%s: %s", params.Error, params.ErrorDescription))
	}
	if params.Code == "" {
		f.discardSession(ctx, params.SessionID)
		return nil, flowError(KindMissingCode, nil)
	}
	if params.SessionID == "" {
		return nil, flowError(KindSessionNotFound, errors.New("no login cookie"))
	}

	session, err := f.deps.Sessions.Consume(ctx, params.SessionID)
	if errors.Is(err, loginsession.ErrNotFound) {
		return nil, flowError(KindSessionNotFound, err)
	}
	if err != nil {
		return nil, flowError(KindStoreFailure, err)
	}

	if subtle.ConstantTimeCompare([]byte(session.State), []byte(params.State)) != 1 {
		return nil, flowError(KindStateMismatch, nil)
	}
	if !pkce.ValidVerifier(session.CodeVerifier) {
		return nil, flowError(KindStoreFailure, errors.New("stored code verifier is not a valid PKCE verifier"))
	}

	result, err := f.deps.Exchange.Exchange(ctx, params.Code, session.CodeVerifier)
	if err != nil {
		return nil, flowError(KindExchangeFailure, err)
	}
	rawToken, err := result.Token(f.tokenType)
	if err != nil {
		return nil, flowError(KindExchangeFailure, err)
	}
	log.Ctx(ctx).Debug().Str("flow_state", string(StateTokenExchanged)).Msg("authorization code exchanged")

	claims, err := f.deps.Validator.Validate(ctx, rawToken)
	if err != nil {
		return nil, tokenFlowError(err)
	}

	expiresAt := claims.ExpiresAt
	if expiresAt.IsZero() || (!result.Expiry.IsZero() && result.Expiry.Before(expiresAt)) {
		expiresAt = result.Expiry
	}
	return &LoginResult{RawToken: rawToken, Claims: claims, ExpiresAt: expiresAt}, nil
}

// discardSession consumes the login session of a callback that failed before
// its session was looked up, so it cannot be used again.
func (f *FlowService) discardSession(ctx context.Context, sessionID string) {
	if sessionID == "" {
		return
	}
	if _, err := f.deps.Sessions.Consume(ctx, sessionID); err != nil && !errors.Is(err, loginsession.ErrNotFound) {
		log.Ctx(ctx).Warn().Err(err).Msg("failed to discard login session")
	}
}

// BeginLogin handles GET /auth/login.
func (f *FlowService) BeginLogin(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	start, err := f.StartLogin(r.Context())
	if err != nil {
		logger.Err(err).Str("flow_state", string(StateError)).Msg("failed to start login")
		f.observe(flowError(KindStoreFailure, err))
		http.Redirect(w, r, f.FailureURL(), http.StatusFound)
		return
	}

	f.deps.Cookies.IssueLogin(w, start.SessionID)
	logger.Debug().Str("flow_state", string(StateLoginInitiated)).Msg("redirecting to identity provider")
	http.Redirect(w, r, start.AuthorizeURL, http.StatusFound)
}

// HandleCallback handles GET /auth/callback. The browser is always redirected
// to the frontend; the failure kind is only logged.
func (f *FlowService) HandleCallback(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())
	query := r.URL.Query()

	sessionID, _ := f.deps.Cookies.LoginSessionID(r)
	f.deps.Cookies.ClearLogin(w)

	logger.Debug().Str("flow_state", string(StateCallbackReceived)).Msg("login callback received")
	result, err := f.CompleteLogin(r.Context(), CallbackParams{
		Code:             query.Get("code"),
		State:            query.Get("state"),
		Error:            query.Get("error"),
		ErrorDescription: query.Get("error_description"),
		SessionID:        sessionID,
	})
	if err != nil {
		f.logFailure(logger, err)
		f.observe(err)
		http.Redirect(w, r, f.FailureURL(), http.StatusFound)
		return
	}

	f.deps.Cookies.IssueAuth(w, result.RawToken, result.ExpiresAt)
	f.observe(nil)
	logger.Info().
		Str("flow_state", string(StateAuthenticated)).
		Str("subject", result.Claims.Subject).
		Msg("login completed")
	http.Redirect(w, r, f.SuccessURL(), http.StatusFound)
}

// Logout clears the auth and login cookies. It succeeds whether or not the
// browser held either cookie.
func (f *FlowService) Logout(w http.ResponseWriter) {
	f.deps.Cookies.ClearAuth(w)
	f.deps.Cookies.ClearLogin(w)
}

func (f *FlowService) logFailure(logger *zerolog.Logger, err error) {
	var ferr *FlowError
	kind := "unknown"
	if errors.As(err, &ferr) {
		kind = ferr.Kind.String()
	}
	logger.Warn().Err(err).
		Str("flow_state", string(StateError)).
		Str("error_kind", kind).
		Msg("login callback failed")
}

func (f *FlowService) observe(err error) {
	if f.observer == nil {
		return
	}
	if err == nil {
		f.observer.ObserveLoginFlow(OutcomeSuccess)
		return
	}
	var ferr *FlowError
	if errors.As(err, &ferr) {
		f.observer.ObserveLoginFlow(ferr.Kind.String())
		return
	}
	f.observer.ObserveLoginFlow("unknown")
}
