package token

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/jrsteele09/go-bff-gateway/internal/errors"
	"github.com/rs/zerolog/log"
)

const (
	DefaultHTTPTimeout     = 5 * time.Second
	DefaultRefreshInterval = time.Hour
)

// RemoteJWKSConfig configures a RemoteJWKSValidator.
type RemoteJWKSConfig struct {
	JWKSURL string
	Expectations

	// HTTPTimeout bounds every key set fetch and every Validate call.
	HTTPTimeout time.Duration
	// RefreshInterval is the longest a fetched key set is trusted before it is
	// fetched again. Unknown key ids always trigger a refetch.
	RefreshInterval time.Duration
	HTTPClient      *http.Client
	Now             func() time.Time
}

// RemoteJWKSValidator verifies token signatures against the identity
// provider's published key set and then checks expiry, issuer and audience.
//
// Keys are fetched lazily and cached; concurrent refreshes are collapsed into
// one request by the underlying oidc.RemoteKeySet. After a scheduled refresh
// the previous set stays available until the new one has verified a token, so
// a key endpoint outage does not discard keys that are still cached.
type RemoteJWKSValidator struct {
	cfg    RemoteJWKSConfig
	client *http.Client

	mu        sync.Mutex
	keySet    *oidc.RemoteKeySet
	previous  *oidc.RemoteKeySet
	keySetAge time.Time
}

var _ Validator = (*RemoteJWKSValidator)(nil)

func NewRemoteJWKSValidator(cfg RemoteJWKSConfig) (*RemoteJWKSValidator, error) {
	if cfg.JWKSURL == "" {
		return nil, fmt.Errorf("[token NewRemoteJWKSValidator] JWKS URL is required")
	}
	if cfg.Issuer == "" || cfg.ClientID == "" {
		return nil, fmt.Errorf("[token NewRemoteJWKSValidator] issuer and client id are required")
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = DefaultHTTPTimeout
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = DefaultRefreshInterval
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.HTTPTimeout}
	}
	return &RemoteJWKSValidator{cfg: cfg, client: client}, nil
}

// keySets returns the current key set and, during a refresh that has not yet
// verified anything, the set it replaced. The current set is replaced once it
// is older than the refresh interval.
func (v *RemoteJWKSValidator) keySets() (current, previous *oidc.RemoteKeySet) {
	v.mu.Lock()
	defer v.mu.Unlock()

	now := v.cfg.Now()
	if v.keySet == nil || now.Sub(v.keySetAge) >= v.cfg.RefreshInterval {
		if v.keySet != nil && v.previous == nil {
			v.previous = v.keySet
		}
		ctx := oidc.ClientContext(context.Background(), v.client)
		v.keySet = oidc.NewRemoteKeySet(ctx, v.cfg.JWKSURL)
		v.keySetAge = now
	}
	return v.keySet, v.previous
}

// retire drops the fallback set once current has verified a token.
func (v *RemoteJWKSValidator) retire(current *oidc.RemoteKeySet) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.keySet == current {
		v.previous = nil
	}
}

// keyFetchFailed reports whether a VerifySignature error came from fetching
// the key set. go-oidc only wraps errors on that path.
func keyFetchFailed(err error) bool {
	return errors.Unwrap(err) != nil
}

// verifySignature checks the signature against the current key set, falling
// back to the previous set when the current one cannot be fetched.
func (v *RemoteJWKSValidator) verifySignature(ctx context.Context, rawToken string) ([]byte, error) {
	current, previous := v.keySets()
	payload, err := current.VerifySignature(ctx, rawToken)
	if err == nil {
		if previous != nil {
			v.retire(current)
		}
		return payload, nil
	}
	if !keyFetchFailed(err) {
		return nil, newValidationError(KindSignatureInvalid, err)
	}

	if previous != nil {
		if payload, prevErr := previous.VerifySignature(ctx, rawToken); prevErr == nil {
			log.Ctx(ctx).Warn().Err(err).Msg("key set refresh failed, verified with previously fetched keys")
			return payload, nil
		}
	}
	return nil, newValidationError(KindSignatureInvalid, fmt.Errorf("%w: %w", apperrors.ErrKeySetFailed, err))
}

// Validate runs the structural, signature, expiry, issuer and audience checks
// in that order and reports the first failure.
func (v *RemoteJWKSValidator) Validate(ctx context.Context, rawToken string) (*Claims, error) {
	if _, err := parseStructure(rawToken); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, v.cfg.HTTPTimeout)
	defer cancel()

	payload, err := v.verifySignature(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	// Claims come from the verified payload, never from the unverified parse.
	claims := jwt.MapClaims{}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, newValidationError(KindMalformed, err)
	}
	if err := v.cfg.checkClaims(claims, v.cfg.Now()); err != nil {
		return nil, err
	}
	return NewClaims(claims), nil
}
