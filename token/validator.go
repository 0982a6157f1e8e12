// Package token validates the bearer tokens issued by the identity provider and
// normalises their claims.
package token

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Validator turns a raw token into Claims or a *ValidationError.
//
// The closed set of implementations is RemoteJWKSValidator, used for every real
// deployment, and FixedClaimsValidator, which never checks a signature and is
// only constructed for local development.
type Validator interface {
	Validate(ctx context.Context, rawToken string) (*Claims, error)
}

// ErrorKind classifies why a token was rejected.
type ErrorKind int

const (
	KindMalformed ErrorKind = iota + 1
	KindSignatureInvalid
	KindExpired
	KindIssuerMismatch
	KindAudienceMismatch
)

var (
	ErrMalformed        = errors.New("token malformed")
	ErrSignatureInvalid = errors.New("token signature invalid")
	ErrExpired          = errors.New("token expired")
	ErrIssuerMismatch   = errors.New("token issuer mismatch")
	ErrAudienceMismatch = errors.New("token audience mismatch")
)

func (k ErrorKind) String() string {
	switch k {
	case KindMalformed:
		return "token_malformed"
	case KindSignatureInvalid:
		return "token_signature_invalid"
	case KindExpired:
		return "token_expired"
	case KindIssuerMismatch:
		return "token_issuer_mismatch"
	case KindAudienceMismatch:
		return "token_audience_mismatch"
	}
	return "token_unknown"
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindMalformed:
		return ErrMalformed
	case KindSignatureInvalid:
		return ErrSignatureInvalid
	case KindExpired:
		return ErrExpired
	case KindIssuerMismatch:
		return ErrIssuerMismatch
	case KindAudienceMismatch:
		return ErrAudienceMismatch
	}
	return errors.New(k.String())
}

// ValidationError is the typed failure returned by every Validator. It matches
// the sentinel of its Kind with errors.Is.
type ValidationError struct {
	Kind ErrorKind
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Err == nil {
		return e.Kind.sentinel().Error()
	}
	return fmt.Sprintf("%s: %v", e.Kind.sentinel(), e.Err)
}

func (e *ValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Err}
}

func newValidationError(kind ErrorKind, err error) *ValidationError {
	return &ValidationError{Kind: kind, Err: err}
}

// KindOf extracts the ErrorKind from err, if it carries one.
func KindOf(err error) (ErrorKind, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Kind, true
	}
	return 0, false
}

// Expectations are the claim values a token must carry to be accepted.
type Expectations struct {
	Issuer         string
	ClientID       string
	ExtraAudiences []string
}

// AcceptsAudience reports whether aud is the client id or an allow-listed audience.
func (e Expectations) AcceptsAudience(aud string) bool {
	if aud == "" {
		return false
	}
	return aud == e.ClientID || slices.Contains(e.ExtraAudiences, aud)
}

// checkClaims runs the expiry, issuer and audience checks in that order.
func (e Expectations) checkClaims(claims jwt.MapClaims, now time.Time) error {
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return newValidationError(KindExpired, fmt.Errorf("unreadable exp claim: %w", err))
	}
	if exp == nil {
		return newValidationError(KindExpired, errors.New("missing exp claim"))
	}
	if !exp.After(now) {
		return newValidationError(KindExpired, fmt.Errorf("expired at %s", exp.UTC().Format(time.RFC3339)))
	}

	iss, err := claims.GetIssuer()
	if err != nil || iss != e.Issuer {
		return newValidationError(KindIssuerMismatch, fmt.Errorf("got %q, expected %q", iss, e.Issuer))
	}

	audiences, err := claims.GetAudience()
	if err != nil {
		return newValidationError(KindAudienceMismatch, err)
	}
	for _, aud := range audiences {
		if e.AcceptsAudience(aud) {
			return nil
		}
	}
	return newValidationError(KindAudienceMismatch, fmt.Errorf("got %v", []string(audiences)))
}

// parseStructure performs the structural check: three dot separated segments
// whose header and payload decode. It never authenticates anything.
func parseStructure(rawToken string) (jwt.MapClaims, error) {
	if strings.Count(rawToken, ".") != 2 {
		return nil, newValidationError(KindMalformed, errors.New("expected three segments"))
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(rawToken, claims); err != nil {
		return nil, newValidationError(KindMalformed, err)
	}
	return claims, nil
}
