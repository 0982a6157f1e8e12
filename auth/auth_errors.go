package auth

import (
	"errors"
	"fmt"

	"github.com/jrsteele09/go-bff-gateway/token"
)

// FlowErrorKind classifies a failed login callback. The kind is kept for
// server side diagnostics only; the browser always sees the same failure
// redirect.
type FlowErrorKind int

const (
	KindSessionNotFound FlowErrorKind = iota + 1
	KindStateMismatch
	KindAuthorizationDenied
	KindMissingCode
	KindExchangeFailure
	KindStoreFailure
	KindTokenMalformed
	KindTokenSignatureInvalid
	KindTokenExpired
	KindTokenIssuerMismatch
	KindTokenAudienceMismatch
)

var (
	SessionNotFoundErr     = errors.New("login session not found")
	StateMismatchErr       = errors.New("state mismatch")
	AuthorizationDeniedErr = errors.New("authorization denied by identity provider")
	MissingCodeErr         = errors.New("authorization code missing")
	ExchangeFailureErr     = errors.New("token exchange failed")
	StoreFailureErr        = errors.New("login session store unavailable")
	TokenRejectedErr       = errors.New("token rejected")
)

func (k FlowErrorKind) String() string {
	switch k {
	case KindSessionNotFound:
		return "session_not_found"
	case KindStateMismatch:
		return "state_mismatch"
	case KindAuthorizationDenied:
		return "authorization_denied"
	case KindMissingCode:
		return "missing_code"
	case KindExchangeFailure:
		return "exchange_failure"
	case KindStoreFailure:
		return "store_failure"
	case KindTokenMalformed:
		return token.KindMalformed.String()
	case KindTokenSignatureInvalid:
		return token.KindSignatureInvalid.String()
	case KindTokenExpired:
		return token.KindExpired.String()
	case KindTokenIssuerMismatch:
		return token.KindIssuerMismatch.String()
	case KindTokenAudienceMismatch:
		return token.KindAudienceMismatch.String()
	}
	return "unknown"
}

func (k FlowErrorKind) sentinel() error {
	switch k {
	case KindSessionNotFound:
		return SessionNotFoundErr
	case KindStateMismatch:
		return StateMismatchErr
	case KindAuthorizationDenied:
		return AuthorizationDeniedErr
	case KindMissingCode:
		return MissingCodeErr
	case KindExchangeFailure:
		return ExchangeFailureErr
	case KindStoreFailure:
		return StoreFailureErr
	}
	return TokenRejectedErr
}

// FlowError is returned by every failed callback step.
type FlowError struct {
	Kind FlowErrorKind
	Err  error
}

func (e *FlowError) Error() string {
	if e.Err == nil {
		return e.Kind.sentinel().Error()
	}
	return fmt.Sprintf("%s: %v", e.Kind.sentinel(), e.Err)
}

func (e *FlowError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Err}
}

func flowError(kind FlowErrorKind, err error) *FlowError {
	return &FlowError{Kind: kind, Err: err}
}

// tokenFlowError maps a validator failure onto the flow taxonomy.
func tokenFlowError(err error) *FlowError {
	kind, _ := token.KindOf(err)
	switch kind {
	case token.KindSignatureInvalid:
		return flowError(KindTokenSignatureInvalid, err)
	case token.KindExpired:
		return flowError(KindTokenExpired, err)
	case token.KindIssuerMismatch:
		return flowError(KindTokenIssuerMismatch, err)
	case token.KindAudienceMismatch:
		return flowError(KindTokenAudienceMismatch, err)
	}
	return flowError(KindTokenMalformed, err)
}
