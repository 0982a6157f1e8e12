package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-bff-gateway/auth"
	"github.com/jrsteele09/go-bff-gateway/cookie"
	"github.com/jrsteele09/go-bff-gateway/token"
	"github.com/rs/zerolog/log"
)

// isAuthFlowPath reports whether path belongs to the login, callback or
// logout routes.
func isAuthFlowPath(path string) bool {
	return path == strings.TrimSuffix(RouteAuthPrefix, "/") || strings.HasPrefix(path, RouteAuthPrefix)
}

// AuthenticationFilter attaches the principal for a valid auth cookie to the
// request context. It never rejects a request: a missing, unreadable or
// invalid cookie leaves the request anonymous.
func (s *Server) AuthenticationFilter(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if isAuthFlowPath(r.URL.Path) {
			next(w, r)
			return
		}
		next(w, r.WithContext(s.authenticate(r)))
	}
}

func (s *Server) authenticate(r *http.Request) (ctx context.Context) {
	ctx = r.Context()
	logger := log.Ctx(ctx)

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error().Interface("panic", rec).Msg("authentication filter recovered from panic")
			ctx = r.Context()
		}
	}()

	rawToken, err := s.deps.Cookies.AuthToken(r)
	if errors.Is(err, http.ErrNoCookie) {
		return ctx
	}
	if err != nil {
		kind := "cookie_read_failure"
		if errors.Is(err, cookie.ErrDecode) {
			kind = "cookie_decode_failure"
		}
		logger.Debug().Err(err).Str("cookie", s.deps.Cookies.Name()).Str("error_kind", kind).Msg("ignoring auth cookie")
		return ctx
	}

	claims, err := s.deps.Validator.Validate(ctx, rawToken)
	if err != nil {
		kind := "unknown"
		if k, ok := token.KindOf(err); ok {
			kind = k.String()
		}
		logger.Debug().Err(err).Str("cookie", s.deps.Cookies.Name()).Str("error_kind", kind).Msg("auth cookie rejected")
		return ctx
	}
	if claims == nil {
		logger.Error().Msg("validator returned no claims")
		return ctx
	}
	return auth.WithPrincipal(ctx, auth.NewPrincipal(claims))
}

// RequireAuthenticated answers 401 unless the authentication filter attached
// a principal.
func (s *Server) RequireAuthenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.PrincipalFromContext(r.Context()); !ok {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		next(w, r)
	}
}
