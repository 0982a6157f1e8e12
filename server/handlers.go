package server

import (
	"fmt"
	"net/http"

	"github.com/jrsteele09/go-bff-gateway/auth"
)

// UserInfo is the profile returned by /api/userinfo.
type UserInfo struct {
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Subject string   `json:"subject"`
	Roles   []string `json:"roles,omitempty"`
}

// LogoutHandler clears the session cookies. It succeeds without a session.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.deps.Flow.Logout(w)
		writeSuccess(w, "Logged out successfully", nil)
	}
}

func (s *Server) HelloHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, _ := auth.PrincipalFromContext(r.Context())
		writeSuccess(w, "Request successful", fmt.Sprintf("Hello authenticated user: %s!", principal.Name))
	}
}

func (s *Server) UserInfoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, _ := auth.PrincipalFromContext(r.Context())
		writeSuccess(w, "User info retrieved", UserInfo{
			Name:    principal.Name,
			Email:   principal.Email,
			Subject: principal.Subject,
			Roles:   principal.Claims.Roles,
		})
	}
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeSuccess(w, "OK", map[string]string{"app": s.config.GetAppName()})
	}
}
