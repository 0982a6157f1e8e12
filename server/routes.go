package server

import (
	"net/http"
)

func (s *Server) initRoutes() {
	// AUTH FLOW
	s.RegisterRouteFunc("GET "+RouteAuthLogin, ChainMiddleware(s.deps.Flow.BeginLogin, s.AuthFlowMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteAuthCallback, ChainMiddleware(s.deps.Flow.HandleCallback, s.AuthFlowMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.AuthFlowMiddleware()...))

	// Protected API routes
	s.RegisterRouteFunc("GET "+RouteAPIHello, ChainMiddleware(s.HelloHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteAPIUserInfo, ChainMiddleware(s.UserInfoHandler(), s.APIMiddleware()...))

	// Operational routes
	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())
	if s.deps.Metrics != nil {
		s.RegisterRouteHandler("GET "+RouteMetrics, s.deps.Metrics)
	}

	s.RegisterRouteFunc("/", s.NotFoundHandler())
}

// NotFoundHandler answers every unregistered route with the JSON envelope.
func (s *Server) NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusNotFound, false, "Not found", nil)
	}
}
