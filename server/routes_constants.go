package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Auth flow routes. Everything under RouteAuthPrefix bypasses the
	// authentication filter.
	RouteAuthPrefix   = "/auth/"
	RouteAuthLogin    = "/auth/login"
	RouteAuthCallback = "/auth/callback"
	RouteAuthLogout   = "/auth/logout"

	// API Routes
	RouteAPIHello    = "/api/hello"
	RouteAPIUserInfo = "/api/userinfo"

	// Operational routes
	RouteHealth  = "/health"
	RouteMetrics = "/metrics"
)
