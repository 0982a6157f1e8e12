package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-bff-gateway/auth"
	"github.com/jrsteele09/go-bff-gateway/cookie"
	"github.com/jrsteele09/go-bff-gateway/internal/config"
	"github.com/jrsteele09/go-bff-gateway/token"
	"github.com/rs/zerolog/log"
)

// Deps are the components the HTTP layer routes requests to.
type Deps struct {
	Flow      *auth.FlowService
	Cookies   *cookie.Manager
	Validator token.Validator
	// Metrics serves /metrics when set.
	Metrics http.Handler
}

type Server struct {
	env     string // Environment (e.g., "DEV", "PROD")
	mux     *http.ServeMux
	handler http.HandlerFunc
	routes  []string
	config  config.Config
	deps    Deps
}

func New(config config.Config, deps Deps) *Server {
	s := &Server{
		env:    config.GetEnv(),
		mux:    http.NewServeMux(),
		config: config,
		deps:   deps,
	}

	s.initRoutes()
	s.logRoutes()

	// The authentication filter runs before route dispatch for every request.
	s.handler = ChainMiddleware(s.mux.ServeHTTP, s.GlobalMiddleware()...)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != config.EnvDevelopment {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	log.Info().Msgf("[%-19s] %s", colourMethod(method), path)
}

func colourMethod(method string) string {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if colour, ok := methodColours[method]; ok {
		return colour + paddedMethod + resetColour
	}
	return grey + paddedMethod + resetColour
}
