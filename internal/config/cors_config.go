package config

import "strings"

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type Cors struct {
	Origins []string
}

var _ CorsConfig = Cors{}

type AllowedOrigins map[string]struct{}
type nullValue = struct{}

func NewAllowedOrigins(origins ...string) AllowedOrigins {
	allowed := make(AllowedOrigins, len(origins))
	for _, o := range origins {
		allowed[strings.TrimSuffix(o, "/")] = nullValue{}
	}
	return allowed
}

func (a AllowedOrigins) IsAllowedOrigin(origin string) bool {
	_, ok := a[origin]
	return ok
}

func (a AllowedOrigins) String() string {
	var origins []string
	for k := range a {
		origins = append(origins, k)
	}
	return strings.Join(origins, ", ")
}

func loadCors() Cors {
	return Cors{Origins: GetEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"})}
}

func (c Cors) GetAllowedOrigins() AllowedOrigins {
	return NewAllowedOrigins(c.Origins...)
}

func (Cors) GetAllowedMethods() string {
	return "GET, POST, PUT, DELETE, OPTIONS"
}

func (Cors) GetAllowedHeaders() string {
	return "Content-Type, Authorization, X-Requested-With"
}
