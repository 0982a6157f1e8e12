package config

import (
	"net/http"
	"strings"
)

type CookieConfig interface {
	GetCookieName() string
	GetCookieMaxAge() int
	GetCookieSecure() bool
	GetCookieSameSite() http.SameSite
	GetCookieHTTPOnly() bool
	GetLoginCookieName() string
}

type Cookie struct {
	Name            string
	MaxAge          int
	Secure          bool
	SameSite        string
	HTTPOnly        bool
	LoginCookieName string
}

var _ CookieConfig = Cookie{}

func loadCookie() Cookie {
	return Cookie{
		Name:            GetEnv("COOKIE_NAME", "AUTH_TOKEN"),
		MaxAge:          GetEnvInt("COOKIE_MAX_AGE", 3600),
		Secure:          GetEnvBool("COOKIE_SECURE", true),
		SameSite:        GetEnv("COOKIE_SAME_SITE", "Strict"),
		HTTPOnly:        GetEnvBool("COOKIE_HTTP_ONLY", true),
		LoginCookieName: GetEnv("LOGIN_COOKIE_NAME", "bff_login"),
	}
}

func (c Cookie) GetCookieName() string { return c.Name }
func (c Cookie) GetCookieMaxAge() int { return c.MaxAge }
func (c Cookie) GetCookieSecure() bool { return c.Secure }
func (c Cookie) GetCookieHTTPOnly() bool { return c.HTTPOnly }
func (c Cookie) GetLoginCookieName() string { return c.LoginCookieName }

// GetCookieSameSite maps the configured policy name, defaulting to Strict.
func (c Cookie) GetCookieSameSite() http.SameSite {
	mode, ok := ParseSameSite(c.SameSite)
	if !ok {
		return http.SameSiteStrictMode
	}
	return mode
}

func ParseSameSite(value string) (http.SameSite, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "strict":
		return http.SameSiteStrictMode, true
	case "lax":
		return http.SameSiteLaxMode, true
	case "none":
		return http.SameSiteNoneMode, true
	}
	return http.SameSiteDefaultMode, false
}
