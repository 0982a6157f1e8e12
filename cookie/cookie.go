// Package cookie issues and reads the gateway's two cookies: the auth cookie
// carrying the validated token and the short lived login cookie that ties a
// callback to its login session.
package cookie

import (
	"errors"
	"net/http"
	"time"
)

var ErrDecode = errors.New("cookie decode failure")

const loginCookiePath = "/auth"

// Settings are the cookie attributes. Auth cookie attributes come from
// configuration; the login cookie is always HttpOnly and SameSite=Lax so it
// survives the redirect back from the identity provider.
type Settings struct {
	Name     string
	MaxAge   int
	Secure   bool
	SameSite http.SameSite
	HTTPOnly bool

	LoginName   string
	LoginMaxAge time.Duration
}

type Manager struct {
	settings Settings
	now      func() time.Time
}

type Option func(*Manager)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

func NewManager(settings Settings, opts ...Option) *Manager {
	m := &Manager{settings: settings, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Name is the auth cookie name.
func (m *Manager) Name() string {
	return m.settings.Name
}

// MaxAgeFor caps the configured max age at the token's remaining lifetime.
// It never returns less than 1 so an issued cookie is never a deletion.
func (m *Manager) MaxAgeFor(expiry time.Time) int {
	maxAge := m.settings.MaxAge
	if !expiry.IsZero() {
		if remaining := int(expiry.Sub(m.now()).Seconds()); remaining < maxAge {
			maxAge = remaining
		}
	}
	return max(maxAge, 1)
}

// IssueAuth sets the auth cookie to rawToken.
func (m *Manager) IssueAuth(w http.ResponseWriter, rawToken string, expiry time.Time) {
	http.SetCookie(w, m.authCookie(rawToken, m.MaxAgeFor(expiry)))
}

// ClearAuth sets an expired auth cookie with the same name, path and
// attributes. It is safe to call when no cookie was ever issued.
func (m *Manager) ClearAuth(w http.ResponseWriter) {
	http.SetCookie(w, m.authCookie("", -1))
}

// AuthToken returns the raw token from the auth cookie. It returns
// http.ErrNoCookie when the cookie is absent and ErrDecode when its value
// cannot be a token.
func (m *Manager) AuthToken(r *http.Request) (string, error) {
	c, err := r.Cookie(m.settings.Name)
	if err != nil {
		return "", err
	}
	if !isTokenValue(c.Value) {
		return "", ErrDecode
	}
	return c.Value, nil
}

func (m *Manager) authCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     m.settings.Name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   m.settings.Secure,
		HttpOnly: m.settings.HTTPOnly,
		SameSite: m.settings.SameSite,
	}
}

// IssueLogin sets the login cookie to sessionID.
func (m *Manager) IssueLogin(w http.ResponseWriter, sessionID string) {
	maxAge := int(m.settings.LoginMaxAge.Seconds())
	http.SetCookie(w, m.loginCookie(sessionID, max(maxAge, 1)))
}

// LoginSessionID returns the session id carried by the login cookie.
func (m *Manager) LoginSessionID(r *http.Request) (string, bool) {
	c, err := r.Cookie(m.settings.LoginName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

func (m *Manager) ClearLogin(w http.ResponseWriter) {
	http.SetCookie(w, m.loginCookie("", -1))
}

func (m *Manager) loginCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     m.settings.LoginName,
		Value:    value,
		Path:     loginCookiePath,
		MaxAge:   maxAge,
		Secure:   m.settings.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// isTokenValue accepts non-empty base64url segments joined by dots.
func isTokenValue(v string) bool {
	if v == "" {
		return false
	}
	for _, r := range v {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.':
		default:
			return false
		}
	}
	return true
}
