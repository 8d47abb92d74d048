package services

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/AnshRaj112/bellaciao-guestbook/pkg/errors"
	"github.com/AnshRaj112/bellaciao-guestbook/pkg/utils"
)

const (
	// AdminSessionDuration is 7 days
	AdminSessionDuration = 7 * 24 * time.Hour
	// AdminCookieName carries the authenticated flag
	AdminCookieName = "admin-auth"
	// AdminCookieValue is the only value the guard accepts
	AdminCookieValue = "true"
)

// AdminAuth checks the single admin secret and issues the session cookie.
//
// The session is a bare flag: the guard compares the cookie value with
// AdminCookieValue and nothing else, so anyone able to set that cookie is
// treated as the admin. HttpOnly, SameSite=Lax and Secure (in production)
// are the only protections.
type AdminAuth struct {
	password     string
	passwordHash string
	secure       bool
	now          func() time.Time
}

// NewAdminAuth builds an AdminAuth. When passwordHash is non-empty it must be
// an argon2id hash from utils.HashPassword and is used instead of password.
func NewAdminAuth(password, passwordHash string, secure bool) *AdminAuth {
	return &AdminAuth{
		password:     password,
		passwordHash: passwordHash,
		secure:       secure,
		now:          time.Now,
	}
}

// CheckPassword compares the submitted password with the configured secret.
// An unset secret never matches.
func (a *AdminAuth) CheckPassword(password string) bool {
	if a.passwordHash != "" {
		ok, err := utils.VerifyPassword(password, a.passwordHash)
		if err != nil {
			log.Error().Err(err).Msg("ADMIN_PASS_HASH is not a valid argon2id hash")
			return false
		}
		return ok
	}
	if a.password == "" {
		return false
	}
	return password == a.password
}

// Login returns the session cookie on a password match and an AuthError otherwise.
func (a *AdminAuth) Login(password string) (*http.Cookie, error) {
	if !a.CheckPassword(password) {
		return nil, apperrors.NewAuthError("Invalid password")
	}
	return a.SessionCookie(), nil
}

// SessionCookie is the authenticated flag with a fixed 7-day lifetime.
func (a *AdminAuth) SessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     AdminCookieName,
		Value:    AdminCookieValue,
		Path:     "/",
		Expires:  a.now().Add(AdminSessionDuration),
		MaxAge:   int(AdminSessionDuration.Seconds()),
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearedCookie overwrites the session cookie with an empty, already expired value.
func (a *AdminAuth) ClearedCookie() *http.Cookie {
	return &http.Cookie{
		Name:     AdminCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1, // emitted as Max-Age=0
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// IsAuthenticated reports whether the request carries the authenticated flag.
func (a *AdminAuth) IsAuthenticated(r *http.Request) bool {
	cookie, err := r.Cookie(AdminCookieName)
	if err != nil {
		return false
	}
	return cookie.Value == AdminCookieValue
}
