package middleware

import (
	"net/http"
	"strings"
)

// SessionChecker reports whether a request carries a valid admin session.
type SessionChecker interface {
	IsAuthenticated(r *http.Request) bool
}

// RequireAdmin rejects API calls without an admin session with 401 and no data.
func RequireAdmin(auth SessionChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !auth.IsAuthenticated(r) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"success":false,"error":"Unauthorized"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdminPage redirects page navigations under the admin prefix to
// loginPath when there is no admin session. loginPath itself is never guarded.
func RequireAdminPage(auth SessionChecker, loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, loginPath) || auth.IsAuthenticated(r) {
				next.ServeHTTP(w, r)
				return
			}
			http.Redirect(w, r, loginPath, http.StatusFound)
		})
	}
}
