// kanoonsathi/middlewares/auth.go
package middlewares

import (
	"net/http"
	"net/url"
	"strings"
)

const authCookie = "auth_token"

var (
	// pages that need a logged-in session
	protectedRoutes = []string{"/profile"}
	// pages that make no sense once logged in
	authRoutes = []string{"/login", "/register"}
)

// RouteGuard redirects page requests based on session cookie presence:
// protected pages bounce anonymous visitors to /login (remembering where they
// were going), and the login/register pages bounce authenticated users home.
// Presence is all it checks; the backends judge token validity.
func RouteGuard() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, err := r.Cookie(authCookie)
			hasToken := err == nil

			if !hasToken && matchesAny(r.URL.Path, protectedRoutes) {
				target := "/login?redirect=" + url.QueryEscape(r.URL.Path)
				http.Redirect(w, r, target, http.StatusFound)
				return
			}
			if hasToken && matchesAny(r.URL.Path, authRoutes) {
				http.Redirect(w, r, "/", http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func matchesAny(path string, routes []string) bool {
	for _, route := range routes {
		if strings.HasPrefix(path, route) {
			return true
		}
	}
	return false
}
