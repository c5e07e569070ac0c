package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func guardedHandler() http.Handler {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return RouteGuard()(ok)
}

func TestRouteGuardRedirectsAnonymousFromProfile(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	rec := httptest.NewRecorder()

	guardedHandler().ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login?redirect=%2Fprofile" {
		t.Errorf("Location %q", loc)
	}
}

func TestRouteGuardRedirectsAuthenticatedFromLogin(t *testing.T) {
	for _, path := range []string{"/login", "/register"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.AddCookie(&http.Cookie{Name: "auth_token", Value: "tok"})
		rec := httptest.NewRecorder()

		guardedHandler().ServeHTTP(rec, req)

		if rec.Code != http.StatusFound {
			t.Errorf("%s: status %d, want 302", path, rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != "/" {
			t.Errorf("%s: Location %q", path, loc)
		}
	}
}

func TestRouteGuardPassesThrough(t *testing.T) {
	cases := []struct {
		name   string
		path   string
		cookie bool
	}{
		{"anonymous on public page", "/", false},
		{"anonymous on login page", "/login", false},
		{"authenticated on profile", "/profile", true},
		{"authenticated on public page", "/", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.cookie {
				req.AddCookie(&http.Cookie{Name: "auth_token", Value: "tok"})
			}
			rec := httptest.NewRecorder()

			guardedHandler().ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Errorf("status %d, want 200", rec.Code)
			}
		})
	}
}
