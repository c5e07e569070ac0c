// kanoonsathi/routes/auth.go
package routes

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"kanoonsathi/kanoonsathi/controllers"
	"kanoonsathi/kanoonsathi/types"
)

const authCookie = "auth_token"

func AuthRoutes(ctrl *controllers.AuthController) chi.Router {
	r := chi.NewRouter()

	r.Post("/login", func(w http.ResponseWriter, r *http.Request) {
		var req types.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := ctrl.Login(r.Context(), req); err != nil {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		setAuthCookie(w, ctrl.Token())
		writeData(w, http.StatusOK, map[string]interface{}{"user": ctrl.CurrentUser()})
	})

	r.Post("/register", func(w http.ResponseWriter, r *http.Request) {
		var req types.RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := ctrl.Register(r.Context(), req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		setAuthCookie(w, ctrl.Token())
		writeData(w, http.StatusCreated, map[string]interface{}{"user": ctrl.CurrentUser()})
	})

	r.Post("/logout", func(w http.ResponseWriter, r *http.Request) {
		ctrl.Logout(r.Context())
		clearAuthCookie(w)
		w.WriteHeader(http.StatusNoContent)
	})

	r.Get("/me", func(w http.ResponseWriter, r *http.Request) {
		user := ctrl.CurrentUser()
		if user == nil {
			writeError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		writeData(w, http.StatusOK, user)
	})

	r.Put("/profile", func(w http.ResponseWriter, r *http.Request) {
		var req types.ProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		user, err := ctrl.UpdateProfile(r.Context(), req)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeData(w, http.StatusOK, user)
	})

	return r
}

// The cookie only mirrors session presence for the page guard; the token the
// backends see always comes from the session store.
func setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
