// kanoonsathi/routes/pages.go
package routes

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"kanoonsathi/kanoonsathi/middlewares"
)

// The view itself runs in the browser; these handlers only serve the shell
// that loads it, guarded by the session cookie.
const pageShell = `<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>Kanoon Sathi</title></head>
<body>
<div id="app" data-page="%s"></div>
<script src="/static/app.js"></script>
</body>
</html>`

func PageRoutes() chi.Router {
	r := chi.NewRouter()
	r.Use(middlewares.RouteGuard())

	r.Get("/", servePage("chat"))
	r.Get("/login", servePage("login"))
	r.Get("/register", servePage("register"))
	r.Get("/profile", servePage("profile"))
	return r
}

func servePage(name string) http.HandlerFunc {
	shell := fmt.Sprintf(pageShell, name)
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(shell))
	}
}
