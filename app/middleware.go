package app

import (
	"net/http"

	"equipchain-web/session"
)

// SessionMiddleware admits a request only while the session has a user;
// anyone else is redirected to the login page.
func (a *App) SessionMiddleware(next http.Handler) http.Handler {
	return RequireSession(a.session, next)
}

type snapshotter interface {
	Snapshot() session.State
}

// RequireSession gates next behind an authenticated session.
func RequireSession(s snapshotter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.Snapshot().Authenticated() {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
