package delivery

import "net/http"

// logoutHandler forgets the session and sends the user to the login page.
func (h *HTTPEndpoint) logoutHandler(w http.ResponseWriter, r *http.Request) {
	h.app.Session().Logout(r.Context())
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
