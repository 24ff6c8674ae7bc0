package delivery

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"equipchain-web/delivery/model"
	"equipchain-web/validation"
)

// HTTPEndpoint holds a reference to the core application and the parsed
// templates.
type HTTPEndpoint struct {
	app       AppDependencies
	templates *Templates
}

func (h *HTTPEndpoint) layout(r *http.Request, title string) model.Layout {
	l := model.Layout{Title: title, CSRFToken: csrfTokenFromContext(r.Context())}
	if st := h.app.Session().Snapshot(); st.User != nil {
		l.UserEmail = st.User.Email
	}
	return l
}

// render writes a page; a template failure falls back to a plain 500.
func (h *HTTPEndpoint) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	if err := h.templates.render(w, status, page, data); err != nil {
		h.app.Logger().Error(r.Context(), "failed to render page", "page", page, "error", err)
		http.Error(w, "Failed to render the page", http.StatusInternalServerError)
	}
}

func (h *HTTPEndpoint) homeHandler(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "home", model.HomePage{Layout: h.layout(r, "")})
}

func (h *HTTPEndpoint) notFoundHandler(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, "notfound", model.HomePage{Layout: h.layout(r, "Not Found")})
}

// errorPage renders the generic error page with status.
func (h *HTTPEndpoint) errorPage(w http.ResponseWriter, r *http.Request, status int, reason string) {
	if reason == "" {
		reason = "An unexpected error occurred."
	}
	h.render(w, r, status, "error", model.ErrorPage{Layout: h.layout(r, "Error"), Reason: reason})
}

func (h *HTTPEndpoint) healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// draftFromForm turns submitted form values into a validation draft. Empty
// values are left out so optional fields read as not supplied.
func draftFromForm(form url.Values, fields ...string) validation.Draft {
	d := make(validation.Draft, len(fields))
	for _, f := range fields {
		if v := form.Get(f); v != "" {
			d[f] = v
		}
	}
	return d
}

// fieldErrors extracts per-field messages from a validation failure.
func fieldErrors(err error) (validation.Errors, bool) {
	var verrs validation.Errors
	ok := errors.As(err, &verrs)
	return verrs, ok
}
