package delivery

import (
	"errors"
	"net/http"
	"strings"

	"equipchain-web/delivery/model"
	"equipchain-web/delivery/ui"
	"equipchain-web/session"
	"equipchain-web/validation"
)

const msgInFlight = "Another sign-in is already in progress. Please wait."

type loginForm struct {
	email          string
	organizationID string
	errs           validation.Errors
	banner         string
}

func (h *HTTPEndpoint) loginPage(r *http.Request, f loginForm) model.LoginPage {
	return model.LoginPage{
		Layout: h.layout(r, "Login"),
		Banner: f.banner,
		Email: ui.Input{
			Label:        "Email",
			Name:         "email",
			Type:         "email",
			Value:        f.email,
			Placeholder:  "Email",
			Error:        f.errs["email"],
			Required:     true,
			AutoComplete: "email",
		},
		Password: ui.Input{
			Label:        "Password",
			Name:         "password",
			Type:         "password",
			Placeholder:  "Password",
			Error:        f.errs["password"],
			Required:     true,
			AutoComplete: "current-password",
		},
		OrganizationID: ui.Input{
			Label:       "Organization ID",
			Name:        "organizationId",
			Value:       f.organizationID,
			Placeholder: "Organization ID",
			Required:    true,
		},
		Submit: ui.Button{
			Label:        "Login",
			Type:         "submit",
			FullWidth:    true,
			Loading:      h.app.Session().Snapshot().Loading,
			LoadingLabel: "Logging in...",
		},
	}
}

// loginHandler handles the GET request for the login page.
func (h *HTTPEndpoint) loginHandler(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "login", h.loginPage(r, loginForm{}))
}

// loginSubmitHandler validates the form, then logs in through the session
// store. Validation failures never reach the network.
func (h *HTTPEndpoint) loginSubmitHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	form := loginForm{
		email:          r.PostForm.Get("email"),
		organizationID: strings.TrimSpace(r.PostForm.Get("organizationId")),
	}

	creds, err := validation.ValidateLogin(draftFromForm(r.PostForm, "email", "password"))
	if err != nil {
		form.errs, _ = fieldErrors(err)
		h.render(w, r, http.StatusUnprocessableEntity, "login", h.loginPage(r, form))
		return
	}

	_, err = h.app.Session().Login(r.Context(), creds.Email, creds.Password, form.organizationID)
	if err != nil {
		status, banner := authFailure(err)
		form.banner = banner
		h.render(w, r, status, "login", h.loginPage(r, form))
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// authFailure maps a Login or Register error to a status and banner.
func authFailure(err error) (int, string) {
	if errors.Is(err, session.ErrInFlight) {
		return http.StatusConflict, msgInFlight
	}
	var aerr *session.AuthError
	if errors.As(err, &aerr) {
		return http.StatusUnauthorized, aerr.Message
	}
	return http.StatusInternalServerError, "An unexpected error occurred."
}
