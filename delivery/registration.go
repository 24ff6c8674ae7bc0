package delivery

import (
	"net/http"
	"strings"

	"equipchain-web/delivery/model"
	"equipchain-web/delivery/ui"
	"equipchain-web/validation"
)

const passwordHint = "At least 8 characters with upper and lower case letters, a number and a symbol"

type registrationForm struct {
	email          string
	organizationID string
	errs           validation.Errors
	banner         string
}

func (h *HTTPEndpoint) registrationPage(r *http.Request, f registrationForm) model.RegisterPage {
	return model.RegisterPage{
		Layout: h.layout(r, "Register"),
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
			Hint:         passwordHint,
			Error:        f.errs["password"],
			Required:     true,
			AutoComplete: "new-password",
		},
		ConfirmPassword: ui.Input{
			Label:        "Confirm Password",
			Name:         "confirmPassword",
			Type:         "password",
			Placeholder:  "Confirm Password",
			Error:        f.errs["confirmPassword"],
			Required:     true,
			AutoComplete: "new-password",
		},
		OrganizationID: ui.Input{
			Label:       "Organization ID",
			Name:        "organizationId",
			Value:       f.organizationID,
			Placeholder: "Organization ID",
			Required:    true,
		},
		Submit: ui.Button{
			Label:        "Register",
			Type:         "submit",
			FullWidth:    true,
			Loading:      h.app.Session().Snapshot().Loading,
			LoadingLabel: "Registering...",
		},
	}
}

// registrationHandler handles the GET request for the registration page.
func (h *HTTPEndpoint) registrationHandler(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "register", h.registrationPage(r, registrationForm{}))
}

// registrationSubmitHandler validates the form and creates the account.
// On success the new user is logged in and sent to the dashboard.
func (h *HTTPEndpoint) registrationSubmitHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	form := registrationForm{
		email:          r.PostForm.Get("email"),
		organizationID: strings.TrimSpace(r.PostForm.Get("organizationId")),
	}

	reg, err := validation.ValidateRegister(draftFromForm(r.PostForm, "email", "password", "confirmPassword"))
	if err != nil {
		form.errs, _ = fieldErrors(err)
		h.render(w, r, http.StatusUnprocessableEntity, "register", h.registrationPage(r, form))
		return
	}

	_, err = h.app.Session().Register(r.Context(), reg.Email, reg.Password, form.organizationID)
	if err != nil {
		status, banner := authFailure(err)
		form.banner = banner
		h.render(w, r, status, "register", h.registrationPage(r, form))
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}
