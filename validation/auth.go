package validation

// Login is an accepted login form.
type Login struct {
	Email    string
	Password string
}

// Register is an accepted registration form. The confirmation is not kept.
type Register struct {
	Email    string
	Password string
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=6"`
}

type registerInput struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"min=8,password_upper,password_lower,password_digit,password_symbol"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
}

var loginMessages = messages{
	"email": {
		"required": "Invalid email address",
		"email":    "Invalid email address",
	},
	"password": {
		"min": "Password must be at least 6 characters",
	},
}

var registerMessages = messages{
	"email": {
		"required": "Email is required",
		"email":    "Invalid email address",
	},
	"password": {
		"min":             "Password must be at least 8 characters",
		"password_upper":  "Must contain uppercase letter (A-Z)",
		"password_lower":  "Must contain lowercase letter (a-z)",
		"password_digit":  "Must contain number (0-9)",
		"password_symbol": "Must contain special character (!@#$%^&* etc)",
	},
	"confirmPassword": {
		"eqfield": "Passwords don't match",
	},
}

// ValidateLogin checks the email and password of a login draft.
func ValidateLogin(d Draft) (Login, error) {
	errs := Errors{}
	in := loginInput{
		Email:    d.text("email", errs),
		Password: d.text("password", errs),
	}
	collect(in, loginMessages, errs)

	if err := errs.err(); err != nil {
		return Login{}, err
	}
	return Login{Email: in.Email, Password: in.Password}, nil
}

// ValidateRegister checks a registration draft. A mismatched confirmation is
// always reported on confirmPassword, whatever the state of the other fields.
func ValidateRegister(d Draft) (Register, error) {
	errs := Errors{}
	in := registerInput{
		Email:           d.text("email", errs),
		Password:        d.text("password", errs),
		ConfirmPassword: d.text("confirmPassword", errs),
	}
	collect(in, registerMessages, errs)

	if err := errs.err(); err != nil {
		return Register{}, err
	}
	return Register{Email: in.Email, Password: in.Password}, nil
}
