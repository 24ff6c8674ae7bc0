// Package cli is the terminal front end of the session store: it logs in,
// registers, logs out and reports who is logged in.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"equipchain-web/authclient"
	"equipchain-web/session"
	"equipchain-web/validation"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrInvalidInput   = errors.New("invalid input")
)

const usage = `usage: equipctl [flags] <command>

commands:
  login      log in and store the credential token
  register   create an account and log in
  logout     forget the stored token
  whoami     show the logged-in user
`

// Session is the part of the session store the CLI drives.
type Session interface {
	Login(ctx context.Context, email, password, organizationID string) (authclient.Result, error)
	Register(ctx context.Context, email, password, organizationID string) (authclient.Result, error)
	Logout(ctx context.Context)
	Snapshot() session.State
}

type App struct {
	session Session
	in      *bufio.Reader
	out     io.Writer
}

func NewApp(s Session, in io.Reader, out io.Writer) *App {
	return &App{session: s, in: bufio.NewReader(in), out: out}
}

// Run executes the command named by args[0].
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return nil
	}

	switch args[0] {
	case "login":
		return a.Login(ctx)
	case "register":
		return a.Register(ctx)
	case "logout":
		a.session.Logout(ctx)
		fmt.Fprintln(a.out, "Logged out.")
		return nil
	case "whoami":
		return a.WhoAmI()
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return nil
	default:
		fmt.Fprint(a.out, usage)
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}
}

func (a *App) Login(ctx context.Context) error {
	email, err := prompt(a.in, a.out, "Email")
	if err != nil {
		return err
	}
	org, err := prompt(a.in, a.out, "Organization ID")
	if err != nil {
		return err
	}
	password, err := promptPassword(a.out, "Password")
	if err != nil {
		return err
	}

	creds, err := validation.ValidateLogin(validation.Draft{"email": email, "password": password})
	if err != nil {
		return a.reportInvalid(err)
	}

	res, err := a.session.Login(ctx, creds.Email, creds.Password, org)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s.\n", res.Email)
	return nil
}

func (a *App) Register(ctx context.Context) error {
	email, err := prompt(a.in, a.out, "Email")
	if err != nil {
		return err
	}
	org, err := prompt(a.in, a.out, "Organization ID")
	if err != nil {
		return err
	}
	password, err := promptPassword(a.out, "Password")
	if err != nil {
		return err
	}
	confirm, err := promptPassword(a.out, "Confirm password")
	if err != nil {
		return err
	}

	reg, err := validation.ValidateRegister(validation.Draft{
		"email":           email,
		"password":        password,
		"confirmPassword": confirm,
	})
	if err != nil {
		return a.reportInvalid(err)
	}

	res, err := a.session.Register(ctx, reg.Email, reg.Password, org)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Registered and logged in as %s.\n", res.Email)
	return nil
}

func (a *App) WhoAmI() error {
	st := a.session.Snapshot()
	if st.User == nil {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}
	fmt.Fprintln(a.out, st.User.Email)
	return nil
}

// reportInvalid prints each field error on its own line.
func (a *App) reportInvalid(err error) error {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]string, 0, len(verrs))
	for f := range verrs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		fmt.Fprintf(a.out, "  %s: %s\n", f, verrs[f])
	}
	return ErrInvalidInput
}
