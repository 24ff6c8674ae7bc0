// Package session owns the authentication state of the web shell: who is
// logged in, whether a login or registration is running, and the message of
// the last failure. The credential token itself lives in a tokenstore.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"equipchain-web/authclient"
	"equipchain-web/logging"
	"equipchain-web/tokenstore"
)

const (
	MsgLoginFailed        = "Login failed"
	MsgRegistrationFailed = "Registration failed"
)

var (
	// ErrInFlight rejects a Login or Register while another one is running.
	ErrInFlight = errors.New("another authentication request is in flight")
	ErrNoToken  = errors.New("no credential token stored")
)

// AuthError is returned by Login and Register. Message is the fixed,
// user-facing text; Err is the underlying cause.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }

func (e *AuthError) Unwrap() error { return e.Err }

type User struct {
	Email string
}

// State is a copy of the session at one point in time.
type State struct {
	User      *User
	Loading   bool
	LastError string
}

func (s State) Authenticated() bool {
	return s.User != nil
}

// Store is the session of one application instance. It is safe for
// concurrent use; the network call runs outside the lock and at most one
// Login or Register runs at a time.
type Store struct {
	auth   authclient.Authenticator
	tokens tokenstore.Repository
	log    logging.Logger

	mu      sync.Mutex
	user    *User
	loading bool
	lastErr string
}

func NewStore(auth authclient.Authenticator, tokens tokenstore.Repository, log logging.Logger) *Store {
	return &Store{
		auth:   auth,
		tokens: tokens,
		log:    log.With("component", "session"),
	}
}

// Login authenticates and, on success, persists the token and sets the user.
// Every failure is an *AuthError with message "Login failed".
func (s *Store) Login(ctx context.Context, email, password, organizationID string) (authclient.Result, error) {
	return s.authenticate(ctx, "login", MsgLoginFailed, s.auth.Login, authclient.Credentials{
		Email:          email,
		Password:       password,
		OrganizationID: organizationID,
	})
}

// Register creates the account; otherwise identical to Login with the
// message "Registration failed".
func (s *Store) Register(ctx context.Context, email, password, organizationID string) (authclient.Result, error) {
	return s.authenticate(ctx, "register", MsgRegistrationFailed, s.auth.Register, authclient.Credentials{
		Email:          email,
		Password:       password,
		OrganizationID: organizationID,
	})
}

type authFunc func(ctx context.Context, c authclient.Credentials) (authclient.Result, error)

func (s *Store) authenticate(ctx context.Context, op, failure string, call authFunc, c authclient.Credentials) (authclient.Result, error) {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return authclient.Result{}, ErrInFlight
	}
	s.loading = true
	s.lastErr = ""
	s.mu.Unlock()

	res, err := call(ctx, c)
	if err == nil {
		if perr := s.tokens.Set(ctx, tokenstore.TokenKey, []byte(res.Token)); perr != nil {
			err = fmt.Errorf("persist token: %w", perr)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if err != nil {
		s.user = nil
		s.lastErr = failure
		s.log.Info(ctx, op+" failed", "email", c.Email, "error", err)
		return authclient.Result{}, &AuthError{Message: failure, Err: err}
	}

	s.user = &User{Email: res.Email}
	s.log.Info(ctx, op+" succeeded", "email", res.Email)
	return res, nil
}

// Logout forgets the user and removes the persisted token. It makes no
// network call and never fails; a storage error is only logged.
func (s *Store) Logout(ctx context.Context) {
	if err := s.tokens.Delete(ctx, tokenstore.TokenKey); err != nil {
		s.log.Error(ctx, "failed to remove token", "error", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
}

// Restore rebuilds the user from a token persisted by an earlier run. A
// missing token is not an error; an expired or rejected one is deleted. If the
// provider cannot be reached the token is kept and the error returned.
func (s *Store) Restore(ctx context.Context) error {
	raw, err := s.tokens.Get(ctx, tokenstore.TokenKey)
	if err != nil {
		return fmt.Errorf("read token: %w", err)
	}
	if raw == nil {
		return nil
	}

	id, err := s.auth.Resume(ctx, string(raw))
	if err != nil {
		if errors.Is(err, authclient.ErrInvalidToken) || errors.Is(err, authclient.ErrTokenExpired) {
			s.log.Info(ctx, "discarding stored token", "reason", err)
			if derr := s.tokens.Delete(ctx, tokenstore.TokenKey); derr != nil {
				return fmt.Errorf("delete token: %w", derr)
			}
			return nil
		}
		return fmt.Errorf("resume session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &User{Email: id.Email}
	s.log.Info(ctx, "session restored", "email", id.Email)
	return nil
}

// Token returns the persisted credential token.
func (s *Store) Token(ctx context.Context) (string, error) {
	raw, err := s.tokens.Get(ctx, tokenstore.TokenKey)
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	if raw == nil {
		return "", ErrNoToken
	}
	return string(raw), nil
}

func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{Loading: s.loading, LastError: s.lastErr}
	if s.user != nil {
		u := *s.user
		st.User = &u
	}
	return st
}
