// Package authclient talks to the identity provider behind the web shell.
//
// Two providers implement Authenticator: HTTPClient for the EquipChain API
// (POST /api/auth/login and /api/auth/register) and KratosClient for an Ory
// Kratos public API using native flows.
package authclient

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrRejected means the provider answered with a non-success status.
	ErrRejected = errors.New("rejected by authentication service")
	// ErrUnavailable means the provider could not be reached.
	ErrUnavailable = errors.New("authentication service unavailable")
	// ErrMalformedResponse means a success status carried an unusable body.
	ErrMalformedResponse = errors.New("malformed authentication response")

	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// RequestIDHeader carries a fresh uuid on every outgoing call.
const RequestIDHeader = "X-Request-ID"

// Credentials are the values a user submits to log in or register.
type Credentials struct {
	Email          string
	Password       string
	OrganizationID string
}

// Result is what a successful login or registration hands back.
type Result struct {
	Token string
	Email string
}

// Identity is the user a stored token belongs to.
type Identity struct {
	Email          string
	OrganizationID string
	ExpiresAt      time.Time
}

// Authenticator performs exactly one network round trip per Login or
// Register. Resume turns a previously issued token back into an Identity.
type Authenticator interface {
	Login(ctx context.Context, c Credentials) (Result, error)
	Register(ctx context.Context, c Credentials) (Result, error)
	Resume(ctx context.Context, token string) (Identity, error)
}
