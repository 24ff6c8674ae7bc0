package delivery

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"equipchain-web/authclient"
	"equipchain-web/equipment"
	"equipchain-web/logging"
	"equipchain-web/session"
	"equipchain-web/validation"
)

// Session is the part of the session store the handlers drive.
type Session interface {
	Login(ctx context.Context, email, password, organizationID string) (authclient.Result, error)
	Register(ctx context.Context, email, password, organizationID string) (authclient.Result, error)
	Logout(ctx context.Context)
	Snapshot() session.State
	Token(ctx context.Context) (string, error)
}

// Equipment is the equipment API as seen by the dashboard.
type Equipment interface {
	List(ctx context.Context, token string) ([]equipment.Record, error)
	Create(ctx context.Context, token string, e validation.Equipment) (equipment.Record, error)
	Delete(ctx context.Context, token string, id uuid.UUID) error
}

// AppDependencies defines the contract that the delivery layer (HTTP handlers)
// expects from the core application layer.
type AppDependencies interface {
	Session() Session
	Equipment() Equipment
	Logger() logging.Logger

	// PageSize is the number of equipment rows per dashboard page.
	PageSize() int

	// AllowedHosts lists the Host header values served; empty serves any.
	AllowedHosts() []string

	// SessionMiddleware protects the dashboard routes.
	SessionMiddleware(next http.Handler) http.Handler
}
