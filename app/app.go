// Package app owns the dependency graph of the web shell: it builds every
// collaborator from the configuration, restores the session and serves the
// router.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"equipchain-web/authclient"
	"equipchain-web/config"
	"equipchain-web/delivery"
	"equipchain-web/equipment"
	"equipchain-web/logging"
	"equipchain-web/session"
	"equipchain-web/tokenstore"
)

const shutdownTimeout = 5 * time.Second

// App holds the application's dependencies and state.
type App struct {
	cfg       *config.Config
	log       logging.Logger
	db        *sql.DB
	session   *session.Store
	equipment *equipment.Client
	Router    http.Handler
}

var _ delivery.AppDependencies = (*App)(nil)

// New opens the token database, picks the authenticator, restores any
// session left by a previous run and sets up the router.
func New(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	templates, err := delivery.ParseAllTemplates()
	if err != nil {
		return nil, err
	}

	db, tokens, err := openTokenStore(ctx, cfg.TokenDBPath)
	if err != nil {
		return nil, err
	}

	auth, err := NewAuthenticator(ctx, cfg, log)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, err
	}

	store := session.NewStore(auth, tokens, log)
	if err := store.Restore(ctx); err != nil {
		log.Warn(ctx, "could not restore previous session", "error", err)
	}

	a := &App{
		cfg:     cfg,
		log:     log,
		db:      db,
		session: store,
		equipment: equipment.NewClient(equipment.Config{
			BaseURL: cfg.APIURL,
			Timeout: cfg.RequestTimeout,
		}, nil, log),
	}
	a.Router = delivery.NewRouter(a, templates)

	return a, nil
}

// openTokenStore opens the sqlite token database at path. An empty path keeps
// the token in memory and returns a nil db.
func openTokenStore(ctx context.Context, path string) (*sql.DB, tokenstore.Repository, error) {
	if path == "" {
		return nil, tokenstore.NewMemoryRepository(), nil
	}
	db, err := tokenstore.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	return db, tokenstore.NewSQLiteRepository(db), nil
}

// NewAuthenticator builds the authenticator named by cfg.AuthProvider. With
// a JWKS URL, restored EquipChain tokens must verify against it.
func NewAuthenticator(ctx context.Context, cfg *config.Config, log logging.Logger) (authclient.Authenticator, error) {
	httpClient := &http.Client{Timeout: cfg.RequestTimeout}

	switch cfg.AuthProvider {
	case config.ProviderKratos:
		return authclient.NewKratosClient(cfg.KratosURL, httpClient, log), nil
	case config.ProviderEquipChain:
		var claims authclient.ClaimsReader = authclient.NewUnverifiedClaims()
		if cfg.JWKSURL != "" {
			jwks, err := authclient.NewJWKSClaims(ctx, cfg.JWKSURL)
			if err != nil {
				return nil, err
			}
			claims = jwks
		}
		return authclient.NewHTTPClient(authclient.HTTPClientConfig{
			BaseURL: cfg.APIURL,
			Timeout: cfg.RequestTimeout,
		}, httpClient, claims, log), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownProvider, cfg.AuthProvider)
	}
}

// Start serves the router on the configured address until ctx is done,
// then shuts down gracefully.
func (a *App) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.cfg.ListenAddr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info(ctx, "server listening", "addr", a.cfg.ListenAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	a.log.Info(context.Background(), "shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close releases the token database.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *App) Session() delivery.Session {
	return a.session
}

func (a *App) Equipment() delivery.Equipment {
	return a.equipment
}

func (a *App) Logger() logging.Logger {
	return a.log
}

func (a *App) PageSize() int {
	return a.cfg.PageSize
}

func (a *App) AllowedHosts() []string {
	return allowedHosts(a.cfg.ListenAddr)
}

// allowedHosts lists the Host header values the shell answers to: the listen
// address and, when it binds loopback or every interface, the loopback names
// on the same port.
func allowedHosts(addr string) []string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return []string{addr}
	}

	hosts := []string{addr}
	switch host {
	case "", "0.0.0.0", "::", "localhost", "127.0.0.1", "::1":
		for _, name := range []string{"localhost", "127.0.0.1", "::1"} {
			hosts = append(hosts, net.JoinHostPort(name, port))
		}
		if port == "80" {
			hosts = append(hosts, "localhost", "127.0.0.1", "[::1]")
		}
	}
	return hosts
}
