package app

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"equipchain-web/authclient"
	"equipchain-web/config"
	"equipchain-web/logging"
	"equipchain-web/session"
	"equipchain-web/tokenstore"
)

type fixedState session.State

func (f fixedState) Snapshot() session.State { return session.State(f) }

func TestRequireSession(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	RequireSession(fixedState{}, next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	authed := fixedState{User: &session.User{Email: "a@b.com"}}
	RequireSession(authed, next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func testConfig(t *testing.T, apiURL string) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.APIURL = apiURL
	cfg.TokenDBPath = filepath.Join(t.TempDir(), "equipchain.db")
	cfg.RequestTimeout = 2 * time.Second
	return cfg
}

func TestNewAuthenticator(t *testing.T) {
	ctx := context.Background()

	cfg := testConfig(t, "http://127.0.0.1:8080")
	auth, err := NewAuthenticator(ctx, cfg, logging.Nop())
	require.NoError(t, err)
	assert.IsType(t, &authclient.HTTPClient{}, auth)

	cfg.AuthProvider = config.ProviderKratos
	auth, err = NewAuthenticator(ctx, cfg, logging.Nop())
	require.NoError(t, err)
	assert.IsType(t, &authclient.KratosClient{}, auth)

	cfg.AuthProvider = "ldap"
	_, err = NewAuthenticator(ctx, cfg, logging.Nop())
	assert.ErrorIs(t, err, config.ErrUnknownProvider)
}

func TestNewAuthenticator_BadJWKS(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	cfg := testConfig(t, "http://127.0.0.1:8080")
	cfg.JWKSURL = srv.URL + "/.well-known/jwks.json"

	_, err := NewAuthenticator(context.Background(), cfg, logging.Nop())
	assert.ErrorIs(t, err, authclient.ErrFetchJWKSet)
}

func signedToken(t *testing.T, email string, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email":           email,
		"organization_id": "org-1",
		"exp":             exp.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func TestNew_RestoresSession(t *testing.T) {
	ctx := context.Background()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"equipment":[{"id":"6b1d3f2e-0d6c-4b8e-9f3a-2a1c5e7d9b40","serial_number":"SN-001","make":"Dell","model":"XPS","status_id":1}],"total":1}`)
	}))
	t.Cleanup(api.Close)

	cfg := testConfig(t, api.URL)

	db, err := tokenstore.Open(ctx, cfg.TokenDBPath)
	require.NoError(t, err)
	repo := tokenstore.NewSQLiteRepository(db)
	require.NoError(t, repo.Set(ctx, tokenstore.TokenKey, []byte(signedToken(t, "a@b.com", time.Now().Add(time.Hour)))))
	require.NoError(t, db.Close())

	a, err := New(ctx, cfg, logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	st := a.Session().Snapshot()
	require.NotNil(t, st.User)
	assert.Equal(t, "a@b.com", st.User.Email)

	rec := serve(a, "/dashboard")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "SN-001")
}

func TestNew_DropsExpiredToken(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, "http://127.0.0.1:8080")

	db, err := tokenstore.Open(ctx, cfg.TokenDBPath)
	require.NoError(t, err)
	require.NoError(t, tokenstore.NewSQLiteRepository(db).Set(ctx, tokenstore.TokenKey, []byte(signedToken(t, "a@b.com", time.Now().Add(-time.Hour)))))
	require.NoError(t, db.Close())

	a, err := New(ctx, cfg, logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	assert.False(t, a.Session().Snapshot().Authenticated())
	_, err = a.Session().Token(ctx)
	assert.ErrorIs(t, err, session.ErrNoToken)

	rec := serve(a, "/dashboard")
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	rec = serve(a, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNew_KeepsTokenInMemoryWithoutDBPath(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, "http://127.0.0.1:8080")
	cfg.TokenDBPath = ""

	a, err := New(ctx, cfg, logging.Nop())
	require.NoError(t, err)
	assert.Nil(t, a.db)
	assert.NoError(t, a.Close())

	_, err = a.Session().Token(ctx)
	assert.ErrorIs(t, err, session.ErrNoToken)
}

func TestNew_RejectsUnknownHost(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:8080")

	a, err := New(context.Background(), cfg, logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.Host = "attacker.example:3000"
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req.Host = "localhost:3000"
	rec = httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAllowedHosts(t *testing.T) {
	tests := []struct {
		addr string
		want []string
	}{
		{addr: "127.0.0.1:3000", want: []string{"127.0.0.1:3000", "localhost:3000", "127.0.0.1:3000", "[::1]:3000"}},
		{addr: ":8080", want: []string{":8080", "localhost:8080", "127.0.0.1:8080", "[::1]:8080"}},
		{addr: "127.0.0.1:80", want: []string{"127.0.0.1:80", "localhost:80", "127.0.0.1:80", "[::1]:80", "localhost", "127.0.0.1", "[::1]"}},
		{addr: "shell.internal:3000", want: []string{"shell.internal:3000"}},
		{addr: "no-port", want: []string{"no-port"}},
	}

	for _, tc := range tests {
		t.Run(tc.addr, func(t *testing.T) {
			assert.Equal(t, tc.want, allowedHosts(tc.addr))
		})
	}
}

// serve runs a GET for target against a's router with the Host header of
// the configured listen address.
func serve(a *App, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Host = a.cfg.ListenAddr
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	return rec
}

func TestStart_StopsOnCancel(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:8080")
	cfg.ListenAddr = "127.0.0.1:0"

	a, err := New(context.Background(), cfg, logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Start(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
