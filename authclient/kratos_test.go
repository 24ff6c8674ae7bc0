package authclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"equipchain-web/logging"
)

const flowJSON = `{
	"id": "flow-1",
	"type": "api",
	"state": "choose_method",
	"expires_at": "2099-01-01T00:00:00Z",
	"issued_at": "2024-01-01T00:00:00Z",
	"request_url": "http://kratos.test/self-service/login/api",
	"ui": {"action": "http://kratos.test/self-service/login?flow=flow-1", "method": "POST", "nodes": []}
}`

const identityJSON = `{
	"id": "ident-1",
	"schema_id": "default",
	"schema_url": "http://kratos.test/schemas/default",
	"traits": {"email": "kratos@b.com", "organization_id": "org-1"}
}`

const sessionJSON = `{
	"id": "sess-1",
	"active": true,
	"expires_at": "2099-01-01T00:00:00Z",
	"identity": ` + identityJSON + `
}`

type kratosFake struct {
	loginStatus    int
	whoamiStatus   int
	whoamiActive   bool
	lastFlow       string
	lastUpdateBody map[string]any
	lastToken      string
}

func newKratosServer(t *testing.T, f *kratosFake) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	writeJSON := func(w http.ResponseWriter, status int, body string) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}

	mux.HandleFunc("/self-service/login/api", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, flowJSON)
	})
	mux.HandleFunc("/self-service/registration/api", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, flowJSON)
	})
	mux.HandleFunc("/self-service/login", func(w http.ResponseWriter, r *http.Request) {
		f.lastFlow = r.URL.Query().Get("flow")
		_ = json.NewDecoder(r.Body).Decode(&f.lastUpdateBody)
		if f.loginStatus != 0 && f.loginStatus != http.StatusOK {
			writeJSON(w, f.loginStatus, `{"error":{"code":400,"message":"invalid credentials"}}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"session_token":"kratos-token","session":`+sessionJSON+`}`)
	})
	mux.HandleFunc("/self-service/registration", func(w http.ResponseWriter, r *http.Request) {
		f.lastFlow = r.URL.Query().Get("flow")
		_ = json.NewDecoder(r.Body).Decode(&f.lastUpdateBody)
		writeJSON(w, http.StatusOK, `{"session_token":"kratos-token","identity":`+identityJSON+`}`)
	})
	mux.HandleFunc("/sessions/whoami", func(w http.ResponseWriter, r *http.Request) {
		f.lastToken = r.Header.Get("X-Session-Token")
		if f.whoamiStatus != 0 && f.whoamiStatus != http.StatusOK {
			writeJSON(w, f.whoamiStatus, `{"error":{"code":401,"message":"no session"}}`)
			return
		}
		body := sessionJSON
		if !f.whoamiActive {
			body = `{"id":"sess-1","active":false,"identity":` + identityJSON + `}`
		}
		writeJSON(w, http.StatusOK, body)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestKratosClient_Login(t *testing.T) {
	f := &kratosFake{}
	srv := newKratosServer(t, f)
	k := NewKratosClient(srv.URL, srv.Client(), logging.Nop())

	res, err := k.Login(context.Background(), Credentials{Email: "kratos@b.com", Password: "pw", OrganizationID: "org-1"})
	require.NoError(t, err)
	assert.Equal(t, Result{Token: "kratos-token", Email: "kratos@b.com"}, res)
	assert.Equal(t, "flow-1", f.lastFlow)
	assert.Equal(t, "password", f.lastUpdateBody["method"])
	assert.Equal(t, "kratos@b.com", f.lastUpdateBody["identifier"])
}

func TestKratosClient_LoginOrganizationMismatch(t *testing.T) {
	srv := newKratosServer(t, &kratosFake{})
	k := NewKratosClient(srv.URL, srv.Client(), logging.Nop())

	_, err := k.Login(context.Background(), Credentials{Email: "kratos@b.com", Password: "pw", OrganizationID: "org-2"})
	assert.ErrorIs(t, err, ErrRejected)
}

func TestKratosClient_LoginRejected(t *testing.T) {
	srv := newKratosServer(t, &kratosFake{loginStatus: http.StatusBadRequest})
	k := NewKratosClient(srv.URL, srv.Client(), logging.Nop())

	_, err := k.Login(context.Background(), Credentials{Email: "a@b.com", Password: "bad"})
	assert.ErrorIs(t, err, ErrRejected)
}

func TestKratosClient_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	k := NewKratosClient(url, nil, logging.Nop())

	_, err := k.Login(context.Background(), Credentials{})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestKratosClient_RegisterSendsTraits(t *testing.T) {
	f := &kratosFake{}
	srv := newKratosServer(t, f)
	k := NewKratosClient(srv.URL, srv.Client(), logging.Nop())

	res, err := k.Register(context.Background(), Credentials{Email: "kratos@b.com", Password: "Str0ng!pw", OrganizationID: "org-1"})
	require.NoError(t, err)
	assert.Equal(t, "kratos-token", res.Token)

	traits, ok := f.lastUpdateBody["traits"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "kratos@b.com", traits["email"])
	assert.Equal(t, "org-1", traits["organization_id"])
}

func TestKratosClient_Resume(t *testing.T) {
	f := &kratosFake{whoamiActive: true}
	srv := newKratosServer(t, f)
	k := NewKratosClient(srv.URL, srv.Client(), logging.Nop())

	id, err := k.Resume(context.Background(), "kratos-token")
	require.NoError(t, err)
	assert.Equal(t, "kratos@b.com", id.Email)
	assert.Equal(t, "org-1", id.OrganizationID)
	assert.Equal(t, "kratos-token", f.lastToken)

	f.whoamiActive = false
	_, err = k.Resume(context.Background(), "kratos-token")
	assert.ErrorIs(t, err, ErrTokenExpired)

	f.whoamiStatus = http.StatusUnauthorized
	_, err = k.Resume(context.Background(), "kratos-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
