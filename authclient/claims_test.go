package authclient

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func signToken(t *testing.T, kid string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	if kid != "" {
		token.Header["kid"] = kid
	}
	s, err := token.SignedString(testSecret)
	require.NoError(t, err)
	return s
}

func TestUnverifiedClaims_Read(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	u := NewUnverifiedClaims()
	u.now = func() time.Time { return now }

	valid := signToken(t, "", jwt.MapClaims{
		"email":           "a@b.com",
		"organization_id": "org-1",
		"exp":             now.Add(time.Hour).Unix(),
	})
	id, err := u.Read(context.Background(), valid)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", id.Email)
	assert.Equal(t, "org-1", id.OrganizationID)
	assert.Equal(t, now.Add(time.Hour).Unix(), id.ExpiresAt.Unix())

	expired := signToken(t, "", jwt.MapClaims{"email": "a@b.com", "exp": now.Add(-time.Minute).Unix()})
	_, err = u.Read(context.Background(), expired)
	assert.ErrorIs(t, err, ErrTokenExpired)

	noEmail := signToken(t, "", jwt.MapClaims{"exp": now.Add(time.Hour).Unix()})
	_, err = u.Read(context.Background(), noEmail)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = u.Read(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func newJWKSServer(t *testing.T, kid string) *httptest.Server {
	t.Helper()
	k := base64.RawURLEncoding.EncodeToString(testSecret)
	body := fmt.Sprintf(`{"keys":[{"kty":"oct","kid":%q,"alg":"HS256","k":%q}]}`, kid, k)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestJWKSClaims_Read(t *testing.T) {
	srv := newJWKSServer(t, "k1")
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	reader, err := NewJWKSClaims(ctx, srv.URL)
	require.NoError(t, err)

	exp := time.Now().Add(time.Hour).Unix()

	id, err := reader.Read(ctx, signToken(t, "k1", jwt.MapClaims{"email": "a@b.com", "exp": exp}))
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", id.Email)

	_, err = reader.Read(ctx, signToken(t, "", jwt.MapClaims{"email": "a@b.com", "exp": exp}))
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = reader.Read(ctx, signToken(t, "other", jwt.MapClaims{"email": "a@b.com", "exp": exp}))
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := signToken(t, "k1", jwt.MapClaims{"email": "a@b.com", "exp": time.Now().Add(-time.Hour).Unix()})
	_, err = reader.Read(ctx, expired)
	assert.ErrorIs(t, err, ErrTokenExpired)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"email": "a@b.com", "exp": exp})
	forged.Header["kid"] = "k1"
	s, err := forged.SignedString([]byte("a-different-secret-of-32-bytes!!"))
	require.NoError(t, err)
	_, err = reader.Read(ctx, s)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewJWKSClaims_UnreachableURL(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewJWKSClaims(context.Background(), url)
	assert.ErrorIs(t, err, ErrFetchJWKSet)
}
