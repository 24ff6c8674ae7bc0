package delivery

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrossSiteRequestsAreRejected(t *testing.T) {
	id := uuid.MustParse("00000000-0000-0000-0000-000000000001")

	tests := []struct {
		name    string
		headers map[string]string
	}{
		{name: "cross-site fetch metadata and origin", headers: map[string]string{
			"Origin":         "https://evil.example",
			"Sec-Fetch-Site": "cross-site",
		}},
		{name: "foreign origin only", headers: map[string]string{"Origin": "https://evil.example"}},
		{name: "same-site sibling", headers: map[string]string{"Sec-Fetch-Site": "same-site"}},
		{name: "opaque origin", headers: map[string]string{"Origin": "null"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, app := newTestRouter(t)
			loggedIn(app)

			req := newPost("/dashboard/equipment/"+id.String()+"/delete", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusForbidden, rec.Code)
			assert.Contains(t, rec.Body.String(), msgForbidden)
			assert.Equal(t, uuid.Nil, app.eq.deleted)
			assert.Empty(t, app.eq.lastToken)
		})
	}
}

func TestSameOriginPostIsAccepted(t *testing.T) {
	h, app := newTestRouter(t)
	loggedIn(app)

	req := newPost("/logout", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Sec-Fetch-Site", "same-origin")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, 1, app.sess.loggedOut)
}

func TestCSRFTokenIsRequired(t *testing.T) {
	form := url.Values{"email": {"a@b.com"}, "password": {"secret1"}}

	t.Run("missing cookie and field", func(t *testing.T) {
		h, app := newTestRouter(t)
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Empty(t, app.sess.calls)
	})

	t.Run("field does not match cookie", func(t *testing.T) {
		h, app := newTestRouter(t)
		loggedIn(app)
		body := url.Values{csrfFieldName: {"forged"}}
		req := httptest.NewRequest(http.MethodPost, "/logout", strings.NewReader(body.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: testCSRFToken})
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Zero(t, app.sess.loggedOut)
	})
}

func TestCSRFTokenIsIssuedAndRendered(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := get(h, "/login")
	require.Equal(t, http.StatusOK, rec.Code)

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == csrfCookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.Contains(t, rec.Body.String(), `name="csrf_token" value="`+cookie.Value+`"`)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: testCSRFToken})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Result().Cookies())
	assert.Contains(t, rec.Body.String(), `value="`+testCSRFToken+`"`)
}

func TestDeleteModalCarriesCSRFToken(t *testing.T) {
	h, app := newTestRouter(t)
	loggedIn(app)
	app.eq.records = sampleRecords()

	req := httptest.NewRequest(http.MethodGet, "/dashboard?confirm=00000000-0000-0000-0000-000000000001", nil)
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: testCSRFToken})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	modal := body[strings.Index(body, `class="modal-footer"`):]
	assert.Contains(t, modal, `name="csrf_token" value="`+testCSRFToken+`"`)
}

func TestUnknownHostIsRejected(t *testing.T) {
	h, app := newTestRouter(t)
	loggedIn(app)
	app.eq.records = sampleRecords()

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Host = "rebound.evil.example:3000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NotContains(t, rec.Body.String(), "SN-ONE")
	assert.Empty(t, app.eq.lastToken)
}

func mustTemplates(t *testing.T) *Templates {
	t.Helper()
	tmpl, err := ParseAllTemplates()
	require.NoError(t, err)
	return tmpl
}
