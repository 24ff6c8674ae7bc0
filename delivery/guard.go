package delivery

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"
)

const (
	csrfCookieName = "csrf_token"
	csrfFieldName  = "csrf_token"

	msgForbidden = "The request could not be verified. Reload the page and try again."
)

type csrfTokenKey struct{}

// generateCSRFToken returns 32 random bytes, base64 encoded.
func generateCSRFToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func csrfTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(csrfTokenKey{}).(string)
	return token
}

// allowHosts rejects requests whose Host header is not in hosts. An empty
// list admits every host.
func (h *HTTPEndpoint) allowHosts(hosts []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(hosts))
	for _, host := range hosts {
		allowed[strings.ToLower(host)] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(allowed) > 0 {
				if _, ok := allowed[strings.ToLower(r.Host)]; !ok {
					h.app.Logger().Warn(r.Context(), "rejected request for unknown host", "host", r.Host)
					http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// csrfToken hands every browser a token cookie and exposes the token to the
// page templates.
func (h *HTTPEndpoint) csrfToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var token string
		if c, err := r.Cookie(csrfCookieName); err == nil && c.Value != "" {
			token = c.Value
		} else {
			token, err = generateCSRFToken()
			if err != nil {
				h.app.Logger().Error(r.Context(), "failed to generate csrf token", "error", err)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     csrfCookieName,
				Value:    token,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteStrictMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), csrfTokenKey{}, token)))
	})
}

// verifySameOrigin requires state-changing requests to come from this origin
// and to echo the cookie token in the csrf_token form field. It must run
// after csrfToken.
func (h *HTTPEndpoint) verifySameOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if safeMethod(r.Method) {
			next.ServeHTTP(w, r)
			return
		}

		if crossSite(r) {
			h.app.Logger().Warn(r.Context(), "rejected cross-site request",
				"method", r.Method, "path", r.URL.Path, "origin", r.Header.Get("Origin"))
			h.errorPage(w, r, http.StatusForbidden, msgForbidden)
			return
		}

		_, err := r.Cookie(csrfCookieName)
		token := csrfTokenFromContext(r.Context())
		if err != nil || token == "" || !hmac.Equal([]byte(r.PostFormValue(csrfFieldName)), []byte(token)) {
			h.app.Logger().Warn(r.Context(), "rejected request with bad csrf token",
				"method", r.Method, "path", r.URL.Path)
			h.errorPage(w, r, http.StatusForbidden, msgForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func safeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// crossSite reports whether the browser says the request came from another
// site. Requests without either header, like those from curl, pass.
func crossSite(r *http.Request) bool {
	switch r.Header.Get("Sec-Fetch-Site") {
	case "", "same-origin", "none":
	default:
		return true
	}

	origin := r.Header.Get("Origin")
	if origin == "" {
		return false
	}
	u, err := url.Parse(origin)
	if err != nil {
		return true
	}
	return !strings.EqualFold(u.Host, r.Host)
}
