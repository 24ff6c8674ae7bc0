package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"equipchain-web/logging"
)

const (
	loginPath    = "/api/auth/login"
	registerPath = "/api/auth/register"
)

// HTTPClientConfig holds configuration for the EquipChain auth client.
type HTTPClientConfig struct {
	// BaseURL is the API root, e.g. http://127.0.0.1:8080.
	BaseURL string
	Timeout time.Duration
}

type authRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	OrganizationID string `json:"organization_id"`
}

type authResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

// HTTPClient implements Authenticator against the EquipChain REST API.
type HTTPClient struct {
	httpClient *http.Client
	claims     ClaimsReader
	log        logging.Logger
	cfg        HTTPClientConfig
}

var _ Authenticator = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient. A nil httpClient gets a client with
// cfg.Timeout; a nil claims reader falls back to UnverifiedClaims.
func NewHTTPClient(cfg HTTPClientConfig, httpClient *http.Client, claims ClaimsReader, log logging.Logger) *HTTPClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if claims == nil {
		claims = NewUnverifiedClaims()
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &HTTPClient{
		httpClient: httpClient,
		claims:     claims,
		log:        log.With("component", "authclient.http"),
		cfg:        cfg,
	}
}

func (c *HTTPClient) Login(ctx context.Context, cred Credentials) (Result, error) {
	return c.post(ctx, loginPath, cred)
}

func (c *HTTPClient) Register(ctx context.Context, cred Credentials) (Result, error) {
	return c.post(ctx, registerPath, cred)
}

// Resume reads the identity out of the JWT the API issued.
func (c *HTTPClient) Resume(ctx context.Context, token string) (Identity, error) {
	return c.claims.Read(ctx, token)
}

// post sends the credentials and decodes {token, email}. Any non-2xx status
// is ErrRejected; the body of a failed response is not inspected.
func (c *HTTPClient) post(ctx context.Context, path string, cred Credentials) (Result, error) {
	payload, err := json.Marshal(authRequest{
		Email:          cred.Email,
		Password:       cred.Password,
		OrganizationID: cred.OrganizationID,
	})
	if err != nil {
		return Result{}, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("new request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn(ctx, "auth request failed", "path", path, "request_id", requestID, "error", err)
		return Result{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		c.log.Info(ctx, "auth request rejected", "path", path, "request_id", requestID, "status", resp.StatusCode)
		return Result{}, fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	}

	var body authResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if body.Token == "" {
		return Result{}, fmt.Errorf("%w: empty token", ErrMalformedResponse)
	}

	return Result{Token: body.Token, Email: body.Email}, nil
}
