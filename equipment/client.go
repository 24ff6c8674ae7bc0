// Package equipment talks to the equipment endpoints of the EquipChain API
// on behalf of the logged-in user.
package equipment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"equipchain-web/logging"
	"equipchain-web/validation"
)

const (
	equipmentPath   = "/api/equipment"
	requestIDHeader = "X-Request-ID"
)

var (
	// ErrUnauthorized means the API refused the bearer token (401 or 403).
	ErrUnauthorized = errors.New("equipment api rejected credentials")
	ErrNotFound     = errors.New("equipment not found")
	ErrUnavailable  = errors.New("equipment api unavailable")
	ErrUnexpected   = errors.New("unexpected equipment api response")
)

// Record is one piece of equipment as returned by the API.
type Record struct {
	ID              uuid.UUID `json:"id"`
	SerialNumber    string    `json:"serial_number"`
	Make            string    `json:"make"`
	Model           string    `json:"model"`
	Location        *string   `json:"location,omitempty"`
	StatusID        int       `json:"status_id"`
	Notes           *string   `json:"notes,omitempty"`
	PurchasedDate   *string   `json:"purchased_date,omitempty"`
	WarrantyExpires *string   `json:"warranty_expires,omitempty"`
	CreatedAt       string    `json:"created_at"`
	UpdatedAt       string    `json:"updated_at"`
}

type listResponse struct {
	Equipment []Record `json:"equipment"`
	Total     int      `json:"total"`
}

type createRequest struct {
	SerialNumber    string  `json:"serial_number"`
	Make            string  `json:"make"`
	Model           string  `json:"model"`
	Location        *string `json:"location,omitempty"`
	StatusID        *int    `json:"status_id,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	PurchasedDate   *string `json:"purchased_date,omitempty"`
	WarrantyExpires *string `json:"warranty_expires,omitempty"`
}

func newCreateRequest(e validation.Equipment) createRequest {
	req := createRequest{
		SerialNumber: e.SerialNumber,
		Make:         e.Make,
		Model:        e.Model,
		Location:     e.Location,
		StatusID:     e.StatusID,
		Notes:        e.Notes,
	}
	if e.PurchasedDate != nil {
		s := e.PurchasedDate.Format(validation.DateLayout)
		req.PurchasedDate = &s
	}
	if e.WarrantyExpires != nil {
		s := e.WarrantyExpires.Format(validation.DateLayout)
		req.WarrantyExpires = &s
	}
	return req
}

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client calls the equipment endpoints with a bearer token.
type Client struct {
	httpClient *http.Client
	baseURL    string
	log        logging.Logger
}

// NewClient creates a Client. A nil httpClient gets one with cfg.Timeout.
func NewClient(cfg Config, httpClient *http.Client, log logging.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		log:        log.With("component", "equipment"),
	}
}

// List returns every record visible to the token's organization.
func (c *Client) List(ctx context.Context, token string) ([]Record, error) {
	var body listResponse
	if err := c.do(ctx, http.MethodGet, equipmentPath, token, nil, &body); err != nil {
		return nil, err
	}
	return body.Equipment, nil
}

// Create stores a validated record and returns it as the API saved it.
func (c *Client) Create(ctx context.Context, token string, e validation.Equipment) (Record, error) {
	var rec Record
	if err := c.do(ctx, http.MethodPost, equipmentPath, token, newCreateRequest(e), &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (c *Client) Delete(ctx context.Context, token string, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, equipmentPath+"/"+url.PathEscape(id.String()), token, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(requestIDHeader, requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn(ctx, "equipment request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: status %d", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		_, _ = io.Copy(io.Discard, resp.Body)
		c.log.Info(ctx, "equipment request rejected", "method", method, "path", path, "request_id", requestID, "status", resp.StatusCode)
		return fmt.Errorf("%w: status %d", ErrUnexpected, resp.StatusCode)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %w", ErrUnexpected, err)
	}
	return nil
}
