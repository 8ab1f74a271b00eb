// Package client calls the dashboard HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/vaxstock/backend-go/internal/domain"
	"github.com/andresuchdata/vaxstock/backend-go/internal/report"
)

const defaultTimeout = 15 * time.Second

var (
	// ErrUnreachable wraps transport failures: DNS, refused connections, CORS-style
	// network errors, timeouts.
	ErrUnreachable = errors.New("cannot reach the API: check the API address and network")
	// ErrInvalidCredentials is returned for any non-2xx login response.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// APIError is a non-2xx response outside of login.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

// GroupsResponse is the body of GET /api/groups.
type GroupsResponse struct {
	Groups   report.Directory `json:"groups"`
	Warnings []report.Warning `json:"warnings"`
}

type Client struct {
	base string
	http *http.Client
}

func New(base string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	body := map[string]string{"username": username, "password": password}

	var session domain.Session
	err := c.do(ctx, http.MethodPost, "/api/login", body, &session)
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// FetchData returns the dashboard snapshot. Missing sections decode as empty.
func (c *Client) FetchData(ctx context.Context) (*domain.Snapshot, error) {
	var snap domain.Snapshot
	if err := c.do(ctx, http.MethodGet, "/api/data", nil, &snap); err != nil {
		return nil, err
	}
	if snap.Locations == nil {
		snap.Locations = []domain.Facility{}
	}
	if snap.Inventory == nil {
		snap.Inventory = []domain.CounterRecord{}
	}
	snap.Demo = snap.Demo.WithTotal()
	return &snap, nil
}

func (c *Client) SubmitInventory(ctx context.Context, entry domain.InventoryEntry) error {
	return c.do(ctx, http.MethodPost, "/api/inventory", entry, nil)
}

func (c *Client) SaveDemographics(ctx context.Context, demo domain.Demographics) error {
	return c.do(ctx, http.MethodPost, "/api/demographics", demo, nil)
}

func (c *Client) Groups(ctx context.Context) (*GroupsResponse, error) {
	var resp GroupsResponse
	if err := c.do(ctx, http.MethodGet, "/api/groups", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("error encoding request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("error building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		return &APIError{Status: resp.StatusCode, Message: errBody.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("error decoding %s response: %w", path, err)
	}
	return nil
}
