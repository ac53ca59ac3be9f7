// Package client talks to the trainload REST API and keeps a local mirror
// of the dataset for front ends.
package client

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

	"github.com/claude/trainload/internal/models"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status    int
	Message   string
	RequestID string
}

func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("server returned %d: %s (request %s)", e.Status, e.Message, e.RequestID)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Client calls the trainload REST API. It never retries; callers see every
// failure.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client targeting the given base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// BaseURL returns the server address the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do sends a request and decodes a 2xx JSON response into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	switch v := in.(type) {
	case nil:
	case []byte:
		body = bytes.NewReader(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("client: encode %s: %w", path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("client: create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("client: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(data))}
		var eb struct {
			Error     string `json:"error"`
			RequestID string `json:"requestId"`
		}
		if json.Unmarshal(data, &eb) == nil && eb.Error != "" {
			apiErr.Message = eb.Error
			apiErr.RequestID = eb.RequestID
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("client: decode %s: %w", path, err)
	}
	return nil
}

// GetData fetches the whole dataset.
func (c *Client) GetData(ctx context.Context) (*models.Dataset, error) {
	var ds models.Dataset
	if err := c.do(ctx, http.MethodGet, "/api/data", nil, &ds); err != nil {
		return nil, err
	}
	ds.Normalize()
	return &ds, nil
}

// ReplaceData overwrites the server's dataset.
func (c *Client) ReplaceData(ctx context.Context, ds *models.Dataset) error {
	return c.do(ctx, http.MethodPut, "/api/data", ds, nil)
}

// AddPlayer creates a player and returns it as stored by the server.
func (c *Client) AddPlayer(ctx context.Context, name string) (*models.Player, error) {
	var p models.Player
	if err := c.do(ctx, http.MethodPost, "/api/players", models.PlayerInput{Name: name}, &p); err != nil {
		return nil, err
	}
	if p.Sessions == nil {
		p.Sessions = []models.Session{}
	}
	return &p, nil
}

// DeletePlayer removes a player and its sessions.
func (c *Client) DeletePlayer(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/players/"+url.PathEscape(id), nil, nil)
}

// AddSession records a session. The returned session carries the
// server-computed training load.
func (c *Client) AddSession(ctx context.Context, playerID string, s models.Session) (*models.Session, error) {
	in := struct {
		Date     string `json:"date"`
		Duration int    `json:"duration"`
		RPE      int    `json:"rpe"`
		Notes    string `json:"notes"`
	}{s.Date, s.Duration, s.RPE, s.Notes}

	var out models.Session
	if err := c.do(ctx, http.MethodPost, "/api/players/"+url.PathEscape(playerID)+"/sessions", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Import posts a raw import payload and returns the number of players the
// server created.
func (c *Client) Import(ctx context.Context, payload []byte) (int, error) {
	var out struct {
		Success      bool `json:"success"`
		AddedPlayers int  `json:"addedPlayers"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/import", payload, &out); err != nil {
		return 0, err
	}
	return out.AddedPlayers, nil
}

// Clear deletes every player and session on the server.
func (c *Client) Clear(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/data", nil, nil)
}

// Health checks that the server is reachable.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}
