// Package client talks to the backend's calendar API on behalf of the
// terminal client.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/calevents/calevents/internal/calendar"
)

// APIError is the backend's structured failure response.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"error"`
	Details string `json:"details"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend returned status %d", e.Status)
}

// Client posts credentials to the backend and decodes the event list.
type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a client for the backend at baseURL. A nil httpClient falls
// back to http.DefaultClient.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

type credentialRequest struct {
	Token string `json:"token,omitempty"`
	Code  string `json:"code,omitempty"`
}

// FetchEvents authenticates with a Google identity token.
func (c *Client) FetchEvents(ctx context.Context, token string) ([]calendar.Event, error) {
	return c.post(ctx, credentialRequest{Token: token})
}

// FetchEventsWithCode authenticates with an OAuth authorization code.
func (c *Client) FetchEventsWithCode(ctx context.Context, code string) ([]calendar.Event, error) {
	return c.post(ctx, credentialRequest{Code: code})
}

func (c *Client) post(ctx context.Context, req credentialRequest) ([]calendar.Event, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/calendar", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call backend: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		apiErr := &APIError{Status: res.StatusCode}
		// Best effort; a non-JSON body leaves the status-based message.
		_ = json.NewDecoder(res.Body).Decode(apiErr)
		return nil, apiErr
	}

	var events []calendar.Event
	if err := json.NewDecoder(res.Body).Decode(&events); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return events, nil
}
