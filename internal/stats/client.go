// Package stats provides the statistics sources polled by the dashboard:
// a remote panel's /api/stats endpoint or the local database.
package stats

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"modpanel/internal/db"
	"modpanel/internal/model"
)

// Source yields statistics snapshots.
type Source interface {
	Stats(ctx context.Context) (model.Stats, error)
}

// Client fetches statistics from a remote panel.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a client for the panel at baseURL. token is sent as a
// bearer token when non-empty.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// Stats performs GET {baseURL}/api/stats.
func (c *Client) Stats(ctx context.Context) (model.Stats, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/stats", nil)
	if err != nil {
		return model.Stats{}, fmt.Errorf("request creation failed: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.Stats{}, fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.Stats{}, fmt.Errorf("API error: status %d", resp.StatusCode)
	}

	var s model.Stats
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return model.Stats{}, fmt.Errorf("JSON decode error: %w", err)
	}
	return s, nil
}

// Local computes statistics from the panel database.
type Local struct {
	DB  *sql.DB
	Now func() time.Time
}

// Stats implements Source.
func (l Local) Stats(ctx context.Context) (model.Stats, error) {
	if err := ctx.Err(); err != nil {
		return model.Stats{}, err
	}
	now := time.Now
	if l.Now != nil {
		now = l.Now
	}
	return db.Stats(l.DB, now())
}
