// Package stats fetches dashboard statistics from the backend.
package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"dashsync/internal/models"
)

// Path is the backend endpoint serving DashboardStats.
const Path = "/api/dashboard_stats"

// ErrStatus is returned for any non-2xx response.
var ErrStatus = errors.New("network response was not ok")

// maxBody caps how much of a response is read.
const maxBody = 1 << 20

// Client fetches stats over HTTP.
type Client struct {
	url  string
	http *http.Client
}

// NewClient builds a client for the given URL. A URL without a path is
// completed with Path.
func NewClient(url string, timeout time.Duration) *Client {
	url = strings.TrimRight(url, "/")
	if !strings.HasSuffix(url, Path) && strings.Count(url, "/") <= 2 {
		url += Path
	}
	return &Client{
		url:  url,
		http: &http.Client{Timeout: timeout},
	}
}

// URL returns the endpoint the client polls.
func (c *Client) URL() string {
	return c.url
}

// Fetch performs one GET and decodes the payload.
func (c *Client) Fetch(ctx context.Context) (*models.DashboardStats, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return nil, fmt.Errorf("%w: status %d", ErrStatus, resp.StatusCode)
	}
	var stats models.DashboardStats
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&stats); err != nil {
		return nil, fmt.Errorf("decode dashboard stats: %w", err)
	}
	return &stats, nil
}
