// Package relay forwards verdict batches to the downstream collector.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/microsoc/command-centre/internal/models"
)

// Client posts JSON arrays of verdicts to a configured URL. Any 2xx response
// is success; everything else is an error the caller logs and moves past.
type Client struct {
	url    string
	client *http.Client
}

// New returns a relay client for the given collector URL.
func New(url string) *Client {
	return &Client{
		url: url,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// Send delivers one batch. The body of a non-2xx response is included in the
// error, truncated, so operators can see what the collector rejected.
func (c *Client) Send(ctx context.Context, batch []models.Verdict) error {
	if len(batch) == 0 {
		return nil
	}

	body, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("encode verdict batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send verdict batch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("collector returned status %d: %s", resp.StatusCode, snippet)
	}
	return nil
}
