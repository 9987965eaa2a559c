// Package intel wraps the optional reputation/ML scoring collaborator. The
// engine only ever sees (label, confidence) or "unavailable"; the model
// behind the endpoint is somebody else's problem.
package intel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/microsoc/command-centre/internal/models"
)

// Client scores requests against a remote reputation/ML endpoint.
type Client struct {
	url    string
	client *http.Client
}

// New returns a scoring client for the given endpoint. An empty URL yields a
// nil client, which callers treat as "collaborator absent".
func New(url string) *Client {
	if url == "" {
		return nil
	}
	return &Client{
		url: url,
		client: &http.Client{
			Timeout: 2 * time.Second,
		},
	}
}

type scoreRequest struct {
	IP        string `json:"ip"`
	Path      string `json:"path"`
	Method    string `json:"method"`
	UserAgent string `json:"user_agent"`
}

type scoreResponse struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Score asks the collaborator for a label and confidence. Every failure mode
// (transport error, timeout, bad status, malformed body) returns an error the
// caller maps to "no signal".
func (c *Client) Score(ctx context.Context, req models.DecisionRequest) (string, float64, error) {
	body, err := json.Marshal(scoreRequest{
		IP:        req.IP,
		Path:      req.Path,
		Method:    req.Method,
		UserAgent: req.UserAgent,
	})
	if err != nil {
		return "", 0, fmt.Errorf("encode score request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", 0, fmt.Errorf("build score request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", 0, fmt.Errorf("score lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", 0, fmt.Errorf("score lookup returned status %d", resp.StatusCode)
	}

	var out scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", 0, fmt.Errorf("decode score response: %w", err)
	}

	return out.Label, out.Confidence, nil
}
