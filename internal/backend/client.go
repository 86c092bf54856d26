// Package backend talks to the recovery backend: the service that owns the
// customer data, computes segment availability and actually sends messages.
package backend

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

	"recoverydesk/internal/metrics"
)

var (
	// ErrBackendStatus is returned when the backend answers with a non-2xx status.
	ErrBackendStatus = errors.New("backend returned an error status")
	// ErrBackendDecode is returned when a backend response cannot be decoded.
	ErrBackendDecode = errors.New("failed to decode backend response")
)

// Options configures a Client.
type Options struct {
	BaseURL            string
	APIKey             string
	Timeout            time.Duration
	RecommendationPath string
	LaunchPath         string
}

// Client is an HTTP client for the recovery backend.
type Client struct {
	baseURL            string
	apiKey             string
	recommendationPath string
	launchPath         string
	http               *http.Client
}

// NewClient creates a backend client.
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:            strings.TrimRight(opts.BaseURL, "/"),
		apiKey:             opts.APIKey,
		recommendationPath: opts.RecommendationPath,
		launchPath:         opts.LaunchPath,
		http:               &http.Client{Timeout: timeout},
	}
}

// do sends a JSON request and decodes a JSON response into out (if non-nil).
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "RecoveryDesk/1.0")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordBackendError(op, "transport")
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.RecordBackendError(op, "status")
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s: %w: %s: %s", op, ErrBackendStatus, resp.Status, strings.TrimSpace(string(snippet)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.RecordBackendError(op, "decode")
		return fmt.Errorf("%s: %w: %v", op, ErrBackendDecode, err)
	}
	return nil
}
